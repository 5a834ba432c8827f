package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Version is the on-disk format version written by Save.
const Version = 1

// ErrCorrupt is returned when a persisted index violates its invariants.
var ErrCorrupt = errors.New("corrupt index")

type fileFormat struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

// Load reads the index stored at file. If the file does not exist, an empty
// index is returned (no error).
func Load(file string) (*Index, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("read index: %w", err)
	}

	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("read index: %w: %v", ErrCorrupt, err)
	}
	if ff.Version != Version {
		return nil, fmt.Errorf("read index: %w: unsupported version %d", ErrCorrupt, ff.Version)
	}

	for i, e := range ff.Entries {
		if err := ValidatePath(e.Path); err != nil {
			return nil, fmt.Errorf("read index: %w: %v", ErrCorrupt, err)
		}
		if !e.Hash.Valid() {
			return nil, fmt.Errorf("read index: %w: entry %q has invalid hash %q", ErrCorrupt, e.Path, e.Hash)
		}
		if e.Mode != ModeFile && e.Mode != ModeExecutable {
			return nil, fmt.Errorf("read index: %w: entry %q has unknown mode %q", ErrCorrupt, e.Path, e.Mode)
		}
		if i > 0 && ff.Entries[i-1].Path >= e.Path {
			return nil, fmt.Errorf("read index: %w: entries out of order at %q", ErrCorrupt, e.Path)
		}
	}
	return &Index{entries: ff.Entries}, nil
}

// Save atomically rewrites the whole index at file.
func (ix *Index) Save(file string) error {
	ff := fileFormat{Version: Version, Entries: ix.entries}
	if ff.Entries == nil {
		ff.Entries = []Entry{}
	}
	data, err := json.MarshalIndent(ff, "", "  ")
	if err != nil {
		return fmt.Errorf("write index: marshal: %w", err)
	}

	// Atomic write via temp file + rename.
	tmp, err := os.CreateTemp(filepath.Dir(file), ".index-tmp-*")
	if err != nil {
		return fmt.Errorf("write index: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write index: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write index: close: %w", err)
	}

	if err := os.Rename(tmpName, file); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write index: rename: %w", err)
	}
	return nil
}
