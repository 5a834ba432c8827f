// Package index implements the staging index: an ordered table mapping
// repository-relative paths to the ids of their staged content.
package index

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/odvcencio/grove/pkg/object"
)

// File modes recorded for staged entries. Modes are index metadata only and
// do not take part in tree ids.
const (
	ModeFile       = "100644"
	ModeExecutable = "100755"
)

// ErrInvalidPath is returned for paths that cannot be stored in the index.
var ErrInvalidPath = errors.New("invalid index path")

// Entry records the staged state of a single file.
type Entry struct {
	Path    string      `json:"path"`
	Hash    object.Hash `json:"hash"`
	Mode    string      `json:"mode"`
	Size    int64       `json:"size"`
	ModTime int64       `json:"mod_time"`
}

// BlobWriter stores file content and returns its id.
type BlobWriter interface {
	Put(data []byte) (object.Hash, error)
}

// Index holds entries sorted by Path in byte order. The zero value is an
// empty index.
type Index struct {
	entries []Entry
}

// New returns an empty index.
func New() *Index {
	return &Index{}
}

// Len returns the number of tracked paths.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// search returns the position of p, or where it would be inserted.
func (ix *Index) search(p string) (int, bool) {
	i := sort.Search(len(ix.entries), func(i int) bool {
		return ix.entries[i].Path >= p
	})
	return i, i < len(ix.entries) && ix.entries[i].Path == p
}

// Lookup returns the entry for p.
func (ix *Index) Lookup(p string) (Entry, bool) {
	i, ok := ix.search(p)
	if !ok {
		return Entry{}, false
	}
	return ix.entries[i], true
}

// Entries returns a copy of all entries in ascending path order. With a
// prefix, only entries equal to it or nested under it are returned; "" and
// "." select everything.
func (ix *Index) Entries(prefix ...string) []Entry {
	p := ""
	if len(prefix) > 0 {
		p = strings.TrimSuffix(prefix[0], "/")
	}
	if p == "" || p == "." {
		out := make([]Entry, len(ix.entries))
		copy(out, ix.entries)
		return out
	}

	var out []Entry
	start, _ := ix.search(p)
	for _, e := range ix.entries[start:] {
		if !strings.HasPrefix(e.Path, p) {
			break
		}
		if e.Path == p || strings.HasPrefix(e.Path, p+"/") {
			out = append(out, e)
		}
	}
	return out
}

// Set inserts or overwrites the entry for e.Path. Entries that collide with
// it as a directory/file pair are dropped: a file at one of e.Path's parent
// directories, or anything nested under e.Path.
func (ix *Index) Set(e Entry) error {
	if err := ValidatePath(e.Path); err != nil {
		return err
	}
	if !e.Hash.Valid() {
		return fmt.Errorf("index set %q: %w", e.Path, object.ErrInvalidHash)
	}
	e.Mode = normalizeMode(e.Mode)

	ix.removeConflicts(e.Path)

	i, ok := ix.search(e.Path)
	if ok {
		ix.entries[i] = e
		return nil
	}
	ix.entries = append(ix.entries, Entry{})
	copy(ix.entries[i+1:], ix.entries[i:])
	ix.entries[i] = e
	return nil
}

func (ix *Index) removeConflicts(p string) {
	parents := make(map[string]struct{})
	for dir := path.Dir(p); dir != "."; dir = path.Dir(dir) {
		parents[dir] = struct{}{}
	}
	kept := ix.entries[:0]
	for _, e := range ix.entries {
		if _, isParent := parents[e.Path]; isParent {
			continue
		}
		if strings.HasPrefix(e.Path, p+"/") {
			continue
		}
		kept = append(kept, e)
	}
	ix.entries = kept
}

// Stage writes content through w and records the resulting id for p. info
// supplies mode, size and modification time and may be nil. Staging content
// identical to what is already recorded leaves the entry as it was.
func (ix *Index) Stage(w BlobWriter, p string, content []byte, info fs.FileInfo) (object.Hash, error) {
	if err := ValidatePath(p); err != nil {
		return "", err
	}
	h, err := w.Put(content)
	if err != nil {
		return "", fmt.Errorf("stage %q: %w", p, err)
	}

	e := Entry{Path: p, Hash: h, Mode: ModeFile, Size: int64(len(content))}
	if info != nil {
		e.Mode = ModeFromFileInfo(info)
		e.ModTime = info.ModTime().Unix()
	}
	if prev, ok := ix.Lookup(p); ok && prev.Hash == h && prev.Mode == e.Mode {
		return h, nil
	}
	if err := ix.Set(e); err != nil {
		return "", err
	}
	return h, nil
}

// ValidatePath checks that p is a clean, relative, slash-separated path.
func ValidatePath(p string) error {
	switch {
	case p == "" || p == ".":
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	case strings.HasPrefix(p, "/"):
		return fmt.Errorf("%w: %q is absolute", ErrInvalidPath, p)
	case strings.ContainsAny(p, "\n\x00"):
		return fmt.Errorf("%w: %q contains a forbidden character", ErrInvalidPath, p)
	case path.Clean(p) != p:
		return fmt.Errorf("%w: %q is not clean", ErrInvalidPath, p)
	case p == ".." || strings.HasPrefix(p, "../"):
		return fmt.Errorf("%w: %q is outside the repository", ErrInvalidPath, p)
	}
	return nil
}

// ModeFromFileInfo maps permission bits to a tree mode string.
func ModeFromFileInfo(info fs.FileInfo) string {
	if info.Mode()&0o111 != 0 {
		return ModeExecutable
	}
	return ModeFile
}

func normalizeMode(mode string) string {
	if mode == ModeExecutable {
		return ModeExecutable
	}
	return ModeFile
}
