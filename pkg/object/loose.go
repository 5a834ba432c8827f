package object

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LooseBackend keeps one file per object with a 2-character fan-out
// directory layout: objects/ab/cdef0123...
type LooseBackend struct {
	dir string
}

// NewLooseBackend returns a backend rooted at dir. Directories are created
// lazily on first write.
func NewLooseBackend(dir string) *LooseBackend {
	return &LooseBackend{dir: dir}
}

// objectPath returns the filesystem path for a given hash. h must be Valid.
func (b *LooseBackend) objectPath(h Hash) string {
	return filepath.Join(b.dir, string(h[:2]), string(h[2:]))
}

func (b *LooseBackend) Has(h Hash) (bool, error) {
	if !h.Valid() {
		return false, nil
	}
	_, err := os.Stat(b.objectPath(h))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (b *LooseBackend) Get(h Hash) ([]byte, error) {
	if !h.Valid() {
		return nil, ErrObjectNotFound
	}
	raw, err := os.ReadFile(b.objectPath(h))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return raw, nil
}

// Put writes to a temp file in the fan-out directory and renames it into
// place.
func (b *LooseBackend) Put(h Hash, raw []byte) error {
	if !h.Valid() {
		return fmt.Errorf("put %q: %w", h, ErrInvalidHash)
	}
	dir := filepath.Join(b.dir, string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close: %w", err)
	}

	if err := os.Rename(tmpName, b.objectPath(h)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (b *LooseBackend) Close() error { return nil }
