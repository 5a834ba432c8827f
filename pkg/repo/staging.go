package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/odvcencio/grove/pkg/index"
	"github.com/odvcencio/grove/pkg/object"
)

// indexPath returns the filesystem path to the staging index file.
func (r *Repo) indexPath() string {
	return filepath.Join(r.GroveDir, "index")
}

// ReadIndex loads the staging index. A repository that never staged
// anything has an empty index.
func (r *Repo) ReadIndex() (*index.Index, error) {
	return index.Load(r.indexPath())
}

// WriteIndex atomically replaces the persisted staging index.
func (r *Repo) WriteIndex(ix *index.Index) error {
	if err := ix.Save(r.indexPath()); err != nil {
		return err
	}
	r.log.Debug("index written", zap.Int("entries", ix.Len()))
	return nil
}

// HashObject returns the blob id of the named file's content, storing the
// blob when write is set. An empty path returns an empty hash and no error.
func (r *Repo) HashObject(p string, write bool) (object.Hash, error) {
	if p == "" {
		return "", nil
	}
	display := filepath.ToSlash(p)
	if rel, err := r.relPath(p); err == nil {
		display = rel
	}

	abs := p
	if !filepath.IsAbs(p) {
		abs = filepath.Join(r.WorkDir, p)
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &NoSuchFileError{Path: display}
		}
		return "", newPathError(display, err)
	}

	if !write {
		return r.Store.ComputeID(content), nil
	}
	h, err := r.Store.Put(content)
	if err != nil {
		return "", fmt.Errorf("hash-object %q: %w", display, err)
	}
	return h, nil
}

// Add resolves each pathspec against the working tree and stages every
// regular file it names, creating index entries as needed. The index is
// written once after all files are staged; if any pathspec fails to match,
// nothing is written to the index.
func (r *Repo) Add(pathspecs ...string) error {
	if len(pathspecs) == 0 {
		return ErrNothingSpecified
	}

	var files []string
	seen := make(map[string]struct{})
	for _, spec := range pathspecs {
		rel, err := r.relPath(spec)
		if err != nil {
			return fmt.Errorf("add: %w", err)
		}
		matched, err := r.resolvePathspec(rel)
		if err != nil {
			return fmt.Errorf("add: %w", err)
		}
		if len(matched) == 0 {
			return &PathspecError{Pathspec: rel}
		}
		for _, f := range matched {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			files = append(files, f)
		}
	}

	ix, err := r.ReadIndex()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	for _, f := range files {
		if err := r.stageFile(ix, f); err != nil {
			return fmt.Errorf("add: %w", err)
		}
	}
	if err := r.WriteIndex(ix); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return nil
}

// UpdateIndex stages a single file. Untracked files are only accepted when
// add is set; tracked files are always updated in place. An empty path is a
// no-op.
func (r *Repo) UpdateIndex(p string, add bool) error {
	if p == "" {
		return nil
	}
	rel, err := r.relPath(p)
	if err != nil {
		return &PathError{Path: filepath.ToSlash(p), Err: ErrOutsideRepository}
	}
	if isInternal(rel) {
		return &PathError{Path: rel, Err: index.ErrInvalidPath}
	}

	info, err := os.Lstat(r.absPath(rel))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &PathError{Path: rel, Err: ErrPathNotFound}
	case err != nil:
		return newPathError(rel, err)
	case info.IsDir():
		return &PathError{Path: rel, Err: ErrPathIsDirectory}
	case !info.Mode().IsRegular():
		return &PathError{Path: rel, Err: ErrNotRegularFile}
	}

	ix, err := r.ReadIndex()
	if err != nil {
		return fmt.Errorf("update-index: %w", err)
	}
	if _, tracked := ix.Lookup(rel); !tracked && !add {
		return &PathError{Path: rel, Err: ErrUntrackedPath}
	}
	if err := r.stageFile(ix, rel); err != nil {
		return fmt.Errorf("update-index: %w", err)
	}
	if err := r.WriteIndex(ix); err != nil {
		return fmt.Errorf("update-index: %w", err)
	}
	return nil
}

// stageFile reads a repository-relative file and stages its content in ix.
func (r *Repo) stageFile(ix *index.Index, rel string) error {
	abs := r.absPath(rel)
	content, err := os.ReadFile(abs)
	if err != nil {
		return newPathError(rel, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return newPathError(rel, err)
	}

	h, err := ix.Stage(r.Store, rel, content, info)
	if err != nil {
		return err
	}
	r.log.Debug("staged", zap.String("path", rel), zap.String("hash", string(h)))
	return nil
}

// LsFiles returns the tracked paths in ascending order. With stage set each
// line is "<path> <hash>".
func (r *Repo) LsFiles(stage bool) ([]string, error) {
	ix, err := r.ReadIndex()
	if err != nil {
		return nil, fmt.Errorf("ls-files: %w", err)
	}
	entries := ix.Entries()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if stage {
			out = append(out, e.Path+" "+string(e.Hash))
		} else {
			out = append(out, e.Path)
		}
	}
	return out, nil
}

// CatFile returns the type and content of any stored object.
func (r *Repo) CatFile(h object.Hash) (object.ObjectType, []byte, error) {
	objType, data, err := r.Store.Read(h)
	if err != nil {
		return "", nil, fmt.Errorf("cat-file: %w", err)
	}
	return objType, data, nil
}
