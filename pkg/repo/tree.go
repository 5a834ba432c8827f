package repo

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/odvcencio/grove/pkg/index"
	"github.com/odvcencio/grove/pkg/object"
)

// TreeWriter stores a tree object and returns its id.
type TreeWriter interface {
	WriteTree(tr *object.TreeObj) (object.Hash, error)
}

// TreeFileEntry represents a single file in a flattened tree.
type TreeFileEntry struct {
	Path string
	Hash object.Hash
}

// BuildTree converts flat index entries into a hierarchical tree structure,
// writing one TreeObj per directory level to w and returning the root hash.
//
// Entries use forward-slash paths (e.g. "pkg/util/util.go"). Directories are
// inferred from path segments alone. Only paths and ids shape the result;
// entry modes are ignored. Subtrees are written before the tree that
// references them. With no entries the empty tree is written.
func BuildTree(w TreeWriter, entries []index.Entry) (object.Hash, error) {
	sorted := make([]index.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})
	for _, e := range sorted {
		if err := index.ValidatePath(e.Path); err != nil {
			return "", fmt.Errorf("build tree: %w", err)
		}
	}
	return buildTreeDir(w, "", sorted)
}

// buildTreeDir builds the tree for entries whose paths are relative to
// prefix, writes it and returns its hash.
func buildTreeDir(w TreeWriter, prefix string, entries []index.Entry) (object.Hash, error) {
	// Collect direct children: files and subdirectory contents.
	files := make(map[string]index.Entry)
	subdirs := make(map[string][]index.Entry)

	for _, e := range entries {
		name, rest, nested := strings.Cut(e.Path, "/")
		if !nested {
			files[name] = e
			continue
		}
		e.Path = rest
		subdirs[name] = append(subdirs[name], e)
	}

	names := make([]string, 0, len(files)+len(subdirs))
	for name := range files {
		if _, isDir := subdirs[name]; isDir {
			return "", fmt.Errorf("build tree %q: %w", path.Join(prefix, name), ErrPathConflict)
		}
		names = append(names, name)
	}
	for name := range subdirs {
		names = append(names, name)
	}
	sort.Strings(names)

	tree := &object.TreeObj{Entries: make([]object.TreeEntry, 0, len(names))}
	for _, name := range names {
		if entry, isFile := files[name]; isFile {
			tree.Entries = append(tree.Entries, object.TreeEntry{
				Name: name,
				Hash: entry.Hash,
			})
			continue
		}

		// Subdirectory: recurse.
		childPrefix := path.Join(prefix, name)
		subHash, err := buildTreeDir(w, childPrefix, subdirs[name])
		if err != nil {
			return "", err
		}
		tree.Entries = append(tree.Entries, object.TreeEntry{
			Name:  name,
			IsDir: true,
			Hash:  subHash,
		})
	}

	h, err := w.WriteTree(tree)
	if err != nil {
		return "", fmt.Errorf("write tree (prefix=%q): %w", prefix, err)
	}
	return h, nil
}

// WriteTree builds the tree of the current staging index and returns the
// root tree hash.
func (r *Repo) WriteTree() (object.Hash, error) {
	ix, err := r.ReadIndex()
	if err != nil {
		return "", fmt.Errorf("write-tree: %w", err)
	}
	h, err := BuildTree(r.Store, ix.Entries())
	if err != nil {
		return "", fmt.Errorf("write-tree: %w", err)
	}
	r.log.Debug("tree written", zap.String("hash", string(h)), zap.Int("entries", ix.Len()))
	return h, nil
}

// FlattenTree walks a tree object recursively, returning all file entries
// with their full paths (using forward slashes).
func (r *Repo) FlattenTree(h object.Hash) ([]TreeFileEntry, error) {
	return r.flattenTreeRec(h, "")
}

func (r *Repo) flattenTreeRec(h object.Hash, prefix string) ([]TreeFileEntry, error) {
	treeObj, err := r.Store.ReadTree(h)
	if err != nil {
		return nil, fmt.Errorf("flatten tree: read %s: %w", h, err)
	}

	var result []TreeFileEntry
	for _, entry := range treeObj.Entries {
		fullPath := path.Join(prefix, entry.Name)

		if entry.IsDir {
			sub, err := r.flattenTreeRec(entry.Hash, fullPath)
			if err != nil {
				return nil, err
			}
			result = append(result, sub...)
		} else {
			result = append(result, TreeFileEntry{
				Path: fullPath,
				Hash: entry.Hash,
			})
		}
	}
	return result, nil
}
