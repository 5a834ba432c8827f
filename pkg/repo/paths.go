package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// relPath converts p (absolute, or relative to WorkDir) into a clean
// slash-separated path relative to the repository root. The root itself is
// ".". Paths outside the working tree return ErrOutsideRepository.
func (r *Repo) relPath(p string) (string, error) {
	abs := p
	if !filepath.IsAbs(p) {
		abs = filepath.Join(r.WorkDir, p)
	}
	rel, err := filepath.Rel(r.RootDir, abs)
	if err != nil {
		return "", fmt.Errorf("%q: %w", p, ErrOutsideRepository)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%q: %w", p, ErrOutsideRepository)
	}
	return rel, nil
}

// absPath maps a repository-relative path onto the filesystem.
func (r *Repo) absPath(rel string) string {
	return filepath.Join(r.RootDir, filepath.FromSlash(rel))
}

// isInternal reports whether rel lies inside the .grove/ directory.
func isInternal(rel string) bool {
	return rel == DirName || strings.HasPrefix(rel, DirName+"/")
}

// resolvePathspec expands a repository-relative pathspec into the regular
// files it names: the file itself, or every regular file below a directory.
// Repository directories are never descended into. A pathspec naming
// nothing yields no files and no error.
func (r *Repo) resolvePathspec(rel string) ([]string, error) {
	if isInternal(rel) {
		return nil, nil
	}
	root := r.absPath(rel)
	info, err := os.Lstat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, newPathError(rel, err)
	}
	if info.Mode().IsRegular() {
		return []string{rel}, nil
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			fileRel, relErr := filepath.Rel(r.RootDir, p)
			if relErr != nil {
				fileRel = rel
			}
			return newPathError(filepath.ToSlash(fileRel), err)
		}
		if d.IsDir() {
			if d.Name() == DirName {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fileRel, err := filepath.Rel(r.RootDir, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(fileRel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
