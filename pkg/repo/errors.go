package repo

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	ErrNotRepository     = errors.New("not a grove repository (or any of the parent directories): " + DirName)
	ErrNothingSpecified  = errors.New("nothing specified, nothing added")
	ErrOutsideRepository = errors.New("outside repository")
	ErrPathConflict      = errors.New("path is both a file and a directory")

	// Path failures reported through PathError.
	ErrPathNotFound    = errors.New("does not exist")
	ErrPathIsDirectory = errors.New("is a directory - add files inside instead")
	ErrNotRegularFile  = errors.New("not a regular file")
	ErrUntrackedPath   = errors.New("cannot add to the index - missing --add option?")

	// Matched by PathspecError and NoSuchFileError respectively.
	ErrPathspecMatchedNothing = errors.New("pathspec did not match any files")
	ErrNoSuchFile             = errors.New("no such file or directory")
)

// PathError reports a path that could not be staged. Path is relative to
// the repository root.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// newPathError reports err against a root-relative path. The absolute path
// carried by an *fs.PathError is dropped.
func newPathError(rel string, err error) *PathError {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		err = pe.Err
	}
	return &PathError{Path: rel, Err: err}
}

// PathspecError reports a pathspec that resolved to no files. Pathspec is
// relative to the repository root.
type PathspecError struct {
	Pathspec string
}

func (e *PathspecError) Error() string {
	return fmt.Sprintf("pathspec '%s' did not match any files", e.Pathspec)
}

func (e *PathspecError) Is(target error) bool {
	return target == ErrPathspecMatchedNothing
}

// NoSuchFileError reports a file that hash-object could not open.
type NoSuchFileError struct {
	Path string
}

func (e *NoSuchFileError) Error() string {
	return fmt.Sprintf("cannot open '%s': no such file or directory", e.Path)
}

func (e *NoSuchFileError) Is(target error) bool {
	return target == ErrNoSuchFile
}
