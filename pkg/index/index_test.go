package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odvcencio/grove/pkg/object"
)

func paths(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Path)
	}
	return out
}

func stageAll(t *testing.T, ix *Index, s *object.Store, files map[string]string) {
	t.Helper()
	for p, content := range files {
		_, err := ix.Stage(s, p, []byte(content), nil)
		require.NoError(t, err)
	}
}

func TestEntriesAreSorted(t *testing.T) {
	s := object.NewStore(t.TempDir())
	ix := New()
	for _, p := range []string{"b.txt", "1/filea", "1/2/3/filed", "a.txt", "1/2/filec"} {
		_, err := ix.Stage(s, p, []byte(p), nil)
		require.NoError(t, err)
	}

	require.Equal(t, []string{"1/2/3/filed", "1/2/filec", "1/filea", "a.txt", "b.txt"}, paths(ix.Entries()))
}

func TestStageWritesBlob(t *testing.T) {
	s := object.NewStore(t.TempDir())
	ix := New()

	h, err := ix.Stage(s, "a.txt", []byte("X"), nil)
	require.NoError(t, err)
	require.Equal(t, object.HashObject(object.TypeBlob, []byte("X")), h)

	got, err := s.Get(h)
	require.NoError(t, err)
	require.Equal(t, []byte("X"), got)

	e, ok := ix.Lookup("a.txt")
	require.True(t, ok)
	require.Equal(t, h, e.Hash)
	require.Equal(t, ModeFile, e.Mode)
	require.EqualValues(t, 1, e.Size)
}

func TestStageOverwrites(t *testing.T) {
	s := object.NewStore(t.TempDir())
	ix := New()

	old, err := ix.Stage(s, "README.md", []byte("this is a readme"), nil)
	require.NoError(t, err)
	updated, err := ix.Stage(s, "README.md", []byte("this is a readme1"), nil)
	require.NoError(t, err)

	require.NotEqual(t, old, updated)
	require.Equal(t, 1, ix.Len())
	e, _ := ix.Lookup("README.md")
	require.Equal(t, updated, e.Hash)
	require.True(t, s.Has(old), "previous blob stays in the store")
}

func TestStageUnchangedIsNoop(t *testing.T) {
	s := object.NewStore(t.TempDir())
	ix := New()

	h1, err := ix.Stage(s, "a.txt", []byte("same"), nil)
	require.NoError(t, err)
	before := ix.Entries()

	h2, err := ix.Stage(s, "a.txt", []byte("same"), nil)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
	require.Equal(t, before, ix.Entries())
}

func TestEntriesPrefix(t *testing.T) {
	s := object.NewStore(t.TempDir())
	ix := New()
	stageAll(t, ix, s, map[string]string{
		"1/2/3a/filed": "d",
		"1/2/3b/filef": "f",
		"1/2-x/file":   "x",
		"1/filea":      "a",
	})

	require.Equal(t, []string{"1/2/3a/filed", "1/2/3b/filef"}, paths(ix.Entries("1/2")))
	require.Equal(t, []string{"1/2/3a/filed", "1/2/3b/filef"}, paths(ix.Entries("1/2/")))
	require.Equal(t, []string{"1/2/3a/filed"}, paths(ix.Entries("1/2/3a/filed")))
	require.Len(t, ix.Entries("."), 4)
	require.Empty(t, ix.Entries("nope"))
}

func TestSetReplacesDirectoryFileConflicts(t *testing.T) {
	s := object.NewStore(t.TempDir())
	ix := New()
	stageAll(t, ix, s, map[string]string{
		"dir/a": "a",
		"dir/b": "b",
		"other": "o",
	})

	// dir becomes a file
	_, err := ix.Stage(s, "dir", []byte("now a file"), nil)
	require.NoError(t, err)
	require.Equal(t, []string{"dir", "other"}, paths(ix.Entries()))

	// and back into a directory
	_, err = ix.Stage(s, "dir/c/d", []byte("nested"), nil)
	require.NoError(t, err)
	require.Equal(t, []string{"dir/c/d", "other"}, paths(ix.Entries()))
}

func TestStageDisjointSetsAccumulate(t *testing.T) {
	s := object.NewStore(t.TempDir())
	ix := New()
	stageAll(t, ix, s, map[string]string{"1/2/3a/filed": "d", "1/2/3a/filee": "e"})
	stageAll(t, ix, s, map[string]string{"1/2/3b/filef": "f", "1/2/3b/fileg": "g"})

	require.Equal(t, []string{"1/2/3a/filed", "1/2/3a/filee", "1/2/3b/filef", "1/2/3b/fileg"}, paths(ix.Entries()))
}

func TestValidatePath(t *testing.T) {
	for _, p := range []string{"a", "a/b", "a b/c.txt", ".hidden"} {
		require.NoError(t, ValidatePath(p), p)
	}
	for _, p := range []string{"", ".", "/abs", "a//b", "a/./b", "a/", "../up", "..", "new\nline"} {
		require.ErrorIs(t, ValidatePath(p), ErrInvalidPath, p)
	}
}

func TestStageRejectsInvalidPath(t *testing.T) {
	s := object.NewStore(t.TempDir())
	_, err := New().Stage(s, "../escape", []byte("x"), nil)
	require.ErrorIs(t, err, ErrInvalidPath)
}

func TestStageRecordsExecutableMode(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "run.sh")
	require.NoError(t, os.WriteFile(file, []byte("#!/bin/sh\n"), 0o755))
	info, err := os.Stat(file)
	require.NoError(t, err)

	ix := New()
	_, err = ix.Stage(object.NewStore(dir), "run.sh", []byte("#!/bin/sh\n"), info)
	require.NoError(t, err)

	e, ok := ix.Lookup("run.sh")
	require.True(t, ok)
	require.Equal(t, ModeExecutable, e.Mode)
	require.Equal(t, info.ModTime().Unix(), e.ModTime)
}
