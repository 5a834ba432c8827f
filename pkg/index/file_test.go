package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odvcencio/grove/pkg/object"
)

func TestLoadMissingIsEmpty(t *testing.T) {
	ix, err := Load(filepath.Join(t.TempDir(), "index"))
	require.NoError(t, err)
	require.Zero(t, ix.Len())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "index")
	s := object.NewStore(dir)

	ix := New()
	stageAll(t, ix, s, map[string]string{"b.txt": "Y", "a.txt": "X", "src/main.go": "package main"})
	require.NoError(t, ix.Save(file))

	loaded, err := Load(file)
	require.NoError(t, err)
	require.Equal(t, ix.Entries(), loaded.Entries())

	// no temp files left behind
	names, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, n := range names {
		require.NotContains(t, n.Name(), ".index-tmp-")
	}
}

func TestSaveEmpty(t *testing.T) {
	file := filepath.Join(t.TempDir(), "index")
	require.NoError(t, New().Save(file))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.JSONEq(t, `{"version":1,"entries":[]}`, string(data))
}

func TestLoadRejectsCorruptIndex(t *testing.T) {
	h := string(object.HashObject(object.TypeBlob, []byte("x")))
	cases := map[string]string{
		"not json":      `{`,
		"wrong version": `{"version":7,"entries":[]}`,
		"bad hash":      `{"version":1,"entries":[{"path":"a","hash":"nope"}]}`,
		"bad path":      `{"version":1,"entries":[{"path":"/a","hash":"` + h + `","mode":"100644"}]}`,
		"bad mode":      `{"version":1,"entries":[{"path":"a","hash":"` + h + `","mode":"120000"}]}`,
		"unsorted": `{"version":1,"entries":[{"path":"b","hash":"` + h + `"},` +
			`{"path":"a","hash":"` + h + `"}]}`,
		"duplicate": `{"version":1,"entries":[{"path":"a","hash":"` + h + `"},` +
			`{"path":"a","hash":"` + h + `"}]}`,
	}
	for name, content := range cases {
		file := filepath.Join(t.TempDir(), "index")
		require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
		_, err := Load(file)
		require.ErrorIs(t, err, ErrCorrupt, name)
	}
}
