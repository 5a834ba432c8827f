package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odvcencio/grove/pkg/object"
)

func TestConfig_DefaultsWritten(t *testing.T) {
	r, dir := initRepo(t)
	require.Equal(t, DefaultConfig(), r.Config)

	data, err := os.ReadFile(filepath.Join(dir, ".grove", "config"))
	require.NoError(t, err)
	for _, want := range []string{"[core]", `object_format = "sha256"`, `storage = "loose"`, "[cache]", "objects = 256"} {
		require.Contains(t, string(data), want)
	}
}

func TestConfig_PartialFileKeepsDefaults(t *testing.T) {
	_, dir := initRepo(t)
	writeFile(t, filepath.Join(dir, ".grove", "config"), "[cache]\nobjects = 0\n")

	r := openRepo(t, dir)
	require.Zero(t, r.Config.Cache.Objects)
	require.Equal(t, "sha256", r.Config.Core.ObjectFormat)
	require.Equal(t, StorageLoose, r.Config.Core.Storage)
}

func TestConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad format":  "[core]\nobject_format = \"md5\"\n",
		"bad storage": "[core]\nstorage = \"s3\"\n",
		"unknown key": "[core]\ncompression = 9\n",
		"negative":    "[cache]\nobjects = -1\n",
		"syntax":      "[core\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, dir := initRepo(t)
			writeFile(t, filepath.Join(dir, ".grove", "config"), content)
			r, err := Open(dir)
			if err == nil {
				r.Close()
			}
			require.Error(t, err)
		})
	}
}

func TestInit_InvalidConfigCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	_, err := Init(dir, WithConfig(Config{Core: CoreConfig{ObjectFormat: "md5"}}))
	require.Error(t, err)
	require.NoDirExists(t, filepath.Join(dir, ".grove"))
}

func TestConfig_BLAKE3Format(t *testing.T) {
	r, dir := initRepo(t, WithConfig(Config{
		Core: CoreConfig{ObjectFormat: "blake3", Storage: StorageLoose},
	}))
	writeFile(t, filepath.Join(dir, "a.txt"), "X")

	h, err := r.HashObject("a.txt", false)
	require.NoError(t, err)
	require.Equal(t, object.FormatBLAKE3.HashObject(object.TypeBlob, []byte("X")), h)

	empty, err := r.WriteTree()
	require.NoError(t, err)
	require.Equal(t, object.FormatBLAKE3.HashObject(object.TypeTree, nil), empty)
}

func TestConfig_BoltStorage(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir, WithConfig(Config{Core: CoreConfig{Storage: StorageBolt}}))
	require.NoError(t, err)
	writeFile(t, filepath.Join(dir, "src", "main.go"), "package main\n")
	require.NoError(t, r.Add("src"))
	root, err := r.WriteTree()
	require.NoError(t, err)
	require.NoError(t, r.Close())

	require.FileExists(t, filepath.Join(dir, ".grove", object.BoltFile))
	loose, err := os.ReadDir(filepath.Join(dir, ".grove", "objects"))
	require.NoError(t, err)
	require.Empty(t, loose, "bolt repository wrote loose objects")

	r2 := openRepo(t, dir)
	files, err := r2.FlattenTree(root)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "src/main.go", files[0].Path)

	data, err := r2.Store.Get(files[0].Hash)
	require.NoError(t, err)
	require.Equal(t, "package main\n", string(data))
}
