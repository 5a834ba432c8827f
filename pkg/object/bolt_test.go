package object

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func tempBoltStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, BoltFile)
	b, err := OpenBoltBackend(path)
	require.NoError(t, err)
	s := NewStore(dir, WithBackend(b))
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestBoltStorePutGet(t *testing.T) {
	s, _ := tempBoltStore(t)
	data := []byte("bolt content")
	h, err := s.Put(data)
	require.NoError(t, err)
	require.True(t, s.Has(h))

	got, err := s.Get(h)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestBoltStoreMissing(t *testing.T) {
	s, _ := tempBoltStore(t)
	_, err := s.Get(HashObject(TypeBlob, []byte("never stored")))
	require.ErrorIs(t, err, ErrObjectNotFound)

	_, err = s.Get("deadbeef")
	require.ErrorIs(t, err, ErrObjectNotFound)
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	s, path := tempBoltStore(t)
	h, err := s.WriteTree(&TreeObj{})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	b, err := OpenBoltBackend(path)
	require.NoError(t, err)
	s2 := NewStore(filepath.Dir(path), WithBackend(b))
	defer s2.Close()

	tr, err := s2.ReadTree(h)
	require.NoError(t, err)
	require.Empty(t, tr.Entries)
}
