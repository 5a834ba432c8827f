package object

import (
	"bytes"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// BoltFile is the database file name of the bolt backend inside the
// repository directory.
const BoltFile = "objects.db"

var objectsBucket = []byte("objects")

// openTimeout bounds the wait for the file lock held by another open store.
const openTimeout = time.Second

// BoltBackend keeps every object in a single bbolt database. Each Put runs in
// its own update transaction, so an object is either fully committed or
// absent.
type BoltBackend struct {
	db *bbolt.DB
}

// OpenBoltBackend opens (creating if needed) the database at path.
func OpenBoltBackend(path string) (*BoltBackend, error) {
	db, err := bbolt.Open(path, 0o644, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("can't open bbolt at %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(objectsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("can't create objects bucket: %w", err)
	}
	return &BoltBackend{db: db}, nil
}

func (b *BoltBackend) Has(h Hash) (bool, error) {
	var ok bool
	err := b.db.View(func(tx *bbolt.Tx) error {
		ok = tx.Bucket(objectsBucket).Get([]byte(h)) != nil
		return nil
	})
	return ok, err
}

func (b *BoltBackend) Get(h Hash) ([]byte, error) {
	var raw []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(objectsBucket).Get([]byte(h))
		if v == nil {
			return ErrObjectNotFound
		}
		// v is only valid inside the transaction.
		raw = bytes.Clone(v)
		return nil
	})
	return raw, err
}

func (b *BoltBackend) Put(h Hash, raw []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(objectsBucket)
		if bkt.Get([]byte(h)) != nil {
			return nil
		}
		return bkt.Put([]byte(h), raw)
	})
}

func (b *BoltBackend) Close() error {
	return b.db.Close()
}
