// Package bolt adapts an embedded go.etcd.io/bbolt database to kvstore.Store.
// bbolt is an mmap'd, copy-on-write B+tree with MVCC snapshot reads: readers
// never block writers or each other, so any number of engines can share one
// KB file.
package bolt

import (
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/dagobah-core/dagobah/kvstore"
)

// DefaultBucket is the bucket name entity records are stored under.
const DefaultBucket = "entities"

// Store is a read-only kvstore.Store backed by a bbolt database file.
type Store struct {
	db     *bolt.DB
	bucket []byte
	closed bool
}

// Open opens the bbolt database at path for read-only, concurrent-reader
// access. The database is expected to already contain DefaultBucket,
// populated by the (out-of-scope) KB loader/indexer.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o444, &bolt.Options{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("kvstore/bolt: open %s: %w", path, err)
	}
	return &Store{db: db, bucket: []byte(DefaultBucket)}, nil
}

// Get implements kvstore.Store.
func (s *Store) Get(key []byte) ([]byte, bool, error) {
	if s.closed {
		return nil, false, kvstore.ErrClosed
	}
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		if v := b.Get(key); v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, value != nil, nil
}

// Close implements kvstore.Store.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
