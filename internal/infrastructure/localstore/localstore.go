// Package localstore implements the local blob store on bbolt: one
// bucket of opaque JSON blobs keyed by collection name. It is the only
// persistence available without a signed-in identity.
package localstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

const bucketBlobs = "blobs"

// Store wraps the bbolt database.
type Store struct {
	db *bolt.DB
}

// Open creates (or opens) the database file, creating parent directories
// as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketBlobs))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init local store: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the blob stored under key, or (nil, nil) when the key has
// never been written.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketBlobs)).Get([]byte(key))
		if v != nil {
			out = make([]byte, len(v))
			copy(out, v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read blob %q: %w", key, err)
	}
	return out, nil
}

// Set overwrites the blob stored under key.
func (s *Store) Set(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketBlobs)).Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("write blob %q: %w", key, err)
	}
	return nil
}
