package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BboltBackend implements Backend using a single bbolt file.
type BboltBackend struct {
	db *bolt.DB
}

// NewBboltBackend opens (or creates) the archive database at dbPath.
func NewBboltBackend(dbPath string) (*BboltBackend, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	// A second process holding the file lock should fail fast, not hang.
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt database: %w", err)
	}

	return &BboltBackend{db: db}, nil
}

func (b *BboltBackend) CreateBucket(name []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	})
}

func (b *BboltBackend) BucketExists(name []byte) (bool, error) {
	exists := false
	err := b.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(name) != nil
		return nil
	})
	return exists, err
}

func (b *BboltBackend) Put(bucket, key, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
		}
		return bkt.Put(key, value)
	})
}

// Get returns a copy of the stored value, or nil when the key is absent.
func (b *BboltBackend) Get(bucket, key []byte) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
		}
		// only valid for the life of the transaction
		if v := bkt.Get(key); v != nil {
			value = slices.Clone(v)
		}
		return nil
	})
	return value, err
}

func (b *BboltBackend) ForEach(bucket []byte, fn func(k, v []byte) error) error {
	return b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
		}
		return bkt.ForEach(fn)
	})
}

// Update runs fn in a read-write transaction; any error rolls the whole batch back.
func (b *BboltBackend) Update(fn func(tx Transaction) error) error {
	return b.db.Update(func(boltTx *bolt.Tx) error {
		return fn(&bboltTransaction{tx: boltTx})
	})
}

func (b *BboltBackend) View(fn func(tx Transaction) error) error {
	return b.db.View(func(boltTx *bolt.Tx) error {
		return fn(&bboltTransaction{tx: boltTx})
	})
}

func (b *BboltBackend) Close() error {
	return b.db.Close()
}

type bboltTransaction struct {
	tx *bolt.Tx
}

func (t *bboltTransaction) CreateBucket(name []byte) error {
	_, err := t.tx.CreateBucketIfNotExists(name)
	if errors.Is(err, bolt.ErrTxNotWritable) {
		return fmt.Errorf("create bucket %s: read-only transaction", name)
	}
	return err
}

func (t *bboltTransaction) Bucket(name []byte) Bucket {
	bkt := t.tx.Bucket(name)
	if bkt == nil {
		return nil
	}
	return &bboltBucket{bucket: bkt}
}

func (t *bboltTransaction) ForEachBucket(fn func(name []byte) error) error {
	return t.tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
		return fn(name)
	})
}

type bboltBucket struct {
	bucket *bolt.Bucket
}

func (b *bboltBucket) Put(key, value []byte) error {
	return b.bucket.Put(key, value)
}

func (b *bboltBucket) Get(key []byte) []byte {
	return b.bucket.Get(key)
}

func (b *bboltBucket) ForEach(fn func(k, v []byte) error) error {
	return b.bucket.ForEach(fn)
}
