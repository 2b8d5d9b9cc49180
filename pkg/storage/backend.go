package storage

import "errors"

var (
	ErrBucketNotFound = errors.New("bucket not found")
	ErrRunNotFound    = errors.New("archived run not found")
	ErrRunExists      = errors.New("archived run already exists")
	ErrInvalidRunID   = errors.New("invalid run id")
)

// Backend is the key-value store an Archive keeps fixtures in.
// Keys and values are raw bytes; ForEach visits keys in ascending byte order.
type Backend interface {
	CreateBucket(name []byte) error
	BucketExists(name []byte) (bool, error)

	Put(bucket, key, value []byte) error
	Get(bucket, key []byte) ([]byte, error)
	ForEach(bucket []byte, fn func(k, v []byte) error) error

	// Update runs fn in a read-write transaction; View in a read-only one.
	Update(fn func(tx Transaction) error) error
	View(fn func(tx Transaction) error) error

	Close() error
}

// Transaction provides transactional access to the backend
type Transaction interface {
	CreateBucket(name []byte) error
	Bucket(name []byte) Bucket
	ForEachBucket(fn func(name []byte) error) error
}

// Bucket provides access to a single bucket within a transaction
type Bucket interface {
	Put(key, value []byte) error
	Get(key []byte) []byte
	ForEach(fn func(k, v []byte) error) error
}
