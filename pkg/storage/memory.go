package storage

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// MemoryBackend implements Backend with in-process maps. Nothing survives Close.
// Iteration is sorted by key to match bbolt.
type MemoryBackend struct {
	buckets map[string]map[string][]byte
	mu      sync.RWMutex
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		buckets: make(map[string]map[string][]byte),
	}
}

func (m *MemoryBackend) CreateBucket(name []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createBucketLocked(string(name))
	return nil
}

func (m *MemoryBackend) createBucketLocked(name string) {
	if _, exists := m.buckets[name]; !exists {
		m.buckets[name] = make(map[string][]byte)
	}
}

func (m *MemoryBackend) BucketExists(name []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.buckets[string(name)]
	return exists, nil
}

func (m *MemoryBackend) Put(bucket, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putLocked(string(bucket), key, value)
}

func (m *MemoryBackend) putLocked(bucket string, key, value []byte) error {
	bkt, exists := m.buckets[bucket]
	if !exists {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}
	// callers may reuse their buffers
	bkt[string(key)] = slices.Clone(value)
	return nil
}

// Get returns a copy of the stored value, or nil when the key is absent.
func (m *MemoryBackend) Get(bucket, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bkt, exists := m.buckets[string(bucket)]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}
	value, exists := bkt[string(key)]
	if !exists {
		return nil, nil
	}
	return slices.Clone(value), nil
}

func (m *MemoryBackend) ForEach(bucket []byte, fn func(k, v []byte) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.forEachLocked(string(bucket), fn)
}

func (m *MemoryBackend) forEachLocked(bucket string, fn func(k, v []byte) error) error {
	bkt, exists := m.buckets[bucket]
	if !exists {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}
	for _, k := range slices.Sorted(maps.Keys(bkt)) {
		if err := fn([]byte(k), bkt[k]); err != nil {
			return err
		}
	}
	return nil
}

// Update holds the write lock for the whole of fn. If fn returns an error
// every bucket is restored to its state before the call, as bbolt does.
func (m *MemoryBackend) Update(fn func(tx Transaction) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// values are never mutated in place, so copying the maps is enough
	snapshot := make(map[string]map[string][]byte, len(m.buckets))
	for name, bkt := range m.buckets {
		snapshot[name] = maps.Clone(bkt)
	}

	if err := fn(&memoryTransaction{backend: m}); err != nil {
		m.buckets = snapshot
		return err
	}
	return nil
}

func (m *MemoryBackend) View(fn func(tx Transaction) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(&memoryTransaction{backend: m, readOnly: true})
}

func (m *MemoryBackend) Close() error {
	return nil
}

// memoryTransaction runs with the backend lock already held.
type memoryTransaction struct {
	backend  *MemoryBackend
	readOnly bool
}

func (t *memoryTransaction) CreateBucket(name []byte) error {
	if t.readOnly {
		return fmt.Errorf("create bucket %s: read-only transaction", name)
	}
	t.backend.createBucketLocked(string(name))
	return nil
}

func (t *memoryTransaction) Bucket(name []byte) Bucket {
	if _, exists := t.backend.buckets[string(name)]; !exists {
		return nil
	}
	return &memoryBucket{tx: t, name: string(name)}
}

func (t *memoryTransaction) ForEachBucket(fn func(name []byte) error) error {
	for _, name := range slices.Sorted(maps.Keys(t.backend.buckets)) {
		if err := fn([]byte(name)); err != nil {
			return err
		}
	}
	return nil
}

type memoryBucket struct {
	tx   *memoryTransaction
	name string
}

func (b *memoryBucket) Put(key, value []byte) error {
	if b.tx.readOnly {
		return fmt.Errorf("put into %s: read-only transaction", b.name)
	}
	return b.tx.backend.putLocked(b.name, key, value)
}

func (b *memoryBucket) Get(key []byte) []byte {
	return b.tx.backend.buckets[b.name][string(key)]
}

func (b *memoryBucket) ForEach(fn func(k, v []byte) error) error {
	return b.tx.backend.forEachLocked(b.name, fn)
}
