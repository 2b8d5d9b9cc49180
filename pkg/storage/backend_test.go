package storage

import (
	"bytes"
	"errors"
	"slices"
	"testing"
)

// backendTestSuite runs the same checks against every Backend implementation
func backendTestSuite(t *testing.T, newBackend func(t *testing.T) Backend) {
	t.Run("CreateBucket", func(t *testing.T) {
		backend := newBackend(t)

		if err := backend.CreateBucket([]byte("exports")); err != nil {
			t.Fatalf("CreateBucket failed: %v", err)
		}
		exists, err := backend.BucketExists([]byte("exports"))
		if err != nil {
			t.Fatalf("BucketExists failed: %v", err)
		}
		if !exists {
			t.Error("Bucket should exist after creation")
		}

		// Idempotent
		if err := backend.CreateBucket([]byte("exports")); err != nil {
			t.Errorf("CreateBucket should be idempotent: %v", err)
		}

		exists, _ = backend.BucketExists([]byte("missing"))
		if exists {
			t.Error("BucketExists reported a bucket that was never created")
		}
	})

	t.Run("PutAndGet", func(t *testing.T) {
		backend := newBackend(t)
		backend.CreateBucket([]byte("games"))

		value := []byte(`{"winTurn":7}`)
		if err := backend.Put([]byte("games"), []byte("g1"), value); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		value[2] = 'X' // caller reuses its buffer

		got, err := backend.Get([]byte("games"), []byte("g1"))
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, []byte(`{"winTurn":7}`)) {
			t.Errorf("Get returned %s", got)
		}

		got, err = backend.Get([]byte("games"), []byte("nonexistent"))
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != nil {
			t.Errorf("Get should return nil for non-existent key, got %s", got)
		}
	})

	t.Run("MissingBucket", func(t *testing.T) {
		backend := newBackend(t)

		if err := backend.Put([]byte("nope"), []byte("k"), []byte("v")); !errors.Is(err, ErrBucketNotFound) {
			t.Errorf("Put: got %v, want ErrBucketNotFound", err)
		}
		if _, err := backend.Get([]byte("nope"), []byte("k")); !errors.Is(err, ErrBucketNotFound) {
			t.Errorf("Get: got %v, want ErrBucketNotFound", err)
		}
		err := backend.ForEach([]byte("nope"), func(k, v []byte) error { return nil })
		if !errors.Is(err, ErrBucketNotFound) {
			t.Errorf("ForEach: got %v, want ErrBucketNotFound", err)
		}
	})

	t.Run("ForEachOrdered", func(t *testing.T) {
		backend := newBackend(t)
		backend.CreateBucket([]byte("games"))

		for _, k := range []string{"c", "a", "b"} {
			backend.Put([]byte("games"), []byte(k), []byte("v"+k))
		}

		var keys []string
		err := backend.ForEach([]byte("games"), func(k, v []byte) error {
			if string(v) != "v"+string(k) {
				t.Errorf("ForEach: key %s has value %s", k, v)
			}
			keys = append(keys, string(k))
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach failed: %v", err)
		}
		if !slices.Equal(keys, []string{"a", "b", "c"}) {
			t.Errorf("ForEach visited %v, want sorted keys", keys)
		}
	})

	t.Run("Transactions", func(t *testing.T) {
		backend := newBackend(t)

		err := backend.Update(func(tx Transaction) error {
			if err := tx.CreateBucket([]byte("games/run-1")); err != nil {
				return err
			}
			b := tx.Bucket([]byte("games/run-1"))
			if b == nil {
				t.Fatal("Bucket should not be nil")
			}
			return b.Put([]byte("key1"), []byte("value1"))
		})
		if err != nil {
			t.Fatalf("Update transaction failed: %v", err)
		}

		var gotValue []byte
		err = backend.View(func(tx Transaction) error {
			b := tx.Bucket([]byte("games/run-1"))
			if b == nil {
				t.Fatal("Bucket should not be nil")
			}
			gotValue = slices.Clone(b.Get([]byte("key1")))
			if tx.Bucket([]byte("games/run-2")) != nil {
				t.Error("Bucket should be nil for a missing bucket")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("View transaction failed: %v", err)
		}
		if !bytes.Equal(gotValue, []byte("value1")) {
			t.Errorf("Got %s, want value1", gotValue)
		}
	})

	t.Run("UpdateRollsBack", func(t *testing.T) {
		backend := newBackend(t)
		if err := backend.CreateBucket([]byte("exports")); err != nil {
			t.Fatalf("CreateBucket failed: %v", err)
		}
		if err := backend.Put([]byte("exports"), []byte("kept"), []byte("v1")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		errAbort := errors.New("abort")
		err := backend.Update(func(tx Transaction) error {
			if err := tx.Bucket([]byte("exports")).Put([]byte("kept"), []byte("v2")); err != nil {
				return err
			}
			if err := tx.Bucket([]byte("exports")).Put([]byte("added"), []byte("v1")); err != nil {
				return err
			}
			if err := tx.CreateBucket([]byte("games/run-1")); err != nil {
				return err
			}
			return errAbort
		})
		if !errors.Is(err, errAbort) {
			t.Fatalf("Got %v, want errAbort", err)
		}

		if got, _ := backend.Get([]byte("exports"), []byte("kept")); !bytes.Equal(got, []byte("v1")) {
			t.Errorf("kept = %s, want v1", got)
		}
		if got, _ := backend.Get([]byte("exports"), []byte("added")); got != nil {
			t.Errorf("added = %s, want nil", got)
		}
		if exists, _ := backend.BucketExists([]byte("games/run-1")); exists {
			t.Error("bucket created in a failed update should not exist")
		}
	})

	t.Run("ReadOnlyView", func(t *testing.T) {
		backend := newBackend(t)
		err := backend.View(func(tx Transaction) error {
			return tx.CreateBucket([]byte("games"))
		})
		if err == nil {
			t.Error("CreateBucket inside View should fail")
		}
	})

	t.Run("ForEachBucket", func(t *testing.T) {
		backend := newBackend(t)

		buckets := []string{"exports", "games/a", "games/b"}
		for _, name := range buckets {
			backend.CreateBucket([]byte(name))
		}

		var collected []string
		err := backend.View(func(tx Transaction) error {
			return tx.ForEachBucket(func(name []byte) error {
				collected = append(collected, string(name))
				return nil
			})
		})
		if err != nil {
			t.Fatalf("ForEachBucket failed: %v", err)
		}
		if !slices.Equal(collected, buckets) {
			t.Errorf("ForEachBucket found %v, want %v", collected, buckets)
		}
	})
}
