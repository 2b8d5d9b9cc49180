package fixture

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand/v2"
)

// Stream labels keep the record stream and the identifier stream independent
// for the same seed.
const (
	recordStream = "matchgen/records"
	idStream     = "matchgen/ids"
)

// NewRand creates a seeded random source for a Generator.
// The same seed always yields the same sequence of records.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(newChaCha(seed, recordStream))
}

// NewIDReader returns a deterministic byte stream for minting identifiers.
// It does not share state with NewRand, so drawing IDs never shifts the records.
func NewIDReader(seed uint64) io.Reader {
	return newChaCha(seed, idStream)
}

// RandomSeed draws a fresh seed from crypto/rand.
func RandomSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func newChaCha(seed uint64, stream string) *rand.ChaCha8 {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	copy(key[8:], stream)
	return rand.NewChaCha8(key)
}

// sample returns k distinct elements of pool in draw order. k is clamped to len(pool).
func sample[T any](r *rand.Rand, pool []T, k int) []T {
	k = min(k, len(pool))
	picked := make([]T, 0, k)
	if k <= 0 {
		return picked
	}
	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	// partial Fisher-Yates
	for i := range k {
		j := i + r.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		picked = append(picked, pool[idx[i]])
	}
	return picked
}

// between returns a uniform integer in [rg.Min, rg.Max].
func between(r *rand.Rand, rg Range) int {
	if rg.Max <= rg.Min {
		return rg.Min
	}
	return rg.Min + r.IntN(rg.Max-rg.Min+1)
}
