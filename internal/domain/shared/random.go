package shared

import "math/rand"

// RandomSource supplies uniform floats in [0, 1). Cache invalidation draws from it
// so tests can pass a seeded source.
type RandomSource interface {
	Float64() float64
}

// NewSeededRandom returns a deterministic source for the given seed
func NewSeededRandom(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed))
}

// Chance returns true with probability p
func Chance(r RandomSource, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}
