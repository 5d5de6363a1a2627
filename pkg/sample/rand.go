package sample

import "math/rand/v2"

// Source supplies uniform numbers in [0, 1).
type Source interface {
	Float64() float64
}

// NewSource returns a PCG source seeded with seed, or an entropy-seeded
// one when seed is zero.
func NewSource(seed uint64) Source {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// between returns a uniform value in [lo, hi).
func between(r Source, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
