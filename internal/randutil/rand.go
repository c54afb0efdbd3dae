// Package randutil derives reproducible random sources for shoes and workers.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. The two PCG
// words are derived with a splitmix step so neighbouring seeds diverge.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// FromSeed is New, except that a zero seed means "seed from the clock".
func FromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return New(seed)
}

// Derive returns the n-th child seed of a parent seed. Simulator workers use
// it so each worker owns an independent but reproducible stream.
func Derive(parent int64, n int) int64 {
	return int64(mix(uint64(parent) + uint64(n+1)*goldenRatio64))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
