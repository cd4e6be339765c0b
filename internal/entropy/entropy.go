// Package entropy provides the single seeded randomness source threaded
// through every stochastic call site of a run. Runs are reproducible given
// the same seed, seed entities, and configuration.
package entropy

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Source wraps a seeded PRNG. It is not safe for concurrent use; the engine
// is single-threaded by design, so no locking is needed.
type Source struct {
	rng *rand.Rand
}

// NewSource creates a deterministic source from a seed.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Float returns a float64 in [0, 1).
func (s *Source) Float() float64 {
	return s.rng.Float64()
}

// Chance returns true with probability p (clamped to [0,1]).
func (s *Source) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.rng.Float64() < p
}

// Index returns a uniform int in [0, n). n must be positive.
func (s *Source) Index(n int) int {
	return s.rng.Intn(n)
}

// Between returns a uniform int in [lo, hi] inclusive. hi < lo returns lo.
func (s *Source) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// Shuffle randomizes element order via the provided swap function.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}

// Drift produces smooth coherent noise over epoch time, used as a slow
// background component in pressure dynamics. Seeded, so deterministic.
type Drift struct {
	noise opensimplex.Noise
}

// NewDrift creates a drift field from a seed.
func NewDrift(seed int64) *Drift {
	return &Drift{noise: opensimplex.NewNormalized(seed)}
}

// At samples the drift for a pressure channel at an epoch, returning a value
// in [-1, 1] that varies smoothly across consecutive epochs.
func (d *Drift) At(epoch int, channel int) float64 {
	v := d.noise.Eval2(float64(epoch)*0.35, float64(channel)*7.77)
	return v*2 - 1
}
