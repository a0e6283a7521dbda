package timeseries

import (
	"math/rand/v2"
	"sync"
)

// Source yields uniform values in [0, 1).
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource draws from the runtime's shared, unseeded generator.
func DefaultSource() Source {
	return globalSource{}
}

// LockedSource is a seeded generator safe for concurrent use.
type LockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededSource returns a reproducible source for the given seed.
func NewSeededSource(seed uint64) *LockedSource {
	return &LockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float64 implements Source.
func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

// ConstantSource always returns v. A value of 0.5 cancels the noise term.
func ConstantSource(v float64) Source {
	return constSource(v)
}
