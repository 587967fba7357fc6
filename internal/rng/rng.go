// Package rng provides the seeded random engine that all generation
// randomness flows through. Identical seed and call sequence yield
// identical outputs; no other package may draw randomness on its own.
package rng

import (
	"math/rand"
)

const urlsafeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// Engine is a deterministic random source derived from an integer seed.
// It is not safe for concurrent use; each generation run owns its own.
type Engine struct {
	seed int64
	src  *rand.Rand
}

// New creates an Engine seeded with the given value.
func New(seed int64) *Engine {
	return &Engine{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed this engine was constructed with.
func (e *Engine) Seed() int64 {
	return e.seed
}

// Float64 returns a uniform float in [0, 1).
func (e *Engine) Float64() float64 {
	return e.src.Float64()
}

// IntN returns a uniform int in [0, n). Panics if n <= 0.
func (e *Engine) IntN(n int) int {
	return e.src.Intn(n)
}

// Between returns a uniform int in [lo, hi] inclusive.
func (e *Engine) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + e.src.Intn(hi-lo+1)
}

// Chance returns true with probability p.
func (e *Engine) Chance(p float64) bool {
	return e.src.Float64() < p
}

// WeightedIndex picks an index from weights proportionally to weight.
// Zero-weight entries are never chosen. Panics if the total weight is zero.
func (e *Engine) WeightedIndex(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		panic("rng: weighted draw over zero total weight")
	}
	r := e.src.Float64() * float64(total)
	upto := 0.0
	for i, w := range weights {
		upto += float64(w)
		if r <= upto {
			return i
		}
	}
	return len(weights) - 1
}

// Alphanum returns an n-character URL-safe identifier, as used for
// synthesized document and video ids.
func (e *Engine) Alphanum(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = urlsafeAlphabet[e.src.Intn(len(urlsafeAlphabet))]
	}
	return string(b)
}

// Digits returns a uniform integer with exactly n decimal digits
// (no leading zero), used for numeric resource ids.
func (e *Engine) Digits(n int) int64 {
	lo := int64(1)
	for i := 1; i < n; i++ {
		lo *= 10
	}
	hi := lo*10 - 1
	return lo + e.src.Int63n(hi-lo+1)
}
