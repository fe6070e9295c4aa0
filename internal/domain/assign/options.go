// Package assign draws a secret santa cycle that honours exclusion constraints.
package assign

import "math/rand/v2"

// Shuffler permutes n elements through swap, like rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithShuffler replaces the source of randomness. Tests use it to drive
// specific orderings or to count draws.
func WithShuffler(s Shuffler) Option {
	return func(e *Engine) {
		if s != nil {
			e.shuffle = s
		}
	}
}

// WithSeed makes draws reproducible.
func WithSeed(seed1, seed2 uint64) Option {
	return func(e *Engine) {
		e.shuffle = rand.New(rand.NewPCG(seed1, seed2)).Shuffle //nolint:gosec // not security sensitive
	}
}

// WithMaxAttempts bounds the rejection loop. Zero or negative means unbounded.
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		e.maxAttempts = n
	}
}
