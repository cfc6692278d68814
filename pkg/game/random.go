package game

import (
	"math/rand"
)

// Random is the source of every non-deterministic decision the simulation
// makes. Tests replace it to replay exact spawn sequences.
type Random interface {
	// Float64 returns a number in [0.0, 1.0).
	Float64() float64
}

// NewRandom returns a source seeded with seed. The result must not be shared
// between sessions.
func NewRandom(seed int64) Random {
	return rand.New(rand.NewSource(seed))
}

func between(rng Random, low, high float64) float64 {
	return low + rng.Float64()*(high-low)
}
