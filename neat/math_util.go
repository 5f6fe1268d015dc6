package neat

import (
	"math/rand/v2"
)

// Random draws go through these helpers so callers may pass a seeded
// *rand.Rand or nil for the shared top-level source.

func randFloat(rnd *rand.Rand) float64 {
	if rnd == nil {
		return rand.Float64()
	}
	return rnd.Float64()
}

func randIntN(rnd *rand.Rand, n int) int {
	if rnd == nil {
		return rand.IntN(n)
	}
	return rnd.IntN(n)
}

// chance performs a Bernoulli trial with success probability p.
func chance(rnd *rand.Rand, p float64) bool {
	return randFloat(rnd) < p
}

// uniform returns a value drawn uniformly from [lo, hi).
func uniform(rnd *rand.Rand, lo, hi float64) float64 {
	return lo + randFloat(rnd)*(hi-lo)
}

// pick returns a uniformly chosen element of a non-empty slice.
func pick[T any](rnd *rand.Rand, items []T) T {
	return items[randIntN(rnd, len(items))]
}
