package rng

import (
	"math/rand/v2"
)

// Rand is the handle a Source hands out for a single draw. Consumers pull a
// Rand from the Source, use it for one logical value, and let it go; the
// Source decides how many of those draws are allowed.
type Rand struct {
	r *rand.Rand
}

func newRand(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Intn returns a random int in [0, n).
// Panics if n <= 0.
func (r *Rand) Intn(n int) int {
	return r.r.IntN(n)
}

// IntRange returns a random int in [min, max].
// Panics if min > max.
func (r *Rand) IntRange(min, max int) int {
	if min > max {
		panic("rng: IntRange min > max")
	}
	if min == max {
		return min
	}
	return min + r.r.IntN(max-min+1)
}

// Int64Range returns a random int64 in [min, max].
// Panics if min > max.
func (r *Rand) Int64Range(min, max int64) int64 {
	if min > max {
		panic("rng: Int64Range min > max")
	}
	if min == max {
		return min
	}
	return min + r.r.Int64N(max-min+1)
}

// Uint64 returns a random uint64.
func (r *Rand) Uint64() uint64 {
	return r.r.Uint64()
}

// Bits returns a random value made of the low n bits, n in [0, 64].
func (r *Rand) Bits(n int) uint64 {
	switch {
	case n <= 0:
		return 0
	case n >= 64:
		return r.r.Uint64()
	}
	return r.r.Uint64() >> (64 - n)
}

// Float64 returns a random float64 in [0.0, 1.0).
func (r *Rand) Float64() float64 {
	return r.r.Float64()
}

// Bool returns a random boolean with 50% probability for each value.
func (r *Rand) Bool() bool {
	return r.r.IntN(2) == 1
}

// Pick returns a random element from a non-empty slice.
// Panics if slice is empty.
func Pick[T any](r *Rand, slice []T) T {
	if len(slice) == 0 {
		panic("rng: Pick called with empty slice")
	}
	return slice[r.Intn(len(slice))]
}

// Sample returns n unique elements from slice (without replacement), in
// selection order.
// Panics if n > len(slice).
func Sample[T any](r *Rand, slice []T, n int) []T {
	if n > len(slice) {
		panic("rng: Sample n > len(slice)")
	}

	// Partial Fisher-Yates over the indices.
	indices := make([]int, len(slice))
	for i := range indices {
		indices[i] = i
	}

	result := make([]T, n)
	for i := 0; i < n; i++ {
		j := i + r.Intn(len(indices)-i)
		indices[i], indices[j] = indices[j], indices[i]
		result[i] = slice[indices[i]]
	}
	return result
}

// Shuffle returns a shuffled copy of the slice.
func Shuffle[T any](r *Rand, slice []T) []T {
	result := make([]T, len(slice))
	copy(result, slice)
	r.r.Shuffle(len(result), func(i, j int) {
		result[i], result[j] = result[j], result[i]
	})
	return result
}
