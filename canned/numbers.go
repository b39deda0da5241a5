// Package canned holds the default value distributions that the registry
// matcher falls back to for leaf types, plus annotated descriptions and the
// recursive JSON descriptions built from them.
//
// Every distribution is a generator.Canned: it takes the Source to draw from
// and returns a fresh, unbounded generator.
package canned

import (
	"math"
	"math/bits"

	"github.com/shipq/typegen/generator"
	"github.com/shipq/typegen/rng"
)

type signedInt interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsignedInt interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// widthExp returns log2 of a bit size: the largest k with 2^k <= size.
func widthExp(size int) int {
	return bits.Len(uint(size)) - 1
}

// Unsigned returns non-negative values whose bit width is drawn from 1, 2,
// 4, ... up to size bits, so small and huge magnitudes are equally common.
func Unsigned[T unsignedInt](size int) generator.Canned {
	return func(src *rng.Source) generator.Generator {
		return rng.Draws(src, func(r *rng.Rand) any {
			return T(r.Bits(1 << r.IntRange(0, widthExp(size))))
		})
	}
}

// Signed mixes non-negative values, their negations and zero, with the same
// bit-width spread as Unsigned. The sign bit is never drawn.
func Signed[T signedInt](size int) generator.Canned {
	magnitudes := func(src *rng.Source) generator.Generator {
		return rng.Draws(src, func(r *rng.Rand) any {
			return T(r.Bits(min(1<<r.IntRange(0, widthExp(size)), size-1)))
		})
	}
	return func(src *rng.Source) generator.Generator {
		negative := rng.Map(magnitudes(src), func(v any) any { return -v.(T) })
		return rng.OneOf(src, magnitudes(src), negative, []any{T(0)})
	}
}

// UnsignedInts yields non-negative ints.
func UnsignedInts(src *rng.Source) generator.Generator {
	return rng.Draws(src, func(r *rng.Rand) any {
		return int(r.Bits(min(1<<r.IntRange(0, 6), 63)))
	})
}

// NegativeInts yields non-positive ints.
func NegativeInts(src *rng.Source) generator.Generator {
	return rng.Map(UnsignedInts(src), func(v any) any { return -v.(int) })
}

// Ints yields ints: non-negative, negative or zero with equal probability.
func Ints(src *rng.Source) generator.Generator {
	return rng.OneOf(src, UnsignedInts(src), NegativeInts(src), []any{0})
}

// ValidFloats reinterprets random bit patterns as float64, skipping
// infinities and NaN.
func ValidFloats(src *rng.Source) generator.Generator {
	patterns := rng.Draws(src, func(r *rng.Rand) any {
		return math.Float64frombits(r.Bits(1 << r.IntRange(0, 6)))
	})
	return rng.Filter(patterns, func(v any) bool {
		f := v.(float64)
		return !math.IsInf(f, 0) && !math.IsNaN(f)
	})
}

// ValidFloat32s is ValidFloats for float32.
func ValidFloat32s(src *rng.Source) generator.Generator {
	patterns := rng.Draws(src, func(r *rng.Rand) any {
		return math.Float32frombits(uint32(r.Bits(1 << r.IntRange(0, 5))))
	})
	return rng.Filter(patterns, func(v any) bool {
		f := float64(v.(float32))
		return !math.IsInf(f, 0) && !math.IsNaN(f)
	})
}

// InvalidFloats yields +Inf or NaN.
func InvalidFloats(src *rng.Source) generator.Generator {
	return rng.Choice(src, []any{math.Inf(1), math.NaN()})
}

// AllFloats yields valid or invalid floats with equal probability.
func AllFloats(src *rng.Source) generator.Generator {
	return rng.OneOf(src, ValidFloats(src), InvalidFloats(src))
}

// Bools yields true or false.
func Bools(src *rng.Source) generator.Generator {
	return rng.OneOf(src, []any{true, false})
}
