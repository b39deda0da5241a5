// Package rng provides the seeded random source that every generator in
// typegen draws from, together with the lazy Generator protocol and the
// selection combinators built on top of it.
//
// A Source hands out one Rand handle per draw and counts draws against a
// budget. When the budget runs out, Next returns ErrExhausted, which every
// generator treats as the natural end of its sequence:
//
//	src := rng.NewSource(42)
//	src.SetBudget(1000)
//	words := rng.Draws(src, func(r *rng.Rand) any { return r.IntRange(0, 9) })
//	first, err := words.Next()
//
// A Source is not safe for concurrent use. Generation is single-threaded and
// pull-based: nothing is drawn until a consumer calls Next.
package rng

import (
	"errors"
)

// ErrExhausted is returned when a Source has no draws left in its budget,
// or when a finite generator has nothing more to yield.
var ErrExhausted = errors.New("rng: could not find generation")

// Unbounded is the budget value that disables draw counting.
const Unbounded = -1

// Source is a reseedable stream of Rand handles with a remaining-draw budget.
type Source struct {
	lastSeed  int64
	rand      *Rand
	remaining int
}

// Default is the process-wide Source used when callers do not supply one.
var Default = NewSource(0)

// NewSource returns an unbounded Source seeded with seed.
func NewSource(seed int64) *Source {
	s := &Source{remaining: Unbounded}
	s.RestartAt(seed)
	return s
}

// Next returns the current Rand handle and consumes one draw from the budget.
// It returns ErrExhausted once the budget reaches zero.
func (s *Source) Next() (*Rand, error) {
	if s.remaining < 0 {
		return s.rand, nil
	}
	if s.remaining == 0 {
		return nil, ErrExhausted
	}
	s.remaining--
	return s.rand, nil
}

// RestartAt reseeds the source. The budget is left untouched.
func (s *Source) RestartAt(seed int64) {
	s.lastSeed = seed
	s.rand = newRand(seed)
}

// RestartAtNextSeed moves to the next seed of the chain that starts at the
// last applied seed: reseed at it, draw 64 bits, reseed at those bits.
func (s *Source) RestartAtNextSeed() {
	s.RestartAt(s.lastSeed)
	next := s.rand.Uint64()
	s.RestartAt(int64(next))
}

// LastSeed returns the seed most recently applied with RestartAt.
func (s *Source) LastSeed() int64 {
	return s.lastSeed
}

// SetBudget resets the number of remaining draws. Use Unbounded to disable
// the limit.
func (s *Source) SetBudget(n int) {
	s.remaining = n
}

// Remaining returns the number of draws left, or a negative value when
// unbounded.
func (s *Source) Remaining() int {
	return s.remaining
}

// Exhausted reports whether the budget has been fully spent.
func (s *Source) Exhausted() bool {
	return s.remaining == 0
}

// WrapDeterministically wraps g so that every element is produced from its
// own seed of a chain starting at seed, with the budget reset to
// maxIterations before each element. The seed of element N+1 depends only
// on the seed of element N, never on how many draws element N consumed.
func (s *Source) WrapDeterministically(g Generator, seed int64, maxIterations int) Generator {
	started, done := false, false
	return GeneratorFunc(func() (any, error) {
		if done {
			return nil, ErrExhausted
		}
		if !started {
			started = true
			s.RestartAt(seed)
		} else {
			s.RestartAtNextSeed()
		}
		s.remaining = maxIterations

		v, err := g.Next()
		if err != nil {
			done = true
			return nil, err
		}
		return v, nil
	})
}
