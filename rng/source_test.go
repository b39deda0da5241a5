package rng

import (
	"errors"
	"testing"
)

// =============================================================================
// Source Tests
// =============================================================================

func TestSource_Deterministic(t *testing.T) {
	s1 := NewSource(12345)
	s2 := NewSource(12345)

	for i := 0; i < 100; i++ {
		r1, _ := s1.Next()
		r2, _ := s2.Next()
		if v1, v2 := r1.Intn(1000), r2.Intn(1000); v1 != v2 {
			t.Errorf("same seed produced different values at iteration %d: %d vs %d", i, v1, v2)
		}
	}
}

func TestSource_DifferentSeeds(t *testing.T) {
	s1 := NewSource(12345)
	s2 := NewSource(54321)

	same := 0
	for i := 0; i < 100; i++ {
		r1, _ := s1.Next()
		r2, _ := s2.Next()
		if r1.Intn(1000) == r2.Intn(1000) {
			same++
		}
	}
	if same > 20 {
		t.Errorf("different seeds produced too many same values: %d/100", same)
	}
}

func TestSource_Budget(t *testing.T) {
	s := NewSource(1)
	s.SetBudget(3)

	for i := 0; i < 3; i++ {
		if _, err := s.Next(); err != nil {
			t.Fatalf("draw %d: unexpected error %v", i, err)
		}
		if got, want := s.Remaining(), 2-i; got != want {
			t.Errorf("Remaining() after draw %d = %d, want %d", i, got, want)
		}
	}

	if _, err := s.Next(); !errors.Is(err, ErrExhausted) {
		t.Errorf("Next() on empty budget = %v, want ErrExhausted", err)
	}
	if !s.Exhausted() {
		t.Error("Exhausted() = false after spending the budget")
	}
}

func TestSource_Unbounded(t *testing.T) {
	s := NewSource(1)
	for i := 0; i < 10000; i++ {
		if _, err := s.Next(); err != nil {
			t.Fatalf("unbounded source failed at draw %d: %v", i, err)
		}
	}
	if s.Remaining() != Unbounded {
		t.Errorf("Remaining() = %d, want %d", s.Remaining(), Unbounded)
	}
}

func TestSource_RestartAtKeepsBudget(t *testing.T) {
	s := NewSource(1)
	s.SetBudget(7)
	s.RestartAt(99)
	if s.Remaining() != 7 {
		t.Errorf("RestartAt changed the budget: got %d, want 7", s.Remaining())
	}
	if s.LastSeed() != 99 {
		t.Errorf("LastSeed() = %d, want 99", s.LastSeed())
	}
}

func TestSource_RestartAtNextSeed_IsAChain(t *testing.T) {
	a := NewSource(42)
	b := NewSource(42)

	// Draws in between must not influence the next seed.
	for i := 0; i < 17; i++ {
		r, _ := a.Next()
		r.Uint64()
	}
	a.RestartAtNextSeed()
	b.RestartAtNextSeed()

	if a.LastSeed() != b.LastSeed() {
		t.Errorf("next seed depends on intermediate draws: %d vs %d", a.LastSeed(), b.LastSeed())
	}
	if a.LastSeed() == 42 {
		t.Error("next seed equals the starting seed")
	}
}

// =============================================================================
// WrapDeterministically Tests
// =============================================================================

// drawing yields the first draw of each element and then burns extra draws.
func drawing(src *Source, extra int) Generator {
	return GeneratorFunc(func() (any, error) {
		r, err := src.Next()
		if err != nil {
			return nil, err
		}
		v := r.Uint64()
		for i := 0; i < extra; i++ {
			if _, err := src.Next(); err != nil {
				return nil, err
			}
			r.Uint64()
		}
		return v, nil
	})
}

func TestWrapDeterministically_SeedChainIndependence(t *testing.T) {
	tests := []struct {
		name  string
		extra int
	}{
		{"no extra draws", 0},
		{"a few extra draws", 3},
		{"many extra draws", 250},
	}

	base := NewSource(0)
	want, err := Take(base.WrapDeterministically(drawing(base, 0), 7, 1000), 10)
	if err != nil || len(want) != 10 {
		t.Fatalf("baseline generation failed: %v (%d items)", err, len(want))
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewSource(0)
			got, err := Take(src.WrapDeterministically(drawing(src, tt.extra), 7, 1000), 10)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(want) {
				t.Fatalf("got %d items, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("item %d = %v, want %v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestWrapDeterministically_ResetsBudgetPerElement(t *testing.T) {
	src := NewSource(0)
	// Each element spends 90 of a 100 draw budget; without a reset the
	// second element would run dry.
	got, err := Take(src.WrapDeterministically(drawing(src, 89), 3, 100), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("got %d items, want 5", len(got))
	}
}

func TestWrapDeterministically_StopsOnExhaustion(t *testing.T) {
	src := NewSource(0)
	g := src.WrapDeterministically(drawing(src, 200), 3, 100)
	if _, err := g.Next(); !errors.Is(err, ErrExhausted) {
		t.Fatalf("Next() = %v, want ErrExhausted", err)
	}
	if _, err := g.Next(); !errors.Is(err, ErrExhausted) {
		t.Errorf("wrapped generator resumed after ending: %v", err)
	}
}
