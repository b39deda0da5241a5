package rng

import (
	"errors"
	"testing"
)

func TestOneOf_Coverage(t *testing.T) {
	src := NewSource(42)
	g := OneOf(src, []string{"a"}, Repeat("b"), []int{1, 2, 3})

	seen := map[any]bool{}
	for i := 0; i < 200; i++ {
		v, err := g.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen[v] = true
	}
	for _, want := range []any{"a", "b", 1, 2, 3} {
		if !seen[want] {
			t.Errorf("OneOf never produced %v", want)
		}
	}
}

func TestOneOf_OptionsEquallyLikely(t *testing.T) {
	src := NewSource(42)
	// The large option must not crowd out the single-valued one.
	large := make([]int, 1000)
	for i := range large {
		large[i] = i + 1
	}
	g := OneOf(src, []int{0}, large)

	zeros := 0
	for i := 0; i < 2000; i++ {
		v, _ := g.Next()
		if v == 0 {
			zeros++
		}
	}
	if zeros < 800 || zeros > 1200 {
		t.Errorf("single-valued option chosen %d/2000 times, want about half", zeros)
	}
}

func TestOneOf_ConsumesBudget(t *testing.T) {
	src := NewSource(1)
	src.SetBudget(4)
	g := OneOf(src, []int{1, 2})

	// Each element costs one draw for the option and one for the element.
	if _, err := Take(g, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := g.Next(); !errors.Is(err, ErrExhausted) {
		t.Errorf("Next() = %v, want ErrExhausted", err)
	}
}

func TestOneOf_PanicsOnBadOption(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("OneOf accepted an option that is neither a generator nor a slice")
		}
	}()
	OneOf(NewSource(1), 42)
}

func TestSample_Unique(t *testing.T) {
	src := NewSource(42)
	values := []string{"a", "b", "c", "d", "e"}

	for i := 0; i < 100; i++ {
		r, _ := src.Next()
		n := r.IntRange(0, len(values))
		got := Sample(r, values, n)
		if len(got) != n {
			t.Fatalf("Sample returned %d elements, want %d", len(got), n)
		}
		seen := map[string]bool{}
		for _, v := range got {
			if seen[v] {
				t.Errorf("Sample returned duplicate %q", v)
			}
			seen[v] = true
		}
	}
}

func TestIntRange_Coverage(t *testing.T) {
	src := NewSource(42)
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		r, _ := src.Next()
		n := r.IntRange(0, 5)
		if n < 0 || n > 5 {
			t.Fatalf("IntRange(0, 5) = %d, out of bounds", n)
		}
		seen[n] = true
	}
	for i := 0; i <= 5; i++ {
		if !seen[i] {
			t.Errorf("IntRange(0, 5) never produced %d", i)
		}
	}
}

func TestBits(t *testing.T) {
	src := NewSource(42)
	r, _ := src.Next()
	for _, n := range []int{0, 1, 7, 32, 63} {
		for i := 0; i < 100; i++ {
			if v := r.Bits(n); n < 64 && v >= 1<<uint(n) {
				t.Errorf("Bits(%d) = %d, exceeds width", n, v)
			}
		}
	}
}

func TestFilter(t *testing.T) {
	src := NewSource(3)
	evens := Filter(Draws(src, func(r *Rand) any { return r.Intn(100) }), func(v any) bool {
		return v.(int)%2 == 0
	})
	for i := 0; i < 50; i++ {
		v, err := evens.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.(int)%2 != 0 {
			t.Errorf("Filter let %v through", v)
		}
	}
}

func TestTake_StopsAtExhaustion(t *testing.T) {
	got, err := Take(Slice([]any{1, 2}), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Take returned %d items, want 2", len(got))
	}
}
