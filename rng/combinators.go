package rng

import (
	"errors"
	"fmt"
	"reflect"
)

// Generator is a lazy, possibly unbounded sequence of values. Next returns
// ErrExhausted (possibly wrapped) when the sequence has ended; any other
// error is a failure of the generator itself.
type Generator interface {
	Next() (any, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func() (any, error)

// Next calls f.
func (f GeneratorFunc) Next() (any, error) { return f() }

// =============================================================================
// Sources of values
// =============================================================================

// Draws returns an unbounded generator that consumes one draw from src per
// element and builds the element with fn.
func Draws(src *Source, fn func(r *Rand) any) Generator {
	return GeneratorFunc(func() (any, error) {
		r, err := src.Next()
		if err != nil {
			return nil, err
		}
		return fn(r), nil
	})
}

// Repeat returns a generator that yields v forever without drawing.
func Repeat(v any) Generator {
	return GeneratorFunc(func() (any, error) { return v, nil })
}

// Slice returns a finite generator over values, without drawing.
func Slice(values []any) Generator {
	i := 0
	return GeneratorFunc(func() (any, error) {
		if i >= len(values) {
			return nil, ErrExhausted
		}
		i++
		return values[i-1], nil
	})
}

// =============================================================================
// Selection Combinators
// =============================================================================

// Choice returns an unbounded generator that picks uniformly among values,
// one draw per element.
// Panics if values is empty.
func Choice(src *Source, values []any) Generator {
	if len(values) == 0 {
		panic("rng: Choice called with no values")
	}
	return Draws(src, func(r *Rand) any { return Pick(r, values) })
}

// OneOf returns a generator that, for every element, draws once from src to
// pick one of options uniformly and then pulls the next element from it.
// Each option is equally likely regardless of its own cardinality.
//
// Options are Generators or static slices/arrays; static options become an
// unbounded uniform Choice over their elements.
// Panics if options is empty or an option is neither.
func OneOf(src *Source, options ...any) Generator {
	if len(options) == 0 {
		panic("rng: OneOf called with no options")
	}
	gens := make([]Generator, len(options))
	for i, o := range options {
		gens[i] = normalize(src, o)
	}
	return GeneratorFunc(func() (any, error) {
		r, err := src.Next()
		if err != nil {
			return nil, err
		}
		return Pick(r, gens).Next()
	})
}

func normalize(src *Source, option any) Generator {
	switch o := option.(type) {
	case Generator:
		return o
	case []any:
		return Choice(src, o)
	}

	v := reflect.ValueOf(option)
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		values := make([]any, v.Len())
		for i := range values {
			values[i] = v.Index(i).Interface()
		}
		return Choice(src, values)
	}
	panic(fmt.Sprintf("rng: OneOf option of type %T is neither a Generator nor a slice", option))
}

// =============================================================================
// Transformation Combinators
// =============================================================================

// Map applies fn to every element of g.
func Map(g Generator, fn func(any) any) Generator {
	return GeneratorFunc(func() (any, error) {
		v, err := g.Next()
		if err != nil {
			return nil, err
		}
		return fn(v), nil
	})
}

// Filter pulls from g until pred accepts an element. Rejected elements still
// consume whatever draws produced them, so the Source budget bounds the search.
func Filter(g Generator, pred func(any) bool) Generator {
	return GeneratorFunc(func() (any, error) {
		for {
			v, err := g.Next()
			if err != nil {
				return nil, err
			}
			if pred(v) {
				return v, nil
			}
		}
	})
}

// Zip pulls one element from every generator in order and yields them as a
// []any. With no generators it yields empty slices forever.
func Zip(gens ...Generator) Generator {
	return GeneratorFunc(func() (any, error) {
		values := make([]any, len(gens))
		for i, g := range gens {
			v, err := g.Next()
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return values, nil
	})
}

// Take pulls up to n elements from g. It stops early, without error, when g
// reports ErrExhausted; any other error is returned with what was collected.
func Take(g Generator, n int) ([]any, error) {
	result := make([]any, 0, n)
	for len(result) < n {
		v, err := g.Next()
		if errors.Is(err, ErrExhausted) {
			break
		}
		if err != nil {
			return result, err
		}
		result = append(result, v)
	}
	return result, nil
}
