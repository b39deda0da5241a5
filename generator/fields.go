package generator

import (
	"fmt"
	"reflect"

	"github.com/shipq/typegen/rng"
)

// Fields generates field sets as map[string]any, applying the optional-field
// policy. Every live field generator is pulled exactly once per item, in
// declaration order, so a fixed seed always assigns the same values to the
// same fields.
func (c *Context) Fields(fields []Field) (Generator, error) {
	var (
		names    []string
		gens     []Generator
		optional []string
	)
	isOptional := make(map[string]bool)
	for _, f := range fields {
		if f.Optional {
			optional = append(optional, f.Name)
			isOptional[f.Name] = true
			if c.Optional == Omit {
				continue
			}
		}
		g, err := c.Step(f.Type, f.Name)
		if err != nil {
			return nil, err
		}
		names = append(names, f.Name)
		gens = append(gens, g)
	}

	if len(gens) == 0 {
		return rng.Draws(c.Rand, func(*rng.Rand) any { return map[string]any{} }), nil
	}

	policy := c.Optional
	rows := rng.Zip(gens...)
	return rng.GeneratorFunc(func() (any, error) {
		row, err := rows.Next()
		if err != nil {
			return nil, err
		}

		included := make(map[string]bool, len(optional))
		switch policy {
		case Include:
			for _, name := range optional {
				included[name] = true
			}
		case Holes:
			r, err := c.Rand.Next()
			if err != nil {
				return nil, err
			}
			for _, name := range rng.Sample(r, optional, r.IntRange(0, len(optional))) {
				included[name] = true
			}
		}

		values := row.([]any)
		out := make(map[string]any, len(names))
		for i, name := range names {
			if !isOptional[name] || included[name] {
				out[name] = values[i]
			}
		}
		return out, nil
	}), nil
}

// Nullable generates inner values wrapped by wrap, or null, treating the
// value as an optional field: Omit always yields null, Include never does,
// and Holes picks per draw.
func (c *Context) Nullable(inner any, label string, null any, wrap func(any) (any, error)) (Generator, error) {
	if c.Optional == Omit {
		return rng.Repeat(null), nil
	}
	g, err := c.Step(inner, label)
	if err != nil {
		return nil, err
	}
	valid := rng.GeneratorFunc(func() (any, error) {
		v, err := g.Next()
		if err != nil {
			return nil, err
		}
		return wrap(v)
	})
	if c.Optional == Include {
		return valid, nil
	}
	return rng.OneOf(c.Rand, rng.Repeat(null), valid), nil
}

// ValueFor converts a generated value for storage in a destination of type
// t. Numeric values convert between numeric kinds; everything else must be
// assignable.
func ValueFor(t reflect.Type, v any) (reflect.Value, error) {
	if v == nil {
		if nilable(t.Kind()) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use generated nil as %s", t)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if numeric(rv.Kind()) && numeric(t.Kind()) || rv.Kind() == t.Kind() && rv.Type().ConvertibleTo(t) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use generated %T as %s", v, t)
}

func nilable(k reflect.Kind) bool {
	switch k {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	}
	return false
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func hashable(v any) bool {
	return v == nil || reflect.ValueOf(v).Comparable()
}

func firstArg(args []any) any {
	if len(args) == 0 {
		return Any
	}
	return args[0]
}
