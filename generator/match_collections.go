package generator

import (
	"fmt"
	"reflect"

	"github.com/shipq/typegen/rng"
)

var (
	anySliceType   = reflect.TypeFor[[]any]()
	anySetType     = reflect.TypeFor[map[any]struct{}]()
	stringDictType = reflect.TypeFor[map[string]any]()
	anyDictType    = reflect.TypeFor[map[any]any]()
)

// matchCollections claims lists and sets. The length is drawn before any
// element, from [0, MaxSize], and exactly that many elements are pulled.
func matchCollections(c *Context) (Generator, error) {
	if c.Origin != List && c.Origin != Set || c.cyclic() {
		return nil, nil
	}
	elems, err := c.Step(firstArg(c.Args), "[]")
	if err != nil {
		return nil, err
	}

	target := anySliceType
	if c.Origin == Set {
		target = anySetType
	}
	if t, ok := c.Source.(reflect.Type); ok {
		target = t
	}

	return rng.GeneratorFunc(func() (any, error) {
		r, err := c.Rand.Next()
		if err != nil {
			return nil, err
		}
		n := r.IntRange(0, c.MaxSize())

		if target.Kind() == reflect.Slice {
			out := reflect.MakeSlice(target, 0, n)
			for range n {
				v, err := elems.Next()
				if err != nil {
					return nil, err
				}
				rv, err := ValueFor(target.Elem(), v)
				if err != nil {
					return nil, err
				}
				out = reflect.Append(out, rv)
			}
			return out.Interface(), nil
		}

		out := reflect.MakeMapWithSize(target, n)
		member := reflect.Zero(target.Elem())
		for range n {
			v, err := elems.Next()
			if err != nil {
				return nil, err
			}
			key, err := mapKey(target, v)
			if err != nil {
				return nil, err
			}
			out.SetMapIndex(key, member)
		}
		return out.Interface(), nil
	}), nil
}

// matchDicts claims mappings. Unparameterized dicts map strings to strings.
// Keys and values are pulled in lock-step.
func matchDicts(c *Context) (Generator, error) {
	if c.Origin != Dict || c.cyclic() {
		return nil, nil
	}
	args := append(append([]any(nil), c.Args...), String, String)
	keyType, valueType := args[0], args[1]

	keys, err := c.Step(keyType, "[Key]")
	if err != nil {
		return nil, err
	}
	values, err := c.Step(valueType, "[Value]")
	if err != nil {
		return nil, err
	}

	target := anyDictType
	if keyType == String {
		target = stringDictType
	}
	if t, ok := c.Source.(reflect.Type); ok {
		target = t
	}

	return rng.GeneratorFunc(func() (any, error) {
		r, err := c.Rand.Next()
		if err != nil {
			return nil, err
		}
		n := r.IntRange(0, c.MaxSize())

		out := reflect.MakeMapWithSize(target, n)
		for range n {
			k, err := keys.Next()
			if err != nil {
				return nil, err
			}
			v, err := values.Next()
			if err != nil {
				return nil, err
			}
			key, err := mapKey(target, k)
			if err != nil {
				return nil, err
			}
			value, err := ValueFor(target.Elem(), v)
			if err != nil {
				return nil, err
			}
			out.SetMapIndex(key, value)
		}
		return out.Interface(), nil
	}), nil
}

func mapKey(target reflect.Type, v any) (reflect.Value, error) {
	if !hashable(v) {
		return reflect.Value{}, fmt.Errorf("generated key %#v of type %T is not hashable", v, v)
	}
	return ValueFor(target.Key(), v)
}

// matchTuples claims fixed-arity tuples and Go arrays. Each position is
// generated from its own generator; a trailing Ellipsis appends a list of
// the last position's type.
func matchTuples(c *Context) (Generator, error) {
	if c.Origin != Tuple || c.cyclic() {
		return nil, nil
	}

	var positions []any
	variadic := len(c.Args) == 0
	for _, a := range c.Args {
		if _, ok := a.(ellipsis); ok {
			variadic = true
			continue
		}
		positions = append(positions, a)
	}

	gens := make([]Generator, len(positions))
	for i, p := range positions {
		g, err := c.Step(p, fmt.Sprintf("[%d]", i))
		if err != nil {
			return nil, err
		}
		gens[i] = g
	}
	head := rng.Zip(gens...)

	if t, ok := c.Source.(reflect.Type); ok && t.Kind() == reflect.Array {
		return rng.GeneratorFunc(func() (any, error) {
			row, err := head.Next()
			if err != nil {
				return nil, err
			}
			out := reflect.New(t).Elem()
			for i, v := range row.([]any) {
				rv, err := ValueFor(t.Elem(), v)
				if err != nil {
					return nil, err
				}
				out.Index(i).Set(rv)
			}
			return out.Interface(), nil
		}), nil
	}
	if !variadic {
		return head, nil
	}

	last := any(Any)
	if len(positions) > 0 {
		last = positions[len(positions)-1]
	}
	tail, err := c.StepShape(List, "...", last)
	if err != nil {
		return nil, err
	}
	return rng.GeneratorFunc(func() (any, error) {
		row, err := head.Next()
		if err != nil {
			return nil, err
		}
		rest, err := tail.Next()
		if err != nil {
			return nil, err
		}
		return append(row.([]any), rest.([]any)...), nil
	}), nil
}
