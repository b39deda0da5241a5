package generator

import (
	"fmt"
	"reflect"

	"github.com/shipq/typegen/rng"
)

func matchLiterals(c *Context) (Generator, error) {
	if c.Origin != Literal {
		return nil, nil
	}
	if len(c.Args) == 0 {
		return nil, newError(ErrUnresolvable, c, "literal with no values")
	}
	return rng.OneOf(c.Rand, c.Args), nil
}

// matchUnions claims unions and Go pointers. Every alternative is equally
// likely; a pointer is either nil or points at a generated element.
//
// Pointers get no depth decay. A recursive type with two or more pointers
// to itself, such as struct{ L, R *node }, grows without a bound in depth
// and often ends its value by exhausting the draw budget. Recursive Go
// types should hold their children in slices, whose length shrinks with
// depth.
func matchUnions(c *Context) (Generator, error) {
	switch c.Origin {
	case Union:
		if len(c.Args) == 0 {
			return nil, nil
		}
		alternatives := make([]any, len(c.Args))
		for i, alt := range c.Args {
			g, err := c.Step(alt, "|")
			if err != nil {
				return nil, err
			}
			alternatives[i] = g
		}
		return rng.OneOf(c.Rand, alternatives...), nil

	case Pointer:
		t, ok := c.Source.(reflect.Type)
		if !ok {
			return nil, nil
		}
		elems, err := c.Step(t.Elem(), "*")
		if err != nil {
			return nil, err
		}
		pointers := rng.GeneratorFunc(func() (any, error) {
			v, err := elems.Next()
			if err != nil {
				return nil, err
			}
			rv, err := ValueFor(t.Elem(), v)
			if err != nil {
				return nil, err
			}
			p := reflect.New(t.Elem())
			p.Elem().Set(rv)
			return p.Interface(), nil
		})
		return rng.OneOf(c.Rand, rng.Repeat(reflect.Zero(t).Interface()), pointers), nil
	}
	return nil, nil
}

// matchAnnotated draws from the attached examples when there are any, and
// otherwise generates the inner type.
func matchAnnotated(c *Context) (Generator, error) {
	if c.Origin != Annotated {
		return nil, nil
	}
	var sources []any
	for _, a := range c.Args[min(1, len(c.Args)):] {
		examples, ok := a.(Examples)
		if !ok {
			continue
		}
		for _, e := range examples {
			s, err := exampleSource(c, e)
			if err != nil {
				return nil, err
			}
			sources = append(sources, s)
		}
	}
	if len(sources) > 0 {
		return rng.OneOf(c.Rand, sources...), nil
	}
	return c.Step(firstArg(c.Args), "")
}

func exampleSource(c *Context, e any) (any, error) {
	switch s := e.(type) {
	case Generator:
		return s, nil
	case Canned:
		return s(c.Rand), nil
	case func(*rng.Source) Generator:
		return s(c.Rand), nil
	}
	if k := reflect.ValueOf(e).Kind(); k == reflect.Slice || k == reflect.Array {
		if reflect.ValueOf(e).Len() == 0 {
			return nil, newError(ErrUnresolvable, c, "empty example list")
		}
		return e, nil
	}
	return nil, newError(ErrUnresolvable, c, fmt.Sprintf("example source of type %T is not a generator or a list", e))
}

var enumerableType = reflect.TypeFor[Enumerable]()

// matchEnums picks uniformly among the members of an Enum description or of
// a Go type implementing Enumerable.
func matchEnums(c *Context) (Generator, error) {
	var members []any
	switch src := c.Source.(type) {
	case Enum:
		members = src.Members
	case reflect.Type:
		switch {
		case src.Implements(enumerableType):
			members = reflect.Zero(src).Interface().(Enumerable).EnumValues()
		case reflect.PointerTo(src).Implements(enumerableType):
			members = reflect.New(src).Interface().(Enumerable).EnumValues()
		default:
			return nil, nil
		}
		converted := make([]any, len(members))
		for i, m := range members {
			rv, err := ValueFor(src, m)
			if err != nil {
				return nil, newError(ErrUnresolvable, c, fmt.Sprintf("enum member %d: %v", i, err))
			}
			converted[i] = rv.Interface()
		}
		members = converted
	default:
		return nil, nil
	}
	if len(members) == 0 {
		return nil, newError(ErrUnresolvable, c, "enum with no members")
	}
	return rng.OneOf(c.Rand, members), nil
}

// matchUnwrap reduces any remaining parameterized description to its first
// argument, or to Any when it has none.
func matchUnwrap(c *Context) (Generator, error) {
	if c.Origin == nil {
		return nil, nil
	}
	return c.Step(firstArg(c.Args), "")
}
