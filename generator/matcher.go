package generator

import (
	"fmt"
	"reflect"

	"github.com/shipq/typegen/rng"
)

// Generator is the lazy sequence every matcher produces.
type Generator = rng.Generator

// Matcher examines a Context and either returns a generator for its type or
// declines with (nil, nil). The first matcher in a chain that claims a type
// wins.
type Matcher interface {
	Match(c *Context) (Generator, error)
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(c *Context) (Generator, error)

// Match calls f.
func (f MatcherFunc) Match(c *Context) (Generator, error) { return f(c) }

type namedMatcher struct {
	name string
	fn   MatcherFunc
}

func (m namedMatcher) Match(c *Context) (Generator, error) { return m.fn(c) }
func (m namedMatcher) String() string                      { return m.name }

// Named returns a matcher that reports name in diagnostics.
func Named(name string, fn MatcherFunc) Matcher {
	return namedMatcher{name: name, fn: fn}
}

func matcherName(m Matcher) string {
	if s, ok := m.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", m)
}

// Canned builds a default value source for a well-known type.
type Canned func(src *rng.Source) Generator

// The built-in matchers, exported so callers can rearrange a chain.
var (
	Records     = Named("records", matchRecords)
	Collections = Named("collections", matchCollections)
	NamedTuples = Named("named-tuples", matchNamedTuples)
	Structs     = Named("structs", matchStructs)
	ForwardRefs = Named("forward-refs", matchForwardRefs)
	Literals    = Named("literals", matchLiterals)
	Dicts       = Named("dicts", matchDicts)
	Unions      = Named("unions", matchUnions)
	Annotations = Named("annotated", matchAnnotated)
	Enums       = Named("enums", matchEnums)
	Tuples      = Named("tuples", matchTuples)
	Unwrap      = Named("unwrap", matchUnwrap)
)

// Builtin returns the built-in matcher chain in priority order.
func Builtin() []Matcher {
	return []Matcher{
		Records,
		Collections,
		NamedTuples,
		Structs,
		ForwardRefs,
		Literals,
		Dicts,
		Unions,
		Annotations,
		Enums,
		Tuples,
		Unwrap,
	}
}

// Registry returns the lowest-priority matcher: an exact-type lookup in
// types, then, for named types of a basic kind, a lookup of the kind in
// kinds with the value converted to the named type.
func Registry(types map[reflect.Type]Canned, kinds map[reflect.Kind]Canned) Matcher {
	return Named("registry", func(c *Context) (Generator, error) {
		t, ok := c.Source.(reflect.Type)
		if !ok {
			return nil, nil
		}
		if canned, ok := types[t]; ok {
			return canned(c.Rand), nil
		}
		canned, ok := kinds[t.Kind()]
		if !ok {
			return nil, nil
		}
		return rng.Map(canned(c.Rand), func(v any) any {
			return reflect.ValueOf(v).Convert(t).Interface()
		}), nil
	})
}
