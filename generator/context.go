// Package generator turns type descriptions into lazy generators of
// conforming values.
//
// A Context is built for every node of a type description. Its Generate
// method walks the matcher chain until one matcher claims the node; claiming
// matchers recurse into sub-types with Step, which builds a child Context and
// re-enters Generate. Every leaf draw comes from the Context's rng.Source.
//
//	src := rng.NewSource(42)
//	src.SetBudget(10000)
//	c := generator.From(src, generator.ListOf(generator.Int))
//	c.Matchers = append(generator.Builtin(), generator.Registry(types, kinds))
//	g, err := c.Generate()
package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"

	"github.com/shipq/typegen/rng"
)

// OptionalPolicy decides whether declared-optional fields are generated.
type OptionalPolicy int

const (
	// Omit never includes optional fields.
	Omit OptionalPolicy = iota
	// Include always generates every optional field.
	Include
	// Holes includes a random subset of the optional fields on every draw.
	Holes
)

func (p OptionalPolicy) String() string {
	switch p {
	case Omit:
		return "omit"
	case Include:
		return "include"
	case Holes:
		return "holes"
	}
	return fmt.Sprintf("OptionalPolicy(%d)", int(p))
}

// EnumValues lists the policies.
func (OptionalPolicy) EnumValues() []any { return []any{Omit, Include, Holes} }

// ParseOptionalPolicy parses "omit", "include" or "holes". The boolean
// spellings "false" and "true" are accepted for omit and include.
func ParseOptionalPolicy(s string) (OptionalPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "omit", "false":
		return Omit, nil
	case "include", "true":
		return Include, nil
	case "holes":
		return Holes, nil
	}
	return Omit, fmt.Errorf("invalid optional field policy %q (want omit, include or holes)", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *OptionalPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseOptionalPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MaxCollectionSize is the largest collection generated at depth zero. Each
// resolved recursive reference lowers the bound by one.
const MaxCollectionSize = 5

// Context is the per-node state of a generation tree.
type Context struct {
	Source any
	Origin any
	Args   []any
	Path   []string

	Optional OptionalPolicy
	Matchers []Matcher
	Refs     map[string]any
	Depth    int

	Rand   *rng.Source
	Logger *slog.Logger

	// named composite Go types under construction on the path to this node
	building []reflect.Type
}

var discard = slog.New(slog.DiscardHandler)

// From builds a root context for t drawing from src.
func From(src *rng.Source, t any) *Context {
	origin, args := decompose(t)
	return &Context{
		Source: t,
		Origin: origin,
		Args:   args,
		Path:   []string{Describe(t)},
		Rand:   src,
		Logger: discard,
	}
}

// Step generates for a sub-type t. A non-empty label is appended to the path.
func (c *Context) Step(t any, label string) (Generator, error) {
	return c.child(t, label).Generate()
}

// StepShape generates for an ad hoc parameterized shape, using origin as the
// structural origin of the child with the given args.
func (c *Context) StepShape(origin any, label string, args ...any) (Generator, error) {
	return c.child(Param{Origin: origin, Args: args}, label).Generate()
}

// stepRecursive steps into a resolved recursive reference, one level deeper.
func (c *Context) stepRecursive(t any, label string) (Generator, error) {
	next := c.child(t, label)
	next.Depth++
	next.building = nil
	return next.Generate()
}

func (c *Context) child(t any, label string) *Context {
	origin, args := decompose(t)
	next := &Context{
		Source:   t,
		Origin:   origin,
		Args:     args,
		Path:     c.Path,
		Optional: c.Optional,
		Matchers: c.Matchers,
		Refs:     c.Refs,
		Depth:    c.Depth,
		Rand:     c.Rand,
		Logger:   c.Logger,
		building: c.building,
	}
	if label != "" {
		next.Path = append(slices.Clip(c.Path), label)
	}
	if rt, ok := c.Source.(reflect.Type); ok && isComposite(rt) {
		next.building = append(slices.Clip(c.building), rt)
	}
	return next
}

// cyclic reports whether this node is a named Go type already being built
// further up the path.
func (c *Context) cyclic() bool {
	rt, ok := c.Source.(reflect.Type)
	return ok && isComposite(rt) && slices.Contains(c.building, rt)
}

// Generate runs the matcher chain and returns the generator of the first
// matcher that claims this node.
func (c *Context) Generate() (Generator, error) {
	for _, m := range c.Matchers {
		g, err := m.Match(c)
		if err != nil {
			return nil, err
		}
		if g == nil {
			continue
		}
		c.Logger.Debug("matcher claimed type",
			"matcher", matcherName(m),
			"path", strings.Join(c.Path, " "),
			"depth", c.Depth,
		)
		return c.validated(g, m), nil
	}
	return nil, newError(ErrUnresolvable, c, "no matcher claimed the type")
}

// validated flags generators that end on their very first pull while the
// budget still has draws left, and attributes unexpected failures to this
// node.
func (c *Context) validated(g Generator, m Matcher) Generator {
	pulled := false
	return rng.GeneratorFunc(func() (any, error) {
		v, err := g.Next()
		first := !pulled
		pulled = true
		if err == nil {
			return v, nil
		}

		var genErr *GenerationError
		switch {
		case errors.Is(err, rng.ErrExhausted):
			if first && !c.Rand.Exhausted() {
				e := newError(ErrMalformed, c, "first pull produced nothing")
				e.Matcher = matcherName(m)
				return nil, e
			}
			return nil, err
		case errors.As(err, &genErr):
			return nil, err
		}
		e := newError(ErrFailed, c, "")
		e.Matcher = matcherName(m)
		e.cause = err
		return nil, e
	})
}

// MaxSize returns the collection size bound at this node's depth.
func (c *Context) MaxSize() int {
	return max(0, MaxCollectionSize-c.Depth)
}
