// Package typegen generates random values from type descriptions, for
// parametrizing property tests.
//
// Values are drawn from a seeded source, so a fixed seed and configuration
// always produce the same sequence:
//
//	values, err := typegen.Take(generator.ListOf(generator.Int), 5, typegen.WithSeed(42))
//
// Generation is configured in layers: the package-level configuration set
// with ReplaceGlobal, then per-call options.
package typegen

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/shipq/typegen/config"
	"github.com/shipq/typegen/generator"
	"github.com/shipq/typegen/rng"
)

var (
	globalMu sync.RWMutex
	global   = config.Base()
)

// Global returns the package-level configuration.
func Global() config.Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// ReplaceGlobal layers cfg over the system defaults and makes the result the
// package-level configuration. It returns a function that restores the
// previous one.
func ReplaceGlobal(cfg config.Config) func() {
	globalMu.Lock()
	defer globalMu.Unlock()

	prev := global
	global = config.Merge(config.Base(), cfg)
	return func() {
		globalMu.Lock()
		defer globalMu.Unlock()
		global = prev
	}
}

type options struct {
	layer config.Config
	src   *rng.Source
}

// Option configures one generation call.
type Option func(*options)

// WithConfig layers a whole configuration over the global one.
func WithConfig(cfg config.Config) Option {
	return func(o *options) { o.layer = config.Merge(o.layer, cfg) }
}

// WithSeed reseeds the source before the first value and chains seeds
// between values.
func WithSeed(seed int64) Option {
	return func(o *options) { o.layer.Seed = &seed }
}

// WithOptional sets the optional-field policy.
func WithOptional(p generator.OptionalPolicy) Option {
	return func(o *options) { o.layer.Optional = &p }
}

// WithMaxIterations sets the draw budget per value. rng.Unbounded disables it.
func WithMaxIterations(n int) Option {
	return func(o *options) { o.layer.MaxIterations = &n }
}

// WithMatchers puts matchers ahead of the configured chain.
func WithMatchers(ms ...generator.Matcher) Option {
	return func(o *options) { o.layer.Matchers = append(o.layer.Matchers, ms...) }
}

// WithTypeMatcher registers the default distribution of an exact type.
func WithTypeMatcher(t reflect.Type, c generator.Canned) Option {
	return func(o *options) {
		if o.layer.TypeMatchers == nil {
			o.layer.TypeMatchers = map[reflect.Type]generator.Canned{}
		}
		o.layer.TypeMatchers[t] = c
	}
}

// WithRefs adds named descriptions for forward references.
func WithRefs(refs map[string]any) Option {
	return func(o *options) {
		if o.layer.Refs == nil {
			o.layer.Refs = map[string]any{}
		}
		for name, t := range refs {
			o.layer.Refs[name] = t
		}
	}
}

// WithSource draws from src instead of rng.Default.
func WithSource(src *rng.Source) Option {
	return func(o *options) { o.src = src }
}

// WithLogger traces matcher decisions at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.layer.Logger = l }
}

// Resolve merges the global configuration with opts.
func Resolve(opts ...Option) (config.Config, *rng.Source) {
	o := options{src: rng.Default}
	for _, opt := range opts {
		opt(&o)
	}
	return config.Merge(Global(), o.layer), o.src
}

// Generate returns a lazy, unbounded generator of values of t. The draw
// budget is reset before every value; with a seed, the source is reseeded
// along the seed chain as well.
func Generate(t any, opts ...Option) (generator.Generator, error) {
	cfg, src := Resolve(opts...)
	return Build(t, cfg, src)
}

// Build is Generate with an already resolved configuration.
func Build(t any, cfg config.Config, src *rng.Source) (generator.Generator, error) {
	c := generator.From(src, t)
	c.Matchers = config.Compile(cfg)
	c.Optional = *cfg.Optional
	c.Refs = cfg.Refs
	if cfg.Logger != nil {
		c.Logger = cfg.Logger
	}

	g, err := c.Generate()
	if err != nil {
		return nil, err
	}
	if cfg.Seed != nil {
		return src.WrapDeterministically(g, *cfg.Seed, *cfg.MaxIterations), nil
	}
	return budgeted(src, g, *cfg.MaxIterations), nil
}

func budgeted(src *rng.Source, g generator.Generator, budget int) generator.Generator {
	return rng.GeneratorFunc(func() (any, error) {
		src.SetBudget(budget)
		return g.Next()
	})
}

// CountError reports that fewer values than requested could be generated.
type CountError struct {
	Target    string
	Requested int
	Produced  int
	Err       error
}

func (e *CountError) Error() string {
	return fmt.Sprintf("typegen: generated %d of %d values of %s: %v", e.Produced, e.Requested, e.Target, e.Err)
}

func (e *CountError) Unwrap() error { return e.Err }

// Take generates exactly n values of t, or fails with a *CountError.
func Take(t any, n int, opts ...Option) ([]any, error) {
	g, err := Generate(t, opts...)
	if err != nil {
		return nil, err
	}
	values, err := rng.Take(g, n)
	if err != nil {
		return nil, err
	}
	if len(values) < n {
		return nil, &CountError{
			Target:    generator.Describe(t),
			Requested: n,
			Produced:  len(values),
			Err:       rng.ErrExhausted,
		}
	}
	return values, nil
}

// Values generates n values of the Go type T.
func Values[T any](n int, opts ...Option) ([]T, error) {
	typ := reflect.TypeFor[T]()
	values, err := Take(typ, n, opts...)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(values))
	for i, v := range values {
		rv, err := generator.ValueFor(typ, v)
		if err != nil {
			return nil, fmt.Errorf("typegen: value %d: %w", i, err)
		}
		reflect.ValueOf(&out[i]).Elem().Set(rv)
	}
	return out, nil
}

// IsExhausted reports whether err means the draw budget ran out.
func IsExhausted(err error) bool {
	return errors.Is(err, rng.ErrExhausted)
}
