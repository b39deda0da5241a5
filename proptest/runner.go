// Package proptest runs property tests over generated inputs.
//
// The inputs of a property are the exported fields of a struct. Every case
// gets its own seed from a chain that starts at the configured seed, or at a
// seed derived from the test name, so runs are reproducible locally and in
// CI:
//
//	type input struct {
//	    Name  string
//	    Items []int
//	}
//
//	func TestSum(t *testing.T) {
//	    proptest.ForAll(t, func(t *proptest.T, in input) {
//	        if Sum(in.Items) < 0 && t.Sometimes(len(in.Items) > 0) {
//	            t.Errorf("negative sum for %v", in.Items)
//	        }
//	    }, proptest.WithCount(50))
//	}
//
// A failing case logs its seed; rerun it alone with TYPEGEN_SEED=<seed>
// TYPEGEN_COUNT=1.
package proptest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/shipq/typegen"
	"github.com/shipq/typegen/config"
	"github.com/shipq/typegen/generator"
	"github.com/shipq/typegen/rng"
)

// SeedStore remembers the seeds of failing cases so later runs replay them
// first.
type SeedStore interface {
	Seeds(ctx context.Context, test string) ([]int64, error)
	Record(ctx context.Context, test string, seed int64) error
	Forget(ctx context.Context, test string, seed int64) error
}

type runner struct {
	layer config.Config
	store SeedStore
}

// Option configures a property run.
type Option func(*runner)

// WithConfig layers a configuration over the global one.
func WithConfig(cfg config.Config) Option {
	return func(r *runner) { r.layer = config.Merge(r.layer, cfg) }
}

// WithSeed fixes the first seed of the chain.
func WithSeed(seed int64) Option {
	return func(r *runner) { r.layer.Seed = &seed }
}

// WithCount sets the number of generated cases.
func WithCount(n int) Option {
	return func(r *runner) { r.layer.Count = &n }
}

// WithOptional sets the optional-field policy for nested records.
func WithOptional(p generator.OptionalPolicy) Option {
	return func(r *runner) { r.layer.Optional = &p }
}

// WithMaxIterations sets the draw budget per case.
func WithMaxIterations(n int) Option {
	return func(r *runner) { r.layer.MaxIterations = &n }
}

// WithArgSet restricts generation to the named input fields. The others
// keep their zero value, or what the input's Defaults method sets.
func WithArgSet(names ...string) Option {
	return func(r *runner) { r.layer.ArgSet = names }
}

// WithOverride replaces the description of one input field. A
// generator.Canned or slice value is used as the field's example source;
// anything else is taken as a type description. A bare Generator is
// rejected: wrap it in a generator.Canned so it draws from the case's
// source.
func WithOverride(field string, v any) Option {
	return func(r *runner) {
		if r.layer.Overrides == nil {
			r.layer.Overrides = map[string]any{}
		}
		r.layer.Overrides[field] = v
	}
}

// WithMatchers puts matchers ahead of the configured chain.
func WithMatchers(ms ...generator.Matcher) Option {
	return func(r *runner) { r.layer.Matchers = append(r.layer.Matchers, ms...) }
}

// WithRefs adds named descriptions for forward references.
func WithRefs(refs map[string]any) Option {
	return WithConfig(config.Config{Refs: refs})
}

// WithLogger traces generation at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(r *runner) { r.layer.Logger = l }
}

// WithStore replays the failing seeds recorded in s before the generated
// cases, records new failures and forgets replayed seeds that pass.
func WithStore(s SeedStore) Option {
	return func(r *runner) { r.store = s }
}

type testCase[In any] struct {
	seed   int64
	input  In
	replay bool
}

// ForAll generates cases of In and runs prop on each in its own subtest.
// The TYPEGEN_* environment variables override options.
func ForAll[In any](t *testing.T, prop func(t *T, in In), opts ...Option) {
	t.Helper()

	r := runner{}
	for _, opt := range opts {
		opt(&r)
	}
	env, err := config.FromEnv()
	if err != nil {
		t.Fatalf("proptest: %v", err)
	}
	cfg := config.MergeAll(typegen.Global(), r.layer, env)
	if err := config.ValidateOverrides(cfg); err != nil {
		t.Fatalf("proptest: %v", err)
	}
	count := *cfg.Count
	if count <= 0 {
		t.Fatalf("proptest: count must be greater than 0, got %d", count)
	}
	seed := config.SeedFromName(t.Name())
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}

	typ := reflect.TypeFor[In]()
	record, err := inputRecord(typ, cfg)
	if err != nil {
		t.Fatalf("proptest: %v", err)
	}

	ctx := t.Context()
	var cases []testCase[In]
	if r.store != nil {
		seeds, err := r.store.Seeds(ctx, t.Name())
		if err != nil {
			t.Fatalf("proptest: loading recorded seeds: %v", err)
		}
		for _, s := range seeds {
			replayed, err := generateCases[In](record, cfg, s, 1)
			if err != nil {
				t.Fatalf("proptest: replaying seed %d: %v", s, err)
			}
			replayed[0].replay = true
			cases = append(cases, replayed...)
		}
	}

	fresh, err := generateCases[In](record, cfg, seed, count)
	if err != nil {
		t.Fatalf("proptest: failed to generate %d test cases for %s, check that constraint is not too strong: %v",
			count, t.Name(), err)
	}
	cases = append(cases, fresh...)

	testName := t.Name()
	tr := newTracker()
	for i, tc := range cases {
		name := fmt.Sprintf("seed_%d", tc.seed)
		if tc.replay {
			name = "replay_" + name
		}
		t.Run(name, func(t *testing.T) {
			pt := &T{T: t, Seed: tc.seed, Case: i}
			if !tc.replay {
				pt.tracker = tr
			}
			defer r.finish(ctx, pt, testName, tc.replay)
			prop(pt, tc.input)
		})
	}
	tr.check(t, count)
}

func (r *runner) finish(ctx context.Context, pt *T, test string, replay bool) {
	if !pt.Failed() {
		if replay && r.store != nil {
			if err := r.store.Forget(ctx, test, pt.Seed); err != nil {
				pt.Logf("proptest: forgetting seed %d: %v", pt.Seed, err)
			}
		}
		return
	}
	pt.Logf("proptest: case failed (seed=%d, use %s=%d %s=1 to reproduce)",
		pt.Seed, config.EnvSeed, pt.Seed, config.EnvCount)
	if r.store != nil && !replay {
		if err := r.store.Record(ctx, test, pt.Seed); err != nil {
			pt.Logf("proptest: recording seed %d: %v", pt.Seed, err)
		}
	}
}

// generateCases produces n inputs from the seed chain starting at seed.
func generateCases[In any](record generator.Record, cfg config.Config, seed int64, n int) ([]testCase[In], error) {
	src := rng.NewSource(seed)
	cfg.Seed = &seed
	g, err := typegen.Build(record, cfg, src)
	if err != nil {
		return nil, err
	}

	typ := reflect.TypeFor[In]()
	cases := make([]testCase[In], 0, n)
	for len(cases) < n {
		v, err := g.Next()
		if errors.Is(err, rng.ErrExhausted) {
			return nil, &typegen.CountError{
				Target:    typ.String(),
				Requested: n,
				Produced:  len(cases),
				Err:       err,
			}
		}
		if err != nil {
			return nil, err
		}
		in, err := assign[In](typ, v.(map[string]any))
		if err != nil {
			return nil, err
		}
		cases = append(cases, testCase[In]{seed: src.LastSeed(), input: in})
	}
	return cases, nil
}

func assign[In any](typ reflect.Type, fields map[string]any) (In, error) {
	ptr := reflect.New(typ)
	if d, ok := ptr.Interface().(generator.Defaulter); ok {
		d.Defaults()
	}
	for name, v := range fields {
		dst := ptr.Elem().FieldByName(name)
		rv, err := generator.ValueFor(dst.Type(), v)
		if err != nil {
			var zero In
			return zero, fmt.Errorf("input field %s: %w", name, err)
		}
		dst.Set(rv)
	}
	return ptr.Elem().Interface().(In), nil
}

// inputRecord describes the generated fields of the input struct, in
// declaration order.
func inputRecord(typ reflect.Type, cfg config.Config) (generator.Record, error) {
	if typ.Kind() != reflect.Struct {
		return generator.Record{}, fmt.Errorf("input type %s is not a struct", typ)
	}

	var shapes map[string]any
	if fs, ok := reflect.New(typ).Interface().(generator.FieldShaper); ok {
		shapes = fs.FieldShapes()
	}

	available := map[string]reflect.StructField{}
	var order []string
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() || f.Tag.Get("typegen") == "-" {
			continue
		}
		available[f.Name] = f
		order = append(order, f.Name)
	}

	if cfg.ArgSet != nil {
		var missing []string
		for _, name := range cfg.ArgSet {
			if _, ok := available[name]; !ok {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return generator.Record{}, fmt.Errorf("arg set names unknown fields of %s: %s", typ, strings.Join(missing, ", "))
		}
		inSet := map[string]bool{}
		for _, name := range cfg.ArgSet {
			inSet[name] = true
		}
		var kept []string
		for _, name := range order {
			if inSet[name] {
				kept = append(kept, name)
			}
		}
		order = kept
	}

	record := generator.Record{Name: typ.String()}
	for _, name := range order {
		var desc any = available[name].Type
		if shape, ok := shapes[name]; ok {
			desc = shape
		}
		if override, ok := cfg.Overrides[name]; ok {
			var err error
			if desc, err = overrideDescription(available[name].Type, override); err != nil {
				return generator.Record{}, fmt.Errorf("override %q: %w", name, err)
			}
		}
		record.Fields = append(record.Fields, generator.Field{Name: name, Type: desc})
	}
	for name := range cfg.Overrides {
		if _, ok := available[name]; !ok {
			return generator.Record{}, fmt.Errorf("override %q names no field of %s", name, typ)
		}
	}
	return record, nil
}

// overrideDescription turns an override value into a field description.
// Cases draw from a source private to the run, so a ready-made Generator
// would sit outside the seed chain and is refused.
func overrideDescription(field reflect.Type, v any) (any, error) {
	switch v.(type) {
	case generator.Canned, func(*rng.Source) generator.Generator:
		return generator.Annotate(field, v), nil
	case generator.Generator:
		return nil, fmt.Errorf("a %T is not tied to the case seeds, pass a generator.Canned that builds it from its *rng.Source", v)
	case reflect.Type:
		return v, nil
	}
	if k := reflect.ValueOf(v).Kind(); k == reflect.Slice || k == reflect.Array {
		return generator.Annotate(field, v), nil
	}
	return v, nil
}
