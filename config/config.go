// Package config layers generation settings: system defaults, a YAML file,
// the environment and per-call options each contribute a Config, and Merge
// folds them so later layers override earlier ones.
package config

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"log/slog"
	"maps"
	"os"
	"reflect"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/shipq/typegen/canned"
	"github.com/shipq/typegen/generator"
)

// Defaults for settings no layer provides.
const (
	DefaultCount         = 10
	DefaultMaxIterations = 10000
)

// Environment variables read by FromEnv.
const (
	EnvSeed     = "TYPEGEN_SEED"
	EnvCount    = "TYPEGEN_COUNT"
	EnvOptional = "TYPEGEN_OPTIONAL_FIELDS"
)

// Config is one layer of generation settings. Nil pointers, slices and maps
// mean the layer does not set that value.
type Config struct {
	// Seed fixes the first seed of the chain. When no layer sets it,
	// callers pick one, usually from a test name.
	Seed *int64
	// Count is the number of values a run generates.
	Count *int
	// Optional is the optional-field policy.
	Optional *generator.OptionalPolicy
	// ArgSet restricts which inputs of a property are generated.
	ArgSet []string
	// Overrides replaces the description of named inputs. A value that is
	// a Generator, a Canned or a slice is used as an example source.
	Overrides map[string]any
	// MaxIterations is the draw budget per generated value; -1 disables it.
	MaxIterations *int

	TypeMatchers map[reflect.Type]generator.Canned
	Matchers     []generator.Matcher
	Refs         map[string]any

	Logger *slog.Logger
}

// Ptr returns a pointer to v, for filling in Config literals.
func Ptr[T any](v T) *T {
	return &v
}

// Base returns the system defaults: the built-in matcher chain and the
// canned type registry.
func Base() Config {
	return Config{
		Count:         Ptr(DefaultCount),
		Optional:      Ptr(generator.Omit),
		Overrides:     map[string]any{},
		MaxIterations: Ptr(DefaultMaxIterations),
		TypeMatchers:  canned.Defaults(),
		Matchers:      generator.Builtin(),
		Refs:          map[string]any{},
	}
}

// Merge layers right over left. Scalars come from right when set, else
// left, else the system default. Maps are merged key-wise with right
// winning. Matchers from right come first so they take precedence.
func Merge(left, right Config) Config {
	return Config{
		Seed:          pick(right.Seed, left.Seed, nil),
		Count:         pick(right.Count, left.Count, Ptr(DefaultCount)),
		Optional:      pick(right.Optional, left.Optional, Ptr(generator.Omit)),
		ArgSet:        pickSlice(right.ArgSet, left.ArgSet),
		Overrides:     union(left.Overrides, right.Overrides),
		MaxIterations: pick(right.MaxIterations, left.MaxIterations, Ptr(DefaultMaxIterations)),
		TypeMatchers:  union(left.TypeMatchers, right.TypeMatchers),
		Matchers:      append(append([]generator.Matcher(nil), right.Matchers...), left.Matchers...),
		Refs:          union(left.Refs, right.Refs),
		Logger:        pick(right.Logger, left.Logger, nil),
	}
}

// MergeAll folds layers from left to right.
func MergeAll(layers ...Config) Config {
	var out Config
	for _, l := range layers {
		out = Merge(out, l)
	}
	return out
}

func pick[T any](right, left, def *T) *T {
	if right != nil {
		return right
	}
	if left != nil {
		return left
	}
	return def
}

func pickSlice[T any](right, left []T) []T {
	if right != nil {
		return right
	}
	return left
}

func union[K comparable, V any](left, right map[K]V) map[K]V {
	out := make(map[K]V, len(left)+len(right))
	maps.Copy(out, left)
	maps.Copy(out, right)
	return out
}

// Compile returns the full matcher chain: the configured matchers followed
// by the registry of TypeMatchers with the canned kind fallback.
func Compile(cfg Config) []generator.Matcher {
	chain := make([]generator.Matcher, 0, len(cfg.Matchers)+1)
	chain = append(chain, cfg.Matchers...)
	return append(chain, generator.Registry(cfg.TypeMatchers, canned.Kinds()))
}

// SeedFromName derives a stable seed from a name, so local and CI runs of
// the same test agree.
func SeedFromName(name string) int64 {
	return int64(crc32.ChecksumIEEE([]byte(name)))
}

// ValidateOverrides reports overrides of inputs outside the arg set.
func ValidateOverrides(cfg Config) error {
	if cfg.ArgSet == nil {
		return nil
	}
	allowed := make(map[string]bool, len(cfg.ArgSet))
	for _, name := range cfg.ArgSet {
		allowed[name] = true
	}
	var errs []error
	for name := range cfg.Overrides {
		if !allowed[name] {
			errs = append(errs, fmt.Errorf("override %q is not in the arg set %v", name, cfg.ArgSet))
		}
	}
	return errors.Join(errs...)
}

// =============================================================================
// File and environment layers
// =============================================================================

type fileConfig struct {
	Seed          *int64                    `yaml:"seed"`
	Count         *int                      `yaml:"count"`
	Optional      *generator.OptionalPolicy `yaml:"optional_fields"`
	ArgSet        []string                  `yaml:"arg_set"`
	MaxIterations *int                      `yaml:"max_iterations"`
}

// Load reads a YAML config layer. Unknown keys are an error.
//
//	seed: 42
//	count: 25
//	optional_fields: holes
//	max_iterations: 5000
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	var fc fileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if fc.Count != nil && *fc.Count < 0 {
		return Config{}, fmt.Errorf("%s: count must not be negative, got %d", path, *fc.Count)
	}
	return Config{
		Seed:          fc.Seed,
		Count:         fc.Count,
		Optional:      fc.Optional,
		ArgSet:        fc.ArgSet,
		MaxIterations: fc.MaxIterations,
	}, nil
}

// FromEnv reads the TYPEGEN_* environment variables into a layer.
func FromEnv() (Config, error) {
	var cfg Config
	if s := os.Getenv(EnvSeed); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvSeed, err)
		}
		cfg.Seed = &seed
	}
	if s := os.Getenv(EnvCount); s != "" {
		count, err := strconv.Atoi(s)
		if err != nil || count < 0 {
			return Config{}, fmt.Errorf("invalid %s %q", EnvCount, s)
		}
		cfg.Count = &count
	}
	if s := os.Getenv(EnvOptional); s != "" {
		policy, err := generator.ParseOptionalPolicy(s)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvOptional, err)
		}
		cfg.Optional = &policy
	}
	return cfg, nil
}
