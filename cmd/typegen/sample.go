package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/shipq/typegen"
	"github.com/shipq/typegen/adapters/jwtclaims"
	"github.com/shipq/typegen/adapters/pgxtypes"
	"github.com/shipq/typegen/canned"
	"github.com/shipq/typegen/cli"
	"github.com/shipq/typegen/config"
	"github.com/shipq/typegen/generator"
	"github.com/shipq/typegen/logging"
	"github.com/shipq/typegen/rng"
)

type sampleOptions struct {
	configPath    string
	count         int
	seed          int64
	optional      string
	maxIterations int
	watch         bool
	indent        bool
	debug         bool
}

func newSampleCmd() *cobra.Command {
	opts := &sampleOptions{}

	cmd := &cobra.Command{
		Use:   "sample <type>",
		Short: "Print generated values of a type as JSON, one per line",
		Long: `Print generated values of a type as JSON, one per line.

Types are catalog names (see 'typegen types'), []T for a list, ?T for an
optional value and {T} for an object with string keys.

Settings are layered: the --config YAML file, then the TYPEGEN_SEED,
TYPEGEN_COUNT and TYPEGEN_OPTIONAL_FIELDS environment variables, then flags.`,
		Example: `  typegen sample word
  typegen sample '[]uuid' --count 3 --seed 42
  typegen sample '{?json}' --optional holes --config typegen.yaml --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := parseType(args[0])
			if err != nil {
				return err
			}
			if !opts.watch {
				return opts.sample(cmd, desc)
			}
			if opts.configPath == "" {
				return errors.New("--watch requires --config")
			}
			return opts.watchConfig(cmd, desc)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML config layer")
	f.IntVarP(&opts.count, "count", "n", 0, "number of values (default from config, else 10)")
	f.Int64Var(&opts.seed, "seed", 0, "seed of the seed chain (default from config, else random)")
	f.StringVar(&opts.optional, "optional", "", "optional-field policy: omit, include or holes")
	f.IntVar(&opts.maxIterations, "max-iterations", 0, "draw budget per value, -1 for unbounded")
	f.BoolVar(&opts.watch, "watch", false, "sample again whenever the config file changes")
	f.BoolVar(&opts.indent, "indent", false, "indent JSON output")
	f.BoolVar(&opts.debug, "debug", false, "trace matcher decisions to stderr")
	return cmd
}

// resolve layers the config file, the environment and the flags.
func (o *sampleOptions) resolve(cmd *cobra.Command) (config.Config, error) {
	var file config.Config
	if o.configPath != "" {
		var err error
		if file, err = config.Load(o.configPath); err != nil {
			return config.Config{}, err
		}
	}
	env, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}

	flags := config.Config{
		Matchers: []generator.Matcher{pgxtypes.Matcher(), jwtclaims.Matcher()},
		Refs:     canned.Refs(),
	}
	f := cmd.Flags()
	if f.Changed("count") {
		flags.Count = &o.count
	}
	if f.Changed("seed") {
		flags.Seed = &o.seed
	}
	if f.Changed("optional") {
		p, err := generator.ParseOptionalPolicy(o.optional)
		if err != nil {
			return config.Config{}, err
		}
		flags.Optional = &p
	}
	if f.Changed("max-iterations") {
		flags.MaxIterations = &o.maxIterations
	}
	if o.debug {
		flags.Logger = logging.New(cmd.ErrOrStderr(), slog.LevelDebug, false)
	}

	cfg := config.MergeAll(typegen.Global(), file, env, flags)
	if *cfg.Count < 0 {
		return config.Config{}, fmt.Errorf("count must not be negative, got %d", *cfg.Count)
	}
	return cfg, nil
}

func (o *sampleOptions) sample(cmd *cobra.Command, desc any) error {
	cfg, err := o.resolve(cmd)
	if err != nil {
		return err
	}

	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	src := rng.NewSource(seed)
	cfg.Seed = &seed

	g, err := typegen.Build(desc, cfg, src)
	if err != nil {
		return err
	}
	values, err := rng.Take(g, *cfg.Count)
	if err != nil {
		return err
	}
	if len(values) < *cfg.Count {
		return &typegen.CountError{
			Target:    generator.Describe(desc),
			Requested: *cfg.Count,
			Produced:  len(values),
			Err:       rng.ErrExhausted,
		}
	}
	return writeValues(cmd.OutOrStdout(), values, o.indent)
}

func writeValues(w io.Writer, values []any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	for _, v := range values {
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding %T: %w", v, err)
		}
	}
	return nil
}

// watchConfig samples once, then again after every write to the config
// file, until the command's context is done.
func (o *sampleOptions) watchConfig(cmd *cobra.Command, desc any) error {
	p := cli.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err := o.sample(cmd, desc); err != nil {
		p.Warnf("%v", err)
	}
	return watchFile(cmd.Context(), o.configPath, func() {
		p.Infof("# %s changed", o.configPath)
		if err := o.sample(cmd, desc); err != nil {
			p.Warnf("%v", err)
		}
	})
}

// watchFile calls onChange after writes to path settle. Editors often
// replace files instead of writing them, so the parent directory is
// watched.
func watchFile(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	const settle = 100 * time.Millisecond
	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(settle)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		case <-timer.C:
			onChange()
		}
	}
}
