package proptest

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/shipq/typegen"
	"github.com/shipq/typegen/canned"
	"github.com/shipq/typegen/config"
	"github.com/shipq/typegen/generator"
	"github.com/shipq/typegen/rng"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type input struct {
	Name    string
	Items   []int
	Flag    bool
	Comment string
	private int
}

func (in *input) Defaults() { in.Comment = "default" }

func TestForAll_RunsCount(t *testing.T) {
	var mu sync.Mutex
	seeds := map[int64]bool{}
	ForAll(t, func(t *T, in input) {
		mu.Lock()
		defer mu.Unlock()
		seeds[t.Seed] = true
		assert.LessOrEqual(t, len(in.Items), generator.MaxCollectionSize)
		assert.Zero(t, in.private)
	}, WithCount(25), WithSeed(3))
	assert.Len(t, seeds, 25)
}

func TestForAll_SameSeedSameInputs(t *testing.T) {
	collect := func(t *testing.T) []input {
		var got []input
		ForAll(t, func(t *T, in input) {
			got = append(got, in)
		}, WithCount(10), WithSeed(77))
		return got
	}
	first := collect(t)
	second := collect(t)
	if diff := cmp.Diff(first, second, cmp.AllowUnexported(input{})); diff != "" {
		t.Errorf("same seed produced different inputs (-first +second):\n%s", diff)
	}
}

func TestForAll_ArgSetKeepsDefaults(t *testing.T) {
	ForAll(t, func(t *T, in input) {
		assert.Equal(t, "default", in.Comment)
		assert.Empty(t, in.Name)
		assert.Nil(t, in.Items)
	}, WithArgSet("Flag"), WithCount(5))
}

func TestForAll_Override(t *testing.T) {
	ForAll(t, func(t *T, in input) {
		assert.Contains(t, []string{"a", "b"}, in.Name)
		assert.Regexp(t, `^[A-Za-z0-9_-]{21}$`, in.Comment)
	},
		WithOverride("Name", []string{"a", "b"}),
		WithOverride("Comment", generator.Canned(canned.NanoIDs)),
		WithCount(10),
	)
}

type digit struct {
	X int
}

func TestForAll_CannedOverrideSameSeedSameInputs(t *testing.T) {
	digits := generator.Canned(func(src *rng.Source) generator.Generator {
		return rng.Choice(src, []any{1, 2, 3, 4, 5, 6, 7, 8, 9})
	})
	collect := func(t *testing.T) []int {
		var got []int
		ForAll(t, func(t *T, in digit) {
			got = append(got, in.X)
		}, WithSeed(7), WithCount(5), WithOverride("X", digits))
		return got
	}
	first := collect(t)
	second := collect(t)
	require.Len(t, first, 5)
	assert.Equal(t, first, second)
}

func TestForAll_Sometimes(t *testing.T) {
	ForAll(t, func(t *T, in input) {
		if t.Sometimes(in.Flag) {
			assert.True(t, in.Flag)
		}
	}, WithCount(30), WithSeed(12))
}

type shaped struct {
	Color string
}

func (shaped) FieldShapes() map[string]any {
	return map[string]any{"Color": generator.LiteralOf("red", "green")}
}

func TestForAll_FieldShapes(t *testing.T) {
	ForAll(t, func(t *T, in shaped) {
		assert.Contains(t, []string{"red", "green"}, in.Color)
	}, WithCount(10))
}

func TestInputRecord(t *testing.T) {
	typ := generator.TypeOf[input]()

	tests := []struct {
		name    string
		cfg     config.Config
		want    []string
		wantErr string
	}{
		{
			name: "all exported fields in order",
			cfg:  config.Base(),
			want: []string{"Name", "Items", "Flag", "Comment"},
		},
		{
			name: "arg set keeps declaration order",
			cfg:  config.Config{ArgSet: []string{"Flag", "Name"}},
			want: []string{"Name", "Flag"},
		},
		{
			name:    "unknown arg",
			cfg:     config.Config{ArgSet: []string{"Missing"}},
			wantErr: "unknown fields",
		},
		{
			name:    "unknown override",
			cfg:     config.Config{Overrides: map[string]any{"Missing": generator.Int}},
			wantErr: `override "Missing"`,
		},
		{
			name:    "generator override",
			cfg:     config.Config{Overrides: map[string]any{"Name": rng.Choice(rng.Default, []any{"a", "b"})}},
			wantErr: "generator.Canned",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := inputRecord(typ, tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			var names []string
			for _, f := range record.Fields {
				names = append(names, f.Name)
				assert.False(t, f.Optional)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestInputRecord_NotStruct(t *testing.T) {
	_, err := inputRecord(generator.TypeOf[int](), config.Base())
	require.Error(t, err)
}

func TestGenerateCases_ReplaySeed(t *testing.T) {
	cfg := config.Merge(typegen.Global(), config.Config{})
	record, err := inputRecord(generator.TypeOf[input](), cfg)
	require.NoError(t, err)

	chain, err := generateCases[input](record, cfg, 99, 5)
	require.NoError(t, err)

	for _, tc := range chain {
		replayed, err := generateCases[input](record, cfg, tc.seed, 1)
		require.NoError(t, err)
		require.Len(t, replayed, 1)
		assert.Equal(t, tc.seed, replayed[0].seed)
		if diff := cmp.Diff(tc.input, replayed[0].input, cmp.AllowUnexported(input{})); diff != "" {
			t.Errorf("seed %d did not reproduce its case (-chain +replay):\n%s", tc.seed, diff)
		}
	}
}

func TestGenerateCases_TooStrong(t *testing.T) {
	cfg := config.Merge(typegen.Global(), config.Config{MaxIterations: config.Ptr(0)})
	record, err := inputRecord(generator.TypeOf[input](), cfg)
	require.NoError(t, err)

	_, err = generateCases[input](record, cfg, 1, 3)
	require.Error(t, err)
	assert.True(t, typegen.IsExhausted(err))
}

type memStore struct {
	mu        sync.Mutex
	seeds     map[string][]int64
	forgotten []int64
}

func (s *memStore) Seeds(_ context.Context, test string) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seeds[test], nil
}

func (s *memStore) Record(_ context.Context, test string, seed int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeds[test] = append(s.seeds[test], seed)
	return nil
}

func (s *memStore) Forget(_ context.Context, _ string, seed int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forgotten = append(s.forgotten, seed)
	return nil
}

func TestForAll_ReplaysStoredSeeds(t *testing.T) {
	store := &memStore{seeds: map[string][]int64{t.Name(): {4242}}}

	var replayed []int64
	ForAll(t, func(t *T, in input) {
		if strings.HasPrefix(t.Name()[strings.LastIndex(t.Name(), "/")+1:], "replay_") {
			replayed = append(replayed, t.Seed)
		}
	}, WithStore(store), WithCount(3))

	assert.Equal(t, []int64{4242}, replayed)
	assert.Equal(t, []int64{4242}, store.forgotten)
}

func TestTracker(t *testing.T) {
	tr := newTracker()
	tr.observe("a.go:1", 1, true)
	tr.observe("a.go:1", 2, true)
	tr.observe("b.go:2", 1, false)
	tr.observe("b.go:2", 2, false)
	tr.observe("c.go:3", 1, true)
	tr.observe("c.go:3", 2, false)

	assert.Equal(t, []string{
		"a.go:1 -- all cases hit, try increasing count to find counterfactuals",
		"b.go:2 -- no hits, try different seed or count",
	}, tr.failures(2))
}

func TestTracker_SameSeedCountsOnce(t *testing.T) {
	tr := newTracker()
	tr.observe("a.go:1", 1, true)
	tr.observe("a.go:1", 1, true)
	tr.observe("a.go:1", 2, false)
	assert.Empty(t, tr.failures(2))
}
