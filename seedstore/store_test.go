package seedstore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipq/typegen/proptest"
)

var _ proptest.SeedStore = (*Store)(nil)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.Context(), "sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RecordSeedsForget(t *testing.T) {
	s := openMemory(t)
	ctx := t.Context()

	require.NoError(t, s.Record(ctx, "TestA", 3))
	require.NoError(t, s.Record(ctx, "TestA", 1))
	require.NoError(t, s.Record(ctx, "TestB", 7))

	seeds, err := s.Seeds(ctx, "TestA")
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{3, 1}, seeds)

	require.NoError(t, s.Forget(ctx, "TestA", 3))
	seeds, err = s.Seeds(ctx, "TestA")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, seeds)

	seeds, err = s.Seeds(ctx, "TestB")
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, seeds)
}

func TestStore_RecordTwice(t *testing.T) {
	s := openMemory(t)
	ctx := t.Context()

	require.NoError(t, s.Record(ctx, "TestA", 5))
	require.NoError(t, s.Record(ctx, "TestA", 5))

	seeds, err := s.Seeds(ctx, "TestA")
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, seeds)
}

func TestStore_NegativeSeed(t *testing.T) {
	s := openMemory(t)
	ctx := t.Context()

	require.NoError(t, s.Record(ctx, "TestA", -9223372036854775808))
	seeds, err := s.Seeds(ctx, "TestA")
	require.NoError(t, err)
	assert.Equal(t, []int64{-9223372036854775808}, seeds)
}

func TestStore_Unknown(t *testing.T) {
	s := openMemory(t)
	seeds, err := s.Seeds(t.Context(), "TestNothing")
	require.NoError(t, err)
	assert.Empty(t, seeds)
	require.NoError(t, s.Forget(t.Context(), "TestNothing", 1))
}

func TestStore_FilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.db")
	ctx := t.Context()

	s, err := Open(ctx, "sqlite:"+path)
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, "TestA", 42))
	require.NoError(t, s.Close())

	s, err = Open(ctx, "sqlite://"+path)
	require.NoError(t, err)
	defer s.Close()
	seeds, err := s.Seeds(ctx, "TestA")
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, seeds)
}

func TestOpen_UnknownDialect(t *testing.T) {
	_, err := Open(t.Context(), "oracle://localhost/db")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownDialect))
}

func TestRebind(t *testing.T) {
	pg := &Store{dialect: DialectPostgres}
	assert.Equal(t, "DELETE FROM t WHERE a = $1 AND b = $2", pg.rebind("DELETE FROM t WHERE a = ? AND b = ?"))

	lite := &Store{dialect: DialectSQLite}
	assert.Equal(t, "SELECT ? ", lite.rebind("SELECT ? "))
}

func TestStore_WithForAll(t *testing.T) {
	s := openMemory(t)
	require.NoError(t, s.Record(t.Context(), t.Name(), 11))

	var replayed []int64
	proptest.ForAll(t, func(pt *proptest.T, in struct{ N int }) {
		if pt.Case == 0 {
			replayed = append(replayed, pt.Seed)
		}
	}, proptest.WithStore(s), proptest.WithCount(2))

	assert.Equal(t, []int64{11}, replayed)
	seeds, err := s.Seeds(t.Context(), t.Name())
	require.NoError(t, err)
	assert.Empty(t, seeds)
}
