package sqltypes

import (
	"database/sql"
	"reflect"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipq/typegen"
	"github.com/shipq/typegen/generator"
)

func TestIsWrapper(t *testing.T) {
	tests := []struct {
		typ  reflect.Type
		want bool
	}{
		{reflect.TypeFor[sql.NullString](), true},
		{reflect.TypeFor[sql.NullInt64](), true},
		{reflect.TypeFor[sql.NullByte](), true},
		{reflect.TypeFor[sql.NullTime](), true},
		{reflect.TypeFor[sql.Null[uint16]](), true},
		{reflect.TypeFor[mysql.NullTime](), true},
		{reflect.TypeFor[sql.DB](), false},
		{reflect.TypeFor[struct {
			V     int
			Valid bool
		}](), false},
		{reflect.TypeFor[string](), false},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, isWrapper(tt.typ))
		})
	}
}

type row struct {
	Name    sql.NullString
	Count   sql.NullInt32
	Ratio   sql.NullFloat64
	Seen    sql.NullTime
	Deleted mysql.NullTime
	Rank    sql.Null[int8]
}

func TestValues_Include(t *testing.T) {
	rows, err := typegen.Values[row](20,
		typegen.WithSeed(3),
		typegen.WithOptional(generator.Include),
		typegen.WithMatchers(Matcher()),
	)
	require.NoError(t, err)
	for _, r := range rows {
		assert.True(t, r.Name.Valid)
		assert.NotEmpty(t, r.Name.String)
		assert.True(t, r.Count.Valid)
		assert.True(t, r.Ratio.Valid)
		assert.True(t, r.Seen.Valid)
		assert.False(t, r.Seen.Time.IsZero())
		assert.True(t, r.Deleted.Valid)
		assert.True(t, r.Rank.Valid)
	}
}

func TestValues_Omit(t *testing.T) {
	rows, err := typegen.Values[row](20,
		typegen.WithSeed(3),
		typegen.WithMatchers(Matcher()),
	)
	require.NoError(t, err)
	for _, r := range rows {
		assert.Equal(t, row{}, r)
	}
}

func TestValues_Holes(t *testing.T) {
	values, err := typegen.Values[sql.NullTime](100,
		typegen.WithSeed(3),
		typegen.WithOptional(generator.Holes),
		typegen.WithMatchers(Matcher()),
	)
	require.NoError(t, err)

	var valid int
	for _, v := range values {
		if v.Valid {
			valid++
			assert.True(t, v.Time.After(time.Date(2012, 12, 31, 0, 0, 0, 0, time.UTC)))
		} else {
			assert.True(t, v.Time.IsZero())
		}
	}
	assert.Greater(t, valid, 0)
	assert.Less(t, valid, 100)
}

func TestValues_DriverValue(t *testing.T) {
	values, err := typegen.Values[sql.NullInt64](30,
		typegen.WithSeed(5),
		typegen.WithOptional(generator.Holes),
		typegen.WithMatchers(Matcher()),
	)
	require.NoError(t, err)
	for _, v := range values {
		dv, err := v.Value()
		require.NoError(t, err)
		if v.Valid {
			assert.Equal(t, v.Int64, dv)
		} else {
			assert.Nil(t, dv)
		}
	}
}
