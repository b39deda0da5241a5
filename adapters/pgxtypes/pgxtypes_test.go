package pgxtypes

import (
	"database/sql/driver"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipq/typegen"
	"github.com/shipq/typegen/generator"
)

func take(t *testing.T, typ reflect.Type, policy generator.OptionalPolicy) []any {
	t.Helper()
	values, err := typegen.Take(typ, 60,
		typegen.WithSeed(4),
		typegen.WithOptional(policy),
		typegen.WithMatchers(Matcher()),
	)
	require.NoError(t, err)
	return values
}

func validity(v any) bool {
	return reflect.ValueOf(v).FieldByName("Valid").Bool()
}

func TestMatcher_Policies(t *testing.T) {
	for _, typ := range Types() {
		t.Run(typ.Name(), func(t *testing.T) {
			for _, v := range take(t, typ, generator.Omit) {
				require.IsType(t, reflect.Zero(typ).Interface(), v)
				assert.False(t, validity(v))
			}
			for _, v := range take(t, typ, generator.Include) {
				assert.True(t, validity(v))
			}
			var valid, null int
			for _, v := range take(t, typ, generator.Holes) {
				if validity(v) {
					valid++
				} else {
					null++
				}
			}
			assert.Positive(t, valid)
			assert.Positive(t, null)
		})
	}
}

func TestMatcher_Values(t *testing.T) {
	for _, v := range take(t, reflect.TypeFor[pgtype.Timestamptz](), generator.Include) {
		ts := v.(pgtype.Timestamptz)
		assert.Equal(t, ts.Time, ts.Time.Truncate(time.Microsecond))
	}
	for _, v := range take(t, reflect.TypeFor[pgtype.Float8](), generator.Include) {
		f := v.(pgtype.Float8).Float64
		assert.False(t, math.IsNaN(f) || math.IsInf(f, 0))
	}
	for _, v := range take(t, reflect.TypeFor[pgtype.Date](), generator.Include) {
		d := v.(pgtype.Date).Time
		assert.Equal(t, d, d.Truncate(24*time.Hour))
	}
}

func TestMatcher_DriverValues(t *testing.T) {
	for _, v := range take(t, reflect.TypeFor[pgtype.Text](), generator.Holes) {
		text := v.(pgtype.Text)
		dv, err := text.Value()
		require.NoError(t, err)
		if text.Valid {
			assert.Equal(t, driver.Value(text.String), dv)
		} else {
			assert.Nil(t, dv)
		}
	}
	for _, v := range take(t, reflect.TypeFor[pgtype.UUID](), generator.Include) {
		id := v.(pgtype.UUID)
		dv, err := id.Value()
		require.NoError(t, err)
		assert.Len(t, dv, 36)
	}
}

type account struct {
	ID      pgtype.UUID
	Email   pgtype.Text
	Age     pgtype.Int4
	Created pgtype.Timestamptz
	Manager *pgtype.Int8
}

func TestValues_Struct(t *testing.T) {
	accounts, err := typegen.Values[account](20,
		typegen.WithSeed(6),
		typegen.WithOptional(generator.Include),
		typegen.WithMatchers(Matcher()),
	)
	require.NoError(t, err)
	for _, a := range accounts {
		assert.True(t, a.ID.Valid)
		assert.True(t, a.Email.Valid)
		assert.True(t, a.Age.Valid)
		assert.True(t, a.Created.Valid)
		if a.Manager != nil {
			assert.True(t, a.Manager.Valid)
		}
	}
}

func TestMatcher_DeclinesOthers(t *testing.T) {
	values, err := typegen.Take(generator.Int, 5, typegen.WithMatchers(Matcher()))
	require.NoError(t, err)
	for _, v := range values {
		assert.IsType(t, 0, v)
	}
}
