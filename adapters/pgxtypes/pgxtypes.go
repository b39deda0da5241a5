// Package pgxtypes generates pgx pgtype values. Each pgtype value is
// treated like an optional field: under generator.Omit it is always NULL,
// under generator.Include always valid, and under generator.Holes either.
//
//	typegen.Values[row](10, typegen.WithMatchers(pgxtypes.Matcher()))
package pgxtypes

import (
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/shipq/typegen/canned"
	"github.com/shipq/typegen/generator"
)

type adapter struct {
	inner any
	null  any
	wrap  func(any) (any, error)
}

// valid builds the adapter of a pgtype T whose valid values wrap a V.
func valid[T, V any](inner any, wrap func(V) T) adapter {
	var null T
	return adapter{
		inner: inner,
		null:  null,
		wrap: func(v any) (any, error) {
			rv, err := generator.ValueFor(reflect.TypeFor[V](), v)
			if err != nil {
				return nil, err
			}
			return wrap(rv.Interface().(V)), nil
		},
	}
}

var adapters = map[reflect.Type]adapter{
	reflect.TypeFor[pgtype.Text](): valid(generator.String, func(s string) pgtype.Text {
		return pgtype.Text{String: s, Valid: true}
	}),
	reflect.TypeFor[pgtype.Int2](): valid(generator.TypeOf[int16](), func(n int16) pgtype.Int2 {
		return pgtype.Int2{Int16: n, Valid: true}
	}),
	reflect.TypeFor[pgtype.Int4](): valid(generator.TypeOf[int32](), func(n int32) pgtype.Int4 {
		return pgtype.Int4{Int32: n, Valid: true}
	}),
	reflect.TypeFor[pgtype.Int8](): valid(generator.TypeOf[int64](), func(n int64) pgtype.Int8 {
		return pgtype.Int8{Int64: n, Valid: true}
	}),
	reflect.TypeFor[pgtype.Bool](): valid(generator.Bool, func(b bool) pgtype.Bool {
		return pgtype.Bool{Bool: b, Valid: true}
	}),
	reflect.TypeFor[pgtype.Float8](): valid(canned.ValidFloat, func(f float64) pgtype.Float8 {
		return pgtype.Float8{Float64: f, Valid: true}
	}),
	// timestamptz has microsecond resolution
	reflect.TypeFor[pgtype.Timestamptz](): valid(generator.TypeOf[time.Time](), func(t time.Time) pgtype.Timestamptz {
		return pgtype.Timestamptz{Time: t.Truncate(time.Microsecond), Valid: true}
	}),
	reflect.TypeFor[pgtype.Date](): valid(canned.Date, func(t time.Time) pgtype.Date {
		return pgtype.Date{Time: t, Valid: true}
	}),
	reflect.TypeFor[pgtype.UUID](): valid(generator.TypeOf[uuid.UUID](), func(id uuid.UUID) pgtype.UUID {
		return pgtype.UUID{Bytes: id, Valid: true}
	}),
}

// Types lists the pgtype types the matcher claims.
func Types() []reflect.Type {
	types := make([]reflect.Type, 0, len(adapters))
	for t := range adapters {
		types = append(types, t)
	}
	return types
}

// Matcher claims the supported pgtype types. Put it ahead of the built-in
// chain, which would otherwise generate them field by field.
func Matcher() generator.Matcher {
	return generator.Named("pgxtypes", func(c *generator.Context) (generator.Generator, error) {
		t, ok := c.Source.(reflect.Type)
		if !ok {
			return nil, nil
		}
		a, ok := adapters[t]
		if !ok {
			return nil, nil
		}
		return c.Nullable(a.inner, t.Name(), a.null, a.wrap)
	})
}
