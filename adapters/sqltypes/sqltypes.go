// Package sqltypes generates the nullable wrappers of database/sql and the
// MySQL driver: sql.NullString and friends, sql.Null[T] and mysql.NullTime.
// Like any optional value they follow the optional-field policy.
package sqltypes

import (
	"reflect"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/shipq/typegen/generator"
)

var mysqlPkg = reflect.TypeFor[mysql.NullTime]().PkgPath()

// isWrapper reports whether t is a nullable wrapper: a two-field Null*
// struct holding the value first and Valid bool second.
func isWrapper(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || !strings.HasPrefix(t.Name(), "Null") {
		return false
	}
	if pkg := t.PkgPath(); pkg != "database/sql" && pkg != mysqlPkg {
		return false
	}
	if t.NumField() != 2 {
		return false
	}
	v, valid := t.Field(0), t.Field(1)
	return v.IsExported() && valid.Name == "Valid" && valid.Type.Kind() == reflect.Bool
}

// Matcher claims the nullable wrappers. Put it ahead of the built-in chain,
// which would otherwise generate them field by field.
func Matcher() generator.Matcher {
	return generator.Named("sqltypes", func(c *generator.Context) (generator.Generator, error) {
		t, ok := c.Source.(reflect.Type)
		if !ok {
			return nil, nil
		}
		if !isWrapper(t) {
			return nil, nil
		}
		inner := t.Field(0).Type
		return c.Nullable(inner, t.Name(), reflect.Zero(t).Interface(), func(v any) (any, error) {
			rv, err := generator.ValueFor(inner, v)
			if err != nil {
				return nil, err
			}
			out := reflect.New(t).Elem()
			out.Field(0).Set(rv)
			out.FieldByName("Valid").SetBool(true)
			return out.Interface(), nil
		})
	})
}
