package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/shipq/typegen/canned"
	"github.com/shipq/typegen/generator"
)

// catalog maps the names accepted on the command line to descriptions.
var catalog = map[string]any{
	"int":           generator.Int,
	"unsigned-int":  canned.UnsignedInt,
	"negative-int":  canned.NegativeInt,
	"float":         generator.Float,
	"bool":          generator.Bool,
	"string":        generator.String,
	"printable":     canned.Printable,
	"symbol":        canned.SimpleSymbol,
	"identifier":    canned.Identifier,
	"bytes":         generator.Bytes,
	"uuid":          generator.TypeOf[uuid.UUID](),
	"uuid-hex":      canned.UUIDHex,
	"nanoid":        canned.NanoID,
	"time":          generator.TypeOf[time.Time](),
	"date":          canned.Date,
	"duration":      generator.TypeOf[time.Duration](),
	"filename":      canned.FileName,
	"filepath":      canned.FilePath,
	"digest":        canned.Digest,
	"password-hash": canned.PasswordHash,
	"json":          canned.JSONValue,
	"json-dict":     canned.JSONDict,
	"pg-text":       generator.TypeOf[pgtype.Text](),
	"pg-int8":       generator.TypeOf[pgtype.Int8](),
	"pg-timestamp":  generator.TypeOf[pgtype.Timestamptz](),
	"pg-uuid":       generator.TypeOf[pgtype.UUID](),
	"jwt-claims":    generator.TypeOf[jwt.RegisteredClaims](),
}

func catalogNames() []string {
	return slices.Sorted(maps.Keys(catalog))
}

// parseType reads a type expression: a catalog name, []T for a list, ?T
// for an optional value, or {T} for a string-keyed object.
func parseType(expr string) (any, error) {
	switch {
	case strings.HasPrefix(expr, "[]"):
		elem, err := parseType(expr[2:])
		if err != nil {
			return nil, err
		}
		return generator.ListOf(elem), nil
	case strings.HasPrefix(expr, "?"):
		inner, err := parseType(expr[1:])
		if err != nil {
			return nil, err
		}
		return generator.Optional(inner), nil
	case strings.HasPrefix(expr, "{") && strings.HasSuffix(expr, "}"):
		value, err := parseType(expr[1 : len(expr)-1])
		if err != nil {
			return nil, err
		}
		return generator.DictOf(generator.String, value), nil
	}
	t, ok := catalog[expr]
	if !ok {
		return nil, fmt.Errorf("unknown type %q, run 'typegen types' for the list", expr)
	}
	return t, nil
}
