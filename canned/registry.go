package canned

import (
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/shipq/typegen/generator"
	"github.com/shipq/typegen/rng"
)

// Rands yields the Source's own Rand handle, for code under test that wants
// a seeded random source of its own.
func Rands(src *rng.Source) generator.Generator {
	return rng.Draws(src, func(r *rng.Rand) any { return r })
}

// Nils yields nil forever without drawing.
func Nils(*rng.Source) generator.Generator {
	return rng.Repeat(nil)
}

// JSONPrimitives yields words, ints, bools, valid floats or nil.
func JSONPrimitives(src *rng.Source) generator.Generator {
	return rng.OneOf(src, Words(src), Ints(src), Bools(src), ValidFloats(src), Nils(src))
}

// Annotated descriptions of leaf values with a narrower distribution than
// their Go type's default.
var (
	UnsignedInt  = generator.Annotate(generator.Int, generator.Canned(UnsignedInts))
	NegativeInt  = generator.Annotate(generator.Int, generator.Canned(NegativeInts))
	ValidFloat   = generator.Annotate(generator.Float, generator.Canned(ValidFloats))
	InvalidFloat = generator.Annotate(generator.Float, generator.Canned(InvalidFloats))
	AnyFloat     = generator.Annotate(generator.Float, generator.Canned(AllFloats))
	AsciiWord    = generator.Annotate(generator.String, generator.Canned(Words))
	Printable    = generator.Annotate(generator.String, generator.Canned(PrintableStrings))
	SimpleSymbol = generator.Annotate(generator.String, generator.Canned(SimpleSymbols))
	Identifier   = generator.Annotate(generator.String, generator.Canned(Identifiers))
	FileName     = generator.Annotate(generator.String, generator.Canned(FileNames))
	FilePath     = generator.Annotate(generator.String, generator.Canned(FilePaths))
	Digest       = generator.Annotate(generator.String, generator.Canned(Digests))
	PasswordHash = generator.Annotate(generator.String, generator.Canned(PasswordHashes))
	NanoID       = generator.Annotate(generator.String, generator.Canned(NanoIDs))
	UUIDHex      = generator.Annotate(generator.String, generator.Canned(UUIDHexes))
	Date         = generator.Annotate(generator.TypeOf[time.Time](), generator.Canned(Dates))
)

// JSONValue describes any JSON document: a primitive, a list of JSON values
// or a JSONDict. It refers to itself by name; resolve with Refs.
var JSONValue = generator.UnionOf(
	generator.Int,
	generator.Float,
	generator.String,
	generator.Bool,
	generator.Nil,
	generator.ListOf(generator.Ref("JSONValue")),
	generator.Ref("JSONDict"),
)

// JSONDict describes a JSON object.
var JSONDict = generator.DictOf(generator.String, generator.Ref("JSONValue"))

// Refs returns the reference environment for JSONValue and JSONDict.
func Refs() map[string]any {
	return map[string]any{
		"JSONValue": JSONValue,
		"JSONDict":  JSONDict,
	}
}

// Defaults returns the default distribution of every well-known leaf type,
// keyed by exact type.
func Defaults() map[reflect.Type]generator.Canned {
	return map[reflect.Type]generator.Canned{
		generator.Int:                     Ints,
		generator.TypeOf[int8]():          Signed[int8](8),
		generator.TypeOf[int16]():         Signed[int16](16),
		generator.TypeOf[int32]():         Signed[int32](32),
		generator.TypeOf[int64]():         Signed[int64](64),
		generator.TypeOf[uint]():          Unsigned[uint](64),
		generator.TypeOf[uint8]():         Unsigned[uint8](8),
		generator.TypeOf[uint16]():        Unsigned[uint16](16),
		generator.TypeOf[uint32]():        Unsigned[uint32](32),
		generator.TypeOf[uint64]():        Unsigned[uint64](64),
		generator.Float:                   ValidFloats,
		generator.TypeOf[float32]():       ValidFloat32s,
		generator.String:                  Words,
		generator.Bool:                    Bools,
		generator.Bytes:                   Bytes,
		generator.Any:                     JSONPrimitives,
		generator.TypeOf[uuid.UUID]():     UUIDs,
		generator.TypeOf[time.Time]():     Times,
		generator.TypeOf[time.Duration](): Durations,
		generator.TypeOf[*rng.Rand]():     Rands,
	}
}

// Kinds returns the fallback distribution for named types of a basic kind.
// Values are of the kind's predeclared type; the registry converts them.
func Kinds() map[reflect.Kind]generator.Canned {
	return map[reflect.Kind]generator.Canned{
		reflect.Int:     Ints,
		reflect.Int8:    Signed[int8](8),
		reflect.Int16:   Signed[int16](16),
		reflect.Int32:   Signed[int32](32),
		reflect.Int64:   Signed[int64](64),
		reflect.Uint:    Unsigned[uint](64),
		reflect.Uint8:   Unsigned[uint8](8),
		reflect.Uint16:  Unsigned[uint16](16),
		reflect.Uint32:  Unsigned[uint32](32),
		reflect.Uint64:  Unsigned[uint64](64),
		reflect.Float32: ValidFloat32s,
		reflect.Float64: ValidFloats,
		reflect.String:  Words,
		reflect.Bool:    Bools,
	}
}
