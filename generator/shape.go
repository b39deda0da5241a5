package generator

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
)

// Shape is the structural origin of a parameterized type description.
type Shape int

const (
	// List is a homogeneous ordered collection of its single argument.
	List Shape = iota + 1
	// Set is a homogeneous unordered collection of its single argument.
	Set
	// Dict maps its first argument to its second.
	Dict
	// Tuple is a fixed-arity sequence of its arguments; a trailing
	// Ellipsis repeats the last one.
	Tuple
	// Union is any one of its arguments.
	Union
	// Literal is any one of its arguments, taken as values.
	Literal
	// Annotated is its first argument, decorated with the rest.
	Annotated
	// Pointer is an optional reference to its single argument.
	Pointer
)

var shapeNames = map[Shape]string{
	List:      "List",
	Set:       "Set",
	Dict:      "Dict",
	Tuple:     "Tuple",
	Union:     "Union",
	Literal:   "Literal",
	Annotated: "Annotated",
	Pointer:   "Pointer",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// Param is a parameterized type description: a structural origin and its
// ordered type arguments. Origins other than the Shape constants are
// opaque wrappers that the engine unwraps to their first argument.
type Param struct {
	Origin any
	Args   []any
}

func (p Param) String() string {
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = Describe(a)
	}
	return fmt.Sprintf("%v[%s]", p.Origin, strings.Join(args, ", "))
}

// Ref is a forward reference to a named type, resolved lazily against the
// context's reference environment.
type Ref string

// Field is one declared member of a Record or NamedTuple.
type Field struct {
	Name string
	Type any
	// Optional fields are subject to the optional-field policy.
	Optional bool
	// Default fills an omitted optional position of a NamedTuple.
	Default any
}

// Record is a fixed-schema key/value record whose optional keys may be
// absent. It generates map[string]any.
type Record struct {
	Name   string
	Fields []Field
}

// NamedTuple is a fixed-arity tuple with labeled positions. Optional
// positions left out by the policy take their Default. It generates []any
// in declaration order.
type NamedTuple struct {
	Name   string
	Fields []Field
}

// Enum is a fixed set of named constant members.
type Enum struct {
	Name    string
	Members []any
}

// Enumerable is implemented by Go types that list their own members,
// usually a named type with a block of typed constants.
type Enumerable interface {
	EnumValues() []any
}

// Examples attaches example sources to an Annotated type. Each source is a
// Generator, a Canned distribution, or a static slice of values.
type Examples []any

type ellipsis struct{}

func (ellipsis) String() string { return "..." }

// Ellipsis marks an open-ended repetition inside TupleOf.
var Ellipsis any = ellipsis{}

// Defaulter is implemented (on the pointer receiver) by structs that fill in
// their own defaults before generated fields are assigned.
type Defaulter interface {
	Defaults()
}

// FieldShaper is implemented by structs that override the description of
// individual fields, keyed by Go field name.
type FieldShaper interface {
	FieldShapes() map[string]any
}

// TypeOf returns the description of the Go type T.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// Common descriptions.
var (
	Any    = TypeOf[any]()
	Int    = TypeOf[int]()
	String = TypeOf[string]()
	Float  = TypeOf[float64]()
	Bool   = TypeOf[bool]()
	Bytes  = TypeOf[[]byte]()
	Nil    = LiteralOf(nil)
)

// ListOf describes a list of elem, generated as []any.
func ListOf(elem any) Param { return Param{Origin: List, Args: []any{elem}} }

// SetOf describes a set of elem, generated as map[any]struct{}.
func SetOf(elem any) Param { return Param{Origin: Set, Args: []any{elem}} }

// DictOf describes a mapping from key to value. String keys generate
// map[string]any, all others map[any]any.
func DictOf(key, value any) Param { return Param{Origin: Dict, Args: []any{key, value}} }

// TupleOf describes a fixed-arity tuple, generated as []any. A trailing
// Ellipsis extends it with a variable-length tail of the last element.
func TupleOf(elems ...any) Param { return Param{Origin: Tuple, Args: elems} }

// UnionOf describes a choice among alternatives.
func UnionOf(alternatives ...any) Param { return Param{Origin: Union, Args: alternatives} }

// Optional describes t or nil.
func Optional(t any) Param { return UnionOf(t, Nil) }

// LiteralOf describes a choice among the given values.
func LiteralOf(values ...any) Param { return Param{Origin: Literal, Args: values} }

// Annotate attaches example sources to inner.
func Annotate(inner any, examples ...any) Param {
	return Param{Origin: Annotated, Args: []any{inner, Examples(examples)}}
}

// EnumOf describes a named enumeration of members.
func EnumOf(name string, members ...any) Enum { return Enum{Name: name, Members: members} }

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	emptyStructType     = reflect.TypeFor[struct{}]()
)

// IsAtomic reports whether t defines its own value space and must not be
// decomposed structurally: byte slices, types that parse themselves from
// text (time.Time, uuid.UUID, ...), and pointers to structs without
// exported fields.
func IsAtomic(t reflect.Type) bool {
	if t == Bytes {
		return true
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Array, reflect.Slice, reflect.Map:
		if t.Name() != "" && reflect.PointerTo(t).Implements(textUnmarshalerType) {
			return true
		}
	case reflect.Pointer:
		elem := t.Elem()
		if elem.Kind() == reflect.Struct && !hasExportedFields(elem) {
			return true
		}
	}
	return false
}

func hasExportedFields(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			return true
		}
	}
	return false
}

// decompose splits a description into its structural origin and arguments.
func decompose(t any) (any, []any) {
	switch v := t.(type) {
	case Param:
		return v.Origin, v.Args
	case reflect.Type:
		if IsAtomic(v) {
			return nil, nil
		}
		switch v.Kind() {
		case reflect.Slice:
			return List, []any{v.Elem()}
		case reflect.Map:
			if v.Elem() == emptyStructType {
				return Set, []any{v.Key()}
			}
			return Dict, []any{v.Key(), v.Elem()}
		case reflect.Array:
			args := make([]any, v.Len())
			for i := range args {
				args[i] = v.Elem()
			}
			return Tuple, args
		case reflect.Pointer:
			return Pointer, []any{v.Elem()}
		}
	}
	return nil, nil
}

// isComposite reports whether values of t are assembled from other
// generated values, which is how Go types become self-referential.
func isComposite(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct, reflect.Slice, reflect.Map, reflect.Array:
		return t.Name() != "" && !IsAtomic(t)
	}
	return false
}

// Describe renders a type description for diagnostics.
func Describe(t any) string {
	switch v := t.(type) {
	case nil:
		return "nil"
	case reflect.Type:
		return v.String()
	case Ref:
		return fmt.Sprintf("Ref(%q)", string(v))
	case Record:
		return "Record " + v.Name
	case NamedTuple:
		return "NamedTuple " + v.Name
	case Enum:
		return "Enum " + v.Name
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%#v", t)
}
