package generator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/shipq/typegen/rng"
)

func matchRecords(c *Context) (Generator, error) {
	rec, ok := c.Source.(Record)
	if !ok {
		return nil, nil
	}
	return c.Fields(rec.Fields)
}

func matchNamedTuples(c *Context) (Generator, error) {
	nt, ok := c.Source.(NamedTuple)
	if !ok {
		return nil, nil
	}
	sets, err := c.Fields(nt.Fields)
	if err != nil {
		return nil, err
	}
	return rng.Map(sets, func(v any) any {
		set := v.(map[string]any)
		out := make([]any, len(nt.Fields))
		for i, f := range nt.Fields {
			if value, ok := set[f.Name]; ok {
				out[i] = value
			} else {
				out[i] = f.Default
			}
		}
		return out
	}), nil
}

func matchStructs(c *Context) (Generator, error) {
	t, ok := c.Source.(reflect.Type)
	if !ok || t.Kind() != reflect.Struct || IsAtomic(t) || c.cyclic() {
		return nil, nil
	}

	fields, index := structFields(t)
	sets, err := c.Fields(fields)
	if err != nil {
		return nil, err
	}
	return rng.GeneratorFunc(func() (any, error) {
		v, err := sets.Next()
		if err != nil {
			return nil, err
		}
		set := v.(map[string]any)

		ptr := reflect.New(t)
		if d, ok := ptr.Interface().(Defaulter); ok {
			d.Defaults()
		}
		for _, f := range fields {
			value, ok := set[f.Name]
			if !ok {
				continue
			}
			dst := ptr.Elem().FieldByIndex(index[f.Name])
			rv, err := ValueFor(dst.Type(), value)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			dst.Set(rv)
		}
		return ptr.Elem().Interface(), nil
	}), nil
}

// structFields lists the generated fields of a struct type. Unexported
// fields and fields tagged `typegen:"-"` are skipped; `typegen:",optional"`
// marks a field optional.
func structFields(t reflect.Type) ([]Field, map[string][]int) {
	var shapes map[string]any
	if fs, ok := reflect.New(t).Interface().(FieldShaper); ok {
		shapes = fs.FieldShapes()
	}

	var fields []Field
	index := make(map[string][]int)
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous || throughPointer(t, sf.Index) {
			continue
		}
		tag := sf.Tag.Get("typegen")
		if tag == "-" {
			continue
		}
		if _, seen := index[sf.Name]; seen {
			continue
		}
		f := Field{Name: sf.Name, Type: sf.Type}
		if shape, ok := shapes[sf.Name]; ok {
			f.Type = shape
		}
		_, opts, _ := strings.Cut(tag, ",")
		for _, opt := range strings.Split(opts, ",") {
			if opt == "optional" {
				f.Optional = true
			}
		}
		fields = append(fields, f)
		index[sf.Name] = sf.Index
	}
	return fields, index
}

// throughPointer reports whether a promoted field is reached through an
// embedded pointer, which a freshly allocated struct leaves nil.
func throughPointer(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		f := t.Field(i)
		if f.Type.Kind() == reflect.Pointer {
			return true
		}
		t = f.Type
	}
	return false
}
