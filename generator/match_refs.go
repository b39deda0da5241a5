package generator

import (
	"fmt"
	"reflect"

	"github.com/shipq/typegen/rng"
)

// matchForwardRefs claims named references and named Go types that are
// already under construction further up the path. The referenced type is
// resolved on first pull, one level deeper, so recursive types shrink their
// collections as they nest and always terminate.
//
// A reference missing from the environment fails immediately. Environment
// values may be a description or a func() any returning one.
func matchForwardRefs(c *Context) (Generator, error) {
	switch src := c.Source.(type) {
	case Ref:
		name := string(src)
		target, ok := c.Refs[name]
		if !ok {
			return nil, newError(ErrUnresolvable, c, fmt.Sprintf("could not resolve forward reference %q", name))
		}
		return c.lazy(name, func() any {
			if thunk, ok := target.(func() any); ok {
				return thunk()
			}
			return target
		}), nil
	case reflect.Type:
		if c.cyclic() {
			return c.lazy(src.Name(), func() any { return src }), nil
		}
	}
	return nil, nil
}

func (c *Context) lazy(name string, resolve func() any) Generator {
	var g Generator
	return rng.GeneratorFunc(func() (any, error) {
		if g == nil {
			c.Logger.Debug("resolving reference", "ref", name, "depth", c.Depth+1)
			resolved, err := c.stepRecursive(resolve(), name)
			if err != nil {
				return nil, err
			}
			g = resolved
		}
		return g.Next()
	})
}
