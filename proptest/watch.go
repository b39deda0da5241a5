package proptest

import "fmt"

// Check is a boolean outcome that carries its own explanation.
type Check struct {
	Message string
	OK      bool
}

func (c Check) String() string { return c.Message }

// And holds when both c and o hold.
func (c Check) And(o Check) Check {
	return Check{Message: c.Message + " and " + o.Message, OK: c.OK && o.OK}
}

// Not inverts c.
func (c Check) Not() Check {
	return Check{Message: "not " + c.Message, OK: !c.OK}
}

// Check fails the case with the explanation of c unless it holds.
func (t *T) Check(c Check) {
	t.Helper()
	if !c.OK {
		t.Errorf("check failed: %s", c.Message)
	}
}

// Change is the value observed before and after an operation.
type Change[V comparable] struct {
	Before V
	After  V
}

// Watch reads a value, runs op, and reads it again.
func Watch[V comparable](read func() V, op func()) Change[V] {
	before := read()
	op()
	return Change[V]{Before: before, After: read()}
}

// Changed holds when the operation changed the value.
func (c Change[V]) Changed() Check {
	return Check{
		Message: fmt.Sprintf("%#v changed to %#v", c.Before, c.After),
		OK:      c.Before != c.After,
	}
}

// From holds when the value changed and started as v.
func (c Change[V]) From(v V) Check {
	return Check{Message: fmt.Sprintf("%#v was %#v", c.Before, v), OK: c.Before == v}.And(c.Changed())
}

// To holds when the value changed and ended as v.
func (c Change[V]) To(v V) Check {
	return c.Changed().And(Check{Message: fmt.Sprintf("resulted in %#v", v), OK: c.After == v})
}

// Remains holds when the value did not change and is v.
func (c Change[V]) Remains(v V) Check {
	return c.Changed().Not().And(Check{Message: fmt.Sprintf("resulted in %#v", v), OK: c.After == v})
}
