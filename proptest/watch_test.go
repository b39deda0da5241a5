package proptest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type counter struct{ n int }

func (c *counter) get() int { return c.n }

func TestWatch(t *testing.T) {
	c := &counter{n: 1}

	inc := Watch(c.get, func() { c.n++ })
	assert.True(t, inc.Changed().OK)
	assert.True(t, inc.From(1).OK)
	assert.True(t, inc.To(2).OK)
	assert.False(t, inc.Remains(2).OK)
	assert.Equal(t, "1 changed to 2", inc.Changed().String())
	assert.Equal(t, "1 was 1 and 1 changed to 2", inc.From(1).Message)

	noop := Watch(c.get, func() {})
	assert.False(t, noop.Changed().OK)
	assert.True(t, noop.Remains(2).OK)
	assert.False(t, noop.To(2).OK)
	assert.Equal(t, "not 2 changed to 2 and resulted in 2", noop.Remains(2).Message)
}

func TestCheck(t *testing.T) {
	yes := Check{Message: "yes", OK: true}
	no := Check{Message: "no", OK: false}

	assert.True(t, yes.And(yes).OK)
	assert.False(t, yes.And(no).OK)
	assert.True(t, no.Not().OK)
	assert.Equal(t, "not no", no.Not().String())
}

func TestT_Check(t *testing.T) {
	ForAll(t, func(t *T, in struct{ N int }) {
		n := in.N
		t.Check(Watch(func() int { return n }, func() { n++ }).To(in.N + 1))
	}, WithCount(5))
}
