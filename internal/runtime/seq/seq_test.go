package seq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptySeq(t *testing.T) {
	assert.Nil(t, EMPTY.First())
	assert.Same(t, EMPTY, EMPTY.Rest())
	assert.Equal(t, 0, EMPTY.(Counted).Count())
}

func TestCons(t *testing.T) {
	c := NewCons(1, NewCons(2, EMPTY))
	assert.Equal(t, 1, c.First())
	rest := c.Rest()
	assert.Equal(t, 2, rest.First())
	assert.Same(t, EMPTY, rest.Rest())
}

func TestConsForcesNestedLazySeq(t *testing.T) {
	inner := NewLazySeq(func() Seq { return NewCons(2, EMPTY) })
	c := NewCons(1, inner)
	rest := c.Rest()
	assert.Equal(t, 2, rest.First())
}

func TestLazySeqMemoizes(t *testing.T) {
	calls := 0
	l := NewLazySeq(func() Seq {
		calls++
		return NewCons(1, EMPTY)
	})
	require.False(t, l.Realized())
	assert.Equal(t, 1, l.First())
	assert.Equal(t, 1, l.First())
	assert.Equal(t, 1, calls)
	assert.True(t, l.Realized())
}

func TestLazySeqEmptyThunk(t *testing.T) {
	l := NewLazySeq(func() Seq { return nil })
	assert.Nil(t, l.First())
	assert.Same(t, EMPTY, l.Rest())
}

func TestLazySeqForceIsStackSafeForDeepChains(t *testing.T) {
	var build func(n int) Seq
	build = func(n int) Seq {
		if n == 0 {
			return NewCons(0, EMPTY)
		}
		return NewLazySeq(func() Seq { return build(n - 1) })
	}
	deep := build(200000)
	assert.Equal(t, 0, deep.(*LazySeq).First())
}

func TestArraySeq(t *testing.T) {
	a := NewArraySeq([]any{1, 2, 3})
	assert.Equal(t, 1, a.First())
	assert.Equal(t, 3, a.Count())
	v, ok := a.Nth(2)
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	rest := a.Rest()
	assert.Equal(t, 2, rest.First())
	assert.Equal(t, 2, rest.(Counted).Count())

	last := rest.Rest()
	assert.Same(t, EMPTY, last.Rest())
}

func TestReduced(t *testing.T) {
	r := NewReduced(42)
	assert.True(t, IsReduced(r))
	assert.Equal(t, 42, Unwrap(r))
	assert.False(t, IsReduced(7))
	assert.Equal(t, 7, Unwrap(7))
}
