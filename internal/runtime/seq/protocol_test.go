package seq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEmptySources(t *testing.T) {
	assert.Nil(t, From(nil))
	assert.Nil(t, From([]any{}))
	assert.Nil(t, From(""))
	assert.Nil(t, From(map[string]any{}))
}

func TestFromSlice(t *testing.T) {
	s := From([]any{1, 2, 3})
	assert.Equal(t, 1, s.First())
	assert.Equal(t, 3, Count(s))
}

func TestFromString(t *testing.T) {
	s := From("ab")
	assert.Equal(t, "a", s.First())
	assert.Equal(t, "b", s.Rest().First())
}

func TestFirstRestNext(t *testing.T) {
	assert.Nil(t, First(nil))
	assert.Same(t, EMPTY, Rest(nil))
	assert.Nil(t, Next(nil))

	coll := []any{1, 2}
	assert.Equal(t, 1, First(coll))
	assert.Equal(t, 2, Rest(coll).First())
	assert.Nil(t, Next([]any{1}))
	assert.NotNil(t, Next(coll))
}

func TestNth(t *testing.T) {
	coll := []any{10, 20, 30}
	assert.Equal(t, 20, Nth(coll, 1))
	assert.Equal(t, "missing", Nth(coll, 9, "missing"))
	assert.Panics(t, func() { Nth(coll, 9) })
	assert.Panics(t, func() { Nth(coll, -1) })
}

func TestCount(t *testing.T) {
	assert.Equal(t, 0, Count(nil))
	assert.Equal(t, 3, Count([]any{1, 2, 3}))
	assert.Equal(t, 2, Count(NewArraySeq([]any{1, 2})))
}

func TestRealized(t *testing.T) {
	assert.True(t, Realized([]any{1}))
	l := NewLazySeq(func() Seq { return NewCons(1, EMPTY) })
	assert.False(t, Realized(l))
	l.Force()
	assert.True(t, Realized(l))
}
