package chunk

import (
	"testing"

	"github.com/hlvm-dev/hql/internal/runtime/seq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayChunk(t *testing.T) {
	c := NewArrayChunk([]any{1, 2, 3})
	assert.Equal(t, 3, c.Count())
	v, ok := c.Nth(1)
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = c.Nth(5)
	assert.False(t, ok)

	dropped := c.DropFirst()
	assert.Equal(t, 2, dropped.Count())
	v, _ = dropped.Nth(0)
	assert.Equal(t, 2, v)
}

func TestArrayChunkReduce(t *testing.T) {
	c := NewArrayChunk([]any{1, 2, 3})
	add := func(acc, x any) any { return acc.(int) + x.(int) }
	assert.Equal(t, 6, c.Reduce(add, 0))
}

func TestArrayChunkReduceHonorsReduced(t *testing.T) {
	c := NewArrayChunk([]any{1, 2, 3})
	stop := func(acc, x any) any { return seq.NewReduced(99) }
	result := c.Reduce(stop, 0)
	assert.True(t, seq.IsReduced(result))
	assert.Equal(t, 99, seq.Unwrap(result))
}

func TestChunkBuffer(t *testing.T) {
	b := NewChunkBuffer(2)
	assert.Equal(t, 0, b.Count())
	b.Add(1)
	assert.False(t, b.IsFull())
	b.Add(2)
	assert.True(t, b.IsFull())

	c := b.Chunk()
	assert.Equal(t, 2, c.Count())
	assert.Equal(t, 0, b.Count())
}

func TestChunkedCons(t *testing.T) {
	c := NewArrayChunk([]any{1, 2, 3})
	tail := seq.NewArraySeq([]any{10, 20})
	cc := NewChunkedCons(c, tail)

	assert.Equal(t, 1, cc.First())
	assert.True(t, IsChunked(cc))
	assert.Equal(t, 5, cc.Count())

	rest := cc.Rest()
	rcc, ok := rest.(*ChunkedCons)
	require.True(t, ok)
	assert.Equal(t, 2, rcc.First())

	rest2 := rcc.Rest().(*ChunkedCons).Rest()
	assert.Equal(t, 10, rest2.First())
}

func TestChunkedConsChunkRest(t *testing.T) {
	c := NewArrayChunk([]any{1, 2})
	cc := NewChunkedCons(c, nil)
	assert.Same(t, seq.EMPTY, cc.ChunkRest())
}

func TestMapFallsBackForNonChunkedInput(t *testing.T) {
	inc := func(v any) any { return v.(int) + 1 }
	out := Map(inc, []any{1, 2, 3})
	assert.False(t, IsChunked(out))
	assert.Equal(t, 2, out.First())
}

func TestMapPreservesChunkStructure(t *testing.T) {
	cc := NewChunkedCons(NewArrayChunk([]any{1, 2, 3}), nil)
	inc := func(v any) any { return v.(int) + 1 }
	out := Map(inc, cc)
	assert.True(t, IsChunked(out))
	assert.Equal(t, 2, out.First())
	outCC := out.(*seq.LazySeq).Force().(*ChunkedCons)
	assert.Equal(t, 3, outCC.ChunkFirst().Count())
}

func TestFilterSkipsEmptyChunks(t *testing.T) {
	cc := NewChunkedCons(NewArrayChunk([]any{1, 3, 5}), NewChunkedCons(NewArrayChunk([]any{2, 4, 6}), nil))
	even := func(v any) bool { return v.(int)%2 == 0 }
	out := Filter(even, cc)
	require.NotNil(t, out)
	assert.Equal(t, 2, out.First())
}

func TestReduceChunked(t *testing.T) {
	cc := NewChunkedCons(NewArrayChunk([]any{1, 2}), NewChunkedCons(NewArrayChunk([]any{3, 4}), nil))
	add := func(acc, x any) any { return acc.(int) + x.(int) }
	assert.Equal(t, 10, Reduce(add, 0, true, cc))
}
