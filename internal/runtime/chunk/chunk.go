// Package chunk implements the 32-element bulk-iteration layer spec §4.12
// describes on top of internal/runtime/seq: ArrayChunk, ChunkBuffer, and
// ChunkedCons, plus chunk-aware map/filter/reduce that fall back to the
// plain lazy-seq path when their input isn't chunked.
package chunk

import "github.com/hlvm-dev/hql/internal/runtime/seq"

// Size is the fixed chunk capacity (spec §4.12).
const Size = 32

// ArrayChunk is a fixed contiguous slice view [off, end) over array.
type ArrayChunk struct {
	array []any
	off   int
	end   int
}

// NewArrayChunk wraps the whole of array as a chunk.
func NewArrayChunk(array []any) *ArrayChunk {
	return &ArrayChunk{array: array, off: 0, end: len(array)}
}

func (c *ArrayChunk) Count() int { return c.end - c.off }

func (c *ArrayChunk) Nth(i int) (any, bool) {
	idx := c.off + i
	if idx < c.off || idx >= c.end {
		return nil, false
	}
	return c.array[idx], true
}

// Reduce folds f over the chunk's elements starting from init, honoring
// Reduced short-circuiting.
func (c *ArrayChunk) Reduce(f func(acc, x any) any, init any) any {
	acc := init
	for i := c.off; i < c.end; i++ {
		acc = f(acc, c.array[i])
		if seq.IsReduced(acc) {
			return acc
		}
	}
	return acc
}

// DropFirst returns a new chunk with its first element removed.
func (c *ArrayChunk) DropFirst() *ArrayChunk {
	return &ArrayChunk{array: c.array, off: c.off + 1, end: c.end}
}

// ChunkBuffer accumulates up to Size elements before flushing as an
// ArrayChunk.
type ChunkBuffer struct {
	buf []any
}

// NewChunkBuffer allocates a buffer with the given target capacity.
func NewChunkBuffer(size int) *ChunkBuffer {
	return &ChunkBuffer{buf: make([]any, 0, size)}
}

func (b *ChunkBuffer) Add(v any) { b.buf = append(b.buf, v) }

func (b *ChunkBuffer) Count() int { return len(b.buf) }

func (b *ChunkBuffer) IsFull() bool { return len(b.buf) >= cap(b.buf) }

// Chunk snapshots the accumulated elements into an ArrayChunk and resets
// the buffer for reuse.
func (b *ChunkBuffer) Chunk() *ArrayChunk {
	out := NewArrayChunk(b.buf)
	b.buf = make([]any, 0, cap(b.buf))
	return out
}

// ChunkedCons pairs a realized chunk with the (possibly lazy) remainder of
// the sequence, enabling bulk-first iteration (spec §4.12).
type ChunkedCons struct {
	chunk *ArrayChunk
	more  seq.Seq
}

// NewChunkedCons builds a ChunkedCons. more may be nil, meaning the empty
// tail.
func NewChunkedCons(c *ArrayChunk, more seq.Seq) *ChunkedCons {
	return &ChunkedCons{chunk: c, more: more}
}

func (c *ChunkedCons) First() any {
	v, _ := c.chunk.Nth(0)
	return v
}

// Rest returns the within-chunk remainder as another ChunkedCons when the
// chunk holds more than one element, else falls through to more.
func (c *ChunkedCons) Rest() seq.Seq {
	if c.chunk.Count() > 1 {
		return &ChunkedCons{chunk: c.chunk.DropFirst(), more: c.more}
	}
	if c.more == nil {
		return seq.EMPTY
	}
	return c.more
}

func (c *ChunkedCons) Count() int {
	n := c.chunk.Count()
	if c.more != nil {
		n += seq.Count(c.more)
	}
	return n
}

// ChunkFirst returns this cons's leading chunk, the CHUNKED capability's
// bulk-access primitive.
func (c *ChunkedCons) ChunkFirst() *ArrayChunk { return c.chunk }

// ChunkRest returns the seq following this cons's chunk (not the
// within-chunk remainder).
func (c *ChunkedCons) ChunkRest() seq.Seq {
	if c.more == nil {
		return seq.EMPTY
	}
	return c.more
}

// IsChunked reports whether s exposes the CHUNKED capability, forcing one
// layer of laziness first since a chunked seq is commonly produced behind a
// LazySeq wrapper.
func IsChunked(s seq.Seq) bool {
	if ls, ok := s.(*seq.LazySeq); ok {
		s = ls.Force()
	}
	_, ok := s.(*ChunkedCons)
	return ok
}

// Map is the chunk-aware variant of seq.Map for the single-collection case:
// when coll surfaces a ChunkedCons, whole chunks are transformed and
// re-wrapped so downstream consumers still see chunk structure; otherwise
// it falls back to the standard lazy-seq path (spec §4.12).
func Map(f func(any) any, coll any) seq.Seq {
	s := seq.From(coll)
	if s == nil {
		return nil
	}
	cc, ok := s.(*ChunkedCons)
	if !ok {
		return seq.Map(func(args ...any) any { return f(args[0]) }, coll)
	}
	return seq.NewLazySeq(func() seq.Seq {
		src := cc.ChunkFirst()
		out := make([]any, src.Count())
		for i := 0; i < src.Count(); i++ {
			v, _ := src.Nth(i)
			out[i] = f(v)
		}
		return NewChunkedCons(NewArrayChunk(out), Map(f, cc.ChunkRest()))
	})
}

// Filter is the chunk-aware variant of seq.Filter: chunks are filtered
// in-place into a new ArrayChunk, skipping any chunk that filters to empty
// instead of emitting it (spec §4.12).
func Filter(pred func(any) bool, coll any) seq.Seq {
	s := seq.From(coll)
	if s == nil {
		return nil
	}
	cc, ok := s.(*ChunkedCons)
	if !ok {
		return seq.Filter(pred, coll)
	}
	return seq.NewLazySeq(func() seq.Seq {
		src := cc.ChunkFirst()
		var out []any
		for i := 0; i < src.Count(); i++ {
			v, _ := src.Nth(i)
			if pred(v) {
				out = append(out, v)
			}
		}
		rest := Filter(pred, cc.ChunkRest())
		if len(out) == 0 {
			if rest == nil {
				return nil
			}
			return rest
		}
		return NewChunkedCons(NewArrayChunk(out), rest)
	})
}

// Reduce is the chunk-aware variant of seq.Reduce: each chunk is folded in
// bulk via ArrayChunk.Reduce before moving to the next, honoring Reduced
// (spec §4.12).
func Reduce(f func(acc, x any) any, init any, hasInit bool, coll any) any {
	s := seq.From(coll)
	acc := init
	if !hasInit {
		if s == nil {
			return nil
		}
		acc = s.First()
		s = nextSeq(s)
	}
	for s != nil {
		cc, ok := s.(*ChunkedCons)
		if !ok {
			return seq.Reduce(f, acc, true, s)
		}
		acc = cc.ChunkFirst().Reduce(f, acc)
		if seq.IsReduced(acc) {
			return seq.Unwrap(acc)
		}
		s = nextSeq2(cc.ChunkRest())
	}
	return acc
}

func nextSeq(s seq.Seq) seq.Seq {
	r := s.Rest()
	if r == seq.EMPTY {
		return nil
	}
	return r
}

func nextSeq2(s seq.Seq) seq.Seq {
	if s == nil || s == seq.EMPTY {
		return nil
	}
	return s
}
