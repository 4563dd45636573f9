package seq

// Take returns a lazy sequence of the first n elements of coll, stopping
// early (spec §4.10).
func Take(n int, coll any) Seq {
	if n <= 0 {
		return nil
	}
	s := From(coll)
	if s == nil {
		return nil
	}
	return NewLazySeq(func() Seq {
		if n <= 0 {
			return nil
		}
		return NewCons(s.First(), Take(n-1, s.Rest()))
	})
}

// Drop returns a lazy sequence with the first n elements removed.
func Drop(n int, coll any) Seq {
	s := From(coll)
	for i := 0; i < n && s != nil; i++ {
		s = s.Rest()
		if isEmptySeq(s) {
			s = nil
		}
	}
	return s
}

// TakeWhile returns a lazy sequence of leading elements satisfying pred,
// stopping at the first false (spec §4.10).
func TakeWhile(pred func(any) bool, coll any) Seq {
	s := From(coll)
	if s == nil {
		return nil
	}
	return NewLazySeq(func() Seq {
		v := s.First()
		if !pred(v) {
			return nil
		}
		return NewCons(v, TakeWhile(pred, s.Rest()))
	})
}

// DropWhile returns a lazy sequence skipping leading elements while pred
// holds (spec §4.10).
func DropWhile(pred func(any) bool, coll any) Seq {
	s := From(coll)
	for s != nil && pred(s.First()) {
		s = nilIfEmpty(s.Rest())
	}
	return s
}

func nilIfEmpty(s Seq) Seq {
	if isEmptySeq(s) {
		return nil
	}
	return s
}

// Partition groups coll into chunks of exactly n, stepping by step (default
// n), dropping an incomplete trailing group (spec §4.10).
func Partition(n, step int, coll any) Seq {
	return partitionImpl(n, step, coll, false)
}

// PartitionAll is Partition but keeps the trailing incomplete group.
func PartitionAll(n, step int, coll any) Seq {
	return partitionImpl(n, step, coll, true)
}

func partitionImpl(n, step int, coll any, keepPartial bool) Seq {
	if step <= 0 {
		step = n
	}
	s := From(coll)
	if s == nil {
		return nil
	}
	return NewLazySeq(func() Seq {
		group := make([]any, 0, n)
		cur := s
		for i := 0; i < n && cur != nil; i++ {
			group = append(group, cur.First())
			cur = nilIfEmpty(cur.Rest())
		}
		if len(group) < n && !keepPartial {
			return nil
		}
		if len(group) == 0 {
			return nil
		}
		restSrc := Drop(step, s)
		return NewCons(NewArraySeq(group), partitionImpl(n, step, restSrc, keepPartial))
	})
}

// PartitionBy groups consecutive elements sharing the same f(x) (spec
// §4.10).
func PartitionBy(f func(any) any, coll any) Seq {
	s := From(coll)
	if s == nil {
		return nil
	}
	return NewLazySeq(func() Seq {
		first := s.First()
		key := f(first)
		group := []any{first}
		cur := nilIfEmpty(s.Rest())
		for cur != nil {
			v := cur.First()
			if !equalKey(f(v), key) {
				break
			}
			group = append(group, v)
			cur = nilIfEmpty(cur.Rest())
		}
		return NewCons(NewArraySeq(group), PartitionBy(f, cur))
	})
}

func equalKey(a, b any) bool { return a == b }

// Interleave round-robins across colls, stopping at the shortest; an empty
// input yields an empty result, a single input yields itself unchanged
// (spec §4.10).
func Interleave(colls ...any) Seq {
	if len(colls) == 0 {
		return nil
	}
	if len(colls) == 1 {
		return From(colls[0])
	}
	seqs := make([]Seq, len(colls))
	for i, c := range colls {
		seqs[i] = From(c)
		if seqs[i] == nil {
			return nil
		}
	}
	return interleaveSeqs(seqs)
}

func interleaveSeqs(seqs []Seq) Seq {
	for _, s := range seqs {
		if s == nil {
			return nil
		}
	}
	return NewLazySeq(func() Seq {
		heads := make([]any, len(seqs))
		nextSeqs := make([]Seq, len(seqs))
		for i, s := range seqs {
			heads[i] = s.First()
			nextSeqs[i] = nilIfEmpty(s.Rest())
		}
		var build func(i int) Seq
		build = func(i int) Seq {
			if i == len(heads) {
				return interleaveSeqs(nextSeqs)
			}
			return NewCons(heads[i], NewLazySeq(func() Seq { return build(i + 1) }))
		}
		return build(0)
	})
}

// Interpose inserts sep between consecutive elements of coll; an empty or
// singleton source is returned unchanged (spec §4.10).
func Interpose(sep any, coll any) Seq {
	s := From(coll)
	if s == nil {
		return nil
	}
	return NewCons(s.First(), interposeRest(sep, nilIfEmpty(s.Rest())))
}

func interposeRest(sep any, coll Seq) Seq {
	if coll == nil {
		return nil
	}
	return NewLazySeq(func() Seq {
		return NewCons(sep, NewCons(coll.First(), interposeRest(sep, nilIfEmpty(coll.Rest()))))
	})
}

// Reductions returns the lazy sequence of prefix reductions of f over coll:
// with init, [init, f(init,x0), f(f(init,x0),x1), ...]; without init, seeds
// from the first element (spec §4.10).
func Reductions(f func(acc, x any) any, init any, hasInit bool, coll any) Seq {
	s := From(coll)
	if !hasInit {
		if s == nil {
			return nil
		}
		return Reductions(f, s.First(), true, s.Rest())
	}
	return NewCons(init, NewLazySeq(func() Seq {
		if s == nil {
			return nil
		}
		return Reductions(f, f(init, s.First()), true, s.Rest())
	}))
}

// Map applies f positionally across one or more collections, stopping at
// the shortest (spec §4.10).
func Map(f func(args ...any) any, colls ...any) Seq {
	seqs := make([]Seq, len(colls))
	for i, c := range colls {
		seqs[i] = From(c)
		if seqs[i] == nil {
			return nil
		}
	}
	return NewLazySeq(func() Seq {
		args := make([]any, len(seqs))
		nextSeqs := make([]Seq, len(seqs))
		for i, s := range seqs {
			args[i] = s.First()
			nextSeqs[i] = nilIfEmpty(s.Rest())
		}
		rest := Map(f, toAnySlice(nextSeqs)...)
		return NewCons(f(args...), rest)
	})
}

func toAnySlice(seqs []Seq) []any {
	out := make([]any, len(seqs))
	for i, s := range seqs {
		if s == nil {
			out[i] = nil
		} else {
			out[i] = s
		}
	}
	return out
}

// Filter returns a lazy sequence of elements of coll satisfying pred (spec
// §4.10).
func Filter(pred func(any) bool, coll any) Seq {
	s := From(coll)
	return filterFrom(pred, s)
}

func filterFrom(pred func(any) bool, s Seq) Seq {
	if s == nil {
		return nil
	}
	return NewLazySeq(func() Seq {
		cur := s
		for cur != nil {
			v := cur.First()
			rest := nilIfEmpty(cur.Rest())
			if pred(v) {
				return NewCons(v, filterFrom(pred, rest))
			}
			cur = rest
		}
		return nil
	})
}

// Reduce eagerly folds f over coll starting from init (or the first
// element if init is not given), honoring Reduced short-circuiting (spec
// §4.10).
func Reduce(f func(acc, x any) any, init any, hasInit bool, coll any) any {
	s := From(coll)
	acc := init
	if !hasInit {
		if s == nil {
			return nil
		}
		acc = s.First()
		s = nilIfEmpty(s.Rest())
	}
	for s != nil {
		acc = f(acc, s.First())
		if IsReduced(acc) {
			return Unwrap(acc)
		}
		s = nilIfEmpty(s.Rest())
	}
	return acc
}
