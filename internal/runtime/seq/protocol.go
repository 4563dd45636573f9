package seq

// From converts an arbitrary source value into a Seq, or nil if the source
// is empty (spec §4.9's `seq(coll)`: null iff the source is empty).
// Supported sources: Seq, []any, string, map[string]any, map[any]any, nil.
func From(coll any) Seq {
	switch v := coll.(type) {
	case nil:
		return nil
	case Seq:
		if isEmptySeq(v) {
			return nil
		}
		return v
	case []any:
		if len(v) == 0 {
			return nil
		}
		return NewArraySeq(v)
	case string:
		if len(v) == 0 {
			return nil
		}
		runes := make([]any, 0, len(v))
		for _, r := range v {
			runes = append(runes, string(r))
		}
		return NewArraySeq(runes)
	case map[string]any:
		if len(v) == 0 {
			return nil
		}
		entries := make([]any, 0, len(v))
		for k, val := range v {
			entries = append(entries, [2]any{k, val})
		}
		return NewArraySeq(entries)
	case map[any]any:
		if len(v) == 0 {
			return nil
		}
		entries := make([]any, 0, len(v))
		for k, val := range v {
			entries = append(entries, [2]any{k, val})
		}
		return NewArraySeq(entries)
	default:
		return nil
	}
}

func isEmptySeq(s Seq) bool {
	if s == nil || s == EMPTY {
		return true
	}
	if c, ok := s.(Counted); ok {
		return c.Count() == 0
	}
	return false
}

// First returns the first element of coll, or nil if coll is empty (spec
// §4.9's `first(coll)`).
func First(coll any) any {
	if arr, ok := coll.([]any); ok {
		if len(arr) == 0 {
			return nil
		}
		return arr[0]
	}
	s := From(coll)
	if s == nil {
		return nil
	}
	return s.First()
}

// Rest returns the tail of coll as a Seq, never nil; an empty source
// produces EMPTY (spec §4.9's `rest(coll)`).
func Rest(coll any) Seq {
	if arr, ok := coll.([]any); ok {
		if len(arr) <= 1 {
			return EMPTY
		}
		return NewArraySeq(arr).Rest()
	}
	s := From(coll)
	if s == nil {
		return EMPTY
	}
	return s.Rest()
}

// Next returns the tail of coll, or nil if that tail is empty (spec §4.9's
// `next(coll)`, Clojure's nil-punning rule).
func Next(coll any) Seq {
	r := Rest(coll)
	if isEmptySeq(r) {
		return nil
	}
	return r
}

// Nth returns the i'th element of coll. Negative i throws unless notFound
// is supplied (spec §4.9). notFound, when given, is returned for an
// out-of-range index instead of panicking.
func Nth(coll any, i int, notFound ...any) any {
	if i < 0 {
		if len(notFound) > 0 {
			return notFound[0]
		}
		panic("seq.Nth: negative index")
	}
	if arr, ok := coll.([]any); ok {
		if i >= len(arr) {
			if len(notFound) > 0 {
				return notFound[0]
			}
			panic("seq.Nth: index out of bounds")
		}
		return arr[i]
	}
	s := From(coll)
	if s == nil {
		if len(notFound) > 0 {
			return notFound[0]
		}
		panic("seq.Nth: index out of bounds")
	}
	if idx, ok := s.(Indexed); ok {
		v, found := idx.Nth(i)
		if !found {
			if len(notFound) > 0 {
				return notFound[0]
			}
			panic("seq.Nth: index out of bounds")
		}
		return v
	}
	cur := s
	for n := 0; cur != nil; n++ {
		if n == i {
			return cur.First()
		}
		cur = cur.Rest()
		if isEmptySeq(cur) {
			break
		}
	}
	if len(notFound) > 0 {
		return notFound[0]
	}
	panic("seq.Nth: index out of bounds")
}

// Count returns the number of elements in coll, O(1) when possible (spec
// §4.9's `count(coll)`).
func Count(coll any) int {
	if arr, ok := coll.([]any); ok {
		return len(arr)
	}
	if s, ok := coll.(Counted); ok {
		return s.Count()
	}
	s := From(coll)
	if s == nil {
		return 0
	}
	if c, ok := s.(Counted); ok {
		return c.Count()
	}
	n := 0
	for cur := s; cur != nil && !isEmptySeq(cur); cur = cur.Rest() {
		n++
	}
	return n
}

// Realized reports whether coll's laziness, if any, has fully materialized
// (spec §4.9's `realized(coll)`). Non-lazy sources are always realized.
func Realized(coll any) bool {
	if s, ok := coll.(Realizable); ok {
		return s.Realized()
	}
	return true
}
