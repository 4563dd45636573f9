// Package transduce implements the transducer protocol spec §4.11
// describes: a reducing function carries an initial value, a step, and a
// completion, and a transducer maps one reducing function to another,
// decoupling the "what" of a transformation from the "how" of its source
// or sink.
package transduce

import "github.com/hlvm-dev/hql/internal/runtime/seq"

// Reducer is the three-operation reducing-function protocol (spec §4.11).
type Reducer struct {
	Init     func() any
	Step     func(acc, x any) any
	Complete func(acc any) any
}

// Transducer maps one Reducer to another.
type Transducer func(Reducer) Reducer

func identityComplete(acc any) any { return acc }

func withStep(r Reducer, step func(acc, x any) any) Reducer {
	return Reducer{Init: r.Init, Step: step, Complete: r.Complete}
}

// MapT builds a transducer applying f to every element.
func MapT(f func(any) any) Transducer {
	return func(r Reducer) Reducer {
		return withStep(r, func(acc, x any) any {
			return r.Step(acc, f(x))
		})
	}
}

// FilterT builds a transducer keeping elements satisfying pred.
func FilterT(pred func(any) bool) Transducer {
	return func(r Reducer) Reducer {
		return withStep(r, func(acc, x any) any {
			if pred(x) {
				return r.Step(acc, x)
			}
			return acc
		})
	}
}

// TakeT builds a transducer passing through the first n elements, then
// short-circuits via Reduced.
func TakeT(n int) Transducer {
	return func(r Reducer) Reducer {
		remaining := n
		return withStep(r, func(acc, x any) any {
			if remaining <= 0 {
				return seq.NewReduced(acc)
			}
			remaining--
			out := r.Step(acc, x)
			if remaining <= 0 {
				return seq.NewReduced(seq.Unwrap(out))
			}
			return out
		})
	}
}

// DropT builds a transducer skipping the first n elements.
func DropT(n int) Transducer {
	return func(r Reducer) Reducer {
		remaining := n
		return withStep(r, func(acc, x any) any {
			if remaining > 0 {
				remaining--
				return acc
			}
			return r.Step(acc, x)
		})
	}
}

// TakeWhileT builds a transducer passing elements while pred holds, then
// short-circuits.
func TakeWhileT(pred func(any) bool) Transducer {
	return func(r Reducer) Reducer {
		return withStep(r, func(acc, x any) any {
			if !pred(x) {
				return seq.NewReduced(acc)
			}
			return r.Step(acc, x)
		})
	}
}

// DropWhileT builds a transducer skipping a leading run satisfying pred.
func DropWhileT(pred func(any) bool) Transducer {
	return func(r Reducer) Reducer {
		dropping := true
		return withStep(r, func(acc, x any) any {
			if dropping && pred(x) {
				return acc
			}
			dropping = false
			return r.Step(acc, x)
		})
	}
}

// DistinctT builds a transducer suppressing elements already seen, keyed
// by equality.
func DistinctT() Transducer {
	return func(r Reducer) Reducer {
		seen := map[any]bool{}
		return withStep(r, func(acc, x any) any {
			if seen[x] {
				return acc
			}
			seen[x] = true
			return r.Step(acc, x)
		})
	}
}

// PartitionAllT builds a transducer grouping every n elements into a slice,
// flushing a trailing partial group on completion.
func PartitionAllT(n int) Transducer {
	return func(r Reducer) Reducer {
		var buf []any
		return Reducer{
			Init: r.Init,
			Step: func(acc, x any) any {
				buf = append(buf, x)
				if len(buf) < n {
					return acc
				}
				group := buf
				buf = nil
				return r.Step(acc, group)
			},
			Complete: func(acc any) any {
				if len(buf) > 0 {
					group := buf
					buf = nil
					acc = r.Step(acc, group)
				}
				return r.Complete(acc)
			},
		}
	}
}

// Compose chains transducers left to right in application order: the first
// transducer in ts is the outermost transformation applied to each element.
func Compose(ts ...Transducer) Transducer {
	return func(r Reducer) Reducer {
		for i := len(ts) - 1; i >= 0; i-- {
			r = ts[i](r)
		}
		return r
	}
}

// baseReducer returns the identity reducing function a transducer stack
// terminates against: step is plain conj-like accumulation, supplied by the
// caller since the target container shape (array, count, sum, ...) varies.
func baseReducer(step func(acc, x any) any) Reducer {
	return Reducer{Init: func() any { return nil }, Step: step, Complete: identityComplete}
}

// Transduce runs coll through xf attached to a step function, starting from
// init, honoring Reduced short-circuiting and completion (spec §4.11).
func Transduce(xf Transducer, step func(acc, x any) any, init any, coll any) any {
	r := xf(baseReducer(step))
	acc := init
	s := seq.From(coll)
	for s != nil {
		acc = r.Step(acc, s.First())
		if seq.IsReduced(acc) {
			acc = seq.Unwrap(acc)
			break
		}
		rest := s.Rest()
		if rest == seq.EMPTY {
			s = nil
		} else {
			s = rest
		}
	}
	return r.Complete(acc)
}

// Into runs coll through xf, appending every output to a []any starting
// from init (spec §4.11).
func Into(init []any, xf Transducer, coll any) []any {
	result := Transduce(xf, func(acc, x any) any {
		return append(acc.([]any), x)
	}, append([]any{}, init...), coll)
	return result.([]any)
}
