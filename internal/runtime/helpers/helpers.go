// Package helpers is the Go-native implementation of the runtime-helper
// library spec §6 names: the small set of functions the lowering pipeline
// emits calls to by these exact names (__hql_hash_map, __hql_get, ...) and
// that a JavaScript emitter would ship verbatim alongside generated code.
// This package gives those semantics a testable, standalone home since the
// JS emission itself is out of scope.
package helpers

import (
	"fmt"

	"github.com/hlvm-dev/hql/internal/runtime/seq"
)

// HashMap builds a plain mapping from alternating key/value arguments
// (§6's __hql_hash_map). An odd trailing key maps to nil.
func HashMap(kv ...any) map[any]any {
	m := make(map[any]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	if len(kv)%2 == 1 {
		m[kv[len(kv)-1]] = nil
	}
	return m
}

// Get is the property-or-function accessor (§4.5, §6's __hql_get): when obj
// is a map it indexes by key; when obj is callable it is invoked with key;
// def is returned when the key is absent.
func Get(obj any, key any, def ...any) any {
	fallback := func() any {
		if len(def) > 0 {
			return def[0]
		}
		return nil
	}
	switch v := obj.(type) {
	case map[any]any:
		if val, ok := v[key]; ok {
			return val
		}
		return fallback()
	case map[string]any:
		k, ok := key.(string)
		if !ok {
			return fallback()
		}
		if val, ok := v[k]; ok {
			return val
		}
		return fallback()
	case func(any) any:
		return v(key)
	default:
		return fallback()
	}
}

// GetNumeric is the array-or-function accessor for numeric keys (§6's
// __hql_getNumeric).
func GetNumeric(obj any, idx int, def ...any) any {
	fallback := func() any {
		if len(def) > 0 {
			return def[0]
		}
		return nil
	}
	switch v := obj.(type) {
	case []any:
		if idx < 0 || idx >= len(v) {
			return fallback()
		}
		return v[idx]
	case func(int) any:
		return v(idx)
	default:
		return fallback()
	}
}

// Range implements the variadic `range` builtin (§6's __hql_range):
// Range(end), Range(start, end), or Range(start, end, step).
func Range(args ...int) []any {
	var start, end, step int
	switch len(args) {
	case 1:
		start, end, step = 0, args[0], 1
	case 2:
		start, end, step = args[0], args[1], 1
	case 3:
		start, end, step = args[0], args[1], args[2]
		if step == 0 {
			panic("helpers.Range: step must not be zero")
		}
	default:
		panic("helpers.Range: expects 1 to 3 arguments")
	}
	var out []any
	if step > 0 {
		for i := start; i < end; i += step {
			out = append(out, i)
		}
	} else {
		for i := start; i > end; i += step {
			out = append(out, i)
		}
	}
	return out
}

// LazySeq is the primary LazySeq constructor (§6's __hql_lazy_seq): thunk
// must return a seq.Seq (or nil for empty).
func LazySeq(thunk func() seq.Seq) *seq.LazySeq {
	return seq.NewLazySeq(thunk)
}

// DeepFreeze recursively marks a value and its nested maps/slices as
// immutable for const initializers (§6's __hql_deepFreeze). Since Go has no
// runtime mutability-lock analogous to Object.freeze, maps and slices are
// copied and wrapped in Frozen; scalars are returned unchanged. Frozen is a
// marker only: Value returns the inner copy itself, which callers can
// still mutate.
func DeepFreeze(v any) any {
	switch val := v.(type) {
	case map[any]any:
		out := make(map[any]any, len(val))
		for k, e := range val {
			out[k] = DeepFreeze(e)
		}
		return Frozen{value: out}
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = DeepFreeze(e)
		}
		return Frozen{value: out}
	default:
		return v
	}
}

// Frozen marks a deep-frozen value; Value unwraps it for reads.
type Frozen struct{ value any }

func (f Frozen) Value() any { return f.value }

// binaryOp is a two-argument operator function, the shape __hql_get_op
// reifies an operator symbol into (§4.6's first-class-operator path).
type binaryOp func(a, b any) any

// GetOp reifies an operator symbol as a two-argument function (§6's
// __hql_get_op), covering the binary operators of the set the lowering
// pipeline recognizes as a first-class value. The unary `!` and `~` have no
// two-argument form here and panic like any unknown operator.
func GetOp(op string) binaryOp {
	switch op {
	case "+":
		return func(a, b any) any { return numOrConcat(a, b, func(x, y float64) float64 { return x + y }) }
	case "-":
		return func(a, b any) any { return toFloat(a) - toFloat(b) }
	case "*":
		return func(a, b any) any { return toFloat(a) * toFloat(b) }
	case "/":
		return func(a, b any) any { return toFloat(a) / toFloat(b) }
	case "%":
		return func(a, b any) any { return float64(int(toFloat(a)) % int(toFloat(b))) }
	case "**":
		return func(a, b any) any { return powFloat(toFloat(a), toFloat(b)) }
	case "===", "==":
		return func(a, b any) any { return a == b }
	case "!==", "!=":
		return func(a, b any) any { return a != b }
	case "<":
		return func(a, b any) any { return toFloat(a) < toFloat(b) }
	case ">":
		return func(a, b any) any { return toFloat(a) > toFloat(b) }
	case "<=":
		return func(a, b any) any { return toFloat(a) <= toFloat(b) }
	case ">=":
		return func(a, b any) any { return toFloat(a) >= toFloat(b) }
	case "&&":
		return func(a, b any) any { return truthy(a) && truthy(b) }
	case "||":
		return func(a, b any) any { return truthy(a) || truthy(b) }
	case "&":
		return func(a, b any) any { return int(toFloat(a)) & int(toFloat(b)) }
	case "|":
		return func(a, b any) any { return int(toFloat(a)) | int(toFloat(b)) }
	case "^":
		return func(a, b any) any { return int(toFloat(a)) ^ int(toFloat(b)) }
	case "<<":
		return func(a, b any) any { return int(toFloat(a)) << uint(int(toFloat(b))) }
	case ">>":
		return func(a, b any) any { return int(toFloat(a)) >> uint(int(toFloat(b))) }
	case ">>>":
		return func(a, b any) any { return int(uint32(int(toFloat(a))) >> (uint(int(toFloat(b))) & 31)) }
	default:
		panic(fmt.Sprintf("helpers.GetOp: unsupported operator %q", op))
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	default:
		panic(fmt.Sprintf("helpers: expected a number, got %T", v))
	}
}

func numOrConcat(a, b any, f func(x, y float64) float64) any {
	as, aIsStr := a.(string)
	bs, bIsStr := b.(string)
	if aIsStr || bIsStr {
		if !aIsStr {
			as = fmt.Sprint(a)
		}
		if !bIsStr {
			bs = fmt.Sprint(b)
		}
		return as + bs
	}
	return f(toFloat(a), toFloat(b))
}

func powFloat(base, exp float64) float64 {
	result := 1.0
	if exp < 0 {
		for i := 0; i < int(-exp); i++ {
			result *= base
		}
		return 1 / result
	}
	for i := 0; i < int(exp); i++ {
		result *= base
	}
	return result
}

// Throw normalizes a thrown value to an error where needed (§6's
// __hql_throw): string and fmt.Stringer panics become plain errors, an
// existing error passes through unchanged, anything else is wrapped.
func Throw(v any) {
	switch x := v.(type) {
	case error:
		panic(x)
	case string:
		panic(fmt.Errorf("%s", x))
	default:
		panic(fmt.Errorf("%v", x))
	}
}

// ForEach is the array/iterable foreach used by macro expansions (§6's
// __hql_for_each).
func ForEach(coll any, fn func(any)) {
	if arr, ok := coll.([]any); ok {
		for _, v := range arr {
			fn(v)
		}
		return
	}
	for s := seq.From(coll); s != nil; s = nextOrNil(s.Rest()) {
		fn(s.First())
	}
}

func nextOrNil(s seq.Seq) seq.Seq {
	if s == nil || s == seq.EMPTY {
		return nil
	}
	return s
}

// ToSequence coerces v to an array-like []any (§6's __hql_toSequence).
func ToSequence(v any) []any {
	if arr, ok := v.([]any); ok {
		return arr
	}
	s := seq.From(v)
	if s == nil {
		return nil
	}
	var out []any
	for cur := s; cur != nil; cur = nextOrNil(cur.Rest()) {
		out = append(out, cur.First())
	}
	return out
}
