package helpers

import (
	"testing"

	"github.com/hlvm-dev/hql/internal/runtime/seq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashMap(t *testing.T) {
	m := HashMap("a", 1, "b", 2)
	assert.Equal(t, 1, m["a"])
	assert.Equal(t, 2, m["b"])

	odd := HashMap("a", 1, "b")
	assert.Nil(t, odd["b"])
}

func TestGetMap(t *testing.T) {
	m := map[any]any{"x": 1}
	assert.Equal(t, 1, Get(m, "x"))
	assert.Equal(t, "fallback", Get(m, "y", "fallback"))
	assert.Nil(t, Get(m, "y"))
}

func TestGetStringMap(t *testing.T) {
	m := map[string]any{"x": 1}
	assert.Equal(t, 1, Get(m, "x"))
	assert.Equal(t, 0, Get(m, "missing", 0))
}

func TestGetFunction(t *testing.T) {
	fn := func(k any) any { return k.(string) + "!" }
	assert.Equal(t, "hi!", Get(fn, "hi"))
}

func TestGetNumeric(t *testing.T) {
	arr := []any{"a", "b", "c"}
	assert.Equal(t, "b", GetNumeric(arr, 1))
	assert.Equal(t, "z", GetNumeric(arr, 9, "z"))
	assert.Nil(t, GetNumeric(arr, 9))
}

func TestRange(t *testing.T) {
	assert.Equal(t, []any{0, 1, 2}, Range(3))
	assert.Equal(t, []any{2, 3, 4}, Range(2, 5))
	assert.Equal(t, []any{0, 2, 4}, Range(0, 6, 2))
	assert.Equal(t, []any{5, 3, 1}, Range(5, 0, -2))
}

func TestRangeRejectsZeroStep(t *testing.T) {
	assert.Panics(t, func() { Range(0, 5, 0) })
}

func TestLazySeq(t *testing.T) {
	calls := 0
	l := LazySeq(func() seq.Seq {
		calls++
		return seq.NewCons(1, seq.EMPTY)
	})
	require.False(t, l.Realized())
	assert.Equal(t, 1, l.First())
	assert.Equal(t, 1, calls)
}

func TestDeepFreeze(t *testing.T) {
	v := DeepFreeze(map[any]any{"a": []any{1, 2}})
	frozen, ok := v.(Frozen)
	require.True(t, ok)
	inner := frozen.Value().(map[any]any)
	innerFrozen, ok := inner["a"].(Frozen)
	require.True(t, ok)
	assert.Equal(t, []any{1, 2}, innerFrozen.Value())
}

func TestDeepFreezePassesThroughScalars(t *testing.T) {
	assert.Equal(t, 42, DeepFreeze(42))
}

func TestGetOpArithmetic(t *testing.T) {
	assert.Equal(t, float64(5), GetOp("+")(float64(2), float64(3)))
	assert.Equal(t, "ab", GetOp("+")("a", "b"))
	assert.Equal(t, float64(6), GetOp("*")(float64(2), float64(3)))
	assert.Equal(t, float64(1), GetOp("-")(float64(3), float64(2)))
}

func TestGetOpComparison(t *testing.T) {
	assert.Equal(t, true, GetOp("<")(float64(1), float64(2)))
	assert.Equal(t, false, GetOp(">=")(float64(1), float64(2)))
	assert.Equal(t, true, GetOp("===")(float64(1), float64(1)))
}

func TestGetOpLogical(t *testing.T) {
	assert.Equal(t, true, GetOp("&&")(true, true))
	assert.Equal(t, true, GetOp("||")(false, true))
}

func TestGetOpUnknownPanics(t *testing.T) {
	assert.Panics(t, func() { GetOp("nope") })
}

func TestThrow(t *testing.T) {
	assert.PanicsWithError(t, "boom", func() { Throw("boom") })
}

func TestForEach(t *testing.T) {
	var seen []any
	ForEach([]any{1, 2, 3}, func(v any) { seen = append(seen, v) })
	assert.Equal(t, []any{1, 2, 3}, seen)
}

func TestToSequence(t *testing.T) {
	assert.Equal(t, []any{1, 2, 3}, ToSequence([]any{1, 2, 3}))
	assert.Nil(t, ToSequence(nil))
}
