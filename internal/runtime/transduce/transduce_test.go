package transduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collectStep(acc, x any) any { return append(acc.([]any), x) }

func TestMapT(t *testing.T) {
	double := func(v any) any { return v.(int) * 2 }
	out := Transduce(MapT(double), collectStep, []any{}, []any{1, 2, 3})
	assert.Equal(t, []any{2, 4, 6}, out)
}

func TestFilterT(t *testing.T) {
	even := func(v any) bool { return v.(int)%2 == 0 }
	out := Transduce(FilterT(even), collectStep, []any{}, []any{1, 2, 3, 4})
	assert.Equal(t, []any{2, 4}, out)
}

func TestTakeT(t *testing.T) {
	out := Transduce(TakeT(2), collectStep, []any{}, []any{1, 2, 3, 4})
	assert.Equal(t, []any{1, 2}, out)
}

func TestDropT(t *testing.T) {
	out := Transduce(DropT(2), collectStep, []any{}, []any{1, 2, 3, 4})
	assert.Equal(t, []any{3, 4}, out)
}

func TestTakeWhileT(t *testing.T) {
	lt3 := func(v any) bool { return v.(int) < 3 }
	out := Transduce(TakeWhileT(lt3), collectStep, []any{}, []any{1, 2, 3, 1})
	assert.Equal(t, []any{1, 2}, out)
}

func TestDropWhileT(t *testing.T) {
	lt3 := func(v any) bool { return v.(int) < 3 }
	out := Transduce(DropWhileT(lt3), collectStep, []any{}, []any{1, 2, 3, 1})
	assert.Equal(t, []any{3, 1}, out)
}

func TestDistinctT(t *testing.T) {
	out := Transduce(DistinctT(), collectStep, []any{}, []any{1, 2, 1, 3, 2})
	assert.Equal(t, []any{1, 2, 3}, out)
}

func TestPartitionAllT(t *testing.T) {
	out := Transduce(PartitionAllT(2), collectStep, []any{}, []any{1, 2, 3, 4, 5})
	assert.Equal(t, []any{[]any{1, 2}, []any{3, 4}, []any{5}}, out)
}

func TestComposeAppliesInOrder(t *testing.T) {
	even := func(v any) bool { return v.(int)%2 == 0 }
	double := func(v any) any { return v.(int) * 2 }
	xf := Compose(FilterT(even), MapT(double))
	out := Transduce(xf, collectStep, []any{}, []any{1, 2, 3, 4, 5, 6})
	assert.Equal(t, []any{4, 8, 12}, out)
}

func TestInto(t *testing.T) {
	double := func(v any) any { return v.(int) * 2 }
	out := Into(nil, MapT(double), []any{1, 2, 3})
	assert.Equal(t, []any{2, 4, 6}, out)

	out = Into([]any{0}, MapT(double), []any{1, 2})
	assert.Equal(t, []any{0, 2, 4}, out)
}
