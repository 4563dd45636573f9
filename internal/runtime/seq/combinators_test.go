package seq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func toSlice(s Seq) []any {
	var out []any
	for s != nil {
		out = append(out, s.First())
		r := s.Rest()
		if r == EMPTY {
			break
		}
		s = r
	}
	return out
}

func TestTake(t *testing.T) {
	assert.Nil(t, Take(0, []any{1, 2, 3}))
	assert.Equal(t, []any{1, 2, 3}, toSlice(Take(3, []any{1, 2, 3, 4, 5})))
	assert.Equal(t, []any{1, 2}, toSlice(Take(10, []any{1, 2})))
}

func TestDrop(t *testing.T) {
	assert.Equal(t, []any{3, 4}, toSlice(Drop(2, []any{1, 2, 3, 4})))
	assert.Nil(t, Drop(10, []any{1, 2}))
}

func TestTakeWhile(t *testing.T) {
	lt3 := func(v any) bool { return v.(int) < 3 }
	assert.Equal(t, []any{1, 2}, toSlice(TakeWhile(lt3, []any{1, 2, 3, 1})))
}

func TestDropWhile(t *testing.T) {
	lt3 := func(v any) bool { return v.(int) < 3 }
	assert.Equal(t, []any{3, 1}, toSlice(DropWhile(lt3, []any{1, 2, 3, 1})))
}

func TestPartitionDropsTrailing(t *testing.T) {
	groups := toSlice(Partition(2, 2, []any{1, 2, 3, 4, 5}))
	assert.Len(t, groups, 2)
	assert.Equal(t, 1, First(groups[0]))
	assert.Equal(t, 3, First(groups[1]))
}

func TestPartitionAllKeepsTrailing(t *testing.T) {
	groups := toSlice(PartitionAll(2, 2, []any{1, 2, 3, 4, 5}))
	assert.Len(t, groups, 3)
	assert.Equal(t, 1, Count(groups[2]))
	assert.Equal(t, 5, First(groups[2]))
}

func TestPartitionBy(t *testing.T) {
	identity := func(v any) any { return v }
	groups := toSlice(PartitionBy(identity, []any{1, 1, 2, 2, 3}))
	assert.Len(t, groups, 3)
	assert.Equal(t, 2, Count(groups[0]))
	assert.Equal(t, 1, Count(groups[2]))
}

func TestInterleave(t *testing.T) {
	assert.Equal(t, []any{1, "a", 2, "b", 3, "c"},
		toSlice(Interleave([]any{1, 2, 3}, []any{"a", "b", "c"})))
	assert.Nil(t, Interleave())
}

func TestInterleaveStopsAtShortest(t *testing.T) {
	assert.Equal(t, []any{1, "a"}, toSlice(Interleave([]any{1, 2, 3}, []any{"a"})))
}

func TestInterpose(t *testing.T) {
	assert.Equal(t, []any{1, ",", 2, ",", 3}, toSlice(Interpose(",", []any{1, 2, 3})))
	assert.Nil(t, Interpose(",", []any{}))
}

func TestReductionsWithInit(t *testing.T) {
	add := func(acc, x any) any { return acc.(int) + x.(int) }
	assert.Equal(t, []any{0, 1, 3, 6}, toSlice(Reductions(add, 0, true, []any{1, 2, 3})))
}

func TestReductionsWithoutInit(t *testing.T) {
	add := func(acc, x any) any { return acc.(int) + x.(int) }
	assert.Equal(t, []any{1, 3, 6}, toSlice(Reductions(add, nil, false, []any{1, 2, 3})))
}

func TestMapMultiArity(t *testing.T) {
	sum := func(args ...any) any { return args[0].(int) + args[1].(int) }
	result := toSlice(Map(sum, []any{1, 2, 3}, []any{10, 20, 30, 40}))
	assert.Equal(t, []any{11, 22, 33}, result)
}

func TestFilter(t *testing.T) {
	even := func(v any) bool { return v.(int)%2 == 0 }
	assert.Equal(t, []any{2, 4}, toSlice(Filter(even, []any{1, 2, 3, 4})))
}

func TestReduceEager(t *testing.T) {
	add := func(acc, x any) any { return acc.(int) + x.(int) }
	assert.Equal(t, 6, Reduce(add, 0, true, []any{1, 2, 3}))
}

func TestReduceWithoutInitSeedsFromFirst(t *testing.T) {
	add := func(acc, x any) any { return acc.(int) + x.(int) }
	assert.Equal(t, 6, Reduce(add, nil, false, []any{1, 2, 3}))
	assert.Nil(t, Reduce(add, nil, false, nil))
}

func TestReduceHonorsReduced(t *testing.T) {
	stopAt3 := func(acc, x any) any {
		sum := acc.(int) + x.(int)
		if sum >= 3 {
			return NewReduced(sum)
		}
		return sum
	}
	assert.Equal(t, 3, Reduce(stopAt3, 0, true, []any{1, 2, 100, 100}))
}
