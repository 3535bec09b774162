package gamesearch

import (
	"container/heap"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/frand"
)

func keyByCost(node *Node[int]) float64 { return node.Cost }

func nodeAt(state int, cost float64) *Node[int] {
	return &Node[int]{State: state, Cost: cost}
}

// checkFrontier asserts that the membership index and the heap agree entry by
// entry and that the heap property holds.
func checkFrontier[S comparable](t *testing.T, f *Frontier[S]) {
	t.Helper()
	require.Len(t, f.index, len(f.queue.items))
	for i, item := range f.queue.items {
		require.Equal(t, i, item.IndexInQueue)
		indexed, ok := f.index[item.Node.State]
		require.True(t, ok, "heap entry missing from index")
		require.Same(t, item, indexed)
		if i > 0 {
			require.False(t, f.queue.Less(i, (i-1)/2), "heap property violated at %d", i)
		}
	}
}

func TestFrontier_PopOrder(t *testing.T) {
	t.Run("min first", func(t *testing.T) {
		f := NewFrontier(MinFirst, keyByCost)
		for state, cost := range []float64{5, 1, 4, 2, 3} {
			_, err := f.Push(nodeAt(state, cost))
			require.NoError(t, err)
		}
		var got []float64
		for f.Len() > 0 {
			node, ok := f.Pop()
			require.True(t, ok)
			got = append(got, node.Cost)
			checkFrontier(t, f)
		}
		assert.Equal(t, []float64{1, 2, 3, 4, 5}, got)
	})

	t.Run("max first", func(t *testing.T) {
		f := NewFrontier(MaxFirst, keyByCost)
		for state, cost := range []float64{5, 1, 4, 2, 3} {
			_, err := f.Push(nodeAt(state, cost))
			require.NoError(t, err)
		}
		head, ok := f.Peek()
		require.True(t, ok)
		assert.Equal(t, 5.0, head.Cost)
		node, _ := f.Pop()
		assert.Equal(t, 5.0, node.Cost)
		node, _ = f.Pop()
		assert.Equal(t, 4.0, node.Cost)
	})

	t.Run("ties pop in insertion order", func(t *testing.T) {
		f := NewFrontier(MinFirst, keyByCost)
		for state := 10; state < 20; state++ {
			_, err := f.Push(nodeAt(state, 1))
			require.NoError(t, err)
		}
		for want := 10; want < 20; want++ {
			node, _ := f.Pop()
			assert.Equal(t, want, node.State)
		}
	})

	t.Run("empty", func(t *testing.T) {
		f := NewFrontier(MinFirst, keyByCost)
		_, ok := f.Pop()
		assert.False(t, ok)
		_, ok = f.Peek()
		assert.False(t, ok)
	})
}

func TestFrontier_Membership(t *testing.T) {
	f := NewFrontier(MinFirst, keyByCost)

	added, err := f.Push(nodeAt(1, 3))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = f.Push(nodeAt(1, 0))
	require.NoError(t, err)
	assert.False(t, added, "a contained state must not be pushed twice")
	assert.Equal(t, 1, f.Len())

	key, ok := f.Priority(1)
	require.True(t, ok)
	assert.Equal(t, 3.0, key)

	_, ok = f.Priority(2)
	assert.False(t, ok)

	removed, ok := f.Remove(1)
	require.True(t, ok)
	assert.Equal(t, 1, removed.State)
	assert.False(t, f.Contains(1))
	_, ok = f.Remove(1)
	assert.False(t, ok)
	checkFrontier(t, f)
}

func TestFrontier_Replace(t *testing.T) {
	f := NewFrontier(MinFirst, keyByCost)
	for state, cost := range []float64{1, 2, 3, 4} {
		_, err := f.Push(nodeAt(state, cost))
		require.NoError(t, err)
	}

	assertImproves(t, f, nodeAt(3, 0.5), true)
	assertImproves(t, f, nodeAt(3, 4), false)
	assertImproves(t, f, nodeAt(9, 0), false)

	replaced, err := f.Replace(nodeAt(3, 0.5))
	require.NoError(t, err)
	assert.True(t, replaced)
	checkFrontier(t, f)

	head, _ := f.Peek()
	assert.Equal(t, 3, head.State)
	key, _ := f.Priority(3)
	assert.Equal(t, 0.5, key)

	replaced, err = f.Replace(nodeAt(42, 0))
	require.NoError(t, err)
	assert.False(t, replaced)
}

func assertImproves(t *testing.T, f *Frontier[int], node *Node[int], want bool) {
	t.Helper()
	better, err := f.Improves(node)
	require.NoError(t, err)
	assert.Equal(t, want, better, "state %d with key %v", node.State, node.Cost)
}

func TestFrontier_ReplaceMaxFirst(t *testing.T) {
	f := NewFrontier(MaxFirst, keyByCost)
	for state, cost := range []float64{1, 2, 3, 4} {
		_, err := f.Push(nodeAt(state, cost))
		require.NoError(t, err)
	}

	assertImproves(t, f, nodeAt(0, 5), true)
	assertImproves(t, f, nodeAt(0, 1), false)
	assertImproves(t, f, nodeAt(2, 0.5), false)

	replaced, err := f.Replace(nodeAt(0, 5))
	require.NoError(t, err)
	assert.True(t, replaced)
	checkFrontier(t, f)

	var order []int
	for f.Len() > 0 {
		node, _ := f.Pop()
		order = append(order, node.State)
	}
	assert.Equal(t, []int{0, 3, 2, 1}, order)
}

func TestFrontier_ReplaceRequeuesTies(t *testing.T) {
	f := NewFrontier(MinFirst, keyByCost)
	for state := 0; state < 3; state++ {
		_, err := f.Push(nodeAt(state, 1))
		require.NoError(t, err)
	}
	_, err := f.Replace(nodeAt(0, 1))
	require.NoError(t, err)

	var order []int
	for f.Len() > 0 {
		node, _ := f.Pop()
		order = append(order, node.State)
	}
	assert.Equal(t, []int{1, 2, 0}, order)
}

func TestFrontier_RejectsNaN(t *testing.T) {
	f := NewFrontier(MinFirst, func(*Node[int]) float64 { return math.NaN() })
	_, err := f.Push(nodeAt(1, 0))
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 0, f.Len())
	checkFrontier(t, f)
}

func TestFrontier_RejectsNaNOnUpdate(t *testing.T) {
	f := NewFrontier(MinFirst, keyByCost)
	_, err := f.Push(nodeAt(1, 2))
	require.NoError(t, err)

	var searchErr *SearchError

	_, err = f.Improves(nodeAt(1, math.NaN()))
	require.ErrorIs(t, err, ErrInvalidState)
	require.ErrorAs(t, err, &searchErr)
	assert.Equal(t, "Improves", searchErr.Operation)

	_, err = f.Replace(nodeAt(1, math.NaN()))
	require.ErrorIs(t, err, ErrInvalidState)
	require.ErrorAs(t, err, &searchErr)
	assert.Equal(t, "Replace", searchErr.Operation)

	key, ok := f.Priority(1)
	require.True(t, ok)
	assert.Equal(t, 2.0, key)
	checkFrontier(t, f)
}

func TestFrontier_RandomOperationsKeepIndexInSync(t *testing.T) {
	seed := make([]byte, 32)
	seed[0] = 7
	rng := frand.NewCustom(seed, 1024, 12)

	f := NewFrontier(MinFirst, keyByCost)
	model := make(map[int]float64)

	for op := 0; op < 2000; op++ {
		state := rng.Intn(64)
		cost := float64(rng.Intn(100))

		switch rng.Intn(4) {
		case 0:
			added, err := f.Push(nodeAt(state, cost))
			require.NoError(t, err)
			_, existed := model[state]
			assert.Equal(t, !existed, added)
			if !existed {
				model[state] = cost
			}
		case 1:
			node, ok := f.Pop()
			if len(model) == 0 {
				assert.False(t, ok)
				break
			}
			require.True(t, ok)
			for _, other := range model {
				assert.LessOrEqual(t, node.Cost, other)
			}
			delete(model, node.State)
		case 2:
			_, ok := f.Remove(state)
			_, existed := model[state]
			assert.Equal(t, existed, ok)
			delete(model, state)
		case 3:
			replaced, err := f.Replace(nodeAt(state, cost))
			require.NoError(t, err)
			_, existed := model[state]
			assert.Equal(t, existed, replaced)
			if existed {
				model[state] = cost
			}
		}

		checkFrontier(t, f)
		assert.ElementsMatch(t, keysOf(model), f.States())
		for state, cost := range model {
			key, ok := f.Priority(state)
			require.True(t, ok)
			assert.Equal(t, cost, key)
		}
	}
}

func TestPriorityQueue_HeapInterface(t *testing.T) {
	queue := &PriorityQueue[int]{}
	heap.Push(queue, &PriorityQueueItem[int]{Node: nodeAt(1, 2), Key: 2, sequence: 1})
	heap.Push(queue, &PriorityQueueItem[int]{Node: nodeAt(2, 1), Key: 1, sequence: 2})

	item := heap.Pop(queue).(*PriorityQueueItem[int])
	assert.Equal(t, 2, item.Node.State)
	assert.Equal(t, -1, item.IndexInQueue)
	assert.Equal(t, 1, queue.Len())
}

func keysOf(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
