package gamesearch

import (
	"container/heap"
	"math"

	"github.com/samber/lo"
)

// Order selects which end of the frontier Pop returns.
type Order int

const (
	// MinFirst pops the lowest priority first.
	MinFirst Order = iota
	// MaxFirst pops the highest priority first.
	MaxFirst
)

func (o Order) String() string {
	if o == MaxFirst {
		return "max"
	}
	return "min"
}

// PriorityQueueItem is a frontier entry. Key is computed once when the entry is
// pushed or replaced.
type PriorityQueueItem[S comparable] struct {
	Node         *Node[S]
	Key          float64
	sequence     uint64
	IndexInQueue int
}

// PriorityQueue is the heap behind Frontier. Equal keys pop in insertion order.
type PriorityQueue[S comparable] struct {
	items []*PriorityQueueItem[S]
	order Order
}

func (queue *PriorityQueue[S]) Len() int { return len(queue.items) }

func (queue *PriorityQueue[S]) Less(i, j int) bool {
	a, b := queue.items[i], queue.items[j]
	if a.Key != b.Key {
		if queue.order == MaxFirst {
			return a.Key > b.Key
		}
		return a.Key < b.Key
	}
	return a.sequence < b.sequence
}

func (queue *PriorityQueue[S]) Swap(i, j int) {
	queue.items[i], queue.items[j] = queue.items[j], queue.items[i]
	queue.items[i].IndexInQueue = i
	queue.items[j].IndexInQueue = j
}

func (queue *PriorityQueue[S]) Push(x any) {
	item := x.(*PriorityQueueItem[S])
	item.IndexInQueue = len(queue.items)
	queue.items = append(queue.items, item)
}

func (queue *PriorityQueue[S]) Pop() any {
	old := queue.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.IndexInQueue = -1
	queue.items = old[:n-1]
	return item
}

// Frontier is a priority queue of nodes with a membership index.
//
// The index maps every contained state to its heap entry, so membership,
// priority lookup, removal and key replacement never scan the heap. A state is
// contained at most once.
//
// A Frontier is not safe for concurrent use.
type Frontier[S comparable] struct {
	queue    PriorityQueue[S]
	index    map[S]*PriorityQueueItem[S]
	key      PriorityFunc[S]
	sequence uint64
}

// NewFrontier creates an empty frontier ranked by key in the given order.
func NewFrontier[S comparable](order Order, key PriorityFunc[S]) *Frontier[S] {
	return &Frontier[S]{
		queue: PriorityQueue[S]{order: order},
		index: make(map[S]*PriorityQueueItem[S]),
		key:   key,
	}
}

// Len returns the number of contained states.
func (f *Frontier[S]) Len() int { return f.queue.Len() }

// Contains reports whether state is in the frontier.
func (f *Frontier[S]) Contains(state S) bool {
	_, ok := f.index[state]
	return ok
}

// Priority returns the stored key of state.
func (f *Frontier[S]) Priority(state S) (float64, bool) {
	item, ok := f.index[state]
	if !ok {
		return 0, false
	}
	return item.Key, true
}

// Push inserts node. It returns false without changes if the node's state is
// already contained, and ErrInvalidState if the key is NaN.
func (f *Frontier[S]) Push(node *Node[S]) (bool, error) {
	if f.Contains(node.State) {
		return false, nil
	}
	key, err := f.rank("Push", node)
	if err != nil {
		return false, err
	}
	item := &PriorityQueueItem[S]{Node: node, Key: key, sequence: f.nextSequence()}
	heap.Push(&f.queue, item)
	f.index[node.State] = item
	return true, nil
}

// Pop removes and returns the extreme node.
func (f *Frontier[S]) Pop() (*Node[S], bool) {
	if f.queue.Len() == 0 {
		return nil, false
	}
	item := heap.Pop(&f.queue).(*PriorityQueueItem[S])
	delete(f.index, item.Node.State)
	return item.Node, true
}

// Peek returns the extreme node without removing it.
func (f *Frontier[S]) Peek() (*Node[S], bool) {
	if f.queue.Len() == 0 {
		return nil, false
	}
	return f.queue.items[0].Node, true
}

// Remove deletes state and returns its node.
func (f *Frontier[S]) Remove(state S) (*Node[S], bool) {
	item, ok := f.index[state]
	if !ok {
		return nil, false
	}
	heap.Remove(&f.queue, item.IndexInQueue)
	delete(f.index, state)
	return item.Node, true
}

// Replace swaps the entry for node.State with node and recomputes its key.
// The entry is ordered as if it had been removed and pushed again.
// It returns false if the state is not contained.
func (f *Frontier[S]) Replace(node *Node[S]) (bool, error) {
	item, ok := f.index[node.State]
	if !ok {
		return false, nil
	}
	key, err := f.rank("Replace", node)
	if err != nil {
		return false, err
	}
	item.Node = node
	item.Key = key
	item.sequence = f.nextSequence()
	heap.Fix(&f.queue, item.IndexInQueue)
	return true, nil
}

// Improves reports whether node would rank strictly ahead of the stored entry
// for the same state. A NaN key is ErrInvalidState, as on Push.
func (f *Frontier[S]) Improves(node *Node[S]) (bool, error) {
	stored, ok := f.Priority(node.State)
	if !ok {
		return false, nil
	}
	key, err := f.rank("Improves", node)
	if err != nil {
		return false, err
	}
	if f.queue.order == MaxFirst {
		return key > stored, nil
	}
	return key < stored, nil
}

// States lists the contained states in no particular order.
func (f *Frontier[S]) States() []S {
	return lo.Keys(f.index)
}

func (f *Frontier[S]) rank(operation string, node *Node[S]) (float64, error) {
	key := f.key(node)
	if math.IsNaN(key) {
		return 0, &SearchError{Algorithm: "frontier", Operation: operation, Err: ErrInvalidState}
	}
	return key, nil
}

func (f *Frontier[S]) nextSequence() uint64 {
	f.sequence++
	return f.sequence
}
