package gamesearch

import (
	"context"

	"github.com/pdrpinto/gamesearch/internal"
)

// Player identifies the side a visitor expands moves for.
type Player string

// Successor is a state reachable in one step, with the step cost from its predecessor.
type Successor[S comparable] struct {
	State S
	Cost  float64
}

// Visitor generates successors. S must be comparable so it can be used in maps;
// two equal values are the same search state.
//
// The acting player is passed on every call so a visitor can be shared between
// sequential searches without mutable turn state.
type Visitor[S comparable] interface {
	Visit(ctx context.Context, state S, player Player) ([]Successor[S], error)
}

// VisitorFunc adapts an ordinary function to the Visitor interface.
type VisitorFunc[S comparable] func(ctx context.Context, state S, player Player) ([]Successor[S], error)

// Visit calls f(ctx, state, player).
func (f VisitorFunc[S]) Visit(ctx context.Context, state S, player Player) ([]Successor[S], error) {
	return f(ctx, state, player)
}

// Heuristic estimates the remaining cost from a state to a goal.
type Heuristic[S comparable] func(state S) float64

// GoalTest reports whether a state satisfies the search goal.
type GoalTest[S comparable] func(state S) bool

// TerminalTest reports whether an adversarial search should stop at a state.
type TerminalTest[S comparable] func(state S) bool

// CutoffTest bounds adversarial recursion; depth is the ply distance from the root.
type CutoffTest[S comparable] func(state S, depth int) bool

// UtilityFunc scores a state; positive values favour the maximizing player.
type UtilityFunc[S comparable] func(state S) float64

// PriorityFunc ranks frontier nodes.
type PriorityFunc[S comparable] func(node *Node[S]) float64

// Node is the engine's record of a reached state.
// Cost is the path cost from the origin, Depth the number of steps, and Parent
// points at the predecessor node (nil at the origin).
type Node[S comparable] struct {
	State  S
	Parent *Node[S]
	Cost   float64
	Depth  int
}

func newRoot[S comparable](state S) *Node[S] {
	return &Node[S]{State: state}
}

// child builds the node reached from n through succ.
func (n *Node[S]) child(succ Successor[S]) *Node[S] {
	return &Node[S]{
		State:  succ.State,
		Parent: n,
		Cost:   n.Cost + succ.Cost,
		Depth:  n.Depth + 1,
	}
}

// Path returns the states from the origin to n.
func (n *Node[S]) Path() []S {
	if n == nil {
		return nil
	}
	nodes := internal.ReconstructPath(n, func(current *Node[S]) (*Node[S], bool) {
		return current.Parent, current.Parent != nil
	})
	path := make([]S, len(nodes))
	for i, node := range nodes {
		path[i] = node.State
	}
	return path
}
