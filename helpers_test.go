package gamesearch

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// testGraph is an explicit weighted digraph. Successors are returned in the
// order they were declared.
type testGraph struct {
	mu      sync.Mutex
	edges   map[string][]Successor[string]
	calls   int
	players []Player
}

func newTestGraph() *testGraph {
	return &testGraph{edges: make(map[string][]Successor[string])}
}

func (g *testGraph) edge(from, to string, cost float64) *testGraph {
	g.edges[from] = append(g.edges[from], Successor[string]{State: to, Cost: cost})
	return g
}

func (g *testGraph) Visit(_ context.Context, state string, player Player) ([]Successor[string], error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.players = append(g.players, player)
	return g.edges[state], nil
}

func heuristicTable(values map[string]float64) Heuristic[string] {
	return func(state string) float64 { return values[state] }
}

func goalIs(target string) GoalTest[string] {
	return func(state string) bool { return state == target }
}

func quiet() Option {
	return WithLogger(zerolog.Nop())
}
