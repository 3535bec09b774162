package gamesearch

import (
	"context"
	"math"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"lukechampine.com/frand"
)

// Backup records a learned value written for a state when the search left it.
type Backup[S comparable] struct {
	State     S
	Value     float64
	Iteration int
}

// RealTimeResult contains the outcome of RealTimeAStar.
type RealTimeResult[S comparable] struct {
	// Node is the goal node, or the node the search stood on when the budget ran out.
	Node       *Node[S]
	Status     Status
	Iterations int
	// Learned holds the final learned value of every state the search left.
	Learned map[S]float64
	// Backups lists every learned-value write in order.
	Backups []Backup[S]
	Found   bool
}

// State returns the final state.
func (r RealTimeResult[S]) State() (S, bool) {
	if r.Node == nil {
		var zero S
		return zero, false
	}
	return r.Node.State, true
}

// Err converts a non-goal outcome into ErrBudgetExceeded.
func (r RealTimeResult[S]) Err() error {
	if r.Status == StatusBudgetExceeded {
		return ErrBudgetExceeded
	}
	return nil
}

type learnedEntry[S comparable] struct {
	value float64
	node  *Node[S]
}

type rtaCandidate[S comparable] struct {
	node  *Node[S]
	total float64
	draw  float64
}

// RealTimeAStar moves from initial one step at a time until goal holds.
//
// Each move expands only the current state. A successor is scored by its step
// cost plus its learned value, or its heuristic if the search has not left it
// yet. The search moves to the cheapest successor, breaking ties with a
// uniform draw from Options.Rand, and stores the second-cheapest total as the
// learned value of the state it leaves (the only total when there is one
// successor). Learned values are never lowered. A revisited state keeps the
// parent, cost and depth recorded when the search first left it.
//
// The node budget caps the number of moves. A dead end or a NaN total is
// ErrInvalidState.
func RealTimeAStar[S comparable](
	ctx context.Context,
	initial S,
	goal GoalTest[S],
	heuristic Heuristic[S],
	visitor Visitor[S],
	options ...Option,
) (RealTimeResult[S], error) {
	const algorithm = "real_time_a_star"

	opts := applyOptions(options)
	if goal == nil || heuristic == nil || visitor == nil {
		return RealTimeResult[S]{}, &SearchError{Algorithm: algorithm, Operation: "Search", Err: ErrInvalidArgument}
	}
	rng := opts.Rand
	if rng == nil {
		rng = frand.New()
	}

	ctx, tracked := startRun(ctx, algorithm, opts.Logger, attribute.Int("node_budget", opts.NodeBudget))

	learned := make(map[S]learnedEntry[S])
	result := RealTimeResult[S]{Status: StatusRunning}
	current := newRoot(initial)

	finish := func(outcome string, err error) (RealTimeResult[S], error) {
		result.Node = current
		result.Learned = make(map[S]float64, len(learned))
		for state, entry := range learned {
			result.Learned[state] = entry.value
		}
		tracked.finish(outcome, result.Iterations, err)
		return result, err
	}

	for !goal(current.State) {
		if err := ctx.Err(); err != nil {
			return finish("error", err)
		}
		if opts.NodeBudget > 0 && result.Iterations >= opts.NodeBudget {
			result.Status = StatusBudgetExceeded
			return finish(result.Status.String(), nil)
		}

		successors, err := visitor.Visit(ctx, current.State, opts.Player)
		if err != nil {
			return finish("error", wrapVisitor(algorithm, err))
		}
		if len(successors) == 0 {
			return finish("error", &SearchError{Algorithm: algorithm, Operation: "Move", Err: ErrInvalidState})
		}

		candidates := make([]rtaCandidate[S], 0, len(successors))
		for _, successor := range successors {
			var candidate rtaCandidate[S]
			if entry, ok := learned[successor.State]; ok {
				candidate.node = &Node[S]{
					State:  successor.State,
					Parent: entry.node.Parent,
					Cost:   entry.node.Cost,
					Depth:  entry.node.Depth,
				}
				candidate.total = entry.value + successor.Cost
			} else {
				candidate.node = current.child(successor)
				candidate.total = heuristic(successor.State) + successor.Cost
			}
			if math.IsNaN(candidate.total) {
				return finish("error", &SearchError{Algorithm: algorithm, Operation: "Rank", Err: ErrInvalidState})
			}
			candidate.draw = rng.Float64()
			candidates = append(candidates, candidate)
		}
		sort.Slice(candidates, func(i, j int) bool {
			if candidates[i].total != candidates[j].total {
				return candidates[i].total < candidates[j].total
			}
			return candidates[i].draw < candidates[j].draw
		})

		best := candidates[0]
		value := best.total
		if len(candidates) > 1 {
			value = candidates[1].total
		}
		if previous, ok := learned[current.State]; ok {
			value = max(value, previous.value)
		}
		learned[current.State] = learnedEntry[S]{value: value, node: current}
		result.Backups = append(result.Backups, Backup[S]{State: current.State, Value: value, Iteration: result.Iterations})

		current = best.node
		result.Iterations++
	}

	result.Status = StatusGoalFound
	result.Found = true
	return finish(result.Status.String(), nil)
}
