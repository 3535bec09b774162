package gamesearch

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// DefaultNodeBudget is the default number of expansions before a best-first
	// search gives up with a partial result.
	DefaultNodeBudget = 10000

	// DefaultMaxRecursionDepth bounds adversarial recursion.
	DefaultMaxRecursionDepth = 512
)

// Status is the terminal state of a best-first search.
type Status int

const (
	// StatusRunning means the search has not terminated yet.
	StatusRunning Status = iota
	// StatusGoalFound means the goal test accepted the result node.
	StatusGoalFound
	// StatusBudgetExceeded means the node budget ran out; the result node is
	// the frontier head at that moment.
	StatusBudgetExceeded
	// StatusExhausted means the frontier emptied without reaching a goal.
	StatusExhausted
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusGoalFound:
		return "goal_found"
	case StatusBudgetExceeded:
		return "budget_exceeded"
	case StatusExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Result contains the outcome of a best-first search.
type Result[S comparable] struct {
	// Node is the goal node, the frontier head on budget exhaustion, or nil
	// when no goal is reachable.
	Node          *Node[S]
	Status        Status
	NodesExpanded int
	// MaxDepth is the largest successor depth (in steps) added to the frontier.
	MaxDepth int
	// MaxCost is the largest successor path cost added to the frontier.
	MaxCost float64
	Found   bool
}

// State returns the result state and whether there is one.
func (r Result[S]) State() (S, bool) {
	if r.Node == nil {
		var zero S
		return zero, false
	}
	return r.Node.State, true
}

// Path returns the states from the origin to the result node.
func (r Result[S]) Path() []S {
	return r.Node.Path()
}

// Err converts a non-goal outcome into ErrBudgetExceeded or ErrNoGoalReachable.
func (r Result[S]) Err() error {
	switch r.Status {
	case StatusBudgetExceeded:
		return ErrBudgetExceeded
	case StatusExhausted:
		return ErrNoGoalReachable
	default:
		return nil
	}
}

// RandSource draws uniform values in [0, 1) for tie-breaking.
type RandSource interface {
	Float64() float64
}

// Options defines parameters for the search.
type Options struct {
	// NumberOfWorkers bounds how many problems SearchAll runs at once.
	NumberOfWorkers int

	// NodeBudget caps expansions (best-first) or moves (real-time).
	// Zero or negative disables the cap.
	NodeBudget int

	// Order selects min-first or max-first frontier ranking.
	Order Order

	// Player is passed to the visitor by single-agent searches.
	Player Player

	// Pruning enables alpha-beta cutoffs. When false Minimax is exhaustive.
	Pruning bool

	// MaxRecursionDepth guards adversarial recursion.
	MaxRecursionDepth int

	// Rand breaks real-time search ties. Nil means a fresh frand generator.
	Rand RandSource

	Logger zerolog.Logger
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithWorkers specifies how many problems SearchAll may run concurrently.
func WithWorkers(numberOfWorkers int) Option {
	return func(options *Options) { options.NumberOfWorkers = numberOfWorkers }
}

// WithNodeBudget sets the expansion budget. n <= 0 means unlimited.
func WithNodeBudget(n int) Option {
	return func(options *Options) { options.NodeBudget = n }
}

// WithOrder sets whether the frontier pops the lowest or highest priority.
func WithOrder(order Order) Option {
	return func(options *Options) { options.Order = order }
}

// WithPlayer sets the acting player passed to the visitor during single-agent search.
func WithPlayer(player Player) Option {
	return func(options *Options) { options.Player = player }
}

// WithPruning toggles alpha-beta cutoffs.
func WithPruning(enabled bool) Option {
	return func(options *Options) { options.Pruning = enabled }
}

// WithMaxRecursionDepth sets the adversarial recursion guard.
func WithMaxRecursionDepth(depth int) Option {
	return func(options *Options) { options.MaxRecursionDepth = depth }
}

// WithRand sets the tie-break source for real-time search.
func WithRand(source RandSource) Option {
	return func(options *Options) { options.Rand = source }
}

// WithLogger replaces the default zerolog logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		NumberOfWorkers:   runtime.NumCPU(),
		NodeBudget:        DefaultNodeBudget,
		Order:             MinFirst,
		Pruning:           true,
		MaxRecursionDepth: DefaultMaxRecursionDepth,
		Logger:            defaultLogger(),
	}
}

func applyOptions(options []Option) Options {
	searchOptions := DefaultOptions()
	for _, option := range options {
		option(&searchOptions)
	}
	return searchOptions
}

// BestFirst runs best-first graph search from initial, ranking the frontier
// with priority.
//
// Explored states are never reopened. A successor already in the frontier is
// updated only when its new priority ranks strictly ahead of the stored one.
// Running out of budget or frontier is reported through Result.Status; the
// returned error is reserved for invalid arguments, visitor failures, NaN
// priorities and context cancellation.
func BestFirst[S comparable](
	ctx context.Context,
	initial S,
	goal GoalTest[S],
	priority PriorityFunc[S],
	visitor Visitor[S],
	options ...Option,
) (Result[S], error) {
	return runBestFirst(ctx, "best_first", initial, goal, priority, visitor, applyOptions(options))
}

// GreedyBestFirst ranks the frontier by heuristic alone, ignoring path cost.
func GreedyBestFirst[S comparable](
	ctx context.Context,
	initial S,
	goal GoalTest[S],
	heuristic Heuristic[S],
	visitor Visitor[S],
	options ...Option,
) (Result[S], error) {
	if heuristic == nil {
		return Result[S]{}, &SearchError{Algorithm: "greedy_best_first", Operation: "Search", Err: ErrInvalidArgument}
	}
	priority := func(node *Node[S]) float64 { return heuristic(node.State) }
	return runBestFirst(ctx, "greedy_best_first", initial, goal, priority, visitor, applyOptions(options))
}

// AStar ranks the frontier by path cost plus heuristic. With an admissible and
// consistent heuristic the returned goal node lies on a minimum-cost path.
func AStar[S comparable](
	ctx context.Context,
	initial S,
	goal GoalTest[S],
	heuristic Heuristic[S],
	visitor Visitor[S],
	options ...Option,
) (Result[S], error) {
	if heuristic == nil {
		return Result[S]{}, &SearchError{Algorithm: "a_star", Operation: "Search", Err: ErrInvalidArgument}
	}
	priority := func(node *Node[S]) float64 { return node.Cost + heuristic(node.State) }
	return runBestFirst(ctx, "a_star", initial, goal, priority, visitor, applyOptions(options))
}

func runBestFirst[S comparable](
	ctx context.Context,
	algorithm string,
	initial S,
	goal GoalTest[S],
	priority PriorityFunc[S],
	visitor Visitor[S],
	options Options,
) (Result[S], error) {
	ctx, tracked := startRun(ctx, algorithm, options.Logger,
		attribute.Int("node_budget", options.NodeBudget),
		attribute.String("order", options.Order.String()),
	)

	stepper, err := newStepper(algorithm, initial, goal, priority, visitor, options)
	if err != nil {
		tracked.finish("error", 0, err)
		return Result[S]{}, err
	}
	for !stepper.Done() {
		if err := stepper.advance(ctx); err != nil {
			tracked.finish("error", stepper.expanded, err)
			return stepper.Result(), err
		}
	}

	result := stepper.Result()
	tracked.finish(result.Status.String(), result.NodesExpanded, nil)
	return result, nil
}
