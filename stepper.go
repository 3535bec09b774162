package gamesearch

import (
	"context"

	"github.com/samber/lo"
)

// StepSnapshot exposes the per-iteration state of the search
type StepSnapshot[S comparable] struct {
	Current   S
	Open      []S
	Closed    []S
	Done      bool
	Status    Status
	Found     bool
	Path      []S
	StepIndex int
	Expanded  int
}

// Stepper drives best-first search one frontier pop at a time.
//
// BestFirst, GreedyBestFirst and AStar run a Stepper to completion, so a
// stepped search visits states in exactly the same order.
type Stepper[S comparable] struct {
	algorithm string
	goal      GoalTest[S]
	visitor   Visitor[S]
	options   Options

	frontier *Frontier[S]
	explored map[S]struct{}

	current  *Node[S]
	result   *Node[S]
	status   Status
	expanded int
	maxDepth int
	maxCost  float64
	steps    int
	err      error
}

// NewStepper creates a stepper positioned before the first expansion.
func NewStepper[S comparable](
	initial S,
	goal GoalTest[S],
	priority PriorityFunc[S],
	visitor Visitor[S],
	options ...Option,
) (*Stepper[S], error) {
	return newStepper("stepper", initial, goal, priority, visitor, applyOptions(options))
}

func newStepper[S comparable](
	algorithm string,
	initial S,
	goal GoalTest[S],
	priority PriorityFunc[S],
	visitor Visitor[S],
	options Options,
) (*Stepper[S], error) {
	if goal == nil || priority == nil || visitor == nil {
		return nil, &SearchError{Algorithm: algorithm, Operation: "Init", Err: ErrInvalidArgument}
	}

	s := &Stepper[S]{
		algorithm: algorithm,
		goal:      goal,
		visitor:   visitor,
		options:   options,
		frontier:  NewFrontier(options.Order, priority),
		explored:  make(map[S]struct{}),
		status:    StatusRunning,
	}
	if _, err := s.frontier.Push(newRoot(initial)); err != nil {
		return nil, err
	}
	return s, nil
}

// Step advances the search by one frontier pop and returns a snapshot.
// Once the search has terminated further calls return the final snapshot.
// A failure after a pop (visitor error, NaN priority) leaves the expansion
// incomplete, so the stepper stops and keeps returning that error.
func (s *Stepper[S]) Step(ctx context.Context) (StepSnapshot[S], error) {
	err := s.advance(ctx)
	return s.snapshot(), err
}

// Done reports whether the search has terminated, either with an outcome or
// with an error.
func (s *Stepper[S]) Done() bool {
	return s.err != nil || s.status != StatusRunning
}

// Result returns the outcome so far. Before termination Node is nil and
// Status is StatusRunning.
func (s *Stepper[S]) Result() Result[S] {
	return Result[S]{
		Node:          s.result,
		Status:        s.status,
		NodesExpanded: s.expanded,
		MaxDepth:      s.maxDepth,
		MaxCost:       s.maxCost,
		Found:         s.status == StatusGoalFound,
	}
}

// advance runs one step unless the search is over. Cancellation before the
// pop leaves the stepper resumable; any later failure is kept.
func (s *Stepper[S]) advance(ctx context.Context) error {
	if s.err != nil || s.status != StatusRunning {
		return s.err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.err = s.step(ctx)
	return s.err
}

func (s *Stepper[S]) step(ctx context.Context) error {
	if s.frontier.Len() == 0 {
		s.status = StatusExhausted
		return nil
	}
	if s.options.NodeBudget > 0 && s.expanded >= s.options.NodeBudget {
		s.result, _ = s.frontier.Pop()
		s.status = StatusBudgetExceeded
		s.options.Logger.Debug().Str("algorithm", s.algorithm).Int("budget", s.options.NodeBudget).Msg("node-budget-reached")
		return nil
	}

	node, _ := s.frontier.Pop()
	s.explored[node.State] = struct{}{}
	s.current = node
	s.steps++

	if s.goal(node.State) {
		s.result = node
		s.status = StatusGoalFound
		return nil
	}

	s.expanded++
	successors, err := s.visitor.Visit(ctx, node.State, s.options.Player)
	if err != nil {
		return wrapVisitor(s.algorithm, err)
	}
	for _, successor := range successors {
		child := node.child(successor)
		if _, done := s.explored[child.State]; done {
			continue
		}
		if !s.frontier.Contains(child.State) {
			if _, err := s.frontier.Push(child); err != nil {
				return err
			}
			s.maxDepth = max(s.maxDepth, child.Depth)
			s.maxCost = max(s.maxCost, child.Cost)
			continue
		}
		better, err := s.frontier.Improves(child)
		if err != nil {
			return err
		}
		if better {
			if _, err := s.frontier.Replace(child); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Stepper[S]) snapshot() StepSnapshot[S] {
	snap := StepSnapshot[S]{
		Open:      s.frontier.States(),
		Closed:    lo.Keys(s.explored),
		Done:      s.Done(),
		Status:    s.status,
		Found:     s.status == StatusGoalFound,
		StepIndex: s.steps,
		Expanded:  s.expanded,
	}
	if s.current != nil {
		snap.Current = s.current.State
	}
	if snap.Found {
		snap.Path = s.result.Path()
	}
	return snap
}
