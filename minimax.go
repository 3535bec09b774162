package gamesearch

import (
	"context"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// Decision is the outcome of an adversarial search.
type Decision[S comparable] struct {
	// Move is the best successor of the initial state for the maximizing
	// player, or the initial state itself when NoMove is set.
	Move S
	// Utility is the minimax value of the initial state.
	Utility float64
	// NoMove reports that the initial state was cut off or had no successors.
	NoMove bool

	// Visits counts visitor calls.
	Visits int
	// Evaluations counts utility calls.
	Evaluations int
	// Cutoffs counts sibling loops stopped by an alpha or beta bound.
	Cutoffs int
	// MaxDepth is the deepest ply reached.
	MaxDepth int
}

// Minimax picks the maximizing player's best move from initial using minimax
// with alpha-beta pruning, recursing until terminal holds.
//
// The visitor is called with maxPlayer on maximizing plies and minPlayer on
// minimizing plies. A non-terminal state without successors is scored with
// utility like a terminal one. Pruning never changes Decision.Utility relative
// to WithPruning(false); it only reduces Visits.
func Minimax[S comparable](
	ctx context.Context,
	initial S,
	maxPlayer, minPlayer Player,
	utility UtilityFunc[S],
	terminal TerminalTest[S],
	visitor Visitor[S],
	options ...Option,
) (Decision[S], error) {
	if terminal == nil {
		return Decision[S]{}, &SearchError{Algorithm: "minimax", Operation: "Search", Err: ErrInvalidArgument}
	}
	cutoff := func(state S, _ int) bool { return terminal(state) }
	return runMinimax(ctx, "minimax", initial, maxPlayer, minPlayer, utility, cutoff, visitor, applyOptions(options))
}

// RealTimeMinimax is Minimax bounded by a cutoff test, meant to be called once
// per move. Use DepthCutoff or DeadlineCutoff to build the test.
func RealTimeMinimax[S comparable](
	ctx context.Context,
	initial S,
	maxPlayer, minPlayer Player,
	utility UtilityFunc[S],
	cutoff CutoffTest[S],
	visitor Visitor[S],
	options ...Option,
) (Decision[S], error) {
	return runMinimax(ctx, "real_time_minimax", initial, maxPlayer, minPlayer, utility, cutoff, visitor, applyOptions(options))
}

// DepthCutoff stops recursion after plies plies or where terminal holds.
// terminal may be nil.
func DepthCutoff[S comparable](plies int, terminal TerminalTest[S]) CutoffTest[S] {
	return func(state S, depth int) bool {
		if depth >= plies {
			return true
		}
		return terminal != nil && terminal(state)
	}
}

// DeadlineCutoff stops recursion below the root once deadline has passed, or
// where terminal holds. The root is always expanded so a move is produced.
func DeadlineCutoff[S comparable](deadline time.Time, terminal TerminalTest[S]) CutoffTest[S] {
	return func(state S, depth int) bool {
		if terminal != nil && terminal(state) {
			return true
		}
		return depth > 0 && !time.Now().Before(deadline)
	}
}

type outcome[S comparable] struct {
	child   S
	ok      bool
	utility float64
}

type alphaBeta[S comparable] struct {
	ctx       context.Context
	maxPlayer Player
	minPlayer Player
	utility   UtilityFunc[S]
	cutoff    CutoffTest[S]
	visitor   Visitor[S]
	options   Options
	decision  *Decision[S]
}

func runMinimax[S comparable](
	ctx context.Context,
	algorithm string,
	initial S,
	maxPlayer, minPlayer Player,
	utility UtilityFunc[S],
	cutoff CutoffTest[S],
	visitor Visitor[S],
	options Options,
) (Decision[S], error) {
	if utility == nil || cutoff == nil || visitor == nil {
		return Decision[S]{}, &SearchError{Algorithm: algorithm, Operation: "Search", Err: ErrInvalidArgument}
	}

	ctx, tracked := startRun(ctx, algorithm, options.Logger,
		attribute.String("max_player", string(maxPlayer)),
		attribute.String("min_player", string(minPlayer)),
		attribute.Bool("pruning", options.Pruning),
	)

	decision := Decision[S]{}
	search := &alphaBeta[S]{
		ctx:       ctx,
		maxPlayer: maxPlayer,
		minPlayer: minPlayer,
		utility:   utility,
		cutoff:    cutoff,
		visitor:   visitor,
		options:   options,
		decision:  &decision,
	}

	best, err := search.maximize(initial, 0, math.Inf(-1), math.Inf(1))
	if err != nil {
		tracked.finish("error", decision.Visits, err)
		return decision, err
	}

	decision.Utility = best.utility
	if best.ok {
		decision.Move = best.child
	} else {
		decision.Move = initial
		decision.NoMove = true
	}

	tracked.logger.Debug().
		Float64("utility", decision.Utility).
		Int("visits", decision.Visits).
		Int("cutoffs", decision.Cutoffs).
		Int("max-depth", decision.MaxDepth).
		Bool("no-move", decision.NoMove).
		Msg("minimax-decision")
	outcomeLabel := "move"
	if decision.NoMove {
		outcomeLabel = "no_move"
	}
	tracked.finish(outcomeLabel, decision.Visits, nil)
	return decision, nil
}

// expand handles the shared prologue of both plies. It returns leaf=true with
// the state's utility when recursion stops here.
func (ab *alphaBeta[S]) expand(state S, depth int, player Player) ([]Successor[S], bool, float64, error) {
	if err := ab.ctx.Err(); err != nil {
		return nil, false, 0, err
	}
	if ab.options.MaxRecursionDepth > 0 && depth > ab.options.MaxRecursionDepth {
		return nil, false, 0, &SearchError{Algorithm: "minimax", Operation: "Recurse", Err: ErrDepthExceeded}
	}
	ab.decision.MaxDepth = max(ab.decision.MaxDepth, depth)

	if ab.cutoff(state, depth) {
		ab.decision.Evaluations++
		return nil, true, ab.utility(state), nil
	}

	ab.decision.Visits++
	successors, err := ab.visitor.Visit(ab.ctx, state, player)
	if err != nil {
		return nil, false, 0, wrapVisitor("minimax", err)
	}
	if len(successors) == 0 {
		ab.decision.Evaluations++
		return nil, true, ab.utility(state), nil
	}
	return successors, false, 0, nil
}

// countCutoff counts a bound break only when it skips at least one sibling.
func (ab *alphaBeta[S]) countCutoff(index, siblings int) {
	if index < siblings-1 {
		ab.decision.Cutoffs++
	}
}

// maximize returns the successor with the highest value. alpha and beta are
// this call's copies; siblings each see the bounds current when they start.
func (ab *alphaBeta[S]) maximize(state S, depth int, alpha, beta float64) (outcome[S], error) {
	successors, leaf, value, err := ab.expand(state, depth, ab.maxPlayer)
	if err != nil || leaf {
		return outcome[S]{utility: value}, err
	}

	best := outcome[S]{utility: math.Inf(-1)}
	for i, successor := range successors {
		reply, err := ab.minimize(successor.State, depth+1, alpha, beta)
		if err != nil {
			return best, err
		}
		if !best.ok || reply.utility > best.utility {
			best = outcome[S]{child: successor.State, ok: true, utility: reply.utility}
		}
		if !ab.options.Pruning {
			continue
		}
		if best.utility >= beta {
			ab.countCutoff(i, len(successors))
			break
		}
		alpha = max(alpha, best.utility)
	}
	return best, nil
}

// minimize mirrors maximize for the opponent.
func (ab *alphaBeta[S]) minimize(state S, depth int, alpha, beta float64) (outcome[S], error) {
	successors, leaf, value, err := ab.expand(state, depth, ab.minPlayer)
	if err != nil || leaf {
		return outcome[S]{utility: value}, err
	}

	best := outcome[S]{utility: math.Inf(1)}
	for i, successor := range successors {
		reply, err := ab.maximize(successor.State, depth+1, alpha, beta)
		if err != nil {
			return best, err
		}
		if !best.ok || reply.utility < best.utility {
			best = outcome[S]{child: successor.State, ok: true, utility: reply.utility}
		}
		if !ab.options.Pruning {
			continue
		}
		if best.utility <= alpha {
			ab.countCutoff(i, len(successors))
			break
		}
		beta = min(beta, best.utility)
	}
	return best, nil
}
