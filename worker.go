package gamesearch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Problem is one independent best-first search for SearchAll.
type Problem[S comparable] struct {
	Initial  S
	Goal     GoalTest[S]
	Priority PriorityFunc[S]
	// Visitor must not be shared with another problem unless it is safe for
	// concurrent use.
	Visitor Visitor[S]
}

// SearchAll runs each problem with BestFirst on a pool of Options.NumberOfWorkers
// goroutines. Each search stays single-threaded; only whole problems run in
// parallel.
//
// Results are indexed like problems. The first failing problem cancels the
// others and its error is returned, prefixed with the problem index.
func SearchAll[S comparable](
	ctx context.Context,
	problems []Problem[S],
	options ...Option,
) ([]Result[S], error) {
	searchOptions := applyOptions(options)
	results := make([]Result[S], len(problems))

	group, groupCtx := errgroup.WithContext(ctx)
	if searchOptions.NumberOfWorkers > 0 {
		group.SetLimit(searchOptions.NumberOfWorkers)
	}
	for i, problem := range problems {
		i, problem := i, problem
		group.Go(func() error {
			result, err := runBestFirst(groupCtx, "search_all", problem.Initial, problem.Goal, problem.Priority, problem.Visitor, searchOptions)
			results[i] = result
			if err != nil {
				return fmt.Errorf("problem %d: %w", i, err)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
