// Package gamesearch provides generic informed search over caller-defined states.
//
// It exposes two families of algorithms:
//
//   - Best-first frontier search: GreedyBestFirst, AStar (both built on BestFirst),
//     the step-by-step Stepper and the learning RealTimeAStar.
//   - Adversarial search: Minimax with alpha-beta pruning and RealTimeMinimax,
//     which bounds recursion with a cutoff test instead of a terminal test.
//
// The package knows nothing about the domain. Successor generation is delegated to
// a Visitor, and scoring to heuristic, goal, terminal and utility functions. Each
// search call owns its frontier, explored set and memo table and runs on the
// calling goroutine; SearchAll runs independent problems concurrently.
package gamesearch
