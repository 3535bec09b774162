package gamesearch

import "errors"

// Sentinel errors for search operations.
var (
	// ErrInvalidArgument is returned when a required collaborator (visitor,
	// goal test, priority, utility) is nil or an option is out of range.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState is returned when a state cannot be ranked or moved from:
	// a NaN priority, or a dead end in real-time search.
	ErrInvalidState = errors.New("invalid state")

	// ErrVisitorFailure wraps an error returned by a Visitor.
	ErrVisitorFailure = errors.New("visitor failed")

	// ErrNoGoalReachable reports that the frontier emptied without a goal.
	// Searches return it through Result.Err, not as a call error.
	ErrNoGoalReachable = errors.New("no goal reachable")

	// ErrBudgetExceeded reports that the node budget ran out first.
	// Searches return it through Result.Err, not as a call error.
	ErrBudgetExceeded = errors.New("node budget exceeded")

	// ErrDepthExceeded is returned when adversarial recursion passes the
	// configured maximum depth.
	ErrDepthExceeded = errors.New("maximum recursion depth exceeded")
)

// SearchError records which algorithm and step failed.
type SearchError struct {
	Algorithm string
	Operation string
	Err       error
}

func (e *SearchError) Error() string {
	return e.Algorithm + "." + e.Operation + ": " + e.Err.Error()
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// visitorError wraps err so that errors.Is matches both ErrVisitorFailure and err.
type visitorError struct {
	err error
}

func (e *visitorError) Error() string {
	return ErrVisitorFailure.Error() + ": " + e.err.Error()
}

func (e *visitorError) Unwrap() []error {
	return []error{ErrVisitorFailure, e.err}
}

func wrapVisitor(algorithm string, err error) error {
	return &SearchError{Algorithm: algorithm, Operation: "Visit", Err: &visitorError{err: err}}
}
