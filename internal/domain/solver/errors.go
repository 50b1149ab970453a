package solver

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrInfeasible means no feasible full assignment exists even though
	// every event could be filled in isolation.
	ErrInfeasible = errors.New("no feasible assignment")
	// ErrTimeout means the budget ran out before the first feasible
	// assignment was found. A timeout after a feasible solution is NOT
	// an error; it surfaces as status feasible-suboptimal.
	ErrTimeout = errors.New("solve budget exhausted")
)

// SearchInfeasibleError names the event at which the search exhausted all
// options at its deepest point, the most useful single lead for fixing
// the meet definition or roster.
type SearchInfeasibleError struct {
	EventID string
}

func (e *SearchInfeasibleError) Error() string {
	return fmt.Sprintf("%s: event %q cannot be filled together with the other events", ErrInfeasible, e.EventID)
}

func (e *SearchInfeasibleError) Unwrap() error { return ErrInfeasible }
