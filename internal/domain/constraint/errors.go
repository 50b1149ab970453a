package constraint

import (
	"errors"
	"fmt"
)

// ErrStructuralInfeasible marks an event that can never be filled from the
// roster, detectable without any search.
var ErrStructuralInfeasible = errors.New("structurally infeasible")

// InfeasibleError names the constraint that rules the meet out pre-solve.
type InfeasibleError struct {
	EventID  string // empty for meet-level capacity problems
	Need     int
	Eligible int
	Reason   string
}

func (e *InfeasibleError) Error() string {
	if e.EventID == "" {
		return fmt.Sprintf("%s: %s", ErrStructuralInfeasible, e.Reason)
	}
	return fmt.Sprintf("%s: event %q: %s", ErrStructuralInfeasible, e.EventID, e.Reason)
}

func (e *InfeasibleError) Unwrap() error { return ErrStructuralInfeasible }
