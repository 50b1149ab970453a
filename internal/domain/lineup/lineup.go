// Package lineup defines the solver's output artifact: the full per-event
// assignment with scores, a status tag and solve diagnostics. A Lineup is
// never mutated after creation; a new run produces a new Lineup.
package lineup

import (
	"time"

	"github.com/okian/lineup/internal/domain/model"
)

// Status tags the quality of a returned lineup.
type Status string

// Lineup statuses.
const (
	// StatusOptimal means the search completed and proved optimality.
	StatusOptimal Status = "optimal"
	// StatusFeasible means the budget ran out first; the lineup is the
	// best feasible assignment found so far.
	StatusFeasible Status = "feasible-suboptimal"
	// StatusInfeasible means no valid assignment exists.
	StatusInfeasible Status = "infeasible"
)

// Entry is one filled event.
type Entry struct {
	EventID  string
	Swimmers []string // sorted swimmer IDs; relays are unordered member sets
	Points   float64  // entry contribution to the total
}

// Diagnostics carries solver telemetry for logging and remediation.
type Diagnostics struct {
	RunID   string
	Nodes   int64
	Pruned  int64
	Elapsed time.Duration
	// Reason names the violated constraint on infeasibility, empty otherwise.
	Reason string
}

// Lineup is the immutable result of one optimization run.
type Lineup struct {
	Entries []Entry // meet order
	Total   float64
	Status  Status
	Diag    Diagnostics
}

// Assignment converts the entries to the plain assignment mapping. The
// result is detached from the lineup's own member slices.
func (l *Lineup) Assignment() model.Assignment {
	a := make(model.Assignment, len(l.Entries))
	for _, e := range l.Entries {
		a[e.EventID] = e.Swimmers
	}
	return a.Clone()
}

// Feasible reports whether the lineup carries a usable assignment.
func (l *Lineup) Feasible() bool {
	return l.Status == StatusOptimal || l.Status == StatusFeasible
}
