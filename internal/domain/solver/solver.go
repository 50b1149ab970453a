package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okian/lineup/internal/domain/constraint"
	"github.com/okian/lineup/internal/domain/lineup"
)

// TieBreak selects how equal-score assignments are ranked.
type TieBreak string

// Tie-break policies.
const (
	// TieBreakSpread prefers assignments where no single swimmer carries
	// more races than necessary, leaving rest for deeper roster use.
	TieBreakSpread TieBreak = "spread"
	// TieBreakCongestion prefers assignments with fewer races packed
	// into short scheduling windows, weighted toward the shortest.
	TieBreakCongestion TieBreak = "congestion"
	// TieBreakNone ranks by score only; the deterministic swimmer-ID
	// order still applies.
	TieBreakNone TieBreak = "none"
)

// scoreEps absorbs float drift when comparing accumulated scores.
const scoreEps = 1e-9

// Solver runs budgeted branch-and-bound searches. A Solver is stateless
// across runs and safe for concurrent use.
type Solver struct {
	timeBudget time.Duration // 0 = unlimited
	nodeBudget int64         // 0 = unlimited
	tieBreak   TieBreak
}

// New constructs a Solver with configuration options.
func New(opts ...Option) *Solver {
	s := &Solver{
		tieBreak: TieBreakSpread,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve searches for the maximum-score feasible assignment. The returned
// lineup always carries a status and diagnostics; the error is non-nil
// only when no feasible assignment was produced (structural or search
// infeasibility, or budget exhaustion before the first feasible solution).
func (s *Solver) Solve(ctx context.Context, m *constraint.Model) (*lineup.Lineup, error) {
	return s.solve(ctx, m, nil)
}

func (s *Solver) solve(ctx context.Context, m *constraint.Model, banned map[string]bool) (*lineup.Lineup, error) {
	start := time.Now()
	diag := lineup.Diagnostics{RunID: uuid.NewString()}

	if err := m.StructuralCheck(); err != nil {
		diag.Reason = err.Error()
		diag.Elapsed = time.Since(start)
		return &lineup.Lineup{Status: lineup.StatusInfeasible, Diag: diag}, err
	}

	sr := newSearcher(m, s, banned)
	sr.run(ctx)

	diag.Nodes = sr.nodes
	diag.Pruned = sr.pruned
	diag.Elapsed = time.Since(start)

	if !sr.found {
		if sr.stopped {
			diag.Reason = "budget exhausted before any feasible assignment was found"
			return &lineup.Lineup{Status: lineup.StatusInfeasible, Diag: diag},
				fmt.Errorf("%w: after %d nodes", ErrTimeout, sr.nodes)
		}
		ev := sr.failingEvent()
		diag.Reason = fmt.Sprintf("event %q cannot be filled together with the other events (rest window and cap interactions)", ev)
		return &lineup.Lineup{Status: lineup.StatusInfeasible, Diag: diag},
			&SearchInfeasibleError{EventID: ev}
	}

	status := lineup.StatusOptimal
	if sr.stopped {
		status = lineup.StatusFeasible
	}

	entries := make([]lineup.Entry, len(m.Slots))
	for i, slot := range m.Slots {
		entries[i] = lineup.Entry{
			EventID:  slot.Event.ID,
			Swimmers: sr.best.members[i],
			Points:   sr.best.points[i],
		}
	}
	result := &lineup.Lineup{
		Entries: entries,
		Total:   sr.best.score,
		Status:  status,
		Diag:    diag,
	}

	// A validation failure here is a solver bug, not a caller error.
	if err := result.Validate(m.Meet, m.Roster, m.Scorer()); err != nil {
		return nil, fmt.Errorf("solver produced an invalid assignment: %w", err)
	}
	return result, nil
}
