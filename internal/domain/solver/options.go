package solver

import "time"

// Option applies a configuration option to the Solver.
type Option func(*Solver)

// WithTimeBudget bounds one search by wall clock. Zero or negative means
// unlimited; the caller's context deadline is honored either way.
func WithTimeBudget(d time.Duration) Option {
	return func(s *Solver) {
		if d > 0 {
			s.timeBudget = d
		}
	}
}

// WithNodeBudget bounds one search by explored node count. Zero or
// negative means unlimited.
func WithNodeBudget(n int64) Option {
	return func(s *Solver) {
		if n > 0 {
			s.nodeBudget = n
		}
	}
}

// WithTieBreak selects the policy for ranking equal-score assignments.
func WithTieBreak(tb TieBreak) Option {
	return func(s *Solver) {
		switch tb {
		case TieBreakSpread, TieBreakCongestion, TieBreakNone:
			s.tieBreak = tb
		}
	}
}
