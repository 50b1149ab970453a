package solver

import (
	"context"
	"errors"

	"github.com/okian/lineup/internal/domain/constraint"
	"github.com/okian/lineup/internal/domain/lineup"
)

// EnumerateTopK returns up to k distinct maximum-score assignments, best
// first by the configured tie-break. Only assignments matching the optimal
// score are returned, so the result can be shorter than k. Each round
// reruns the search with the previously returned assignments excluded.
//
// Budgets apply per round. A budget that runs out mid-round truncates the
// enumeration at the assignments collected so far; the first round failing
// outright returns its error.
func (s *Solver) EnumerateTopK(ctx context.Context, m *constraint.Model, k int) ([]*lineup.Lineup, error) {
	if k < 1 {
		k = 1
	}

	best, err := s.solve(ctx, m, nil)
	if err != nil {
		return nil, err
	}
	results := []*lineup.Lineup{best}
	banned := map[string]bool{entriesKey(best.Entries): true}

	for len(results) < k {
		next, err := s.solve(ctx, m, banned)
		if err != nil {
			if errors.Is(err, ErrInfeasible) || errors.Is(err, ErrTimeout) {
				break // the distinct optima are exhausted, or the budget is
			}
			return nil, err
		}
		if next.Total < best.Total-scoreEps {
			break
		}
		results = append(results, next)
		banned[entriesKey(next.Entries)] = true
	}
	return results, nil
}

// entriesKey rebuilds the search's canonical assignment key from entries;
// entries are in slot order and their member lists are sorted.
func entriesKey(entries []lineup.Entry) string {
	members := make([][]string, len(entries))
	for i, e := range entries {
		members[i] = e.Swimmers
	}
	return lexKey(members)
}
