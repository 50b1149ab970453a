// Package repository keeps the ranked history of solve runs, so operators
// can compare lineups across roster tweaks and pull the best run back up.
package repository

import (
	"context"

	"github.com/okian/lineup/internal/domain/lineup"
)

// Entry is one run in the ranking.
type Entry struct {
	Rank   int
	RunID  string
	Total  float64
	Status lineup.Status
}

// Store provides read/write access to the run history.
type Store interface {
	// Record adds a finished run to the ranking. Recording the same run
	// ID again replaces the earlier result. Lineups without a usable
	// assignment are rejected with ErrNotFeasible.
	Record(ctx context.Context, l *lineup.Lineup) error

	// Rank returns the current rank and total for a run.
	// Returns ErrNotFound if the run is unknown.
	Rank(ctx context.Context, runID string) (Entry, error)

	// TopN returns the top-N runs ordered by total desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Lineup returns the stored lineup of a run.
	// Returns ErrNotFound if the run is unknown.
	Lineup(ctx context.Context, runID string) (*lineup.Lineup, error)

	// Count returns the number of runs tracked.
	Count(ctx context.Context) int
}
