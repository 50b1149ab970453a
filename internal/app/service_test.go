package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/okian/lineup/internal/config"
	"github.com/okian/lineup/internal/domain/lineup"
	"github.com/okian/lineup/internal/domain/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var free100 = model.EventKey{Stroke: model.Free, Distance: 100}

func testConfig() *config.Config {
	cfg := config.New()
	cfg.WorkerCount = 2
	cfg.QueueSize = 8
	cfg.SolveTimeBudget = 5 * time.Second
	return cfg
}

func testMeet() model.Meet {
	return model.Meet{
		Name: "club night",
		Events: []model.Event{
			{ID: "e1", Kind: model.Individual, Key: free100, Session: 1, Slot: 1, Need: 1},
			{ID: "e2", Kind: model.Individual, Key: model.EventKey{Stroke: model.Back, Distance: 100}, Session: 1, Slot: 3, Need: 1},
		},
		RestWindowSlots: 1,
		MaxPerSwimmer:   2,
	}
}

func testRoster() model.Roster {
	return model.Roster{Swimmers: []model.Swimmer{
		{ID: "a1", Name: "a1", Bests: map[model.EventKey]time.Duration{
			free100: 55 * time.Second,
			{Stroke: model.Back, Distance: 100}: 58 * time.Second,
		}},
		{ID: "b1", Name: "b1", Bests: map[model.EventKey]time.Duration{
			free100: 60 * time.Second,
			{Stroke: model.Back, Distance: 100}: 62 * time.Second,
		}},
	}}
}

func startedService(t *testing.T) *Service {
	t.Helper()
	s := New(WithConfig(testConfig()))
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Stop)
	return s
}

func TestServiceLifecycle(t *testing.T) {
	s := New(WithConfig(testConfig()))

	_, err := s.Optimize(context.Background(), testMeet(), testRoster())
	assert.ErrorIs(t, err, ErrNotStarted)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background())) // idempotent

	stats := s.Stats(context.Background())
	assert.Equal(t, true, stats["started"])
	assert.Equal(t, 2, stats["workers"])

	s.Stop()
	s.Stop() // idempotent
	_, err = s.Optimize(context.Background(), testMeet(), testRoster())
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestServiceOptimize(t *testing.T) {
	s := startedService(t)
	ctx := context.Background()

	result, err := s.Optimize(ctx, testMeet(), testRoster())
	require.NoError(t, err)
	assert.Equal(t, lineup.StatusOptimal, result.Status)
	assert.Len(t, result.Entries, 2)
	assert.Positive(t, result.Total)

	entry, err := s.Rank(ctx, result.Diag.RunID)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Rank)

	stored, err := s.RunLineup(ctx, result.Diag.RunID)
	require.NoError(t, err)
	assert.Equal(t, result.Total, stored.Total)
}

func TestServiceMemoization(t *testing.T) {
	s := startedService(t)
	ctx := context.Background()

	first, err := s.Optimize(ctx, testMeet(), testRoster())
	require.NoError(t, err)
	second, err := s.Optimize(ctx, testMeet(), testRoster())
	require.NoError(t, err)

	// Same fingerprint, same cached result, no second run.
	assert.Equal(t, first.Diag.RunID, second.Diag.RunID)

	// A roster change misses the cache.
	changed := testRoster()
	changed.Swimmers[0].Bests[free100] = 54 * time.Second
	third, err := s.Optimize(ctx, testMeet(), changed)
	require.NoError(t, err)
	assert.NotEqual(t, first.Diag.RunID, third.Diag.RunID)
}

func TestServiceAppliesConfigDefaults(t *testing.T) {
	s := startedService(t)
	ctx := context.Background()

	meet := testMeet()
	meet.MaxPerSwimmer = 0  // filled from config (3)
	meet.RestWindowSlots = -1 // filled from config (1)

	result, err := s.Optimize(ctx, meet, testRoster())
	require.NoError(t, err)
	assert.True(t, result.Feasible())
}

func TestServiceOptimizeTopK(t *testing.T) {
	s := startedService(t)
	ctx := context.Background()

	// Two identical swimmers on one event produce two tied optima.
	meet := model.Meet{
		Name: "tied",
		Events: []model.Event{
			{ID: "e1", Kind: model.Individual, Key: free100, Session: 1, Slot: 1, Need: 1},
		},
		MaxPerSwimmer: 1,
	}
	roster := model.Roster{Swimmers: []model.Swimmer{
		{ID: "a1", Bests: map[model.EventKey]time.Duration{free100: 60 * time.Second}},
		{ID: "b1", Bests: map[model.EventKey]time.Duration{free100: 60 * time.Second}},
	}}

	results, err := s.OptimizeTopK(ctx, meet, roster, 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, results[0].Total, results[1].Total)
}

func TestServiceSubmitAsync(t *testing.T) {
	s := startedService(t)
	ctx := context.Background()

	ok := s.Submit(ctx, "night-1", testMeet(), testRoster())
	require.True(t, ok)

	// The worker records the run into the history.
	require.Eventually(t, func() bool {
		runs, err := s.TopRuns(ctx, 1)
		return err == nil && len(runs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	runs, err := s.TopRuns(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, lineup.StatusOptimal, runs[0].Status)
}

func TestServiceInfeasibleSolve(t *testing.T) {
	s := startedService(t)
	ctx := context.Background()

	meet := testMeet()
	roster := model.Roster{Swimmers: []model.Swimmer{
		{ID: "a1", Bests: map[model.EventKey]time.Duration{free100: 60 * time.Second}},
	}}

	// a1 has no backstroke best, so e2 cannot be filled.
	result, err := s.Optimize(ctx, meet, roster)
	require.Error(t, err)
	if result != nil {
		assert.Equal(t, lineup.StatusInfeasible, result.Status)
	}

	// Nothing infeasible lands in the history.
	runs, err := s.TopRuns(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
