// Package service wires the optimizer's components together: scoring,
// the constraint model, the solver, the result cache, the run history
// and the async solve pipeline.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	jobqueue "github.com/okian/lineup/internal/adapters/mq/queue"
	workerpool "github.com/okian/lineup/internal/adapters/mq/worker"
	"github.com/okian/lineup/internal/adapters/repository"
	"github.com/okian/lineup/internal/config"
	"github.com/okian/lineup/internal/domain/constraint"
	"github.com/okian/lineup/internal/domain/lineup"
	"github.com/okian/lineup/internal/domain/memo"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/scoring"
	"github.com/okian/lineup/internal/domain/solver"
	"github.com/okian/lineup/pkg/logger"
	"github.com/okian/lineup/pkg/metrics"
)

// Service implements the optimizer's use cases on top of the adapters.
type Service struct {
	mu sync.RWMutex

	cfg *config.Config

	// Core components
	scorer  *scoring.Scorer
	solver  *solver.Solver
	cache   memo.Cache
	history repository.Store
	jobs    jobqueue.Queue
	pool    *workerpool.Pool

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cfg:    config.New(),
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting lineup service")

	scorer, err := s.cfg.Scorer()
	if err != nil {
		return fmt.Errorf("build scorer: %w", err)
	}
	s.scorer = scorer

	s.solver = solver.New(
		solver.WithTimeBudget(s.cfg.SolveTimeBudget),
		solver.WithNodeBudget(s.cfg.NodeBudget),
		solver.WithTieBreak(solver.TieBreak(s.cfg.TieBreak)),
	)

	s.cache = memo.NewInMemoryCache(
		memo.WithMaxSize(s.cfg.MemoSize),
	)
	s.history = repository.NewTreapStore(
		repository.WithCapacity(s.cfg.RunHistory),
	)
	s.jobs = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.cfg.QueueSize),
		jobqueue.WithBufferSize(s.cfg.QueueSize),
	)

	s.pool = workerpool.NewPool(s.cfg.WorkerCount, s.jobs, s, nil)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "lineup service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queue_size", s.cfg.QueueSize),
		logger.Int("memo_size", s.cfg.MemoSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping lineup service")

	if s.jobs != nil {
		_ = s.jobs.Close()
	}
	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(ctx, "lineup service stopped")
}

// Optimize runs one synchronous optimization. Results for unchanged
// inputs are answered from the fingerprint cache. Feasible lineups are
// recorded into the run history.
func (s *Service) Optimize(ctx context.Context, meet model.Meet, roster model.Roster) (*lineup.Lineup, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.applyDefaults(&meet)

	key := model.Fingerprint(meet, roster)
	if cached, ok := s.cache.Get(ctx, key); ok {
		metrics.RecordMemoHit()
		s.logger.Debug(ctx, "memo hit",
			logger.String("run", cached.Diag.RunID),
			logger.String("meet", meet.Name),
		)
		return cached, nil
	}
	metrics.RecordMemoMiss()

	result, err := s.solveOnce(ctx, meet, roster)
	if err != nil {
		return result, err
	}

	s.cache.Put(ctx, key, result)
	metrics.UpdateMemoSize(s.cache.Size())
	return result, nil
}

// OptimizeTopK returns up to k distinct best lineups, best first. Top-K
// enumeration bypasses the cache; only the best lineup is recorded.
func (s *Service) OptimizeTopK(ctx context.Context, meet model.Meet, roster model.Roster, k int) ([]*lineup.Lineup, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.applyDefaults(&meet)

	m, err := constraint.New(meet, roster, s.scorer)
	if err != nil {
		metrics.RecordSolveError(errorKind(err))
		return nil, err
	}
	results, err := s.solver.EnumerateTopK(ctx, m, k)
	if err != nil {
		metrics.RecordSolveError(errorKind(err))
		return nil, err
	}
	for _, l := range results {
		s.observe(l)
	}
	s.record(ctx, results[0])
	return results, nil
}

// Submit enqueues an optimization for asynchronous processing. The job
// result lands in the run history under the job's run ID.
func (s *Service) Submit(ctx context.Context, id string, meet model.Meet, roster model.Roster) bool {
	if err := s.ready(); err != nil {
		return false
	}
	s.applyDefaults(&meet)

	ok := s.jobs.Enqueue(ctx, jobqueue.Job{ID: id, Meet: meet, Roster: roster})
	if !ok {
		s.logger.Warn(ctx, "job rejected", logger.String("job", id))
	}
	return ok
}

// TopRuns returns the best recorded runs, best first.
func (s *Service) TopRuns(ctx context.Context, n int) ([]repository.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.history.TopN(ctx, n)
}

// Rank returns the ranking entry of one recorded run.
func (s *Service) Rank(ctx context.Context, runID string) (repository.Entry, error) {
	if err := s.ready(); err != nil {
		return repository.Entry{}, err
	}
	return s.history.Rank(ctx, runID)
}

// RunLineup returns the stored lineup of one recorded run.
func (s *Service) RunLineup(ctx context.Context, runID string) (*lineup.Lineup, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.history.Lineup(ctx, runID)
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started": s.started,
	}
	if s.started {
		stats["workers"] = s.pool.Size()
		stats["queue_length"] = s.jobs.Len(ctx)
		stats["memo_entries"] = s.cache.Size()
		stats["stored_runs"] = s.history.Count(ctx)
		metrics.UpdateStoredRuns(s.history.Count(ctx))
	}
	return stats
}

// solveOnce builds the constraint model, runs the search and records
// telemetry and history.
func (s *Service) solveOnce(ctx context.Context, meet model.Meet, roster model.Roster) (*lineup.Lineup, error) {
	m, err := constraint.New(meet, roster, s.scorer)
	if err != nil {
		metrics.RecordSolveError(errorKind(err))
		s.logger.Warn(ctx, "rejected inputs", logger.String("meet", meet.Name), logger.Error(err))
		return nil, err
	}

	result, err := s.solver.Solve(ctx, m)
	if result != nil {
		s.observe(result)
	}
	if err != nil {
		metrics.RecordSolveError(errorKind(err))
		s.logger.Warn(ctx, "solve failed",
			logger.String("meet", meet.Name),
			logger.Error(err),
		)
		return result, err
	}

	s.logger.Info(ctx, "solve finished",
		logger.String("meet", meet.Name),
		logger.String("run", result.Diag.RunID),
		logger.String("status", string(result.Status)),
		logger.Float64("total", result.Total),
		logger.Int64("nodes", result.Diag.Nodes),
	)
	s.record(ctx, result)
	return result, nil
}

func (s *Service) observe(l *lineup.Lineup) {
	metrics.RecordSolve(string(l.Status), l.Diag.Elapsed.Seconds(), l.Diag.Nodes, l.Diag.Pruned)
	if l.Feasible() {
		metrics.RecordSolveScore(l.Total)
	}
}

func (s *Service) record(ctx context.Context, l *lineup.Lineup) {
	if !l.Feasible() {
		return
	}
	if err := s.history.Record(ctx, l); err != nil {
		s.logger.Warn(ctx, "history record failed", logger.String("run", l.Diag.RunID), logger.Error(err))
		return
	}
	metrics.UpdateStoredRuns(s.history.Count(ctx))
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// applyDefaults fills meet-level knobs the request left unset.
func (s *Service) applyDefaults(meet *model.Meet) {
	if meet.MaxPerSwimmer <= 0 {
		meet.MaxPerSwimmer = s.cfg.MaxEventsPerSwimmer
	}
	if meet.RestWindowSlots < 0 {
		meet.RestWindowSlots = s.cfg.RestWindowSlots
	}
}

// errorKind classifies solve failures for the error counter.
func errorKind(err error) string {
	switch {
	case errors.Is(err, solver.ErrTimeout):
		return "timeout"
	case errors.Is(err, constraint.ErrStructuralInfeasible):
		return "structural"
	case errors.Is(err, solver.ErrInfeasible):
		return "infeasible"
	case errors.Is(err, model.ErrConfiguration):
		return "config"
	default:
		return "internal"
	}
}
