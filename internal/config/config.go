// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment sources on top.
// - External errors must be wrapped via this package's error kinds.
package config

import (
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr configures the Prometheus listen address, e.g. ":9090".
	// Empty disables the metrics endpoint.
	MetricsAddr string `koanf:"metrics_addr"`

	// MaxEventsPerSwimmer caps how many races one swimmer may be assigned.
	MaxEventsPerSwimmer int `koanf:"max_events_per_swimmer"`

	// RestWindowSlots is the default workload separation: same-session
	// races of one swimmer must sit more than this many slots apart.
	// Zero disables the rule. A meet definition may override it.
	RestWindowSlots int `koanf:"rest_window_slots"`

	// SolveTimeBudget bounds one search by wall clock. Zero is unlimited.
	SolveTimeBudget time.Duration `koanf:"solve_time_budget"`

	// NodeBudget bounds one search by explored nodes. Zero is unlimited.
	NodeBudget int64 `koanf:"node_budget"`

	// TieBreak ranks equal-score lineups: spread, congestion or none.
	TieBreak string `koanf:"tie_break"`

	// TopK asks for up to K distinct optimal lineups per solve.
	TopK int `koanf:"top_k"`

	// RelayScoring selects the relay policy: sum or combined.
	RelayScoring string `koanf:"relay_scoring"`

	// RelayFactor scales combined relay scores.
	RelayFactor float64 `koanf:"relay_factor"`

	// Curves configures the points curves by event category. When empty
	// a standard power curve applies to everything.
	Curves []CurveConfig `koanf:"curves"`

	// QueueSize bounds the in-memory solve-job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of solve workers; 0 sizes from CPUs.
	WorkerCount int `koanf:"worker_count"`

	// MemoSize bounds the fingerprint result cache.
	MemoSize int `koanf:"memo_size"`

	// RunHistory bounds how many finished runs the ranking store keeps.
	RunHistory int `koanf:"run_history"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		MetricsAddr:         "",
		MaxEventsPerSwimmer: 3,
		RestWindowSlots:     1,
		SolveTimeBudget:     30 * time.Second,
		NodeBudget:          0,
		TieBreak:            "spread",
		TopK:                1,
		RelayScoring:        "sum",
		RelayFactor:         1.0,
		QueueSize:           1024,
		WorkerCount:         0,
		MemoSize:            1024,
		RunHistory:          256,
	}
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.MaxEventsPerSwimmer < 1 {
		return fmt.Errorf("%w: max_events_per_swimmer must be >= 1, got %d", ErrInvalidConfig, c.MaxEventsPerSwimmer)
	}
	if c.RestWindowSlots < 0 {
		return fmt.Errorf("%w: rest_window_slots must be >= 0, got %d", ErrInvalidConfig, c.RestWindowSlots)
	}
	if c.SolveTimeBudget < 0 {
		return fmt.Errorf("%w: solve_time_budget must not be negative", ErrInvalidConfig)
	}
	if c.NodeBudget < 0 {
		return fmt.Errorf("%w: node_budget must not be negative", ErrInvalidConfig)
	}
	switch c.TieBreak {
	case "spread", "congestion", "none":
	default:
		return fmt.Errorf("%w: tie_break %q", ErrInvalidConfig, c.TieBreak)
	}
	if c.TopK < 1 {
		return fmt.Errorf("%w: top_k must be >= 1, got %d", ErrInvalidConfig, c.TopK)
	}
	switch c.RelayScoring {
	case "sum", "combined":
	default:
		return fmt.Errorf("%w: relay_scoring %q", ErrInvalidConfig, c.RelayScoring)
	}
	if c.RelayFactor <= 0 {
		return fmt.Errorf("%w: relay_factor must be > 0, got %v", ErrInvalidConfig, c.RelayFactor)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("%w: queue_size must be >= 1, got %d", ErrInvalidConfig, c.QueueSize)
	}
	if c.WorkerCount < 0 {
		return fmt.Errorf("%w: worker_count must be >= 0, got %d", ErrInvalidConfig, c.WorkerCount)
	}
	for i := range c.Curves {
		if err := c.Curves[i].validate(); err != nil {
			return fmt.Errorf("curve %d: %w", i, err)
		}
	}
	return nil
}
