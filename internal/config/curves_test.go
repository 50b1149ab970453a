package config

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/scoring"
)

func TestScorerFromCurves(t *testing.T) {
	cfg := New()
	cfg.Curves = []CurveConfig{
		{Kind: "power", Base: "1:00.00", Scale: 1000, Exponent: 3},
		{Category: "masters", Kind: "table", Table: []CurvePoint{
			{Time: "50.00", Points: 1000},
			{Time: "1:40.00", Points: 500},
		}},
	}
	sc, err := cfg.Scorer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sw := model.Swimmer{ID: "a1", Bests: map[model.EventKey]time.Duration{
		{Stroke: model.Free, Distance: 100}: time.Minute,
	}}
	ev := model.Event{ID: "e1", Kind: model.Individual, Key: model.EventKey{Stroke: model.Free, Distance: 100}, Need: 1}

	// Default power curve: a best equal to base scores the full scale.
	p, ok := sc.Points(sw, ev)
	if !ok || p != 1000 {
		t.Errorf("expected 1000 points on the default curve, got %v ok=%v", p, ok)
	}

	// Category curve: 60s on the 50->1000 / 100->500 line is 900.
	ev.Category = "masters"
	p, ok = sc.Points(sw, ev)
	if !ok || p != 900 {
		t.Errorf("expected 900 points on the masters curve, got %v ok=%v", p, ok)
	}
}

func TestScorerDefaultsWithoutCurves(t *testing.T) {
	sc, err := New().Scorer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sw := model.Swimmer{ID: "a1", Bests: map[model.EventKey]time.Duration{
		{Stroke: model.Free, Distance: 100}: time.Minute,
	}}
	ev := model.Event{ID: "e1", Kind: model.Individual, Key: model.EventKey{Stroke: model.Free, Distance: 100}, Need: 1}
	if _, ok := sc.Points(sw, ev); !ok {
		t.Error("expected the fallback curve to score every event")
	}
}

func TestScorerRelayPolicy(t *testing.T) {
	cfg := New()
	cfg.RelayScoring = "combined"
	cfg.RelayFactor = 2
	sc, err := cfg.Scorer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.Policy() != scoring.RelayCombined {
		t.Errorf("expected combined policy, got %v", sc.Policy())
	}
}

func TestCurveConfigErrors(t *testing.T) {
	cases := map[string]CurveConfig{
		"unknown kind":     {Kind: "spline"},
		"power no base":    {Kind: "power"},
		"table too small":  {Kind: "table", Table: []CurvePoint{{Time: "50.00", Points: 1000}}},
		"bad base time":    {Kind: "power", Base: "fast"},
		"bad table time":   {Kind: "table", Table: []CurvePoint{{Time: "x", Points: 1000}, {Time: "1:00.00", Points: 500}}},
		"unsorted table":   {Kind: "table", Table: []CurvePoint{{Time: "1:00.00", Points: 500}, {Time: "50.00", Points: 1000}}},
		"increasing table": {Kind: "table", Table: []CurvePoint{{Time: "50.00", Points: 500}, {Time: "1:00.00", Points: 1000}}},
	}
	for name, cc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := New()
			cfg.Curves = []CurveConfig{cc}
			if err := cfg.Validate(); err == nil {
				if _, err := cfg.Scorer(); err == nil {
					t.Error("expected an error")
				} else if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			} else if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
