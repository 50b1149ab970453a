package config

import (
	"fmt"
	"time"

	"github.com/okian/lineup/internal/domain/scoring"
	"github.com/okian/lineup/pkg/swimtime"
)

// Curve kinds accepted in configuration.
const (
	curvePower = "power"
	curveTable = "table"
)

// CurveConfig describes one points curve. An empty category makes the
// curve the default for events without a category of their own.
type CurveConfig struct {
	Category string `koanf:"category"`
	Kind     string `koanf:"kind"`

	// Power curve parameters: points = scale * (base/t)^exponent.
	Base     string  `koanf:"base"` // reference time, e.g. "48.50" or "1:42.00"
	Scale    float64 `koanf:"scale"`
	Exponent float64 `koanf:"exponent"`

	// Table curve knots, fastest first.
	Table []CurvePoint `koanf:"table"`
}

// CurvePoint is one knot of a table curve.
type CurvePoint struct {
	Time   string  `koanf:"time"`
	Points float64 `koanf:"points"`
}

func (c *CurveConfig) validate() error {
	switch c.Kind {
	case curvePower:
		if c.Base == "" {
			return fmt.Errorf("%w: power curve needs a base time", ErrInvalidConfig)
		}
	case curveTable:
		if len(c.Table) < 2 {
			return fmt.Errorf("%w: table curve needs at least 2 points", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: curve kind %q", ErrInvalidConfig, c.Kind)
	}
	return nil
}

// build constructs the scoring curve this configuration describes.
func (c *CurveConfig) build() (scoring.Curve, error) {
	switch c.Kind {
	case curvePower:
		base, err := swimtime.Parse(c.Base)
		if err != nil {
			return nil, fmt.Errorf("%w: curve base: %w", ErrInvalidConfig, err)
		}
		return scoring.PowerCurve{
			Base:     base,
			Scale:    c.Scale,
			Exponent: c.Exponent,
		}, nil
	case curveTable:
		knots := make([]scoring.TablePoint, len(c.Table))
		for i, p := range c.Table {
			t, err := swimtime.Parse(p.Time)
			if err != nil {
				return nil, fmt.Errorf("%w: table point %d: %w", ErrInvalidConfig, i, err)
			}
			knots[i] = scoring.TablePoint{Time: t, Points: p.Points}
		}
		curve, err := scoring.NewTableCurve(knots)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		return curve, nil
	default:
		return nil, fmt.Errorf("%w: curve kind %q", ErrInvalidConfig, c.Kind)
	}
}

// Scorer builds the configured scorer. Without explicit curves every
// category falls back to the standard power curve over a one-minute base.
func (c *Config) Scorer() (*scoring.Scorer, error) {
	opts := []scoring.Option{
		scoring.WithRelayFactor(c.RelayFactor),
	}
	if c.RelayScoring == "combined" {
		opts = append(opts, scoring.WithRelayPolicy(scoring.RelayCombined))
	} else {
		opts = append(opts, scoring.WithRelayPolicy(scoring.RelaySum))
	}

	haveDefault := false
	for i := range c.Curves {
		curve, err := c.Curves[i].build()
		if err != nil {
			return nil, fmt.Errorf("curve %d: %w", i, err)
		}
		if c.Curves[i].Category == "" {
			opts = append(opts, scoring.WithDefaultCurve(curve))
			haveDefault = true
		} else {
			opts = append(opts, scoring.WithCurve(c.Curves[i].Category, curve))
		}
	}
	if !haveDefault {
		opts = append(opts, scoring.WithDefaultCurve(scoring.PowerCurve{
			Base:  time.Minute,
			Scale: scoring.DefaultScale,
		}))
	}
	return scoring.New(opts...), nil
}
