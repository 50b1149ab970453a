// Package scoring converts personal-best times into point values via
// configurable points curves. Scores are the optimization objective: a
// swimmer with no recorded best for an event is ineligible for it, which
// this package signals with a false second return, never with a zero score.
package scoring

import (
	"math"
	"time"

	"github.com/okian/lineup/internal/domain/model"
)

// Default curve parameters. The power curve with these values is the
// standard swimming points formula: points = scale * (base/t)^exponent.
const (
	DefaultScale    = 1000.0
	DefaultExponent = 3.0
)

// Curve maps a race time to points. Implementations must be monotone
// non-increasing in time and deterministic.
type Curve interface {
	Points(t time.Duration) float64
}

// RelayPolicy selects how a relay entry is scored.
type RelayPolicy string

// Relay scoring policies.
const (
	// RelaySum scores a relay as the sum of its members' individual
	// points on the leg key.
	RelaySum RelayPolicy = "sum"
	// RelayCombined sums the members' best times and scores the combined
	// time through the curve once, scaled by the relay factor.
	RelayCombined RelayPolicy = "combined"
)

// Scorer applies per-category curves and the relay policy.
type Scorer struct {
	curves       map[string]Curve // keyed by event category, "" = default
	defaultCurve Curve
	relayPolicy  RelayPolicy
	relayFactor  float64
}

// New constructs a Scorer with configuration options. A Scorer without at
// least a default curve marks every swimmer ineligible, so callers are
// expected to configure WithDefaultCurve or per-category WithCurve.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		curves:      make(map[string]Curve),
		relayPolicy: RelaySum,
		relayFactor: 1.0,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the configured relay scoring policy.
func (s *Scorer) Policy() RelayPolicy { return s.relayPolicy }

func (s *Scorer) curveFor(category string) Curve {
	if c, ok := s.curves[category]; ok {
		return c
	}
	return s.defaultCurve
}

// Points returns the swimmer's score for the event, or false when the
// swimmer has no recorded best for the event's key or no curve covers the
// event's category. Deterministic: same (time, curve) always scores alike.
func (s *Scorer) Points(sw model.Swimmer, ev model.Event) (float64, bool) {
	best, ok := sw.Bests[ev.Key]
	if !ok || best <= 0 {
		return 0, false
	}
	curve := s.curveFor(ev.Category)
	if curve == nil {
		return 0, false
	}
	p := curve.Points(best)
	if p < 0 || math.IsNaN(p) {
		return 0, false
	}
	return p, true
}

// CombinedPoints scores a summed relay time through the event's curve and
// applies the relay factor. Used only under the RelayCombined policy.
func (s *Scorer) CombinedPoints(ev model.Event, total time.Duration) (float64, bool) {
	if total <= 0 {
		return 0, false
	}
	curve := s.curveFor(ev.Category)
	if curve == nil {
		return 0, false
	}
	p := curve.Points(total) * s.relayFactor
	if p < 0 || math.IsNaN(p) {
		return 0, false
	}
	return p, true
}

// PowerCurve is the parametric points curve points = scale*(base/t)^exp.
// Faster than base scores above scale, slower below; strictly decreasing
// in t for positive parameters.
type PowerCurve struct {
	Base     time.Duration
	Scale    float64
	Exponent float64
}

// Points implements Curve. Results are floored to whole points the way
// published point tables are.
func (c PowerCurve) Points(t time.Duration) float64 {
	if t <= 0 || c.Base <= 0 {
		return 0
	}
	scale := c.Scale
	if scale == 0 {
		scale = DefaultScale
	}
	exp := c.Exponent
	if exp == 0 {
		exp = DefaultExponent
	}
	return math.Floor(scale * math.Pow(c.Base.Seconds()/t.Seconds(), exp))
}

// TablePoint is one knot of a piecewise-linear points table.
type TablePoint struct {
	Time   time.Duration
	Points float64
}

// TableCurve interpolates linearly between knots. Outside the table the
// nearest endpoint applies.
type TableCurve struct {
	knots []TablePoint
}

// NewTableCurve validates that knots are strictly increasing in time and
// non-increasing in points, the monotonicity the objective relies on.
func NewTableCurve(knots []TablePoint) (*TableCurve, error) {
	if len(knots) < 2 {
		return nil, errCurve("need at least 2 table points, got %d", len(knots))
	}
	for i, k := range knots {
		if k.Time <= 0 {
			return nil, errCurve("table point %d: time must be positive", i)
		}
		if k.Points < 0 {
			return nil, errCurve("table point %d: points must be >= 0", i)
		}
		if i == 0 {
			continue
		}
		if k.Time <= knots[i-1].Time {
			return nil, errCurve("table point %d: times must strictly increase", i)
		}
		if k.Points > knots[i-1].Points {
			return nil, errCurve("table point %d: points must not increase with time", i)
		}
	}
	return &TableCurve{knots: append([]TablePoint(nil), knots...)}, nil
}

// Points implements Curve.
func (c *TableCurve) Points(t time.Duration) float64 {
	if t <= 0 {
		return c.knots[0].Points
	}
	if t <= c.knots[0].Time {
		return c.knots[0].Points
	}
	last := c.knots[len(c.knots)-1]
	if t >= last.Time {
		return last.Points
	}
	for i := 1; i < len(c.knots); i++ {
		if t > c.knots[i].Time {
			continue
		}
		lo, hi := c.knots[i-1], c.knots[i]
		frac := float64(t-lo.Time) / float64(hi.Time-lo.Time)
		return lo.Points + frac*(hi.Points-lo.Points)
	}
	return last.Points
}
