package scoring

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithDefaultCurve sets the curve used for events whose category has no
// dedicated curve.
func WithDefaultCurve(c Curve) Option {
	return func(s *Scorer) {
		if c != nil {
			s.defaultCurve = c
		}
	}
}

// WithCurve assigns a curve to an event category.
func WithCurve(category string, c Curve) Option {
	return func(s *Scorer) {
		if c != nil {
			s.curves[category] = c
		}
	}
}

// WithRelayPolicy selects how relay entries are scored.
func WithRelayPolicy(p RelayPolicy) Option {
	return func(s *Scorer) {
		if p == RelaySum || p == RelayCombined {
			s.relayPolicy = p
		}
	}
}

// WithRelayFactor scales combined relay scores. Ignored under RelaySum.
func WithRelayFactor(f float64) Option {
	return func(s *Scorer) {
		if f > 0 {
			s.relayFactor = f
		}
	}
}
