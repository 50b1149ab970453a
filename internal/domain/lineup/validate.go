package lineup

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/scoring"
)

// ErrInvalid marks a lineup that violates the assignment invariants.
var ErrInvalid = errors.New("invalid lineup")

// scoreTolerance absorbs float accumulation drift when recomputing totals.
const scoreTolerance = 1e-6

// Validate independently re-verifies every invariant against the original
// inputs: exact per-event counts with distinct members, the per-swimmer
// cap, rest windows, the no-duplicate-race rule, scoring definedness and
// score consistency. The solver runs it defensively before returning and
// the test suite uses it as an oracle.
func (l *Lineup) Validate(meet model.Meet, roster model.Roster, scorer *scoring.Scorer) error {
	if !l.Feasible() {
		if len(l.Entries) != 0 {
			return fmt.Errorf("%w: infeasible lineup carries %d entries", ErrInvalid, len(l.Entries))
		}
		return nil
	}

	events := make(map[string]model.Event, len(meet.Events))
	for _, ev := range meet.Events {
		events[ev.ID] = ev
	}

	filled := make(map[string]bool, len(l.Entries))
	perSwimmer := make(map[string][]model.Event)
	var total float64

	for _, entry := range l.Entries {
		ev, ok := events[entry.EventID]
		if !ok {
			return fmt.Errorf("%w: entry for unknown event %q", ErrInvalid, entry.EventID)
		}
		if filled[ev.ID] {
			return fmt.Errorf("%w: event %q filled twice", ErrInvalid, ev.ID)
		}
		filled[ev.ID] = true

		if len(entry.Swimmers) != ev.Need {
			return fmt.Errorf("%w: event %q needs %d swimmers, got %d", ErrInvalid, ev.ID, ev.Need, len(entry.Swimmers))
		}

		seen := make(map[string]bool, len(entry.Swimmers))
		var combined float64
		for _, id := range entry.Swimmers {
			if seen[id] {
				return fmt.Errorf("%w: swimmer %q listed twice for event %q", ErrInvalid, id, ev.ID)
			}
			seen[id] = true

			sw, ok := roster.SwimmerByID(id)
			if !ok {
				return fmt.Errorf("%w: unknown swimmer %q on event %q", ErrInvalid, id, ev.ID)
			}
			if !sw.MayRace(ev.ID) {
				return fmt.Errorf("%w: swimmer %q is not willing to race event %q", ErrInvalid, id, ev.ID)
			}
			points, ok := scorer.Points(sw, ev)
			if !ok {
				return fmt.Errorf("%w: swimmer %q has no best for event %q", ErrInvalid, id, ev.ID)
			}
			combined += points
			perSwimmer[id] = append(perSwimmer[id], ev)
		}

		want := combined
		if ev.Kind == model.Relay && scorer.Policy() == scoring.RelayCombined {
			var sum time.Duration
			for _, id := range entry.Swimmers {
				sw, _ := roster.SwimmerByID(id)
				sum += sw.Bests[ev.Key]
			}
			p, ok := scorer.CombinedPoints(ev, sum)
			if !ok {
				return fmt.Errorf("%w: relay %q has no combined score", ErrInvalid, ev.ID)
			}
			want = p
		}
		if math.Abs(entry.Points-want) > scoreTolerance {
			return fmt.Errorf("%w: event %q points %.4f do not match recomputed %.4f", ErrInvalid, ev.ID, entry.Points, want)
		}
		total += entry.Points
	}

	for id := range events {
		if !filled[id] {
			return fmt.Errorf("%w: event %q left unfilled", ErrInvalid, id)
		}
	}

	for id, raced := range perSwimmer {
		if len(raced) > meet.MaxPerSwimmer {
			return fmt.Errorf("%w: swimmer %q assigned %d races over cap %d", ErrInvalid, id, len(raced), meet.MaxPerSwimmer)
		}
		for i := 0; i < len(raced); i++ {
			for j := i + 1; j < len(raced); j++ {
				a, b := raced[i], raced[j]
				if meet.RestWindowSlots > 0 && a.Session == b.Session && absInt(a.Slot-b.Slot) <= meet.RestWindowSlots {
					return fmt.Errorf("%w: swimmer %q races %q and %q within the rest window", ErrInvalid, id, a.ID, b.ID)
				}
				if a.Kind == b.Kind && a.Key == b.Key {
					return fmt.Errorf("%w: swimmer %q races %s twice", ErrInvalid, id, a.Key)
				}
			}
		}
	}

	if math.Abs(total-l.Total) > scoreTolerance {
		return fmt.Errorf("%w: total %.4f does not match recomputed %.4f", ErrInvalid, l.Total, total)
	}
	return nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
