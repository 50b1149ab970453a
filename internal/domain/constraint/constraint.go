// Package constraint translates a meet definition and roster into the
// feasibility data the solver consumes: per-slot eligibility with
// precomputed scores, pairwise slot conflicts, and the per-swimmer cap.
// It performs no search.
package constraint

import (
	"sort"
	"time"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/scoring"
)

// Candidate is one eligible swimmer for a slot with the precomputed
// individual score on that slot's key and curve.
type Candidate struct {
	Swimmer int // index into the roster's swimmer list
	ID      string
	Points  float64
	Best    time.Duration
}

// Slot is one schedulable race occurrence in meet order.
type Slot struct {
	Index    int
	Event    model.Event
	Eligible []Candidate // sorted by swimmer ID for reproducible search
	// Upper is the slot's optimistic score ignoring all cross-slot
	// constraints; the solver uses it for bounding.
	Upper float64
}

// Model is the feasibility predicate for one (meet, roster, scorer) triple.
// It is immutable after New and safe for concurrent readers.
type Model struct {
	Meet   model.Meet
	Roster model.Roster
	Slots  []Slot

	conflict [][]bool
	scorer   *scoring.Scorer
}

// New validates the inputs and builds the constraint model. Malformed input
// is rejected with an error wrapping model.ErrConfiguration; structural
// infeasibility is NOT an error here, it is reported by StructuralCheck so
// the caller can decide how to surface it.
func New(meet model.Meet, roster model.Roster, scorer *scoring.Scorer) (*Model, error) {
	if err := meet.Validate(); err != nil {
		return nil, err
	}
	if err := roster.Validate(); err != nil {
		return nil, err
	}

	events := append([]model.Event(nil), meet.Events...)
	sort.Slice(events, func(i, j int) bool {
		if events[i].Session != events[j].Session {
			return events[i].Session < events[j].Session
		}
		return events[i].Slot < events[j].Slot
	})

	m := &Model{
		Meet:   meet,
		Roster: roster,
		Slots:  make([]Slot, len(events)),
		scorer: scorer,
	}

	for i, ev := range events {
		slot := Slot{Index: i, Event: ev}
		for sw, swimmer := range roster.Swimmers {
			if !swimmer.MayRace(ev.ID) {
				continue
			}
			points, ok := scorer.Points(swimmer, ev)
			if !ok {
				continue
			}
			slot.Eligible = append(slot.Eligible, Candidate{
				Swimmer: sw,
				ID:      swimmer.ID,
				Points:  points,
				Best:    swimmer.Bests[ev.Key],
			})
		}
		sort.Slice(slot.Eligible, func(a, b int) bool {
			return slot.Eligible[a].ID < slot.Eligible[b].ID
		})
		slot.Upper = m.upperBound(slot)
		m.Slots[i] = slot
	}

	m.conflict = buildConflicts(m.Slots, meet.RestWindowSlots)
	return m, nil
}

// buildConflicts marks slot pairs that can never share a swimmer: races in
// the same session closer than the rest window, and repeats of the same
// race type anywhere in the meet.
func buildConflicts(slots []Slot, restWindow int) [][]bool {
	n := len(slots)
	conflict := make([][]bool, n)
	for i := range conflict {
		conflict[i] = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := slots[i].Event, slots[j].Event
			tooClose := restWindow > 0 &&
				a.Session == b.Session &&
				abs(a.Slot-b.Slot) <= restWindow
			duplicate := a.Kind == b.Kind && a.Key == b.Key
			if tooClose || duplicate {
				conflict[i][j] = true
				conflict[j][i] = true
			}
		}
	}
	return conflict
}

// Conflicts reports whether slots i and j may not be swum by one swimmer.
func (m *Model) Conflicts(i, j int) bool {
	return i != j && m.conflict[i][j]
}

// Cap returns the per-swimmer maximum number of assigned races.
func (m *Model) Cap() int { return m.Meet.MaxPerSwimmer }

// Scorer returns the scorer the model was built with.
func (m *Model) Scorer() *scoring.Scorer { return m.scorer }

// Score evaluates a complete member choice for a slot. Members index into
// the slot's Eligible list. Individual slots take the single member's
// points; relays follow the configured relay policy.
func (m *Model) Score(slotIdx int, members []int) float64 {
	slot := m.Slots[slotIdx]
	if slot.Event.Kind == model.Relay && m.scorer.Policy() == scoring.RelayCombined {
		var total time.Duration
		for _, c := range members {
			total += slot.Eligible[c].Best
		}
		p, ok := m.scorer.CombinedPoints(slot.Event, total)
		if !ok {
			return 0
		}
		return p
	}
	var sum float64
	for _, c := range members {
		sum += slot.Eligible[c].Points
	}
	return sum
}

// upperBound computes the slot's optimistic score in isolation.
func (m *Model) upperBound(slot Slot) float64 {
	need := slot.Event.Need
	if len(slot.Eligible) < need {
		return 0
	}
	if slot.Event.Kind == model.Relay && m.scorer.Policy() == scoring.RelayCombined {
		times := make([]time.Duration, len(slot.Eligible))
		for i, c := range slot.Eligible {
			times[i] = c.Best
		}
		sort.Slice(times, func(a, b int) bool { return times[a] < times[b] })
		var total time.Duration
		for _, t := range times[:need] {
			total += t
		}
		p, ok := m.scorer.CombinedPoints(slot.Event, total)
		if !ok {
			return 0
		}
		return p
	}
	points := make([]float64, len(slot.Eligible))
	for i, c := range slot.Eligible {
		points[i] = c.Points
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(points)))
	var sum float64
	for _, p := range points[:need] {
		sum += p
	}
	return sum
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
