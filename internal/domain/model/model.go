// Package model contains the immutable value model shared by the scoring,
// constraint and solver layers. Callers build a Meet and Roster from
// whatever storage they use, validate them once, and pass them read-only
// into a single optimization run.
package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Stroke identifies a swim discipline.
type Stroke string

// Recognized strokes.
const (
	Free   Stroke = "free"
	Back   Stroke = "back"
	Breast Stroke = "breast"
	Fly    Stroke = "fly"
	Medley Stroke = "medley"
)

func (s Stroke) valid() bool {
	switch s {
	case Free, Back, Breast, Fly, Medley:
		return true
	}
	return false
}

// EventKey identifies a race type independent of where it sits in the
// schedule: stroke plus distance in meters.
type EventKey struct {
	Stroke   Stroke
	Distance int
}

// String renders the key for display, e.g. "100m free".
func (k EventKey) String() string {
	return fmt.Sprintf("%dm %s", k.Distance, k.Stroke)
}

// Slug renders the key in configuration form, e.g. "free_100".
func (k EventKey) Slug() string {
	return fmt.Sprintf("%s_%d", k.Stroke, k.Distance)
}

// ParseEventKey parses the configuration form produced by Slug.
func ParseEventKey(s string) (EventKey, error) {
	idx := strings.LastIndex(s, "_")
	if idx <= 0 || idx == len(s)-1 {
		return EventKey{}, fmt.Errorf("%w: event key %q", ErrConfiguration, s)
	}
	stroke := Stroke(strings.ToLower(s[:idx]))
	dist, err := strconv.Atoi(s[idx+1:])
	if err != nil || dist <= 0 || !stroke.valid() {
		return EventKey{}, fmt.Errorf("%w: event key %q", ErrConfiguration, s)
	}
	return EventKey{Stroke: stroke, Distance: dist}, nil
}

// EventKind distinguishes individual races from relays.
type EventKind string

// Event kinds.
const (
	Individual EventKind = "individual"
	Relay      EventKind = "relay"
)

// Event is one race occurrence in the meet schedule.
type Event struct {
	ID      string
	Kind    EventKind
	Key     EventKey // for relays the per-leg key, e.g. 4x100 free -> 100m free
	Session int      // schedule segment; breaks between sessions reset rest
	Slot    int      // ordinal position within the session
	Need    int      // required swimmer count: 1 individual, relay size otherwise
	// Category selects a points curve; empty means the default curve.
	Category string
}

// Meet is an ordered collection of events sharing one rest-window policy
// and one per-swimmer event cap.
type Meet struct {
	Name   string
	Events []Event

	// RestWindowSlots is the workload separation rule: two races of the
	// same swimmer in one session must sit more than this many slots
	// apart. 1 forbids back-to-back races; 0 disables the rule.
	RestWindowSlots int

	// MaxPerSwimmer caps how many races one swimmer may be assigned.
	MaxPerSwimmer int
}

// Swimmer is one roster member with recorded personal bests.
type Swimmer struct {
	ID    string
	Name  string
	Bests map[EventKey]time.Duration

	// Willing restricts which event IDs the swimmer may be assigned to.
	// A nil map means willing to swim anything they have a best for.
	Willing map[string]bool
}

// MayRace reports whether the swimmer is willing to be assigned the event.
func (s Swimmer) MayRace(eventID string) bool {
	if s.Willing == nil {
		return true
	}
	return s.Willing[eventID]
}

// Roster is the set of swimmers available for one meet.
type Roster struct {
	Swimmers []Swimmer
}

// SwimmerByID returns the roster entry for id.
func (r Roster) SwimmerByID(id string) (Swimmer, bool) {
	for _, s := range r.Swimmers {
		if s.ID == id {
			return s, true
		}
	}
	return Swimmer{}, false
}

// Assignment maps event IDs to the swimmer IDs filling them. Member order
// carries no meaning; relays are unordered member sets.
type Assignment map[string][]string

// Clone returns a deep copy with member slices sorted for stable output.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for ev, members := range a {
		cp := append([]string(nil), members...)
		sort.Strings(cp)
		out[ev] = cp
	}
	return out
}
