package model

import (
	"fmt"
	"sort"
)

// Validate checks the meet definition and returns a ConfigError wrapping
// ErrConfiguration on the first malformed record.
func (m Meet) Validate() error {
	if len(m.Events) == 0 {
		return configErr("meet", "", "no events")
	}
	if m.RestWindowSlots < 0 {
		return configErr("meet", "", "rest_window_slots must be >= 0, got %d", m.RestWindowSlots)
	}
	if m.MaxPerSwimmer < 1 {
		return configErr("meet", "", "max_events_per_swimmer must be >= 1, got %d", m.MaxPerSwimmer)
	}

	ids := make(map[string]bool, len(m.Events))
	positions := make(map[[2]int]string, len(m.Events))
	for _, ev := range m.Events {
		if ev.ID == "" {
			return configErr("event", "", "missing id")
		}
		if ids[ev.ID] {
			return configErr("event", ev.ID, "duplicate id")
		}
		ids[ev.ID] = true

		if !ev.Key.Stroke.valid() {
			return configErr("event", ev.ID, "unknown stroke %q", ev.Key.Stroke)
		}
		if ev.Key.Distance <= 0 {
			return configErr("event", ev.ID, "distance must be positive, got %d", ev.Key.Distance)
		}
		if ev.Session < 0 || ev.Slot < 0 {
			return configErr("event", ev.ID, "session and slot must be >= 0")
		}

		switch ev.Kind {
		case Individual:
			if ev.Need != 1 {
				return configErr("event", ev.ID, "individual events need exactly 1 swimmer, got %d", ev.Need)
			}
		case Relay:
			if ev.Need < 2 {
				return configErr("event", ev.ID, "relay events need at least 2 swimmers, got %d", ev.Need)
			}
		default:
			return configErr("event", ev.ID, "unknown kind %q", ev.Kind)
		}

		pos := [2]int{ev.Session, ev.Slot}
		if other, taken := positions[pos]; taken {
			return configErr("event", ev.ID, "session %d slot %d already taken by %q", ev.Session, ev.Slot, other)
		}
		positions[pos] = ev.ID
	}
	return nil
}

// Validate checks the roster and returns a ConfigError wrapping
// ErrConfiguration on the first malformed record.
func (r Roster) Validate() error {
	if len(r.Swimmers) == 0 {
		return configErr("meet", "", "empty roster")
	}

	ids := make(map[string]bool, len(r.Swimmers))
	for _, s := range r.Swimmers {
		if s.ID == "" {
			return configErr("swimmer", "", "missing id")
		}
		if ids[s.ID] {
			return configErr("swimmer", s.ID, "duplicate id")
		}
		ids[s.ID] = true

		for key, best := range s.Bests {
			if !key.Stroke.valid() || key.Distance <= 0 {
				return configErr("swimmer", s.ID, "malformed best time key %v", key)
			}
			if best <= 0 {
				return configErr("swimmer", s.ID, "best time for %s must be positive", key)
			}
		}
	}
	return nil
}

// Fingerprint returns a stable textual digest input for a (meet, roster)
// pair; identical inputs produce identical fingerprints.
func Fingerprint(meet Meet, roster Roster) string {
	var b []byte
	b = fmt.Appendf(b, "meet:%s;rest:%d;cap:%d;", meet.Name, meet.RestWindowSlots, meet.MaxPerSwimmer)
	for _, ev := range meet.Events {
		b = fmt.Appendf(b, "ev:%s,%s,%s,%d,%d,%d,%s;", ev.ID, ev.Kind, ev.Key.Slug(), ev.Session, ev.Slot, ev.Need, ev.Category)
	}
	for _, s := range roster.Swimmers {
		b = fmt.Appendf(b, "sw:%s;", s.ID)
		keys := make([]EventKey, 0, len(s.Bests))
		for k := range s.Bests {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].Stroke != keys[j].Stroke {
				return keys[i].Stroke < keys[j].Stroke
			}
			return keys[i].Distance < keys[j].Distance
		})
		for _, k := range keys {
			b = fmt.Appendf(b, "pb:%s=%d;", k.Slug(), s.Bests[k].Nanoseconds())
		}
		if s.Willing != nil {
			evs := make([]string, 0, len(s.Willing))
			for ev, ok := range s.Willing {
				if ok {
					evs = append(evs, ev)
				}
			}
			sort.Strings(evs)
			for _, ev := range evs {
				b = fmt.Appendf(b, "will:%s;", ev)
			}
		}
	}
	return string(b)
}
