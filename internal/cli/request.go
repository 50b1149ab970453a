package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/lineup/internal/domain/lineup"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/pkg/swimtime"
)

// requestDoc is the JSON shape of a solve request.
type requestDoc struct {
	Meet   meetDoc   `json:"meet"`
	Roster rosterDoc `json:"roster"`
}

type meetDoc struct {
	Name string `json:"name"`

	// RestWindowSlots left out falls back to the configured default;
	// an explicit 0 disables the rest rule for this meet.
	RestWindowSlots *int `json:"rest_window_slots"`

	// MaxEventsPerSwimmer left out or 0 falls back to the configured cap.
	MaxEventsPerSwimmer int `json:"max_events_per_swimmer"`

	Events []eventDoc `json:"events"`
}

type eventDoc struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"` // "individual" (default) or "relay"
	Key      string `json:"key"`  // slug form, e.g. "free_100"
	Session  int    `json:"session"`
	Slot     int    `json:"slot"`
	Need     int    `json:"need"` // relay size; individuals default to 1
	Category string `json:"category"`
}

type rosterDoc struct {
	Swimmers []swimmerDoc `json:"swimmers"`
}

type swimmerDoc struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Bests map[string]string `json:"bests"` // event key slug -> swim time

	// Willing restricts assignable event IDs; omitted means anything.
	Willing []string `json:"willing"`
}

// loadRequest reads and converts the request from path ("-" for stdin).
func loadRequest(path string) (model.Meet, model.Roster, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return model.Meet{}, model.Roster{}, err
		}
		defer f.Close()
		r = f
	}

	var doc requestDoc
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return model.Meet{}, model.Roster{}, fmt.Errorf("parse request: %w", err)
	}
	meet, err := doc.Meet.toModel()
	if err != nil {
		return model.Meet{}, model.Roster{}, err
	}
	roster, err := doc.Roster.toModel()
	if err != nil {
		return model.Meet{}, model.Roster{}, err
	}
	return meet, roster, nil
}

func (d meetDoc) toModel() (model.Meet, error) {
	meet := model.Meet{
		Name:            d.Name,
		MaxPerSwimmer:   d.MaxEventsPerSwimmer,
		RestWindowSlots: -1, // filled from config downstream
	}
	if d.RestWindowSlots != nil {
		meet.RestWindowSlots = *d.RestWindowSlots
	}
	for i, ev := range d.Events {
		key, err := model.ParseEventKey(ev.Key)
		if err != nil {
			return model.Meet{}, fmt.Errorf("event %d (%s): %w", i, ev.ID, err)
		}
		kind := model.Individual
		need := ev.Need
		switch ev.Kind {
		case "", "individual":
			if need == 0 {
				need = 1
			}
		case "relay":
			kind = model.Relay
		default:
			return model.Meet{}, fmt.Errorf("event %d (%s): unknown kind %q", i, ev.ID, ev.Kind)
		}
		meet.Events = append(meet.Events, model.Event{
			ID:       ev.ID,
			Kind:     kind,
			Key:      key,
			Session:  ev.Session,
			Slot:     ev.Slot,
			Need:     need,
			Category: ev.Category,
		})
	}
	return meet, nil
}

func (d rosterDoc) toModel() (model.Roster, error) {
	var roster model.Roster
	for i, sw := range d.Swimmers {
		bests := make(map[model.EventKey]time.Duration, len(sw.Bests))
		for slug, raw := range sw.Bests {
			key, err := model.ParseEventKey(slug)
			if err != nil {
				return model.Roster{}, fmt.Errorf("swimmer %d (%s): %w", i, sw.ID, err)
			}
			t, err := swimtime.Parse(raw)
			if err != nil {
				return model.Roster{}, fmt.Errorf("swimmer %d (%s): best %q: %w", i, sw.ID, slug, err)
			}
			bests[key] = t
		}
		var willing map[string]bool
		if sw.Willing != nil {
			willing = make(map[string]bool, len(sw.Willing))
			for _, id := range sw.Willing {
				willing[id] = true
			}
		}
		roster.Swimmers = append(roster.Swimmers, model.Swimmer{
			ID:      sw.ID,
			Name:    sw.Name,
			Bests:   bests,
			Willing: willing,
		})
	}
	return roster, nil
}

// lineupDoc is the JSON shape of one solved lineup.
type lineupDoc struct {
	Status  string     `json:"status"`
	Total   float64    `json:"total"`
	Entries []entryDoc `json:"entries,omitempty"`
	RunID   string     `json:"run_id"`
	Nodes   int64      `json:"nodes"`
	Elapsed string     `json:"elapsed"`
	Reason  string     `json:"reason,omitempty"`
}

type entryDoc struct {
	EventID  string   `json:"event"`
	Swimmers []string `json:"swimmers"`
	Points   float64  `json:"points"`
}

func toLineupDoc(l *lineup.Lineup) lineupDoc {
	doc := lineupDoc{
		Status:  string(l.Status),
		Total:   l.Total,
		RunID:   l.Diag.RunID,
		Nodes:   l.Diag.Nodes,
		Elapsed: l.Diag.Elapsed.String(),
		Reason:  l.Diag.Reason,
	}
	for _, e := range l.Entries {
		doc.Entries = append(doc.Entries, entryDoc{
			EventID:  e.EventID,
			Swimmers: e.Swimmers,
			Points:   e.Points,
		})
	}
	return doc
}
