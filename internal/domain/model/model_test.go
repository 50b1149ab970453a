package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/lineup/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func validMeet() model.Meet {
	return model.Meet{
		Name: "spring cup",
		Events: []model.Event{
			{ID: "e1", Kind: model.Individual, Key: model.EventKey{Stroke: model.Free, Distance: 100}, Session: 0, Slot: 0, Need: 1},
			{ID: "e2", Kind: model.Individual, Key: model.EventKey{Stroke: model.Back, Distance: 50}, Session: 0, Slot: 1, Need: 1},
			{ID: "e3", Kind: model.Relay, Key: model.EventKey{Stroke: model.Free, Distance: 50}, Session: 1, Slot: 0, Need: 4},
		},
		RestWindowSlots: 1,
		MaxPerSwimmer:   3,
	}
}

func TestMeetValidate(t *testing.T) {
	Convey("Given a well-formed meet", t, func() {
		So(validMeet().Validate(), ShouldBeNil)
	})

	Convey("Given malformed meets", t, func() {
		Convey("Then an empty event list is rejected", func() {
			m := validMeet()
			m.Events = nil
			So(errors.Is(m.Validate(), model.ErrConfiguration), ShouldBeTrue)
		})

		Convey("Then a zero cap is rejected", func() {
			m := validMeet()
			m.MaxPerSwimmer = 0
			So(errors.Is(m.Validate(), model.ErrConfiguration), ShouldBeTrue)
		})

		Convey("Then a negative rest window is rejected", func() {
			m := validMeet()
			m.RestWindowSlots = -1
			So(errors.Is(m.Validate(), model.ErrConfiguration), ShouldBeTrue)
		})

		Convey("Then duplicate event ids are rejected", func() {
			m := validMeet()
			m.Events[1].ID = "e1"
			So(errors.Is(m.Validate(), model.ErrConfiguration), ShouldBeTrue)
		})

		Convey("Then a non-positive distance names the event", func() {
			m := validMeet()
			m.Events[1].Key.Distance = 0
			err := m.Validate()
			So(errors.Is(err, model.ErrConfiguration), ShouldBeTrue)

			var ce *model.ConfigError
			So(errors.As(err, &ce), ShouldBeTrue)
			So(ce.ID, ShouldEqual, "e2")
		})

		Convey("Then an individual event needing 4 swimmers is rejected", func() {
			m := validMeet()
			m.Events[0].Need = 4
			So(errors.Is(m.Validate(), model.ErrConfiguration), ShouldBeTrue)
		})

		Convey("Then a relay needing fewer than 2 swimmers is rejected", func() {
			m := validMeet()
			m.Events[2].Need = 1
			So(errors.Is(m.Validate(), model.ErrConfiguration), ShouldBeTrue)
		})

		Convey("Then two events sharing a session slot are rejected", func() {
			m := validMeet()
			m.Events[1].Slot = 0
			So(errors.Is(m.Validate(), model.ErrConfiguration), ShouldBeTrue)
		})
	})
}

func TestRosterValidate(t *testing.T) {
	free100 := model.EventKey{Stroke: model.Free, Distance: 100}

	Convey("Given rosters", t, func() {
		Convey("Then a well-formed roster passes", func() {
			r := model.Roster{Swimmers: []model.Swimmer{
				{ID: "s1", Name: "Ada", Bests: map[model.EventKey]time.Duration{free100: 62 * time.Second}},
			}}
			So(r.Validate(), ShouldBeNil)
		})

		Convey("Then an empty roster is rejected", func() {
			So(errors.Is(model.Roster{}.Validate(), model.ErrConfiguration), ShouldBeTrue)
		})

		Convey("Then duplicate swimmer ids are rejected", func() {
			r := model.Roster{Swimmers: []model.Swimmer{{ID: "s1"}, {ID: "s1"}}}
			So(errors.Is(r.Validate(), model.ErrConfiguration), ShouldBeTrue)
		})

		Convey("Then a non-positive best time names the swimmer", func() {
			r := model.Roster{Swimmers: []model.Swimmer{
				{ID: "s1", Bests: map[model.EventKey]time.Duration{free100: 0}},
			}}
			err := r.Validate()
			So(errors.Is(err, model.ErrConfiguration), ShouldBeTrue)

			var ce *model.ConfigError
			So(errors.As(err, &ce), ShouldBeTrue)
			So(ce.ID, ShouldEqual, "s1")
		})
	})
}

func TestEventKey(t *testing.T) {
	Convey("Given event keys", t, func() {
		key := model.EventKey{Stroke: model.Breast, Distance: 200}

		Convey("Then Slug and ParseEventKey round-trip", func() {
			parsed, err := model.ParseEventKey(key.Slug())
			So(err, ShouldBeNil)
			So(parsed, ShouldResemble, key)
		})

		Convey("Then display form includes distance and stroke", func() {
			So(key.String(), ShouldEqual, "200m breast")
		})

		Convey("Then malformed slugs are rejected", func() {
			for _, bad := range []string{"", "free", "free_", "_100", "butterfly_100", "free_x"} {
				_, err := model.ParseEventKey(bad)
				So(err, ShouldNotBeNil)
			}
		})
	})
}

func TestAssignmentClone(t *testing.T) {
	Convey("Given an assignment", t, func() {
		a := model.Assignment{
			"e1": {"s2", "s1"},
			"e2": {"s3"},
		}
		clone := a.Clone()

		Convey("Then members come back sorted", func() {
			So(clone["e1"], ShouldResemble, []string{"s1", "s2"})
			So(clone["e2"], ShouldResemble, []string{"s3"})
		})

		Convey("Then mutating the clone leaves the original alone", func() {
			clone["e1"][0] = "zz"
			clone["e2"] = append(clone["e2"], "s4")
			So(a["e1"], ShouldResemble, []string{"s2", "s1"})
			So(a["e2"], ShouldResemble, []string{"s3"})
		})
	})
}

func TestWillingAndFingerprint(t *testing.T) {
	free100 := model.EventKey{Stroke: model.Free, Distance: 100}

	Convey("Given a swimmer without an explicit willing set", t, func() {
		s := model.Swimmer{ID: "s1"}
		So(s.MayRace("anything"), ShouldBeTrue)
	})

	Convey("Given a swimmer with a willing set", t, func() {
		s := model.Swimmer{ID: "s1", Willing: map[string]bool{"e1": true}}
		So(s.MayRace("e1"), ShouldBeTrue)
		So(s.MayRace("e2"), ShouldBeFalse)
	})

	Convey("Given identical inputs", t, func() {
		meet := validMeet()
		roster := model.Roster{Swimmers: []model.Swimmer{
			{ID: "s1", Bests: map[model.EventKey]time.Duration{free100: time.Minute}},
		}}

		Convey("Then fingerprints are identical", func() {
			So(model.Fingerprint(meet, roster), ShouldEqual, model.Fingerprint(meet, roster))
		})

		Convey("Then any change alters the fingerprint", func() {
			changed := roster
			changed.Swimmers = []model.Swimmer{
				{ID: "s1", Bests: map[model.EventKey]time.Duration{free100: time.Minute + time.Second}},
			}
			So(model.Fingerprint(meet, changed), ShouldNotEqual, model.Fingerprint(meet, roster))
		})
	})
}
