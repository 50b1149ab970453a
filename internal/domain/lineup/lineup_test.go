package lineup

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/scoring"
)

var (
	free100 = model.EventKey{Stroke: model.Free, Distance: 100}
	back100 = model.EventKey{Stroke: model.Back, Distance: 100}
)

func fixtureScorer() *scoring.Scorer {
	curve, err := scoring.NewTableCurve([]scoring.TablePoint{
		{Time: 50 * time.Second, Points: 1000},
		{Time: 100 * time.Second, Points: 500},
	})
	if err != nil {
		panic(err)
	}
	return scoring.New(scoring.WithDefaultCurve(curve))
}

func fixtureMeet() model.Meet {
	return model.Meet{
		Events: []model.Event{
			{ID: "e1", Kind: model.Individual, Key: free100, Session: 1, Slot: 1, Need: 1},
			{ID: "e2", Kind: model.Individual, Key: back100, Session: 1, Slot: 3, Need: 1},
		},
		RestWindowSlots: 1,
		MaxPerSwimmer:   2,
	}
}

func fixtureRoster() model.Roster {
	return model.Roster{Swimmers: []model.Swimmer{
		{ID: "a1", Name: "a1", Bests: map[model.EventKey]time.Duration{
			free100: 60 * time.Second, back100: 60 * time.Second,
		}},
		{ID: "b1", Name: "b1", Bests: map[model.EventKey]time.Duration{
			free100: 70 * time.Second, back100: 70 * time.Second,
		}},
	}}
}

func fixtureLineup() *Lineup {
	return &Lineup{
		Entries: []Entry{
			{EventID: "e1", Swimmers: []string{"a1"}, Points: 900},
			{EventID: "e2", Swimmers: []string{"b1"}, Points: 800},
		},
		Total:  1700,
		Status: StatusOptimal,
	}
}

func TestAssignment(t *testing.T) {
	Convey("Given an optimal lineup", t, func() {
		l := fixtureLineup()

		Convey("Assignment maps every event to its members", func() {
			a := l.Assignment()
			So(a, ShouldHaveLength, 2)
			So(a["e1"], ShouldResemble, []string{"a1"})
			So(a["e2"], ShouldResemble, []string{"b1"})
		})

		Convey("Assignment copies are independent of the lineup", func() {
			a := l.Assignment()
			a["e1"][0] = "mutated"
			So(l.Entries[0].Swimmers[0], ShouldEqual, "a1")
		})
	})
}

func TestFeasible(t *testing.T) {
	Convey("Feasibility follows the status tag", t, func() {
		So((&Lineup{Status: StatusOptimal}).Feasible(), ShouldBeTrue)
		So((&Lineup{Status: StatusFeasible}).Feasible(), ShouldBeTrue)
		So((&Lineup{Status: StatusInfeasible}).Feasible(), ShouldBeFalse)
	})
}

func TestValidate(t *testing.T) {
	meet := fixtureMeet()
	roster := fixtureRoster()
	scorer := fixtureScorer()

	Convey("Given a consistent lineup", t, func() {
		Convey("validation passes", func() {
			So(fixtureLineup().Validate(meet, roster, scorer), ShouldBeNil)
		})

		Convey("an infeasible lineup without entries passes", func() {
			l := &Lineup{Status: StatusInfeasible}
			So(l.Validate(meet, roster, scorer), ShouldBeNil)
		})
	})

	Convey("Given a broken lineup", t, func() {
		Convey("an infeasible lineup with entries fails", func() {
			l := fixtureLineup()
			l.Status = StatusInfeasible
			So(l.Validate(meet, roster, scorer), ShouldWrap, ErrInvalid)
		})

		Convey("an unknown event fails", func() {
			l := fixtureLineup()
			l.Entries[0].EventID = "ghost"
			So(l.Validate(meet, roster, scorer), ShouldWrap, ErrInvalid)
		})

		Convey("an unknown swimmer fails", func() {
			l := fixtureLineup()
			l.Entries[0].Swimmers = []string{"zz"}
			So(l.Validate(meet, roster, scorer), ShouldWrap, ErrInvalid)
		})

		Convey("a wrong member count fails", func() {
			l := fixtureLineup()
			l.Entries[0].Swimmers = []string{"a1", "b1"}
			So(l.Validate(meet, roster, scorer), ShouldWrap, ErrInvalid)
		})

		Convey("an unfilled event fails", func() {
			l := fixtureLineup()
			l.Entries = l.Entries[:1]
			l.Total = 900
			So(l.Validate(meet, roster, scorer), ShouldWrap, ErrInvalid)
		})

		Convey("a swimmer over the cap fails", func() {
			capped := meet
			capped.MaxPerSwimmer = 1
			l := &Lineup{
				Entries: []Entry{
					{EventID: "e1", Swimmers: []string{"a1"}, Points: 900},
					{EventID: "e2", Swimmers: []string{"a1"}, Points: 900},
				},
				Total:  1800,
				Status: StatusOptimal,
			}
			So(l.Validate(capped, roster, scorer), ShouldWrap, ErrInvalid)
		})

		Convey("a rest-window violation fails", func() {
			tight := fixtureMeet()
			tight.Events[1].Slot = 2
			l := &Lineup{
				Entries: []Entry{
					{EventID: "e1", Swimmers: []string{"a1"}, Points: 900},
					{EventID: "e2", Swimmers: []string{"a1"}, Points: 900},
				},
				Total:  1800,
				Status: StatusOptimal,
			}
			So(l.Validate(tight, roster, scorer), ShouldWrap, ErrInvalid)
		})

		Convey("the same race type twice fails", func() {
			doubled := fixtureMeet()
			doubled.Events[1].Key = free100
			l := &Lineup{
				Entries: []Entry{
					{EventID: "e1", Swimmers: []string{"a1"}, Points: 900},
					{EventID: "e2", Swimmers: []string{"a1"}, Points: 900},
				},
				Total:  1800,
				Status: StatusOptimal,
			}
			So(l.Validate(doubled, roster, scorer), ShouldWrap, ErrInvalid)
		})

		Convey("a tampered entry score fails", func() {
			l := fixtureLineup()
			l.Entries[0].Points = 950
			l.Total = 1750
			So(l.Validate(meet, roster, scorer), ShouldWrap, ErrInvalid)
		})

		Convey("a tampered total fails", func() {
			l := fixtureLineup()
			l.Total = 2000
			So(l.Validate(meet, roster, scorer), ShouldWrap, ErrInvalid)
		})
	})

	Convey("Given a combined-scored relay", t, func() {
		relayMeet := model.Meet{
			Events: []model.Event{
				{ID: "r1", Kind: model.Relay, Key: free100, Session: 1, Slot: 1, Need: 2},
			},
			MaxPerSwimmer: 1,
		}
		combined := scoring.New(
			scoring.WithDefaultCurve(must(scoring.NewTableCurve([]scoring.TablePoint{
				{Time: 50 * time.Second, Points: 1000},
				{Time: 200 * time.Second, Points: 100},
			}))),
			scoring.WithRelayPolicy(scoring.RelayCombined),
		)

		Convey("the recomputed combined score must match", func() {
			// 60s + 70s = 130s -> 1000 + (80/150)*(100-1000) = 520.
			good := &Lineup{
				Entries: []Entry{{EventID: "r1", Swimmers: []string{"a1", "b1"}, Points: 520}},
				Total:   520,
				Status:  StatusOptimal,
			}
			So(good.Validate(relayMeet, roster, combined), ShouldBeNil)

			bad := &Lineup{
				Entries: []Entry{{EventID: "r1", Swimmers: []string{"a1", "b1"}, Points: 1700}},
				Total:   1700,
				Status:  StatusOptimal,
			}
			So(bad.Validate(relayMeet, roster, combined), ShouldWrap, ErrInvalid)
		})
	})
}

func must(c *scoring.TableCurve, err error) *scoring.TableCurve {
	if err != nil {
		panic(err)
	}
	return c
}
