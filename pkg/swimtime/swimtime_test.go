package swimtime_test

import (
	"testing"
	"time"

	"github.com/okian/lineup/pkg/swimtime"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given swim time strings", t, func() {
		Convey("Then plain seconds parse", func() {
			d, err := swimtime.Parse("27.45")
			So(err, ShouldBeNil)
			So(d, ShouldEqual, 27450*time.Millisecond)
		})

		Convey("Then minute times parse", func() {
			d, err := swimtime.Parse("1:05.32")
			So(err, ShouldBeNil)
			So(d, ShouldEqual, 65320*time.Millisecond)
		})

		Convey("Then hour times parse", func() {
			d, err := swimtime.Parse("0:17:12.80")
			So(err, ShouldBeNil)
			So(d, ShouldEqual, 17*time.Minute+12800*time.Millisecond)
		})

		Convey("Then a decimal comma is accepted", func() {
			d, err := swimtime.Parse("31,9")
			So(err, ShouldBeNil)
			So(d, ShouldEqual, 31900*time.Millisecond)
		})

		Convey("Then surrounding whitespace is ignored", func() {
			d, err := swimtime.Parse("  58.00 ")
			So(err, ShouldBeNil)
			So(d, ShouldEqual, 58*time.Second)
		})

		Convey("Then centisecond fractions land on exact milliseconds", func() {
			cases := map[string]time.Duration{
				"29.03":   29030 * time.Millisecond,
				"55.07":   55070 * time.Millisecond,
				"1:05.32": 65320 * time.Millisecond,
				"2:07.61": 127610 * time.Millisecond,
			}
			for raw, want := range cases {
				d, err := swimtime.Parse(raw)
				So(err, ShouldBeNil)
				So(d, ShouldEqual, want)
				So(d%time.Millisecond, ShouldEqual, time.Duration(0))
			}
		})

		Convey("Then empty input yields zero without error", func() {
			d, err := swimtime.Parse("")
			So(err, ShouldBeNil)
			So(d, ShouldEqual, time.Duration(0))
		})

		Convey("Then malformed input is rejected", func() {
			for _, bad := range []string{"abc", "1:xx.00", "-5.0", "1:2:3:4"} {
				_, err := swimtime.Parse(bad)
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "invalid swim time")
			}
		})
	})
}

func TestFormat(t *testing.T) {
	Convey("Given durations", t, func() {
		Convey("Then sub-minute times format without minutes", func() {
			So(swimtime.Format(27450*time.Millisecond), ShouldEqual, "27.45")
		})

		Convey("Then whole seconds drop trailing zeros", func() {
			So(swimtime.Format(31*time.Second), ShouldEqual, "31")
		})

		Convey("Then minute times format with two-digit seconds", func() {
			So(swimtime.Format(65320*time.Millisecond), ShouldEqual, "1:05.32")
		})

		Convey("Then hour times include all components", func() {
			So(swimtime.Format(time.Hour+2*time.Minute+3*time.Second), ShouldEqual, "1:02:03.00")
		})

		Convey("Then zero formats as empty", func() {
			So(swimtime.Format(0), ShouldEqual, "")
		})

		Convey("Then parse and format round-trip", func() {
			for _, s := range []string{"27.45", "1:05.32", "16:04.10"} {
				d, err := swimtime.Parse(s)
				So(err, ShouldBeNil)
				So(swimtime.Format(d), ShouldEqual, s)
			}
		})
	})
}
