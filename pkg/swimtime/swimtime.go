// Package swimtime parses and formats race times as they appear on start
// lists and ranking exports, e.g. "27.45", "1:05.32" or "0:17:12.80".
package swimtime

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTime reports an unparseable time string.
var ErrInvalidTime = errors.New("invalid swim time")

// Parse converts a time string to a duration. Accepted layouts are
// "ss", "ss.cc", "m:ss.cc" and "h:mm:ss.cc"; a decimal comma is accepted in
// place of the dot. Empty input yields a zero duration and no error.
func Parse(value string) (time.Duration, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return 0, nil
	}

	parts := strings.Split(raw, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	secs, err := strconv.ParseFloat(strings.ReplaceAll(parts[len(parts)-1], ",", "."), 64)
	if err != nil || secs < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	var minutes, hours int
	if len(parts) >= 2 {
		minutes, err = strconv.Atoi(parts[len(parts)-2])
		if err != nil || minutes < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
		}
	}
	if len(parts) == 3 {
		hours, err = strconv.Atoi(parts[0])
		if err != nil || hours < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
		}
	}

	// Round to whole milliseconds; times carry centisecond precision and
	// binary floats would otherwise land a nanosecond short.
	total := secs + float64(minutes)*60 + float64(hours)*3600
	return time.Duration(math.Round(total*1e3)) * time.Millisecond, nil
}

// Format renders a duration back to the conventional display form.
// Zero formats as the empty string.
func Format(d time.Duration) string {
	if d <= 0 {
		return ""
	}

	total := d.Seconds()
	hours := int(total) / 3600
	total -= float64(hours) * 3600
	minutes := int(total) / 60
	total -= float64(minutes) * 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%d:%02d:%05.2f", hours, minutes, total)
	case minutes > 0:
		return fmt.Sprintf("%d:%05.2f", minutes, total)
	default:
		s := fmt.Sprintf("%.2f", total)
		s = strings.TrimRight(s, "0")
		return strings.TrimRight(s, ".")
	}
}
