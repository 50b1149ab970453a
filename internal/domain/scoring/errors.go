package scoring

import (
	"errors"
	"fmt"
)

// ErrCurve marks a malformed points-curve definition.
var ErrCurve = errors.New("invalid points curve")

func errCurve(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCurve, fmt.Sprintf(format, args...))
}
