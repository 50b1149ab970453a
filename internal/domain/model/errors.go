package model

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks malformed meet or roster input. It is reported
// before any solving happens and is never coerced away.
var ErrConfiguration = errors.New("invalid configuration")

// ConfigError pinpoints the offending record so callers can surface an
// actionable message.
type ConfigError struct {
	Subject string // "meet", "event", "swimmer"
	ID      string // offending event or swimmer id, empty for meet-level
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Subject, e.Reason)
	}
	return fmt.Sprintf("%s: %s %q: %s", ErrConfiguration, e.Subject, e.ID, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

func configErr(subject, id, format string, args ...any) error {
	return &ConfigError{Subject: subject, ID: id, Reason: fmt.Sprintf(format, args...)}
}
