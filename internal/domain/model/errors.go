package model

import (
	"errors"
	"fmt"
)

// Sentinel kinds of configuration errors. A ConfigError unwraps to one of these.
var (
	ErrInvalidEmail         = errors.New("invalid email")
	ErrDuplicateParticipant = errors.New("duplicate participant")
	ErrTooFewParticipants   = errors.New("too few participants")
	ErrUnknownSanta         = errors.New("unknown santa in exclusions")
	ErrUnknownRecipient     = errors.New("unknown recipient in exclusions")
	ErrMalformedExclusions  = errors.New("malformed exclusion list")
	ErrNoFeasibleRecipient  = errors.New("no feasible recipient")
	ErrAttemptsExhausted    = errors.New("assignment attempts exhausted")
	ErrInvalidConfig        = errors.New("invalid config")
)

// ConfigError reports a configuration problem detected before any assignment
// is attempted. Subject names the offending participant or entry.
type ConfigError struct {
	Kind    error
	Subject string
	Detail  string
}

// NewConfigError returns a ConfigError of the given kind.
func NewConfigError(kind error, subject, format string, args ...any) *ConfigError {
	return &ConfigError{Kind: kind, Subject: subject, Detail: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Subject)
	}
	return e.Detail
}

func (e *ConfigError) Unwrap() error { return e.Kind }

// IsConfigError reports whether err carries a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
