package sqlprime

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoDatabaseURL is returned for an activity without a connection string.
var ErrNoDatabaseURL = errors.New("no database url configured")

// PrimeError reports the activity, and the primer file if one was being
// executed, that a failure happened in.
type PrimeError struct {
	Activity string
	// File is empty when the failure happened while setting up.
	File string
	Err  error
}

func (e *PrimeError) Error() string {
	var msg string
	if e.File == "" {
		msg = fmt.Sprintf("An error occurred while setting up resources to prime a database, as specified by activity '%s'.", e.Activity)
	} else {
		msg = fmt.Sprintf("An error occurred while executing the statements in '%s' to prime a database, as specified by activity '%s'.", e.File, e.Activity)
	}
	return msg + " " + e.Err.Error()
}

func (e *PrimeError) Unwrap() error {
	return e.Err
}

// Suppressed reports whether err may be turned into a warning. Errors
// raised before a connection existed are never suppressed.
func Suppressed(err error, s *SuppressionSettings, connected bool) bool {
	if err == nil || !connected || s == nil {
		return false
	}
	if s.MessageFilters == nil {
		return true
	}
	msg := err.Error()
	for _, filter := range s.MessageFilters {
		if strings.Contains(msg, filter) {
			return true
		}
	}
	return false
}
