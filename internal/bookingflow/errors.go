package bookingflow

import (
	"errors"
	"fmt"
)

var (
	// ErrDatesUnavailable is the conflict outcome: the selected range
	// overlaps an existing booking. The user has to pick new dates; there
	// is nothing to retry.
	ErrDatesUnavailable = errors.New("bookingflow: the selected dates are no longer available")

	// ErrSubmissionInFlight is returned when a submission is attempted
	// while a prior one for the same view is still outstanding.
	ErrSubmissionInFlight = errors.New("bookingflow: a submission is already in progress")

	// ErrViewClosed is returned when a network response arrives after the
	// view was navigated away from; the response is discarded.
	ErrViewClosed = errors.New("bookingflow: view is no longer active")
)

// ValidationError is a locally detected invalid input, rejected before any
// network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bookingflow: invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
