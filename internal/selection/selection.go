// Package selection models the two-step check-in/check-out date pick for a
// venue detail view as an explicit state machine, independent of any UI.
package selection

import (
	"errors"
	"time"

	"github.com/example/holidaze/internal/availability"
)

// State is the selection progress. The availability verdict is orthogonal
// to it and is cleared whenever either date changes.
type State int

const (
	Empty State = iota
	FromSelected
	RangeSelected
)

func (s State) String() string {
	switch s {
	case FromSelected:
		return "from-selected"
	case RangeSelected:
		return "range-selected"
	default:
		return "empty"
	}
}

var (
	// ErrNoCheckIn is returned when a check-out date is picked first.
	ErrNoCheckIn = errors.New("selection: pick a check-in date first")
	// ErrBeforeCheckIn is returned when the check-out date precedes the
	// check-in date. The selection is left unchanged.
	ErrBeforeCheckIn = errors.New("selection: check-out date cannot be before check-in date")
	// ErrIncomplete is returned when an availability check is requested
	// before both dates are picked.
	ErrIncomplete = errors.New("selection: both dates are required to check availability")
)

// Selection holds the in-progress date range and the availability verdict
// for it. The zero value is an empty selection. Methods are not safe for
// concurrent use; each view owns exactly one Selection.
type Selection struct {
	from, to         time.Time
	hasFrom, hasTo   bool
	checked, verdict bool
}

// SelectFrom records the check-in day. A previously picked check-out is
// kept only if it is still on or after the new check-in; otherwise it is
// discarded. Any stored verdict is invalidated.
func (s *Selection) SelectFrom(d time.Time) {
	day := availability.Day(d)
	s.from = day
	s.hasFrom = true
	if s.hasTo && s.to.Before(day) {
		s.to = time.Time{}
		s.hasTo = false
	}
	s.invalidate()
}

// SelectTo records the check-out day. The pick is rejected, with no state
// change, when no check-in is set or the day precedes it.
func (s *Selection) SelectTo(d time.Time) error {
	if !s.hasFrom {
		return ErrNoCheckIn
	}
	day := availability.Day(d)
	if day.Before(s.from) {
		return ErrBeforeCheckIn
	}
	s.to = day
	s.hasTo = true
	s.invalidate()
	return nil
}

func (s *Selection) State() State {
	switch {
	case s.hasFrom && s.hasTo:
		return RangeSelected
	case s.hasFrom:
		return FromSelected
	default:
		return Empty
	}
}

// Range returns the selected range when the selection is complete.
func (s *Selection) Range() (availability.Range, bool) {
	if s.State() != RangeSelected {
		return availability.Range{}, false
	}
	return availability.Range{From: s.from, To: s.to}, true
}

// From returns the check-in day, if picked.
func (s *Selection) From() (time.Time, bool) { return s.from, s.hasFrom }

// To returns the check-out day, if picked.
func (s *Selection) To() (time.Time, bool) { return s.to, s.hasTo }

// Check runs the conflict resolver for the selected range against the
// venue's booked ranges and stores the verdict. It does not change the
// selection itself.
func (s *Selection) Check(booked []availability.Range) (bool, error) {
	r, ok := s.Range()
	if !ok {
		return false, ErrIncomplete
	}
	s.verdict = availability.IsAvailable(booked, r)
	s.checked = true
	return s.verdict, nil
}

// RecordVerdict stores an externally computed verdict for the current
// range, typically from a re-check performed by the submission flow.
func (s *Selection) RecordVerdict(available bool) {
	if s.State() != RangeSelected {
		return
	}
	s.verdict = available
	s.checked = true
}

// Verdict reports the stored availability verdict. checked is false when no
// check has run since the selection last changed.
func (s *Selection) Verdict() (available, checked bool) {
	return s.verdict, s.checked
}

// Reset clears both dates and the verdict, returning to Empty. Called after
// a successful booking submission or when the view is discarded.
func (s *Selection) Reset() {
	*s = Selection{}
}

func (s *Selection) invalidate() {
	s.checked = false
	s.verdict = false
}
