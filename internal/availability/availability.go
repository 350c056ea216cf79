// Package availability decides whether a candidate stay conflicts with a
// venue's existing bookings. Ranges are inclusive on both ends at
// calendar-day granularity: a candidate whose check-in equals an existing
// booking's check-out is a conflict, so same-day turnover is not allowed.
package availability

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("availability: check-out is before check-in")

// Range is an inclusive calendar-day interval. Both ends are normalized to
// midnight UTC; time-of-day on the inputs is not load-bearing.
type Range struct {
	From time.Time
	To   time.Time
}

// Day truncates t to its calendar day at midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewRange normalizes from/to to calendar days and validates their order.
// A single-day range (from == to) is valid.
func NewRange(from, to time.Time) (Range, error) {
	r := Range{From: Day(from), To: Day(to)}
	if r.To.Before(r.From) {
		return Range{}, ErrInvalidRange
	}
	return r, nil
}

// Contains reports whether the calendar day of t falls within r, inclusive.
func (r Range) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.From) && !d.After(r.To)
}

// Days enumerates every calendar day in r, inclusive of both ends.
func (r Range) Days() []time.Time {
	var out []time.Time
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Nights is the number of nights a stay over r spans. A single-day range
// counts as one night.
func (r Range) Nights() int {
	n := int(r.To.Sub(r.From).Hours() / 24)
	if n < 1 {
		n = 1
	}
	return n
}

// IsAvailable reports whether candidate shares no calendar day with any of
// the booked ranges. It is total over its inputs, has no side effects, and
// an empty booked set is always available.
//
// The check enumerates each day of the candidate and tests it against every
// booked range rather than comparing interval endpoints; the direct
// endpoint comparison is equivalent but this form is kept as the canonical
// one for boundary behavior.
func IsAvailable(booked []Range, candidate Range) bool {
	for _, day := range candidate.Days() {
		for _, b := range booked {
			if b.Contains(day) {
				return false
			}
		}
	}
	return true
}
