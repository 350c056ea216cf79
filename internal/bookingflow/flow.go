// Package bookingflow sequences the booking lifecycle for one venue view:
// select dates, check availability, submit, resynchronize from the API.
package bookingflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/example/holidaze/internal/availability"
	"github.com/example/holidaze/internal/holidaze"
	"github.com/example/holidaze/internal/selection"
)

// API is the slice of the Holidaze client the flow needs.
type API interface {
	GetVenue(ctx context.Context, id string, withBookings bool) (holidaze.Venue, error)
	CreateBooking(ctx context.Context, req holidaze.BookingRequest) (holidaze.Booking, error)
}

var _ API = (*holidaze.Client)(nil)

// Result is a successful submission: the authoritative booking id and the
// venue's refreshed booking set. Bookings is nil when the post-submit
// refresh failed; the booking itself still went through.
type Result struct {
	BookingID string
	Bookings  []holidaze.Booking
}

// Flow runs submissions for a single venue view. One Flow per view; the
// in-flight guard rejects a second submission while the first is
// outstanding.
type Flow struct {
	api    API
	tokens holidaze.TokenSource
	log    *slog.Logger

	mu   sync.Mutex
	busy bool
}

func New(api API, tokens holidaze.TokenSource, log *slog.Logger) *Flow {
	if log == nil {
		log = slog.Default()
	}
	return &Flow{api: api, tokens: tokens, log: log}
}

// Submit validates locally, re-checks availability against a fresh booking
// set, creates the booking, and refetches the venue's bookings. The
// selection is reset only on success; every failure leaves it intact so the
// user can correct and retry.
//
// The fresh availability re-check runs even when the stored verdict is
// positive: the verdict may have gone stale between check and confirm, and
// other clients may have booked in the meantime.
func (f *Flow) Submit(ctx context.Context, venue holidaze.Venue, sel *selection.Selection, guests int) (Result, error) {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return Result{}, ErrSubmissionInFlight
	}
	f.busy = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()

	if _, ok := f.tokens.AccessToken(); !ok {
		return Result{}, holidaze.ErrUnauthenticated
	}

	rng, ok := sel.Range()
	if !ok {
		return Result{}, &ValidationError{Field: "dates", Reason: "select both check-in and check-out dates"}
	}
	if guests < 1 {
		return Result{}, &ValidationError{Field: "guests", Reason: "at least one guest is required"}
	}
	if venue.MaxGuests > 0 && guests > venue.MaxGuests {
		return Result{}, &ValidationError{
			Field:  "guests",
			Reason: fmt.Sprintf("this venue takes at most %d guests", venue.MaxGuests),
		}
	}
	if verdict, checked := sel.Verdict(); !checked {
		return Result{}, &ValidationError{Field: "availability", Reason: "check availability before booking"}
	} else if !verdict {
		return Result{}, ErrDatesUnavailable
	}

	// Re-validate against the authoritative booking set immediately before
	// the write.
	fresh, err := f.api.GetVenue(ctx, venue.ID, true)
	if err != nil {
		return Result{}, fmt.Errorf("bookingflow: refresh bookings: %w", err)
	}
	avail, err := sel.Check(fresh.BookedRanges())
	if err != nil {
		return Result{}, err
	}
	if !avail {
		return Result{}, ErrDatesUnavailable
	}

	booking, err := f.api.CreateBooking(ctx, holidaze.BookingRequest{
		DateFrom: rng.From,
		DateTo:   rng.To,
		Guests:   guests,
		VenueID:  venue.ID,
	})
	if err != nil {
		if holidaze.IsConflict(err) {
			sel.RecordVerdict(false)
			return Result{}, ErrDatesUnavailable
		}
		return Result{}, fmt.Errorf("bookingflow: submit: %w", err)
	}

	res := Result{BookingID: booking.ID}

	// Refetch the whole booking set rather than appending the new booking,
	// to pick up concurrent bookings by other clients.
	refreshed, err := f.api.GetVenue(ctx, venue.ID, true)
	if err != nil {
		f.log.Warn("booking created but refresh failed",
			slog.String("venue_id", venue.ID),
			slog.String("booking_id", booking.ID),
			slog.Any("error", err),
		)
	} else {
		res.Bookings = refreshed.Bookings
	}

	sel.Reset()
	f.log.Info("booking created",
		slog.String("venue_id", venue.ID),
		slog.String("booking_id", booking.ID),
		slog.Int("guests", guests),
		slog.Int("nights", rng.Nights()),
	)
	return res, nil
}

// CheckAvailability runs the resolver for sel against a fresh booking set
// and stores the verdict on the selection.
func (f *Flow) CheckAvailability(ctx context.Context, venueID string, sel *selection.Selection) (bool, error) {
	if _, ok := sel.Range(); !ok {
		return false, selection.ErrIncomplete
	}
	fresh, err := f.api.GetVenue(ctx, venueID, true)
	if err != nil {
		return false, fmt.Errorf("bookingflow: fetch bookings: %w", err)
	}
	return sel.Check(fresh.BookedRanges())
}

// Ranges is a convenience for callers holding a booking list rather than a
// venue snapshot.
func Ranges(bookings []holidaze.Booking) []availability.Range {
	v := holidaze.Venue{Bookings: bookings}
	return v.BookedRanges()
}
