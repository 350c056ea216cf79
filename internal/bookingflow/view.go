package bookingflow

import (
	"context"
	"sync"
	"time"

	"github.com/example/holidaze/internal/holidaze"
	"github.com/example/holidaze/internal/selection"
)

// View owns the state of one venue detail screen: the venue snapshot, its
// booking set, and the date selection. A generation counter guards against
// late network responses mutating a view the user already left: every Load
// or Close bumps the generation, and a response carrying a stale generation
// is discarded.
type View struct {
	flow *Flow

	mu     sync.Mutex
	gen    uint64
	venue  holidaze.Venue
	loaded bool
	sel    selection.Selection
}

func NewView(flow *Flow) *View {
	return &View{flow: flow}
}

// Load fetches the venue with its bookings and resets the selection. If the
// view was closed or reloaded while the fetch was in flight, the response
// is dropped and ErrViewClosed returned.
func (v *View) Load(ctx context.Context, venueID string) error {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.mu.Unlock()

	venue, err := v.flow.api.GetVenue(ctx, venueID, true)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen != gen {
		return ErrViewClosed
	}
	if err != nil {
		return err
	}
	v.venue = venue
	v.loaded = true
	v.sel.Reset()
	return nil
}

// Close discards the view. In-flight responses for it will be dropped.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	v.loaded = false
	v.sel.Reset()
}

// Venue returns the loaded snapshot.
func (v *View) Venue() (holidaze.Venue, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.venue, v.loaded
}

func (v *View) SelectCheckIn(d time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sel.SelectFrom(d)
}

func (v *View) SelectCheckOut(d time.Time) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sel.SelectTo(d)
}

func (v *View) State() selection.State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sel.State()
}

// CheckAvailability resolves the current selection against the loaded
// snapshot's booking set. It is purely local; call Load again to resync
// first when freshness matters.
func (v *View) CheckAvailability() (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.loaded {
		return false, ErrViewClosed
	}
	return v.sel.Check(v.venue.BookedRanges())
}

// Submit runs the submission flow for the current selection. On success the
// view's booking set is replaced with the refreshed one and the selection
// is left reset by the flow.
func (v *View) Submit(ctx context.Context, guests int) (Result, error) {
	v.mu.Lock()
	if !v.loaded {
		v.mu.Unlock()
		return Result{}, ErrViewClosed
	}
	gen := v.gen
	venue := v.venue
	sel := v.sel
	v.mu.Unlock()

	// The flow runs against a copy of the selection; the outcome is merged
	// back only if the view is still on the same generation, so a response
	// arriving after Close or Reload cannot mutate a discarded machine.
	res, err := v.flow.Submit(ctx, venue, &sel, guests)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen != gen {
		return Result{}, ErrViewClosed
	}
	v.sel = sel
	if err != nil {
		return Result{}, err
	}
	if res.Bookings != nil {
		v.venue.Bookings = res.Bookings
	}
	return res, nil
}
