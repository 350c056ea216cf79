package holidaze

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/example/holidaze/internal/availability"
)

// ListVenues fetches one page of the venue directory.
func (c *Client) ListVenues(ctx context.Context, page, limit int) ([]Venue, PageMeta, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var env struct {
		Data []Venue  `json:"data"`
		Meta PageMeta `json:"meta"`
	}
	if err := c.do(ctx, http.MethodGet, "/holidaze/venues", q, nil, &env, false); err != nil {
		return nil, PageMeta{}, err
	}
	return env.Data, env.Meta, nil
}

// GetVenue fetches a single venue. With withBookings the API embeds the
// venue's full booking list, which is the sole input to the availability
// check.
func (c *Client) GetVenue(ctx context.Context, id string, withBookings bool) (Venue, error) {
	q := url.Values{}
	if withBookings {
		q.Set("_bookings", "true")
	}
	var env struct {
		Data Venue `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/holidaze/venues/"+url.PathEscape(id), q, nil, &env, false); err != nil {
		return Venue{}, err
	}
	return env.Data, nil
}

// SearchVenues runs a free-text search, optionally narrowed to venues free
// for the whole of [dateFrom, dateTo]. The API only understands the text
// query; date filtering works on the embedded booking lists with the same
// overlap check the booking view uses. Zero dateFrom/dateTo skip the
// filter; an empty query lists the directory instead of searching.
func (c *Client) SearchVenues(ctx context.Context, query string, dateFrom, dateTo time.Time) ([]Venue, error) {
	byDate := !dateFrom.IsZero() && !dateTo.IsZero()

	q := url.Values{}
	if byDate {
		q.Set("_bookings", "true")
	}

	var venues []Venue
	if query != "" {
		q.Set("q", query)
		var env struct {
			Data []Venue `json:"data"`
		}
		if err := c.do(ctx, http.MethodGet, "/holidaze/venues/search", q, nil, &env, false); err != nil {
			return nil, err
		}
		venues = env.Data
	} else {
		var env struct {
			Data []Venue `json:"data"`
		}
		if err := c.do(ctx, http.MethodGet, "/holidaze/venues", q, nil, &env, false); err != nil {
			return nil, err
		}
		venues = env.Data
	}

	if !byDate {
		return venues, nil
	}

	candidate, err := availability.NewRange(dateFrom, dateTo)
	if err != nil {
		return nil, err
	}
	free := venues[:0]
	for _, v := range venues {
		if availability.IsAvailable(v.BookedRanges(), candidate) {
			free = append(free, v)
		}
	}
	return free, nil
}

// VenueRequest is the create/update payload for a managed venue. Updates
// send the full record; callers overlay changes onto the current venue
// before submitting.
type VenueRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Media       []Media   `json:"media,omitempty"`
	Price       float64   `json:"price"`
	MaxGuests   int       `json:"maxGuests"`
	Meta        Amenities `json:"meta"`
	Location    Location  `json:"location"`
}

// CreateVenue registers a new venue under the logged-in manager account.
func (c *Client) CreateVenue(ctx context.Context, req VenueRequest) (Venue, error) {
	var env struct {
		Data Venue `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/holidaze/venues", nil, req, &env, true); err != nil {
		return Venue{}, err
	}
	return env.Data, nil
}

// UpdateVenue replaces a managed venue's record.
func (c *Client) UpdateVenue(ctx context.Context, id string, req VenueRequest) (Venue, error) {
	var env struct {
		Data Venue `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, "/holidaze/venues/"+url.PathEscape(id), nil, req, &env, true); err != nil {
		return Venue{}, err
	}
	return env.Data, nil
}

// DeleteVenue removes a managed venue and all of its bookings.
func (c *Client) DeleteVenue(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/holidaze/venues/"+url.PathEscape(id), nil, nil, nil, true)
}

// VenuesByProfile lists the venues a profile manages, each with its full
// booking list so a manager can see upcoming stays.
func (c *Client) VenuesByProfile(ctx context.Context, name string) ([]Venue, error) {
	q := url.Values{"_bookings": {"true"}}
	var env struct {
		Data []Venue `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/holidaze/profiles/"+url.PathEscape(name)+"/venues", q, nil, &env, true); err != nil {
		return nil, err
	}
	return env.Data, nil
}
