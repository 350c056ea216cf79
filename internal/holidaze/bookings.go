package holidaze

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// CreateBooking submits a new booking. The server is the authority on
// conflicts; callers are expected to have run the client-side availability
// check first.
func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (Booking, error) {
	var env struct {
		Data Booking `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/holidaze/bookings", nil, req, &env, true); err != nil {
		return Booking{}, err
	}
	return env.Data, nil
}

// DeleteBooking cancels a booking by id.
func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/holidaze/bookings/"+url.PathEscape(id), nil, nil, nil, true)
}

// BookingsByProfile lists the bookings made by the named profile, each with
// its venue embedded.
func (c *Client) BookingsByProfile(ctx context.Context, name string, page, limit int) ([]Booking, PageMeta, error) {
	q := url.Values{"_venue": {"true"}}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var env struct {
		Data []Booking `json:"data"`
		Meta PageMeta  `json:"meta"`
	}
	path := "/holidaze/profiles/" + url.PathEscape(name) + "/bookings"
	if err := c.do(ctx, http.MethodGet, path, q, nil, &env, true); err != nil {
		return nil, PageMeta{}, err
	}
	return env.Data, env.Meta, nil
}
