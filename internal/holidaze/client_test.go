package holidaze_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/holidaze/internal/holidaze"
)

func newServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *holidaze.Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, holidaze.New(srv.URL, "test-key", holidaze.StaticToken("test-token"), nil)
}

func TestListVenues(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/holidaze/venues", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "test-key", r.Header.Get("X-Noroff-API-Key"))
		// Listing is public, no bearer token needed.
		assert.Empty(t, r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": "v1", "name": "Seaside Cabin", "maxGuests": 4}},
			"meta": map[string]any{"currentPage": 2, "pageCount": 7, "totalCount": 130},
		})
	})

	venues, meta, err := c.ListVenues(context.Background(), 2, 20)
	require.NoError(t, err)
	require.Len(t, venues, 1)
	assert.Equal(t, "Seaside Cabin", venues[0].Name)
	assert.Equal(t, 4, venues[0].MaxGuests)
	assert.Equal(t, 2, meta.CurrentPage)
	assert.Equal(t, 7, meta.PageCount)
}

func TestGetVenue_withBookings(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/holidaze/venues/v1", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("_bookings"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"id":   "v1",
				"name": "Seaside Cabin",
				"bookings": []map[string]any{
					{"id": "b1", "dateFrom": "2024-06-10T00:00:00.000Z", "dateTo": "2024-06-15T00:00:00.000Z"},
				},
			},
		})
	})

	v, err := c.GetVenue(context.Background(), "v1", true)
	require.NoError(t, err)
	require.Len(t, v.Bookings, 1)

	ranges := v.BookedRanges()
	require.Len(t, ranges, 1)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), ranges[0].From)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), ranges[0].To)
}

func TestCreateBooking_sendsAuthAndPayload(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/holidaze/bookings", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req holidaze.BookingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "v1", req.VenueID)
		assert.Equal(t, 2, req.Guests)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": "b-new", "guests": 2}})
	})

	b, err := c.CreateBooking(context.Background(), holidaze.BookingRequest{
		DateFrom: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC),
		Guests:   2,
		VenueID:  "v1",
	})
	require.NoError(t, err)
	assert.Equal(t, "b-new", b.ID)
}

func TestCreateBooking_failsFastWithoutToken(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := holidaze.New(srv.URL, "test-key", holidaze.NoToken{}, nil)
	_, err := c.CreateBooking(context.Background(), holidaze.BookingRequest{VenueID: "v1", Guests: 1})
	require.ErrorIs(t, err, holidaze.ErrUnauthenticated)
	assert.False(t, called, "no network call should be made without a token")
}

func TestAPIError_messageParsing(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{"message": "The selected dates are not available"}},
		})
	})

	_, err := c.CreateBooking(context.Background(), holidaze.BookingRequest{VenueID: "v1", Guests: 1})
	require.Error(t, err)
	assert.True(t, holidaze.IsConflict(err))
	assert.Contains(t, err.Error(), "The selected dates are not available")
}

func TestLogin(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("_holidaze"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"name":         "jo",
				"email":        "jo@stud.noroff.no",
				"accessToken":  "tok-123",
				"venueManager": true,
			},
		})
	})

	res, err := c.Login(context.Background(), "jo@stud.noroff.no", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", res.AccessToken)
	assert.Equal(t, "jo", res.Profile.Name)
	assert.True(t, res.Profile.VenueManager)
}

func TestBookingsByProfile(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/holidaze/profiles/jo/bookings", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("_venue"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "b1", "guests": 2, "venue": map[string]any{"id": "v1", "name": "Seaside Cabin"}},
			},
			"meta": map[string]any{"currentPage": 1, "pageCount": 1},
		})
	})

	bs, _, err := c.BookingsByProfile(context.Background(), "jo", 1, 10)
	require.NoError(t, err)
	require.Len(t, bs, 1)
	require.NotNil(t, bs[0].Venue)
	assert.Equal(t, "Seaside Cabin", bs[0].Venue.Name)
}

func TestSearchVenues_dateFilter(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/holidaze/venues/search", r.URL.Path)
		assert.Equal(t, "cabin", r.URL.Query().Get("q"))
		assert.Equal(t, "true", r.URL.Query().Get("_bookings"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{
					"id": "busy", "name": "Busy Cabin",
					"bookings": []map[string]any{
						{"id": "b1", "dateFrom": "2024-07-01T00:00:00Z", "dateTo": "2024-07-10T00:00:00Z"},
					},
				},
				{"id": "free", "name": "Free Cabin"},
			},
		})
	})

	venues, err := c.SearchVenues(context.Background(), "cabin",
		time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 7, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.Len(t, venues, 1)
	assert.Equal(t, "free", venues[0].ID)
}

func TestDeleteBooking(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/holidaze/bookings/b1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.DeleteBooking(context.Background(), "b1"))
}

func TestPing(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/holidaze/venues", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	})
	require.NoError(t, c.Ping(context.Background()))
}

func TestPing_badKey(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "Invalid API key"})
	})
	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestCreateVenue_sendsAuthAndPayload(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/holidaze/venues", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Seaside Cabin", req["name"])
		assert.Equal(t, float64(120), req["price"])
		assert.Equal(t, float64(4), req["maxGuests"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"id": "v-new", "name": "Seaside Cabin"},
		})
	})

	v, err := c.CreateVenue(context.Background(), holidaze.VenueRequest{
		Name:        "Seaside Cabin",
		Description: "A cabin by the sea",
		Price:       120,
		MaxGuests:   4,
	})
	require.NoError(t, err)
	assert.Equal(t, "v-new", v.ID)
}

func TestUpdateVenue(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/holidaze/venues/v1", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(150), req["price"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"id": "v1", "name": "Seaside Cabin", "price": 150},
		})
	})

	v, err := c.UpdateVenue(context.Background(), "v1", holidaze.VenueRequest{
		Name: "Seaside Cabin", Description: "A cabin by the sea", Price: 150, MaxGuests: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(150), v.Price)
}

func TestDeleteVenue(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/holidaze/venues/v1", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.DeleteVenue(context.Background(), "v1"))
}

func TestVenuesByProfile_includesBookings(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/holidaze/profiles/olav/venues", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("_bookings"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{
				"id": "v1", "name": "Seaside Cabin",
				"bookings": []map[string]any{
					{"id": "b1", "dateFrom": "2024-06-10T00:00:00Z", "dateTo": "2024-06-15T00:00:00Z", "guests": 2},
				},
			}},
		})
	})

	venues, err := c.VenuesByProfile(context.Background(), "olav")
	require.NoError(t, err)
	require.Len(t, venues, 1)
	require.Len(t, venues[0].Bookings, 1)
	assert.Equal(t, 2, venues[0].Bookings[0].Guests)
}
