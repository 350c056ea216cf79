package holidaze

import (
	"time"

	"github.com/example/holidaze/internal/availability"
)

type Media struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Amenities are the venue's boolean amenity flags.
type Amenities struct {
	Wifi      bool `json:"wifi"`
	Parking   bool `json:"parking"`
	Breakfast bool `json:"breakfast"`
	Pets      bool `json:"pets"`
}

type Location struct {
	Address   string  `json:"address"`
	City      string  `json:"city"`
	Zip       string  `json:"zip"`
	Country   string  `json:"country"`
	Continent string  `json:"continent"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

// Venue is the API's venue record. The client treats it as a read-only
// snapshot; the API owns the data. Bookings is populated only when the
// venue was fetched with withBookings.
type Venue struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Media       []Media   `json:"media"`
	Price       float64   `json:"price"`
	MaxGuests   int       `json:"maxGuests"`
	Rating      float64   `json:"rating"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
	Meta        Amenities `json:"meta"`
	Location    Location  `json:"location"`
	Bookings    []Booking `json:"bookings,omitempty"`
}

// BookedRanges converts the venue's embedded bookings to the calendar-day
// ranges the conflict resolver works on.
func (v Venue) BookedRanges() []availability.Range {
	out := make([]availability.Range, 0, len(v.Bookings))
	for _, b := range v.Bookings {
		out = append(out, availability.Range{
			From: availability.Day(b.DateFrom),
			To:   availability.Day(b.DateTo),
		})
	}
	return out
}

// Booking is a confirmed reservation. DateFrom/DateTo are an inclusive
// range; the API serves them as ISO-8601 date-times and the client
// truncates to calendar days wherever it does overlap math.
type Booking struct {
	ID       string    `json:"id"`
	DateFrom time.Time `json:"dateFrom"`
	DateTo   time.Time `json:"dateTo"`
	Guests   int       `json:"guests"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
	Venue    *Venue    `json:"venue,omitempty"`
}

// BookingRequest is the POST /bookings payload.
type BookingRequest struct {
	DateFrom time.Time `json:"dateFrom"`
	DateTo   time.Time `json:"dateTo"`
	Guests   int       `json:"guests"`
	VenueID  string    `json:"venueId"`
}

// Profile is the authenticated user's profile as returned by the auth and
// profile endpoints.
type Profile struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Avatar       Media  `json:"avatar"`
	Banner       Media  `json:"banner"`
	VenueManager bool   `json:"venueManager"`
}

// ProfileUpdate carries the mutable profile fields; nil fields are left
// unchanged.
type ProfileUpdate struct {
	Avatar       *Media `json:"avatar,omitempty"`
	Banner       *Media `json:"banner,omitempty"`
	VenueManager *bool  `json:"venueManager,omitempty"`
}

// PageMeta is the API's pagination envelope metadata.
type PageMeta struct {
	IsFirstPage  bool `json:"isFirstPage"`
	IsLastPage   bool `json:"isLastPage"`
	CurrentPage  int  `json:"currentPage"`
	PreviousPage *int `json:"previousPage"`
	NextPage     *int `json:"nextPage"`
	PageCount    int  `json:"pageCount"`
	TotalCount   int  `json:"totalCount"`
}
