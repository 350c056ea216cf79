package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/holidaze/internal/bookingflow"
	"github.com/example/holidaze/internal/holidaze"
	"github.com/example/holidaze/internal/selection"
	"github.com/example/holidaze/internal/session"
)

const dayFormat = "2006-01-02"

func userOf(ws session.WebSession) *holidaze.Profile {
	if !ws.Authenticated() {
		return nil
	}
	u := ws.User
	return &u
}

// rebuildSelection replays check-in/check-out through the selection
// machine so form input gets the same ordering rules as the UI.
func rebuildSelection(fromStr, toStr string) (*selection.Selection, error) {
	var sel selection.Selection
	if fromStr == "" {
		return &sel, nil
	}
	from, err := time.Parse(dayFormat, fromStr)
	if err != nil {
		return nil, fmt.Errorf("invalid check-in date")
	}
	sel.SelectFrom(from)
	if toStr == "" {
		return &sel, nil
	}
	to, err := time.Parse(dayFormat, toStr)
	if err != nil {
		return nil, fmt.Errorf("invalid check-out date")
	}
	if err := sel.SelectTo(to); err != nil {
		return nil, fmt.Errorf("check-out must not be before check-in")
	}
	return &sel, nil
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ws, _ := sessionFrom(r.Context())
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	venues, meta, err := s.api(holidaze.NoToken{}).ListVenues(r.Context(), page, 20)
	if err != nil {
		s.Log.Error("list venues", "err", err)
		http.Error(w, "upstream error", http.StatusBadGateway)
		return
	}
	s.render(w, "templates/home.html", tmplData{
		Title:  "Venues",
		User:   userOf(ws),
		Venues: venues,
		Meta:   meta,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ws, _ := sessionFrom(r.Context())
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")

	var from, to time.Time
	if fromStr != "" && toStr != "" {
		var err error
		if from, err = time.Parse(dayFormat, fromStr); err == nil {
			to, err = time.Parse(dayFormat, toStr)
		}
		if err != nil {
			s.render(w, "templates/home.html", tmplData{
				Title: "Search", User: userOf(ws), Query: q,
				Flash: "Dates must look like 2026-08-28",
			})
			return
		}
	}

	venues, err := s.api(holidaze.NoToken{}).SearchVenues(r.Context(), q, from, to)
	if err != nil {
		s.Log.Error("search venues", "q", q, "err", err)
		http.Error(w, "upstream error", http.StatusBadGateway)
		return
	}
	s.render(w, "templates/home.html", tmplData{
		Title:  "Search",
		User:   userOf(ws),
		Query:  q,
		From:   fromStr,
		To:     toStr,
		Venues: venues,
	})
}

func (s *Server) handleVenue(w http.ResponseWriter, r *http.Request) {
	ws, _ := sessionFrom(r.Context())
	id := r.PathValue("id")

	venue, err := s.api(holidaze.NoToken{}).GetVenue(r.Context(), id, true)
	if holidaze.IsNotFound(err) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.Log.Error("get venue", "venue", id, "err", err)
		http.Error(w, "upstream error", http.StatusBadGateway)
		return
	}

	data := tmplData{
		Title:  venue.Name,
		User:   userOf(ws),
		Venue:  venue,
		From:   r.URL.Query().Get("from"),
		To:     r.URL.Query().Get("to"),
		Guests: guestsParam(r.URL.Query().Get("guests")),
		Flash:  flashParam(r.URL.Query().Get("flash")),
	}

	sel, err := rebuildSelection(data.From, data.To)
	if err != nil {
		data.Flash = err.Error()
		data.To = ""
		s.render(w, "templates/venue.html", data)
		return
	}
	if sel.State() == selection.RangeSelected {
		available, err := sel.Check(venue.BookedRanges())
		if err == nil {
			data.Checked = true
			data.Available = available
		}
	}
	s.render(w, "templates/venue.html", data)
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	ws, _ := sessionFrom(r.Context())
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fromStr := r.FormValue("from")
	toStr := r.FormValue("to")

	// The guest count is taken as submitted: an invalid or non-positive
	// value is a validation failure, never silently corrected.
	guests, gerr := strconv.Atoi(strings.TrimSpace(r.FormValue("guests")))
	if gerr != nil || guests < 1 {
		http.Redirect(w, r, venueURL(id, fromStr, toStr, 0, "bad-guests"), http.StatusFound)
		return
	}

	sel, err := rebuildSelection(fromStr, toStr)
	if err != nil || sel.State() != selection.RangeSelected {
		http.Redirect(w, r, venueURL(id, fromStr, "", 0, "incomplete"), http.StatusFound)
		return
	}

	// Not logged in: park the attempt and come back to it after login.
	if !ws.Authenticated() {
		rng, _ := sel.Range()
		ws.Pending = &session.PendingBooking{
			VenueID:  id,
			DateFrom: rng.From,
			DateTo:   rng.To,
			Guests:   guests,
		}
		if err := s.Sessions.Save(r.Context(), ws); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := s.book(r.Context(), ws, id, sel, guests); err != nil {
		http.Redirect(w, r, venueURL(id, fromStr, toStr, guests, bookingFlash(err)), http.StatusFound)
		return
	}
	http.Redirect(w, r, "/profile?flash=booked", http.StatusFound)
}

// book runs the full submission flow for a logged-in session: fresh venue
// fetch, availability re-check, create, refetch.
func (s *Server) book(ctx context.Context, ws session.WebSession, venueID string, sel *selection.Selection, guests int) error {
	tokens := holidaze.StaticToken(ws.AccessToken)
	api := s.api(tokens)

	venue, err := api.GetVenue(ctx, venueID, true)
	if err != nil {
		return err
	}
	if _, err := sel.Check(venue.BookedRanges()); err != nil {
		return err
	}

	flow := bookingflow.New(api, tokens, s.Log)
	_, err = flow.Submit(ctx, venue, sel, guests)
	return err
}

// bookingFlash maps a submission failure to a flash code, keeping the
// field that failed so the user sees what to correct.
func bookingFlash(err error) string {
	var verr *bookingflow.ValidationError
	switch {
	case errors.Is(err, bookingflow.ErrDatesUnavailable):
		return "unavailable"
	case errors.As(err, &verr):
		switch verr.Field {
		case "guests":
			return "bad-guests"
		case "dates":
			return "incomplete"
		default:
			return "check-first"
		}
	case holidaze.IsUnauthorized(err):
		return "expired"
	default:
		return "failed"
	}
}

func venueURL(id, from, to string, guests int, flash string) string {
	q := url.Values{}
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}
	if guests > 0 {
		q.Set("guests", strconv.Itoa(guests))
	}
	if flash != "" {
		q.Set("flash", flash)
	}
	u := "/venues/" + url.PathEscape(id)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// Flash text travels as a short code so redirect URLs stay clean and the
// rendered message can't be attacker-chosen.
var flashCodes = map[string]string{
	"unavailable": "Those dates are no longer available",
	"expired":     "Your session has expired, please log in again",
	"incomplete":  "Pick both a check-in and a check-out date",
	"bad-guests":  "Guest count must be at least 1 and within the venue's limit",
	"check-first": "Check availability before booking",
	"failed":      "Booking failed, please try again",
	"booked":      "Booking confirmed",
	"cancelled":   "Booking cancelled",
}

func flashParam(code string) string {
	return flashCodes[code]
}

// guestsParam is the display default for the booking form only; submitted
// guest counts are validated strictly in handleBook.
func guestsParam(s string) int {
	n, _ := strconv.Atoi(s)
	if n < 1 {
		n = 1
	}
	return n
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	ws, _ := sessionFrom(r.Context())
	if ws.Authenticated() {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.render(w, "templates/login.html", tmplData{Title: "Log in"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ws, _ := sessionFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	res, err := s.api(holidaze.NoToken{}).Login(r.Context(), email, password)
	if err != nil {
		s.render(w, "templates/login.html", tmplData{Title: "Log in", Flash: "Invalid email or password"})
		return
	}

	ws.Session = session.Session{AccessToken: res.AccessToken, User: res.Profile}
	pending := ws.Pending
	ws.Pending = nil
	if err := s.Sessions.Save(r.Context(), ws); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Finish the booking the login interrupted, if there is one.
	if pending != nil {
		sel, err := rebuildSelection(pending.DateFrom.Format(dayFormat), pending.DateTo.Format(dayFormat))
		if err == nil {
			err = s.book(r.Context(), ws, pending.VenueID, sel, pending.Guests)
		}
		if err != nil {
			http.Redirect(w, r, venueURL(pending.VenueID,
				pending.DateFrom.Format(dayFormat), pending.DateTo.Format(dayFormat),
				pending.Guests, bookingFlash(err)), http.StatusFound)
			return
		}
		http.Redirect(w, r, "/profile?flash=booked", http.StatusFound)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "templates/register.html", tmplData{Title: "Register"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ws, _ := sessionFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req := holidaze.RegisterRequest{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}

	api := s.api(holidaze.NoToken{})
	if _, err := api.Register(r.Context(), req); err != nil {
		s.render(w, "templates/register.html", tmplData{Title: "Register", Flash: registerFlash(err)})
		return
	}

	// Log the new account straight in.
	res, err := api.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	ws.Session = session.Session{AccessToken: res.AccessToken, User: res.Profile}
	if err := s.Sessions.Save(r.Context(), ws); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func registerFlash(err error) string {
	var apiErr *holidaze.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Registration failed"
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	ws, _ := sessionFrom(r.Context())
	if err := s.Sessions.Delete(r.Context(), ws.ID); err != nil {
		s.Log.Warn("delete session", "err", err)
	}
	s.Cookies.Clear(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	ws, _ := sessionFrom(r.Context())
	api := s.api(holidaze.StaticToken(ws.AccessToken))

	bookings, _, err := api.BookingsByProfile(r.Context(), ws.User.Name, 1, 100)
	if holidaze.IsUnauthorized(err) {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	if err != nil {
		s.Log.Error("profile bookings", "profile", ws.User.Name, "err", err)
		http.Error(w, "upstream error", http.StatusBadGateway)
		return
	}
	s.render(w, "templates/profile.html", tmplData{
		Title:    ws.User.Name,
		User:     userOf(ws),
		Bookings: bookings,
		Flash:    flashParam(r.URL.Query().Get("flash")),
	})
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	ws, _ := sessionFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var upd holidaze.ProfileUpdate
	if avatar := strings.TrimSpace(r.FormValue("avatar")); avatar != "" {
		upd.Avatar = &holidaze.Media{URL: avatar, Alt: ws.User.Name}
	}
	if banner := strings.TrimSpace(r.FormValue("banner")); banner != "" {
		upd.Banner = &holidaze.Media{URL: banner, Alt: ws.User.Name}
	}
	manager := r.FormValue("venue_manager") == "on"
	if manager != ws.User.VenueManager {
		upd.VenueManager = &manager
	}

	api := s.api(holidaze.StaticToken(ws.AccessToken))
	profile, err := api.UpdateProfile(r.Context(), ws.User.Name, upd)
	if err != nil {
		s.Log.Error("update profile", "profile", ws.User.Name, "err", err)
		http.Redirect(w, r, "/profile", http.StatusFound)
		return
	}

	ws.User = profile
	if err := s.Sessions.Save(r.Context(), ws); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/profile", http.StatusFound)
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	ws, _ := sessionFrom(r.Context())
	id := r.PathValue("id")

	api := s.api(holidaze.StaticToken(ws.AccessToken))
	if err := api.DeleteBooking(r.Context(), id); err != nil && !holidaze.IsNotFound(err) {
		s.Log.Error("cancel booking", "booking", id, "err", err)
		http.Error(w, "upstream error", http.StatusBadGateway)
		return
	}
	http.Redirect(w, r, "/profile?flash=cancelled", http.StatusFound)
}
