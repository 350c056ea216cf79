// Package session mirrors the authenticated user's credentials the way the
// original front-end mirrored them into browser storage: a token and a
// profile under fixed accessToken/user keys, behind a single get/set/clear
// surface so business logic never touches the backing storage directly.
package session

import (
	"sync"
	"time"

	"github.com/example/holidaze/internal/holidaze"
)

// Session is the persisted credential pair.
type Session struct {
	AccessToken string           `json:"accessToken"`
	User        holidaze.Profile `json:"user"`
}

// Authenticated reports whether a token is present.
func (s Session) Authenticated() bool { return s.AccessToken != "" }

// Persister writes the session to its backing storage. Implementations:
// FileStore (CLI).
type Persister interface {
	Save(Session) error
	Load() (Session, bool, error)
	Clear() error
}

// Store is the process-wide session context: many readers, one writer.
// Writes happen only on login, logout, and profile update; every
// authenticated API call reads through it.
type Store struct {
	mu      sync.RWMutex
	cur     Session
	ok      bool
	subs    []func(Session, bool)
	persist Persister
}

// NewStore builds a store, loading any persisted session. persist may be
// nil for a purely in-memory store (tests, per-request web use).
func NewStore(persist Persister) (*Store, error) {
	st := &Store{persist: persist}
	if persist != nil {
		s, ok, err := persist.Load()
		if err != nil {
			return nil, err
		}
		st.cur, st.ok = s, ok
	}
	return st, nil
}

// Get returns the current session, if any.
func (s *Store) Get() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur, s.ok
}

// AccessToken implements holidaze.TokenSource.
func (s *Store) AccessToken() (string, bool) {
	sess, ok := s.Get()
	if !ok || !sess.Authenticated() {
		return "", false
	}
	return sess.AccessToken, true
}

// Set replaces the session and notifies subscribers.
func (s *Store) Set(sess Session) error {
	s.mu.Lock()
	if s.persist != nil {
		if err := s.persist.Save(sess); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.cur, s.ok = sess, true
	subs := append(([]func(Session, bool))(nil), s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(sess, true)
	}
	return nil
}

// Clear removes the session and notifies subscribers.
func (s *Store) Clear() error {
	s.mu.Lock()
	if s.persist != nil {
		if err := s.persist.Clear(); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.cur, s.ok = Session{}, false
	subs := append(([]func(Session, bool))(nil), s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(Session{}, false)
	}
	return nil
}

// Subscribe registers fn to run after every Set and Clear, with the new
// session and whether one is present. Subscriptions last for the lifetime
// of the store.
func (s *Store) Subscribe(fn func(Session, bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// PendingBooking is a booking attempt parked while the user completes a
// login detour, so the selected range survives the redirect.
type PendingBooking struct {
	VenueID  string    `json:"venueId"`
	DateFrom time.Time `json:"dateFrom"`
	DateTo   time.Time `json:"dateTo"`
	Guests   int       `json:"guests"`
}
