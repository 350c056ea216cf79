// Package web serves the server-rendered booking UI. All data comes from
// the Holidaze API; the only local state is the per-browser session.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/holidaze/internal/holidaze"
	"github.com/example/holidaze/internal/session"
)

//go:embed templates/*.html static/*
var fs embed.FS

// SessionStore is the server-side session backend. *session.PGStore is the
// production implementation.
type SessionStore interface {
	Create(ctx context.Context) (session.WebSession, error)
	Get(ctx context.Context, id string) (session.WebSession, error)
	Save(ctx context.Context, ws session.WebSession) error
	Delete(ctx context.Context, id string) error
}

var _ SessionStore = (*session.PGStore)(nil)

type Server struct {
	APIURL string
	APIKey string

	Sessions SessionStore
	Cookies  *Cookies
	Log      *slog.Logger
}

// api builds a client speaking for the given credentials. Handlers pass
// the session token for authenticated calls and NoToken for public ones.
func (s *Server) api(tokens holidaze.TokenSource) *holidaze.Client {
	return holidaze.New(s.APIURL, s.APIKey, tokens, s.Log)
}

type ctxKey string

const sessionKey ctxKey = "webSession"

func sessionFrom(ctx context.Context) (session.WebSession, bool) {
	ws, ok := ctx.Value(sessionKey).(session.WebSession)
	return ws, ok
}

// withSession loads the browser's server-side session, creating one on
// first contact, and stashes it in the request context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ws session.WebSession
		if sid, ok := s.Cookies.SID(r); ok {
			got, err := s.Sessions.Get(r.Context(), sid)
			if err == nil {
				ws = got
			}
		}
		if ws.ID == "" {
			created, err := s.Sessions.Create(r.Context())
			if err != nil {
				s.Log.Error("create session", "err", err)
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
			ws = created
			if err := s.Cookies.Set(w, r, ws.ID); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
		}
		ctx := context.WithValue(r.Context(), sessionKey, ws)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, ok := sessionFrom(r.Context())
		if !ok || !ws.Authenticated() {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.FileServer(http.FS(fs)))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	withSess := func(h http.HandlerFunc) http.Handler { return s.withSession(h) }
	authed := func(h http.HandlerFunc) http.Handler { return s.withSession(s.requireAuth(h)) }

	mux.Handle("GET /{$}", withSess(s.handleHome))
	mux.Handle("GET /search", withSess(s.handleSearch))
	mux.Handle("GET /venues/{id}", withSess(s.handleVenue))
	mux.Handle("POST /venues/{id}/book", withSess(s.handleBook))

	mux.Handle("GET /login", withSess(s.handleLoginForm))
	mux.Handle("POST /login", withSess(s.handleLogin))
	mux.Handle("GET /register", withSess(s.handleRegisterForm))
	mux.Handle("POST /register", withSess(s.handleRegister))
	mux.Handle("POST /logout", withSess(s.handleLogout))

	mux.Handle("GET /profile", authed(s.handleProfile))
	mux.Handle("POST /profile", authed(s.handleProfileUpdate))
	mux.Handle("POST /bookings/{id}/cancel", authed(s.handleCancelBooking))

	return mux
}

type tmplData struct {
	Title string
	User  *holidaze.Profile

	Flash string
	Query string

	Venues   []holidaze.Venue
	Venue    holidaze.Venue
	Bookings []holidaze.Booking
	Meta     holidaze.PageMeta

	// Booking form round-trip values.
	From   string
	To     string
	Guests int

	// Availability verdict for the current From/To, if checked.
	Checked   bool
	Available bool
}

func (s *Server) render(w http.ResponseWriter, name string, data tmplData) {
	t, err := template.ParseFS(fs,
		"templates/base.html",
		name,
	)
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		http.Error(w, "render error: "+err.Error(), http.StatusInternalServerError)
	}
}

func Start(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	fmt.Printf("listening on %s\n", addr)
	return srv.ListenAndServe()
}
