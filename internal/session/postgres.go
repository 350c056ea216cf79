package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoSession is returned when a web session id has no row, e.g. after an
// expired cookie or a server-side logout.
var ErrNoSession = errors.New("session: not found")

// WebSession is one browser's server-side session: its credentials plus any
// booking attempt parked across a login redirect.
type WebSession struct {
	ID      string
	Session
	Pending *PendingBooking
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS web_sessions (
	id UUID PRIMARY KEY,
	access_token TEXT NOT NULL DEFAULT '',
	user_json TEXT NOT NULL DEFAULT '',
	pending_json TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_web_sessions_updated_at ON web_sessions(updated_at);
`

// PGStore keeps web sessions in postgres so the securecookie only has to
// carry an opaque id. Tokens are sealed before they hit a row.
type PGStore struct {
	pool *pgxpool.Pool
	enc  *aead
}

// OpenPG connects to databaseURL, applies the schema, and returns the
// store. encKey must be a 32-byte AES key.
func OpenPG(ctx context.Context, databaseURL string, encKey []byte) (*PGStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnLifetime = 5 * time.Minute
	cfg.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("session: migrate: %w", err)
	}

	enc, err := newAEAD(encKey)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &PGStore{pool: pool, enc: enc}, nil
}

func (s *PGStore) Close() { s.pool.Close() }

func (s *PGStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Create inserts an empty, unauthenticated session and returns it.
func (s *PGStore) Create(ctx context.Context) (WebSession, error) {
	ws := WebSession{ID: uuid.NewString()}
	_, err := s.pool.Exec(ctx, `INSERT INTO web_sessions(id) VALUES ($1)`, ws.ID)
	if err != nil {
		return WebSession{}, err
	}
	return ws, nil
}

// Save upserts the whole session row.
func (s *PGStore) Save(ctx context.Context, ws WebSession) error {
	token := ""
	if ws.AccessToken != "" {
		var err error
		token, err = s.enc.seal([]byte(ws.AccessToken))
		if err != nil {
			return err
		}
	}

	userJSON := ""
	if ws.Authenticated() {
		b, err := json.Marshal(ws.User)
		if err != nil {
			return err
		}
		userJSON = string(b)
	}

	pendingJSON := ""
	if ws.Pending != nil {
		b, err := json.Marshal(ws.Pending)
		if err != nil {
			return err
		}
		pendingJSON = string(b)
	}

	_, err := s.pool.Exec(ctx, `
INSERT INTO web_sessions(id, access_token, user_json, pending_json, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (id) DO UPDATE
SET access_token=$2, user_json=$3, pending_json=$4, updated_at=now()`,
		ws.ID, token, userJSON, pendingJSON)
	return err
}

// Get loads a session by id.
func (s *PGStore) Get(ctx context.Context, id string) (WebSession, error) {
	var token, userJSON, pendingJSON string
	err := s.pool.QueryRow(ctx,
		`SELECT access_token, user_json, pending_json FROM web_sessions WHERE id=$1`, id).
		Scan(&token, &userJSON, &pendingJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return WebSession{}, ErrNoSession
	}
	if err != nil {
		return WebSession{}, err
	}

	ws := WebSession{ID: id}
	if token != "" {
		plain, err := s.enc.open(token)
		if err != nil {
			return WebSession{}, err
		}
		ws.AccessToken = string(plain)
	}
	if userJSON != "" {
		if err := json.Unmarshal([]byte(userJSON), &ws.User); err != nil {
			return WebSession{}, err
		}
	}
	if pendingJSON != "" {
		var p PendingBooking
		if err := json.Unmarshal([]byte(pendingJSON), &p); err != nil {
			return WebSession{}, err
		}
		ws.Pending = &p
	}
	return ws, nil
}

// Delete removes a session row; missing rows are not an error.
func (s *PGStore) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM web_sessions WHERE id=$1`, id)
	return err
}

// PruneIdle drops sessions not touched for the given duration.
func (s *PGStore) PruneIdle(ctx context.Context, idle time.Duration) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM web_sessions WHERE updated_at < now() - $1::interval`,
		fmt.Sprintf("%d seconds", int(idle.Seconds())))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
