// Package holidaze is a client for the Holidaze venue booking REST API.
// All persistence and business rules live behind that API; this package
// only shapes requests and decodes the {data, meta} response envelope.
package holidaze

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenSource supplies the bearer token for authenticated requests. The
// second return is false when no user is logged in.
type TokenSource interface {
	AccessToken() (string, bool)
}

// StaticToken is a TokenSource for a token already in hand, e.g. one read
// from a per-request web session.
type StaticToken string

func (t StaticToken) AccessToken() (string, bool) { return string(t), t != "" }

// NoToken is a TokenSource for anonymous access.
type NoToken struct{}

func (NoToken) AccessToken() (string, bool) { return "", false }

type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
	tokens  TokenSource
	log     *slog.Logger
}

// New builds a client for the API at baseURL. Every request carries the API
// key header; authenticated endpoints additionally pull a bearer token from
// tokens at call time, so a login performed after New is picked up.
func New(baseURL, apiKey string, tokens TokenSource, log *slog.Logger) *Client {
	if tokens == nil {
		tokens = NoToken{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: 10 * time.Second},
		tokens:  tokens,
		log:     log,
	}
}

// apiMessage is the API's error body. Older endpoints use a bare message
// field, newer ones an errors array.
type apiMessage struct {
	Message string `json:"message"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (m apiMessage) text() string {
	if m.Message != "" {
		return m.Message
	}
	if len(m.Errors) > 0 {
		return m.Errors[0].Message
	}
	return ""
}

// do issues one request and decodes the response body into out (when out is
// non-nil). authed requests fail fast with ErrUnauthenticated before any
// network traffic when no token is available.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any, authed bool) error {
	var token string
	if authed {
		var ok bool
		token, ok = c.tokens.AccessToken()
		if !ok {
			return ErrUnauthenticated
		}
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("holidaze: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Noroff-API-Key", c.apiKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("holidaze: %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	c.log.Debug("api request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", res.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("holidaze: read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var msg apiMessage
		_ = json.Unmarshal(raw, &msg)
		return &APIError{StatusCode: res.StatusCode, Message: msg.text()}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("holidaze: decode response: %w", err)
	}
	return nil
}

// Ping verifies the API is reachable and the API key is accepted.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{"limit": {"1"}}
	if err := c.do(ctx, http.MethodGet, "/holidaze/venues", q, nil, nil, false); err != nil {
		var ae *APIError
		if errors.As(err, &ae) {
			return fmt.Errorf("holidaze ping failed: %w", err)
		}
		return err
	}
	return nil
}
