package holidaze

import (
	"context"
	"net/http"
	"net/url"
)

// LoginResult is the token plus profile returned by a successful login. The
// caller is responsible for mirroring it into the session store.
type LoginResult struct {
	AccessToken string
	Profile     Profile
}

// Login exchanges email/password for a bearer token. The _holidaze flag
// asks the auth endpoint to include the venueManager field.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var env struct {
		Data struct {
			Profile
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	q := url.Values{"_holidaze": {"true"}}
	if err := c.do(ctx, http.MethodPost, "/auth/login", q, in, &env, false); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{AccessToken: env.Data.AccessToken, Profile: env.Data.Profile}, nil
}

// RegisterRequest is the new-account payload. Name and Email are required
// by the API; VenueManager opts the account into venue management.
type RegisterRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	VenueManager bool   `json:"venueManager"`
}

// Register creates an account. It does not log in; callers follow up with
// Login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (Profile, error) {
	var env struct {
		Data Profile `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &env, false); err != nil {
		return Profile{}, err
	}
	return env.Data, nil
}
