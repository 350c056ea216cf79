package holidaze

import (
	"context"
	"net/http"
	"net/url"
)

// GetProfile fetches a profile by name.
func (c *Client) GetProfile(ctx context.Context, name string) (Profile, error) {
	var env struct {
		Data Profile `json:"data"`
	}
	path := "/holidaze/profiles/" + url.PathEscape(name)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &env, true); err != nil {
		return Profile{}, err
	}
	return env.Data, nil
}

// UpdateProfile changes avatar, banner, or the venueManager flag and
// returns the updated profile.
func (c *Client) UpdateProfile(ctx context.Context, name string, upd ProfileUpdate) (Profile, error) {
	var env struct {
		Data Profile `json:"data"`
	}
	path := "/holidaze/profiles/" + url.PathEscape(name)
	if err := c.do(ctx, http.MethodPut, path, nil, upd, &env, true); err != nil {
		return Profile{}, err
	}
	return env.Data, nil
}
