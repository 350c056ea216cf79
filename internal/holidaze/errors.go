package holidaze

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthenticated is returned before any network call when an endpoint
// needs a bearer token and none is stored.
var ErrUnauthenticated = errors.New("holidaze: not logged in")

// APIError is a non-2xx response from the API, carrying the server's
// message when one could be parsed from the body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("holidaze: %s (status=%d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("holidaze: request failed (status=%d)", e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 from the API, which means the
// stored token is missing, expired, or revoked.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthenticated) {
		return true
	}
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusUnauthorized
}

// IsConflict reports whether err is a 409 from the API, the server-side
// rejection of an overlapping booking.
func IsConflict(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusConflict
}
