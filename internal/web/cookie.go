package web

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const cookieName = "holidaze_sid"

const cookieAge = 14 * 24 * time.Hour

// Cookies signs and encrypts the session-id cookie. The cookie only ever
// carries an opaque id; everything else lives server-side.
type Cookies struct {
	sc *securecookie.SecureCookie
}

func NewCookies(hashKey, blockKey []byte) *Cookies {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(cookieAge.Seconds()))
	return &Cookies{sc: sc}
}

func (c *Cookies) Set(w http.ResponseWriter, r *http.Request, sid string) error {
	encoded, err := c.sc.Encode(cookieName, map[string]string{"sid": sid})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
		MaxAge:   int(cookieAge.Seconds()),
	})
	return nil
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// SID extracts and verifies the session id from the request's cookie.
func (c *Cookies) SID(r *http.Request) (string, bool) {
	ck, err := r.Cookie(cookieName)
	if err != nil {
		return "", false
	}
	val := map[string]string{}
	if err := c.sc.Decode(cookieName, ck.Value, &val); err != nil {
		return "", false
	}
	sid, ok := val["sid"]
	return sid, ok && sid != ""
}
