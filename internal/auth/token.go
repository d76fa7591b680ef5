package auth

import (
	"net/http"
	"strings"
)

const (
	// CookieName carries the signed session token for browsers.
	CookieName = "session_token"
	// HeaderName echoes the token to clients that cannot keep cookies, such as
	// an embedded webview, and is read back on their next request.
	HeaderName = "X-Session-Token"
)

// ExtractToken returns the session token from the cookie, falling back to the
// session header. An empty string means the request carries no session.
func ExtractToken(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return strings.TrimSpace(r.Header.Get(HeaderName))
}
