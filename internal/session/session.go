// Package session provides shared session cookie constants and helpers used
// by both the handler and middleware packages.
package session

import "net/http"

const (
	// CookieName is the name of the cookie that stores the session token.
	CookieName = "website_session"

	// CookiePath ensures the cookie is sent with all requests.
	CookiePath = "/"
)

// SetCookie sets the session cookie on the response. maxAge is the cookie
// lifetime in seconds, derived by the caller from the session expiry so the
// two never drift apart; values below 1 produce a session-scoped cookie.
//
// Cookie Settings:
// - HttpOnly: true - Prevents JavaScript access (XSS protection)
// - Secure: configurable - Set true in production (HTTPS only)
// - SameSite: Lax - Prevents CSRF while allowing normal navigation
func SetCookie(w http.ResponseWriter, token string, maxAge int, isSecure bool) {
	if maxAge < 0 {
		maxAge = 0
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     CookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie removes the session cookie from the client by setting MaxAge
// to -1.
func ClearCookie(w http.ResponseWriter, isSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     CookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
