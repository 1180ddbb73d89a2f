package http

import (
	"net/http"

	"github.com/ledgerlane/storefront/internal/shop/domain"
)

const (
	// cookieSession carries the opaque session token. HttpOnly, so scripts
	// can never read it.
	cookieSession = "session"

	// cookieCSRF carries the CSRF pair token. Deliberately script-readable:
	// the front end reads it and echoes it in the X-CSRF-Token header.
	cookieCSRF = "session_csrf"
)

const headerCSRF = "X-CSRF-Token"

func setSessionCookies(w http.ResponseWriter, issued domain.IssuedSession, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieSession,
		Value:    issued.Token,
		Path:     "/",
		Expires:  issued.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     cookieCSRF,
		Value:    issued.CSRFToken,
		Path:     "/",
		Expires:  issued.ExpiresAt,
		HttpOnly: false,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearSessionCookies(w http.ResponseWriter, secure bool) {
	for _, name := range []string{cookieSession, cookieCSRF} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: name == cookieSession,
			Secure:   secure,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
