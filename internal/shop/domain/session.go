package domain

import "time"

// SessionKind encodes the authentication state machine as a closed enum:
// no session = unauthenticated, SessionPendingMFA = password verified but
// awaiting the second factor, SessionAuthenticated = fully signed in.
// SessionRegistration carries a signup in progress before any user exists.
type SessionKind string

const (
	SessionRegistration  SessionKind = "registration"
	SessionPendingMFA    SessionKind = "pending_mfa"
	SessionAuthenticated SessionKind = "authenticated"
)

// Session is the server-side session record. The opaque token handed to the
// client is never stored; only its SHA-256 fingerprint is.
type Session struct {
	TokenHash string
	UserID    string // empty for registration sessions
	Kind      SessionKind
	CSRFToken string
	Data      []byte // encrypted registration profile payload, nil otherwise
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// IssuedSession is what a freshly created session looks like to the HTTP
// layer: the raw token (for the cookie) plus its CSRF pair.
type IssuedSession struct {
	Token     string
	CSRFToken string
	Kind      SessionKind
	ExpiresAt time.Time
}
