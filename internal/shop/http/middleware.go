package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/internal/shop/service"
	"github.com/ledgerlane/storefront/internal/shop/store"
	"github.com/ledgerlane/storefront/pkg/cryptox"
	"github.com/ledgerlane/storefront/pkg/httpx"
	"github.com/ledgerlane/storefront/pkg/slogx"
)

// SessionMiddleware gates endpoints on the session state machine. Each
// middleware names the session kinds it accepts; anything else is a plain
// 401 with no hint of what state the caller is actually in.
type SessionMiddleware struct {
	Sessions *service.SessionService
	Store    store.Store
}

// Require accepts only the listed session kinds. State-changing methods must
// also echo the session's CSRF token in the X-CSRF-Token header; the session
// cookie alone never authorizes a write.
func (m *SessionMiddleware) Require(kinds ...domain.SessionKind) httpx.Middleware {
	accepted := make(map[domain.SessionKind]bool, len(kinds))
	for _, kind := range kinds {
		accepted[kind] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			cookie, err := r.Cookie(cookieSession)
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
				return
			}

			session, err := m.Sessions.Resolve(ctx, cookie.Value)
			if err != nil {
				if !errors.Is(err, service.ErrSessionInvalid) {
					slogx.FromContext(ctx).Error("failed to resolve session", "err", err)
					httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
					return
				}
				httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
				return
			}

			if !accepted[session.Kind] {
				httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
				return
			}

			if requiresCSRF(r.Method) {
				header := r.Header.Get(headerCSRF)
				if header == "" || !cryptox.ConstantTimeEquals(header, session.CSRFToken) {
					httpx.WriteError(w, http.StatusForbidden, "csrf_invalid", "Missing or mismatched CSRF token")
					return
				}
			}

			ctx = context.WithValue(ctx, httpx.CtxKeySession, session)
			if session.UserID != "" {
				user, err := m.Store.Users().GetByID(ctx, session.UserID)
				if err != nil {
					// Session outlived its account.
					httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
					return
				}
				ctx = context.WithValue(ctx, httpx.CtxKeyUserID, user.ID)
				ctx = context.WithValue(ctx, httpx.CtxKeyRole, user.Role)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requiresCSRF(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

// RequireAdmin runs after Require and rejects non-administrators.
func RequireAdmin() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(httpx.CtxKeyRole).(domain.Role)
			if !ok || role != domain.RoleAdministrator {
				httpx.WriteError(w, http.StatusForbidden, "forbidden", "Administrator access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Context accessors for handlers running behind the session middleware.

func sessionFromContext(ctx context.Context) (domain.Session, bool) {
	session, ok := ctx.Value(httpx.CtxKeySession).(domain.Session)
	return session, ok
}

func actorFromContext(ctx context.Context) (service.Actor, bool) {
	userID, ok := ctx.Value(httpx.CtxKeyUserID).(string)
	if !ok || userID == "" {
		return service.Actor{}, false
	}
	role, _ := ctx.Value(httpx.CtxKeyRole).(domain.Role)
	return service.Actor{UserID: userID, Role: role}, true
}
