package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/internal/shop/service"
	"github.com/ledgerlane/storefront/internal/shop/store"
	"github.com/ledgerlane/storefront/pkg/httpx"
	"github.com/ledgerlane/storefront/pkg/shopsdk"
	"github.com/ledgerlane/storefront/pkg/slogx"
)

// AuthHandler handles login, MFA completion, logout and identity lookup.
type AuthHandler struct {
	AuthService *service.AuthService
	Store       store.Store

	SecureCookies bool
}

func sessionStatus(kind domain.SessionKind) string {
	if kind == domain.SessionPendingMFA {
		return shopsdk.StatusMFARequired
	}
	return shopsdk.StatusAuthenticated
}

// HandleLogin handles POST /v1/auth
//
//	@Summary		Log in with email and password
//	@Description	Verifies the credential and sets the session cookies. Accounts with two-factor enabled receive a short-lived pending session and must call /v1/auth/2fa next.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shopsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	shopsdk.SessionResponse	"Session issued"
//	@Failure		401		{object}	shopsdk.ErrorResponse	"Authentication failed"
//	@Failure		429		{object}	shopsdk.ErrorResponse	"Account locked"
//	@Router			/v1/auth [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req shopsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	issued, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		var locked *service.LockoutError
		switch {
		case errors.As(err, &locked):
			retry := int(locked.RetryAfter.Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			httpx.WriteError(w, http.StatusTooManyRequests, "account_locked", "Too many failed attempts")
		case errors.Is(err, service.ErrAuthenticationFailed):
			// One message for every failure mode.
			httpx.WriteError(w, http.StatusUnauthorized, "authentication_failed", "Invalid email or password")
		default:
			log.Error("login failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	setSessionCookies(w, issued, h.SecureCookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, shopsdk.SessionResponse{
		Status:    sessionStatus(issued.Kind),
		ExpiresAt: issued.ExpiresAt,
	})
}

// HandleMFA handles POST /v1/auth/2fa
//
//	@Summary		Complete two-factor login
//	@Description	Exchanges a pending-MFA session plus a valid TOTP code for an authenticated session. The session token rotates.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shopsdk.MFARequest		true	"TOTP code"
//	@Success		200		{object}	shopsdk.SessionResponse	"Authenticated"
//	@Failure		401		{object}	shopsdk.ErrorResponse	"Invalid code or session"
//	@Failure		429		{object}	shopsdk.ErrorResponse	"Account locked"
//	@Router			/v1/auth/2fa [post].
func (h *AuthHandler) HandleMFA(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	session, ok := sessionFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
		return
	}

	var req shopsdk.MFARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	issued, err := h.AuthService.CompleteMFA(ctx, session, req.Code)
	if err != nil {
		var locked *service.LockoutError
		switch {
		case errors.As(err, &locked):
			retry := int(locked.RetryAfter.Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			httpx.WriteError(w, http.StatusTooManyRequests, "account_locked", "Too many failed attempts")
		case errors.Is(err, service.ErrAuthenticationFailed), errors.Is(err, service.ErrSessionInvalid):
			httpx.WriteError(w, http.StatusUnauthorized, "authentication_failed", "Invalid code")
		default:
			log.Error("mfa completion failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	setSessionCookies(w, issued, h.SecureCookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, shopsdk.SessionResponse{
		Status:    sessionStatus(issued.Kind),
		ExpiresAt: issued.ExpiresAt,
	})
}

// HandleLogout handles DELETE /v1/auth
//
//	@Summary	End the current session
//	@Tags		Auth
//	@Success	204	"Session ended"
//	@Failure	401	{object}	shopsdk.ErrorResponse	"No active session"
//	@Router		/v1/auth [delete].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, ok := sessionFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
		return
	}

	if err := h.AuthService.Logout(ctx, session); err != nil {
		slogx.FromContext(ctx).Error("logout failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	clearSessionCookies(w, h.SecureCookies)
	w.WriteHeader(http.StatusNoContent)
}

// HandleCheck handles GET /v1/auth/check
//
//	@Summary		Session probe
//	@Description	Pure predicate over the current session, cheap enough for an edge proxy to call on every routed request.
//	@Tags			Auth
//	@Success		200	"Session is authenticated"
//	@Failure		401	{object}	shopsdk.ErrorResponse	"No active session"
//	@Router			/v1/auth/check [get].
func (h *AuthHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorFromContext(r.Context()); !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleCheckRole builds the role-gated probes behind /v1/auth/check/{role}.
// A wrong role is the same 401 as no session at all.
func (h *AuthHandler) HandleCheckRole(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromContext(r.Context())
		if !ok || actor.Role != role {
			httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// HandleWhoAmI handles GET /v1/auth
//
//	@Summary	Describe the authenticated identity
//	@Tags		Auth
//	@Produce	json
//	@Success	200	{object}	shopsdk.WhoAmIResponse
//	@Failure	401	{object}	shopsdk.ErrorResponse	"No active session"
//	@Router		/v1/auth [get].
func (h *AuthHandler) HandleWhoAmI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := actorFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
		return
	}

	user, err := h.Store.Users().GetByID(ctx, actor.UserID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load user", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, shopsdk.WhoAmIResponse{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
}
