package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/internal/shop/service"
	"github.com/ledgerlane/storefront/internal/shop/store"
	"github.com/ledgerlane/storefront/pkg/httpx"
	"github.com/ledgerlane/storefront/pkg/shopsdk"
	"github.com/ledgerlane/storefront/pkg/slogx"
)

// UserHandler covers account reads, profile and credential updates, role
// promotion and two-factor management.
type UserHandler struct {
	UserService    *service.UserService
	SessionService *service.SessionService

	SecureCookies bool
}

// HandleGet handles GET /v1/users/{id}
//
//	@Summary		Fetch an account with its decrypted profile
//	@Description	Owner or administrator only. Personal fields are decrypted for this response and nowhere else.
//	@Tags			Users
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	shopsdk.UserResponse
//	@Failure		403	{object}	shopsdk.ErrorResponse	"Not the owner"
//	@Failure		404	{object}	shopsdk.ErrorResponse	"Unknown user"
//	@Router			/v1/users/{id} [get].
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := actorFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
		return
	}

	user, profile, err := h.UserService.Get(ctx, actor, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "Not allowed")
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Unknown user")
		default:
			slogx.FromContext(ctx).Error("failed to load user", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, shopsdk.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Role:        string(user.Role),
		Forename:    profile.Forename,
		Surname:     profile.Surname,
		Address:     profile.Address,
		TOTPEnabled: user.TOTPActive(),
		CreatedAt:   user.CreatedAt,
	})
}

// HandleList handles GET /v1/users
//
//	@Summary	List accounts (administrator)
//	@Tags		Users
//	@Produce	json
//	@Param		email	query		string	false	"Email substring filter"
//	@Param		role	query		string	false	"Role filter"
//	@Success	200		{array}		shopsdk.UserSummary
//	@Failure	403		{object}	shopsdk.ErrorResponse	"Administrator access required"
//	@Router		/v1/users [get].
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.UserService.List(ctx, domain.UserSearch{
		Email: r.URL.Query().Get("email"),
		Role:  domain.Role(r.URL.Query().Get("role")),
	})
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list users", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	out := make([]shopsdk.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, shopsdk.UserSummary{
			ID:        u.ID,
			Email:     u.Email,
			Role:      string(u.Role),
			CreatedAt: u.CreatedAt,
		})
	}
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleUpdateProfile handles PUT /v1/users/{id}
//
//	@Summary	Replace the personal profile fields
//	@Tags		Users
//	@Accept		json
//	@Param		id		path	string							true	"User ID"
//	@Param		request	body	shopsdk.UpdateProfileRequest	true	"New profile"
//	@Success	204		"Updated"
//	@Failure	400		{object}	shopsdk.ErrorResponse	"Missing fields"
//	@Failure	403		{object}	shopsdk.ErrorResponse	"Not the owner"
//	@Failure	404		{object}	shopsdk.ErrorResponse	"Unknown user"
//	@Router		/v1/users/{id} [put].
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := actorFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
		return
	}

	var req shopsdk.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	err := h.UserService.UpdateProfile(ctx, actor, r.PathValue("id"), domain.Profile{
		Forename: req.Forename,
		Surname:  req.Surname,
		Address:  req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "Not allowed")
		case errors.Is(err, service.ErrInvalidProfile):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Unknown user")
		default:
			slogx.FromContext(ctx).Error("failed to update profile", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleUpdatePassword handles PUT /v1/users/password
//
//	@Summary		Change the password
//	@Description	Verifies the current password, rotates the credential and revokes every session. A fresh session is issued for the caller.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shopsdk.UpdatePasswordRequest	true	"Current and new password"
//	@Success		200		{object}	shopsdk.SessionResponse			"New session issued"
//	@Failure		400		{object}	shopsdk.ErrorResponse			"New password outside 8-128 characters"
//	@Failure		403		{object}	shopsdk.ErrorResponse			"Current password incorrect"
//	@Router			/v1/users/password [put].
func (h *UserHandler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actor, ok := actorFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
		return
	}

	var req shopsdk.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	err := h.UserService.UpdatePassword(ctx, actor.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredential):
			httpx.WriteError(w, http.StatusForbidden, "invalid_credential", "Current password incorrect")
		case errors.Is(err, service.ErrInvalidPassword):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_password", err.Error())
		default:
			log.Error("failed to update password", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	// Every old session is gone; hand the caller a new one so they stay
	// signed in.
	issued, err := h.SessionService.Issue(ctx, actor.UserID, domain.SessionAuthenticated, nil)
	if err != nil {
		log.Error("failed to reissue session", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	setSessionCookies(w, issued, h.SecureCookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, shopsdk.SessionResponse{
		Status:    sessionStatus(issued.Kind),
		ExpiresAt: issued.ExpiresAt,
	})
}

// HandlePromote handles POST /v1/users/{id}/promote
//
//	@Summary	Promote a customer to administrator
//	@Tags		Users
//	@Param		id	path	string	true	"User ID"
//	@Success	204	"Promoted"
//	@Failure	403	{object}	shopsdk.ErrorResponse	"Administrator access required"
//	@Failure	404	{object}	shopsdk.ErrorResponse	"Unknown user"
//	@Router		/v1/users/{id}/promote [post].
func (h *UserHandler) HandlePromote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := h.UserService.Promote(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Unknown user")
			return
		}
		slogx.FromContext(ctx).Error("failed to promote user", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE /v1/users/{id}
//
//	@Summary	Delete an account
//	@Tags		Users
//	@Param		id	path	string	true	"User ID"
//	@Success	204	"Deleted"
//	@Failure	403	{object}	shopsdk.ErrorResponse	"Not the owner"
//	@Failure	404	{object}	shopsdk.ErrorResponse	"Unknown user"
//	@Router		/v1/users/{id} [delete].
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := actorFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
		return
	}

	targetID := r.PathValue("id")
	err := h.UserService.Delete(ctx, actor, targetID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "Not allowed")
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Unknown user")
		default:
			slogx.FromContext(ctx).Error("failed to delete user", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	if targetID == actor.UserID {
		clearSessionCookies(w, h.SecureCookies)
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleEnrollTOTP handles POST /v1/users/2fa/enroll
//
//	@Summary		Start two-factor enrollment
//	@Description	Generates a TOTP secret and stages it. Login is unaffected until the secret is confirmed with a valid code.
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	shopsdk.TOTPEnrollResponse	"Secret, shown once"
//	@Failure		409	{object}	shopsdk.ErrorResponse		"Two-factor already enabled"
//	@Router			/v1/users/2fa/enroll [post].
func (h *UserHandler) HandleEnrollTOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := actorFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
		return
	}

	enrollment, err := h.UserService.BeginTOTPEnrollment(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, service.ErrTOTPAlreadyActive) {
			httpx.WriteError(w, http.StatusConflict, "totp_enabled", "Two-factor already enabled")
			return
		}
		slogx.FromContext(ctx).Error("failed to start TOTP enrollment", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, shopsdk.TOTPEnrollResponse{
		Secret: enrollment.Secret,
		URL:    enrollment.URL,
	})
}

// HandleConfirmTOTP handles POST /v1/users/2fa/confirm
//
//	@Summary	Confirm two-factor enrollment with a code
//	@Tags		Users
//	@Accept		json
//	@Param		request	body	shopsdk.TOTPCodeRequest	true	"TOTP code"
//	@Success	204		"Two-factor enabled"
//	@Failure	400		{object}	shopsdk.ErrorResponse	"Invalid code"
//	@Failure	409		{object}	shopsdk.ErrorResponse	"No enrollment in progress"
//	@Router		/v1/users/2fa/confirm [post].
func (h *UserHandler) HandleConfirmTOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := actorFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
		return
	}

	var req shopsdk.TOTPCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	err := h.UserService.ConfirmTOTPEnrollment(ctx, actor.UserID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTOTPNotEnrolled):
			httpx.WriteError(w, http.StatusConflict, "totp_not_enrolled", "No enrollment in progress")
		case errors.Is(err, service.ErrInvalidTOTPCode):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_code", "Invalid TOTP code")
		default:
			slogx.FromContext(ctx).Error("failed to confirm TOTP enrollment", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDisableTOTP handles DELETE /v1/users/2fa
//
//	@Summary	Disable two-factor with a valid code
//	@Tags		Users
//	@Accept		json
//	@Param		request	body	shopsdk.TOTPCodeRequest	true	"TOTP code"
//	@Success	204		"Two-factor disabled"
//	@Failure	400		{object}	shopsdk.ErrorResponse	"Invalid code"
//	@Failure	409		{object}	shopsdk.ErrorResponse	"Two-factor not enabled"
//	@Router		/v1/users/2fa [delete].
func (h *UserHandler) HandleDisableTOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := actorFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
		return
	}

	var req shopsdk.TOTPCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	err := h.UserService.DisableTOTP(ctx, actor.UserID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTOTPNotActive):
			httpx.WriteError(w, http.StatusConflict, "totp_not_enabled", "Two-factor not enabled")
		case errors.Is(err, service.ErrInvalidTOTPCode):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_code", "Invalid TOTP code")
		default:
			slogx.FromContext(ctx).Error("failed to disable TOTP", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
