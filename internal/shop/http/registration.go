package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/internal/shop/service"
	"github.com/ledgerlane/storefront/pkg/httpx"
	"github.com/ledgerlane/storefront/pkg/shopsdk"
	"github.com/ledgerlane/storefront/pkg/slogx"
)

// RegistrationHandler implements the two-step signup flow.
type RegistrationHandler struct {
	RegistrationService *service.RegistrationService

	SecureCookies bool
}

// HandleBegin handles POST /v1/register
//
//	@Summary		Start registration with profile details
//	@Description	Validates the profile and opens a short-lived registration session. No account exists until the credential step completes.
//	@Tags			Registration
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shopsdk.RegisterBeginRequest	true	"Email and profile"
//	@Success		200		{object}	shopsdk.SessionResponse			"Registration session opened"
//	@Failure		400		{object}	shopsdk.ErrorResponse			"Invalid email or profile"
//	@Failure		409		{object}	shopsdk.ErrorResponse			"Email already registered"
//	@Router			/v1/register [post].
func (h *RegistrationHandler) HandleBegin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req shopsdk.RegisterBeginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	issued, err := h.RegistrationService.Begin(ctx, req.Email, domain.Profile{
		Forename: req.Forename,
		Surname:  req.Surname,
		Address:  req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusConflict, "email_taken", "Email already registered")
		case errors.Is(err, service.ErrInvalidEmail), errors.Is(err, service.ErrInvalidProfile):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			log.Error("registration begin failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	setSessionCookies(w, issued, h.SecureCookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, shopsdk.SessionResponse{
		Status:    "registration",
		ExpiresAt: issued.ExpiresAt,
	})
}

// HandleComplete handles POST /v1/register/credential
//
//	@Summary		Finish registration with a password
//	@Description	Commits the account from the registration session and signs the new user in. The registration session retires atomically with the account insert.
//	@Tags			Registration
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shopsdk.RegisterCompleteRequest	true	"Password"
//	@Success		201		{object}	shopsdk.SessionResponse			"Account created, session issued"
//	@Failure		400		{object}	shopsdk.ErrorResponse			"Password outside 8-128 characters"
//	@Failure		401		{object}	shopsdk.ErrorResponse			"No registration session"
//	@Failure		409		{object}	shopsdk.ErrorResponse			"Email already registered"
//	@Router			/v1/register/credential [post].
func (h *RegistrationHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	session, ok := sessionFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
		return
	}

	var req shopsdk.RegisterCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	_, issued, err := h.RegistrationService.Complete(ctx, session, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusConflict, "email_taken", "Email already registered")
		case errors.Is(err, service.ErrInvalidPassword):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_password", err.Error())
		case errors.Is(err, service.ErrSessionInvalid):
			httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
		default:
			log.Error("registration complete failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	setSessionCookies(w, issued, h.SecureCookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, shopsdk.SessionResponse{
		Status:    sessionStatus(issued.Kind),
		ExpiresAt: issued.ExpiresAt,
	})
}
