package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/internal/shop/store"
	"github.com/ledgerlane/storefront/pkg/cryptox"
)

// ErrAuthenticationFailed covers every login rejection: unknown email, wrong
// password, wrong or replayed TOTP code. One error, so responses cannot be
// used to probe which part was wrong.
var ErrAuthenticationFailed = errors.New("authentication failed")

type AuthService struct {
	Store    store.Store
	Sessions *SessionService
	Throttle *LoginThrottle
}

// Login verifies the password and issues either an authenticated session or,
// when the account has TOTP enabled, a pending-MFA session that only
// CompleteMFA can upgrade.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.IssuedSession, error) {
	key := ThrottleKey(email)

	if err := s.Throttle.Allow(ctx, key); err != nil {
		return domain.IssuedSession{}, err
	}

	user, err := s.Store.Users().GetByEmail(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		// Burn the same work as a real verification so response timing does
		// not reveal whether the account exists.
		cryptox.DummyVerify(password)
		if err := s.Throttle.RecordFailure(ctx, key); err != nil {
			return domain.IssuedSession{}, err
		}
		return domain.IssuedSession{}, ErrAuthenticationFailed
	}
	if err != nil {
		return domain.IssuedSession{}, fmt.Errorf("failed to load user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.IssuedSession{}, fmt.Errorf("failed to verify password: %w", err)
		}
		if err := s.Throttle.RecordFailure(ctx, key); err != nil {
			return domain.IssuedSession{}, err
		}
		return domain.IssuedSession{}, ErrAuthenticationFailed
	}

	if err := s.Throttle.Reset(ctx, key); err != nil {
		return domain.IssuedSession{}, fmt.Errorf("failed to reset login attempts: %w", err)
	}

	kind := domain.SessionAuthenticated
	if user.TOTPActive() {
		kind = domain.SessionPendingMFA
	}
	return s.Sessions.Issue(ctx, user.ID, kind, nil)
}

// CompleteMFA upgrades a pending-MFA session to authenticated after a valid,
// unused TOTP code. The session token rotates on upgrade.
func (s *AuthService) CompleteMFA(ctx context.Context, session domain.Session, code string) (domain.IssuedSession, error) {
	if session.Kind != domain.SessionPendingMFA {
		return domain.IssuedSession{}, ErrSessionInvalid
	}

	user, err := s.Store.Users().GetByID(ctx, session.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.IssuedSession{}, ErrSessionInvalid
	}
	if err != nil {
		return domain.IssuedSession{}, fmt.Errorf("failed to load user: %w", err)
	}

	if !user.TOTPActive() {
		return domain.IssuedSession{}, ErrSessionInvalid
	}

	// Code guessing counts against the same lockout as password guessing.
	key := ThrottleKey(user.Email)
	if err := s.Throttle.Allow(ctx, key); err != nil {
		return domain.IssuedSession{}, err
	}

	step, ok := matchTOTPStep(*user.TOTPSecret, code, time.Now().UTC())
	if !ok {
		if err := s.Throttle.RecordFailure(ctx, key); err != nil {
			return domain.IssuedSession{}, err
		}
		return domain.IssuedSession{}, ErrAuthenticationFailed
	}

	// Marking the step fails if an earlier request already consumed this
	// code, which makes each code single use.
	if err := s.Store.Users().MarkTOTPStep(ctx, user.ID, step); err != nil {
		if errors.Is(err, store.ErrStaleState) {
			if err := s.Throttle.RecordFailure(ctx, key); err != nil {
				return domain.IssuedSession{}, err
			}
			return domain.IssuedSession{}, ErrAuthenticationFailed
		}
		return domain.IssuedSession{}, fmt.Errorf("failed to record totp step: %w", err)
	}

	if err := s.Throttle.Reset(ctx, key); err != nil {
		return domain.IssuedSession{}, fmt.Errorf("failed to reset login attempts: %w", err)
	}

	return s.Sessions.Replace(ctx, session, user.ID, domain.SessionAuthenticated)
}

// Logout ends the presented session.
func (s *AuthService) Logout(ctx context.Context, session domain.Session) error {
	return s.Sessions.Revoke(ctx, session.TokenHash)
}
