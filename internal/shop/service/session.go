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

// Default session lifetimes. Pre-auth sessions are short because they hold a
// half-finished security decision; authenticated sessions last a week.
const (
	DefaultAuthenticatedTTL = 7 * 24 * time.Hour
	DefaultPendingMFATTL    = 5 * time.Minute
	DefaultRegistrationTTL  = 30 * time.Minute
)

var ErrSessionInvalid = errors.New("session invalid or expired")

// SessionService owns the opaque-token session lifecycle. Tokens are random,
// stored only as SHA-256 fingerprints, and every session carries a CSRF token
// that state-changing requests must echo in a header.
type SessionService struct {
	Store store.Store

	AuthenticatedTTL time.Duration
	PendingMFATTL    time.Duration
	RegistrationTTL  time.Duration
}

func (s *SessionService) ttlFor(kind domain.SessionKind) time.Duration {
	pick := func(configured, fallback time.Duration) time.Duration {
		if configured > 0 {
			return configured
		}
		return fallback
	}

	switch kind {
	case domain.SessionRegistration:
		return pick(s.RegistrationTTL, DefaultRegistrationTTL)
	case domain.SessionPendingMFA:
		return pick(s.PendingMFATTL, DefaultPendingMFATTL)
	default:
		return pick(s.AuthenticatedTTL, DefaultAuthenticatedTTL)
	}
}

// Issue creates a session of the given kind. userID is empty for
// registration sessions; data carries the encrypted registration payload.
func (s *SessionService) Issue(ctx context.Context, userID string, kind domain.SessionKind, data []byte) (domain.IssuedSession, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSizeSession)
	if err != nil {
		return domain.IssuedSession{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	csrfToken, err := cryptox.GenerateToken(cryptox.TokenSizeCSRF)
	if err != nil {
		return domain.IssuedSession{}, fmt.Errorf("failed to generate csrf token: %w", err)
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.ttlFor(kind))

	err = s.Store.Sessions().Create(ctx, domain.Session{
		TokenHash: cryptox.FingerprintToken(token),
		UserID:    userID,
		Kind:      kind,
		CSRFToken: csrfToken,
		Data:      data,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	})
	if err != nil {
		return domain.IssuedSession{}, fmt.Errorf("failed to store session: %w", err)
	}

	return domain.IssuedSession{
		Token:     token,
		CSRFToken: csrfToken,
		Kind:      kind,
		ExpiresAt: expiresAt,
	}, nil
}

// Resolve looks up the session for a raw cookie token. Expired sessions are
// deleted on sight and reported as invalid.
func (s *SessionService) Resolve(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, ErrSessionInvalid
	}

	tokenHash := cryptox.FingerprintToken(token)
	session, err := s.Store.Sessions().GetByTokenHash(ctx, tokenHash)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, ErrSessionInvalid
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	if session.Expired(time.Now().UTC()) {
		_ = s.Store.Sessions().Delete(ctx, tokenHash)
		return domain.Session{}, ErrSessionInvalid
	}

	return session, nil
}

// Replace atomically swaps one session for another of a new kind: the token
// rotates on every privilege change so a pre-auth cookie can never be
// upgraded in place.
func (s *SessionService) Replace(ctx context.Context, old domain.Session, userID string, kind domain.SessionKind) (domain.IssuedSession, error) {
	issued, err := s.Issue(ctx, userID, kind, nil)
	if err != nil {
		return domain.IssuedSession{}, err
	}

	if err := s.Store.Sessions().Delete(ctx, old.TokenHash); err != nil && !errors.Is(err, store.ErrNotFound) {
		return domain.IssuedSession{}, fmt.Errorf("failed to retire old session: %w", err)
	}
	return issued, nil
}

// Revoke ends a single session. Revoking an already-gone session is fine.
func (s *SessionService) Revoke(ctx context.Context, tokenHash string) error {
	err := s.Store.Sessions().Delete(ctx, tokenHash)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// RevokeAllForUser ends every session the user holds, e.g. after a password
// change.
func (s *SessionService) RevokeAllForUser(ctx context.Context, userID string) error {
	return s.Store.Sessions().DeleteByUser(ctx, userID)
}
