package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/internal/shop/store"
	"github.com/ledgerlane/storefront/pkg/cryptox"
	"github.com/ledgerlane/storefront/pkg/idx"
)

var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrInvalidPassword = errors.New("password must be between 8 and 128 characters")
	ErrInvalidProfile  = errors.New("forename, surname and address are required")
)

// registrationPayload is what a registration session carries between the two
// steps, encrypted at rest.
type registrationPayload struct {
	Email   string         `json:"email"`
	Profile domain.Profile `json:"profile"`
}

// RegistrationService implements two-step signup: Begin stores the profile in
// an encrypted registration session, Complete takes the password and commits
// the account. No user row exists until Complete succeeds, so an abandoned
// signup leaves nothing behind but an expiring session.
type RegistrationService struct {
	Store    store.Store
	Sessions *SessionService
	Cipher   *cryptox.FieldCipher
}

// Begin validates the profile and parks it in a registration session.
// The email is only checked optimistically here; the race is settled by the
// unique constraint at Complete.
func (s *RegistrationService) Begin(ctx context.Context, email string, profile domain.Profile) (domain.IssuedSession, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.IssuedSession{}, ErrInvalidEmail
	}
	if profile.Forename == "" || profile.Surname == "" || profile.Address == "" {
		return domain.IssuedSession{}, ErrInvalidProfile
	}

	_, err := s.Store.Users().GetByEmail(ctx, email)
	if err == nil {
		return domain.IssuedSession{}, ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.IssuedSession{}, fmt.Errorf("failed to check email: %w", err)
	}

	payload, err := json.Marshal(registrationPayload{Email: email, Profile: profile})
	if err != nil {
		return domain.IssuedSession{}, fmt.Errorf("failed to encode registration payload: %w", err)
	}

	sealed, err := s.Cipher.EncryptBytes(payload)
	if err != nil {
		return domain.IssuedSession{}, fmt.Errorf("failed to encrypt registration payload: %w", err)
	}

	return s.Sessions.Issue(ctx, "", domain.SessionRegistration, sealed)
}

// Complete sets the credential and creates the account. The user row and the
// registration session retire in one transaction; if the insert loses an
// email race the whole step rolls back and the caller sees ErrEmailTaken.
func (s *RegistrationService) Complete(ctx context.Context, session domain.Session, password string) (domain.User, domain.IssuedSession, error) {
	if session.Kind != domain.SessionRegistration {
		return domain.User{}, domain.IssuedSession{}, ErrSessionInvalid
	}

	if len(password) < cryptox.PasswordMinLength || len(password) > cryptox.PasswordMaxLength {
		return domain.User{}, domain.IssuedSession{}, ErrInvalidPassword
	}

	raw, err := s.Cipher.DecryptBytes(session.Data)
	if err != nil {
		return domain.User{}, domain.IssuedSession{}, fmt.Errorf("failed to decrypt registration payload: %w", err)
	}
	var payload registrationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.User{}, domain.IssuedSession{}, fmt.Errorf("failed to decode registration payload: %w", err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, domain.IssuedSession{}, fmt.Errorf("failed to hash password: %w", err)
	}

	encForename, err := s.Cipher.Encrypt(payload.Profile.Forename)
	if err != nil {
		return domain.User{}, domain.IssuedSession{}, fmt.Errorf("failed to encrypt profile: %w", err)
	}
	encSurname, err := s.Cipher.Encrypt(payload.Profile.Surname)
	if err != nil {
		return domain.User{}, domain.IssuedSession{}, fmt.Errorf("failed to encrypt profile: %w", err)
	}
	encAddress, err := s.Cipher.Encrypt(payload.Profile.Address)
	if err != nil {
		return domain.User{}, domain.IssuedSession{}, fmt.Errorf("failed to encrypt profile: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:                idx.New().String(),
		Email:             payload.Email,
		EncryptedForename: encForename,
		EncryptedSurname:  encSurname,
		EncryptedAddress:  encAddress,
		Role:              domain.RoleCustomer,
		PasswordHash:      hash,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		if err := tx.Sessions().Delete(ctx, session.TokenHash); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return nil
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.User{}, domain.IssuedSession{}, ErrEmailTaken
	}
	if err != nil {
		return domain.User{}, domain.IssuedSession{}, fmt.Errorf("failed to create user: %w", err)
	}

	issued, err := s.Sessions.Issue(ctx, user.ID, domain.SessionAuthenticated, nil)
	if err != nil {
		return domain.User{}, domain.IssuedSession{}, err
	}
	return user, issued, nil
}
