package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/internal/shop/store"
	"github.com/ledgerlane/storefront/pkg/cryptox"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var (
	ErrForbidden         = errors.New("not allowed")
	ErrTOTPAlreadyActive = errors.New("two-factor already enabled")
	ErrTOTPNotEnrolled   = errors.New("no two-factor enrollment in progress")
	ErrTOTPNotActive     = errors.New("two-factor not enabled")
	ErrInvalidTOTPCode   = errors.New("invalid TOTP code")
	ErrInvalidCredential = errors.New("current password incorrect")
)

// UserService handles account reads and writes. Personal fields are
// decrypted only here, and only for the record owner or an administrator.
type UserService struct {
	Store  store.Store
	Cipher *cryptox.FieldCipher
	Issuer string // TOTP issuer shown in authenticator apps
}

// Actor identifies who is performing an operation, for ownership checks.
type Actor struct {
	UserID string
	Role   domain.Role
}

func (a Actor) admin() bool                  { return a.Role == domain.RoleAdministrator }
func (a Actor) canAccess(userID string) bool { return a.admin() || a.UserID == userID }

func (s *UserService) decryptProfile(u domain.User) (domain.Profile, error) {
	forename, err := s.Cipher.Decrypt(u.EncryptedForename)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to decrypt profile: %w", err)
	}
	surname, err := s.Cipher.Decrypt(u.EncryptedSurname)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to decrypt profile: %w", err)
	}
	address, err := s.Cipher.Decrypt(u.EncryptedAddress)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to decrypt profile: %w", err)
	}
	return domain.Profile{Forename: forename, Surname: surname, Address: address}, nil
}

// Get returns the user and their decrypted profile, owner-or-admin only.
func (s *UserService) Get(ctx context.Context, actor Actor, userID string) (domain.User, domain.Profile, error) {
	if !actor.canAccess(userID) {
		return domain.User{}, domain.Profile{}, ErrForbidden
	}

	user, err := s.Store.Users().GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, domain.Profile{}, err
	}

	profile, err := s.decryptProfile(user)
	if err != nil {
		return domain.User{}, domain.Profile{}, err
	}
	return user, profile, nil
}

// List is the administrator account listing. Profiles stay encrypted; the
// listing shows emails and roles only.
func (s *UserService) List(ctx context.Context, search domain.UserSearch) ([]domain.User, error) {
	return s.Store.Users().List(ctx, search)
}

// UpdateProfile re-encrypts and stores the personal fields.
func (s *UserService) UpdateProfile(ctx context.Context, actor Actor, userID string, profile domain.Profile) error {
	if !actor.canAccess(userID) {
		return ErrForbidden
	}
	if profile.Forename == "" || profile.Surname == "" || profile.Address == "" {
		return ErrInvalidProfile
	}

	encForename, err := s.Cipher.Encrypt(profile.Forename)
	if err != nil {
		return fmt.Errorf("failed to encrypt profile: %w", err)
	}
	encSurname, err := s.Cipher.Encrypt(profile.Surname)
	if err != nil {
		return fmt.Errorf("failed to encrypt profile: %w", err)
	}
	encAddress, err := s.Cipher.Encrypt(profile.Address)
	if err != nil {
		return fmt.Errorf("failed to encrypt profile: %w", err)
	}

	return s.Store.Users().UpdateProfile(ctx, userID, encForename, encSurname, encAddress)
}

// UpdatePassword changes the credential after verifying the current one, and
// revokes every session the user holds. The caller issues a fresh session.
func (s *UserService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < cryptox.PasswordMinLength || len(newPassword) > cryptox.PasswordMaxLength {
		return ErrInvalidPassword
	}

	user, err := s.Store.Users().GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := cryptox.VerifyPassword(currentPassword, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return ErrInvalidCredential
		}
		return fmt.Errorf("failed to verify password: %w", err)
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
			return err
		}
		return tx.Sessions().DeleteByUser(ctx, userID)
	})
}

// Promote raises a customer to administrator. Promoting an administrator is
// a no-op.
func (s *UserService) Promote(ctx context.Context, userID string) error {
	return s.Store.Users().UpdateRole(ctx, userID, domain.RoleAdministrator)
}

// Delete removes the account. Sessions and orders cascade at the database.
func (s *UserService) Delete(ctx context.Context, actor Actor, userID string) error {
	if !actor.canAccess(userID) {
		return ErrForbidden
	}
	return s.Store.Users().Delete(ctx, userID)
}

// TOTPEnrollment is handed back once at enrollment start; the secret is
// never shown again.
type TOTPEnrollment struct {
	Secret string
	URL    string
}

// BeginTOTPEnrollment generates a fresh secret and stages it as pending.
// Login behaviour is unchanged until the user confirms with a valid code.
func (s *UserService) BeginTOTPEnrollment(ctx context.Context, userID string) (TOTPEnrollment, error) {
	user, err := s.Store.Users().GetByID(ctx, userID)
	if err != nil {
		return TOTPEnrollment{}, err
	}
	if user.TOTPActive() {
		return TOTPEnrollment{}, ErrTOTPAlreadyActive
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return TOTPEnrollment{}, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	if err := s.Store.Users().SetPendingTOTPSecret(ctx, userID, key.Secret()); err != nil {
		return TOTPEnrollment{}, fmt.Errorf("failed to store pending TOTP secret: %w", err)
	}

	return TOTPEnrollment{Secret: key.Secret(), URL: key.URL()}, nil
}

// ConfirmTOTPEnrollment activates the pending secret once the user proves
// they can generate codes from it.
func (s *UserService) ConfirmTOTPEnrollment(ctx context.Context, userID, code string) error {
	user, err := s.Store.Users().GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TOTPPendingSecret == nil || *user.TOTPPendingSecret == "" {
		return ErrTOTPNotEnrolled
	}

	step, ok := matchTOTPStep(*user.TOTPPendingSecret, code, time.Now().UTC())
	if !ok {
		return ErrInvalidTOTPCode
	}

	// The confirming code is spent here, so it cannot double as a login code.
	err = s.Store.Users().ConfirmTOTPSecret(ctx, userID, *user.TOTPPendingSecret, time.Now().UTC(), step)
	if errors.Is(err, store.ErrStaleState) {
		return ErrTOTPNotEnrolled
	}
	if err != nil {
		return fmt.Errorf("failed to confirm TOTP secret: %w", err)
	}
	return nil
}

// DisableTOTP turns off the second factor after a valid code from the active
// secret.
func (s *UserService) DisableTOTP(ctx context.Context, userID, code string) error {
	user, err := s.Store.Users().GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.TOTPActive() {
		return ErrTOTPNotActive
	}

	if _, ok := matchTOTPStep(*user.TOTPSecret, code, time.Now().UTC()); !ok {
		return ErrInvalidTOTPCode
	}

	return s.Store.Users().ClearTOTP(ctx, userID)
}
