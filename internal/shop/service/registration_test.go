package service

import (
	"context"
	"strings"
	"testing"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/stretchr/testify/require"
)

func newRegistrationService(t *testing.T) (*RegistrationService, *SessionService) {
	t.Helper()

	st := newTestStore(t)
	sessions := &SessionService{Store: st}
	return &RegistrationService{
		Store:    st,
		Sessions: sessions,
		Cipher:   newTestCipher(t),
	}, sessions
}

func TestRegistrationFlow(t *testing.T) {
	ctx := context.Background()
	reg, sessions := newRegistrationService(t)

	profile := domain.Profile{
		Forename: "Ada",
		Surname:  "Lovelace",
		Address:  "12 St James's Square, London",
	}

	issued, err := reg.Begin(ctx, "Ada@Example.com", profile)
	require.NoError(t, err)
	require.Equal(t, domain.SessionRegistration, issued.Kind)

	session, err := sessions.Resolve(ctx, issued.Token)
	require.NoError(t, err)
	require.Empty(t, session.UserID, "no account exists until the password is set")

	t.Run("parked profile is not readable from the session row", func(t *testing.T) {
		require.NotContains(t, string(session.Data), "Lovelace")
		require.NotContains(t, string(session.Data), "ada@example.com")
	})

	user, authed, err := reg.Complete(ctx, session, "a fine password")
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", user.Email, "email is normalized")
	require.Equal(t, domain.RoleCustomer, user.Role)
	require.Equal(t, domain.SessionAuthenticated, authed.Kind)

	t.Run("stored profile fields are ciphertext", func(t *testing.T) {
		stored, err := reg.Store.Users().GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotEqual(t, "Ada", stored.EncryptedForename)
		require.NotEqual(t, "Lovelace", stored.EncryptedSurname)

		forename, err := reg.Cipher.Decrypt(stored.EncryptedForename)
		require.NoError(t, err)
		require.Equal(t, "Ada", forename)
		address, err := reg.Cipher.Decrypt(stored.EncryptedAddress)
		require.NoError(t, err)
		require.Equal(t, profile.Address, address)
	})

	t.Run("registration session is retired", func(t *testing.T) {
		_, err := sessions.Resolve(ctx, issued.Token)
		require.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("fresh session is authenticated", func(t *testing.T) {
		resolved, err := sessions.Resolve(ctx, authed.Token)
		require.NoError(t, err)
		require.Equal(t, user.ID, resolved.UserID)
	})
}

func TestRegistrationBeginValidation(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistrationService(t)

	profile := domain.Profile{Forename: "Ada", Surname: "Lovelace", Address: "Somewhere"}

	t.Run("rejects junk emails", func(t *testing.T) {
		_, err := reg.Begin(ctx, "", profile)
		require.ErrorIs(t, err, ErrInvalidEmail)

		_, err = reg.Begin(ctx, "not-an-email", profile)
		require.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("rejects incomplete profiles", func(t *testing.T) {
		_, err := reg.Begin(ctx, "ada@example.com", domain.Profile{Forename: "Ada"})
		require.ErrorIs(t, err, ErrInvalidProfile)
	})

	t.Run("rejects registered emails", func(t *testing.T) {
		createTestUser(t, reg.Store, reg.Cipher, "taken@example.com", "real password 123", domain.RoleCustomer)

		_, err := reg.Begin(ctx, "taken@example.com", profile)
		require.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestRegistrationCompleteValidation(t *testing.T) {
	ctx := context.Background()
	reg, sessions := newRegistrationService(t)

	profile := domain.Profile{Forename: "Ada", Surname: "Lovelace", Address: "Somewhere"}
	issued, err := reg.Begin(ctx, "ada@example.com", profile)
	require.NoError(t, err)
	session, err := sessions.Resolve(ctx, issued.Token)
	require.NoError(t, err)

	t.Run("rejects short passwords", func(t *testing.T) {
		_, _, err := reg.Complete(ctx, session, "short")
		require.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("rejects oversized passwords", func(t *testing.T) {
		_, _, err := reg.Complete(ctx, session, strings.Repeat("x", 129))
		require.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("rejects the wrong session kind", func(t *testing.T) {
		user := createTestUser(t, reg.Store, reg.Cipher, "other@example.com", "real password 123", domain.RoleCustomer)
		authed, err := sessions.Issue(ctx, user.ID, domain.SessionAuthenticated, nil)
		require.NoError(t, err)
		resolved, err := sessions.Resolve(ctx, authed.Token)
		require.NoError(t, err)

		_, _, err = reg.Complete(ctx, resolved, "a fine password")
		require.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("failed attempts leave the session usable", func(t *testing.T) {
		user, _, err := reg.Complete(ctx, session, "a fine password")
		require.NoError(t, err)
		require.Equal(t, "ada@example.com", user.Email)
	})
}

func TestRegistrationEmailRace(t *testing.T) {
	ctx := context.Background()
	reg, sessions := newRegistrationService(t)

	profile := domain.Profile{Forename: "Ada", Surname: "Lovelace", Address: "Somewhere"}

	// Two signups for the same address both pass the optimistic check.
	first, err := reg.Begin(ctx, "race@example.com", profile)
	require.NoError(t, err)
	second, err := reg.Begin(ctx, "race@example.com", profile)
	require.NoError(t, err)

	firstSession, err := sessions.Resolve(ctx, first.Token)
	require.NoError(t, err)
	secondSession, err := sessions.Resolve(ctx, second.Token)
	require.NoError(t, err)

	_, _, err = reg.Complete(ctx, firstSession, "a fine password")
	require.NoError(t, err)

	// The unique constraint settles the race; the loser's transaction rolls
	// back and no duplicate account appears.
	_, _, err = reg.Complete(ctx, secondSession, "another password")
	require.ErrorIs(t, err, ErrEmailTaken)

	users, err := reg.Store.Users().List(ctx, domain.UserSearch{Email: "race@example.com"})
	require.NoError(t, err)
	require.Len(t, users, 1)
}
