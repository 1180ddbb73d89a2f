package shop_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/ledgerlane/storefront/pkg/shopsdk"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestLoginLogout(t *testing.T) {
	env := setupShop(t)
	client := env.registerCustomer(t, "shopper@example.com", "a perfectly fine password")

	require.NoError(t, client.Logout())

	t.Run("logout kills the session", func(t *testing.T) {
		_, err := client.WhoAmI()
		requireAPIError(t, err, http.StatusUnauthorized, "session_invalid")
	})

	t.Run("wrong password is a uniform failure", func(t *testing.T) {
		_, err := client.Login("shopper@example.com", "not the password")
		requireAPIError(t, err, http.StatusUnauthorized, "authentication_failed")

		_, err = client.Login("nobody@example.com", "a perfectly fine password")
		requireAPIError(t, err, http.StatusUnauthorized, "authentication_failed")
	})

	t.Run("login restores access", func(t *testing.T) {
		resp, err := client.Login("shopper@example.com", "a perfectly fine password")
		require.NoError(t, err)
		require.Equal(t, shopsdk.StatusAuthenticated, resp.Status)

		whoami, err := client.WhoAmI()
		require.NoError(t, err)
		require.Equal(t, "shopper@example.com", whoami.Email)
	})
}

func TestLoginLockout(t *testing.T) {
	env := setupShop(t)
	env.registerCustomer(t, "target@example.com", "a perfectly fine password")

	attacker := env.client(t)
	for range 5 {
		_, err := attacker.Login("target@example.com", "guess")
		requireAPIError(t, err, http.StatusUnauthorized, "authentication_failed")
	}

	t.Run("even the right password is refused while locked", func(t *testing.T) {
		_, err := attacker.Login("target@example.com", "a perfectly fine password")
		requireAPIError(t, err, http.StatusTooManyRequests, "account_locked")
	})

	t.Run("lockouts cover unknown accounts too", func(t *testing.T) {
		for range 5 {
			_, err := attacker.Login("ghost@example.com", "guess")
			requireAPIError(t, err, http.StatusUnauthorized, "authentication_failed")
		}
		_, err := attacker.Login("ghost@example.com", "guess")
		requireAPIError(t, err, http.StatusTooManyRequests, "account_locked")
	})

	t.Run("other accounts are unaffected", func(t *testing.T) {
		bystander := env.registerCustomer(t, "bystander@example.com", "a perfectly fine password")
		require.NoError(t, bystander.Logout())

		resp, err := bystander.Login("bystander@example.com", "a perfectly fine password")
		require.NoError(t, err)
		require.Equal(t, shopsdk.StatusAuthenticated, resp.Status)
	})
}

func TestTwoFactorLogin(t *testing.T) {
	env := setupShop(t)
	client := env.registerCustomer(t, "careful@example.com", "a perfectly fine password")

	enrollment, err := client.EnrollTOTP()
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.Contains(t, enrollment.URL, "otpauth://totp/")

	t.Run("a wrong code does not confirm enrollment", func(t *testing.T) {
		err := client.ConfirmTOTP("000000")
		requireAPIError(t, err, http.StatusBadRequest, "invalid_code")

		whoami, err := client.WhoAmI()
		require.NoError(t, err)
		user, err := client.GetUser(whoami.UserID)
		require.NoError(t, err)
		require.False(t, user.TOTPEnabled, "login stays single-factor until confirmed")
	})

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, client.ConfirmTOTP(code))

	require.NoError(t, client.Logout())

	login, err := client.Login("careful@example.com", "a perfectly fine password")
	require.NoError(t, err)
	require.Equal(t, shopsdk.StatusMFARequired, login.Status)

	t.Run("a pending session is not authenticated", func(t *testing.T) {
		_, err := client.WhoAmI()
		requireAPIError(t, err, http.StatusUnauthorized, "session_invalid")
	})

	t.Run("a wrong code does not upgrade the session", func(t *testing.T) {
		_, err := client.CompleteMFA("000000")
		requireAPIError(t, err, http.StatusUnauthorized, "authentication_failed")
	})

	code, err = totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	upgraded, err := client.CompleteMFA(code)
	require.NoError(t, err)
	require.Equal(t, shopsdk.StatusAuthenticated, upgraded.Status)

	whoami, err := client.WhoAmI()
	require.NoError(t, err)
	require.Equal(t, "careful@example.com", whoami.Email)

	t.Run("a code is spent once used", func(t *testing.T) {
		replayer := env.client(t)
		login, err := replayer.Login("careful@example.com", "a perfectly fine password")
		require.NoError(t, err)
		require.Equal(t, shopsdk.StatusMFARequired, login.Status)

		_, err = replayer.CompleteMFA(code)
		requireAPIError(t, err, http.StatusUnauthorized, "authentication_failed")
	})
}
