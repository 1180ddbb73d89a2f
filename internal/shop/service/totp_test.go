package service

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestMatchTOTPStep(t *testing.T) {
	now := time.Date(2026, time.March, 14, 15, 9, 26, 0, time.UTC)

	code, err := totp.GenerateCode(testTOTPSecret, now)
	require.NoError(t, err)

	t.Run("matches the current period", func(t *testing.T) {
		step, ok := matchTOTPStep(testTOTPSecret, code, now)
		require.True(t, ok)
		require.Equal(t, now.Unix()/30, step)
	})

	t.Run("tolerates one period of clock skew", func(t *testing.T) {
		step, ok := matchTOTPStep(testTOTPSecret, code, now.Add(30*time.Second))
		require.True(t, ok)
		require.Equal(t, now.Unix()/30, step, "the step follows the code, not the clock")

		step, ok = matchTOTPStep(testTOTPSecret, code, now.Add(-30*time.Second))
		require.True(t, ok)
		require.Equal(t, now.Unix()/30, step)
	})

	t.Run("rejects outside the skew window", func(t *testing.T) {
		_, ok := matchTOTPStep(testTOTPSecret, code, now.Add(2*time.Minute))
		require.False(t, ok)
	})

	t.Run("rejects wrong codes", func(t *testing.T) {
		_, ok := matchTOTPStep(testTOTPSecret, "000000", now)
		require.False(t, ok)
	})
}
