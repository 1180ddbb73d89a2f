package service

import (
	"context"
	"testing"
	"time"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/internal/shop/store"
	"github.com/ledgerlane/storefront/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingSweep(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	cipher := newTestCipher(t)
	sessions := &SessionService{Store: st}
	sweeper := &HousekeepingService{Store: st}

	user := createTestUser(t, st, cipher, "sweep@example.com", "real password 123", domain.RoleCustomer)
	now := time.Now().UTC()

	// One live session, one long dead.
	live, err := sessions.Issue(ctx, user.ID, domain.SessionAuthenticated, nil)
	require.NoError(t, err)

	deadToken, err := cryptox.GenerateToken(cryptox.TokenSizeSession)
	require.NoError(t, err)
	require.NoError(t, st.Sessions().Create(ctx, domain.Session{
		TokenHash: cryptox.FingerprintToken(deadToken),
		UserID:    user.ID,
		Kind:      domain.SessionAuthenticated,
		CSRFToken: "csrf",
		ExpiresAt: now.Add(-48 * time.Hour),
		CreatedAt: now.Add(-49 * time.Hour),
	}))

	// One stale lockout counter, one recent.
	require.NoError(t, st.LoginAttempts().Upsert(ctx, store.LoginAttempt{
		Key:          "stale@example.com",
		Failures:     3,
		WindowStart:  now.Add(-72 * time.Hour),
		LastFailedAt: now.Add(-72 * time.Hour),
	}))
	require.NoError(t, st.LoginAttempts().Upsert(ctx, store.LoginAttempt{
		Key:          "recent@example.com",
		Failures:     1,
		WindowStart:  now,
		LastFailedAt: now,
	}))

	sweeper.Sweep(ctx)

	t.Run("expired sessions are reaped", func(t *testing.T) {
		_, err := st.Sessions().GetByTokenHash(ctx, cryptox.FingerprintToken(deadToken))
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = sessions.Resolve(ctx, live.Token)
		require.NoError(t, err)
	})

	t.Run("stale lockout counters are reaped", func(t *testing.T) {
		_, err := st.LoginAttempts().Get(ctx, "stale@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = st.LoginAttempts().Get(ctx, "recent@example.com")
		require.NoError(t, err)
	})
}

func TestHousekeepingRunStopsOnCancel(t *testing.T) {
	st := newTestStore(t)
	sweeper := &HousekeepingService{Store: st, Interval: time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("housekeeping loop did not stop after cancel")
	}
}
