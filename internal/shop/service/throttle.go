package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ledgerlane/storefront/internal/shop/store"
)

// Lockout policy: 5 failures inside a 15 minute window locks the account for
// 60 seconds; each further failure while locked doubles the penalty, capped
// at an hour. A successful login clears the counter entirely.
const (
	DefaultMaxFailures   = 5
	DefaultFailureWindow = 15 * time.Minute
	DefaultBaseLockout   = time.Minute
	DefaultMaxLockout    = time.Hour
)

// LockoutError reports how long the caller must wait before retrying.
type LockoutError struct {
	RetryAfter time.Duration
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("account locked, retry after %s", e.RetryAfter)
}

// LoginThrottle applies per-account lockout to the login endpoint. Counters
// are keyed by normalized email rather than user id, so lockout applies
// uniformly whether or not the account exists.
type LoginThrottle struct {
	Store store.Store

	MaxFailures   int64
	FailureWindow time.Duration
	BaseLockout   time.Duration
	MaxLockout    time.Duration
}

func (t *LoginThrottle) maxFailures() int64 {
	if t.MaxFailures > 0 {
		return t.MaxFailures
	}
	return DefaultMaxFailures
}

func (t *LoginThrottle) failureWindow() time.Duration {
	if t.FailureWindow > 0 {
		return t.FailureWindow
	}
	return DefaultFailureWindow
}

func (t *LoginThrottle) baseLockout() time.Duration {
	if t.BaseLockout > 0 {
		return t.BaseLockout
	}
	return DefaultBaseLockout
}

func (t *LoginThrottle) maxLockout() time.Duration {
	if t.MaxLockout > 0 {
		return t.MaxLockout
	}
	return DefaultMaxLockout
}

// ThrottleKey normalizes an email for use as a lockout counter key.
func ThrottleKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Allow returns a LockoutError when the key is currently locked.
func (t *LoginThrottle) Allow(ctx context.Context, key string) error {
	attempt, err := t.Store.LoginAttempts().Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load login attempts: %w", err)
	}

	now := time.Now().UTC()
	if attempt.LockedUntil.After(now) {
		return &LockoutError{RetryAfter: attempt.LockedUntil.Sub(now)}
	}
	return nil
}

// RecordFailure bumps the counter and extends the lockout once the threshold
// is crossed.
func (t *LoginThrottle) RecordFailure(ctx context.Context, key string) error {
	now := time.Now().UTC()

	attempt, err := t.Store.LoginAttempts().Get(ctx, key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		attempt = store.LoginAttempt{Key: key, WindowStart: now}
	case err != nil:
		return fmt.Errorf("failed to load login attempts: %w", err)
	}

	// A quiet spell resets the window, unless a lockout is still running.
	if now.Sub(attempt.WindowStart) > t.failureWindow() && !attempt.LockedUntil.After(now) {
		attempt.Failures = 0
		attempt.WindowStart = now
	}

	attempt.Failures++
	attempt.LastFailedAt = now

	if attempt.Failures >= t.maxFailures() {
		over := attempt.Failures - t.maxFailures()
		lockout := t.baseLockout()
		for i := int64(0); i < over && lockout < t.maxLockout(); i++ {
			lockout *= 2
		}
		if lockout > t.maxLockout() {
			lockout = t.maxLockout()
		}
		attempt.LockedUntil = now.Add(lockout)
	}

	if err := t.Store.LoginAttempts().Upsert(ctx, attempt); err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, key string) error {
	return t.Store.LoginAttempts().Delete(ctx, key)
}
