package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ledgerlane/storefront/internal/shop/store"
	"github.com/ledgerlane/storefront/pkg/slogx"
)

const (
	DefaultHousekeepingInterval = 10 * time.Minute
	DefaultStaleUnpaidAfter     = 24 * time.Hour
)

// HousekeepingService sweeps expired sessions and stale lockout counters on
// an interval, and flags orders that have sat unpaid for too long.
type HousekeepingService struct {
	Store store.Store

	Interval         time.Duration
	StaleUnpaidAfter time.Duration
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *HousekeepingService) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultHousekeepingInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one housekeeping pass. Failures are logged and skipped; the
// next pass retries.
func (s *HousekeepingService) Sweep(ctx context.Context) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	if n, err := s.Store.Sessions().DeleteExpired(ctx, now); err != nil {
		log.Error("failed to reap expired sessions", slog.Any("error", err))
	} else if n > 0 {
		log.Info("reaped expired sessions", slog.Int64("count", n))
	}

	if n, err := s.Store.LoginAttempts().DeleteStale(ctx, now.Add(-24*time.Hour)); err != nil {
		log.Error("failed to reap login attempts", slog.Any("error", err))
	} else if n > 0 {
		log.Info("reaped stale login attempts", slog.Int64("count", n))
	}

	staleAfter := s.StaleUnpaidAfter
	if staleAfter <= 0 {
		staleAfter = DefaultStaleUnpaidAfter
	}
	stale, err := s.Store.Orders().ListStaleUnpaid(ctx, now.Add(-staleAfter))
	if err != nil {
		log.Error("failed to list stale unpaid orders", slog.Any("error", err))
		return
	}
	for _, order := range stale {
		log.Warn("order unpaid past threshold",
			slog.String("order_id", order.ID),
			slog.Time("placed", order.OrderPlaced))
	}
}
