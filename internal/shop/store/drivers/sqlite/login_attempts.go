package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/ledgerlane/storefront/internal/shop/store"
)

type loginAttemptsRepo struct {
	db dbtx
}

func (r *loginAttemptsRepo) Get(ctx context.Context, key string) (store.LoginAttempt, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT key, failures, window_start, locked_until, last_failed_at
		FROM login_attempts WHERE key = ?`,
		key,
	)

	var a store.LoginAttempt
	var lockedUntil sql.NullTime
	err := row.Scan(&a.Key, &a.Failures, &a.WindowStart, &lockedUntil, &a.LastFailedAt)
	if err != nil {
		return store.LoginAttempt{}, mapNotFound(err)
	}
	a.LockedUntil = mapNullTime(lockedUntil)
	return a, nil
}

func (r *loginAttemptsRepo) Upsert(ctx context.Context, a store.LoginAttempt) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO login_attempts (key, failures, window_start, locked_until, last_failed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			failures = excluded.failures,
			window_start = excluded.window_start,
			locked_until = excluded.locked_until,
			last_failed_at = excluded.last_failed_at`,
		a.Key, a.Failures, a.WindowStart, mapTimeNull(a.LockedUntil), a.LastFailedAt,
	)
	return err
}

func (r *loginAttemptsRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM login_attempts WHERE key = ?`, key)
	return err
}

func (r *loginAttemptsRepo) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM login_attempts
		WHERE last_failed_at <= ? AND (locked_until IS NULL OR locked_until <= ?)`,
		before, before,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
