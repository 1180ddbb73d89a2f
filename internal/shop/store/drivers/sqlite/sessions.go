package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/internal/shop/store"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) Create(ctx context.Context, s domain.Session) error {
	var userID sql.NullString
	if s.UserID != "" {
		userID = sql.NullString{String: s.UserID, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (token_hash, user_id, kind, csrf_token, data, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.TokenHash, userID, string(s.Kind), s.CSRFToken, s.Data, s.ExpiresAt, s.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT token_hash, user_id, kind, csrf_token, data, expires_at, created_at
		FROM sessions WHERE token_hash = ?`,
		tokenHash,
	)

	var (
		s      domain.Session
		userID sql.NullString
		kind   string
	)
	err := row.Scan(&s.TokenHash, &userID, &kind, &s.CSRFToken, &s.Data, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	if userID.Valid {
		s.UserID = userID.String
	}
	s.Kind = domain.SessionKind(kind)
	return s, nil
}

func (r *sessionsRepo) Delete(ctx context.Context, tokenHash string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = ?`, tokenHash)
	if err != nil {
		return err
	}
	return requireRow(res, store.ErrNotFound)
}

func (r *sessionsRepo) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

func (r *sessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
