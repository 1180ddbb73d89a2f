package sqlite

import (
	"context"
	"time"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/internal/shop/store"
)

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, enc_forename, enc_surname, enc_address, role,
			password_hash, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.EncryptedForename, u.EncryptedSurname, u.EncryptedAddress,
		string(u.Role), u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) List(ctx context.Context, search domain.UserSearch) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE 1=1`
	var args []any
	if search.Email != "" {
		query += ` AND email LIKE ?`
		args = append(args, "%"+search.Email+"%")
	}
	if search.Role != "" {
		query += ` AND role = ?`
		args = append(args, string(search.Role))
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) UpdateProfile(ctx context.Context, id, encForename, encSurname, encAddress string) error {
	return r.execOne(ctx, `
		UPDATE users SET enc_forename = ?, enc_surname = ?, enc_address = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		encForename, encSurname, encAddress, id,
	)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return r.execOne(ctx, `
		UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		hash, id,
	)
}

func (r *usersRepo) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	return r.execOne(ctx, `
		UPDATE users SET role = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		string(role), id,
	)
}

func (r *usersRepo) SetPendingTOTPSecret(ctx context.Context, id, secret string) error {
	return r.execOne(ctx, `
		UPDATE users SET totp_pending_secret = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		secret, id,
	)
}

func (r *usersRepo) ConfirmTOTPSecret(ctx context.Context, id, secret string, confirmedAt time.Time, step int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET totp_secret = totp_pending_secret,
			totp_pending_secret = NULL,
			totp_confirmed_at = ?,
			totp_last_step = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND totp_pending_secret = ?`,
		confirmedAt, step, id, secret,
	)
	if err != nil {
		return err
	}
	return requireRow(res, store.ErrStaleState)
}

func (r *usersRepo) ClearTOTP(ctx context.Context, id string) error {
	return r.execOne(ctx, `
		UPDATE users SET totp_secret = NULL, totp_pending_secret = NULL,
			totp_confirmed_at = NULL, totp_last_step = 0,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		id,
	)
}

func (r *usersRepo) MarkTOTPStep(ctx context.Context, id string, step int64) error {
	// Conditional on the step advancing, so a replayed code loses the race.
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET totp_last_step = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND totp_last_step < ?`,
		step, id, step,
	)
	if err != nil {
		return err
	}
	return requireRow(res, store.ErrStaleState)
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM users WHERE id = ?`, id)
}

// execOne runs an update that must touch exactly one row, mapping a miss to
// ErrNotFound.
func (r *usersRepo) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireRow(res, store.ErrNotFound)
}
