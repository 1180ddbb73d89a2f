package sqlite

import (
	"context"

	"github.com/ledgerlane/storefront/internal/shop/domain"
)

type paymentConfirmationsRepo struct {
	db dbtx
}

// Record relies on the primary key on event_id: a replayed event inserts
// zero rows and reports false.
func (r *paymentConfirmationsRepo) Record(ctx context.Context, c domain.PaymentConfirmation) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO payment_confirmations (event_id, order_id, received_at)
		VALUES (?, ?, ?)`,
		c.EventID, c.OrderID, c.ReceivedAt,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
