package sqlite

import (
	"context"
	"time"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/internal/shop/store"
)

type ordersRepo struct {
	db dbtx
}

const orderColumns = `id, user_id, amount_charged, status, order_placed, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	err := row.Scan(&o.ID, &o.UserID, &o.AmountCharged, &status, &o.OrderPlaced, &o.UpdatedAt)
	if err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.OrderStatus(status)
	return o, nil
}

func (r *ordersRepo) Create(ctx context.Context, o domain.Order, items []domain.OrderItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, amount_charged, status, order_placed, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		o.ID, o.UserID, o.AmountCharged, string(o.Status), o.OrderPlaced, o.UpdatedAt,
	)
	if err != nil {
		return mapConstraint(err)
	}

	for _, item := range items {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, count)
			VALUES (?, ?, ?)`,
			o.ID, item.ProductID, item.Count,
		)
		if err != nil {
			return mapConstraint(err)
		}
	}
	return nil
}

func (r *ordersRepo) GetByID(ctx context.Context, id string) (domain.OrderWithItems, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if err != nil {
		return domain.OrderWithItems{}, mapNotFound(err)
	}

	items, err := r.itemsFor(ctx, o.ID)
	if err != nil {
		return domain.OrderWithItems{}, err
	}
	return domain.OrderWithItems{Order: o, Items: items}, nil
}

func (r *ordersRepo) ListByUser(ctx context.Context, userID string) ([]domain.OrderWithItems, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = ? ORDER BY order_placed DESC`, userID)
}

func (r *ordersRepo) List(ctx context.Context, search domain.OrderSearch) ([]domain.OrderWithItems, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	var args []any
	if search.UserID != "" {
		query += ` AND user_id = ?`
		args = append(args, search.UserID)
	}
	if search.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(search.Status))
	}
	query += ` ORDER BY order_placed DESC`
	return r.list(ctx, query, args...)
}

func (r *ordersRepo) list(ctx context.Context, query string, args ...any) ([]domain.OrderWithItems, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.OrderWithItems
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, domain.OrderWithItems{Order: o})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.itemsFor(ctx, orders[i].Order.ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *ordersRepo) itemsFor(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, count FROM order_items WHERE order_id = ?`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.OrderID, &item.ProductID, &item.Count); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Confirm is a compare-and-set: only an unpaid order transitions. A matched
// zero rows means the order is missing or already past unpaid; the caller
// distinguishes by re-reading.
func (r *ordersRepo) Confirm(ctx context.Context, id string, now time.Time) error {
	return r.transition(ctx, id, domain.OrderUnpaid, domain.OrderConfirmed, now)
}

func (r *ordersRepo) Fulfil(ctx context.Context, id string, now time.Time) error {
	return r.transition(ctx, id, domain.OrderConfirmed, domain.OrderFulfilled, now)
}

func (r *ordersRepo) transition(ctx context.Context, id string, from, to domain.OrderStatus, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(to), now, id, string(from),
	)
	if err != nil {
		return err
	}
	return requireRow(res, store.ErrStaleState)
}

func (r *ordersRepo) ListStaleUnpaid(ctx context.Context, before time.Time) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE status = 'unpaid' AND order_placed <= ?
		ORDER BY order_placed`,
		before,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
