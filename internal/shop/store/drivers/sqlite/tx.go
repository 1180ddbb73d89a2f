package sqlite

import (
	"database/sql"

	"github.com/ledgerlane/storefront/internal/shop/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Users() store.UserRepo                 { return &usersRepo{db: t.tx} }
func (t *txStore) Sessions() store.SessionRepo           { return &sessionsRepo{db: t.tx} }
func (t *txStore) LoginAttempts() store.LoginAttemptRepo { return &loginAttemptsRepo{db: t.tx} }
func (t *txStore) Products() store.ProductRepo           { return &productsRepo{db: t.tx} }
func (t *txStore) Orders() store.OrderRepo               { return &ordersRepo{db: t.tx} }
func (t *txStore) PaymentConfirmations() store.PaymentConfirmationRepo {
	return &paymentConfirmationsRepo{db: t.tx}
}
