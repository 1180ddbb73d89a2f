// Package store defines the persistence interfaces for the storefront
// service. Implementations live under drivers/.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ledgerlane/storefront/internal/shop/domain"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when a uniqueness constraint is violated,
	// such as registering an email that is already taken.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrStaleState is returned when a conditional update matched no rows
	// because the record was not in the expected state.
	ErrStaleState = errors.New("record not in expected state")
)

// Store is the root persistence interface. It exposes repositories for each
// aggregate plus transactional composition via WithTx.
type Store interface {
	Users() UserRepo
	Sessions() SessionRepo
	LoginAttempts() LoginAttemptRepo
	Products() ProductRepo
	Orders() OrderRepo
	PaymentConfirmations() PaymentConfirmationRepo

	// WithTx runs fn inside a single transaction. The Tx passed to fn exposes
	// the same repositories bound to that transaction. A non-nil error from fn
	// rolls the transaction back.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Ping(ctx context.Context) error
	Close() error
}

// Tx is the transactional view of the store.
type Tx interface {
	Users() UserRepo
	Sessions() SessionRepo
	LoginAttempts() LoginAttemptRepo
	Products() ProductRepo
	Orders() OrderRepo
	PaymentConfirmations() PaymentConfirmationRepo
}

// UserRepo persists user accounts and their credential state.
type UserRepo interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context, search domain.UserSearch) ([]domain.User, error)

	UpdateProfile(ctx context.Context, id, encForename, encSurname, encAddress string) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	UpdateRole(ctx context.Context, id string, role domain.Role) error

	SetPendingTOTPSecret(ctx context.Context, id, secret string) error
	// ConfirmTOTPSecret promotes the pending secret to active and records the
	// step of the code that confirmed it, so that code cannot be replayed at
	// login. It fails with ErrStaleState if the stored pending secret no
	// longer matches.
	ConfirmTOTPSecret(ctx context.Context, id, secret string, confirmedAt time.Time, step int64) error
	ClearTOTP(ctx context.Context, id string) error
	// MarkTOTPStep records the accepted time step, guarding against code
	// replay. ErrStaleState means another request already consumed the step.
	MarkTOTPStep(ctx context.Context, id string, step int64) error

	Delete(ctx context.Context, id string) error
}

// SessionRepo persists server-side sessions keyed by token fingerprint.
type SessionRepo interface {
	Create(ctx context.Context, session domain.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteByUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// LoginAttempt tracks failed logins per account for lockout decisions.
type LoginAttempt struct {
	Key          string // normalized email
	Failures     int64
	WindowStart  time.Time
	LockedUntil  time.Time
	LastFailedAt time.Time
}

// LoginAttemptRepo persists login failure counters.
type LoginAttemptRepo interface {
	Get(ctx context.Context, key string) (LoginAttempt, error)
	Upsert(ctx context.Context, attempt LoginAttempt) error
	Delete(ctx context.Context, key string) error
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

// ProductRepo persists catalog products.
type ProductRepo interface {
	Create(ctx context.Context, product domain.Product) error
	GetByID(ctx context.Context, id string) (domain.Product, error)
	// GetManyByID returns the products for the given ids. Missing ids are
	// simply absent from the result; callers decide whether that is an error.
	GetManyByID(ctx context.Context, ids []string) (map[string]domain.Product, error)
	List(ctx context.Context, listedOnly bool) ([]domain.Product, error)
	Update(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, id string) error
}

// OrderRepo persists orders and their line items.
type OrderRepo interface {
	Create(ctx context.Context, order domain.Order, items []domain.OrderItem) error
	GetByID(ctx context.Context, id string) (domain.OrderWithItems, error)
	ListByUser(ctx context.Context, userID string) ([]domain.OrderWithItems, error)
	List(ctx context.Context, search domain.OrderSearch) ([]domain.OrderWithItems, error)

	// Confirm moves an unpaid order to confirmed. ErrStaleState means the
	// order was not unpaid; callers inspect the current status to decide
	// whether that is an idempotent no-op or a real conflict.
	Confirm(ctx context.Context, id string, now time.Time) error
	// Fulfil moves a confirmed order to fulfilled, same contract as Confirm.
	Fulfil(ctx context.Context, id string, now time.Time) error

	ListStaleUnpaid(ctx context.Context, before time.Time) ([]domain.Order, error)
}

// PaymentConfirmationRepo records processed payment-provider events.
type PaymentConfirmationRepo interface {
	// Record inserts the event id if unseen. It reports true when this call
	// recorded the event, false when it had been processed before.
	Record(ctx context.Context, confirmation domain.PaymentConfirmation) (bool, error)
}
