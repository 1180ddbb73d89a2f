package domain

import "time"

// OrderStatus moves strictly forward: unpaid -> confirmed -> fulfilled.
// fulfilled is terminal. Transitions are compare-and-set at the store layer
// so concurrent webhook deliveries and admin actions serialize correctly.
type OrderStatus string

const (
	OrderUnpaid    OrderStatus = "unpaid"
	OrderConfirmed OrderStatus = "confirmed"
	OrderFulfilled OrderStatus = "fulfilled"
)

// Order. AmountCharged is computed once from product prices at creation time
// (in pennies) and never recomputed; later price changes must not touch it.
type Order struct {
	ID            string
	UserID        string
	AmountCharged int64
	Status        OrderStatus
	OrderPlaced   time.Time
	UpdatedAt     time.Time
}

// OrderItem snapshots one purchased line of an order.
type OrderItem struct {
	OrderID   string `json:"-"`
	ProductID string `json:"product_id"`
	Count     int64  `json:"count"`
}

// OrderWithItems bundles an order with its line items for read paths.
type OrderWithItems struct {
	Order Order
	Items []OrderItem
}

// OrderSearch filters the admin order listing.
type OrderSearch struct {
	UserID string
	Status OrderStatus
}

// PaymentConfirmation records a processed payment-provider event. The
// provider delivers events at least once; this ledger is what makes
// confirmation idempotent.
type PaymentConfirmation struct {
	EventID    string
	OrderID    string
	ReceivedAt time.Time
}
