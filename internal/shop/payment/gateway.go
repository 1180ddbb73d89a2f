// Package payment abstracts the card payment provider. The service layer
// only ever sees Gateway; whether that is Stripe or the disabled stub is a
// deployment decision.
package payment

import (
	"context"
	"errors"
)

var (
	// ErrGatewayDisabled is returned by operations that need a real provider
	// when the deployment runs without one.
	ErrGatewayDisabled = errors.New("payment gateway disabled")

	// ErrBadSignature is returned when a webhook payload fails verification.
	ErrBadSignature = errors.New("webhook signature verification failed")
)

// Intent is a provider payment attempt bound to one order. ClientSecret is
// handed to the browser to drive the provider's payment UI.
type Intent struct {
	ID           string
	ClientSecret string
}

// Event is a verified webhook notification. OrderID is only set for event
// types that carry one.
type Event struct {
	ID        string
	Type      string
	OrderID   string
	Succeeded bool
}

// Gateway is the card payment provider surface the checkout flow needs.
type Gateway interface {
	// Enabled reports whether a real provider is configured. When false,
	// checkout confirms orders immediately without charging.
	Enabled() bool

	// PublishableKey is the browser-side key, empty when disabled.
	PublishableKey() string

	// CreateIntent registers a payment attempt for the order amount (pennies).
	CreateIntent(ctx context.Context, orderID string, amount int64) (Intent, error)

	// VerifyEvent authenticates a raw webhook delivery and parses it.
	VerifyEvent(payload []byte, signature string) (Event, error)
}
