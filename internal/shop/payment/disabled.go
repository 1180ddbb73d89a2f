package payment

import "context"

// DisabledGateway is the no-provider deployment mode. Checkout sees
// Enabled() == false and confirms orders without charging; the webhook
// endpoint rejects everything since no provider could have signed it.
type DisabledGateway struct{}

func NewDisabledGateway() DisabledGateway { return DisabledGateway{} }

func (DisabledGateway) Enabled() bool          { return false }
func (DisabledGateway) PublishableKey() string { return "" }

func (DisabledGateway) CreateIntent(ctx context.Context, orderID string, amount int64) (Intent, error) {
	return Intent{}, ErrGatewayDisabled
}

func (DisabledGateway) VerifyEvent(payload []byte, signature string) (Event, error) {
	return Event{}, ErrGatewayDisabled
}
