package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

const metadataOrderID = "order_id"

// StripeGateway drives payments through Stripe PaymentIntents. Each intent
// carries the order id in metadata so webhook events can be routed back to
// the order they pay for.
type StripeGateway struct {
	api            *client.API
	publishableKey string
	webhookSecret  string
	currency       string
}

type StripeConfig struct {
	SecretKey      string
	PublishableKey string
	WebhookSecret  string
	Currency       string // ISO code, defaults to gbp
}

func NewStripeGateway(cfg StripeConfig) *StripeGateway {
	currency := cfg.Currency
	if currency == "" {
		currency = string(stripe.CurrencyGBP)
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &StripeGateway{
		api:            api,
		publishableKey: cfg.PublishableKey,
		webhookSecret:  cfg.WebhookSecret,
		currency:       currency,
	}
}

func (g *StripeGateway) Enabled() bool          { return true }
func (g *StripeGateway) PublishableKey() string { return g.publishableKey }

func (g *StripeGateway) CreateIntent(ctx context.Context, orderID string, amount int64) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata(metadataOrderID, orderID)

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("create payment intent: %w", err)
	}
	return Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (g *StripeGateway) VerifyEvent(payload []byte, signature string) (Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return Event{}, ErrBadSignature
	}

	out := Event{
		ID:        event.ID,
		Type:      string(event.Type),
		Succeeded: event.Type == "payment_intent.succeeded",
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return Event{}, fmt.Errorf("decode payment intent event: %w", err)
		}
		out.OrderID = pi.Metadata[metadataOrderID]
	}

	return out, nil
}
