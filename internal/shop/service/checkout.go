package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/internal/shop/payment"
	"github.com/ledgerlane/storefront/internal/shop/store"
)

var (
	// ErrCheckoutForbidden covers both "not your order" and "no such order".
	// Collapsing the two stops an attacker walking order ids to learn which
	// exist.
	ErrCheckoutForbidden = errors.New("order not accessible")

	ErrOrderNotPayable = errors.New("order is not awaiting payment")
)

// CheckoutResult tells the client how to finish paying. When the gateway is
// disabled the order confirms immediately and PaymentRequired is false.
type CheckoutResult struct {
	Order           domain.Order
	PaymentRequired bool
	PublishableKey  string
	ClientSecret    string
}

// CheckoutService starts payment for an order and applies provider webhook
// outcomes.
type CheckoutService struct {
	Store   store.Store
	Gateway payment.Gateway
	Orders  *OrderService
}

// Begin starts payment for an unpaid order owned by the caller.
func (s *CheckoutService) Begin(ctx context.Context, userID, orderID string) (CheckoutResult, error) {
	order, err := s.Store.Orders().GetByID(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return CheckoutResult{}, ErrCheckoutForbidden
	}
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("failed to load order: %w", err)
	}
	if order.Order.UserID != userID {
		return CheckoutResult{}, ErrCheckoutForbidden
	}
	if order.Order.Status != domain.OrderUnpaid {
		return CheckoutResult{}, ErrOrderNotPayable
	}

	if !s.Gateway.Enabled() || order.Order.AmountCharged == 0 {
		// No provider configured, or nothing to charge: treat checkout itself
		// as payment. The synthetic event id keeps the confirmation ledger
		// consistent.
		eventID := "local-" + uuid.NewString()
		if err := s.Orders.Confirm(ctx, eventID, order.Order.ID); err != nil {
			return CheckoutResult{}, err
		}
		confirmed, err := s.Store.Orders().GetByID(ctx, orderID)
		if err != nil {
			return CheckoutResult{}, err
		}
		return CheckoutResult{Order: confirmed.Order, PaymentRequired: false}, nil
	}

	intent, err := s.Gateway.CreateIntent(ctx, order.Order.ID, order.Order.AmountCharged)
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return CheckoutResult{
		Order:           order.Order,
		PaymentRequired: true,
		PublishableKey:  s.Gateway.PublishableKey(),
		ClientSecret:    intent.ClientSecret,
	}, nil
}

// Status reports where an order stands, same ownership rule as Begin.
func (s *CheckoutService) Status(ctx context.Context, userID, orderID string) (domain.Order, error) {
	order, err := s.Store.Orders().GetByID(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Order{}, ErrCheckoutForbidden
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to load order: %w", err)
	}
	if order.Order.UserID != userID {
		return domain.Order{}, ErrCheckoutForbidden
	}
	return order.Order, nil
}

// HandleWebhook verifies and applies one raw provider delivery. Events that
// are not successful payments, or that carry no order id, are acknowledged
// and dropped.
func (s *CheckoutService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	event, err := s.Gateway.VerifyEvent(body, signature)
	if err != nil {
		return err
	}

	if !event.Succeeded || event.OrderID == "" {
		return nil
	}

	return s.Orders.Confirm(ctx, event.ID, event.OrderID)
}
