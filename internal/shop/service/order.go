package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/internal/shop/events"
	"github.com/ledgerlane/storefront/internal/shop/store"
	"github.com/ledgerlane/storefront/pkg/idx"
)

var (
	ErrEmptyOrder             = errors.New("order has no items")
	ErrUnknownProduct         = errors.New("order references an unknown or unlisted product")
	ErrAmountOverflow         = errors.New("order total exceeds the representable amount")
	ErrOrderForbidden         = errors.New("order not accessible")
	ErrInvalidStateTransition = errors.New("order is not in the required state")
)

// OrderService owns the order lifecycle: creation with a fixed charge
// amount, then the one-way unpaid -> confirmed -> fulfilled march.
type OrderService struct {
	Store  store.Store
	Events *events.Producer
}

// Create places an order. The charge amount is computed here, once, from the
// current catalog prices; duplicate product lines are merged. Every
// multiplication and addition is overflow-checked because prices and counts
// are caller-influenced.
func (s *OrderService) Create(ctx context.Context, userID string, items []domain.OrderItem) (domain.OrderWithItems, error) {
	merged := make(map[string]int64)
	var ids []string
	for _, item := range items {
		if item.Count <= 0 {
			return domain.OrderWithItems{}, ErrEmptyOrder
		}
		if _, seen := merged[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		prev := merged[item.ProductID]
		if item.Count > math.MaxInt64-prev {
			return domain.OrderWithItems{}, ErrAmountOverflow
		}
		merged[item.ProductID] = prev + item.Count
	}
	if len(merged) == 0 {
		return domain.OrderWithItems{}, ErrEmptyOrder
	}

	products, err := s.Store.Products().GetManyByID(ctx, ids)
	if err != nil {
		return domain.OrderWithItems{}, fmt.Errorf("failed to load products: %w", err)
	}

	var total int64
	lines := make([]domain.OrderItem, 0, len(ids))
	for _, id := range ids {
		product, ok := products[id]
		if !ok || !product.Listed {
			return domain.OrderWithItems{}, ErrUnknownProduct
		}

		count := merged[id]
		if product.Price > 0 && count > math.MaxInt64/product.Price {
			return domain.OrderWithItems{}, ErrAmountOverflow
		}
		line := product.Price * count
		if line > math.MaxInt64-total {
			return domain.OrderWithItems{}, ErrAmountOverflow
		}
		total += line

		lines = append(lines, domain.OrderItem{ProductID: id, Count: count})
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:            idx.New().String(),
		UserID:        userID,
		AmountCharged: total,
		Status:        domain.OrderUnpaid,
		OrderPlaced:   now,
		UpdatedAt:     now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Orders().Create(ctx, order, lines)
	})
	if err != nil {
		return domain.OrderWithItems{}, fmt.Errorf("failed to create order: %w", err)
	}

	s.Events.OrderCreated(ctx, order)

	for i := range lines {
		lines[i].OrderID = order.ID
	}
	return domain.OrderWithItems{Order: order, Items: lines}, nil
}

// Get returns the order, owner-or-admin only.
func (s *OrderService) Get(ctx context.Context, actor Actor, orderID string) (domain.OrderWithItems, error) {
	order, err := s.Store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return domain.OrderWithItems{}, err
	}
	if !actor.canAccess(order.Order.UserID) {
		return domain.OrderWithItems{}, ErrOrderForbidden
	}
	return order, nil
}

// ListMine returns the caller's orders, newest first.
func (s *OrderService) ListMine(ctx context.Context, userID string) ([]domain.OrderWithItems, error) {
	return s.Store.Orders().ListByUser(ctx, userID)
}

// ListAll is the administrator listing.
func (s *OrderService) ListAll(ctx context.Context, search domain.OrderSearch) ([]domain.OrderWithItems, error) {
	return s.Store.Orders().List(ctx, search)
}

// Confirm marks an order paid in response to a payment event. The event id
// ledger and the status compare-and-set run in one transaction, so replayed
// deliveries and concurrent deliveries for the same order both collapse into
// a single confirmation.
func (s *OrderService) Confirm(ctx context.Context, eventID, orderID string) error {
	var confirmed bool

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		recorded, err := tx.PaymentConfirmations().Record(ctx, domain.PaymentConfirmation{
			EventID:    eventID,
			OrderID:    orderID,
			ReceivedAt: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to record payment event: %w", err)
		}
		if !recorded {
			// Seen this exact event before; nothing more to do.
			return nil
		}

		err = tx.Orders().Confirm(ctx, orderID, time.Now().UTC())
		if errors.Is(err, store.ErrStaleState) {
			// Order missing, or already confirmed by a different event.
			current, getErr := tx.Orders().GetByID(ctx, orderID)
			if getErr != nil {
				return getErr
			}
			if current.Order.Status == domain.OrderUnpaid {
				return fmt.Errorf("failed to confirm order %s: %w", orderID, err)
			}
			return nil
		}
		if err != nil {
			return err
		}
		confirmed = true
		return nil
	})
	if err != nil {
		return err
	}

	if confirmed {
		order, err := s.Store.Orders().GetByID(ctx, orderID)
		if err == nil {
			s.Events.OrderConfirmed(ctx, order.Order)
		}
	}
	return nil
}

// Fulfil marks a confirmed order as handed over. Only confirmed orders
// qualify; anything else is a state conflict.
func (s *OrderService) Fulfil(ctx context.Context, orderID string) (domain.OrderWithItems, error) {
	err := s.Store.Orders().Fulfil(ctx, orderID, time.Now().UTC())
	if errors.Is(err, store.ErrStaleState) {
		if _, getErr := s.Store.Orders().GetByID(ctx, orderID); errors.Is(getErr, store.ErrNotFound) {
			return domain.OrderWithItems{}, store.ErrNotFound
		}
		return domain.OrderWithItems{}, ErrInvalidStateTransition
	}
	if err != nil {
		return domain.OrderWithItems{}, fmt.Errorf("failed to fulfil order: %w", err)
	}

	order, err := s.Store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return domain.OrderWithItems{}, err
	}

	s.Events.OrderFulfilled(ctx, order.Order)
	return order, nil
}
