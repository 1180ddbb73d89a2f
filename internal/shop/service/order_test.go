package service

import (
	"context"
	"math"
	"testing"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/internal/shop/store"
	"github.com/stretchr/testify/require"
)

func newOrderService(t *testing.T) (*OrderService, *UserService) {
	t.Helper()

	users := newUserService(t)
	return &OrderService{Store: users.Store}, users
}

func TestOrderCreate(t *testing.T) {
	ctx := context.Background()
	orders, users := newOrderService(t)

	buyer := createTestUser(t, users.Store, users.Cipher, "buyer@example.com", "real password 123", domain.RoleCustomer)
	tea := createTestProduct(t, users.Store, "Tea", 250, true)
	biscuits := createTestProduct(t, users.Store, "Biscuits", 199, true)

	t.Run("totals and merges duplicate lines", func(t *testing.T) {
		order, err := orders.Create(ctx, buyer.ID, []domain.OrderItem{
			{ProductID: tea.ID, Count: 2},
			{ProductID: biscuits.ID, Count: 1},
			{ProductID: tea.ID, Count: 1},
		})
		require.NoError(t, err)
		require.Equal(t, domain.OrderUnpaid, order.Order.Status)
		require.EqualValues(t, 3*250+199, order.Order.AmountCharged)
		require.Len(t, order.Items, 2, "duplicate tea lines collapse into one")

		counts := map[string]int64{}
		for _, item := range order.Items {
			counts[item.ProductID] = item.Count
		}
		require.EqualValues(t, 3, counts[tea.ID])
		require.EqualValues(t, 1, counts[biscuits.ID])
	})

	t.Run("charge amount survives a price change", func(t *testing.T) {
		order, err := orders.Create(ctx, buyer.ID, []domain.OrderItem{{ProductID: tea.ID, Count: 4}})
		require.NoError(t, err)
		require.EqualValues(t, 1000, order.Order.AmountCharged)

		dearTea := tea
		dearTea.Price = 9999
		require.NoError(t, users.Store.Products().Update(ctx, dearTea))

		reread, err := users.Store.Orders().GetByID(ctx, order.Order.ID)
		require.NoError(t, err)
		require.EqualValues(t, 1000, reread.Order.AmountCharged, "the charged amount is fixed at creation")

		// Restore for the other subtests.
		require.NoError(t, users.Store.Products().Update(ctx, tea))
	})

	t.Run("rejects empty orders", func(t *testing.T) {
		_, err := orders.Create(ctx, buyer.ID, nil)
		require.ErrorIs(t, err, ErrEmptyOrder)

		_, err = orders.Create(ctx, buyer.ID, []domain.OrderItem{{ProductID: tea.ID, Count: 0}})
		require.ErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("rejects unknown products", func(t *testing.T) {
		_, err := orders.Create(ctx, buyer.ID, []domain.OrderItem{{ProductID: "no-such-product", Count: 1}})
		require.ErrorIs(t, err, ErrUnknownProduct)
	})

	t.Run("rejects unlisted products", func(t *testing.T) {
		secret := createTestProduct(t, users.Store, "Unreleased", 500, false)
		_, err := orders.Create(ctx, buyer.ID, []domain.OrderItem{{ProductID: secret.ID, Count: 1}})
		require.ErrorIs(t, err, ErrUnknownProduct)
	})

	t.Run("rejects totals that overflow", func(t *testing.T) {
		pricey := createTestProduct(t, users.Store, "Everything", math.MaxInt64, true)

		_, err := orders.Create(ctx, buyer.ID, []domain.OrderItem{{ProductID: pricey.ID, Count: 2}})
		require.ErrorIs(t, err, ErrAmountOverflow)

		_, err = orders.Create(ctx, buyer.ID, []domain.OrderItem{
			{ProductID: pricey.ID, Count: 1},
			{ProductID: tea.ID, Count: 1},
		})
		require.ErrorIs(t, err, ErrAmountOverflow)
	})
}

func TestOrderGetOwnership(t *testing.T) {
	ctx := context.Background()
	orders, users := newOrderService(t)

	buyer := createTestUser(t, users.Store, users.Cipher, "buyer@example.com", "real password 123", domain.RoleCustomer)
	other := createTestUser(t, users.Store, users.Cipher, "other@example.com", "real password 123", domain.RoleCustomer)
	admin := createTestUser(t, users.Store, users.Cipher, "admin@example.com", "real password 123", domain.RoleAdministrator)
	tea := createTestProduct(t, users.Store, "Tea", 250, true)

	order := createTestOrder(t, orders, buyer.ID, []domain.OrderItem{{ProductID: tea.ID, Count: 1}})

	_, err := orders.Get(ctx, Actor{UserID: buyer.ID, Role: buyer.Role}, order.Order.ID)
	require.NoError(t, err)

	_, err = orders.Get(ctx, Actor{UserID: admin.ID, Role: admin.Role}, order.Order.ID)
	require.NoError(t, err)

	_, err = orders.Get(ctx, Actor{UserID: other.ID, Role: other.Role}, order.Order.ID)
	require.ErrorIs(t, err, ErrOrderForbidden)

	_, err = orders.Get(ctx, Actor{UserID: buyer.ID, Role: buyer.Role}, "no-such-order")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestOrderConfirmIdempotency(t *testing.T) {
	ctx := context.Background()
	orders, users := newOrderService(t)

	buyer := createTestUser(t, users.Store, users.Cipher, "buyer@example.com", "real password 123", domain.RoleCustomer)
	tea := createTestProduct(t, users.Store, "Tea", 250, true)
	order := createTestOrder(t, orders, buyer.ID, []domain.OrderItem{{ProductID: tea.ID, Count: 1}})

	require.NoError(t, orders.Confirm(ctx, "evt_1", order.Order.ID))

	confirmed, err := users.Store.Orders().GetByID(ctx, order.Order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderConfirmed, confirmed.Order.Status)

	t.Run("replaying the same event is a no-op", func(t *testing.T) {
		require.NoError(t, orders.Confirm(ctx, "evt_1", order.Order.ID))

		reread, err := users.Store.Orders().GetByID(ctx, order.Order.ID)
		require.NoError(t, err)
		require.Equal(t, domain.OrderConfirmed, reread.Order.Status)
	})

	t.Run("a second distinct event changes nothing", func(t *testing.T) {
		require.NoError(t, orders.Confirm(ctx, "evt_2", order.Order.ID))

		reread, err := users.Store.Orders().GetByID(ctx, order.Order.ID)
		require.NoError(t, err)
		require.Equal(t, domain.OrderConfirmed, reread.Order.Status)
	})

	t.Run("confirming a missing order errors", func(t *testing.T) {
		err := orders.Confirm(ctx, "evt_3", "no-such-order")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestOrderFulfil(t *testing.T) {
	ctx := context.Background()
	orders, users := newOrderService(t)

	buyer := createTestUser(t, users.Store, users.Cipher, "buyer@example.com", "real password 123", domain.RoleCustomer)
	tea := createTestProduct(t, users.Store, "Tea", 250, true)

	t.Run("unpaid orders cannot be fulfilled", func(t *testing.T) {
		order := createTestOrder(t, orders, buyer.ID, []domain.OrderItem{{ProductID: tea.ID, Count: 1}})

		_, err := orders.Fulfil(ctx, order.Order.ID)
		require.ErrorIs(t, err, ErrInvalidStateTransition)
	})

	t.Run("confirmed orders fulfil exactly once", func(t *testing.T) {
		order := createTestOrder(t, orders, buyer.ID, []domain.OrderItem{{ProductID: tea.ID, Count: 1}})
		require.NoError(t, orders.Confirm(ctx, "evt_f1", order.Order.ID))

		fulfilled, err := orders.Fulfil(ctx, order.Order.ID)
		require.NoError(t, err)
		require.Equal(t, domain.OrderFulfilled, fulfilled.Order.Status)

		_, err = orders.Fulfil(ctx, order.Order.ID)
		require.ErrorIs(t, err, ErrInvalidStateTransition, "fulfilled is terminal")
	})

	t.Run("missing orders are not found", func(t *testing.T) {
		_, err := orders.Fulfil(ctx, "no-such-order")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestOrderListings(t *testing.T) {
	ctx := context.Background()
	orders, users := newOrderService(t)

	buyer := createTestUser(t, users.Store, users.Cipher, "buyer@example.com", "real password 123", domain.RoleCustomer)
	other := createTestUser(t, users.Store, users.Cipher, "other@example.com", "real password 123", domain.RoleCustomer)
	tea := createTestProduct(t, users.Store, "Tea", 250, true)

	mine := createTestOrder(t, orders, buyer.ID, []domain.OrderItem{{ProductID: tea.ID, Count: 1}})
	createTestOrder(t, orders, other.ID, []domain.OrderItem{{ProductID: tea.ID, Count: 2}})

	listed, err := orders.ListMine(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, mine.Order.ID, listed[0].Order.ID)

	all, err := orders.ListAll(ctx, domain.OrderSearch{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	unpaidOnly, err := orders.ListAll(ctx, domain.OrderSearch{Status: domain.OrderUnpaid, UserID: other.ID})
	require.NoError(t, err)
	require.Len(t, unpaidOnly, 1)
}
