package shop_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/ledgerlane/storefront/pkg/shopsdk"
	"github.com/stretchr/testify/require"
)

func TestOrderLifecycle(t *testing.T) {
	env := setupShop(t)
	admin := env.createAdmin(t, "admin@example.com", "a perfectly fine password")
	customer := env.registerCustomer(t, "shopper@example.com", "a perfectly fine password")

	tea, err := admin.CreateProduct(shopsdk.ProductRequest{
		Name: "Tea", Description: "Loose leaf", Price: 250, Listed: true,
	})
	require.NoError(t, err)
	biscuits, err := admin.CreateProduct(shopsdk.ProductRequest{
		Name: "Biscuits", Description: "For dunking", Price: 199, Listed: true,
	})
	require.NoError(t, err)
	_, err = admin.CreateProduct(shopsdk.ProductRequest{
		Name: "Unreleased", Price: 500, Listed: false,
	})
	require.NoError(t, err)

	t.Run("customers only see the listed catalog", func(t *testing.T) {
		products, err := customer.ListProducts()
		require.NoError(t, err)
		require.Len(t, products, 2)
		for _, p := range products {
			require.True(t, p.Listed)
		}
	})

	order, err := customer.CreateOrder(shopsdk.OrderCreateRequest{
		Items: []shopsdk.OrderItemRequest{
			{ProductID: tea.ID, Count: 2},
			{ProductID: biscuits.ID, Count: 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "unpaid", order.Status)
	require.EqualValues(t, 2*250+199, order.AmountCharged)
	require.Len(t, order.Items, 2)

	t.Run("unpaid orders cannot be fulfilled", func(t *testing.T) {
		_, err := admin.FulfilOrder(order.ID)
		requireAPIError(t, err, http.StatusConflict, "invalid_state")
	})

	t.Run("payment config reports the disabled provider", func(t *testing.T) {
		cfg, err := customer.PaymentConfig()
		require.NoError(t, err)
		require.False(t, cfg.PaymentEnabled)
		require.Empty(t, cfg.PublishableKey)
	})

	checkout, err := customer.Checkout(order.ID)
	require.NoError(t, err)
	require.False(t, checkout.PaymentRequired, "no provider configured, checkout confirms immediately")
	require.Equal(t, "confirmed", checkout.Order.Status)

	t.Run("checkout status reflects confirmation", func(t *testing.T) {
		status, err := customer.CheckoutStatus(order.ID)
		require.NoError(t, err)
		require.Equal(t, "confirmed", status.Status)
	})

	t.Run("a confirmed order cannot check out again", func(t *testing.T) {
		_, err := customer.Checkout(order.ID)
		requireAPIError(t, err, http.StatusConflict, "invalid_state")
	})

	t.Run("fulfilment is an administrator action", func(t *testing.T) {
		_, err := customer.FulfilOrder(order.ID)
		requireAPIError(t, err, http.StatusForbidden, "forbidden")
	})

	fulfilled, err := admin.FulfilOrder(order.ID)
	require.NoError(t, err)
	require.Equal(t, "fulfilled", fulfilled.Status)

	t.Run("fulfilled is terminal", func(t *testing.T) {
		_, err := admin.FulfilOrder(order.ID)
		requireAPIError(t, err, http.StatusConflict, "invalid_state")
	})
}

func TestOrderListingVisibility(t *testing.T) {
	env := setupShop(t)
	admin := env.createAdmin(t, "admin@example.com", "a perfectly fine password")
	alice := env.registerCustomer(t, "alice@example.com", "a perfectly fine password")
	bob := env.registerCustomer(t, "bob@example.com", "a perfectly fine password")

	tea, err := admin.CreateProduct(shopsdk.ProductRequest{Name: "Tea", Price: 250, Listed: true})
	require.NoError(t, err)

	aliceOrder, err := alice.CreateOrder(shopsdk.OrderCreateRequest{
		Items: []shopsdk.OrderItemRequest{{ProductID: tea.ID, Count: 1}},
	})
	require.NoError(t, err)
	_, err = bob.CreateOrder(shopsdk.OrderCreateRequest{
		Items: []shopsdk.OrderItemRequest{{ProductID: tea.ID, Count: 2}},
	})
	require.NoError(t, err)

	t.Run("customers list only their own orders", func(t *testing.T) {
		orders, err := alice.ListOrders()
		require.NoError(t, err)
		require.Len(t, orders, 1)
		require.Equal(t, aliceOrder.ID, orders[0].ID)
	})

	t.Run("administrators list everything", func(t *testing.T) {
		orders, err := admin.ListOrders()
		require.NoError(t, err)
		require.Len(t, orders, 2)
	})

	t.Run("catalog writes are an administrator action", func(t *testing.T) {
		_, err := alice.CreateProduct(shopsdk.ProductRequest{Name: "Contraband", Price: 1, Listed: true})
		requireAPIError(t, err, http.StatusForbidden, "forbidden")
	})

	t.Run("rejects bad orders", func(t *testing.T) {
		_, err := alice.CreateOrder(shopsdk.OrderCreateRequest{})
		requireAPIError(t, err, http.StatusBadRequest, "invalid_order")

		_, err = alice.CreateOrder(shopsdk.OrderCreateRequest{
			Items: []shopsdk.OrderItemRequest{{ProductID: "no-such-product", Count: 1}},
		})
		requireAPIError(t, err, http.StatusBadRequest, "invalid_order")
	})
}

func TestWebhookWithoutProvider(t *testing.T) {
	env := setupShop(t)

	// With payment disabled every delivery fails signature verification.
	resp, err := env.server.Client().Post(
		env.server.URL+"/v1/webhook/payment",
		"application/json",
		strings.NewReader(`{"id":"evt_1"}`),
	)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
