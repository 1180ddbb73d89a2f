package shop_test

import (
	"net/http"
	"testing"

	"github.com/ledgerlane/storefront/pkg/shopsdk"
	"github.com/stretchr/testify/require"
)

func TestCSRFEnforcement(t *testing.T) {
	env := setupShop(t)
	client := env.registerCustomer(t, "shopper@example.com", "a perfectly fine password")

	whoami, err := client.WhoAmI()
	require.NoError(t, err)

	genuine := client.CSRFToken()
	require.NotEmpty(t, genuine)

	t.Run("a session cookie alone cannot write", func(t *testing.T) {
		client.SetCSRFToken("forged")
		err := client.UpdateProfile(whoami.UserID, shopsdk.UpdateProfileRequest{
			Forename: "Mallory", Surname: "Tester", Address: "1 Example Street",
		})
		requireAPIError(t, err, http.StatusForbidden, "csrf_invalid")
	})

	t.Run("reads are unaffected", func(t *testing.T) {
		_, err := client.WhoAmI()
		require.NoError(t, err)
	})

	t.Run("the genuine token still works", func(t *testing.T) {
		client.SetCSRFToken(genuine)
		err := client.UpdateProfile(whoami.UserID, shopsdk.UpdateProfileRequest{
			Forename: "Edna", Surname: "Tester", Address: "1 Example Street",
		})
		require.NoError(t, err)
	})
}

func TestAnonymousAccess(t *testing.T) {
	env := setupShop(t)
	anon := env.client(t)

	_, err := anon.WhoAmI()
	requireAPIError(t, err, http.StatusUnauthorized, "session_invalid")

	_, err = anon.ListProducts()
	requireAPIError(t, err, http.StatusUnauthorized, "session_invalid")

	_, err = anon.CreateOrder(shopsdk.OrderCreateRequest{})
	requireAPIError(t, err, http.StatusUnauthorized, "session_invalid")

	requireAPIError(t, anon.CheckSession(), http.StatusUnauthorized, "session_invalid")
	requireAPIError(t, anon.CheckAdmin(), http.StatusUnauthorized, "session_invalid")
}

func TestAdministratorBoundary(t *testing.T) {
	env := setupShop(t)
	admin := env.createAdmin(t, "admin@example.com", "a perfectly fine password")
	customer := env.registerCustomer(t, "shopper@example.com", "a perfectly fine password")

	whoami, err := customer.WhoAmI()
	require.NoError(t, err)

	t.Run("role probes answer for the edge proxy", func(t *testing.T) {
		require.NoError(t, admin.CheckSession())
		require.NoError(t, admin.CheckAdmin())
		requireAPIError(t, admin.CheckCustomer(), http.StatusUnauthorized, "session_invalid")

		require.NoError(t, customer.CheckSession())
		require.NoError(t, customer.CheckCustomer())
		requireAPIError(t, customer.CheckAdmin(), http.StatusUnauthorized, "session_invalid")
	})

	t.Run("customers cannot reach admin surfaces", func(t *testing.T) {
		_, err := customer.ListUsers()
		requireAPIError(t, err, http.StatusForbidden, "forbidden")

		err = customer.PromoteUser(whoami.UserID)
		requireAPIError(t, err, http.StatusForbidden, "forbidden")
	})

	t.Run("administrators list accounts without personal fields", func(t *testing.T) {
		users, err := admin.ListUsers()
		require.NoError(t, err)
		require.Len(t, users, 2)
	})

	t.Run("promotion takes effect on the live session", func(t *testing.T) {
		require.NoError(t, admin.PromoteUser(whoami.UserID))

		_, err := customer.ListUsers()
		require.NoError(t, err)
	})
}

func TestOrderAntiEnumeration(t *testing.T) {
	env := setupShop(t)
	admin := env.createAdmin(t, "admin@example.com", "a perfectly fine password")
	owner := env.registerCustomer(t, "owner@example.com", "a perfectly fine password")
	snoop := env.registerCustomer(t, "snoop@example.com", "a perfectly fine password")

	tea, err := admin.CreateProduct(shopsdk.ProductRequest{Name: "Tea", Price: 250, Listed: true})
	require.NoError(t, err)
	order, err := owner.CreateOrder(shopsdk.OrderCreateRequest{
		Items: []shopsdk.OrderItemRequest{{ProductID: tea.ID, Count: 1}},
	})
	require.NoError(t, err)

	t.Run("order reads distinguish missing from foreign", func(t *testing.T) {
		_, err := snoop.GetOrder(order.ID)
		requireAPIError(t, err, http.StatusForbidden, "forbidden")

		_, err = snoop.GetOrder("no-such-order")
		requireAPIError(t, err, http.StatusNotFound, "not_found")
	})

	t.Run("checkout does not", func(t *testing.T) {
		_, foreign := snoop.Checkout(order.ID)
		requireAPIError(t, foreign, http.StatusForbidden, "forbidden")

		_, missing := snoop.Checkout("no-such-order")
		requireAPIError(t, missing, http.StatusForbidden, "forbidden")

		_, foreign = snoop.CheckoutStatus(order.ID)
		requireAPIError(t, foreign, http.StatusForbidden, "forbidden")

		_, missing = snoop.CheckoutStatus("no-such-order")
		requireAPIError(t, missing, http.StatusForbidden, "forbidden")
	})

	t.Run("administrators can read any order", func(t *testing.T) {
		got, err := admin.GetOrder(order.ID)
		require.NoError(t, err)
		require.Equal(t, order.ID, got.ID)
	})
}
