package service

import (
	"context"
	"testing"

	"github.com/ledgerlane/storefront/internal/shop/store"
	"github.com/stretchr/testify/require"
)

func TestProductCRUD(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	products := &ProductService{Store: st}

	created, err := products.Create(ctx, "  Tea  ", "Loose leaf", 250, true)
	require.NoError(t, err)
	require.Equal(t, "Tea", created.Name, "names are trimmed")
	require.EqualValues(t, 250, created.Price)

	t.Run("rejects invalid products", func(t *testing.T) {
		_, err := products.Create(ctx, "   ", "", 100, true)
		require.ErrorIs(t, err, ErrInvalidProduct)

		_, err = products.Create(ctx, "Tea", "", -1, true)
		require.ErrorIs(t, err, ErrInvalidProduct)
	})

	t.Run("get and update round-trip", func(t *testing.T) {
		got, err := products.Get(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, created.ID, got.ID)

		got.Price = 300
		got.Listed = false
		updated, err := products.Update(ctx, got)
		require.NoError(t, err)
		require.EqualValues(t, 300, updated.Price)

		reread, err := products.Get(ctx, created.ID)
		require.NoError(t, err)
		require.False(t, reread.Listed)
	})

	t.Run("customers only see listed products", func(t *testing.T) {
		listed, err := products.List(ctx, true)
		require.NoError(t, err)
		require.Empty(t, listed, "the only product is now unlisted")

		all, err := products.List(ctx, false)
		require.NoError(t, err)
		require.Len(t, all, 1)
	})

	t.Run("delete removes the product", func(t *testing.T) {
		require.NoError(t, products.Delete(ctx, created.ID))

		_, err := products.Get(ctx, created.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("missing products are not found", func(t *testing.T) {
		_, err := products.Get(ctx, "no-such-product")
		require.ErrorIs(t, err, store.ErrNotFound)

		err = products.Delete(ctx, "no-such-product")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
