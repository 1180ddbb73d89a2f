package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/internal/shop/store"
	"github.com/ledgerlane/storefront/internal/shop/store/drivers/sqlite"
	"github.com/ledgerlane/storefront/pkg/cryptox"
	"github.com/ledgerlane/storefront/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "storefront-service-test")
	if err != nil {
		os.Exit(1)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestCipher(t *testing.T) *cryptox.FieldCipher {
	t.Helper()

	cipher, err := cryptox.NewFieldCipher([]byte("storefront-test-field-key"))
	require.NoError(t, err)
	return cipher
}

func encryptField(t *testing.T, cipher *cryptox.FieldCipher, value string) string {
	t.Helper()

	enc, err := cipher.Encrypt(value)
	require.NoError(t, err)
	return enc
}

func createTestUser(t *testing.T, st store.Store, cipher *cryptox.FieldCipher, email, password string, role domain.Role) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	now := time.Now().UTC()
	user := domain.User{
		ID:                idx.New().String(),
		Email:             email,
		EncryptedForename: encryptField(t, cipher, "Test"),
		EncryptedSurname:  encryptField(t, cipher, "Shopper"),
		EncryptedAddress:  encryptField(t, cipher, "1 Example Street"),
		Role:              role,
		PasswordHash:      hash,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, st.Users().Create(context.Background(), user))
	return user
}

func createTestProduct(t *testing.T, st store.Store, name string, price int64, listed bool) domain.Product {
	t.Helper()

	now := time.Now().UTC()
	product := domain.Product{
		ID:        idx.New().String(),
		Name:      name,
		Price:     price,
		Listed:    listed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.Products().Create(context.Background(), product))
	return product
}

func createTestOrder(t *testing.T, orders *OrderService, userID string, items []domain.OrderItem) domain.OrderWithItems {
	t.Helper()

	order, err := orders.Create(context.Background(), userID, items)
	require.NoError(t, err)
	return order
}
