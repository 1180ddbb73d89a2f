package shop_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	httpapi "github.com/ledgerlane/storefront/internal/shop/http"
	"github.com/ledgerlane/storefront/internal/shop/payment"
	"github.com/ledgerlane/storefront/internal/shop/service"
	"github.com/ledgerlane/storefront/internal/shop/store"
	"github.com/ledgerlane/storefront/internal/shop/store/drivers/sqlite"
	"github.com/ledgerlane/storefront/pkg/cryptox"
	"github.com/ledgerlane/storefront/pkg/httpx"
	"github.com/ledgerlane/storefront/pkg/idx"
	"github.com/ledgerlane/storefront/pkg/shopsdk"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "storefront-e2e")
	if err != nil {
		os.Exit(1)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	// Per-IP rate limits would trip over the shared loopback address long
	// before any test finishes. The account lockout throttle keeps its
	// production defaults.
	generous := httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}
	httpx.StrictLimit = generous
	httpx.ModerateLimit = generous
	httpx.LenientLimit = generous

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// testEnv is one complete storefront stack on an in-memory database, served
// over a local listener so the whole cookie and CSRF machinery is exercised.
type testEnv struct {
	server *httptest.Server
	store  store.Store
	cipher *cryptox.FieldCipher
}

func setupShop(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	cipher, err := cryptox.NewFieldCipher([]byte("storefront-e2e-field-key"))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sessions := &service.SessionService{Store: st}
	orders := &service.OrderService{Store: st}

	router := httpapi.NewRouter("e2e", false, st, logger)
	router.SessionService = sessions
	router.AuthService = &service.AuthService{
		Store:    st,
		Sessions: sessions,
		Throttle: &service.LoginThrottle{Store: st},
	}
	router.RegistrationService = &service.RegistrationService{
		Store:    st,
		Sessions: sessions,
		Cipher:   cipher,
	}
	router.UserService = &service.UserService{
		Store:  st,
		Cipher: cipher,
		Issuer: "storefront-e2e",
	}
	router.ProductService = &service.ProductService{Store: st}
	router.OrderService = orders
	router.CheckoutService = &service.CheckoutService{
		Store:   st,
		Gateway: payment.NewDisabledGateway(),
		Orders:  orders,
	}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{server: server, store: st, cipher: cipher}
}

func (env *testEnv) client(t *testing.T) *shopsdk.Client {
	t.Helper()

	client, err := shopsdk.NewClient(env.server.URL)
	require.NoError(t, err)
	return client
}

// registerCustomer walks the two-step signup and returns a client holding an
// authenticated session for the new account.
func (env *testEnv) registerCustomer(t *testing.T, email, password string) *shopsdk.Client {
	t.Helper()

	client := env.client(t)

	_, err := client.RegisterBegin(shopsdk.RegisterBeginRequest{
		Email:    email,
		Forename: "Edna",
		Surname:  "Tester",
		Address:  "1 Example Street",
	})
	require.NoError(t, err)

	resp, err := client.RegisterComplete(shopsdk.RegisterCompleteRequest{Password: password})
	require.NoError(t, err)
	require.Equal(t, shopsdk.StatusAuthenticated, resp.Status)

	return client
}

// createAdmin seeds an administrator straight into the store, since there is
// no signup path that grants the role, and logs in through the API.
func (env *testEnv) createAdmin(t *testing.T, email, password string) *shopsdk.Client {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	encrypt := func(value string) string {
		enc, err := env.cipher.Encrypt(value)
		require.NoError(t, err)
		return enc
	}

	now := time.Now().UTC()
	require.NoError(t, env.store.Users().Create(context.Background(), domain.User{
		ID:                idx.New().String(),
		Email:             email,
		EncryptedForename: encrypt("Ada"),
		EncryptedSurname:  encrypt("Admin"),
		EncryptedAddress:  encrypt("2 Back Office Row"),
		Role:              domain.RoleAdministrator,
		PasswordHash:      hash,
		CreatedAt:         now,
		UpdatedAt:         now,
	}))

	client := env.client(t)
	resp, err := client.Login(email, password)
	require.NoError(t, err)
	require.Equal(t, shopsdk.StatusAuthenticated, resp.Status)

	return client
}

// requireAPIError asserts err is an API error with the given status and code.
func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()

	var apiErr *shopsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.Status)
	require.Equal(t, code, apiErr.Body.Error)
}
