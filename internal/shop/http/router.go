package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/internal/shop/service"
	"github.com/ledgerlane/storefront/internal/shop/store"
	"github.com/ledgerlane/storefront/pkg/httpx"
	"github.com/ledgerlane/storefront/pkg/slogx"

	_ "github.com/ledgerlane/storefront/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion  string
	secureCookies bool
	startTime     time.Time
	logger        *slog.Logger

	store               store.Store
	SessionService      *service.SessionService
	AuthService         *service.AuthService
	RegistrationService *service.RegistrationService
	UserService         *service.UserService
	ProductService      *service.ProductService
	OrderService        *service.OrderService
	CheckoutService     *service.CheckoutService
}

func NewRouter(buildVersion string, secureCookies bool, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		buildVersion:  buildVersion,
		secureCookies: secureCookies,
		startTime:     time.Now(),
		store:         st,
		logger:        logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerRegistration()
	r.registerUsers()
	r.registerProducts()
	r.registerOrders()
	r.registerCheckout()
	r.registerWebhook()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Storefront API
//	@version		0.1.0
//	@description	Cookie-session storefront backend: two-step registration, optional TOTP two-factor login, an encrypted-at-rest customer profile, and an order-to-payment flow backed by a card payment provider.
//	@description
//	@description	Sessions ride in an HttpOnly cookie; state-changing requests must echo the script-readable CSRF cookie in the X-CSRF-Token header.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) sessions() *SessionMiddleware {
	return &SessionMiddleware{Sessions: r.SessionService, Store: r.store}
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService:   r.AuthService,
		Store:         r.store,
		SecureCookies: r.secureCookies,
	}
	sessions := r.sessions()

	// POST /auth - strict rate limit (credential guessing surface)
	r.Mux.Handle("POST /v1/auth",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/2fa - strict rate limit, pending-MFA session only
	r.Mux.Handle("POST /v1/auth/2fa",
		httpx.Chain(http.HandlerFunc(h.HandleMFA),
			sessions.Require(domain.SessionPendingMFA),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// DELETE /auth - any session kind may end itself
	r.Mux.Handle("DELETE /v1/auth",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			sessions.Require(domain.SessionAuthenticated, domain.SessionPendingMFA, domain.SessionRegistration),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /v1/auth",
		httpx.Chain(http.HandlerFunc(h.HandleWhoAmI),
			sessions.Require(domain.SessionAuthenticated),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Role probes for edge proxies. Same middleware as any authenticated read.
	authed := sessions.Require(domain.SessionAuthenticated)
	r.Mux.Handle("GET /v1/auth/check",
		httpx.Chain(http.HandlerFunc(h.HandleCheck),
			authed,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/auth/check/admin",
		httpx.Chain(h.HandleCheckRole(domain.RoleAdministrator),
			authed,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/auth/check/customer",
		httpx.Chain(h.HandleCheckRole(domain.RoleCustomer),
			authed,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerRegistration() {
	h := &RegistrationHandler{
		RegistrationService: r.RegistrationService,
		SecureCookies:       r.secureCookies,
	}
	sessions := r.sessions()

	// POST /register - strict rate limit (public signup endpoint)
	r.Mux.Handle("POST /v1/register",
		httpx.Chain(http.HandlerFunc(h.HandleBegin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /register/credential - registration session only
	r.Mux.Handle("POST /v1/register/credential",
		httpx.Chain(http.HandlerFunc(h.HandleComplete),
			sessions.Require(domain.SessionRegistration),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UserHandler{
		UserService:    r.UserService,
		SessionService: r.SessionService,
		SecureCookies:  r.secureCookies,
	}
	sessions := r.sessions()
	authed := sessions.Require(domain.SessionAuthenticated)

	r.Mux.Handle("GET /v1/users",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			authed, RequireAdmin(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/users/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			authed,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PUT /v1/users/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdateProfile),
			authed,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/users/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			authed,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT /v1/users/password",
		httpx.Chain(http.HandlerFunc(h.HandleUpdatePassword),
			authed,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/users/{id}/promote",
		httpx.Chain(http.HandlerFunc(h.HandlePromote),
			authed, RequireAdmin(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// TOTP codes are guessable; keep verification endpoints strict.
	r.Mux.Handle("POST /v1/users/2fa/enroll",
		httpx.Chain(http.HandlerFunc(h.HandleEnrollTOTP),
			authed,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/users/2fa/confirm",
		httpx.Chain(http.HandlerFunc(h.HandleConfirmTOTP),
			authed,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/users/2fa",
		httpx.Chain(http.HandlerFunc(h.HandleDisableTOTP),
			authed,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerProducts() {
	h := &ProductHandler{ProductService: r.ProductService}
	sessions := r.sessions()
	authed := sessions.Require(domain.SessionAuthenticated)

	r.Mux.Handle("GET /v1/products",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			authed,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/products/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			authed,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/products",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			authed, RequireAdmin(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT /v1/products/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			authed, RequireAdmin(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/products/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			authed, RequireAdmin(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerOrders() {
	h := &OrderHandler{OrderService: r.OrderService}
	sessions := r.sessions()
	authed := sessions.Require(domain.SessionAuthenticated)

	r.Mux.Handle("POST /v1/orders",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			authed,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/orders",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			authed,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/orders/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			authed,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/orders/{id}/fulfil",
		httpx.Chain(http.HandlerFunc(h.HandleFulfil),
			authed, RequireAdmin(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerCheckout() {
	h := &CheckoutHandler{CheckoutService: r.CheckoutService}
	sessions := r.sessions()
	authed := sessions.Require(domain.SessionAuthenticated)

	r.Mux.Handle("POST /v1/orders/{id}/checkout",
		httpx.Chain(http.HandlerFunc(h.HandleBegin),
			authed,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/orders/{id}/checkout",
		httpx.Chain(http.HandlerFunc(h.HandleStatus),
			authed,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/checkout",
		httpx.Chain(http.HandlerFunc(h.HandleConfig),
			authed,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerWebhook() {
	// No session middleware here: the provider signature is the credential.
	h := &WebhookHandler{CheckoutService: r.CheckoutService}
	r.Mux.Handle("POST /v1/webhook/payment",
		httpx.Chain(http.HandlerFunc(h.HandlePayment),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
