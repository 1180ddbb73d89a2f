package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ledgerlane/storefront/internal/shop/events"
	httpapi "github.com/ledgerlane/storefront/internal/shop/http"
	"github.com/ledgerlane/storefront/internal/shop/payment"
	"github.com/ledgerlane/storefront/internal/shop/service"
	"github.com/ledgerlane/storefront/internal/shop/store"
	"github.com/ledgerlane/storefront/internal/shop/store/drivers/sqlite"
	"github.com/ledgerlane/storefront/pkg/cryptox"
	"github.com/ledgerlane/storefront/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the storefront service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	cipher   *cryptox.FieldCipher
	gateway  payment.Gateway
	producer *events.Producer

	// Services
	sessionService      *service.SessionService
	throttle            *service.LoginThrottle
	authService         *service.AuthService
	registrationService *service.RegistrationService
	userService         *service.UserService
	productService      *service.ProductService
	orderService        *service.OrderService
	checkoutService     *service.CheckoutService
	housekeepingService *service.HousekeepingService

	housekeepingCancel context.CancelFunc

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "storefront",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	keyMaterial, err := cryptox.LoadFieldKey(app.cfg.FieldKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load field encryption key: %w", err)
	}
	app.cipher, err = cryptox.NewFieldCipher(keyMaterial)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize field cipher: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initPayment()
	app.initEvents()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping in the background
	hkCtx, cancel := context.WithCancel(context.Background())
	app.housekeepingCancel = cancel
	go app.housekeepingService.Run(hkCtx)

	app.logger.Info("storefront starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"payment_enabled", app.gateway.Enabled(),
		"events_enabled", app.producer != nil,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down storefront...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.housekeepingCancel != nil {
		app.housekeepingCancel()
	}

	if err := app.producer.Close(); err != nil {
		app.logger.Error("error closing event producer", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("storefront stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initPayment() {
	if !app.cfg.PaymentEnabled() {
		app.gateway = payment.NewDisabledGateway()
		app.logger.Info("payment gateway disabled, checkout confirms orders immediately")
		return
	}

	app.gateway = payment.NewStripeGateway(payment.StripeConfig{
		SecretKey:      app.cfg.StripeSecretKey,
		PublishableKey: app.cfg.StripePublishableKey,
		WebhookSecret:  app.cfg.StripeWebhookSecret,
		Currency:       app.cfg.StripeCurrency,
	})
}

func (app *Application) initEvents() {
	// Nil producer is valid; publishing becomes a no-op.
	app.producer = events.NewProducer(app.cfg.KafkaBrokers, app.cfg.KafkaOrdersTopic)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Store:            app.db,
		AuthenticatedTTL: app.cfg.AuthenticatedTTL,
		PendingMFATTL:    app.cfg.PendingMFATTL,
		RegistrationTTL:  app.cfg.RegistrationTTL,
	}

	app.throttle = &service.LoginThrottle{
		Store:         app.db,
		MaxFailures:   app.cfg.LoginMaxFailures,
		FailureWindow: app.cfg.LoginFailureWindow,
		BaseLockout:   app.cfg.LoginBaseLockout,
		MaxLockout:    app.cfg.LoginMaxLockout,
	}

	app.authService = &service.AuthService{
		Store:    app.db,
		Sessions: app.sessionService,
		Throttle: app.throttle,
	}

	app.registrationService = &service.RegistrationService{
		Store:    app.db,
		Sessions: app.sessionService,
		Cipher:   app.cipher,
	}

	app.userService = &service.UserService{
		Store:  app.db,
		Cipher: app.cipher,
		Issuer: app.cfg.TOTPIssuer,
	}

	app.productService = &service.ProductService{Store: app.db}

	app.orderService = &service.OrderService{
		Store:  app.db,
		Events: app.producer,
	}

	app.checkoutService = &service.CheckoutService{
		Store:   app.db,
		Gateway: app.gateway,
		Orders:  app.orderService,
	}

	app.housekeepingService = &service.HousekeepingService{
		Store:            app.db,
		Interval:         app.cfg.HousekeepingInterval,
		StaleUnpaidAfter: app.cfg.StaleUnpaidAfter,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.cfg.SecureCookies, app.db, app.logger)

	// Wire services to router
	router.SessionService = app.sessionService
	router.AuthService = app.authService
	router.RegistrationService = app.registrationService
	router.UserService = app.userService
	router.ProductService = app.productService
	router.OrderService = app.orderService
	router.CheckoutService = app.checkoutService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
