package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseFile string // Optional: path to SQLite database file (default: ./shop.db)
	PepperFile   string // Optional: path to password hashing pepper file (default: ./pepper)
	FieldKeyFile string // Optional: path to profile encryption key file (default: ./fieldkey)
	TOTPIssuer   string // Optional: issuer shown in authenticator apps (default: storefront)

	SecureCookies bool // Whether session cookies carry the Secure flag (default: true; disable for local HTTP dev only)

	AuthenticatedTTL time.Duration // Authenticated session lifetime (default: 168h)
	PendingMFATTL    time.Duration // Pending-MFA session lifetime (default: 5m)
	RegistrationTTL  time.Duration // Registration session lifetime (default: 30m)

	LoginMaxFailures   int64         // Failures before lockout (default: 5)
	LoginFailureWindow time.Duration // Failure counting window (default: 15m)
	LoginBaseLockout   time.Duration // First lockout length (default: 1m)
	LoginMaxLockout    time.Duration // Lockout cap (default: 1h)

	StripeSecretKey      string // Optional: payment disabled when empty
	StripePublishableKey string
	StripeWebhookSecret  string
	StripeCurrency       string // Optional: ISO currency code (default: gbp)

	KafkaBrokers     []string // Optional: order events disabled when empty
	KafkaOrdersTopic string   // Optional: topic for order events (default: shop.orders)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 10m)
	StaleUnpaidAfter     time.Duration // Age before an unpaid order is flagged (default: 24h)
}

func LoadConfig() Config {
	// Local development keeps settings in a .env file; absence is fine.
	_ = godotenv.Load()

	cfg := Config{
		DatabaseFile: getEnvOrDefault("SHOP_DATABASE_FILE", "shop.db"),
		PepperFile:   getEnvOrDefault("SHOP_PEPPER_FILE", "pepper"),
		FieldKeyFile: getEnvOrDefault("SHOP_FIELD_KEY_FILE", "fieldkey"),
		TOTPIssuer:   getEnvOrDefault("SHOP_TOTP_ISSUER", "storefront"),

		SecureCookies: getEnvBoolOrDefault("SHOP_SECURE_COOKIES", true),

		AuthenticatedTTL: getEnvDurationOrDefault("SHOP_SESSION_TTL", 7*24*time.Hour),
		PendingMFATTL:    getEnvDurationOrDefault("SHOP_PENDING_MFA_TTL", 5*time.Minute),
		RegistrationTTL:  getEnvDurationOrDefault("SHOP_REGISTRATION_TTL", 30*time.Minute),

		LoginMaxFailures:   int64(getEnvIntOrDefault("SHOP_LOGIN_MAX_FAILURES", 5)),
		LoginFailureWindow: getEnvDurationOrDefault("SHOP_LOGIN_FAILURE_WINDOW", 15*time.Minute),
		LoginBaseLockout:   getEnvDurationOrDefault("SHOP_LOGIN_BASE_LOCKOUT", time.Minute),
		LoginMaxLockout:    getEnvDurationOrDefault("SHOP_LOGIN_MAX_LOCKOUT", time.Hour),

		StripeSecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		StripePublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
		StripeWebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeCurrency:       getEnvOrDefault("STRIPE_CURRENCY", "gbp"),

		KafkaOrdersTopic: getEnvOrDefault("KAFKA_ORDERS_TOPIC", "shop.orders"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 10*time.Minute),
		StaleUnpaidAfter:     getEnvDurationOrDefault("SHOP_STALE_UNPAID_AFTER", 24*time.Hour),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, broker := range strings.Split(brokers, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}

	return cfg
}

// PaymentEnabled reports whether a real payment provider is configured.
func (c Config) PaymentEnabled() bool {
	return c.StripeSecretKey != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
