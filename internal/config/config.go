package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all configuration for the creator payments service
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Reporting: the single IANA zone that defines calendar days for all
	// trend reporting, and the currency historical rollups snapshot into.
	BusinessTimezone  string
	ReportingCurrency string

	// Stripe
	StripeSecretKey     string
	StripeWebhookSecret string

	// Paystack
	PaystackSecretKey string

	// Optional platform fee overrides, percent (e.g. "9", "10.5").
	DomesticPlatformFeePercent    *decimal.Decimal
	CrossBorderPlatformFeePercent *decimal.Decimal
}

// buildDatabaseURL constructs the database URL from individual components
func buildDatabaseURL() string {
	// First check if DATABASE_URL is explicitly set
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	// Build from components
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "password")
	dbname := getEnv("DB_NAME", "creator_payments")
	sslmode := getEnv("DB_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslmode)
}

// Load loads configuration from environment variables
func Load() *Config {
	config := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		DatabaseURL: buildDatabaseURL(),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),

		BusinessTimezone:  getEnv("BUSINESS_TIMEZONE", "Africa/Lagos"),
		ReportingCurrency: getEnv("REPORTING_CURRENCY", "USD"),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),

		PaystackSecretKey: getEnv("PAYSTACK_SECRET_KEY", ""),

		DomesticPlatformFeePercent:    getEnvDecimal("PLATFORM_FEE_PERCENT_DOMESTIC"),
		CrossBorderPlatformFeePercent: getEnvDecimal("PLATFORM_FEE_PERCENT_CROSS_BORDER"),
	}

	// Validate required fields
	if config.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if _, err := time.LoadLocation(config.BusinessTimezone); err != nil {
		log.Fatalf("BUSINESS_TIMEZONE %q is not a valid IANA zone: %v", config.BusinessTimezone, err)
	}

	return config
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvDecimal parses an optional decimal environment variable. A value
// that doesn't parse is a deployment mistake worth failing loudly on.
func getEnvDecimal(key string) *decimal.Decimal {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		log.Fatalf("%s=%q is not a valid decimal: %v", key, value, err)
	}
	return &d
}
