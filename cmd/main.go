package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"creator-payments/internal/config"
	"creator-payments/internal/fees"
	"creator-payments/internal/fx"
	"creator-payments/internal/gateway"
	"creator-payments/internal/handlers"
	"creator-payments/internal/middleware"
	"creator-payments/internal/models"
	"creator-payments/internal/repository"
	"creator-payments/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	appLogger := logrus.New()
	appLogger.SetFormatter(&logrus.JSONFormatter{})
	appLogger.SetLevel(logrus.InfoLevel)

	// Connect to database
	db, err := connectDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate models
	if err := db.AutoMigrate(
		&models.Payment{},
		&models.Profile{},
		&models.ProfileTier{},
		&models.Subscription{},
	); err != nil {
		log.Printf("Warning: Auto-migration failed: %v", err)
	}

	// Business timezone for all trend bucketing
	tz, err := time.LoadLocation(cfg.BusinessTimezone)
	if err != nil {
		log.Fatalf("Failed to load business timezone: %v", err)
	}

	// Redis cache for reporting aggregates
	var cache redis.UniversalClient
	if opts, err := redis.ParseURL(cfg.RedisURL); err != nil {
		log.Printf("Warning: invalid REDIS_URL, reporting cache disabled: %v", err)
	} else {
		cache = redis.NewClient(opts)
	}

	// Fee rates with optional config overrides
	rates := fees.DefaultRates().WithPlatformOverrides(
		cfg.DomesticPlatformFeePercent,
		cfg.CrossBorderPlatformFeePercent,
	)

	// FX fallback table for the reporting-currency snapshot. Every quote
	// from this source is flagged estimated; a live source can replace it
	// without touching the payment service.
	fxSource := fx.NewStaticSource(map[string]decimal.Decimal{
		"NGN/USD": decimal.RequireFromString("0.00065"),
		"GHS/USD": decimal.RequireFromString("0.064"),
		"ZAR/USD": decimal.RequireFromString("0.056"),
		"KES/USD": decimal.RequireFromString("0.0077"),
		"EUR/USD": decimal.RequireFromString("1.16"),
		"GBP/USD": decimal.RequireFromString("1.35"),
		"JPY/USD": decimal.RequireFromString("0.0068"),
	})

	// Payment gateways
	gateways, err := gateway.NewFactory(
		gateway.StripeConfig{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
		},
		gateway.PaystackConfig{
			SecretKey: cfg.PaystackSecretKey,
		},
	)
	if err != nil {
		log.Fatalf("Failed to initialize gateways: %v", err)
	}

	// Initialize repository and services
	paymentRepo := repository.NewPaymentRepository(db)
	paymentService := services.NewPaymentService(paymentRepo, gateways, rates, fxSource, cfg.ReportingCurrency, appLogger)
	reportingService := services.NewReportingService(paymentRepo, cache, tz, appLogger)
	pricingService := services.NewPricingService(rates)

	// Initialize handlers
	webhookHandler := handlers.NewWebhookHandler(gateways, paymentService, appLogger)
	reportingHandler := handlers.NewReportingHandler(reportingService, tz)
	pricingHandler := handlers.NewPricingHandler(pricingService)

	// Setup router
	router := setupRouter(webhookHandler, reportingHandler, pricingHandler)

	// Start server
	log.Printf("Creator payments service starting on port %s (env: %s, tz: %s)", cfg.Port, cfg.Environment, cfg.BusinessTimezone)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// connectDatabase establishes a connection to the database
func connectDatabase(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Connected to database")
	return db, nil
}

// setupRouter configures the HTTP router
func setupRouter(webhookHandler *handlers.WebhookHandler, reportingHandler *handlers.ReportingHandler, pricingHandler *handlers.PricingHandler) *gin.Engine {
	router := gin.Default()

	rateLimits := middleware.NewRateLimits()

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestID())
	router.Use(middleware.ValidateRequest())

	// Health check (no rate limiting)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "creator-payments",
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimitMiddleware(rateLimits.APIGeneral))
	{
		// Onboarding pricing endpoints
		pricing := v1.Group("/pricing")
		{
			pricing.GET("/preview", pricingHandler.GetPreview)
			pricing.POST("/validate-amount", pricingHandler.ValidateAmount)
		}

		// Admin reporting endpoints. Authorization happens upstream; the
		// reverse proxy only routes authenticated admin traffic here.
		reports := v1.Group("/admin/reports")
		reports.Use(middleware.RateLimitMiddleware(rateLimits.Reports))
		{
			reports.GET("/summary", reportingHandler.GetSummary)
			reports.GET("/daily", reportingHandler.GetDailySeries)
			reports.GET("/monthly", reportingHandler.GetMonthlySeries)
		}
	}

	// Webhook endpoints - public but rate limited; signatures are the
	// real gate.
	webhooks := router.Group("/webhooks")
	webhooks.Use(middleware.RateLimitMiddleware(rateLimits.Webhook))
	{
		webhooks.POST("/stripe", webhookHandler.HandleStripeWebhook)
		webhooks.POST("/paystack", webhookHandler.HandlePaystackWebhook)
	}

	return router
}
