package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/flutterwave"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	internalRedis "storefront/internal/redis"
	"storefront/internal/repository/postgres"
	"storefront/internal/service"
	"storefront/internal/webhook"
)

func main() {
	// Load configuration.
	cfg := config.Load()
	logger := app.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Error("failed to initialize New Relic", slog.String("error", err.Error()))
		} else {
			logger.Info("New Relic enabled", slog.String("app", cfg.NewRelic.AppName))
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to PostgreSQL")

	if err := app.Migrate(ctx, db); err != nil {
		logger.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logger.Error("failed to connect to redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()
	logger.Info("connected to Redis")

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = randomSecret()
		logger.Warn("JWT_SECRET not set; using a random secret, tokens will not survive a restart")
	}
	if cfg.Flutterwave.SecretHash == "" {
		if cfg.Flutterwave.RequireSignature {
			logger.Warn("FLUTTERWAVE_SECRET_HASH not set; all webhooks will be rejected")
		} else {
			logger.Warn("FLUTTERWAVE_SECRET_HASH not set; webhooks are accepted without signature verification")
		}
	}

	server := wireServer(db, redisClient, nrApp, cfg, logger)

	go func() {
		logger.Info("starting server", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", slog.String("error", err.Error()))
	}
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	logger.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, logger *slog.Logger) *http.Server {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	deliveryStore := internalRedis.NewDeliveryStore(redisClient)
	locationCache := internalRedis.NewLocationCache(redisClient)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	productRepo := postgres.NewProductRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	locationRepo := postgres.NewLocationRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	txRunner := postgres.NewTxRunner(db)

	// Gateway and webhook authentication.
	gateway := flutterwave.NewClient(cfg.Flutterwave.BaseURL, cfg.Flutterwave.SecretKey, &http.Client{
		Timeout:   cfg.Flutterwave.Timeout,
		Transport: newrelic.NewRoundTripper(http.DefaultTransport),
	})
	authenticator := webhook.NewAuthenticator(cfg.Flutterwave.SecretHash, cfg.Flutterwave.RequireSignature)

	// Initialize services.
	notificationService := service.NewNotificationService(logger)
	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	productService := service.NewProductService(productRepo, categoryRepo)
	locationService := service.NewLocationService(locationRepo, locationCache, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, locationRepo, txRunner, notificationService, logger)
	paymentService := service.NewPaymentService(
		paymentRepo,
		orderRepo,
		txRunner,
		gateway,
		authenticator,
		lockStore,
		deliveryStore,
		notificationService,
		service.CheckoutSettings{
			Currency:    cfg.Flutterwave.Currency,
			RedirectURL: cfg.Flutterwave.RedirectURL,
			TxRefPrefix: cfg.Flutterwave.TxRefPrefix,
			Title:       cfg.Flutterwave.CheckoutTitle,
			Logo:        cfg.Flutterwave.CheckoutLogo,
		},
		logger,
	)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		UserHandler:     handler.NewUserHandler(authService),
		ProductHandler:  handler.NewProductHandler(productService),
		CategoryHandler: handler.NewCategoryHandler(productService),
		LocationHandler: handler.NewLocationHandler(locationService),
		OrderHandler:    handler.NewOrderHandler(orderService),
		PaymentHandler:  handler.NewPaymentHandler(paymentService),
		WebhookHandler:  handler.NewWebhookHandler(paymentService),
		TokenParser:     authService,
		Idempotency:     middleware.IdempotencyMiddleware(redisClient),
		NewRelicApp:     nrApp,
		Logger:          logger,
		WebhookLimiter:  middleware.NewRateLimiter(cfg.RateLimit.WebhookPerSecond, cfg.RateLimit.WebhookBurst),
		AuthLimiter:     middleware.NewRateLimiter(cfg.RateLimit.AuthPerSecond, cfg.RateLimit.AuthBurst),
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
