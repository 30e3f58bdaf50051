package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/wolfman30/trades-booking-api/cmd/mainconfig"
	"github.com/wolfman30/trades-booking-api/internal/api/router"
	"github.com/wolfman30/trades-booking-api/internal/app/bootstrap"
	"github.com/wolfman30/trades-booking-api/internal/bookings"
	appconfig "github.com/wolfman30/trades-booking-api/internal/config"
	"github.com/wolfman30/trades-booking-api/internal/csp"
	"github.com/wolfman30/trades-booking-api/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/trades-booking-api/internal/http/middleware"
	"github.com/wolfman30/trades-booking-api/internal/instagram"
	"github.com/wolfman30/trades-booking-api/internal/notify"
	"github.com/wolfman30/trades-booking-api/internal/observability/metrics"
	"github.com/wolfman30/trades-booking-api/internal/observability/tracing"
	"github.com/wolfman30/trades-booking-api/internal/payments"
	"github.com/wolfman30/trades-booking-api/pkg/logging"
)

func main() {
	// Local development reads .env; deployed environments set real variables.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.NewWithOptions(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.Info("starting trades-booking-api server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Env,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		logger.Error("failed to initialise tracing", "error", err)
		os.Exit(1)
	}

	metricsHandler, siteMetrics := setupSiteMetrics()

	// Initialize repositories and services
	repo, pool, err := bootstrap.BuildBookingRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to connect booking store", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close()
	}

	var sesClient notify.SESAPI
	var s3Client instagram.S3API
	if needsAWS(cfg) {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		if cfg.EmailProvider == "ses" {
			sesClient = mainconfig.NewSESClient(awsCfg, cfg)
		}
		if cfg.InstagramFeedBucket != "" {
			s3Client = mainconfig.NewS3Client(awsCfg, cfg)
		}
	}

	emailSender, provider, err := bootstrap.BuildEmailSender(cfg, sesClient, logger)
	if err != nil {
		logger.Error("failed to configure email", "error", err)
		os.Exit(1)
	}
	logger.Info("email provider selected", "provider", provider)

	if cfg.StripeSecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY not set; payment intent calls will fail")
	}
	stripeProvider := payments.NewStripeProvider(cfg.StripeSecretKey, cfg.StripeTimeout, logger)

	notifier := notify.NewService(emailSender, repo, notify.Config{
		SiteURL:     cfg.PublicSiteURL,
		NotifyEmail: cfg.BookingNotifyEmail,
	}, siteMetrics, logger.Component("notify"))
	bookingService := bookings.NewService(repo, notifier, siteMetrics, logger.Component("bookings"))
	paymentService := payments.NewService(repo, stripeProvider, siteMetrics, logger.Component("payments"))

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	} else if cfg.UseRedisRateLimit() {
		logger.Warn("redis rate limit backend unavailable; using in-memory counters")
	}
	limiter := bootstrap.BuildRateLimiter(cfg, redisClient, logger)
	limiter.SetRecorder(siteMetrics)

	stripeWebhook := payments.NewStripeWebhookHandler(cfg.StripeWebhookSecret, repo, logger)
	stripeWebhook.SetLedger(bootstrap.BuildEventLedger(pool))

	checks := map[string]handlers.Pinger{}
	if pool != nil {
		checks["database"] = pool
	}
	if redisClient != nil {
		checks["redis"] = bootstrap.RedisPinger{Client: redisClient}
	}

	// Setup router
	routerCfg := &router.Config{
		Logger:           logger,
		BookingsHandler:  bookings.NewHandler(bookingService, logger),
		PaymentsHandler:  payments.NewHandler(paymentService, logger),
		PaymentPage:      payments.NewPageHandler(paymentService, cfg.PublicSiteURL, logger),
		StripeWebhook:    stripeWebhook,
		PaymentEmail:     notify.NewPaymentEmailHandler(notifier, logger),
		CSPHandler:       csp.NewHandler(siteMetrics, logger),
		InstagramHandler: instagram.NewHandler(bootstrap.BuildFeedSource(cfg, s3Client), logger),
		PublicConfig: handlers.NewPublicConfigHandler(handlers.PublicConfig{
			MapsAPIKey:           cfg.GoogleMapsAPIKey,
			StripePublishableKey: cfg.StripePublishableKey,
			SiteURL:              cfg.PublicSiteURL,
		}),
		HealthHandler:      handlers.NewHealthHandler(checks, logger),
		MetricsHandler:     metricsHandler,
		RateLimiter:        limiter,
		CORSAllowedOrigins: corsOrigins(cfg),
		CSP: httpmiddleware.CSPConfig{
			ReportURI:  "/api/csp-report",
			ReportOnly: cfg.Env != "production",
		},
		AdminAuthSecret:  cfg.AdminJWTSecret,
		TrustedProxyHops: cfg.TrustedProxyHops,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(r, "http.server"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracer shutdown", "error", err)
	}

	logger.Info("server stopped")
}

// setupSiteMetrics registers the application collectors alongside the Go
// runtime and process collectors on a dedicated registry.
func setupSiteMetrics() (http.Handler, *metrics.SiteMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	siteMetrics := metrics.NewSiteMetrics(reg)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), siteMetrics
}

func needsAWS(cfg *appconfig.Config) bool {
	return cfg.EmailProvider == "ses" || strings.TrimSpace(cfg.InstagramFeedBucket) != ""
}

// corsOrigins defaults to the public site itself when no allowlist is set.
func corsOrigins(cfg *appconfig.Config) []string {
	if len(cfg.CORSAllowedOrigins) > 0 {
		return cfg.CORSAllowedOrigins
	}
	if cfg.PublicSiteURL != "" {
		return []string{cfg.PublicSiteURL}
	}
	return nil
}
