package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wolfman30/trades-booking-api/internal/bookings"
	"github.com/wolfman30/trades-booking-api/internal/csp"
	"github.com/wolfman30/trades-booking-api/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/trades-booking-api/internal/http/middleware"
	"github.com/wolfman30/trades-booking-api/internal/instagram"
	"github.com/wolfman30/trades-booking-api/internal/notify"
	"github.com/wolfman30/trades-booking-api/internal/payments"
	"github.com/wolfman30/trades-booking-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	BookingsHandler    *bookings.Handler
	PaymentsHandler    *payments.Handler
	PaymentPage        *payments.PageHandler
	StripeWebhook      *payments.StripeWebhookHandler
	PaymentEmail       *notify.PaymentEmailHandler
	CSPHandler         *csp.Handler
	InstagramHandler   *instagram.Handler
	PublicConfig       *handlers.PublicConfigHandler
	HealthHandler      *handlers.HealthHandler
	MetricsHandler     http.Handler
	RateLimiter        *httpmiddleware.RateLimiter
	CORSAllowedOrigins []string
	CSP                httpmiddleware.CSPConfig

	// TrustedProxyHops controls how the client address is derived from
	// X-Forwarded-For. Zero uses the socket peer.
	TrustedProxyHops int

	// AdminAuthSecret, when set, puts the payment email trigger behind an
	// operator JWT.
	AdminAuthSecret string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(httpmiddleware.ClientIP(cfg.TrustedProxyHops))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(httpmiddleware.SecurityHeaders(cfg.CSP))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	health := cfg.HealthHandler
	if health == nil {
		health = handlers.NewHealthHandler(nil, cfg.Logger)
	}

	// Public endpoints (webhooks, health checks, pages)
	r.Group(func(public chi.Router) {
		public.Get("/health", health.Check)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.StripeWebhook != nil {
			public.Post("/webhooks/stripe", cfg.StripeWebhook.Handle)
		}
		if cfg.PaymentPage != nil {
			public.Get("/payment/verify", cfg.PaymentPage.Verify)
		}
	})

	// Site API, rate limited per client, method and path.
	r.Route("/api", func(api chi.Router) {
		if cfg.RateLimiter != nil {
			api.Use(cfg.RateLimiter.Middleware())
		}
		if cfg.BookingsHandler != nil {
			api.Post("/send-email", cfg.BookingsHandler.Submit)
		}
		if cfg.PaymentsHandler != nil {
			api.Post("/create-payment-intent", cfg.PaymentsHandler.CreatePaymentIntent)
			api.Post("/verify-payment", cfg.PaymentsHandler.VerifyPayment)
		}
		if cfg.PaymentEmail != nil {
			if cfg.AdminAuthSecret != "" {
				api.With(httpmiddleware.AdminJWT(cfg.AdminAuthSecret)).Get("/send-payment-email", cfg.PaymentEmail.Send)
			} else {
				api.Get("/send-payment-email", cfg.PaymentEmail.Send)
			}
		}
		if cfg.CSPHandler != nil {
			api.Post("/csp-report", cfg.CSPHandler.Report)
		}
		if cfg.InstagramHandler != nil {
			api.Get("/instagram", cfg.InstagramHandler.Serve)
		}
		if cfg.PublicConfig != nil {
			api.Get("/public-config", cfg.PublicConfig.Get)
		}
	})

	return r
}
