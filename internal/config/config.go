package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	LogFormat          string
	PublicSiteURL      string
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration

	// Booking store (Postgres / Supabase). Empty selects the in-memory store.
	DatabaseURL string

	// Stripe
	StripeSecretKey      string
	StripePublishableKey string
	StripeWebhookSecret  string
	StripeTimeout        time.Duration

	// Email
	EmailProvider      string
	EmailFrom          string
	EmailFromName      string
	ResendAPIKey       string
	SendGridAPIKey     string
	BookingNotifyEmail string

	GoogleMapsAPIKey string

	// Rate limiting
	RateLimitPerMinute int
	RateLimitBackend   string
	RedisAddr          string
	RedisPassword      string
	RedisTLS           bool

	// TrustedProxyHops is the number of reverse proxies in front of the API
	// whose X-Forwarded-For entries identify the client. Zero ignores the header.
	TrustedProxyHops int

	AdminJWTSecret string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Instagram feed
	InstagramFeedPath    string
	InstagramFeedBucket  string
	InstagramFeedKey     string
	InstagramAccessToken string
	InstagramFeedLimit   int

	// Tracing. An empty endpoint leaves the no-op tracer in place.
	ServiceName  string
	OTLPEndpoint string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		PublicSiteURL:      strings.TrimRight(getEnv("PUBLIC_SITE_URL", "http://localhost:3000"), "/"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		ShutdownTimeout:    getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		StripeSecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
		StripePublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
		StripeWebhookSecret:  getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripeTimeout:        getEnvAsDuration("STRIPE_TIMEOUT", 15*time.Second),

		EmailProvider:      strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "auto"))),
		EmailFrom:          getEnv("EMAIL_FROM", ""),
		EmailFromName:      getEnv("EMAIL_FROM_NAME", "Trade Services"),
		ResendAPIKey:       getEnv("RESEND_API_KEY", ""),
		SendGridAPIKey:     getEnv("SENDGRID_API_KEY", ""),
		BookingNotifyEmail: getEnv("BOOKING_NOTIFY_EMAIL", ""),

		GoogleMapsAPIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),

		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		RateLimitBackend:   strings.ToLower(strings.TrimSpace(getEnv("RATE_LIMIT_BACKEND", "memory"))),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),

		TrustedProxyHops: getEnvAsInt("TRUSTED_PROXY_HOPS", 0),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		AWSRegion:           getEnv("AWS_REGION", "ap-southeast-2"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		InstagramFeedPath:    getEnv("INSTAGRAM_FEED_PATH", "data/instagram.json"),
		InstagramFeedBucket:  getEnv("INSTAGRAM_FEED_BUCKET", ""),
		InstagramFeedKey:     getEnv("INSTAGRAM_FEED_KEY", "feeds/instagram.json"),
		InstagramAccessToken: getEnv("INSTAGRAM_ACCESS_TOKEN", ""),
		InstagramFeedLimit:   getEnvAsInt("INSTAGRAM_FEED_LIMIT", 12),

		ServiceName:  getEnv("OTEL_SERVICE_NAME", "trades-booking-api"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

// UseRedisRateLimit reports whether rate limit counters should live in Redis.
func (c *Config) UseRedisRateLimit() bool {
	return c.RateLimitBackend == "redis" && strings.TrimSpace(c.RedisAddr) != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
