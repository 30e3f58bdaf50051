package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/trades-booking-api/internal/bookings"
	appconfig "github.com/wolfman30/trades-booking-api/internal/config"
	"github.com/wolfman30/trades-booking-api/internal/events"
	httpmiddleware "github.com/wolfman30/trades-booking-api/internal/http/middleware"
	"github.com/wolfman30/trades-booking-api/internal/instagram"
	"github.com/wolfman30/trades-booking-api/internal/notify"
	"github.com/wolfman30/trades-booking-api/internal/payments"
	"github.com/wolfman30/trades-booking-api/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || !cfg.UseRedisRateLimit() {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildBookingRepository connects to Postgres when DATABASE_URL is set and
// falls back to the in-memory store otherwise. The returned pool is nil for
// the in-memory store.
func BuildBookingRepository(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (bookings.Repository, *pgxpool.Pool, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		logger.Warn("DATABASE_URL not set; bookings are kept in memory")
		return bookings.NewInMemoryRepository(), nil, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap: connect database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("bootstrap: ping database: %w", err)
	}
	return bookings.NewPostgresRepository(pool), pool, nil
}

// BuildEventLedger returns the Postgres webhook ledger when a pool exists and
// the in-memory one otherwise.
func BuildEventLedger(pool *pgxpool.Pool) payments.EventLedger {
	if pool == nil {
		return events.NewMemoryProcessedStore()
	}
	return events.NewProcessedStore(pool)
}

// BuildEmailSender picks the email provider named by EMAIL_PROVIDER. "auto"
// prefers Resend, then SendGrid, then the logging stub. sesClient is only
// consulted for the "ses" provider.
func BuildEmailSender(cfg *appconfig.Config, sesClient notify.SESAPI, logger *logging.Logger) (notify.EmailSender, string, error) {
	if logger == nil {
		logger = logging.Default()
	}
	provider := cfg.EmailProvider
	if provider == "" {
		provider = "auto"
	}
	if provider == "auto" {
		switch {
		case cfg.ResendAPIKey != "":
			provider = "resend"
		case cfg.SendGridAPIKey != "":
			provider = "sendgrid"
		default:
			provider = "stub"
		}
	}

	switch provider {
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, "", fmt.Errorf("bootstrap: EMAIL_PROVIDER=resend requires RESEND_API_KEY")
		}
		return notify.NewResendSender(notify.ResendConfig{
			APIKey:    cfg.ResendAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger), provider, nil
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, "", fmt.Errorf("bootstrap: EMAIL_PROVIDER=sendgrid requires SENDGRID_API_KEY")
		}
		return notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger), provider, nil
	case "ses":
		if sesClient == nil {
			return nil, "", fmt.Errorf("bootstrap: EMAIL_PROVIDER=ses requires an SES client")
		}
		return notify.NewSESSender(sesClient, notify.SESConfig{
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger), provider, nil
	case "stub", "log":
		logger.Warn("email provider is the logging stub; no emails will be delivered")
		return notify.NewStubEmailSender(logger), "stub", nil
	default:
		return nil, "", fmt.Errorf("bootstrap: unknown EMAIL_PROVIDER %q", cfg.EmailProvider)
	}
}

// BuildFeedSource returns the S3-backed feed when a bucket is configured,
// otherwise the local file.
func BuildFeedSource(cfg *appconfig.Config, s3Client instagram.S3API) instagram.Source {
	if strings.TrimSpace(cfg.InstagramFeedBucket) != "" && s3Client != nil {
		return instagram.NewS3Source(s3Client, cfg.InstagramFeedBucket, cfg.InstagramFeedKey)
	}
	return instagram.NewFileSource(cfg.InstagramFeedPath)
}

// BuildRateLimiter keeps counters in Redis when a client is supplied and in
// process memory otherwise.
func BuildRateLimiter(cfg *appconfig.Config, redisClient *redis.Client, logger *logging.Logger) *httpmiddleware.RateLimiter {
	var store httpmiddleware.WindowStore
	if redisClient != nil {
		store = httpmiddleware.NewRedisWindowStore(redisClient, "")
	} else {
		store = httpmiddleware.NewMemoryWindowStore()
	}
	return httpmiddleware.NewRateLimiter(store, cfg.RateLimitPerMinute, time.Minute, logger)
}

// RedisPinger adapts a Redis client to the health check interface.
type RedisPinger struct {
	Client *redis.Client
}

func (p RedisPinger) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}
