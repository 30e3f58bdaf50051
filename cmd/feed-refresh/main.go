package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"github.com/wolfman30/trades-booking-api/cmd/mainconfig"
	"github.com/wolfman30/trades-booking-api/internal/app/bootstrap"
	appconfig "github.com/wolfman30/trades-booking-api/internal/config"
	"github.com/wolfman30/trades-booking-api/internal/instagram"
	"github.com/wolfman30/trades-booking-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.NewWithOptions(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}).Component("feed-refresh")

	refresher, err := buildRefresher(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to configure feed refresh", "error", err)
		os.Exit(1)
	}

	if runningInLambda() {
		lambda.Start(func(ctx context.Context, evt events.CloudWatchEvent) error {
			return handle(ctx, refresher, evt, logger)
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := refresher.Refresh(ctx); err != nil {
		logger.Error("feed refresh failed", "error", err)
		os.Exit(1)
	}
}

type feedRefresher interface {
	Refresh(ctx context.Context) (*instagram.Feed, error)
}

func handle(ctx context.Context, r feedRefresher, evt events.CloudWatchEvent, logger *logging.Logger) error {
	logger.Info("scheduled feed refresh", "event_id", evt.ID, "source", evt.Source)
	_, err := r.Refresh(ctx)
	return err
}

func runningInLambda() bool {
	return strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != ""
}

func buildRefresher(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*instagram.Refresher, error) {
	var s3Client instagram.S3API
	if strings.TrimSpace(cfg.InstagramFeedBucket) != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s3Client = mainconfig.NewS3Client(awsCfg, cfg)
	}
	dest := bootstrap.BuildFeedSource(cfg, s3Client)
	client := instagram.NewClient(cfg.InstagramAccessToken)
	return instagram.NewRefresher(client, dest, cfg.InstagramFeedLimit, logger), nil
}
