// Command fetch captures one forecast for the configured location and writes
// it to the raw bucket, where its object-created event triggers the pipeline.
// Intended to run on a schedule, e.g. a daily cron.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/couchcryptid/weather-risk-etl/internal/adapter/openmeteo"
	s3adapter "github.com/couchcryptid/weather-risk-etl/internal/adapter/s3"
	"github.com/couchcryptid/weather-risk-etl/internal/config"
	"github.com/couchcryptid/weather-risk-etl/internal/domain"
	"github.com/couchcryptid/weather-risk-etl/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	ctx := context.Background()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Error("failed to load aws config", "error", err)
		os.Exit(1)
	}

	provider := openmeteo.NewClient(cfg, logger)
	store := s3adapter.NewStore(awss3.NewFromConfig(awsCfg))

	raw, err := provider.FetchDaily(ctx, cfg.LocationLat, cfg.LocationLon, cfg.Timezone, cfg.ForecastDays)
	if err != nil {
		logger.Error("forecast fetch failed", "location", cfg.DefaultLocation, "error", err)
		os.Exit(1)
	}

	captured := domain.NewCapturedForecast(cfg.DefaultLocation, raw)
	body, err := json.Marshal(captured)
	if err != nil {
		logger.Error("marshal captured forecast failed", "error", err)
		os.Exit(1)
	}

	key := captured.ObjectKey(cfg.RawPrefix)
	if err := store.Put(ctx, cfg.RawBucket, key, body); err != nil {
		logger.Error("store captured forecast failed", "bucket", cfg.RawBucket, "key", key, "error", err)
		os.Exit(1)
	}

	logger.Info("forecast captured",
		"location", captured.Location,
		"date", captured.Date,
		"bucket", cfg.RawBucket,
		"key", key,
	)
}
