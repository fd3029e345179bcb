package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/couchcryptid/weather-risk-etl/internal/adapter/dynamo"
	httpadapter "github.com/couchcryptid/weather-risk-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weather-risk-etl/internal/adapter/kafka"
	s3adapter "github.com/couchcryptid/weather-risk-etl/internal/adapter/s3"
	snsadapter "github.com/couchcryptid/weather-risk-etl/internal/adapter/sns"
	"github.com/couchcryptid/weather-risk-etl/internal/config"
	"github.com/couchcryptid/weather-risk-etl/internal/observability"
	"github.com/couchcryptid/weather-risk-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Error("failed to load aws config", "error", err)
		os.Exit(1)
	}

	objects := s3adapter.NewStore(awss3.NewFromConfig(awsCfg))
	records := dynamo.NewStore(dynamodb.NewFromConfig(awsCfg), cfg.TableName)
	notifier := snsadapter.NewDispatcher(awssns.NewFromConfig(awsCfg), cfg, logger)

	// Notification channels are feature-flagged via their topic ARNs.
	if cfg.StatusTopicARN == "" {
		logger.Info("status notifications disabled")
	}
	if cfg.StormTopicARN == "" {
		logger.Info("storm alerts disabled")
	}

	reader := kafkaadapter.NewReader(cfg, logger)

	o := pipeline.New(reader, objects, records, notifier, logger, metrics, cfg.StormThreshold)

	srv := httpadapter.NewServer(cfg.HTTPAddr, o, records, cfg.DefaultLocation, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the risk pipeline.
	go func() {
		if err := o.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}

	logger.Info("shutdown complete")
}
