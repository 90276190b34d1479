package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/collision-data-service/internal/adapter/csvfile"
	httpadapter "github.com/couchcryptid/collision-data-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/collision-data-service/internal/adapter/kafka"
	"github.com/couchcryptid/collision-data-service/internal/config"
	"github.com/couchcryptid/collision-data-service/internal/observability"
	"github.com/couchcryptid/collision-data-service/internal/pipeline"
	"github.com/couchcryptid/collision-data-service/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	loader := csvfile.NewCachedLoader(csvfile.NewLoader(logger, metrics), metrics)
	sessions := session.NewManager(loader, cfg.DataPath, cfg.MaxRows, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, sessions, sessions, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the cache. A failure is not fatal: the dashboard reports it and
	// /readyz stays unavailable until the file can be read.
	warm, err := sessions.Open(ctx)
	if err != nil {
		logger.Error("initial dataset load failed", "path", cfg.DataPath, "error", err)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	var writer *kafkaadapter.Writer
	if cfg.KafkaExportEnabled && warm != nil {
		writer = kafkaadapter.NewWriter(cfg, warm.Summary().LoadedAt, logger)
		exporter := pipeline.New(writer, logger, metrics, cfg.BatchSize)
		go func() {
			if err := exporter.Export(ctx, warm.Dataset()); err != nil {
				logger.Error("kafka export error", "error", err)
			}
		}()
	} else {
		logger.Info("kafka export disabled")
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
