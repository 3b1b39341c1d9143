package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/couchcryptid/hko-rainfall-monitor/internal/adapter/hko"
	httpadapter "github.com/couchcryptid/hko-rainfall-monitor/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/hko-rainfall-monitor/internal/adapter/kafka"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/config"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/history"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/observability"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/pipeline"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/scheduler"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	store := history.NewStore(filepath.Join(cfg.DataDir, "history.json"), cfg.Retention(), nil, metrics, logger)
	if err := store.Load(); err != nil {
		logger.Warn("could not restore history, starting empty", "error", err)
	} else if store.Len() > 0 {
		logger.Info("history restored", "entries", store.Len())
	}

	client := hko.NewClient(cfg, metrics, logger)
	assembler := pipeline.NewAssembler(client, nil, metrics, logger)

	var dumper *history.Dumper
	if cfg.DumpSnapshots {
		dumper = history.NewDumper(cfg.DataDir, nil, logger)
		logger.Info("snapshot dumps enabled", "dir", cfg.DataDir)
	}

	// Kafka publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	p := pipeline.New(assembler, store, dumper, publisher, metrics, logger)
	sched := scheduler.New(p, cfg.UpdateInterval, cfg.ShutdownTimeout, nil, metrics, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, service.New(store), p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if err := sched.Start(ctx); err != nil {
		logger.Error("scheduler start error", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := sched.Stop(); err != nil {
		logger.Error("scheduler stop error", "error", err)
	}
	if err := store.Persist(); err != nil {
		logger.Error("final history persist error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
