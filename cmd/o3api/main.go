package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/o3as/ensemble-service/internal/adapter/http"
	kafkaadapter "github.com/o3as/ensemble-service/internal/adapter/kafka"
	"github.com/o3as/ensemble-service/internal/config"
	"github.com/o3as/ensemble-service/internal/dataset"
	"github.com/o3as/ensemble-service/internal/domain"
	"github.com/o3as/ensemble-service/internal/observability"
	"github.com/o3as/ensemble-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := loadStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	metrics.ModelsLoaded.Set(float64(store.Len()))

	observed, err := domain.CompileObservedPattern(cfg.ObservedPattern)
	if err != nil {
		logger.Error("invalid OBSERVED_PATTERN", "error", err)
		os.Exit(1)
	}
	params := domain.Params{
		BoxcarWindow:  cfg.BoxcarWindow,
		RefYearMargin: cfg.RefYearMargin,
		Observed:      observed,
	}
	proc := pipeline.NewProcessor(store, params, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, proc, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	var (
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		p := pipeline.New(reader, pipeline.NewTransformer(proc, logger), writer, logger, metrics, cfg.BatchSize)

		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	} else {
		logger.Info("kafka pipeline disabled")
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// loadStore reads the whole dataset into memory from ClickHouse when
// configured, otherwise from the data directory.
func loadStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dataset.Store, error) {
	if !cfg.UseClickHouse() {
		return dataset.LoadDir(ctx, cfg.DataBasePath, cfg.DataVariable, logger)
	}

	conn, err := dataset.OpenClickHouse(ctx, dataset.ClickHouseOptions{
		Addr:     cfg.ClickHouseAddr,
		Database: cfg.ClickHouseDatabase,
		Username: cfg.ClickHouseUser,
		Password: cfg.ClickHousePassword,
	})
	if err != nil {
		return nil, fmt.Errorf("connect clickhouse: %w", err)
	}
	defer func() { _ = conn.Close() }()

	return dataset.LoadClickHouse(ctx, conn, cfg.ClickHouseTable, cfg.DataVariable, logger)
}
