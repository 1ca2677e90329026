// Command swingscored serves the scored county snapshot over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ballotmetrics/swingscore/internal/adapter/httpapi"
	"github.com/ballotmetrics/swingscore/internal/config"
	"github.com/ballotmetrics/swingscore/internal/ingest"
	"github.com/ballotmetrics/swingscore/internal/observability"
	"github.com/ballotmetrics/swingscore/internal/pipeline"
	"github.com/ballotmetrics/swingscore/internal/snapshot"
	"github.com/ballotmetrics/swingscore/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	metrics := observability.NewMetrics()

	snapshotLoader := snapshot.New(cfg.Data.SnapshotPath, logger)
	rawLoader := ingest.New(cfg.Data.RawDir, cfg.ColumnMap(), logger)

	p := pipeline.New(snapshotLoader, rawLoader, pipeline.Options{
		YearPrev:   cfg.Scoring.YearPrev,
		YearLatest: cfg.Scoring.YearLatest,
		Baseline:   cfg.Baseline(),
		Labels:     cfg.PartyLabels(),
	}, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runStore, err := store.Open(ctx, cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open run store", "error", err)
		os.Exit(1)
	}

	srv := httpapi.NewServer(cfg.HTTP.Addr, p, runStore, cfg.HTTP.CORSOrigins, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := runStore.Close(); err != nil {
		logger.Error("run store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
