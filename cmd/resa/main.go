// Command resa serves the journey planner API: trip aggregation over
// the SL Journey Planner, a persisted site index, departure boards and
// realtime deviations.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resa/internal/config"
	"resa/internal/handler"
	"resa/internal/metrics"
	"resa/internal/realtime"
	"resa/internal/server"
	"resa/internal/sites"
	"resa/internal/sl"
	"resa/internal/storage"
	"resa/internal/trip"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg := config.Load(logger)

	db, err := storage.Open(cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	m := metrics.NewCollector()
	slClient := sl.NewClient(cfg.JourneyPlannerBaseURL, cfg.TransportBaseURL, m, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	index := sites.NewIndex(db, slClient, cfg.SiteRefreshMinInterval, m, logger)
	go index.Run(ctx, cfg.SiteRefreshInterval)

	deviations := realtime.NewStore()
	alerts := realtime.NewFetcher(cfg.AlertsURL, deviations, m, logger)
	go alerts.Run(ctx, cfg.AlertsPollInterval)

	planner := trip.NewPlanner(slClient, logger)

	h := handler.New(planner, slClient, index, deviations, db, m, logger)
	srv := server.New(cfg.Port, h, m, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
