// Package server registers the HTTP routes and runs the listener.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"resa/internal/handler"
	"resa/internal/metrics"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

func New(port int, h *handler.Handler, m *metrics.Collector, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/plan", h.Plan)

	mux.HandleFunc("GET /api/sites/search", h.SearchSites)
	mux.HandleFunc("GET /api/sites/{id}/departures", h.Departures)
	mux.HandleFunc("GET /api/stops/nearby", h.NearbyStops)

	mux.HandleFunc("GET /api/deviations", h.Deviations)

	mux.HandleFunc("GET /api/trips", h.ListSavedTrips)
	mux.HandleFunc("POST /api/trips", h.CreateSavedTrip)
	mux.HandleFunc("PUT /api/trips/{id}", h.UpdateSavedTrip)
	mux.HandleFunc("DELETE /api/trips/{id}", h.DeleteSavedTrip)
	mux.HandleFunc("GET /api/trips/{id}/plan", h.PlanSavedTrip)

	mux.HandleFunc("GET /api/addresses", h.ListAddresses)
	mux.HandleFunc("POST /api/addresses", h.CreateAddress)
	mux.HandleFunc("DELETE /api/addresses/{id}", h.DeleteAddress)

	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	root := securityHeaders(requestLogger(logger, mux))

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           root,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
