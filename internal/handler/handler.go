// Package handler implements the HTTP API.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"resa/internal/metrics"
	"resa/internal/realtime"
	"resa/internal/sites"
	"resa/internal/sl"
	"resa/internal/storage"
	"resa/internal/trip"
)

type Handler struct {
	planner    *trip.Planner
	sl         *sl.Client
	index      *sites.Index
	deviations *realtime.Store
	db         *storage.DB
	metrics    *metrics.Collector
	logger     *slog.Logger
}

func New(planner *trip.Planner, slClient *sl.Client, index *sites.Index,
	deviations *realtime.Store, db *storage.DB, m *metrics.Collector,
	logger *slog.Logger) *Handler {
	return &Handler{
		planner:    planner,
		sl:         slClient,
		index:      index,
		deviations: deviations,
		db:         db,
		metrics:    m,
		logger:     logger,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", "error", err)
	}
}

func (h *Handler) httpError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
