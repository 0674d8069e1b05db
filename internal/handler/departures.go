package handler

import (
	"net/http"
	"strconv"

	"resa/internal/sl"
)

// Departures handles GET /api/sites/{id}/departures.
func (h *Handler) Departures(w http.ResponseWriter, r *http.Request) {
	siteID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid site id")
		return
	}

	deps, err := h.sl.Departures(r.Context(), siteID)
	if err != nil {
		h.logger.Error("departures failed", "site", siteID, "error", err)
		h.httpError(w, http.StatusBadGateway, "departures unavailable")
		return
	}
	if deps == nil {
		deps = []sl.Departure{}
	}
	h.writeJSON(w, http.StatusOK, deps)
}
