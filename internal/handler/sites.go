package handler

import (
	"net/http"
	"strconv"
	"strings"

	"resa/internal/trip"
)

const defaultSiteLimit = 10

// SearchSites handles GET /api/sites/search?q=. The local index answers
// first; when it has nothing (cold start, address queries) the upstream
// stop-finder is consulted instead.
func (h *Handler) SearchSites(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		h.writeJSON(w, http.StatusOK, []trip.Site{})
		return
	}
	limit := intParam(r, "limit", defaultSiteLimit)

	results, err := h.index.Search(r.Context(), query, limit)
	if err != nil {
		h.logger.Warn("site index search failed", "error", err)
	}
	if len(results) == 0 {
		results, err = h.sl.SearchSites(r.Context(), query, limit)
		if err != nil {
			h.logger.Error("stop-finder search failed", "error", err)
			h.httpError(w, http.StatusBadGateway, "site search unavailable")
			return
		}
	}
	if results == nil {
		results = []trip.Site{}
	}
	h.writeJSON(w, http.StatusOK, results)
}

// NearbyStops handles GET /api/stops/nearby?lat=&lon=.
func (h *Handler) NearbyStops(w http.ResponseWriter, r *http.Request) {
	lat, lon := parseCoord(r.URL.Query().Get("lat"), r.URL.Query().Get("lon"))
	if lat == nil || lon == nil {
		h.httpError(w, http.StatusBadRequest, "lat and lon are required")
		return
	}
	limit := intParam(r, "limit", defaultSiteLimit)

	stops, err := h.sl.NearbyStops(r.Context(), *lat, *lon, limit)
	if err != nil {
		h.logger.Error("nearby stops failed", "error", err)
		h.httpError(w, http.StatusBadGateway, "nearby stops unavailable")
		return
	}
	if stops == nil {
		stops = []trip.Site{}
	}
	h.writeJSON(w, http.StatusOK, stops)
}

func intParam(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
