package handler

import (
	"net/http"

	"resa/internal/realtime"
)

// Deviations handles GET /api/deviations, optionally filtered by
// ?site= or ?line=.
func (h *Handler) Deviations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	devs := h.deviations.All()
	if site := q.Get("site"); site != "" {
		devs = h.deviations.ForSite(site)
	} else if line := q.Get("line"); line != "" {
		devs = h.deviations.ForLine(line)
	}
	if devs == nil {
		devs = []realtime.Deviation{}
	}

	h.writeJSON(w, http.StatusOK, devs)
}
