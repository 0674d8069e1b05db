package handler

import (
	"net/http"
	"strconv"
	"time"

	"resa/internal/trip"
)

// Plan handles GET /api/plan. Missing or unparseable coordinates yield
// an empty plan rather than an error: the client polls this endpoint
// while the user is still filling in endpoints.
func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from := trip.Site{Name: q.Get("fromName"), Type: "stop"}
	to := trip.Site{Name: q.Get("toName"), Type: "stop"}
	from.Latitude, from.Longitude = parseCoord(q.Get("fromLat"), q.Get("fromLon"))
	to.Latitude, to.Longitude = parseCoord(q.Get("toLat"), q.Get("toLon"))

	opts := trip.Options{
		When:     q.Get("when"),
		ArriveBy: q.Get("arriveBy") == "true",
	}
	if opts.When == "" {
		opts.UseNow = true
	}

	start := time.Now()
	plan, err := h.planner.Plan(r.Context(), from, to, opts)
	if h.metrics != nil {
		h.metrics.PlansTotal.Inc()
		h.metrics.PlanDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		// Upstream failure degrades to an empty plan; the client shows
		// "no journeys" instead of an error page.
		h.logger.Error("plan failed", "error", err)
		plan = trip.Plan{}
	}
	if len(plan.Displayed) == 0 {
		if h.metrics != nil {
			h.metrics.PlansEmpty.Inc()
		}
		plan.Displayed = []trip.Journey{}
	}

	h.writeJSON(w, http.StatusOK, plan)
}

func parseCoord(latStr, lonStr string) (*float64, *float64) {
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil {
		return nil, nil
	}
	return &lat, &lon
}
