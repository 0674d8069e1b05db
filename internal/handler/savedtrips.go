package handler

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"resa/internal/trip"
)

// ListSavedTrips handles GET /api/trips.
func (h *Handler) ListSavedTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.db.ListSavedTrips(r.Context())
	if err != nil {
		h.logger.Error("list saved trips", "error", err)
		h.httpError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	if trips == nil {
		trips = []trip.SavedTrip{}
	}
	h.writeJSON(w, http.StatusOK, trips)
}

// CreateSavedTrip handles POST /api/trips.
func (h *Handler) CreateSavedTrip(w http.ResponseWriter, r *http.Request) {
	var st trip.SavedTrip
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validateSavedTrip(st); err != nil {
		h.httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	if st.ID == "" {
		st.ID = newID()
	}

	if err := h.db.CreateSavedTrip(r.Context(), st); err != nil {
		h.logger.Error("create saved trip", "error", err)
		h.httpError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	h.writeJSON(w, http.StatusCreated, st)
}

// UpdateSavedTrip handles PUT /api/trips/{id}.
func (h *Handler) UpdateSavedTrip(w http.ResponseWriter, r *http.Request) {
	var st trip.SavedTrip
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	st.ID = r.PathValue("id")
	if err := validateSavedTrip(st); err != nil {
		h.httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.db.UpdateSavedTrip(r.Context(), st)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		h.httpError(w, http.StatusNotFound, "no such trip")
	case err != nil:
		h.logger.Error("update saved trip", "error", err)
		h.httpError(w, http.StatusInternalServerError, "storage failure")
	default:
		h.writeJSON(w, http.StatusOK, st)
	}
}

// DeleteSavedTrip handles DELETE /api/trips/{id}.
func (h *Handler) DeleteSavedTrip(w http.ResponseWriter, r *http.Request) {
	err := h.db.DeleteSavedTrip(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		h.httpError(w, http.StatusNotFound, "no such trip")
	case err != nil:
		h.logger.Error("delete saved trip", "error", err)
		h.httpError(w, http.StatusInternalServerError, "storage failure")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// PlanSavedTrip handles GET /api/trips/{id}/plan. Optional lat/lon give
// the user's position for smart endpoint ordering; mode overrides the
// reversal behavior.
func (h *Handler) PlanSavedTrip(w http.ResponseWriter, r *http.Request) {
	st, err := h.db.GetSavedTrip(r.Context(), r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		h.httpError(w, http.StatusNotFound, "no such trip")
		return
	}
	if err != nil {
		h.logger.Error("load saved trip", "error", err)
		h.httpError(w, http.StatusInternalServerError, "storage failure")
		return
	}

	q := r.URL.Query()
	var pos *trip.GeoPosition
	if lat, lon := parseCoord(q.Get("lat"), q.Get("lon")); lat != nil {
		pos = &trip.GeoPosition{Lat: *lat, Lon: *lon}
	}
	mode := trip.ReverseMode(q.Get("mode"))

	endpoints := trip.ComputeEndpoints(st, pos, mode)

	opts := trip.Options{
		When:     q.Get("when"),
		ArriveBy: q.Get("arriveBy") == "true",
	}
	if opts.When == "" {
		opts.UseNow = true
	}

	plan, err := h.planner.Plan(r.Context(), endpoints.From, endpoints.To, opts)
	if err != nil {
		h.logger.Error("plan saved trip", "trip", st.ID, "error", err)
		plan = trip.Plan{}
	}
	if plan.Displayed == nil {
		plan.Displayed = []trip.Journey{}
	}
	h.writeJSON(w, http.StatusOK, plan)
}

func validateSavedTrip(st trip.SavedTrip) error {
	if err := validatePlace("fromPlace", st.FromPlace); err != nil {
		return err
	}
	return validatePlace("toPlace", st.ToPlace)
}

func validatePlace(field string, p trip.Place) error {
	if p.Kind != trip.PlaceKindSite && p.Kind != trip.PlaceKindAddress {
		return fmt.Errorf("%s: kind must be %q or %q", field, trip.PlaceKindSite, trip.PlaceKindAddress)
	}
	if p.Name == "" {
		return fmt.Errorf("%s: name is required", field)
	}
	if (p.Latitude == nil) != (p.Longitude == nil) {
		return fmt.Errorf("%s: latitude and longitude must be given together", field)
	}
	return nil
}

func newID() string {
	var b [8]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
