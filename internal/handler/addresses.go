package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"resa/internal/storage"
)

// ListAddresses handles GET /api/addresses.
func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	addrs, err := h.db.ListAddresses(r.Context())
	if err != nil {
		h.logger.Error("list addresses", "error", err)
		h.httpError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	if addrs == nil {
		addrs = []storage.Address{}
	}
	h.writeJSON(w, http.StatusOK, addrs)
}

// CreateAddress handles POST /api/addresses.
func (h *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var a storage.Address
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if a.Name == "" || a.Address == "" {
		h.httpError(w, http.StatusBadRequest, "name and address are required")
		return
	}
	if (a.Latitude == nil) != (a.Longitude == nil) {
		h.httpError(w, http.StatusBadRequest, "latitude and longitude must be given together")
		return
	}
	if a.ID == "" {
		a.ID = newID()
	}

	if err := h.db.CreateAddress(r.Context(), a); err != nil {
		h.logger.Error("create address", "error", err)
		h.httpError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	h.writeJSON(w, http.StatusCreated, a)
}

// DeleteAddress handles DELETE /api/addresses/{id}.
func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	err := h.db.DeleteAddress(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		h.httpError(w, http.StatusNotFound, "no such address")
	case err != nil:
		h.logger.Error("delete address", "error", err)
		h.httpError(w, http.StatusInternalServerError, "storage failure")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
