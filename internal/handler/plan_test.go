package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resa/internal/trip"
)

type stubPort struct {
	journeys []trip.Journey
	err      error
}

func (s *stubPort) Search(ctx context.Context, q trip.Query) ([]trip.Journey, error) {
	return s.journeys, s.err
}

func testHandler(port trip.SearchPort) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Handler{
		planner: trip.NewPlanner(port, logger),
		logger:  logger,
	}
}

func decodePlan(t *testing.T, rec *httptest.ResponseRecorder) trip.Plan {
	t.Helper()
	var plan trip.Plan
	if err := json.NewDecoder(rec.Body).Decode(&plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	return plan
}

func TestPlanMissingCoordinates(t *testing.T) {
	h := testHandler(&stubPort{journeys: []trip.Journey{{Duration: 600}}})

	req := httptest.NewRequest(http.MethodGet, "/api/plan?fromLat=59.33&fromLon=18.06", nil)
	rec := httptest.NewRecorder()
	h.Plan(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	plan := decodePlan(t, rec)
	if len(plan.Displayed) != 0 || plan.Preferred != nil {
		t.Errorf("plan = %+v, want empty", plan)
	}
}

func TestPlanUpstreamFailureDegradesToEmpty(t *testing.T) {
	h := testHandler(&stubPort{err: errors.New("gateway timeout")})

	req := httptest.NewRequest(http.MethodGet,
		"/api/plan?fromLat=59.33&fromLon=18.06&toLat=59.32&toLon=18.07", nil)
	rec := httptest.NewRecorder()
	h.Plan(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	plan := decodePlan(t, rec)
	if len(plan.Displayed) != 0 {
		t.Errorf("plan = %+v, want empty", plan)
	}
	if !strings.Contains(body, `"journeys":[]`) {
		t.Errorf("body = %s, want explicit empty journeys array", body)
	}
}

func TestPlanReturnsJourneys(t *testing.T) {
	journey := trip.Journey{
		Legs: []trip.Leg{{
			Origin:      trip.Stop{Name: "T-Centralen", Planned: "2026-09-01T08:00:00"},
			Destination: trip.Stop{Name: "Slussen", Planned: "2026-09-01T08:20:00"},
			Line:        "17",
		}},
		Duration: 1200,
	}
	h := testHandler(&stubPort{journeys: []trip.Journey{journey}})

	req := httptest.NewRequest(http.MethodGet,
		"/api/plan?fromLat=59.33&fromLon=18.06&toLat=59.32&toLon=18.07&when=2026-09-01T08:00", nil)
	rec := httptest.NewRecorder()
	h.Plan(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	plan := decodePlan(t, rec)
	if len(plan.Displayed) != 1 {
		t.Fatalf("displayed = %d, want 1", len(plan.Displayed))
	}
	if plan.Displayed[0].Legs[0].Line != "17" {
		t.Errorf("journey = %+v", plan.Displayed[0])
	}
}

func TestNearbyStopsRequiresCoordinates(t *testing.T) {
	h := testHandler(&stubPort{})

	req := httptest.NewRequest(http.MethodGet, "/api/stops/nearby?lat=59.33", nil)
	rec := httptest.NewRecorder()
	h.NearbyStops(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateSavedTripRejectsInvalidPlaces(t *testing.T) {
	h := testHandler(&stubPort{})

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{{`},
		{"bad kind", `{"fromPlace":{"kind":"wormhole","name":"A"},"toPlace":{"kind":"site","name":"B"}}`},
		{"missing name", `{"fromPlace":{"kind":"site","name":""},"toPlace":{"kind":"site","name":"B"}}`},
		{"lat without lon", `{"fromPlace":{"kind":"site","name":"A","latitude":59.3},"toPlace":{"kind":"site","name":"B"}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/trips", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.CreateSavedTrip(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}
