package sl

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resa/internal/trip"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.URL, nil, testLogger())
}

const tripsFixture = `{
  "journeys": [
    {
      "tripDuration": 1800,
      "tripRtDuration": 1680,
      "legs": [
        {
          "origin": {
            "name": "T-Centralen, Stockholm",
            "disassembledName": "T-Centralen plattform 3",
            "parent": {"name": "Stockholm, T-Centralen", "disassembledName": "T-Centralen"},
            "departureTimePlanned": "2026-09-01T08:00:00",
            "departureTimeEstimated": "2026-09-01T08:02:00"
          },
          "destination": {
            "name": "Slussen, Stockholm",
            "disassembledName": "Slussen",
            "arrivalTimePlanned": "2026-09-01T08:30:00"
          },
          "transportation": {
            "name": "tunnelbanans gröna linje 17",
            "disassembledName": "17",
            "number": 17,
            "product": {"name": "Tunnelbana"}
          }
        }
      ]
    },
    {
      "tripDuration": 2100,
      "legs": [
        {
          "origin": {"name": "T-Centralen", "departureTimePlanned": "2026-09-01T08:10:00"},
          "destination": {"name": "Slussen", "arrivalTimePlanned": "2026-09-01T08:45:00"},
          "transportation": {"number": "43X"}
        }
      ]
    }
  ]
}`

func TestSearchNormalizesJourneys(t *testing.T) {
	var gotQuery map[string]string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trips" {
			t.Errorf("path = %q, want /trips", r.URL.Path)
		}
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, tripsFixture)
	})

	journeys, err := client.Search(context.Background(), trip.Query{
		FromLat: 59.3293, FromLon: 18.0686,
		ToLat: 59.3201, ToLon: 18.0719,
		Num:  3,
		When: "2026-09-01T08:00", ArriveBy: false,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	wantParams := map[string]string{
		"type_origin":                "coord",
		"name_origin":                "18.0686:59.3293:WGS84[dd.ddddd]",
		"type_destination":           "coord",
		"name_destination":           "18.0719:59.3201:WGS84[dd.ddddd]",
		"calc_number_of_trips":       "3",
		"itd_date":                   "20260901",
		"itd_time":                   "0800",
		"itd_trip_date_time_dep_arr": "dep",
	}
	for key, want := range wantParams {
		if gotQuery[key] != want {
			t.Errorf("query[%q] = %q, want %q", key, gotQuery[key], want)
		}
	}

	if len(journeys) != 2 {
		t.Fatalf("len(journeys) = %d, want 2", len(journeys))
	}

	first := journeys[0]
	if first.Duration != 1680 {
		t.Errorf("Duration = %d, want realtime 1680", first.Duration)
	}
	if first.PreferredOrder != 0 || journeys[1].PreferredOrder != 1 {
		t.Errorf("PreferredOrder = %d,%d, want 0,1", first.PreferredOrder, journeys[1].PreferredOrder)
	}
	leg := first.Legs[0]
	if leg.Origin.Name != "T-Centralen" {
		t.Errorf("origin name = %q, want parent short name", leg.Origin.Name)
	}
	if leg.Origin.Best() != "2026-09-01T08:02:00" {
		t.Errorf("origin Best() = %q, want estimated time", leg.Origin.Best())
	}
	if leg.Destination.Best() != "2026-09-01T08:30:00" {
		t.Errorf("destination Best() = %q, want planned time", leg.Destination.Best())
	}
	if leg.Line != "17" || leg.Mode != "Tunnelbana" {
		t.Errorf("line/mode = %q/%q, want 17/Tunnelbana", leg.Line, leg.Mode)
	}

	second := journeys[1]
	if second.Duration != 2100 {
		t.Errorf("fallback Duration = %d, want planned 2100", second.Duration)
	}
	if second.Legs[0].Line != "43X" {
		t.Errorf("numeric-or-string line = %q, want 43X", second.Legs[0].Line)
	}
}

func TestSearchArriveBy(t *testing.T) {
	var depArr string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		depArr = r.URL.Query().Get("itd_trip_date_time_dep_arr")
		io.WriteString(w, `{"journeys": []}`)
	})

	_, err := client.Search(context.Background(), trip.Query{
		Num: 1, When: "2026-09-01T17:30", ArriveBy: true,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if depArr != "arr" {
		t.Errorf("dep_arr = %q, want arr", depArr)
	}
}

func TestSearchLeaveNowOmitsTimeParams(t *testing.T) {
	var query map[string][]string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		io.WriteString(w, `{"journeys": []}`)
	})

	if _, err := client.Search(context.Background(), trip.Query{Num: 3}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, key := range []string{"itd_date", "itd_time", "itd_trip_date_time_dep_arr"} {
		if _, ok := query[key]; ok {
			t.Errorf("leave-now query carries %q", key)
		}
	}
}

func TestSearchToleratesMalformedPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"journeys not an array", `{"journeys": "broken"}`},
		{"legs not an array", `{"journeys": [{"tripDuration": 600, "legs": {"bad": true}}]}`},
		{"empty object", `{}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tc.body)
			})
			journeys, err := client.Search(context.Background(), trip.Query{Num: 1})
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			for _, j := range journeys {
				if j.Legs == nil {
					continue
				}
				if len(j.Legs) != 0 {
					t.Errorf("unexpected legs %v", j.Legs)
				}
			}
		})
	}
}

func TestSearchHTTPError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})
	if _, err := client.Search(context.Background(), trip.Query{Num: 1}); err == nil {
		t.Fatal("want error on HTTP 502")
	}
}

func TestSearchSites(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stop-finder" {
			t.Errorf("path = %q, want /stop-finder", r.URL.Path)
		}
		if got := r.URL.Query().Get("any_obj_filter_sf"); got != "46" {
			t.Errorf("filter = %q, want 46", got)
		}
		io.WriteString(w, `{
		  "locations": [
		    {"id": "9001", "name": "Stockholm, T-Centralen", "disassembledName": "T-Centralen",
		     "type": "stop", "coord": [59.3313, 18.0608]},
		    {"id": "", "name": "", "type": "poi"},
		    {"id": "A1", "name": "Vasagatan 12, Stockholm", "type": "singlehouse",
		     "coord": {"x": 18.057, "y": 59.332}}
		  ]
		}`)
	})

	sites, err := client.SearchSites(context.Background(), "central", 10)
	if err != nil {
		t.Fatalf("SearchSites: %v", err)
	}
	if len(sites) != 2 {
		t.Fatalf("len(sites) = %d, want 2 (nameless dropped)", len(sites))
	}

	stop := sites[0]
	if stop.Name != "T-Centralen" || stop.FullName != "Stockholm, T-Centralen" {
		t.Errorf("stop names = %q/%q", stop.Name, stop.FullName)
	}
	if !stop.HasCoordinates() || *stop.Latitude != 59.3313 || *stop.Longitude != 18.0608 {
		t.Errorf("stop coords = %v/%v, want 59.3313/18.0608", stop.Latitude, stop.Longitude)
	}

	house := sites[1]
	if !house.HasCoordinates() || *house.Latitude != 59.332 || *house.Longitude != 18.057 {
		t.Errorf("xy coords = %v/%v, want y as lat, x as lon", house.Latitude, house.Longitude)
	}
}

func TestSearchSitesCaches(t *testing.T) {
	hits := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		io.WriteString(w, `{"locations": [{"id": "1", "name": "Odenplan", "type": "stop"}]}`)
	})

	for i := 0; i < 3; i++ {
		if _, err := client.SearchSites(context.Background(), "oden", 5); err != nil {
			t.Fatalf("SearchSites: %v", err)
		}
	}
	if hits != 1 {
		t.Errorf("upstream hits = %d, want 1", hits)
	}
}

func TestNearbyStops(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("type_sf"); got != "coord" {
			t.Errorf("type_sf = %q, want coord", got)
		}
		if got := r.URL.Query().Get("name_sf"); got != "18.0686:59.3293:WGS84[dd.ddddd]" {
			t.Errorf("name_sf = %q", got)
		}
		io.WriteString(w, `{
		  "locations": [
		    {"id": "9001", "name": "T-Centralen", "type": "stop", "coord": [59.3313, 18.0608]},
		    {"id": "9999", "name": "No coords", "type": "stop"}
		  ]
		}`)
	})

	stops, err := client.NearbyStops(context.Background(), 59.3293, 18.0686, 5)
	if err != nil {
		t.Fatalf("NearbyStops: %v", err)
	}
	if len(stops) != 1 {
		t.Fatalf("len(stops) = %d, want 1 (coordless dropped)", len(stops))
	}
	if stops[0].ID != "9001" {
		t.Errorf("ID = %q, want 9001", stops[0].ID)
	}
}

func TestOrientCoord(t *testing.T) {
	tests := []struct {
		name    string
		a, b    float64
		wantLat float64
		wantLon float64
	}{
		{"lat first", 59.33, 18.06, 59.33, 18.06},
		{"lon first", 18.06, 59.33, 59.33, 18.06},
		{"out of area keeps order", 48.85, 2.35, 48.85, 2.35},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lat, lon := orientCoord(tc.a, tc.b)
			if lat != tc.wantLat || lon != tc.wantLon {
				t.Errorf("orientCoord(%v, %v) = %v, %v, want %v, %v",
					tc.a, tc.b, lat, lon, tc.wantLat, tc.wantLon)
			}
		})
	}
}

func TestAllSites(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sites" {
			t.Errorf("path = %q, want /sites", r.URL.Path)
		}
		io.WriteString(w, `[
		  {"id": 9001, "name": "T-Centralen", "alias": ["Centralen"], "lat": 59.3313, "lon": 18.0608},
		  {"id": 9999, "name": "", "lat": 59, "lon": 18},
		  {"id": 9002, "name": "No position"}
		]`)
	})

	sites, err := client.AllSites(context.Background())
	if err != nil {
		t.Fatalf("AllSites: %v", err)
	}
	if len(sites) != 1 {
		t.Fatalf("len(sites) = %d, want 1", len(sites))
	}
	if sites[0].ID != 9001 || sites[0].Name != "T-Centralen" {
		t.Errorf("site = %+v", sites[0])
	}
	if len(sites[0].Aliases) != 1 || sites[0].Aliases[0] != "Centralen" {
		t.Errorf("aliases = %v", sites[0].Aliases)
	}
}

func TestDeparturesCaches(t *testing.T) {
	hits := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		if !strings.HasSuffix(r.URL.Path, "/sites/9001/departures") {
			t.Errorf("path = %q", r.URL.Path)
		}
		io.WriteString(w, `{
		  "departures": [
		    {"destination": "Hässelby strand", "display": "3 min", "state": "EXPECTED",
		     "scheduled": "2026-09-01T08:00:00", "expected": "2026-09-01T08:01:00",
		     "line": {"id": 19, "designation": "19", "transport_mode": "METRO"}}
		  ]
		}`)
	})

	for i := 0; i < 2; i++ {
		deps, err := client.Departures(context.Background(), 9001)
		if err != nil {
			t.Fatalf("Departures: %v", err)
		}
		if len(deps) != 1 || deps[0].Destination != "Hässelby strand" {
			t.Errorf("deps = %+v", deps)
		}
	}
	if hits != 1 {
		t.Errorf("upstream hits = %d, want 1", hits)
	}
}
