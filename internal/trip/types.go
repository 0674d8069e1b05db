// Package trip implements the journey aggregation pipeline: it resolves the
// endpoints of a planned trip, issues time-windowed queries against the SL
// journey planner, and merges, deduplicates, ranks and bounds the results.
package trip

// ReverseMode selects how a saved trip's endpoints are ordered for planning.
type ReverseMode string

const (
	ReverseNormal   ReverseMode = "normal"
	ReverseReversed ReverseMode = "reversed"
	ReverseSmart    ReverseMode = "smart"
)

// Site is a named point the journey planner can route between. A site
// without coordinates is valid but cannot participate in trip queries.
type Site struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Type      string   `json:"type"`
	FullName  string   `json:"fullName,omitempty"`
}

// HasCoordinates reports whether the site can be used as a query endpoint.
func (s Site) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// Place kinds.
const (
	PlaceKindSite    = "site"
	PlaceKindAddress = "address"
)

// Place is a saved trip endpoint: a transit site or a street address.
// Persisted places always carry coordinates; transient ones may not.
type Place struct {
	Kind      string   `json:"kind"`
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Type      string   `json:"type,omitempty"`
}

// SavedTrip is a user-saved from/to pair. The pipeline treats it as
// read-only input; CRUD and display ordering live in the storage layer.
type SavedTrip struct {
	ID        string `json:"id"`
	Label     string `json:"label,omitempty"`
	FromPlace Place  `json:"fromPlace"`
	ToPlace   Place  `json:"toPlace"`
	Pinned    bool   `json:"pinned"`
	Position  *int   `json:"position,omitempty"`
}

// GeoPosition is the user's live location.
type GeoPosition struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Options control when a planned trip should depart or arrive. When UseNow
// is set, When and ArriveBy are ignored and the upstream service plans from
// the current instant.
type Options struct {
	UseNow   bool   `json:"useNow"`
	When     string `json:"when,omitempty"` // local wall clock, "YYYY-MM-DDTHH:MM"
	ArriveBy bool   `json:"arriveBy"`
}

// Source records which query window produced a journey. It is fixed at
// construction time and drives sort tie-breaks and preferred selection.
type Source string

const (
	SourcePrimary     Source = "primary"
	SourceLater       Source = "later-window"
	SourceEarlier     Source = "earlier-window"
	SourceSurrounding Source = "surrounding"
)

// Stop is one end of a journey leg. Estimated (realtime) takes precedence
// over Planned wherever both are present.
type Stop struct {
	Name      string `json:"name"`
	Planned   string `json:"planned,omitempty"`
	Estimated string `json:"estimated,omitempty"`
}

// Best returns the estimated time if present, otherwise the planned time.
func (s Stop) Best() string {
	if s.Estimated != "" {
		return s.Estimated
	}
	return s.Planned
}

// Leg is one uninterrupted segment of a journey on a single mode/line.
type Leg struct {
	Origin      Stop   `json:"origin"`
	Destination Stop   `json:"destination"`
	Mode        string `json:"mode,omitempty"`
	Line        string `json:"line,omitempty"`
}

// Journey is one candidate itinerary. A Journey is immutable once built by
// the fetcher; later pipeline stages only filter and reorder.
//
// PreferredOrder is the upstream service's own rank within a single response
// batch. It is only ever a tie-break, never a primary sort key.
type Journey struct {
	Legs           []Leg  `json:"legs"`
	Duration       int    `json:"duration"` // seconds
	PreferredOrder int    `json:"slPreferredOrder"`
	Source         Source `json:"source"`
}

// FromPrimary reports whether the journey came from the main query batch.
func (j Journey) FromPrimary() bool {
	return j.Source == SourcePrimary
}

// DepartureTime returns the first leg's best origin timestamp, or "".
func (j Journey) DepartureTime() string {
	if len(j.Legs) == 0 {
		return ""
	}
	return j.Legs[0].Origin.Best()
}

// ArrivalTime returns the last leg's best destination timestamp, or "".
func (j Journey) ArrivalTime() string {
	if len(j.Legs) == 0 {
		return ""
	}
	return j.Legs[len(j.Legs)-1].Destination.Best()
}
