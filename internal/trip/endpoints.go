package trip

import "resa/internal/geo"

// Endpoints is the resolved from/to pair for one planning run.
type Endpoints struct {
	From Site        `json:"from"`
	To   Site        `json:"to"`
	Mode ReverseMode `json:"mode"`
}

// SiteFromPlace maps a saved place onto the Site shape used by queries.
func SiteFromPlace(p Place) Site {
	id := p.ID
	if id == "" {
		id = p.Kind + ":" + p.Name
	}
	full := p.Address
	if full == "" {
		full = p.Name
	}
	return Site{
		ID:        id,
		Name:      p.Name,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Type:      p.Kind,
		FullName:  full,
	}
}

// ComputeEndpoints decides which place of a saved trip is "from" and which
// is "to". In smart mode the place closest to the user's position becomes
// the origin; without a position, or when coordinates are missing, smart
// degrades to normal ordering. Never fails.
func ComputeEndpoints(t SavedTrip, pos *GeoPosition, mode ReverseMode) Endpoints {
	if mode == "" {
		mode = ReverseSmart
	}
	from := SiteFromPlace(t.FromPlace)
	to := SiteFromPlace(t.ToPlace)

	switch mode {
	case ReverseNormal:
		return Endpoints{From: from, To: to, Mode: mode}
	case ReverseReversed:
		return Endpoints{From: to, To: from, Mode: mode}
	}

	if pos == nil || !from.HasCoordinates() || !to.HasCoordinates() {
		return Endpoints{From: from, To: to, Mode: ReverseSmart}
	}

	dFrom := geo.Haversine(pos.Lat, pos.Lon, *from.Latitude, *from.Longitude)
	dTo := geo.Haversine(pos.Lat, pos.Lon, *to.Latitude, *to.Longitude)
	// Ties keep the original ordering.
	if dFrom <= dTo {
		return Endpoints{From: from, To: to, Mode: ReverseSmart}
	}
	return Endpoints{From: to, To: from, Mode: ReverseSmart}
}
