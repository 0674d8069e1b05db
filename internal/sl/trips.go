package sl

import (
	"context"
	"net/url"
	"strconv"

	"resa/internal/trip"
)

var _ trip.SearchPort = (*Client)(nil)

// wgs84Coord renders a coordinate the way Journey Planner v2 expects:
// longitude first, then latitude.
func wgs84Coord(lat, lon float64) string {
	return strconv.FormatFloat(lon, 'f', -1, 64) +
		":" + strconv.FormatFloat(lat, 'f', -1, 64) +
		":WGS84[dd.ddddd]"
}

// Search runs a trip query against Journey Planner v2 and returns
// normalized journeys in request order.
func (c *Client) Search(ctx context.Context, q trip.Query) ([]trip.Journey, error) {
	params := url.Values{}
	params.Set("type_origin", "coord")
	params.Set("name_origin", wgs84Coord(q.FromLat, q.FromLon))
	params.Set("type_destination", "coord")
	params.Set("name_destination", wgs84Coord(q.ToLat, q.ToLon))
	params.Set("calc_number_of_trips", strconv.Itoa(q.Num))

	if q.When != "" {
		if t, err := trip.ParseLocal(q.When); err == nil {
			params.Set("itd_date", t.Format("20060102"))
			params.Set("itd_time", t.Format("1504"))
			if q.ArriveBy {
				params.Set("itd_trip_date_time_dep_arr", "arr")
			} else {
				params.Set("itd_trip_date_time_dep_arr", "dep")
			}
		}
	}

	var payload tripsResponse
	if err := c.getJSON(ctx, c.jpBaseURL+"/trips?"+params.Encode(), "trips", &payload); err != nil {
		return nil, err
	}

	journeys := make([]trip.Journey, 0, len(payload.Journeys))
	for i, raw := range payload.Journeys {
		journeys = append(journeys, normalizeJourney(raw, i))
	}
	return journeys, nil
}

func normalizeJourney(raw rawJourney, index int) trip.Journey {
	j := trip.Journey{
		PreferredOrder: index,
		Legs:           make([]trip.Leg, 0, len(raw.Legs)),
	}
	if raw.TripRtDuration != nil {
		j.Duration = *raw.TripRtDuration
	} else if raw.TripDuration != nil {
		j.Duration = *raw.TripDuration
	}
	for _, leg := range raw.Legs {
		j.Legs = append(j.Legs, normalizeLeg(leg))
	}
	return j
}

func normalizeLeg(raw rawLeg) trip.Leg {
	var leg trip.Leg
	if raw.Origin != nil {
		leg.Origin = trip.Stop{
			Name:      pointName(raw.Origin),
			Planned:   raw.Origin.DepartureTimePlanned,
			Estimated: raw.Origin.DepartureTimeEstimated,
		}
	}
	if raw.Destination != nil {
		leg.Destination = trip.Stop{
			Name:      pointName(raw.Destination),
			Planned:   raw.Destination.ArrivalTimePlanned,
			Estimated: raw.Destination.ArrivalTimeEstimated,
		}
	}
	if t := raw.Transportation; t != nil {
		leg.Line = t.DisassembledName
		if leg.Line == "" {
			leg.Line = string(t.Number)
		}
		if t.Product != nil && t.Product.Name != "" {
			leg.Mode = t.Product.Name
		} else {
			leg.Mode = t.Name
		}
	}
	return leg
}

// pointName prefers the parent stop's short name so that platform-level
// points collapse to the station they belong to.
func pointName(p *rawPoint) string {
	if p.Parent != nil && p.Parent.DisassembledName != "" {
		return p.Parent.DisassembledName
	}
	if p.DisassembledName != "" {
		return p.DisassembledName
	}
	return p.Name
}
