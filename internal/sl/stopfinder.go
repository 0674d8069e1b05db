package sl

import (
	"context"
	"net/url"
	"strconv"

	"resa/internal/trip"
)

const (
	objFilterAny   = 46 // stops, addresses and POIs
	objFilterStops = 2
)

func (c *Client) stopFinder(ctx context.Context, params url.Values) ([]rawLocation, error) {
	var payload stopFinderResponse
	if err := c.getJSON(ctx, c.jpBaseURL+"/stop-finder?"+params.Encode(), "stop-finder", &payload); err != nil {
		return nil, err
	}
	locs := payload.Locations
	if len(locs) == 0 && payload.StopFinder != nil {
		locs = payload.StopFinder.Locations
	}
	return locs, nil
}

// SearchSites searches stops, addresses and points of interest by name.
func (c *Client) SearchSites(ctx context.Context, query string, limit int) ([]trip.Site, error) {
	cacheKey := "sf:" + query
	if cached, ok := c.cache.Get(cacheKey); ok {
		c.cacheHit()
		return boundSites(cached.([]trip.Site), limit), nil
	}
	c.cacheMiss()

	params := url.Values{}
	params.Set("name_sf", query)
	params.Set("type_sf", "any")
	params.Set("any_obj_filter_sf", strconv.Itoa(objFilterAny))

	locs, err := c.stopFinder(ctx, params)
	if err != nil {
		return nil, err
	}

	sites := make([]trip.Site, 0, len(locs))
	for _, loc := range locs {
		site := locationSite(loc)
		if site.Name == "" {
			continue
		}
		sites = append(sites, site)
	}
	c.cache.Set(cacheKey, sites)
	return boundSites(sites, limit), nil
}

// NearbyStops finds stops around a coordinate, nearest first.
func (c *Client) NearbyStops(ctx context.Context, lat, lon float64, limit int) ([]trip.Site, error) {
	params := url.Values{}
	params.Set("type_sf", "coord")
	params.Set("name_sf", wgs84Coord(lat, lon))
	params.Set("any_obj_filter_sf", strconv.Itoa(objFilterStops))

	locs, err := c.stopFinder(ctx, params)
	if err != nil {
		return nil, err
	}

	sites := make([]trip.Site, 0, len(locs))
	for _, loc := range locs {
		site := locationSite(loc)
		if site.Name == "" || !site.HasCoordinates() {
			continue
		}
		sites = append(sites, site)
	}
	return boundSites(sites, limit), nil
}

func boundSites(sites []trip.Site, limit int) []trip.Site {
	if limit > 0 && len(sites) > limit {
		return sites[:limit]
	}
	return sites
}

func locationSite(loc rawLocation) trip.Site {
	site := trip.Site{
		ID:   loc.ID,
		Type: loc.Type,
	}
	if site.ID == "" {
		site.ID = loc.ExtID
	}
	site.Name = loc.DisassembledName
	if site.Name == "" {
		site.Name = loc.Name
	}
	site.FullName = loc.Name
	if site.FullName == "" {
		site.FullName = loc.DisassembledName
	}
	if site.Type == "" {
		site.Type = "unknown"
	}
	if site.ID == "" {
		site.ID = site.Type + ":" + site.Name
	}

	lat, lon, ok := locationCoords(loc)
	if ok {
		site.Latitude = &lat
		site.Longitude = &lon
	}
	return site
}

func locationCoords(loc rawLocation) (lat, lon float64, ok bool) {
	if loc.Latitude != nil && loc.Longitude != nil {
		return *loc.Latitude, *loc.Longitude, true
	}
	if loc.Coord == nil {
		return 0, 0, false
	}
	if loc.Coord.x != nil && loc.Coord.y != nil {
		lat, lon = orientCoord(*loc.Coord.y, *loc.Coord.x)
		return lat, lon, true
	}
	if len(loc.Coord.pair) >= 2 {
		lat, lon = orientCoord(loc.Coord.pair[0], loc.Coord.pair[1])
		return lat, lon, true
	}
	return 0, 0, false
}

// orientCoord resolves ambiguous coordinate order using the bounds of
// the SL service area: latitude falls in [55, 70] and longitude in
// [10, 25], and the two ranges do not overlap.
func orientCoord(a, b float64) (lat, lon float64) {
	aIsLat := a >= 55 && a <= 70 && b >= 10 && b <= 25
	bIsLat := b >= 55 && b <= 70 && a >= 10 && a <= 25
	if bIsLat && !aIsLat {
		return b, a
	}
	return a, b
}
