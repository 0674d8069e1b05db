package sl

import (
	"context"
	"fmt"
)

// SiteInfo is one entry of the Transport API site listing.
type SiteInfo struct {
	ID      int64
	Name    string
	Aliases []string
	Lat     float64
	Lon     float64
}

// AllSites downloads the full site listing. The result is large and
// changes rarely; callers are expected to persist it.
func (c *Client) AllSites(ctx context.Context) ([]SiteInfo, error) {
	var payload []rawSite
	if err := c.getJSON(ctx, c.transportBaseURL+"/sites", "sites", &payload); err != nil {
		return nil, err
	}

	sites := make([]SiteInfo, 0, len(payload))
	for _, raw := range payload {
		if raw.Name == "" || raw.Lat == nil || raw.Lon == nil {
			continue
		}
		sites = append(sites, SiteInfo{
			ID:      raw.ID,
			Name:    raw.Name,
			Aliases: raw.Alias,
			Lat:     *raw.Lat,
			Lon:     *raw.Lon,
		})
	}
	return sites, nil
}

// Departure is one realtime departure from a site's board.
type Departure struct {
	Destination string         `json:"destination"`
	Direction   string         `json:"direction"`
	State       string         `json:"state"`
	Display     string         `json:"display"`
	Scheduled   string         `json:"scheduled"`
	Expected    string         `json:"expected"`
	Line        *DepartureLine `json:"line,omitempty"`
	StopPoint   *StopPoint     `json:"stop_point,omitempty"`
}

type DepartureLine struct {
	ID            int    `json:"id"`
	Designation   string `json:"designation"`
	TransportMode string `json:"transport_mode"`
	GroupOfLines  string `json:"group_of_lines,omitempty"`
}

type StopPoint struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Designation string `json:"designation,omitempty"`
}

type departuresResponse struct {
	Departures []Departure `json:"departures"`
}

// Departures fetches the departure board for a site. Responses are
// cached briefly since boards are polled by multiple clients at once.
func (c *Client) Departures(ctx context.Context, siteID int64) ([]Departure, error) {
	cacheKey := fmt.Sprintf("dep:%d", siteID)
	if cached, ok := c.cache.Get(cacheKey); ok {
		c.cacheHit()
		return cached.([]Departure), nil
	}
	c.cacheMiss()

	var payload departuresResponse
	url := fmt.Sprintf("%s/sites/%d/departures", c.transportBaseURL, siteID)
	if err := c.getJSON(ctx, url, "departures", &payload); err != nil {
		return nil, err
	}
	c.cache.Set(cacheKey, payload.Departures)
	return payload.Departures, nil
}
