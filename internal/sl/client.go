// Package sl talks to the SL open APIs: Journey Planner v2 for trips
// and stop lookup, and the Transport API for sites and departures.
package sl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"resa/internal/metrics"
)

const (
	DefaultJourneyPlannerBaseURL = "https://journeyplanner.integration.sl.se/v2"
	DefaultTransportBaseURL      = "https://transport.integration.sl.se/v1"

	defaultTimeout  = 15 * time.Second
	defaultCacheTTL = 60 * time.Second
)

type Client struct {
	jpBaseURL        string
	transportBaseURL string
	httpClient       *http.Client
	cache            *Cache
	metrics          *metrics.Collector
	logger           *slog.Logger
}

func NewClient(jpBaseURL, transportBaseURL string, m *metrics.Collector, logger *slog.Logger) *Client {
	return &Client{
		jpBaseURL:        jpBaseURL,
		transportBaseURL: transportBaseURL,
		httpClient:       &http.Client{Timeout: defaultTimeout},
		cache:            NewCache(defaultCacheTTL),
		metrics:          m,
		logger:           logger,
	}
}

func (c *Client) getJSON(ctx context.Context, url, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(endpoint, "error")
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.observe(endpoint, "error")
		return fmt.Errorf("%s returned HTTP %d", endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.observe(endpoint, "error")
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	c.observe(endpoint, "ok")
	return nil
}

func (c *Client) observe(endpoint, outcome string) {
	if c.metrics != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	}
}

func (c *Client) cacheHit() {
	if c.metrics != nil {
		c.metrics.CacheHits.Inc()
	}
}

func (c *Client) cacheMiss() {
	if c.metrics != nil {
		c.metrics.CacheMisses.Inc()
	}
}
