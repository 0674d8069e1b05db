package realtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	gtfs "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"resa/internal/metrics"
)

// Fetcher polls a GTFS-RT service alerts feed into a Store.
type Fetcher struct {
	url        string
	httpClient *http.Client
	store      *Store
	metrics    *metrics.Collector
	logger     *slog.Logger
}

func NewFetcher(url string, store *Store, m *metrics.Collector, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		store:      store,
		metrics:    m,
		logger:     logger,
	}
}

// Run polls immediately and then on every tick until the context is
// cancelled. Individual poll failures are logged and retried on the
// next tick.
func (f *Fetcher) Run(ctx context.Context, interval time.Duration) {
	if err := f.Poll(ctx); err != nil {
		f.logger.Warn("alerts poll failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := f.Poll(ctx); err != nil {
				f.logger.Warn("alerts poll failed", "error", err)
			}
		}
	}
}

// Poll fetches the feed once and swaps the store snapshot.
func (f *Fetcher) Poll(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return fmt.Errorf("build alerts request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.observe("error")
		return fmt.Errorf("alerts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.observe("error")
		return fmt.Errorf("alerts feed returned HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.observe("error")
		return fmt.Errorf("read alerts feed: %w", err)
	}

	var feed gtfs.FeedMessage
	if err := proto.Unmarshal(body, &feed); err != nil {
		f.observe("error")
		return fmt.Errorf("decode alerts feed: %w", err)
	}
	f.observe("ok")

	devs := make([]Deviation, 0, len(feed.Entity))
	for _, entity := range feed.Entity {
		alert := entity.GetAlert()
		if alert == nil {
			continue
		}
		dev := Deviation{
			ID:          entity.GetId(),
			Header:      translation(alert.GetHeaderText()),
			Description: translation(alert.GetDescriptionText()),
			Effect:      alert.GetEffect().String(),
			Cause:       alert.GetCause().String(),
		}
		for _, informed := range alert.GetInformedEntity() {
			if stop := informed.GetStopId(); stop != "" {
				dev.SiteIDs = append(dev.SiteIDs, stop)
			}
			if route := informed.GetRouteId(); route != "" {
				dev.LineIDs = append(dev.LineIDs, route)
			}
		}
		devs = append(devs, dev)
	}

	f.store.SetDeviations(devs)
	if f.metrics != nil {
		f.metrics.DeviationsActive.Set(float64(len(devs)))
	}
	f.logger.Debug("alerts updated", "deviations", len(devs))
	return nil
}

// translation picks the Swedish text, falling back to English and then
// to whatever the feed offers first.
func translation(ts *gtfs.TranslatedString) string {
	if ts == nil {
		return ""
	}
	for _, lang := range []string{"sv", "en"} {
		for _, tr := range ts.GetTranslation() {
			if tr.GetLanguage() == lang {
				return tr.GetText()
			}
		}
	}
	if trs := ts.GetTranslation(); len(trs) > 0 {
		return trs[0].GetText()
	}
	return ""
}

func (f *Fetcher) observe(outcome string) {
	if f.metrics != nil {
		f.metrics.UpstreamRequests.WithLabelValues("alerts", outcome).Inc()
	}
}
