// Package sites maintains a locally persisted, searchable index of all
// SL sites so that autocomplete does not hit the upstream API on every
// keystroke.
package sites

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"resa/internal/metrics"
	"resa/internal/sl"
	"resa/internal/storage"
	"resa/internal/trip"
)

// Lister downloads the full upstream site listing.
type Lister interface {
	AllSites(ctx context.Context) ([]sl.SiteInfo, error)
}

// Store persists and queries the indexed sites.
type Store interface {
	UpsertSites(ctx context.Context, rows []storage.SiteRow) error
	SearchSites(ctx context.Context, query string, limit int) ([]storage.SiteRow, error)
	CountSites(ctx context.Context) (int, error)
}

// Index keeps the persisted site listing fresh and answers name
// searches from it.
type Index struct {
	store       Store
	src         Lister
	minInterval time.Duration
	metrics     *metrics.Collector
	logger      *slog.Logger

	mu          sync.Mutex
	lastAttempt time.Time
}

func NewIndex(store Store, src Lister, minInterval time.Duration, m *metrics.Collector, logger *slog.Logger) *Index {
	return &Index{
		store:       store,
		src:         src,
		minInterval: minInterval,
		metrics:     m,
		logger:      logger,
	}
}

// Refresh re-downloads the site listing unless one was attempted within
// the minimum interval. Failed attempts also count against the
// interval, so a flapping upstream is not hammered.
func (ix *Index) Refresh(ctx context.Context) error {
	ix.mu.Lock()
	if time.Since(ix.lastAttempt) < ix.minInterval {
		ix.mu.Unlock()
		return nil
	}
	ix.lastAttempt = time.Now()
	ix.mu.Unlock()

	infos, err := ix.src.AllSites(ctx)
	if err != nil {
		return err
	}

	rows := make([]storage.SiteRow, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, storage.SiteRow{
			ID:      info.ID,
			Name:    info.Name,
			Aliases: strings.Join(info.Aliases, ","),
			Lat:     info.Lat,
			Lon:     info.Lon,
		})
	}
	if err := ix.store.UpsertSites(ctx, rows); err != nil {
		return err
	}

	if ix.metrics != nil {
		if n, err := ix.store.CountSites(ctx); err == nil {
			ix.metrics.SitesIndexed.Set(float64(n))
		}
	}
	ix.logger.Info("site index refreshed", "sites", len(rows))
	return nil
}

// Search matches indexed sites by name or alias.
func (ix *Index) Search(ctx context.Context, query string, limit int) ([]trip.Site, error) {
	rows, err := ix.store.SearchSites(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	sites := make([]trip.Site, 0, len(rows))
	for _, row := range rows {
		lat, lon := row.Lat, row.Lon
		sites = append(sites, trip.Site{
			ID:        strconv.FormatInt(row.ID, 10),
			Name:      row.Name,
			FullName:  row.Name,
			Type:      "stop",
			Latitude:  &lat,
			Longitude: &lon,
		})
	}
	return sites, nil
}

// Run refreshes the index immediately and then on every tick until the
// context is cancelled.
func (ix *Index) Run(ctx context.Context, interval time.Duration) {
	if err := ix.Refresh(ctx); err != nil {
		ix.logger.Warn("initial site refresh failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ix.Refresh(ctx); err != nil {
				ix.logger.Warn("site refresh failed", "error", err)
			}
		}
	}
}
