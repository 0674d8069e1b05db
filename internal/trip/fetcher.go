package trip

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Supplemental window offsets relative to the primary batch.
const (
	laterWindowStep    = time.Minute
	earlierWindowStep  = 15 * time.Minute
	surroundingEarlier = 15 * time.Minute
	surroundingLater   = 30 * time.Minute
	surroundingCount   = 2
)

// SearchPort is the upstream journey-search dependency.
type SearchPort interface {
	Search(ctx context.Context, q Query) ([]Journey, error)
}

// Fetcher issues the primary journey query plus the supplemental
// time-window queries that pad the result set around the requested instant.
type Fetcher struct {
	port   SearchPort
	logger *slog.Logger
}

// NewFetcher creates a Fetcher over the given upstream port.
func NewFetcher(port SearchPort, logger *slog.Logger) *Fetcher {
	return &Fetcher{port: port, logger: logger}
}

// Fetch returns the primary batch followed by any supplemental batches.
// The order of the concatenation is not significant; ranking re-sorts.
//
// A primary query failure propagates to the caller. Supplemental queries
// are best-effort: their failures contribute empty batches. When the
// primary batch is empty no supplemental queries are issued.
func (f *Fetcher) Fetch(ctx context.Context, from, to Site, opts Options) ([]Journey, error) {
	base := BuildQuery(from, to, opts, maxJourneysPerQuery)

	primary, err := f.port.Search(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("primary journey query: %w", err)
	}
	primary = withSource(primary, SourcePrimary)
	if len(primary) == 0 {
		return nil, nil
	}

	var supplemental []Journey
	switch {
	case opts.UseNow && !opts.ArriveBy:
		// Leave-now, depart-at: the upstream returns too few future trips
		// near the boundary, so pad on both sides of the primary batch.
		supplemental = f.fetchPaddingWindows(ctx, base, primary)
	case !opts.UseNow && opts.When != "":
		supplemental = f.fetchSurroundingWindows(ctx, base, opts.When)
	}

	return append(primary, supplemental...), nil
}

// fetchPaddingWindows queries one window after the last primary departure
// (+1 min) and one before the first (-15 min). The two queries depend on
// the primary batch but not on each other, so they run concurrently.
func (f *Fetcher) fetchPaddingWindows(ctx context.Context, base Query, primary []Journey) []Journey {
	var later, earlier []Journey
	var wg sync.WaitGroup

	if dep, ok := DepartureInstant(primary[len(primary)-1]); ok {
		q := base
		q.When = FormatLocal(dep.Add(laterWindowStep))
		wg.Add(1)
		go func() {
			defer wg.Done()
			later = f.supplemental(ctx, q, SourceLater)
		}()
	}

	if dep, ok := DepartureInstant(primary[0]); ok {
		q := base
		q.When = FormatLocal(dep.Add(-earlierWindowStep))
		wg.Add(1)
		go func() {
			defer wg.Done()
			earlier = f.supplemental(ctx, q, SourceEarlier)
		}()
	}

	wg.Wait()
	return append(earlier, later...)
}

// fetchSurroundingWindows queries around a user-selected instant: 15 min
// before and 30 min after, two results each, run concurrently.
func (f *Fetcher) fetchSurroundingWindows(ctx context.Context, base Query, when string) []Journey {
	selected, err := ParseLocal(when)
	if err != nil {
		f.logger.Warn("invalid selected time, skipping surrounding queries", "when", when)
		return nil
	}

	earlierQ := base
	earlierQ.When = FormatLocal(selected.Add(-surroundingEarlier))
	earlierQ.Num = surroundingCount

	laterQ := base
	laterQ.When = FormatLocal(selected.Add(surroundingLater))
	laterQ.Num = surroundingCount

	var earlier, later []Journey
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		earlier = f.supplemental(ctx, earlierQ, SourceSurrounding)
	}()
	go func() {
		defer wg.Done()
		later = f.supplemental(ctx, laterQ, SourceSurrounding)
	}()
	wg.Wait()

	return append(earlier, later...)
}

// supplemental runs one best-effort window query. Failures are swallowed
// and contribute an empty batch.
func (f *Fetcher) supplemental(ctx context.Context, q Query, src Source) []Journey {
	js, err := f.port.Search(ctx, q)
	if err != nil {
		f.logger.Warn("supplemental journey query failed", "source", src, "error", err)
		return nil
	}
	return withSource(js, src)
}

// withSource stamps provenance on freshly fetched journeys. It returns a
// new slice; journeys are never mutated after construction.
func withSource(js []Journey, src Source) []Journey {
	out := make([]Journey, len(js))
	for i, j := range js {
		j.Source = src
		out[i] = j
	}
	return out
}
