package trip

import (
	"context"
	"log/slog"
	"time"
)

// Plan is the outcome of one aggregation run: the bounded display list and
// the single recommended journey for compact summary rendering.
type Plan struct {
	Displayed []Journey `json:"journeys"`
	Preferred *Journey  `json:"preferred,omitempty"`
}

// Planner composes the aggregation pipeline: fetch, sort, dedup, bound,
// pick preferred. Each Plan invocation is independent; there is no shared
// state beyond the injected port.
type Planner struct {
	fetcher *Fetcher
	now     func() time.Time
	logger  *slog.Logger
}

// NewPlanner creates a Planner over the given upstream port.
func NewPlanner(port SearchPort, logger *slog.Logger) *Planner {
	return &Planner{
		fetcher: NewFetcher(port, logger),
		now:     time.Now,
		logger:  logger,
	}
}

// WithClock overrides the evaluation instant used for bounding and
// preferred selection. For tests.
func (p *Planner) WithClock(now func() time.Time) *Planner {
	p.now = now
	return p
}

// Plan runs the full pipeline for one from/to pair.
//
// An endpoint without coordinates is a normal "not ready yet" state: Plan
// returns an empty result without touching the upstream service. Only a
// primary-query transport failure surfaces as an error.
func (p *Planner) Plan(ctx context.Context, from, to Site, opts Options) (Plan, error) {
	if !from.HasCoordinates() || !to.HasCoordinates() {
		return Plan{}, nil
	}

	journeys, err := p.fetcher.Fetch(ctx, from, to, opts)
	if err != nil {
		return Plan{}, err
	}

	// Sort before dedup so the retained duplicate is the priority-earliest.
	Sort(journeys)
	journeys = Dedup(journeys)

	now := p.now()
	displayed := Bound(journeys, opts, now)
	return Plan{
		Displayed: displayed,
		Preferred: Preferred(displayed, opts, now),
	}, nil
}
