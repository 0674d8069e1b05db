package trip

import (
	"sort"
	"time"
)

// Display bounds.
const (
	leaveNowDisplayLimit  = 4
	scheduledDisplayLimit = 5
	futureHeadLimit       = 3
	precedingTailLimit    = 1
)

// Sort orders journeys by departure instant ascending. Journeys with equal
// or unparseable departures fall through to the tie-breaks: primary-query
// journeys first, then ascending upstream batch rank. The sort is stable.
func Sort(js []Journey) {
	sort.SliceStable(js, func(i, k int) bool {
		a, b := js[i], js[k]
		at, aok := DepartureInstant(a)
		bt, bok := DepartureInstant(b)
		if aok && bok && !at.Equal(bt) {
			return at.Before(bt)
		}
		if a.FromPrimary() != b.FromPrimary() {
			return a.FromPrimary()
		}
		return a.PreferredOrder < b.PreferredOrder
	})
}

// Bound trims a sorted, deduplicated list to the display set.
//
// Leave-now keeps at most one already-departed journey for context plus the
// next three future ones, backfilling with further future journeys up to
// four total. Journeys without a parseable departure count as future.
// Scheduled planning simply shows the first five.
func Bound(js []Journey, opts Options, now time.Time) []Journey {
	if !opts.UseNow {
		if len(js) > scheduledDisplayLimit {
			return js[:scheduledDisplayLimit]
		}
		return js
	}

	var preceding, future []Journey
	for _, j := range js {
		if t, ok := DepartureInstant(j); ok && t.Before(now) {
			preceding = append(preceding, j)
		} else {
			future = append(future, j)
		}
	}

	if len(preceding) > precedingTailLimit {
		preceding = preceding[len(preceding)-precedingTailLimit:]
	}
	head := future
	if len(head) > futureHeadLimit {
		head = head[:futureHeadLimit]
	}

	combined := make([]Journey, 0, leaveNowDisplayLimit)
	combined = append(combined, preceding...)
	combined = append(combined, head...)
	for i := len(head); len(combined) < leaveNowDisplayLimit && i < len(future); i++ {
		combined = append(combined, future[i])
	}
	if len(combined) > leaveNowDisplayLimit {
		combined = combined[:leaveNowDisplayLimit]
	}
	return combined
}

// Preferred picks the recommended journey from the bounded display list.
//
// Leave-now: the first journey departing strictly after now. Otherwise, or
// when nothing departs after now: the top-ranked primary-query journey.
// Otherwise the first element. Returns nil for an empty list.
func Preferred(js []Journey, opts Options, now time.Time) *Journey {
	if opts.UseNow {
		for i := range js {
			if t, ok := DepartureInstant(js[i]); ok && t.After(now) {
				return &js[i]
			}
		}
	}
	for i := range js {
		if js[i].FromPrimary() && js[i].PreferredOrder == 0 {
			return &js[i]
		}
	}
	if len(js) > 0 {
		return &js[0]
	}
	return nil
}
