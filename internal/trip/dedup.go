package trip

import (
	"math"
	"strings"
	"time"
)

// departureBucket absorbs the second-level jitter the upstream service
// shows when it reports the same physical departure across requests.
// 5 minutes is below the minimum realistic headway granularity.
const departureBucket = 5 * time.Minute

type dedupKey struct {
	hasDepart    bool
	departBucket int64 // epoch ms rounded to the nearest bucket
	arrive       string
	duration     int
	lines        string
}

// Dedup drops journeys the upstream reported more than once under slightly
// different timestamps. Order-preserving, first occurrence wins — callers
// sort first (see Sort) so the retained instance is the priority-earliest.
func Dedup(js []Journey) []Journey {
	seen := make(map[dedupKey]struct{}, len(js))
	out := make([]Journey, 0, len(js))
	for _, j := range js {
		k := keyOf(j)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, j)
	}
	return out
}

func keyOf(j Journey) dedupKey {
	k := dedupKey{
		arrive:   j.ArrivalTime(),
		duration: j.Duration,
		lines:    lineKey(j),
	}
	if t, ok := ParseTimestamp(j.DepartureTime()); ok {
		bucket := departureBucket.Milliseconds()
		k.hasDepart = true
		k.departBucket = int64(math.Round(float64(t.UnixMilli())/float64(bucket))) * bucket
	}
	return k
}

// lineKey joins each leg's line identifier (falling back to the mode name)
// with "|", skipping empty entries.
func lineKey(j Journey) string {
	parts := make([]string, 0, len(j.Legs))
	for _, l := range j.Legs {
		id := l.Line
		if id == "" {
			id = l.Mode
		}
		if id != "" {
			parts = append(parts, id)
		}
	}
	return strings.Join(parts, "|")
}
