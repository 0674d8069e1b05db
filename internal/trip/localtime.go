package trip

import "time"

// LocalTimeLayout is the wire format for user-selected times. It is always
// interpreted as wall-clock local time with no UTC offset.
const LocalTimeLayout = "2006-01-02T15:04"

// ParseLocal parses a "YYYY-MM-DDTHH:MM" string as local wall-clock time.
func ParseLocal(s string) (time.Time, error) {
	return time.ParseInLocation(LocalTimeLayout, s, time.Local)
}

// FormatLocal renders t in the local wire format.
func FormatLocal(t time.Time) string {
	return t.Format(LocalTimeLayout)
}

// timestampLayouts are the shapes the upstream service has been seen to use.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	LocalTimeLayout,
}

// ParseTimestamp parses an upstream journey timestamp. Absent or malformed
// values report ok=false and are excluded from time comparisons.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DepartureInstant returns the parsed departure instant of a journey.
func DepartureInstant(j Journey) (time.Time, bool) {
	return ParseTimestamp(j.DepartureTime())
}
