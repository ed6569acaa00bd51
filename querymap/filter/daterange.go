package filter

import (
	"strings"
	"time"
)

var rangeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// parseDayRange interprets a comma-delimited pair of date-like strings as an
// inclusive range with day-boundary semantics: the lower bound is the start
// of the first element's calendar day (00:00:00), the upper bound the end of
// the second element's day (23:59:59). Anything unrecognizable yields
// ok=false; between conditions fail soft.
func parseDayRange(raw string) (lower, upper time.Time, ok bool) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, false
	}

	from, ok := parseDate(strings.TrimSpace(parts[0]))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	to, ok := parseDate(strings.TrimSpace(parts[1]))
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	lower = startOfDay(from)
	upper = endOfDay(to)
	return lower, upper, true
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range rangeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
