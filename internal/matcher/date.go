package matcher

import (
	"strings"
	"time"
)

// dateLayouts are tried in order against datecode/air_date strings, which
// notifications and the catalog both report as loosely-formatted dates.
var dateLayouts = []string{
	"20060102",
	"2006-01-02",
	"2006/01/02",
	time.RFC3339,
}

// parseDate parses a human-supplied date string in any of the accepted
// layouts. ok is false if nothing matched.
func parseDate(value string) (t time.Time, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// daysBetween returns the whole-day distance between two dates (today
// minus then, for the ripeness calculation).
func daysBetween(today, then time.Time) int {
	return int(today.Sub(then).Hours() / 24)
}

// DaysBetweenDatecodes returns max(0, days between today and the parsed
// datecode), used to initialize ripeness on aging-queue entry. A
// non-parseable datecode yields 0 without error, per the matcher's
// "skip bonus without penalty" edge policy.
func DaysBetweenDatecodes(now time.Time, datecode string) int {
	then, ok := parseDate(datecode)
	if !ok {
		return 0
	}
	days := daysBetween(now, then)
	if days < 0 {
		return 0
	}
	return days
}

// dateDistanceDays returns the absolute day distance between two date
// strings, or (0, false) if either fails to parse.
func dateDistanceDays(a, b string) (int, bool) {
	ta, ok := parseDate(a)
	if !ok {
		return 0, false
	}
	tb, ok := parseDate(b)
	if !ok {
		return 0, false
	}
	diff := int(ta.Sub(tb).Hours() / 24)
	if diff < 0 {
		diff = -diff
	}
	return diff, true
}
