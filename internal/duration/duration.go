// Package duration parses human-readable age thresholds such as "2w" or "30d".
package duration

import (
	"fmt"
	"time"
)

// Parse parses human-readable durations like "2w", "30d", "1mo".
// A month is 30 days and a year 365 days.
func Parse(s string) (time.Duration, error) {
	var n int
	var unit string

	if _, err := fmt.Sscanf(s, "%d%s", &n, &unit); err != nil {
		return 0, fmt.Errorf("invalid duration format: %s (use e.g., 2w, 30d, 1mo)", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("duration must be positive: %s", s)
	}

	day := 24 * time.Hour
	switch unit {
	case "h", "hr", "hrs", "hour", "hours":
		return time.Duration(n) * time.Hour, nil
	case "d", "day", "days":
		return time.Duration(n) * day, nil
	case "w", "wk", "wks", "week", "weeks":
		return time.Duration(n) * 7 * day, nil
	case "mo", "month", "months":
		return time.Duration(n) * 30 * day, nil
	case "y", "yr", "yrs", "year", "years":
		return time.Duration(n) * 365 * day, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %s", unit)
	}
}
