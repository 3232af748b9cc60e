package format

import "time"

// TimestampLayout is the layout used for last-accessed timestamps.
const TimestampLayout = "2006-01-02 15:04:05 UTC"

// Timestamp formats t in UTC using TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a value produced by Timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, s, time.UTC)
}

// DaysSince returns the number of whole days between t and now.
func DaysSince(t, now time.Time) int {
	return int(now.Sub(t).Hours() / 24)
}
