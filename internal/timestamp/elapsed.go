package timestamp

import (
	"fmt"
	"time"
)

// AgoSuffix is appended to elapsed strings shown in labels.
const AgoSuffix = " ago"

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
	secondsPerYear   = 365 * secondsPerDay
)

// ElapsedSince formats the time from start to now using only the coarsest
// non-zero unit: 2 days 3 hours is "2d". Negative spans render as "0s".
func ElapsedSince(start, now Time) string {
	// Unix seconds instead of Sub: zeroed fields can put start centuries
	// away, beyond what a time.Duration holds.
	secs := now.Instant().Unix() - start.Instant().Unix()
	if secs < 0 {
		secs = 0
	}
	switch {
	case secs >= secondsPerYear:
		return fmt.Sprintf("%dy", secs/secondsPerYear)
	case secs >= secondsPerDay:
		return fmt.Sprintf("%dd", secs/secondsPerDay)
	case secs >= secondsPerHour:
		return fmt.Sprintf("%dh", secs/secondsPerHour)
	case secs >= secondsPerMinute:
		return fmt.Sprintf("%dm", secs/secondsPerMinute)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// Ago parses startedAt and renders its age relative to now, e.g. "1h ago".
func Ago(startedAt string, now time.Time) string {
	return ElapsedSince(Parse(startedAt), FromTime(now)) + AgoSuffix
}
