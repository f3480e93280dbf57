// Package timeutil provides time parsing and formatting utilities.
//
// Story timestamps arrive as RFC 3339 strings with an explicit offset and
// are shown relative to the viewer's clock ("3 hours ago").
package timeutil

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Clock returns the current time. The formatter takes one so that tests
// can pin "now".
type Clock func() time.Time

// System is the wall clock.
func System() time.Time {
	return time.Now()
}

// Fixed returns a Clock that always reports t.
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}

// ParseTimestamp parses an RFC 3339 timestamp. The offset is required;
// bare local times are rejected.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// RelativeTime returns a human-readable distance between then and now.
// Examples: "now", "5 minutes ago", "2 days ago", "3 hours from now"
func RelativeTime(then, now time.Time) string {
	return humanize.RelTime(then, now, "ago", "from now")
}

// FormatDuration formats a duration in milliseconds to a human-readable string.
// Examples: "1.2s", "450ms", "2m 15.3s"
func FormatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	seconds := float64(ms) / 1000.0
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	minutes := int(seconds / 60)
	remaining := seconds - float64(minutes*60)
	return fmt.Sprintf("%dm %.1fs", minutes, remaining)
}

// FormatTimestampFull formats t in UTC with date, for cache listings.
// Format: "2006-01-02 15:04:05"
func FormatTimestampFull(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
