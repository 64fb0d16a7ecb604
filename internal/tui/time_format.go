package tui

import (
	"fmt"
	"time"
)

// formatRelativeTime renders how long ago a timestamp was, coarsely.
// Zero times render as empty so rows without push data stay clean.
func formatRelativeTime(t time.Time) string {
	return formatRelativeTimeAt(t, time.Now())
}

func formatRelativeTimeAt(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	elapsed := now.Sub(t)
	switch {
	case elapsed < time.Hour:
		return "just now"
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	case elapsed < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	case elapsed < 365*24*time.Hour:
		return fmt.Sprintf("%dmo ago", int(elapsed.Hours()/(24*30)))
	default:
		return fmt.Sprintf("%dy ago", int(elapsed.Hours()/(24*365)))
	}
}
