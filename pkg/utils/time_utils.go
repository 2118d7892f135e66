package utils

import (
	"time"
)

// DateLayout is the wire format for dates of birth
const DateLayout = "2006-01-02"

// ParseDate parses a date-only string in the wire format
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(DateLayout, dateStr)
}

// FormatTime formats time in ISO 8601 format
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// ParseTime parses an ISO 8601 formatted time string
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(time.RFC3339, timeStr)
}

// SameDay reports whether two instants fall on the same calendar day
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayKey formats a day bucket label used in trend aggregations
func DayKey(t time.Time) string {
	return t.Format("Jan 2")
}
