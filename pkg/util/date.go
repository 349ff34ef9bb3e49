package util

import "time"

// DateLayout is the calendar-date format used on the wire (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD, RFC3339 or RFC3339Nano. Timestamps are
// truncated to their calendar date. Anything else, including bare
// integers, is rejected.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return TruncateToDate(t), true
		}
	}
	return time.Time{}, false
}

// TruncateToDate drops the time-of-day component, keeping the calendar
// date as seen in t's own location.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t as YYYY-MM-DD in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
