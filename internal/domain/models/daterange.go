package models

import "time"

// DateRange is an optional calendar-date window. Either bound may be nil.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// NewDateRange builds a range from optional bounds.
func NewDateRange(start, end *time.Time) DateRange {
	return DateRange{Start: start, End: end}
}

// Inverted reports whether both bounds are set and Start falls on a later
// calendar day than End.
func (r DateRange) Inverted() bool {
	if r.Start == nil || r.End == nil {
		return false
	}
	return dayOf(*r.Start).After(dayOf(*r.End))
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool { return r.Start == nil && r.End == nil }

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
