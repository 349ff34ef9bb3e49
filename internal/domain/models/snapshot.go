package models

import "time"

// PositionSnapshot is the result of one successful positions read,
// forwarded to the configured snapshot backend.
type PositionSnapshot struct {
	AccountID string
	FetchedAt time.Time
	Range     DateRange
	Positions []Position
}
