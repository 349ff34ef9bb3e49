package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"MBGate/internal/domain/models"
	"MBGate/pkg/util"
)

// snapshotMessage is the event payload published for one positions read.
type snapshotMessage struct {
	AccountID string             `json:"account_id"`
	FetchedAt time.Time          `json:"fetched_at"`
	StartDate *string            `json:"start_date"`
	EndDate   *string            `json:"end_date"`
	Positions []snapshotPosition `json:"positions"`
}

type snapshotPosition struct {
	ID         int                 `json:"id"`
	Instrument string              `json:"instrument"`
	Category   string              `json:"category"`
	Side       string              `json:"side"`
	Qty        string              `json:"qty"`
	AvgPrice   decimal.NullDecimal `json:"avg_price"`
}

func newSnapshotMessage(s *models.PositionSnapshot) snapshotMessage {
	msg := snapshotMessage{
		AccountID: s.AccountID,
		FetchedAt: s.FetchedAt.UTC(),
		StartDate: formatOptionalDate(s.Range.Start),
		EndDate:   formatOptionalDate(s.Range.End),
		Positions: make([]snapshotPosition, 0, len(s.Positions)),
	}
	for _, p := range s.Positions {
		msg.Positions = append(msg.Positions, snapshotPosition{
			ID:         p.ID,
			Instrument: p.Instrument,
			Category:   p.Category,
			Side:       p.Side,
			Qty:        p.Qty,
			AvgPrice:   p.AvgPrice,
		})
	}
	return msg
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := util.FormatDate(*t)
	return &s
}
