package mercadobitcoin

import (
	"github.com/shopspring/decimal"

	"MBGate/internal/domain/models"
)

// Upstream wire shapes. Every field is mapped explicitly by tag; the
// converters below are the only place wire names meet domain names.

type authorizeRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type authorizeResponse struct {
	AccessToken string `json:"access_token"`
	Expiration  int    `json:"expiration"`
}

func (r authorizeResponse) toDomain() models.AuthToken {
	return models.AuthToken{
		Token:            r.AccessToken,
		ExpiresInSeconds: r.Expiration,
	}
}

type accountDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Currency     string `json:"currency"`
	CurrencySign string `json:"currencySign"`
}

func (a accountDTO) toDomain() models.Account {
	return models.Account{
		ID:           a.ID,
		Name:         a.Name,
		Type:         a.Type,
		Currency:     a.Currency,
		CurrencySign: a.CurrencySign,
	}
}

type positionDTO struct {
	AvgPrice   decimal.NullDecimal `json:"avgPrice"`
	Category   string              `json:"category"`
	ID         int                 `json:"id"`
	Instrument string              `json:"instrument"`
	Qty        string              `json:"qty"`
	Side       string              `json:"side"`
}

func (p positionDTO) toDomain() models.Position {
	return models.Position{
		AvgPrice:   p.AvgPrice,
		Category:   p.Category,
		ID:         p.ID,
		Instrument: p.Instrument,
		Qty:        p.Qty,
		Side:       p.Side,
	}
}
