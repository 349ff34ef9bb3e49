package models

import "encoding/json"

// Requests and responses for the portfolio HTTP endpoints.

type AuthorizeRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type PositionsRequest struct {
	AccountID string `param:"accountId" validate:"required"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
}

type AuthTokenResponse struct {
	AccessToken string `json:"access_token"`
	Expiration  int    `json:"expiration"`
}

type AccountResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Currency     string `json:"currency"`
	CurrencySign string `json:"currencySign"`
}

type PositionResponse struct {
	AvgPrice   *json.Number `json:"avgPrice"`
	Category   string       `json:"category"`
	ID         int          `json:"id"`
	Instrument string       `json:"instrument"`
	Qty        string       `json:"qty"`
	Side       string       `json:"side"`
}

func NewAuthTokenResponse(t AuthToken) AuthTokenResponse {
	return AuthTokenResponse{AccessToken: t.Token, Expiration: t.ExpiresInSeconds}
}

func NewAccountResponses(accounts []Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, AccountResponse{
			ID:           a.ID,
			Name:         a.Name,
			Type:         a.Type,
			Currency:     a.Currency,
			CurrencySign: a.CurrencySign,
		})
	}
	return out
}

func NewPositionResponses(positions []Position) []PositionResponse {
	out := make([]PositionResponse, 0, len(positions))
	for _, p := range positions {
		pr := PositionResponse{
			Category:   p.Category,
			ID:         p.ID,
			Instrument: p.Instrument,
			Qty:        p.Qty,
			Side:       p.Side,
		}
		if p.AvgPrice.Valid {
			n := json.Number(p.AvgPrice.Decimal.String())
			pr.AvgPrice = &n
		}
		out = append(out, pr)
	}
	return out
}
