package models

import "github.com/shopspring/decimal"

// Account mirrors a provider account.
type Account struct {
	ID           string
	Name         string
	Type         string
	Currency     string
	CurrencySign string
}

// Position is one asset holding of an account for a date window.
type Position struct {
	AvgPrice   decimal.NullDecimal // null when the provider has no average price
	Category   string
	ID         int
	Instrument string
	Qty        string
	Side       string
}
