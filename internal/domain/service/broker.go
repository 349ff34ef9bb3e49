package service

import (
	"context"

	"MBGate/internal/domain/models"
)

// TokenSource exchanges configured credentials for a bearer token.
type TokenSource interface {
	Authenticate(ctx context.Context) (models.AuthToken, error)
}

// BrokerAPI performs authenticated reads against the brokerage and a
// direct credential pass-through.
type BrokerAPI interface {
	ListAccounts(ctx context.Context, token string) ([]models.Account, error)
	ListPositions(ctx context.Context, token, accountID string, rng models.DateRange) ([]models.Position, error)
	Authorize(ctx context.Context, login, password string) (models.AuthToken, error)
}
