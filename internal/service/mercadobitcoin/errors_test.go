package mercadobitcoin

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKindOnly(t *testing.T) {
	err := transportError(opListAccounts, 500, "boom")

	assert.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrProtocol)
	assert.Equal(t, ErrTransport, KindOf(err))
	assert.Equal(t, ErrTransport, KindOf(fmt.Errorf("wrapped: %w", err)))
	assert.Equal(t, Kind(""), KindOf(errors.New("other")))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t,
		"mercadobitcoin: list_accounts: transport error: status 502: bad gateway",
		transportError(opListAccounts, 502, "bad gateway").Error())
	assert.Equal(t,
		"mercadobitcoin: list_positions: invalid argument (accountId): account id is required",
		invalidArgument(opListPositions, "accountId", "account id is required").Error())
}

func TestClassifyDoError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, classifyDoError(ctx, opAuthorize, errors.New("eof")), ErrCancelled)
	assert.ErrorIs(t, classifyDoError(context.Background(), opAuthorize, fmt.Errorf("x: %w", context.Canceled)), ErrCancelled)
	assert.ErrorIs(t, classifyDoError(context.Background(), opAuthorize, errors.New("dial tcp")), ErrTransport)
}
