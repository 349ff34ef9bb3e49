package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MBGate/internal/domain/models"
	"MBGate/internal/service/mercadobitcoin"
	"MBGate/pkg/cache"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestGetAccounts_FreshTokenPerCall(t *testing.T) {
	tokens := &fakeTokens{token: models.AuthToken{Token: "tok", ExpiresInSeconds: 3600}}
	api := &fakeAPI{accounts: []models.Account{{ID: "1"}, {ID: "2"}}}
	uc := NewPortfolioUseCase(tokens, api)

	for i := 0; i < 3; i++ {
		accounts, err := uc.GetAccounts(context.Background())
		require.NoError(t, err)
		assert.Len(t, accounts, 2)
	}
	assert.Equal(t, 3, tokens.count())
	assert.Equal(t, []string{"tok", "tok", "tok"}, api.accountTokens)
}

func TestGetAccounts_AuthFailureSkipsAPI(t *testing.T) {
	authErr := &mercadobitcoin.Error{Kind: mercadobitcoin.ErrTransport, StatusCode: 401}
	tokens := &fakeTokens{err: authErr}
	api := &fakeAPI{}
	uc := NewPortfolioUseCase(tokens, api)

	_, err := uc.GetAccounts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, mercadobitcoin.ErrTransport)
	assert.Empty(t, api.accountTokens)
}

func TestGetPositions_ValidatesBeforeToken(t *testing.T) {
	tokens := &fakeTokens{token: models.AuthToken{Token: "tok"}}
	api := &fakeAPI{}
	uc := NewPortfolioUseCase(tokens, api)

	_, err := uc.GetPositions(context.Background(), "", models.DateRange{})
	assert.ErrorIs(t, err, mercadobitcoin.ErrInvalidArgument)

	_, err = uc.GetPositions(context.Background(), "acc", models.NewDateRange(day(2023, 2, 1), day(2023, 1, 1)))
	assert.ErrorIs(t, err, mercadobitcoin.ErrInvalidArgument)

	assert.Equal(t, 0, tokens.count())
	assert.Empty(t, api.positionCalls)
}

func TestGetPositions_PassesArguments(t *testing.T) {
	tokens := &fakeTokens{token: models.AuthToken{Token: "tok"}}
	api := &fakeAPI{positions: []models.Position{{ID: 1, Instrument: "BTC-BRL"}}}
	uc := NewPortfolioUseCase(tokens, api)

	rng := models.NewDateRange(day(2023, 1, 1), day(2023, 1, 31))
	positions, err := uc.GetPositions(context.Background(), "account-abc", rng)
	require.NoError(t, err)
	assert.Len(t, positions, 1)

	require.Len(t, api.positionCalls, 1)
	assert.Equal(t, positionsCall{token: "tok", accountID: "account-abc", rng: rng}, api.positionCalls[0])
}

func TestGetPositions_Snapshot(t *testing.T) {
	pub := &fakePublisher{}
	proc, err := NewSnapshotProcessor(pub, nil, nil, BackendKafka)
	require.NoError(t, err)

	fixed := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	uc := NewPortfolioUseCase(
		&fakeTokens{token: models.AuthToken{Token: "tok"}},
		&fakeAPI{positions: []models.Position{{ID: 1}}},
		WithSnapshots(proc, time.Second),
	)
	uc.now = func() time.Time { return fixed }

	_, err = uc.GetPositions(context.Background(), "acc", models.DateRange{})
	require.NoError(t, err)
	uc.Close()

	got := pub.published()
	require.Len(t, got, 1)
	assert.Equal(t, "acc", got[0].AccountID)
	assert.Equal(t, fixed, got[0].FetchedAt)
	assert.Len(t, got[0].Positions, 1)
}

func TestGetPositions_SnapshotFailureNotSurfaced(t *testing.T) {
	m := newCountingMetrics()
	proc, err := NewSnapshotProcessor(&fakePublisher{err: errors.New("down")}, nil, m, BackendKafka)
	require.NoError(t, err)

	uc := NewPortfolioUseCase(
		&fakeTokens{token: models.AuthToken{Token: "tok"}},
		&fakeAPI{positions: []models.Position{}},
		WithSnapshots(proc, time.Second),
	)

	_, err = uc.GetPositions(context.Background(), "acc", models.DateRange{})
	require.NoError(t, err)
	uc.Close()

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Equal(t, 1, m.errors["snapshot"])
}

func TestGetPositions_NoSnapshotOnFailure(t *testing.T) {
	pub := &fakePublisher{}
	proc, err := NewSnapshotProcessor(pub, nil, nil, BackendKafka)
	require.NoError(t, err)

	uc := NewPortfolioUseCase(
		&fakeTokens{token: models.AuthToken{Token: "tok"}},
		&fakeAPI{err: &mercadobitcoin.Error{Kind: mercadobitcoin.ErrProtocol}},
		WithSnapshots(proc, time.Second),
	)

	_, err = uc.GetPositions(context.Background(), "acc", models.DateRange{})
	assert.ErrorIs(t, err, mercadobitcoin.ErrProtocol)
	uc.Close()
	assert.Empty(t, pub.published())
}

func TestReadCache(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()
	m := newCountingMetrics()

	tokens := &fakeTokens{token: models.AuthToken{Token: "tok"}}
	api := &fakeAPI{
		accounts:  []models.Account{{ID: "1", Name: "Main"}},
		positions: []models.Position{{ID: 5, Qty: "1.5"}},
	}
	uc := NewPortfolioUseCase(tokens, api, WithReadCache(mc, time.Minute), WithPortfolioMetrics(m))

	first, err := uc.GetAccounts(context.Background())
	require.NoError(t, err)
	second, err := uc.GetAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, tokens.count())
	assert.Equal(t, 1, m.cache["accounts:hit"])
	assert.Equal(t, 1, m.cache["accounts:miss"])

	rng := models.NewDateRange(day(2023, 1, 1), nil)
	_, err = uc.GetPositions(context.Background(), "acc", rng)
	require.NoError(t, err)
	cached, err := uc.GetPositions(context.Background(), "acc", rng)
	require.NoError(t, err)
	assert.Equal(t, []models.Position{{ID: 5, Qty: "1.5"}}, cached)
	assert.Len(t, api.positionCalls, 1)

	_, err = uc.GetPositions(context.Background(), "acc", models.DateRange{})
	require.NoError(t, err)
	assert.Len(t, api.positionCalls, 2)
}

func TestAuthorize_PassThrough(t *testing.T) {
	tokens := &fakeTokens{}
	api := &fakeAPI{authToken: models.AuthToken{Token: "xyz", ExpiresInSeconds: 60}}
	uc := NewPortfolioUseCase(tokens, api)

	token, err := uc.Authorize(context.Background(), "user", "pass")
	require.NoError(t, err)
	assert.Equal(t, "xyz", token.Token)
	assert.Equal(t, [][2]string{{"user", "pass"}}, api.authorized)
	assert.Equal(t, 0, tokens.count())
}

func TestPositionsKey(t *testing.T) {
	assert.Equal(t, "positions:acc::", positionsKey("acc", models.DateRange{}))
	assert.Equal(t, "positions:acc:2023-01-01:2023-01-31", positionsKey("acc", models.NewDateRange(day(2023, 1, 1), day(2023, 1, 31))))
}
