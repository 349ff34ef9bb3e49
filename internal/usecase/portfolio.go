package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"MBGate/internal/domain/models"
	drepo "MBGate/internal/domain/repository"
	dsvc "MBGate/internal/domain/service"
	"MBGate/internal/service/mercadobitcoin"
	"MBGate/pkg/cache"
	applogger "MBGate/pkg/logger"
	"MBGate/pkg/util"
)

const (
	cacheKeyAccounts  = "accounts"
	cacheKeyPositions = "positions"
)

// PortfolioUseCase serves account and position reads. Every read acquires
// a fresh token; tokens are never cached or reused.
type PortfolioUseCase struct {
	tokens  dsvc.TokenSource
	api     dsvc.BrokerAPI
	metrics drepo.Metrics
	log     *applogger.Logger

	cache    cache.Service
	cacheTTL time.Duration

	snapshots       *SnapshotProcessor
	snapshotTimeout time.Duration
	pending         sync.WaitGroup

	now func() time.Time
}

// PortfolioOption configures PortfolioUseCase.
type PortfolioOption func(*PortfolioUseCase)

// WithReadCache caches account and position lists for ttl. A nil cache or
// non-positive ttl disables caching.
func WithReadCache(c cache.Service, ttl time.Duration) PortfolioOption {
	return func(uc *PortfolioUseCase) {
		if c != nil && ttl > 0 {
			uc.cache = c
			uc.cacheTTL = ttl
		}
	}
}

// WithSnapshots forwards every successful positions read to p in the
// background, bounded by timeout.
func WithSnapshots(p *SnapshotProcessor, timeout time.Duration) PortfolioOption {
	return func(uc *PortfolioUseCase) {
		if p != nil && p.Enabled() {
			uc.snapshots = p
			uc.snapshotTimeout = timeout
		}
	}
}

func WithPortfolioLogger(l *applogger.Logger) PortfolioOption {
	return func(uc *PortfolioUseCase) {
		if l != nil {
			uc.log = l
		}
	}
}

func WithPortfolioMetrics(m drepo.Metrics) PortfolioOption {
	return func(uc *PortfolioUseCase) {
		if m != nil {
			uc.metrics = m
		}
	}
}

func NewPortfolioUseCase(tokens dsvc.TokenSource, api dsvc.BrokerAPI, opts ...PortfolioOption) *PortfolioUseCase {
	uc := &PortfolioUseCase{
		tokens:          tokens,
		api:             api,
		metrics:         drepo.NopMetrics{},
		log:             applogger.Nop(),
		snapshotTimeout: 5 * time.Second,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// GetAccounts lists every account of the configured credentials.
func (uc *PortfolioUseCase) GetAccounts(ctx context.Context) ([]models.Account, error) {
	start := time.Now()
	defer func() { uc.metrics.RecordLatency("get_accounts", time.Since(start).Seconds()) }()

	var cached []models.Account
	if uc.cacheGet(ctx, cacheKeyAccounts, cacheKeyAccounts, &cached) {
		return cached, nil
	}

	token, err := uc.tokens.Authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("get accounts: %w", err)
	}

	accounts, err := uc.api.ListAccounts(ctx, token.Token)
	if err != nil {
		return nil, fmt.Errorf("get accounts: %w", err)
	}

	uc.cacheSet(ctx, cacheKeyAccounts, accounts)
	return accounts, nil
}

// GetPositions lists the positions of accountID within rng. Arguments are
// validated before a token is requested.
func (uc *PortfolioUseCase) GetPositions(ctx context.Context, accountID string, rng models.DateRange) ([]models.Position, error) {
	if err := mercadobitcoin.ValidatePositionsArgs(accountID, rng); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { uc.metrics.RecordLatency("get_positions", time.Since(start).Seconds()) }()

	key := positionsKey(accountID, rng)
	var cached []models.Position
	if uc.cacheGet(ctx, cacheKeyPositions, key, &cached) {
		return cached, nil
	}

	token, err := uc.tokens.Authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("get positions: %w", err)
	}

	positions, err := uc.api.ListPositions(ctx, token.Token, accountID, rng)
	if err != nil {
		return nil, fmt.Errorf("get positions: %w", err)
	}

	uc.cacheSet(ctx, key, positions)
	uc.dispatchSnapshot(&models.PositionSnapshot{
		AccountID: accountID,
		FetchedAt: uc.now(),
		Range:     rng,
		Positions: positions,
	})
	return positions, nil
}

// Authorize passes caller-supplied credentials through to the brokerage.
func (uc *PortfolioUseCase) Authorize(ctx context.Context, login, password string) (models.AuthToken, error) {
	token, err := uc.api.Authorize(ctx, login, password)
	if err != nil {
		return models.AuthToken{}, fmt.Errorf("authorize: %w", err)
	}
	return token, nil
}

// Close waits for in-flight snapshots.
func (uc *PortfolioUseCase) Close() {
	uc.pending.Wait()
}

func (uc *PortfolioUseCase) dispatchSnapshot(s *models.PositionSnapshot) {
	if uc.snapshots == nil {
		return
	}
	uc.pending.Add(1)
	go func() {
		defer uc.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), uc.snapshotTimeout)
		defer cancel()
		if err := uc.snapshots.Process(ctx, s); err != nil {
			uc.log.Error("snapshot delivery failed",
				applogger.String("backend", uc.snapshots.Backend()),
				applogger.String("account_id", s.AccountID),
				applogger.Error(err),
			)
		}
	}()
}

func (uc *PortfolioUseCase) cacheGet(ctx context.Context, op, key string, dest interface{}) bool {
	if uc.cache == nil {
		return false
	}
	err := uc.cache.Get(ctx, key, dest)
	if err == nil {
		uc.metrics.RecordCache(op, true)
		return true
	}
	uc.metrics.RecordCache(op, false)
	if !errors.Is(err, cache.ErrCacheMiss) {
		uc.log.Warn("cache read failed", applogger.String("key", key), applogger.Error(err))
	}
	return false
}

func (uc *PortfolioUseCase) cacheSet(ctx context.Context, key string, value interface{}) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, key, value, uc.cacheTTL); err != nil {
		uc.log.Warn("cache write failed", applogger.String("key", key), applogger.Error(err))
	}
}

func positionsKey(accountID string, rng models.DateRange) string {
	var start, end string
	if rng.Start != nil {
		start = util.FormatDate(*rng.Start)
	}
	if rng.End != nil {
		end = util.FormatDate(*rng.End)
	}
	return cache.GenerateKeyWithParams(cacheKeyPositions, accountID, start, end)
}
