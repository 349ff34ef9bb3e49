package usecase

import (
	"context"
	"sync"

	"MBGate/internal/domain/models"
)

type fakeTokens struct {
	mu    sync.Mutex
	calls int
	token models.AuthToken
	err   error
}

func (f *fakeTokens) Authenticate(context.Context) (models.AuthToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.token, f.err
}

func (f *fakeTokens) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type positionsCall struct {
	token     string
	accountID string
	rng       models.DateRange
}

type fakeAPI struct {
	mu            sync.Mutex
	accounts      []models.Account
	positions     []models.Position
	authToken     models.AuthToken
	err           error
	accountTokens []string
	positionCalls []positionsCall
	authorized    [][2]string
}

func (f *fakeAPI) ListAccounts(_ context.Context, token string) ([]models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accountTokens = append(f.accountTokens, token)
	return f.accounts, f.err
}

func (f *fakeAPI) ListPositions(_ context.Context, token, accountID string, rng models.DateRange) ([]models.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.positionCalls = append(f.positionCalls, positionsCall{token: token, accountID: accountID, rng: rng})
	return f.positions, f.err
}

func (f *fakeAPI) Authorize(_ context.Context, login, password string) (models.AuthToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authorized = append(f.authorized, [2]string{login, password})
	return f.authToken, f.err
}

type fakePublisher struct {
	mu  sync.Mutex
	got []*models.PositionSnapshot
	err error
}

func (f *fakePublisher) Publish(_ context.Context, s *models.PositionSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.got = append(f.got, s)
	return nil
}

func (f *fakePublisher) published() []*models.PositionSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.PositionSnapshot(nil), f.got...)
}

type fakeStorage struct {
	stored []*models.PositionSnapshot
	err    error
}

func (f *fakeStorage) Init(context.Context) error { return nil }

func (f *fakeStorage) Store(_ context.Context, s *models.PositionSnapshot) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, s)
	return nil
}

func (f *fakeStorage) Health(context.Context) error { return nil }

type countingMetrics struct {
	mu        sync.Mutex
	errors    map[string]int
	snapshots map[string]int
	cache     map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{errors: map[string]int{}, snapshots: map[string]int{}, cache: map[string]int{}}
}

func (m *countingMetrics) RecordUpstreamCall(string, int, float64) {}
func (m *countingMetrics) RecordLatency(string, float64)           {}

func (m *countingMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *countingMetrics) RecordSnapshotSent(backend string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[backend]++
}

func (m *countingMetrics) RecordCache(op string, hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.cache[op+":hit"]++
		return
	}
	m.cache[op+":miss"]++
}
