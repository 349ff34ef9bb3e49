package repository

import (
	"context"

	"MBGate/internal/domain/models"
)

// SnapshotPublisher emits position snapshots as events. The underlying
// producer is owned and closed by whoever built it.
type SnapshotPublisher interface {
	Publish(ctx context.Context, s *models.PositionSnapshot) error
}

// SnapshotStorage persists position snapshots for history queries. The
// connection pool is owned and closed by whoever built it.
type SnapshotStorage interface {
	Init(ctx context.Context) error // ensure tables
	Store(ctx context.Context, s *models.PositionSnapshot) error
	Health(ctx context.Context) error
}

type Metrics interface {
	RecordUpstreamCall(op string, status int, seconds float64)
	RecordError(kind string)
	RecordSnapshotSent(backend string)
	RecordCache(op string, hit bool)
	RecordLatency(op string, seconds float64)
}

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) RecordUpstreamCall(string, int, float64) {}
func (NopMetrics) RecordError(string)                      {}
func (NopMetrics) RecordSnapshotSent(string)               {}
func (NopMetrics) RecordCache(string, bool)                {}
func (NopMetrics) RecordLatency(string, float64)           {}

var _ Metrics = NopMetrics{}
