package usecase

import (
	"context"
	"fmt"
	"time"

	"MBGate/internal/domain/models"
	drepo "MBGate/internal/domain/repository"
)

const (
	BackendNone       = "none"
	BackendKafka      = "kafka"
	BackendClickHouse = "clickhouse"
)

// SnapshotProcessor routes position snapshots to the configured backend.
type SnapshotProcessor struct {
	pub     drepo.SnapshotPublisher
	store   drepo.SnapshotStorage
	metrics drepo.Metrics
	backend string
}

// NewSnapshotProcessor creates a new SnapshotProcessor instance. pub and
// store may be nil when their backend is not selected.
func NewSnapshotProcessor(
	pub drepo.SnapshotPublisher,
	store drepo.SnapshotStorage,
	metrics drepo.Metrics,
	backend string,
) (*SnapshotProcessor, error) {
	if metrics == nil {
		metrics = drepo.NopMetrics{}
	}
	if backend == "" {
		backend = BackendNone
	}
	switch {
	case backend == BackendKafka && pub == nil:
		return nil, fmt.Errorf("snapshot backend %s: publisher is nil", backend)
	case backend == BackendClickHouse && store == nil:
		return nil, fmt.Errorf("snapshot backend %s: storage is nil", backend)
	case backend != BackendNone && backend != BackendKafka && backend != BackendClickHouse:
		return nil, fmt.Errorf("unknown backend: %s", backend)
	}
	return &SnapshotProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
	}, nil
}

// Backend returns the configured backend name.
func (p *SnapshotProcessor) Backend() string { return p.backend }

// Enabled reports whether snapshots go anywhere.
func (p *SnapshotProcessor) Enabled() bool { return p.backend != BackendNone }

// Process routes one snapshot to the configured backend.
func (p *SnapshotProcessor) Process(ctx context.Context, s *models.PositionSnapshot) error {
	if s == nil {
		return fmt.Errorf("snapshot is nil")
	}
	if !p.Enabled() {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case BackendKafka:
		err = p.pub.Publish(ctx, s)
	case BackendClickHouse:
		err = p.store.Store(ctx, s)
	}

	if err != nil {
		p.metrics.RecordError("snapshot")
		return fmt.Errorf("process snapshot: %w", err)
	}

	p.metrics.RecordSnapshotSent(p.backend)
	p.metrics.RecordLatency("snapshot", time.Since(start).Seconds())

	return nil
}
