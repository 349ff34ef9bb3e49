package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MBGate/internal/domain/models"
)

func TestNewSnapshotProcessor_Validation(t *testing.T) {
	_, err := NewSnapshotProcessor(nil, nil, nil, BackendKafka)
	assert.Error(t, err)
	_, err = NewSnapshotProcessor(nil, nil, nil, BackendClickHouse)
	assert.Error(t, err)
	_, err = NewSnapshotProcessor(nil, nil, nil, "s3")
	assert.Error(t, err)

	p, err := NewSnapshotProcessor(nil, nil, nil, "")
	require.NoError(t, err)
	assert.False(t, p.Enabled())
}

func TestSnapshotProcessor_RoutesToKafka(t *testing.T) {
	pub := &fakePublisher{}
	store := &fakeStorage{}
	m := newCountingMetrics()
	p, err := NewSnapshotProcessor(pub, store, m, BackendKafka)
	require.NoError(t, err)

	require.NoError(t, p.Process(context.Background(), &models.PositionSnapshot{AccountID: "a"}))
	assert.Len(t, pub.published(), 1)
	assert.Empty(t, store.stored)
	assert.Equal(t, 1, m.snapshots[BackendKafka])
}

func TestSnapshotProcessor_RoutesToClickHouse(t *testing.T) {
	store := &fakeStorage{}
	p, err := NewSnapshotProcessor(nil, store, nil, BackendClickHouse)
	require.NoError(t, err)

	require.NoError(t, p.Process(context.Background(), &models.PositionSnapshot{AccountID: "a"}))
	assert.Len(t, store.stored, 1)
}

func TestSnapshotProcessor_Errors(t *testing.T) {
	boom := errors.New("down")
	m := newCountingMetrics()
	p, err := NewSnapshotProcessor(&fakePublisher{err: boom}, nil, m, BackendKafka)
	require.NoError(t, err)

	assert.ErrorIs(t, p.Process(context.Background(), &models.PositionSnapshot{}), boom)
	assert.Equal(t, 1, m.errors["snapshot"])
	assert.Error(t, p.Process(context.Background(), nil))
}

func TestSnapshotProcessor_NoneIsNoop(t *testing.T) {
	p, err := NewSnapshotProcessor(nil, nil, nil, BackendNone)
	require.NoError(t, err)
	assert.NoError(t, p.Process(context.Background(), &models.PositionSnapshot{}))
}
