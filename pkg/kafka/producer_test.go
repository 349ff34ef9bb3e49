package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducerPublish_EncodesJSON(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, "gzip")

	err := p.Publish(context.Background(), "snapshots", []byte("acc-1"), map[string]int{"n": 1})
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "snapshots", w.msgs[0].Topic)
	assert.Equal(t, []byte("acc-1"), w.msgs[0].Key)
	assert.JSONEq(t, `{"n":1}`, string(w.msgs[0].Value))
}

func TestProducerPublish_RawValues(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, "gzip")

	require.NoError(t, p.Publish(context.Background(), "t", nil, "plain"))
	require.NoError(t, p.Publish(context.Background(), "t", nil, []byte("bytes")))
	assert.Equal(t, "plain", string(w.msgs[0].Value))
	assert.Equal(t, "bytes", string(w.msgs[1].Value))
}

func TestProducerPublish_WriterError(t *testing.T) {
	boom := errors.New("broker down")
	p := NewProducerWithWriter(&fakeWriter{err: boom}, "gzip")

	err := p.Publish(context.Background(), "t", nil, "x")
	assert.ErrorIs(t, err, boom)
}

func TestProducerClose(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, NewProducerWithWriter(w, "none").Close())
	assert.True(t, w.closed)
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
}

func TestNewProducer_RejectsUnknownAcks(t *testing.T) {
	_, err := NewProducer(WithBrokers([]string{"localhost:9092"}), WithRequiredAcks(2))
	assert.ErrorContains(t, err, "required acks")
}

func TestProducerOptions_KeepDefaultsForNonPositive(t *testing.T) {
	cfg := defaultProducerConfig()
	for _, opt := range []ProducerOption{WithMaxAttempts(0), WithBatchSize(-1), WithBatchTimeout(0), WithBatchBytes(0)} {
		opt(cfg)
	}

	assert.Equal(t, defaultProducerConfig(), cfg)
}
