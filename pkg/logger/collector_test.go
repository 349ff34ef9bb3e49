package logger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu      sync.Mutex
	topic   string
	key     string
	batches [][]AggregatedLogEntry
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	p.key = string(key)
	p.batches = append(p.batches, value.([]AggregatedLogEntry))
	return nil
}

func (p *recordingPublisher) entries() []AggregatedLogEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []AggregatedLogEntry
	for _, b := range p.batches {
		out = append(out, b...)
	}
	return out
}

func TestLogCollector_DeduplicatesAndFlushesOnClose(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval: time.Hour,
		Topic:        "mbgate.logs",
		Source:       "mbgate",
		Publisher:    pub,
	})

	fields := map[string]interface{}{"op": "list_accounts"}
	c.AddLog("error", "upstream call failed", fields, "client.go:10")
	c.AddLog("error", "upstream call failed", fields, "client.go:10")
	c.AddLog("error", "other", nil, "client.go:20")
	assert.Equal(t, 2, c.Pending())

	c.Close()

	entries := pub.entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "mbgate.logs", pub.topic)
	assert.Equal(t, "mbgate", pub.key)
	counts := map[string]int{}
	for _, e := range entries {
		counts[e.Message] = e.Count
	}
	assert.Equal(t, 2, counts["upstream call failed"])
	assert.Equal(t, 1, counts["other"])
	assert.Equal(t, 0, c.Pending())
}

func TestLogCollector_ThresholdFlush(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 2,
		Publisher:      pub,
	})
	defer c.Close()

	c.AddLog("error", "a", nil, "x")
	c.AddLog("error", "b", nil, "x")

	assert.Eventually(t, func() bool { return len(pub.entries()) == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, c.Pending())
}

func TestLogger_ErrorFeedsCollector(t *testing.T) {
	pub := &recordingPublisher{}
	l, err := New(&Config{Level: "info", Output: "stderr"})
	require.NoError(t, err)
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, Publisher: pub})

	child := l.Component("test")
	child.Error("boom", String("op", "authorize"), Error(assert.AnError))
	child.Warn("not collected")

	l.RemoveCollector()

	entries := pub.entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].Message)
	assert.Equal(t, "authorize", entries[0].Fields["op"])
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud"})
	assert.Error(t, err)
}
