package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MBGate/internal/domain/repository"
)

var _ repository.Metrics = (*Recorder)(nil)

func TestRecorder(t *testing.T) {
	r := NewWithRegisterer(prometheus.NewRegistry())

	r.RecordUpstreamCall("list_accounts", 200, 0.1)
	r.RecordUpstreamCall("list_accounts", 200, 0.2)
	r.RecordUpstreamCall("authorize", 401, 0.05)
	r.RecordError("transport error")
	r.RecordSnapshotSent("kafka")
	r.RecordCache("accounts", true)
	r.RecordCache("accounts", false)
	r.RecordLatency("get_positions", 0.3)

	assert.Equal(t, 2.0, counterValue(t, r.upstreamCalls.WithLabelValues("list_accounts", "200", "2xx")))
	assert.Equal(t, 1.0, counterValue(t, r.upstreamCalls.WithLabelValues("authorize", "401", "4xx")))
	assert.Equal(t, 1.0, counterValue(t, r.errorsTotal.WithLabelValues("transport error")))
	assert.Equal(t, 1.0, counterValue(t, r.snapshotsSent.WithLabelValues("kafka")))
	assert.Equal(t, 1.0, counterValue(t, r.cacheLookups.WithLabelValues("accounts", "hit")))
	assert.Equal(t, 1.0, counterValue(t, r.cacheLookups.WithLabelValues("accounts", "miss")))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(204))
	assert.Equal(t, "5xx", statusClass(503))
	assert.Equal(t, "other", statusClass(0))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
