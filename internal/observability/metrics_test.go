package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/customers", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/customers", "GET", 200, 30*time.Millisecond)
	m.RecordRequest("/api/auth/login", "POST", 401, time.Millisecond)
	m.RecordError("/api/auth/login", "POST", "UNAUTHORIZED")
	m.RecordCache(true)
	m.RecordCache(false)
	m.RecordCache(false)

	snap := m.Snapshot()

	require.Len(t, snap.Requests, 2)
	assert.Equal(t, "/api/auth/login|POST|401", snap.Requests[0].Key)
	assert.Equal(t, int64(2), snap.Requests[1].Count)
	assert.InDelta(t, 20.0, snap.Requests[1].AvgLatency, 0.001)
	assert.Equal(t, int64(1), snap.Errors["/api/auth/login|POST|UNAUTHORIZED"])
	assert.Equal(t, int64(1), snap.CacheHits)
	assert.Equal(t, int64(2), snap.CacheMisses)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordError("/", "GET", "X")
	m.RecordCache(true)
	assert.Empty(t, m.Snapshot().Requests)
}
