package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	requestsTotal atomic.Uint64
	upstreamCalls atomic.Uint64
	cacheHits     atomic.Uint64
	cacheMisses   atomic.Uint64
	errorsTotal   atomic.Uint64

	// Latency tracking
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordRequest records one handled request with its latency.
func (m *Metrics) RecordRequest(latencyNs int64) {
	m.requestsTotal.Add(1)
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
}

// RecordUpstreamCall records one live call to the exchange API.
func (m *Metrics) RecordUpstreamCall() {
	m.upstreamCalls.Add(1)
}

// RecordCacheHit records a snapshot served from cache.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordCacheMiss records an expired or absent snapshot.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Add(1)
}

// RecordError records an error occurrence.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	RequestsTotal uint64    `json:"requests_total"`
	UpstreamCalls uint64    `json:"upstream_calls"`
	CacheHits     uint64    `json:"cache_hits"`
	CacheMisses   uint64    `json:"cache_misses"`
	ErrorsTotal   uint64    `json:"errors_total"`
	AvgLatencyNs  int64     `json:"avg_latency_ns"`
	Timestamp     time.Time `json:"timestamp"`
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.latencyCount.Load()
	if count > 0 {
		avgLatency = m.latencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		RequestsTotal: m.requestsTotal.Load(),
		UpstreamCalls: m.upstreamCalls.Load(),
		CacheHits:     m.cacheHits.Load(),
		CacheMisses:   m.cacheMisses.Load(),
		ErrorsTotal:   m.errorsTotal.Load(),
		AvgLatencyNs:  avgLatency,
		Timestamp:     time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.requestsTotal.Store(0)
	m.upstreamCalls.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.errorsTotal.Store(0)
	m.latencySumNs.Store(0)
	m.latencyCount.Store(0)
}
