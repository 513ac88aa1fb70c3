package infra

import (
	"sync"
	"testing"
)

func TestMetrics(t *testing.T) {
	m := &Metrics{}

	m.RecordRequest(1000)
	m.RecordRequest(3000)
	m.RecordUpstreamCall()
	m.RecordCacheHit()
	m.RecordCacheHit()
	m.RecordCacheMiss()
	m.RecordError()

	snap := m.Snapshot()

	if snap.RequestsTotal != 2 {
		t.Errorf("RequestsTotal = %d, want 2", snap.RequestsTotal)
	}
	if snap.UpstreamCalls != 1 {
		t.Errorf("UpstreamCalls = %d, want 1", snap.UpstreamCalls)
	}
	if snap.CacheHits != 2 || snap.CacheMisses != 1 {
		t.Errorf("Cache = %d hits / %d misses, want 2/1", snap.CacheHits, snap.CacheMisses)
	}
	if snap.ErrorsTotal != 1 {
		t.Errorf("ErrorsTotal = %d, want 1", snap.ErrorsTotal)
	}
	if snap.AvgLatencyNs != 2000 {
		t.Errorf("AvgLatencyNs = %d, want 2000", snap.AvgLatencyNs)
	}

	m.Reset()
	if snap := m.Snapshot(); snap.RequestsTotal != 0 || snap.AvgLatencyNs != 0 {
		t.Errorf("Reset should zero counters, got %+v", snap)
	}
}

func TestMetricsConcurrent(t *testing.T) {
	m := &Metrics{}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordRequest(100)
				m.RecordUpstreamCall()
			}
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	if snap.RequestsTotal != 1000 {
		t.Errorf("RequestsTotal = %d, want 1000", snap.RequestsTotal)
	}
	if snap.UpstreamCalls != 1000 {
		t.Errorf("UpstreamCalls = %d, want 1000", snap.UpstreamCalls)
	}
}
