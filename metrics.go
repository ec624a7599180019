package rostercache

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordLoad is called after each load request.
	// duration is the total time taken, err is nil if successful.
	RecordLoad(duration time.Duration, err error)

	// RecordCacheHit is called when a load is served from fresh cache
	// without any network call.
	RecordCacheHit()

	// RecordFallback is called when a load degrades to cached data after
	// a failed or empty refresh.
	RecordFallback()

	// RecordIngest is called after each ingestion run. batches is the
	// number of batches applied, total the number of records announced by
	// the stream, err is nil if successful.
	RecordIngest(batches, total int, duration time.Duration, err error)

	// RecordSupplemental is called after each supplemental-detail fetch.
	RecordSupplemental(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(time.Duration, error)              {}
func (NoopMetricsCollector) RecordCacheHit()                              {}
func (NoopMetricsCollector) RecordFallback()                              {}
func (NoopMetricsCollector) RecordIngest(int, int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordSupplemental(time.Duration, error)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount          atomic.Int64
	LoadErrors         atomic.Int64
	LoadTotalNanos     atomic.Int64
	CacheHits          atomic.Int64
	Fallbacks          atomic.Int64
	IngestCount        atomic.Int64
	IngestErrors       atomic.Int64
	IngestBatches      atomic.Int64
	IngestRecords      atomic.Int64
	SupplementalCount  atomic.Int64
	SupplementalErrors atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// RecordCacheHit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheHit() {
	b.CacheHits.Add(1)
}

// RecordFallback implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFallback() {
	b.Fallbacks.Add(1)
}

// RecordIngest implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIngest(batches, total int, duration time.Duration, err error) {
	b.IngestCount.Add(1)
	b.IngestBatches.Add(int64(batches))
	b.IngestRecords.Add(int64(total))
	if err != nil {
		b.IngestErrors.Add(1)
	}
}

// RecordSupplemental implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSupplemental(duration time.Duration, err error) {
	b.SupplementalCount.Add(1)
	if err != nil {
		b.SupplementalErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:          b.LoadCount.Load(),
		LoadErrors:         b.LoadErrors.Load(),
		LoadAvgNanos:       b.getAvgLoadNanos(),
		CacheHits:          b.CacheHits.Load(),
		Fallbacks:          b.Fallbacks.Load(),
		IngestCount:        b.IngestCount.Load(),
		IngestErrors:       b.IngestErrors.Load(),
		IngestBatches:      b.IngestBatches.Load(),
		IngestRecords:      b.IngestRecords.Load(),
		SupplementalCount:  b.SupplementalCount.Load(),
		SupplementalErrors: b.SupplementalErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgLoadNanos() int64 {
	count := b.LoadCount.Load()
	if count == 0 {
		return 0
	}
	return b.LoadTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount          int64
	LoadErrors         int64
	LoadAvgNanos       int64
	CacheHits          int64
	Fallbacks          int64
	IngestCount        int64
	IngestErrors       int64
	IngestBatches      int64
	IngestRecords      int64
	SupplementalCount  int64
	SupplementalErrors int64
}
