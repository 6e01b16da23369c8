package neardup

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// see the prom package for a ready-made collector.
type MetricsCollector interface {
	// RecordInsert is called after each insert operation.
	// duration is the total time taken, err is nil if successful.
	RecordInsert(duration time.Duration, err error)

	// RecordQuery is called after each query operation.
	// candidates is the number of ids returned.
	RecordQuery(candidates int, duration time.Duration, err error)

	// RecordIngest is called once per ingest run.
	// records is the number of accepted records, skipped the number of
	// duplicates dropped, err is nil if the run completed.
	RecordIngest(records, skipped int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(time.Duration, error)           {}
func (NoopMetricsCollector) RecordQuery(int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordIngest(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertCount      atomic.Int64
	InsertErrors     atomic.Int64
	InsertTotalNanos atomic.Int64
	QueryCount       atomic.Int64
	QueryErrors      atomic.Int64
	QueryTotalNanos  atomic.Int64
	CandidateCount   atomic.Int64
	IngestCount      atomic.Int64
	IngestErrors     atomic.Int64
	IngestRecords    atomic.Int64
	IngestSkipped    atomic.Int64
	IngestTotalNanos atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(candidates int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
		return
	}
	b.CandidateCount.Add(int64(candidates))
}

// RecordIngest implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIngest(records, skipped int, duration time.Duration, err error) {
	b.IngestCount.Add(1)
	if err != nil {
		b.IngestErrors.Add(1)
	}
	b.IngestRecords.Add(int64(records))
	b.IngestSkipped.Add(int64(skipped))
	b.IngestTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:    b.InsertCount.Load(),
		InsertErrors:   b.InsertErrors.Load(),
		InsertAvgNanos: avgNanos(b.InsertTotalNanos.Load(), b.InsertCount.Load()),
		QueryCount:     b.QueryCount.Load(),
		QueryErrors:    b.QueryErrors.Load(),
		QueryAvgNanos:  avgNanos(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
		CandidateCount: b.CandidateCount.Load(),
		IngestCount:    b.IngestCount.Load(),
		IngestErrors:   b.IngestErrors.Load(),
		IngestRecords:  b.IngestRecords.Load(),
		IngestSkipped:  b.IngestSkipped.Load(),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount    int64
	InsertErrors   int64
	InsertAvgNanos int64
	QueryCount     int64
	QueryErrors    int64
	QueryAvgNanos  int64
	CandidateCount int64
	IngestCount    int64
	IngestErrors   int64
	IngestRecords  int64
	IngestSkipped  int64
}
