// Package prom exports neardup metrics to Prometheus.
package prom

import (
	"errors"
	"time"

	"github.com/hupe1980/neardup"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "neardup"

// Collector implements neardup.MetricsCollector with Prometheus metrics.
type Collector struct {
	opLatency  *prometheus.HistogramVec
	inserts    *prometheus.CounterVec
	queries    *prometheus.CounterVec
	candidates prometheus.Histogram
	duplicates prometheus.Counter
	ingested   prometheus.Counter
	skipped    prometheus.Counter
	ingests    prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics on reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of index operations",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"op", "status"}),
		inserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inserts_total",
			Help:      "Total insert attempts",
		}, []string{"status"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total query attempts",
		}, []string{"status"}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_candidates",
			Help:      "Number of candidates returned per query",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 64, 256, 1024},
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_ids_total",
			Help:      "Inserts rejected because the id was already present",
		}),
		ingested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_records_total",
			Help:      "Records accepted by ingest runs",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_skipped_total",
			Help:      "Records skipped by ingest runs",
		}),
		ingests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_runs_total",
			Help:      "Completed ingest runs",
		}),
	}

	for _, m := range []prometheus.Collector{
		c.opLatency, c.inserts, c.queries, c.candidates,
		c.duplicates, c.ingested, c.skipped, c.ingests,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordInsert implements neardup.MetricsCollector.
func (c *Collector) RecordInsert(d time.Duration, err error) {
	s := status(err)
	c.opLatency.WithLabelValues("insert", s).Observe(d.Seconds())
	c.inserts.WithLabelValues(s).Inc()
	if errors.Is(err, neardup.ErrDuplicateID) {
		c.duplicates.Inc()
	}
}

// RecordQuery implements neardup.MetricsCollector.
func (c *Collector) RecordQuery(candidates int, d time.Duration, err error) {
	s := status(err)
	c.opLatency.WithLabelValues("query", s).Observe(d.Seconds())
	c.queries.WithLabelValues(s).Inc()
	if err == nil {
		c.candidates.Observe(float64(candidates))
	}
}

// RecordIngest implements neardup.MetricsCollector.
func (c *Collector) RecordIngest(records, skipped int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("ingest", status(err)).Observe(d.Seconds())
	c.ingested.Add(float64(records))
	c.skipped.Add(float64(skipped))
	c.ingests.Inc()
}

var _ neardup.MetricsCollector = (*Collector)(nil)
