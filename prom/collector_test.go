package prom

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/neardup"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.RecordInsert(time.Millisecond, nil)
	c.RecordInsert(time.Millisecond, fmt.Errorf("insert 3: %w", neardup.ErrDuplicateID))
	c.RecordInsert(time.Millisecond, errors.New("boom"))
	c.RecordQuery(3, time.Microsecond, nil)
	c.RecordQuery(0, time.Microsecond, errors.New("closed"))
	c.RecordIngest(10, 2, time.Second, nil)

	assert.InDelta(t, 1, testutil.ToFloat64(c.inserts.WithLabelValues("success")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.inserts.WithLabelValues("error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.duplicates), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.queries.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.queries.WithLabelValues("error")), 0)
	assert.InDelta(t, 10, testutil.ToFloat64(c.ingested), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.skipped), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.ingests), 0)

	expected := `
# HELP neardup_query_candidates Number of candidates returned per query
# TYPE neardup_query_candidates histogram
neardup_query_candidates_bucket{le="0"} 0
neardup_query_candidates_bucket{le="1"} 0
neardup_query_candidates_bucket{le="2"} 0
neardup_query_candidates_bucket{le="4"} 1
neardup_query_candidates_bucket{le="8"} 1
neardup_query_candidates_bucket{le="16"} 1
neardup_query_candidates_bucket{le="64"} 1
neardup_query_candidates_bucket{le="256"} 1
neardup_query_candidates_bucket{le="1024"} 1
neardup_query_candidates_bucket{le="+Inf"} 1
neardup_query_candidates_sum 3
neardup_query_candidates_count 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "neardup_query_candidates"))

	n, err := testutil.GatherAndCount(reg, "neardup_operation_latency_seconds")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestCollector_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	require.Error(t, err)
}

func TestCollector_WithIndex(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	ix, err := neardup.New(neardup.WithNumPermutations(16), neardup.WithMetricsCollector(c))
	require.NoError(t, err)

	require.NoError(t, ix.Insert(1, "the quick brown fox"))
	require.ErrorIs(t, ix.Insert(1, "the quick brown fox"), neardup.ErrDuplicateID)

	ids, err := ix.Query("the quick brown fox")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, ids)

	assert.InDelta(t, 1, testutil.ToFloat64(c.duplicates), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.queries.WithLabelValues("success")), 0)
}
