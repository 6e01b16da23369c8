package lsh

import "math"

// Stats describes the bucket distribution of an index.
type Stats struct {
	Records        int     `json:"records"`
	Bands          int     `json:"bands"`
	Rows           int     `json:"rows"`
	Buckets        int     `json:"buckets"`
	BucketsPerBand []int   `json:"buckets_per_band"`
	MinBucketSize  int     `json:"min_bucket_size"`
	MaxBucketSize  int     `json:"max_bucket_size"`
	AvgBucketSize  float64 `json:"avg_bucket_size"`
	MemoryUsage    int64   `json:"memory_usage"`
}

// Stats walks every shard and summarizes the buckets.
func (ix *Index) Stats() Stats {
	st := Stats{
		Records:        ix.Len(),
		Bands:          ix.params.Bands,
		Rows:           ix.params.Rows,
		BucketsPerBand: make([]int, ix.params.Bands),
		MinBucketSize:  math.MaxInt,
		MemoryUsage:    ix.MemoryUsage(),
	}

	total := 0
	for _, s := range ix.shards {
		s.mu.RLock()
		for bk, set := range s.buckets {
			size := int(set.Cardinality())
			st.Buckets++
			st.BucketsPerBand[bk.band]++
			st.MinBucketSize = min(st.MinBucketSize, size)
			st.MaxBucketSize = max(st.MaxBucketSize, size)
			total += size
		}
		s.mu.RUnlock()
	}

	if st.Buckets == 0 {
		st.MinBucketSize = 0
		return st
	}
	st.AvgBucketSize = float64(total) / float64(st.Buckets)

	return st
}
