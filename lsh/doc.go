// Package lsh implements a banded locality-sensitive hashing index over MinHash
// signatures.
//
// A signature of length k = b*r is split into b bands of r rows. Each band is
// hashed to a bucket key; two records become candidates when at least one of
// their bands lands in the same bucket. For records with Jaccard similarity s
// the candidate probability follows the s-curve
//
//	P(s) = 1 - (1 - s^r)^b
//
// whose 50% point, the crossover, sits near (1/b)^(1/r). OptimalParams and
// WeightedParams choose (b, r) for a target threshold.
//
// # Storage
//
// Buckets map (band, key) to a compressed 64-bit roaring bitmap of record ids.
// They are spread over lock shards so inserts into unrelated buckets proceed in
// parallel:
//
//	Index
//	├── members (roaring64, guarded by mu)
//	└── shards[N]
//	    └── buckets: (band, key) → roaring64
//
// # Consistency
//
// Insert reserves the id in the membership set before touching any bucket,
// so a rejected insert (duplicate id, memory budget) leaves the index
// unchanged. A query that races an insert into the same bucket may or may not
// observe the new id.
package lsh
