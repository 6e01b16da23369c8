// Package neardup finds near-duplicate texts with MinHash signatures and a
// banded locality-sensitive hashing index.
//
// Instead of comparing every pair of records, each text is reduced to a
// shingle set, the set to a fixed-length MinHash signature, and the signature
// split into bands that are hashed into buckets. Records sharing a bucket in
// any band are candidates; the probability of that rises steeply around the
// configured Jaccard threshold.
//
// # Quick Start
//
//	ix, _ := neardup.New(
//	    neardup.WithNumPermutations(128),
//	    neardup.WithThreshold(0.5),
//	)
//	_ = ix.Insert(1, "The quick brown fox jumps over the lazy dog")
//	ids, _ := ix.Query("The quick brown fox jumped over the lazy dog")
//
// # Ingest
//
// Ingest drives a whole corpus through the index and reports the candidates of
// every record:
//
//	report, _ := ix.Ingest(ctx, source.Lines(r), neardup.WithOrder(neardup.OrderStreaming))
//	for _, group := range report.Groups() {
//	    fmt.Println(group)
//	}
//
// OrderFullPass (the default) inserts everything first and then queries each
// record against the complete index, excluding itself. OrderStreaming queries
// before inserting, so every record only sees its predecessors.
//
// # Determinism
//
// Signatures depend only on the text, the shingle configuration, k and the
// seed. Two indexes built with equal options produce identical signatures and
// candidate sets, in any process.
//
// # Parameter Selection
//
// With k permutations split into b bands of r rows, two records of Jaccard
// similarity s become candidates with probability 1 - (1 - s^r)^b. New picks
// the divisor pair of k whose 50% point lies closest to the threshold, or, with
// WithWeights, the pair minimizing weighted false-positive and false-negative
// areas. WithBands overrides the search.
//
// Candidates are probabilistic: similar records may be missed and dissimilar
// ones reported. Use WithRetainSignatures and QueryThreshold to re-score
// candidates by estimated similarity.
package neardup
