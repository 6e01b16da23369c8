// Package testutil provides testing utilities for neardup.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded random source, corpus generators with controlled
// overlap, and brute-force ground truth for candidate recall.
//
// # Random Text Generation
//
//	rng := testutil.NewRNG(seed)
//	words := rng.Words(20, 6)            // 20 random lowercase words
//	near := rng.Mutate(words, 0.1)       // replace ~10% of them
//
// # Controlled Similarity
//
//	a, b := testutil.OverlappingSets("e", 100, 0.5)  // Jaccard exactly 0.5
//
// # Ground Truth
//
//	pairs := testutil.SimilarPairs(sets, 0.5)
//	recall := testutil.PairRecall(pairs, found)
package testutil
