// Package minhash builds MinHash signatures: fixed-length sketches of shingle
// sets whose per-position collision probability equals the Jaccard similarity
// of the underlying sets.
//
// # Hash Family
//
// A Family holds k universal hash functions over the Mersenne prime
// P = 2^61 - 1:
//
//	hash_i(s) = (a_i * x(s) + b_i) mod P,   1 <= a_i < P, 0 <= b_i < P
//
// where x(s) is the 64-bit xxHash of the shingle reduced modulo P. The base
// hash is computed once per shingle and reused for all k permutations. The
// coefficients are drawn from a splitmix64 stream seeded by the caller, so the
// same (k, seed) always yields the same family, in any process. Signatures
// built with different families are not comparable.
//
// # Signatures
//
// Signature[i] is the minimum of hash_i over the set. Every value is < P; the
// signature of the empty set is all EmptyValue, a sentinel outside the hash
// range, so empty records never collide with non-empty ones.
//
//	fam, _ := minhash.NewFamily(128, 1)
//	sig := fam.Sign(set)
//
// SignBatch spreads signature construction over a bounded worker pool; the
// work is embarrassingly parallel since a Family is immutable.
package minhash
