// Package bitmap provides the identifier sets backing LSH buckets.
//
// IDSet wraps a 64-bit Roaring bitmap. Record identifiers are caller-assigned
// (line numbers, tweet ids) and therefore sparse and potentially large, which
// is the regime Roaring compresses well. Set semantics are inherent: adding an
// identifier twice leaves a single member.
//
// IDSet is not safe for concurrent mutation; callers guard it with the lock
// of the shard that owns it.
package bitmap
