// Package hash provides the fixed-width digests used to address LSH buckets.
//
// # Band Keys
//
// A band is r consecutive signature values. BandKey encodes them as r
// little-endian uint64 words and hashes the bytes with xxHash64:
//
//	key := hash.BandKey(sig[j*r : j*r+r])
//
// Two bands collide in the index exactly when their keys are equal. Distinct
// bands share a key only on a 64-bit xxHash collision.
//
// # Sharding
//
// ShardIndex spreads (band, key) pairs over N lock shards. It mixes the band
// number into the key so identical band contents in different bands land on
// unrelated shards.
package hash
