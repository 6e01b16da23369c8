package minhash

import (
	"fmt"
	"slices"
)

// Signature is a MinHash sketch: one minimum per hash function.
type Signature []uint64

// Len returns the number of positions (k).
func (s Signature) Len() int { return len(s) }

// IsEmpty reports whether s is the signature of the empty set.
func (s Signature) IsEmpty() bool {
	for _, v := range s {
		if v != EmptyValue {
			return false
		}
	}
	return true
}

// Clone returns a copy of s.
func (s Signature) Clone() Signature {
	return slices.Clone(s)
}

// Equal reports whether both signatures are identical.
func (s Signature) Equal(other Signature) bool {
	return slices.Equal(s, other)
}

// Similarity returns the fraction of positions where both signatures agree,
// an unbiased estimate of the Jaccard similarity of the underlying sets.
func (s Signature) Similarity(other Signature) (float64, error) {
	if len(s) != len(other) {
		return 0, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(s), len(other))
	}
	if len(s) == 0 {
		return 0, nil
	}

	matches := 0
	for i, v := range s {
		if v == other[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(s)), nil
}

// Band returns the j-th band of r consecutive positions.
// The returned slice aliases s.
func (s Signature) Band(j, r int) []uint64 {
	return s[j*r : j*r+r]
}
