package minhash

import (
	"github.com/cespare/xxhash/v2"
)

// MinHash accumulates a signature incrementally, one element at a time.
//
// It is not safe for concurrent use.
type MinHash struct {
	family *Family
	sig    Signature
}

// NewMinHash returns an empty sketch bound to the family.
func (f *Family) NewMinHash() *MinHash {
	return &MinHash{family: f, sig: f.Empty()}
}

// Family returns the hash family the sketch is bound to.
func (m *MinHash) Family() *Family { return m.family }

// Update adds one element.
func (m *MinHash) Update(b []byte) {
	m.family.update(m.sig, xxhash.Sum64(b))
}

// UpdateString adds one element.
func (m *MinHash) UpdateString(s string) {
	m.family.update(m.sig, xxhash.Sum64String(s))
}

// Merge folds other into m; the result is the sketch of the union of both sets.
func (m *MinHash) Merge(other *MinHash) error {
	if !m.family.Equal(other.family) {
		return ErrFamilyMismatch
	}
	for i, v := range other.sig {
		if v < m.sig[i] {
			m.sig[i] = v
		}
	}
	return nil
}

// Jaccard estimates the Jaccard similarity with other.
func (m *MinHash) Jaccard(other *MinHash) (float64, error) {
	if !m.family.Equal(other.family) {
		return 0, ErrFamilyMismatch
	}
	return m.sig.Similarity(other.sig)
}

// Count estimates the number of distinct elements added.
func (m *MinHash) Count() float64 {
	if m.sig.IsEmpty() {
		return 0
	}
	var sum float64
	for _, v := range m.sig {
		sum += float64(v) / float64(Prime)
	}
	return float64(len(m.sig))/sum - 1
}

// Signature returns a copy of the current signature.
func (m *MinHash) Signature() Signature {
	return m.sig.Clone()
}

// Reset empties the sketch.
func (m *MinHash) Reset() {
	for i := range m.sig {
		m.sig[i] = EmptyValue
	}
}
