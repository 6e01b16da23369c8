package bitmap

import (
	"iter"
	"sync"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// IDSet is a set of uint64 record identifiers.
type IDSet struct {
	rb *roaring64.Bitmap
}

// setPool recycles scratch sets used to union query results.
var setPool = sync.Pool{
	New: func() any {
		return &IDSet{rb: roaring64.New()}
	},
}

// New creates a new empty set.
func New() *IDSet {
	return &IDSet{rb: roaring64.New()}
}

// Of creates a set holding the given identifiers.
func Of(ids ...uint64) *IDSet {
	return &IDSet{rb: roaring64.BitmapOf(ids...)}
}

// Get returns an empty scratch set from the pool. Call Put when done.
func Get() *IDSet {
	s := setPool.Get().(*IDSet)
	s.rb.Clear()
	return s
}

// Put returns a scratch set to the pool.
func Put(s *IDSet) {
	if s == nil {
		return
	}
	s.rb.Clear()
	setPool.Put(s)
}

// Add adds id to the set.
func (s *IDSet) Add(id uint64) {
	s.rb.Add(id)
}

// CheckedAdd adds id and reports whether it was newly added.
func (s *IDSet) CheckedAdd(id uint64) bool {
	return s.rb.CheckedAdd(id)
}

// Remove removes id from the set.
func (s *IDSet) Remove(id uint64) {
	s.rb.Remove(id)
}

// Contains reports whether id is in the set.
func (s *IDSet) Contains(id uint64) bool {
	return s.rb.Contains(id)
}

// Cardinality returns the number of identifiers in the set.
func (s *IDSet) Cardinality() uint64 {
	return s.rb.GetCardinality()
}

// IsEmpty reports whether the set has no members.
func (s *IDSet) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Or merges other into s.
func (s *IDSet) Or(other *IDSet) {
	s.rb.Or(other.rb)
}

// Clone returns a deep copy of the set.
func (s *IDSet) Clone() *IDSet {
	return &IDSet{rb: s.rb.Clone()}
}

// Clear removes all members.
func (s *IDSet) Clear() {
	s.rb.Clear()
}

// ToArray returns the members in ascending order.
func (s *IDSet) ToArray() []uint64 {
	return s.rb.ToArray()
}

// All iterates the members in ascending order.
func (s *IDSet) All() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// SizeInBytes returns the serialized size of the set, an estimate of its footprint.
func (s *IDSet) SizeInBytes() uint64 {
	return s.rb.GetSizeInBytes()
}
