package shingle

import "slices"

// Set is a set of shingles.
type Set map[string]struct{}

// NewSet returns a set holding the given shingles.
func NewSet(shingles ...string) Set {
	s := make(Set, len(shingles))
	for _, sh := range shingles {
		s[sh] = struct{}{}
	}
	return s
}

// Add inserts a shingle.
func (s Set) Add(shingle string) {
	s[shingle] = struct{}{}
}

// Len returns the number of distinct shingles.
func (s Set) Len() int {
	return len(s)
}

// Contains reports whether the shingle is a member.
func (s Set) Contains(shingle string) bool {
	_, ok := s[shingle]
	return ok
}

// Each calls fn for every shingle until fn returns false. Order is unspecified.
func (s Set) Each(fn func(string) bool) {
	for sh := range s {
		if !fn(sh) {
			return
		}
	}
}

// Slice returns the shingles in ascending order.
func (s Set) Slice() []string {
	out := make([]string, 0, len(s))
	for sh := range s {
		out = append(out, sh)
	}
	slices.Sort(out)
	return out
}

// Jaccard returns the exact Jaccard similarity |a∩b| / |a∪b|.
// Two empty sets are identical and have similarity 1.
func Jaccard(a, b Set) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	inter := 0
	for sh := range a {
		if _, ok := b[sh]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
