package shingle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	s := NewSet("b", "a", "b")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("c"))

	s.Add("c")
	assert.Equal(t, []string{"a", "b", "c"}, s.Slice())

	visited := 0
	s.Each(func(string) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b Set
		want float64
	}{
		{"identical", NewSet("a", "b"), NewSet("a", "b"), 1},
		{"disjoint", NewSet("a"), NewSet("b"), 0},
		{"half", NewSet("a", "b", "c"), NewSet("b", "c", "d"), 0.5},
		{"subset", NewSet("a"), NewSet("a", "b", "c", "d"), 0.25},
		{"both empty", NewSet(), NewSet(), 1},
		{"one empty", NewSet(), NewSet("a"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Jaccard(tt.a, tt.b), 1e-12)
			assert.InDelta(t, tt.want, Jaccard(tt.b, tt.a), 1e-12)
		})
	}
}

func TestJaccard_Records(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	a := e.Extract("the quick brown fox")
	b := e.Extract("the quick brown fox jumps")
	c := e.Extract("completely unrelated sentence here")

	require.Equal(t, 17, a.Len())
	require.Equal(t, 23, b.Len())
	assert.InDelta(t, 17.0/23.0, Jaccard(a, b), 1e-12)
	assert.Zero(t, Jaccard(a, c))
}
