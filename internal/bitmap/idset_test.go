package bitmap

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDSet_SetSemantics(t *testing.T) {
	s := New()
	assert.True(t, s.IsEmpty())

	assert.True(t, s.CheckedAdd(7))
	assert.False(t, s.CheckedAdd(7))
	s.Add(7)
	s.Add(1 << 40)

	assert.Equal(t, uint64(2), s.Cardinality())
	assert.True(t, s.Contains(7))
	assert.True(t, s.Contains(1<<40))
	assert.False(t, s.Contains(8))

	s.Remove(7)
	assert.False(t, s.Contains(7))
	assert.Equal(t, []uint64{1 << 40}, s.ToArray())
}

func TestIDSet_OrAndClone(t *testing.T) {
	a := Of(1, 3, 5)
	b := Of(2, 3, 4)

	c := a.Clone()
	c.Or(b)

	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, c.ToArray())
	assert.Equal(t, []uint64{1, 3, 5}, a.ToArray(), "clone must not alias")
	assert.Greater(t, c.SizeInBytes(), uint64(0))
}

func TestIDSet_All(t *testing.T) {
	s := Of(9, 2, 5)

	got := slices.Collect(s.All())
	assert.Equal(t, []uint64{2, 5, 9}, got)

	var first []uint64
	for id := range s.All() {
		first = append(first, id)
		break
	}
	assert.Equal(t, []uint64{2}, first)
}

func TestPool(t *testing.T) {
	s := Get()
	require.True(t, s.IsEmpty())
	s.Add(42)
	Put(s)

	again := Get()
	assert.True(t, again.IsEmpty(), "pooled sets are returned cleared")
	Put(again)
	Put(nil)
}
