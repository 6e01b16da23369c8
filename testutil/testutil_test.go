package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/neardup/shingle"
)

func TestRNGDeterministic(t *testing.T) {
	a, b := NewRNG(4711), NewRNG(4711)
	assert.Equal(t, a.Words(10, 6), b.Words(10, 6))
	assert.Equal(t, int64(4711), a.Seed())

	first := a.Sentence(5, 4)
	a.Reset()
	a.Words(10, 6)
	b.Reset()
	b.Words(10, 6)
	assert.Equal(t, a.Sentence(5, 4), b.Sentence(5, 4))
	assert.NotEmpty(t, first)
}

func TestWords(t *testing.T) {
	rng := NewRNG(1)
	for _, w := range rng.Words(100, 5) {
		assert.GreaterOrEqual(t, len(w), 1)
		assert.LessOrEqual(t, len(w), 5)
		assert.Equal(t, strings.ToLower(w), w)
	}
}

func TestMutate(t *testing.T) {
	rng := NewRNG(2)
	words := rng.Words(50, 6)

	assert.Equal(t, words, rng.Mutate(words, 0))

	all := rng.Mutate(words, 1)
	require.Len(t, all, len(words))
	for i := range words {
		assert.NotEqual(t, words[i], all[i])
	}
}

func TestCorpus(t *testing.T) {
	rng := NewRNG(3)
	texts, pairs := rng.Corpus(20, 12, 5, 0.1)

	assert.Len(t, texts, 20)
	assert.Equal(t, [][2]int{{4, 5}, {9, 10}, {14, 15}}, pairs)
}

func TestOverlappingSets(t *testing.T) {
	for _, s := range []float64{0, 0.2, 0.5, 0.8, 1} {
		a, b := OverlappingSets("e", 100, s)
		assert.InDelta(t, s, shingle.Jaccard(a, b), 1e-9)
	}
}

func TestSimilarPairsAndRecall(t *testing.T) {
	a, b := OverlappingSets("e", 10, 0.8)
	c := shingle.NewSet("x", "y")
	sets := []shingle.Set{a, b, c}

	truth := SimilarPairs(sets, 0.5)
	assert.Equal(t, [][2]int{{0, 1}}, truth)

	assert.Equal(t, 1.0, PairRecall(truth, map[int][]int{1: {0}}))
	assert.Equal(t, 0.0, PairRecall(truth, map[int][]int{0: {2}}))
	assert.Equal(t, 1.0, PairRecall(nil, nil))
}
