package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/hupe1980/neardup/shingle"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Word returns a random lowercase word of 1..maxLen letters.
func (r *RNG) Word(maxLen int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wordLocked(maxLen)
}

func (r *RNG) wordLocked(maxLen int) string {
	n := 1 + r.rand.Intn(maxLen)
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(alphabet[r.rand.Intn(len(alphabet))])
	}
	return b.String()
}

// Words returns n random words of at most maxLen letters.
func (r *RNG) Words(n, maxLen int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, n)
	for i := range out {
		out[i] = r.wordLocked(maxLen)
	}
	return out
}

// Sentence returns n random words joined by single spaces.
func (r *RNG) Sentence(n, maxLen int) string {
	return strings.Join(r.Words(n, maxLen), " ")
}

// Mutate returns a copy of words where each word is replaced by a fresh
// random word with probability fraction.
func (r *RNG) Mutate(words []string, fraction float64) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(words))
	for i, w := range words {
		if r.rand.Float64() < fraction {
			out[i] = r.wordLocked(max(len(w), 3)) + "_"
			continue
		}
		out[i] = w
	}
	return out
}

// Corpus returns n texts of the given word count. Every dupEvery-th text
// (dupEvery > 0) is a mutation of its predecessor with the given fraction of
// replaced words; the returned pairs list those (original, mutated) indexes.
func (r *RNG) Corpus(n, words int, dupEvery int, fraction float64) ([]string, [][2]int) {
	texts := make([]string, n)
	var pairs [][2]int
	var prev []string
	for i := range texts {
		var ws []string
		if dupEvery > 0 && i > 0 && i%dupEvery == 0 {
			ws = r.Mutate(prev, fraction)
			pairs = append(pairs, [2]int{i - 1, i})
		} else {
			ws = r.Words(words, 8)
		}
		texts[i] = strings.Join(ws, " ")
		prev = ws
	}
	return texts, pairs
}

// OverlappingSets returns two sets over a universe of n elements named
// prefix0..prefix(n-1) whose Jaccard similarity is round(s*n)/n.
func OverlappingSets(prefix string, n int, s float64) (shingle.Set, shingle.Set) {
	inter := int(s*float64(n) + 0.5)
	onlyA := (n - inter) / 2

	a, b := shingle.NewSet(), shingle.NewSet()
	for i := range n {
		e := fmt.Sprintf("%s%d", prefix, i)
		switch {
		case i < onlyA:
			a.Add(e)
		case i < onlyA+inter:
			a.Add(e)
			b.Add(e)
		default:
			b.Add(e)
		}
	}
	return a, b
}

// SimilarPairs returns every index pair (i < j) whose exact Jaccard
// similarity is at least threshold.
func SimilarPairs(sets []shingle.Set, threshold float64) [][2]int {
	var pairs [][2]int
	for i := range sets {
		for j := i + 1; j < len(sets); j++ {
			if shingle.Jaccard(sets[i], sets[j]) >= threshold {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// PairRecall returns the fraction of truth pairs for which found reports
// the second element as a candidate of the first, in either direction.
// found maps an index to its candidate indexes.
func PairRecall(truth [][2]int, found map[int][]int) float64 {
	if len(truth) == 0 {
		return 1.0
	}

	hits := 0
	for _, p := range truth {
		if contains(found[p[0]], p[1]) || contains(found[p[1]], p[0]) {
			hits++
		}
	}
	return float64(hits) / float64(len(truth))
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
