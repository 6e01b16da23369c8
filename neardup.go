package neardup

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/neardup/lsh"
	"github.com/hupe1980/neardup/minhash"
	"github.com/hupe1980/neardup/shingle"
)

// Index detects near-duplicate texts. It owns the shingle extractor, the hash
// family and the LSH band index. It is safe for concurrent use.
type Index struct {
	extractor *shingle.Extractor
	family    *minhash.Family
	lsh       *lsh.Index
	threshold float64

	retain bool
	// resetMu orders Reset against in-flight inserts; inserts share it.
	resetMu sync.RWMutex
	sigMu   sync.RWMutex
	sigs    map[uint64]minhash.Signature

	logger  *Logger
	metrics MetricsCollector
	closed  atomic.Bool
}

// Match is a candidate re-scored by estimated Jaccard similarity.
type Match struct {
	ID         uint64  `json:"id"`
	Similarity float64 `json:"similarity"`
}

// Stats summarizes an index.
type Stats struct {
	lsh.Stats
	K                  int     `json:"k"`
	Threshold          float64 `json:"threshold"`
	Crossover          float64 `json:"crossover"`
	RetainedSignatures int     `json:"retained_signatures"`
}

// New creates an empty index. All configuration errors are reported here as
// *ConfigError; they never surface from later operations.
func New(optFns ...Option) (*Index, error) {
	o := applyOptions(optFns)

	var shingleOpts []shingle.Option
	shingleOpts = append(shingleOpts, shingle.WithWidth(o.shingleWidth), shingle.WithMode(o.shingleMode))
	if o.caseFolding {
		shingleOpts = append(shingleOpts, shingle.WithCaseFolding())
	}
	if o.normalization {
		shingleOpts = append(shingleOpts, shingle.WithNormalization())
	}
	if o.symbolStripping {
		shingleOpts = append(shingleOpts, shingle.WithSymbolStripping())
	}

	extractor, err := shingle.New(shingleOpts...)
	if err != nil {
		if errors.Is(err, shingle.ErrInvalidMode) {
			return nil, newConfigError("shingle_mode", o.shingleMode, err)
		}
		return nil, newConfigError("shingle_width", o.shingleWidth, err)
	}

	family, err := BuildFamily(o.numPermutations, o.seed)
	if err != nil {
		return nil, err
	}

	if !(o.threshold > 0 && o.threshold < 1) {
		return nil, newConfigError("threshold", o.threshold, nil)
	}

	params, err := resolveParams(o)
	if err != nil {
		return nil, err
	}

	index, err := lsh.New(o.numPermutations, params,
		lsh.WithShards(o.shards),
		lsh.WithMemoryLimit(o.memoryLimit),
	)
	if err != nil {
		if o.shards <= 0 {
			return nil, newConfigError("shards", o.shards, err)
		}
		return nil, newConfigError("memory_limit", o.memoryLimit, err)
	}

	ix := &Index{
		extractor: extractor,
		family:    family,
		lsh:       index,
		threshold: o.threshold,
		retain:    o.retainSignatures,
		logger:    o.logger,
		metrics:   o.metricsCollector,
	}
	if ix.retain {
		ix.sigs = make(map[uint64]minhash.Signature)
	}

	ix.logger.LogConfig(context.Background(), o.numPermutations, o.threshold, params)

	return ix, nil
}

func resolveParams(o options) (lsh.Params, error) {
	switch {
	case o.params != nil:
		if err := o.params.Validate(o.numPermutations); err != nil {
			return lsh.Params{}, newConfigError("bands", *o.params, err)
		}
		return *o.params, nil
	case o.weighted:
		p, err := lsh.WeightedParams(o.numPermutations, o.threshold, o.fpWeight, o.fnWeight)
		if err != nil {
			return lsh.Params{}, newConfigError("weights", [2]float64{o.fpWeight, o.fnWeight}, err)
		}
		return p, nil
	default:
		p, err := lsh.OptimalParams(o.numPermutations, o.threshold, o.tolerance)
		if err != nil {
			if !(o.tolerance >= 0) {
				return lsh.Params{}, newConfigError("tolerance", o.tolerance, err)
			}
			return lsh.Params{}, newConfigError("threshold", o.threshold, err)
		}
		return p, nil
	}
}

// BuildFamily creates the hash family for signatures of length k.
func BuildFamily(k int, seed uint64) (*minhash.Family, error) {
	family, err := minhash.NewFamily(k, seed)
	if err != nil {
		return nil, newConfigError("num_permutations", k, err)
	}
	return family, nil
}

// Family returns the hash family signatures are built with.
func (ix *Index) Family() *minhash.Family { return ix.family }

// Extractor returns the shingle extractor.
func (ix *Index) Extractor() *shingle.Extractor { return ix.extractor }

// Params returns the band configuration.
func (ix *Index) Params() lsh.Params { return ix.lsh.Params() }

// K returns the signature length.
func (ix *Index) K() int { return ix.family.K() }

// Signature returns the MinHash signature of text.
func (ix *Index) Signature(text string) minhash.Signature {
	return ix.family.Sign(ix.extractor.Extract(text))
}

// SignatureBatch signs texts in parallel; the result is index-aligned.
func (ix *Index) SignatureBatch(ctx context.Context, texts []string, workers int) ([]minhash.Signature, error) {
	sets := make([]shingle.Set, len(texts))
	for i, text := range texts {
		sets[i] = ix.extractor.Extract(text)
	}
	return ix.family.SignBatch(ctx, sets, workers)
}

// Insert indexes text under id.
func (ix *Index) Insert(id uint64, text string) error {
	return ix.InsertSignature(id, ix.Signature(text))
}

// InsertSignature indexes a precomputed signature under id.
// Inserting an id twice fails with ErrDuplicateID and leaves the index unchanged.
func (ix *Index) InsertSignature(id uint64, sig minhash.Signature) (err error) {
	start := time.Now()
	defer func() {
		ix.metrics.RecordInsert(time.Since(start), err)
		ix.logger.LogInsert(context.Background(), id, err)
	}()

	if ix.closed.Load() {
		return ErrClosed
	}

	ix.resetMu.RLock()
	defer ix.resetMu.RUnlock()

	if err := ix.lsh.Insert(id, sig); err != nil {
		return translateError(err)
	}

	if ix.retain {
		ix.sigMu.Lock()
		ix.sigs[id] = sig.Clone()
		ix.sigMu.Unlock()
	}

	return nil
}

// Query returns the ids of indexed records likely similar to text, ascending.
func (ix *Index) Query(text string) ([]uint64, error) {
	return ix.QuerySignature(ix.Signature(text))
}

// QuerySignature returns the ids sharing at least one band with sig, ascending.
func (ix *Index) QuerySignature(sig minhash.Signature) ([]uint64, error) {
	return ix.query(sig, nil)
}

// QueryID returns the candidates of an indexed record, excluding itself.
// It requires WithRetainSignatures.
func (ix *Index) QueryID(id uint64) ([]uint64, error) {
	sig, err := ix.retained(id)
	if err != nil {
		return nil, err
	}
	return ix.query(sig, &id)
}

// QueryThreshold returns the candidates of text whose estimated Jaccard
// similarity is at least minSimilarity, most similar first.
// It requires WithRetainSignatures.
func (ix *Index) QueryThreshold(text string, minSimilarity float64) ([]Match, error) {
	if !ix.retain {
		return nil, ErrSignaturesNotRetained
	}

	sig := ix.Signature(text)
	ids, err := ix.query(sig, nil)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(ids))

	ix.sigMu.RLock()
	for _, id := range ids {
		other, ok := ix.sigs[id]
		if !ok {
			continue
		}
		sim, err := sig.Similarity(other)
		if err != nil {
			ix.sigMu.RUnlock()
			return nil, translateError(err)
		}
		if sim >= minSimilarity {
			matches = append(matches, Match{ID: id, Similarity: sim})
		}
	}
	ix.sigMu.RUnlock()

	slices.SortFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(b.Similarity, a.Similarity); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return matches, nil
}

func (ix *Index) query(sig minhash.Signature, exclude *uint64) (ids []uint64, err error) {
	start := time.Now()
	defer func() {
		ix.metrics.RecordQuery(len(ids), time.Since(start), err)
		ix.logger.LogQuery(context.Background(), len(ids), err)
	}()

	if ix.closed.Load() {
		return nil, ErrClosed
	}

	if exclude != nil {
		ids, err = ix.lsh.QueryExcluding(*exclude, sig)
	} else {
		ids, err = ix.lsh.Query(sig)
	}
	if err != nil {
		return nil, translateError(err)
	}
	return ids, nil
}

func (ix *Index) retained(id uint64) (minhash.Signature, error) {
	if !ix.retain {
		return nil, ErrSignaturesNotRetained
	}

	ix.sigMu.RLock()
	sig, ok := ix.sigs[id]
	ix.sigMu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return sig, nil
}

// Contains reports whether id has been inserted.
func (ix *Index) Contains(id uint64) bool { return ix.lsh.Contains(id) }

// Len returns the number of inserted records.
func (ix *Index) Len() int { return ix.lsh.Len() }

// Stats returns bucket statistics and the resolved configuration.
func (ix *Index) Stats() Stats {
	p := ix.lsh.Params()

	ix.sigMu.RLock()
	retained := len(ix.sigs)
	ix.sigMu.RUnlock()

	return Stats{
		Stats:              ix.lsh.Stats(),
		K:                  ix.family.K(),
		Threshold:          ix.threshold,
		Crossover:          p.Crossover(),
		RetainedSignatures: retained,
	}
}

// Reset removes every record while keeping the configuration.
func (ix *Index) Reset() {
	ix.resetMu.Lock()
	defer ix.resetMu.Unlock()

	ix.sigMu.Lock()
	defer ix.sigMu.Unlock()

	ix.lsh.Reset()
	if ix.retain {
		clear(ix.sigs)
	}
}

// Close releases the index. Subsequent inserts and queries return ErrClosed.
func (ix *Index) Close() error {
	if ix == nil || !ix.closed.CompareAndSwap(false, true) {
		return nil
	}
	ix.Reset()
	return nil
}
