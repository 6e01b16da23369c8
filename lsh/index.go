package lsh

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/neardup/internal/bitmap"
	"github.com/hupe1980/neardup/internal/hash"
	"github.com/hupe1980/neardup/internal/resource"
	"github.com/hupe1980/neardup/minhash"
)

// entryCost is the estimated footprint in bytes of one id in one bucket,
// including the amortized bucket header.
const entryCost = 16

var (
	// ErrDuplicateID is returned when inserting an id that is already indexed.
	ErrDuplicateID = errors.New("lsh: duplicate id")

	// ErrLengthMismatch is returned for signatures whose length is not k.
	ErrLengthMismatch = errors.New("lsh: signature length does not match index")

	// ErrInvalidOption is returned for out-of-range index options.
	ErrInvalidOption = errors.New("lsh: invalid option")

	// ErrMemoryLimitExceeded is returned when an insert would exceed the memory budget.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

type bucketKey struct {
	band int
	key  uint64
}

type shard struct {
	mu      sync.RWMutex
	buckets map[bucketKey]*bitmap.IDSet
}

// Index is a banded LSH index. It is safe for concurrent use.
type Index struct {
	k      int
	params Params

	// resetMu is held shared by Insert for its whole run and exclusively by
	// Reset, so a reset never lands between membership and bucket writes.
	resetMu sync.RWMutex

	mu       sync.RWMutex
	members  *bitmap.IDSet
	reserved int64

	shards []*shard
	rc     *resource.Controller
}

// New creates an empty index for signatures of length k.
func New(k int, p Params, optFns ...Option) (*Index, error) {
	if err := p.Validate(k); err != nil {
		return nil, err
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}

	if opts.shards <= 0 {
		return nil, fmt.Errorf("%w: shards=%d must be positive", ErrInvalidOption, opts.shards)
	}
	if opts.memoryLimit < 0 {
		return nil, fmt.Errorf("%w: memory limit %d must not be negative", ErrInvalidOption, opts.memoryLimit)
	}

	ix := &Index{
		k:       k,
		params:  p,
		members: bitmap.New(),
		shards:  make([]*shard, opts.shards),
		rc:      resource.NewController(resource.Config{MemoryLimitBytes: opts.memoryLimit}),
	}
	for i := range ix.shards {
		ix.shards[i] = &shard{buckets: make(map[bucketKey]*bitmap.IDSet)}
	}

	return ix, nil
}

// K returns the signature length the index accepts.
func (ix *Index) K() int { return ix.k }

// Params returns the banding parameters.
func (ix *Index) Params() Params { return ix.params }

// Insert adds id to one bucket per band of sig.
//
// The insert is atomic: on error nothing has been written.
func (ix *Index) Insert(id uint64, sig minhash.Signature) error {
	keys, err := ix.bandKeys(sig)
	if err != nil {
		return err
	}

	cost := int64(len(keys)) * entryCost

	ix.resetMu.RLock()
	defer ix.resetMu.RUnlock()

	ix.mu.Lock()
	if ix.members.Contains(id) {
		ix.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}
	if err := ix.rc.AcquireMemory(cost); err != nil {
		ix.mu.Unlock()
		return fmt.Errorf("lsh: insert %d: %w", id, err)
	}
	ix.members.Add(id)
	ix.reserved += cost
	ix.mu.Unlock()

	for band, key := range keys {
		bk := bucketKey{band: band, key: key}
		s := ix.shardFor(bk)

		s.mu.Lock()
		set, ok := s.buckets[bk]
		if !ok {
			set = bitmap.New()
			s.buckets[bk] = set
		}
		set.Add(id)
		s.mu.Unlock()
	}

	return nil
}

// Query returns the ids sharing at least one bucket with sig, ascending.
// The result is empty, not nil, when nothing matches.
func (ix *Index) Query(sig minhash.Signature) ([]uint64, error) {
	return ix.query(sig, nil)
}

// QueryExcluding is Query with id removed from the result.
func (ix *Index) QueryExcluding(id uint64, sig minhash.Signature) ([]uint64, error) {
	return ix.query(sig, &id)
}

func (ix *Index) query(sig minhash.Signature, exclude *uint64) ([]uint64, error) {
	keys, err := ix.bandKeys(sig)
	if err != nil {
		return nil, err
	}

	result := bitmap.Get()
	defer bitmap.Put(result)

	for band, key := range keys {
		bk := bucketKey{band: band, key: key}
		s := ix.shardFor(bk)

		s.mu.RLock()
		if set, ok := s.buckets[bk]; ok {
			result.Or(set)
		}
		s.mu.RUnlock()
	}

	if exclude != nil {
		result.Remove(*exclude)
	}

	ids := result.ToArray()
	if ids == nil {
		ids = []uint64{}
	}
	return ids, nil
}

// Contains reports whether id has been inserted.
func (ix *Index) Contains(id uint64) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.members.Contains(id)
}

// Len returns the number of inserted ids.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return int(ix.members.Cardinality())
}

// MemoryUsage returns the estimated bucket memory in bytes.
func (ix *Index) MemoryUsage() int64 {
	return ix.rc.MemoryUsage()
}

// Reset removes every id and bucket.
func (ix *Index) Reset() {
	ix.resetMu.Lock()
	defer ix.resetMu.Unlock()

	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, s := range ix.shards {
		s.mu.Lock()
	}
	for _, s := range ix.shards {
		clear(s.buckets)
		s.mu.Unlock()
	}

	ix.members.Clear()
	ix.rc.ReleaseMemory(ix.reserved)
	ix.reserved = 0
}

func (ix *Index) bandKeys(sig minhash.Signature) ([]uint64, error) {
	if len(sig) != ix.k {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(sig), ix.k)
	}

	keys := make([]uint64, ix.params.Bands)
	for j := range keys {
		keys[j] = hash.BandKey(sig.Band(j, ix.params.Rows))
	}
	return keys, nil
}

func (ix *Index) shardFor(bk bucketKey) *shard {
	return ix.shards[hash.ShardIndex(bk.band, bk.key, len(ix.shards))]
}
