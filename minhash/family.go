package minhash

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"runtime"
	"slices"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/neardup/shingle"
)

const (
	// Prime is the Mersenne prime 2^61 - 1 all permutations are taken modulo.
	Prime uint64 = 1<<61 - 1

	// EmptyValue fills every position of the empty set's signature.
	EmptyValue uint64 = math.MaxUint64
)

var (
	// ErrInvalidK is returned when the number of hash functions is not positive.
	ErrInvalidK = errors.New("minhash: number of hash functions must be positive")

	// ErrLengthMismatch is returned when comparing signatures of different lengths.
	ErrLengthMismatch = errors.New("minhash: signature lengths do not match")

	// ErrFamilyMismatch is returned when combining sketches from different families.
	ErrFamilyMismatch = errors.New("minhash: hash families do not match")
)

// Family is an immutable, ordered set of k hash functions.
type Family struct {
	seed uint64
	a    []uint64
	b    []uint64
}

// NewFamily builds k hash functions from seed.
func NewFamily(k int, seed uint64) (*Family, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}

	f := &Family{
		seed: seed,
		a:    make([]uint64, k),
		b:    make([]uint64, k),
	}

	state := seed
	for i := range k {
		var v uint64
		state, v = splitmix64(state)
		f.a[i] = 1 + v%(Prime-1)
		state, v = splitmix64(state)
		f.b[i] = v % Prime
	}

	return f, nil
}

// K returns the number of hash functions.
func (f *Family) K() int { return len(f.a) }

// Seed returns the seed the family was built from.
func (f *Family) Seed() uint64 { return f.seed }

// Equal reports whether both families produce comparable signatures.
func (f *Family) Equal(other *Family) bool {
	if f == other {
		return true
	}
	if f == nil || other == nil {
		return false
	}
	return f.seed == other.seed && slices.Equal(f.a, other.a) && slices.Equal(f.b, other.b)
}

// Hash applies the i-th hash function to a shingle.
func (f *Family) Hash(i int, shingle string) uint64 {
	return mulAddMod(f.a[i], baseHash(xxhash.Sum64String(shingle)), f.b[i])
}

// Empty returns the signature of the empty set.
func (f *Family) Empty() Signature {
	sig := make(Signature, len(f.a))
	for i := range sig {
		sig[i] = EmptyValue
	}
	return sig
}

// Sign computes the signature of a shingle set in a single pass.
func (f *Family) Sign(set shingle.Set) Signature {
	sig := f.Empty()
	for sh := range set {
		f.update(sig, xxhash.Sum64String(sh))
	}
	return sig
}

// SignStrings computes the signature of the set formed by shingles.
// Repeated entries do not change the result.
func (f *Family) SignStrings(shingles []string) Signature {
	sig := f.Empty()
	for _, sh := range shingles {
		f.update(sig, xxhash.Sum64String(sh))
	}
	return sig
}

// SignBytes computes the signature of the set formed by shingles.
func (f *Family) SignBytes(shingles [][]byte) Signature {
	sig := f.Empty()
	for _, sh := range shingles {
		f.update(sig, xxhash.Sum64(sh))
	}
	return sig
}

// SignBatch signs every set using at most workers goroutines
// (GOMAXPROCS if workers <= 0). The result is index-aligned with sets.
func (f *Family) SignBatch(ctx context.Context, sets []shingle.Set, workers int) ([]Signature, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]Signature, len(sets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, set := range sets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = f.Sign(set)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// update folds one base hash into sig.
func (f *Family) update(sig Signature, raw uint64) {
	x := baseHash(raw)
	for i, a := range f.a {
		if h := mulAddMod(a, x, f.b[i]); h < sig[i] {
			sig[i] = h
		}
	}
}

// baseHash reduces a 64-bit hash into [0, Prime).
func baseHash(h uint64) uint64 {
	x := (h & Prime) + (h >> 61)
	if x >= Prime {
		x -= Prime
	}
	return x
}

// mulAddMod returns (a*x + b) mod Prime for a, x, b < Prime.
func mulAddMod(a, x, b uint64) uint64 {
	hi, lo := bits.Mul64(a, x)
	// 2^61 ≡ 1 (mod Prime): fold the 122-bit product into 61-bit limbs.
	r := (lo & Prime) + (lo>>61 | hi<<3) + b
	r = (r & Prime) + (r >> 61)
	if r >= Prime {
		r -= Prime
	}
	return r
}

// splitmix64 advances state and returns the next output.
func splitmix64(state uint64) (uint64, uint64) {
	state += 0x9e3779b97f4a7c15
	z := state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return state, z ^ (z >> 31)
}
