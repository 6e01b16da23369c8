package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// stackWords bounds the band width encoded without a heap allocation.
const stackWords = 16

// BandKey returns the xxHash64 digest of values encoded little-endian.
func BandKey(values []uint64) uint64 {
	var stack [stackWords * 8]byte

	buf := stack[:0]
	if len(values) > stackWords {
		buf = make([]byte, 0, 8*len(values))
	}

	for _, v := range values {
		buf = binary.LittleEndian.AppendUint64(buf, v)
	}

	return xxhash.Sum64(buf)
}

// ShardIndex maps a (band, key) pair to one of n shards.
func ShardIndex(band int, key uint64, n int) int {
	h := key ^ (uint64(band)+1)*0x9e3779b97f4a7c15
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	return int(h % uint64(n))
}
