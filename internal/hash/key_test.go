package hash

import (
	"encoding/binary"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
)

func TestBandKey(t *testing.T) {
	t.Run("LittleEndianEncoding", func(t *testing.T) {
		values := []uint64{1, 2, 0xdeadbeef}

		buf := make([]byte, 0, 24)
		for _, v := range values {
			buf = binary.LittleEndian.AppendUint64(buf, v)
		}

		assert.Equal(t, xxhash.Sum64(buf), BandKey(values))
	})

	t.Run("OrderSensitive", func(t *testing.T) {
		assert.NotEqual(t, BandKey([]uint64{1, 2}), BandKey([]uint64{2, 1}))
	})

	t.Run("WideBand", func(t *testing.T) {
		values := make([]uint64, 40)
		for i := range values {
			values[i] = uint64(i * i)
		}

		buf := make([]byte, 0, 8*len(values))
		for _, v := range values {
			buf = binary.LittleEndian.AppendUint64(buf, v)
		}

		assert.Equal(t, xxhash.Sum64(buf), BandKey(values))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, xxhash.Sum64(nil), BandKey(nil))
	})
}

func TestShardIndex(t *testing.T) {
	const n = 16

	counts := make([]int, n)
	for band := range 8 {
		for key := range uint64(1000) {
			s := ShardIndex(band, key, n)
			assert.GreaterOrEqual(t, s, 0)
			assert.Less(t, s, n)
			counts[s]++
		}
	}

	// 8000 keys over 16 shards: every shard receives a share.
	for _, c := range counts {
		assert.Greater(t, c, 250)
	}

	assert.Equal(t, 0, ShardIndex(3, 42, 1))
	assert.Equal(t, ShardIndex(2, 99, n), ShardIndex(2, 99, n))
}
