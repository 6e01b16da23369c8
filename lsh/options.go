package lsh

// DefaultShards is the number of lock shards buckets are spread over.
const DefaultShards = 16

// Option configures an Index.
type Option func(*options)

type options struct {
	shards      int
	memoryLimit int64
}

func defaultOptions() options {
	return options{shards: DefaultShards}
}

// WithShards sets the number of lock shards (default 16).
func WithShards(n int) Option {
	return func(o *options) {
		o.shards = n
	}
}

// WithMemoryLimit caps the estimated bucket memory in bytes.
// Inserts that would exceed it fail with ErrMemoryLimitExceeded.
// Zero disables the limit.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}
