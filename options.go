package neardup

import (
	"log/slog"

	"github.com/hupe1980/neardup/lsh"
	"github.com/hupe1980/neardup/shingle"
)

const (
	// DefaultNumPermutations is the default signature length k.
	DefaultNumPermutations = 128

	// DefaultThreshold is the default target Jaccard similarity.
	DefaultThreshold = 0.5

	// DefaultSeed seeds the hash family unless WithSeed is given.
	DefaultSeed uint64 = 1
)

type options struct {
	shingleWidth     int
	shingleMode      shingle.Mode
	caseFolding      bool
	normalization    bool
	symbolStripping  bool
	numPermutations  int
	threshold        float64
	tolerance        float64
	params           *lsh.Params
	fpWeight         float64
	fnWeight         float64
	weighted         bool
	seed             uint64
	shards           int
	memoryLimit      int64
	retainSignatures bool
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures an Index at construction time.
// The resulting configuration is immutable.
type Option func(*options)

// WithShingleWidth sets the shingle width w (default 3).
func WithShingleWidth(w int) Option {
	return func(o *options) {
		o.shingleWidth = w
	}
}

// WithShingleMode selects character or word shingles (default character).
func WithShingleMode(m shingle.Mode) Option {
	return func(o *options) {
		o.shingleMode = m
	}
}

// WithCaseFolding folds text to lower case before shingling.
func WithCaseFolding() Option {
	return func(o *options) {
		o.caseFolding = true
	}
}

// WithNormalization applies Unicode NFKC normalization before shingling.
func WithNormalization() Option {
	return func(o *options) {
		o.normalization = true
	}
}

// WithSymbolStripping removes emoji and pictographic symbols before shingling.
func WithSymbolStripping() Option {
	return func(o *options) {
		o.symbolStripping = true
	}
}

// WithNumPermutations sets the signature length k (default 128).
func WithNumPermutations(k int) Option {
	return func(o *options) {
		o.numPermutations = k
	}
}

// WithThreshold sets the target Jaccard similarity t in (0, 1) (default 0.5).
// The band configuration is derived from it unless WithBands is given.
func WithThreshold(t float64) Option {
	return func(o *options) {
		o.threshold = t
	}
}

// WithBands fixes the band configuration. bands*rows must equal k.
func WithBands(bands, rows int) Option {
	return func(o *options) {
		o.params = &lsh.Params{Bands: bands, Rows: rows}
	}
}

// WithTolerance sets how far the crossover of the derived band configuration
// may be from the threshold (default 0.2).
func WithTolerance(tolerance float64) Option {
	return func(o *options) {
		o.tolerance = tolerance
	}
}

// WithWeights derives the band configuration by minimizing the weighted
// false-positive and false-negative areas instead of the crossover distance.
func WithWeights(falsePositive, falseNegative float64) Option {
	return func(o *options) {
		o.fpWeight = falsePositive
		o.fnWeight = falseNegative
		o.weighted = true
	}
}

// WithSeed seeds the hash family (default 1). Signatures are only comparable
// between indexes built with the same seed and k.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithShards sets the number of bucket lock shards (default 16).
func WithShards(n int) Option {
	return func(o *options) {
		o.shards = n
	}
}

// WithMemoryLimit caps the estimated bucket memory in bytes.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithRetainSignatures keeps every inserted signature, enabling QueryID and
// QueryThreshold at the cost of 8*k bytes per record.
func WithRetainSignatures() Option {
	return func(o *options) {
		o.retainSignatures = true
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &neardup.BasicMetricsCollector{}
//	ix, _ := neardup.New(neardup.WithMetricsCollector(metrics))
//	// ... use ix ...
//	stats := metrics.GetStats()
//	fmt.Printf("Inserts: %d, Avg latency: %dns\n", stats.InsertCount, stats.InsertAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := neardup.NewJSONLogger(slog.LevelInfo)
//	ix, _ := neardup.New(neardup.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		shingleWidth:     shingle.DefaultWidth,
		shingleMode:      shingle.ModeCharacter,
		numPermutations:  DefaultNumPermutations,
		threshold:        DefaultThreshold,
		tolerance:        lsh.DefaultTolerance,
		seed:             DefaultSeed,
		shards:           lsh.DefaultShards,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
