package neardup

import (
	"github.com/hupe1980/neardup/lsh"
	"github.com/hupe1980/neardup/shingle"
)

// Config is the declarative form of the functional options, used by the
// command line tool and for configuration files.
type Config struct {
	ShingleWidth        int     `json:"shingle_width"`
	ShingleMode         string  `json:"shingle_mode"`
	CaseFolding         bool    `json:"case_folding"`
	Normalize           bool    `json:"normalize"`
	StripSymbols        bool    `json:"strip_symbols"`
	NumPermutations     int     `json:"num_permutations"`
	Threshold           float64 `json:"threshold"`
	Tolerance           float64 `json:"tolerance"`
	Bands               int     `json:"bands,omitempty"`
	Rows                int     `json:"rows,omitempty"`
	FalsePositiveWeight float64 `json:"false_positive_weight,omitempty"`
	FalseNegativeWeight float64 `json:"false_negative_weight,omitempty"`
	Seed                uint64  `json:"seed"`
	Shards              int     `json:"shards"`
	MemoryLimitBytes    int64   `json:"memory_limit_bytes,omitempty"`
	RetainSignatures    bool    `json:"retain_signatures"`
}

// DefaultConfig returns the configuration New uses without options.
func DefaultConfig() Config {
	return Config{
		ShingleWidth:    shingle.DefaultWidth,
		ShingleMode:     shingle.ModeCharacter.String(),
		NumPermutations: DefaultNumPermutations,
		Threshold:       DefaultThreshold,
		Tolerance:       lsh.DefaultTolerance,
		Seed:            DefaultSeed,
		Shards:          lsh.DefaultShards,
	}
}

// Options converts the configuration into functional options.
// Bands and Rows take effect when either is set; the weights when either is
// non-zero.
func (c Config) Options() ([]Option, error) {
	mode, err := shingle.ParseMode(c.ShingleMode)
	if err != nil {
		return nil, newConfigError("shingle_mode", c.ShingleMode, err)
	}

	opts := []Option{
		WithShingleWidth(c.ShingleWidth),
		WithShingleMode(mode),
		WithNumPermutations(c.NumPermutations),
		WithThreshold(c.Threshold),
		WithTolerance(c.Tolerance),
		WithSeed(c.Seed),
		WithShards(c.Shards),
		WithMemoryLimit(c.MemoryLimitBytes),
	}
	if c.CaseFolding {
		opts = append(opts, WithCaseFolding())
	}
	if c.Normalize {
		opts = append(opts, WithNormalization())
	}
	if c.StripSymbols {
		opts = append(opts, WithSymbolStripping())
	}
	if c.Bands != 0 || c.Rows != 0 {
		opts = append(opts, WithBands(c.Bands, c.Rows))
	}
	if c.FalsePositiveWeight != 0 || c.FalseNegativeWeight != 0 {
		opts = append(opts, WithWeights(c.FalsePositiveWeight, c.FalseNegativeWeight))
	}
	if c.RetainSignatures {
		opts = append(opts, WithRetainSignatures())
	}
	return opts, nil
}

// NewFromConfig creates an index from cfg. Additional options, such as a
// logger or metrics collector, are applied after the configuration.
func NewFromConfig(cfg Config, optFns ...Option) (*Index, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return New(append(opts, optFns...)...)
}
