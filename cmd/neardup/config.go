package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hupe1980/neardup"
)

// config holds the command line configuration. Every flag falls back to a
// NEARDUP_* environment variable and then to the library default.
type config struct {
	Input  string
	Format string
	Output string
	Report string

	TextField string
	IDField   string
	Column    int
	IDColumn  int
	Header    bool

	Index neardup.Config

	Order     string
	Workers   int
	BatchSize int
	Rate      float64

	Codec       string
	LogLevel    string
	LogFormat   string
	MetricsAddr string

	Region        string
	Endpoint      string
	MinioEndpoint string
	MinioAccess   string
	MinioSecret   string
	MinioSecure   bool
}

func loadConfig(args []string, getenv func(string) string, stderr io.Writer) (*config, error) {
	env := envReader{getenv: getenv}
	def := neardup.DefaultConfig()

	cfg := &config{}
	fs := flag.NewFlagSet("neardup", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.Input, "input", env.getString("NEARDUP_INPUT", ""), "input: path, s3://bucket/key or minio://bucket/key")
	fs.StringVar(&cfg.Format, "format", env.getString("NEARDUP_FORMAT", ""), "input format: lines, csv or jsonl (default: by extension)")
	fs.StringVar(&cfg.Output, "output", env.getString("NEARDUP_OUTPUT", "-"), "report destination: path, s3://, minio:// or - for stdout")
	fs.StringVar(&cfg.Report, "report", env.getString("NEARDUP_REPORT", "candidates"), "report kind: candidates or groups")

	fs.StringVar(&cfg.TextField, "text-field", env.getString("NEARDUP_TEXT_FIELD", "text"), "jsonl text field")
	fs.StringVar(&cfg.IDField, "id-field", env.getString("NEARDUP_ID_FIELD", ""), "jsonl id field (default: line number)")
	fs.IntVar(&cfg.Column, "column", env.getInt("NEARDUP_COLUMN", 0), "csv text column")
	fs.IntVar(&cfg.IDColumn, "id-column", env.getInt("NEARDUP_ID_COLUMN", -1), "csv id column (default: row number)")
	fs.BoolVar(&cfg.Header, "header", env.getBool("NEARDUP_HEADER", false), "csv input has a header row")

	fs.IntVar(&cfg.Index.ShingleWidth, "width", env.getInt("NEARDUP_WIDTH", def.ShingleWidth), "shingle width")
	fs.StringVar(&cfg.Index.ShingleMode, "mode", env.getString("NEARDUP_MODE", def.ShingleMode), "shingle mode: char or word")
	fs.BoolVar(&cfg.Index.CaseFolding, "fold", env.getBool("NEARDUP_FOLD", false), "case-fold text before shingling")
	fs.BoolVar(&cfg.Index.Normalize, "normalize", env.getBool("NEARDUP_NORMALIZE", false), "NFKC-normalize text before shingling")
	fs.BoolVar(&cfg.Index.StripSymbols, "strip-symbols", env.getBool("NEARDUP_STRIP_SYMBOLS", false), "remove emoji and pictographs")
	fs.IntVar(&cfg.Index.NumPermutations, "k", env.getInt("NEARDUP_K", def.NumPermutations), "number of hash functions")
	fs.Float64Var(&cfg.Index.Threshold, "threshold", env.getFloat("NEARDUP_THRESHOLD", def.Threshold), "jaccard threshold")
	fs.Float64Var(&cfg.Index.Tolerance, "tolerance", env.getFloat("NEARDUP_TOLERANCE", def.Tolerance), "parameter search tolerance")
	fs.IntVar(&cfg.Index.Bands, "bands", env.getInt("NEARDUP_BANDS", 0), "explicit band count (requires -rows)")
	fs.IntVar(&cfg.Index.Rows, "rows", env.getInt("NEARDUP_ROWS", 0), "explicit rows per band (requires -bands)")
	fs.Uint64Var(&cfg.Index.Seed, "seed", env.getUint("NEARDUP_SEED", def.Seed), "hash family seed")
	fs.IntVar(&cfg.Index.Shards, "shards", env.getInt("NEARDUP_SHARDS", def.Shards), "bucket shards per band")
	fs.Int64Var(&cfg.Index.MemoryLimitBytes, "memory-limit", int64(env.getInt("NEARDUP_MEMORY_LIMIT", 0)), "index memory limit in bytes (0: unlimited)")

	fs.StringVar(&cfg.Order, "order", env.getString("NEARDUP_ORDER", neardup.OrderFullPass.String()), "ingest order: full or streaming")
	fs.IntVar(&cfg.Workers, "workers", env.getInt("NEARDUP_WORKERS", 0), "signature workers (0: GOMAXPROCS)")
	fs.IntVar(&cfg.BatchSize, "batch-size", env.getInt("NEARDUP_BATCH_SIZE", neardup.DefaultBatchSize), "records per signing batch")
	fs.Float64Var(&cfg.Rate, "rate", env.getFloat("NEARDUP_RATE", 0), "records per second (0: unlimited)")

	fs.StringVar(&cfg.Codec, "codec", env.getString("NEARDUP_CODEC", "go-json"), "json codec: json or go-json")
	fs.StringVar(&cfg.LogLevel, "log-level", env.getString("NEARDUP_LOG_LEVEL", "info"), "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", env.getString("NEARDUP_LOG_FORMAT", "text"), "log format: text or json")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", env.getString("NEARDUP_METRICS_ADDR", ""), "serve prometheus metrics on this address")

	fs.StringVar(&cfg.Region, "region", env.getString("NEARDUP_S3_REGION", ""), "s3 region")
	fs.StringVar(&cfg.Endpoint, "s3-endpoint", env.getString("NEARDUP_S3_ENDPOINT", ""), "custom s3 endpoint")
	fs.StringVar(&cfg.MinioEndpoint, "minio-endpoint", env.getString("NEARDUP_MINIO_ENDPOINT", "localhost:9000"), "minio endpoint")
	fs.BoolVar(&cfg.MinioSecure, "minio-secure", env.getBool("NEARDUP_MINIO_SECURE", false), "use https for minio")
	cfg.MinioAccess = env.getString("NEARDUP_MINIO_ACCESS_KEY", "minioadmin")
	cfg.MinioSecret = env.getString("NEARDUP_MINIO_SECRET_KEY", "minioadmin")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.Input == "" && fs.NArg() > 0 {
		cfg.Input = fs.Arg(0)
	}
	if env.err != nil {
		return nil, env.err
	}
	if cfg.Input == "" {
		return nil, errors.New("no input given")
	}
	if cfg.Report != "candidates" && cfg.Report != "groups" {
		return nil, fmt.Errorf("unknown report kind %q", cfg.Report)
	}
	return cfg, nil
}

func (c *config) logLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	return level, err
}

// envReader reads typed environment values and remembers the first
// malformed one.
type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) getString(key, fallback string) string {
	if v := strings.TrimSpace(e.getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (e *envReader) parse(key string, parse func(string) error) {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return
	}
	if err := parse(v); err != nil && e.err == nil {
		e.err = fmt.Errorf("%s: %w", key, err)
	}
}

func (e *envReader) getInt(key string, fallback int) int {
	out := fallback
	e.parse(key, func(v string) error {
		i, err := strconv.Atoi(v)
		if err == nil {
			out = i
		}
		return err
	})
	return out
}

func (e *envReader) getUint(key string, fallback uint64) uint64 {
	out := fallback
	e.parse(key, func(v string) error {
		u, err := strconv.ParseUint(v, 10, 64)
		if err == nil {
			out = u
		}
		return err
	})
	return out
}

func (e *envReader) getFloat(key string, fallback float64) float64 {
	out := fallback
	e.parse(key, func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			out = f
		}
		return err
	})
	return out
}

func (e *envReader) getBool(key string, fallback bool) bool {
	out := fallback
	e.parse(key, func(v string) error {
		b, err := strconv.ParseBool(v)
		if err == nil {
			out = b
		}
		return err
	})
	return out
}
