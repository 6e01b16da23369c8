// Command neardup reports near-duplicate records in a text corpus.
//
// Usage:
//
//	neardup -input tweets.jsonl.gz -id-field id_str -threshold 0.6 -output report.jsonl
//	neardup -format lines -order streaming corpus.txt
//
// Inputs and outputs may be local paths, s3://bucket/key or
// minio://bucket/key. Compressed inputs (.gz, .zst, .lz4) are decoded
// transparently. Every flag can also be set through a NEARDUP_* variable.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hupe1980/neardup"
	"github.com/hupe1980/neardup/blobstore"
	"github.com/hupe1980/neardup/blobstore/minio"
	"github.com/hupe1980/neardup/blobstore/s3"
	"github.com/hupe1980/neardup/codec"
	"github.com/hupe1980/neardup/prom"
	"github.com/hupe1980/neardup/source"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "neardup:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(args, getenv, stderr)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}

	c, ok := codec.ByName(cfg.Codec)
	if !ok {
		return fmt.Errorf("unknown codec %q", cfg.Codec)
	}

	order, err := neardup.ParseOrder(cfg.Order)
	if err != nil {
		return err
	}

	opts := []neardup.Option{neardup.WithLogger(logger)}

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		collector, err := prom.NewCollector(reg)
		if err != nil {
			return err
		}
		opts = append(opts, neardup.WithMetricsCollector(collector))

		shutdown, err := serveMetrics(cfg.MetricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	ix, err := neardup.NewFromConfig(cfg.Index, opts...)
	if err != nil {
		return err
	}
	defer ix.Close()

	in, name, err := openInput(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	records, err := recordSource(cfg, c, in, name)
	if err != nil {
		return err
	}

	report, err := ix.Ingest(ctx, records,
		neardup.WithOrder(order),
		neardup.WithWorkers(cfg.Workers),
		neardup.WithBatchSize(cfg.BatchSize),
		neardup.WithRateLimit(cfg.Rate),
	)
	if err != nil {
		return err
	}

	out, err := createOutput(ctx, cfg, stdout)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := writeReport(out, c, cfg.Report, report); err != nil {
		_ = out.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	// Keep stdout clean when the report goes there.
	summary := stdout
	if cfg.Output == "" || cfg.Output == "-" {
		summary = stderr
	}
	_, err = fmt.Fprintf(summary, "Final Count: %d\n", report.Records)
	return err
}

func newLogger(cfg *config, w io.Writer) (*neardup.Logger, error) {
	level, err := cfg.logLevel()
	if err != nil {
		return nil, err
	}

	hopts := &slog.HandlerOptions{Level: level}
	switch cfg.LogFormat {
	case "json":
		return neardup.NewLogger(slog.NewJSONHandler(w, hopts)), nil
	case "text", "":
		return neardup.NewLogger(slog.NewTextHandler(w, hopts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *neardup.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

// location splits a store URL into the store and the blob name.
func location(ctx context.Context, cfg *config, uri string) (blobstore.BlobStore, string, error) {
	scheme, rest, found := strings.Cut(uri, "://")
	if !found {
		return blobstore.NewLocalStore(filepath.Dir(uri)), filepath.Base(uri), nil
	}

	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return nil, "", fmt.Errorf("invalid location %q", uri)
	}

	switch scheme {
	case "s3":
		var opts []s3.Option
		if cfg.Region != "" {
			opts = append(opts, s3.WithRegion(cfg.Region))
		}
		if cfg.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(cfg.Endpoint))
		}
		store, err := s3.New(ctx, bucket, opts...)
		if err != nil {
			return nil, "", err
		}
		return store, key, nil
	case "minio":
		store, err := minio.Dial(cfg.MinioEndpoint, cfg.MinioAccess, cfg.MinioSecret, cfg.MinioSecure, bucket, "")
		if err != nil {
			return nil, "", err
		}
		return store, key, nil
	case "file":
		return blobstore.NewLocalStore(filepath.Dir(rest)), filepath.Base(rest), nil
	default:
		return nil, "", fmt.Errorf("unsupported scheme %q", scheme)
	}
}

func openInput(ctx context.Context, cfg *config) (io.ReadCloser, string, error) {
	store, name, err := location(ctx, cfg, cfg.Input)
	if err != nil {
		return nil, "", err
	}
	r, err := source.Open(ctx, store, name)
	if err != nil {
		return nil, "", err
	}
	return r, name, nil
}

func recordSource(cfg *config, c codec.Codec, r io.Reader, name string) (iter.Seq2[neardup.Record, error], error) {
	format := cfg.Format
	if format == "" {
		format = formatOf(name)
	}

	switch format {
	case "lines", "txt", "text":
		return source.Lines(r), nil
	case "csv":
		opts := []source.CSVOption{source.WithIDColumn(cfg.IDColumn)}
		if cfg.Header {
			opts = append(opts, source.WithHeader())
		}
		return source.CSV(r, cfg.Column, opts...), nil
	case "tsv":
		opts := []source.CSVOption{source.WithIDColumn(cfg.IDColumn), source.WithComma('\t')}
		if cfg.Header {
			opts = append(opts, source.WithHeader())
		}
		return source.CSV(r, cfg.Column, opts...), nil
	case "jsonl", "ndjson", "json":
		return source.JSONLinesWithCodec(r, c, cfg.TextField, cfg.IDField), nil
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}

func formatOf(name string) string {
	switch path.Ext(source.TrimCompression(name)) {
	case ".csv":
		return "csv"
	case ".tsv":
		return "tsv"
	case ".jsonl", ".ndjson", ".json":
		return "jsonl"
	default:
		return "lines"
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func createOutput(ctx context.Context, cfg *config, stdout io.Writer) (io.WriteCloser, error) {
	if cfg.Output == "" || cfg.Output == "-" {
		return nopWriteCloser{stdout}, nil
	}
	store, name, err := location(ctx, cfg, cfg.Output)
	if err != nil {
		return nil, err
	}
	return store.Create(ctx, name)
}

type candidateLine struct {
	ID         uint64   `json:"id"`
	Candidates []uint64 `json:"candidates"`
}

type groupLine struct {
	Group []uint64 `json:"group"`
}

// writeReport writes one JSON object per line: every record with its
// candidates, or every group of two or more connected records.
func writeReport(w io.Writer, c codec.Codec, kind string, r *neardup.Report) error {
	bw := bufio.NewWriter(w)

	var (
		buf []byte
		err error
	)
	emit := func(v any) error {
		buf, err = codec.Append(c, buf[:0], v)
		if err != nil {
			return err
		}
		buf = append(buf, '\n')
		_, err = bw.Write(buf)
		return err
	}

	if kind == "groups" {
		for _, g := range r.Groups() {
			if err := emit(groupLine{Group: g}); err != nil {
				return err
			}
		}
	} else {
		for _, id := range r.IDs {
			if err := emit(candidateLine{ID: id, Candidates: r.Candidates[id]}); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
