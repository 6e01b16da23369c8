package source

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/hupe1980/neardup/blobstore"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies a stream compression format.
type Compression int

const (
	// CompressionNone passes the stream through unchanged.
	CompressionNone Compression = iota
	// CompressionGzip is gzip (.gz).
	CompressionGzip
	// CompressionZstd is Zstandard (.zst, .zstd).
	CompressionZstd
	// CompressionLZ4 is the LZ4 frame format (.lz4).
	CompressionLZ4
)

// String returns the file suffix of the format without the dot.
func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gz"
	case CompressionZstd:
		return "zst"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// DetectCompression picks the format from the name's suffix.
func DetectCompression(name string) Compression {
	switch {
	case strings.HasSuffix(name, ".gz"):
		return CompressionGzip
	case strings.HasSuffix(name, ".zst"), strings.HasSuffix(name, ".zstd"):
		return CompressionZstd
	case strings.HasSuffix(name, ".lz4"):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// TrimCompression strips a recognized compression suffix from name, so
// "tweets.jsonl.gz" yields "tweets.jsonl".
func TrimCompression(name string) string {
	c := DetectCompression(name)
	if c == CompressionNone {
		return name
	}
	name = strings.TrimSuffix(name, ".zstd")
	return strings.TrimSuffix(name, "."+c.String())
}

// Open opens name in store and decompresses it according to its suffix.
// Closing the returned reader closes the blob.
func Open(ctx context.Context, store blobstore.BlobStore, name string) (io.ReadCloser, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	raw, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return nil, errors.Join(err, blob.Close())
	}

	r, err := Decompress(raw, DetectCompression(name))
	if err != nil {
		return nil, errors.Join(err, raw.Close(), blob.Close())
	}

	return &stackCloser{Reader: r, closers: []io.Closer{r, raw, blob}}, nil
}

// Decompress wraps r in a decoder for c.
func Decompress(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionGzip:
		return gzip.NewReader(r)
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

type stackCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackCloser) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
