package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for accessing immutable data blobs.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)

	// Create creates a blob for streaming writes. The blob becomes visible
	// when the writer is closed.
	Create(ctx context.Context, name string) (WritableBlob, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	io.ReaderAt
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// WritableBlob is a handle for writing a new blob.
type WritableBlob interface {
	io.WriteCloser
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	// This is a zero-copy operation if supported.
	Bytes() ([]byte, error)
}

// Streamer is an optional interface for Blobs that can read their whole
// content more efficiently than through ReadAt.
type Streamer interface {
	Stream(ctx context.Context) (io.ReadCloser, error)
}

// NewReader returns a sequential reader over the whole blob.
// Closing the reader does not close the blob.
func NewReader(ctx context.Context, b Blob) (io.ReadCloser, error) {
	if s, ok := b.(Streamer); ok {
		return s.Stream(ctx)
	}
	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return io.NopCloser(io.NewSectionReader(b, 0, b.Size())), nil
}
