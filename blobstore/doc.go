// Package blobstore provides storage abstraction for neardup's input corpora
// and reports.
//
// BlobStore is the interface for reading and writing data blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem with mmap support
//   - MemoryStore: In-memory store for tests
//   - s3.Store: Amazon S3 with range reads and managed transfers
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Reading
//
// Blobs support random access through io.ReaderAt. NewReader picks the
// cheapest sequential path a blob offers:
//
//	blob, _ := store.Open(ctx, "tweets.jsonl.gz")
//	r, _ := blobstore.NewReader(ctx, blob)  // Streamer, Mappable, or ReadAt
//	defer r.Close()
package blobstore
