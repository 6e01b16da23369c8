// Package s3 provides an Amazon S3 implementation of the blobstore.BlobStore
// interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("corpora/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	blob, err := store.Open(ctx, "tweets.jsonl.gz")
//	r, err := blobstore.NewReader(ctx, blob)
//
// # Features
//
//   - Range reads for random access
//   - Parallel ranged downloads for whole-object reads
//   - Multipart uploads for large reports
//   - Custom endpoints for S3-compatible services
package s3
