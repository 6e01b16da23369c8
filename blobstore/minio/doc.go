// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible storage systems such as Ceph,
// SeaweedFS and Garage, without pulling in the AWS SDK.
//
// # Basic Usage
//
//	store, err := minioblob.Dial("localhost:9000", "minioadmin", "minioadmin", false, "corpora", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	blob, err := store.Open(ctx, "tweets.jsonl.gz")
//
// Open issues a single StatObject; reads are ranged GetObject calls and
// blobstore.NewReader streams the whole object in one request.
package minio
