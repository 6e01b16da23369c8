// Package source turns corpora into record streams for neardup.Ingest.
//
// Every source yields records lazily and stops at the first error. Records
// without an explicit id are numbered from zero in input order.
//
//	r, _ := source.Open(ctx, blobstore.NewLocalStore("."), "tweets.jsonl.zst")
//	defer r.Close()
//	report, err := ix.Ingest(ctx, source.JSONLines(r, "text", "id_str"))
package source
