// Package resource governs the resources an index and its ingestion driver consume.
//
// The Controller manages three budgets:
//
//   - Memory: a hard cap on the estimated bytes held by LSH buckets (non-blocking, fail-fast)
//   - Workers: a cap on concurrent signature workers
//   - Records: a token bucket limiting ingestion throughput in records per second
//
// Memory is reserved before a bucket is touched, so an insert that cannot be
// afforded fails without partially mutating the index:
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 256 << 20})
//	if err := rc.AcquireMemory(n); err != nil {
//	    // ErrMemoryLimitExceeded - nothing was written
//	}
//
// Ingestion throttling blocks until the limiter admits the next batch:
//
//	rc := resource.NewController(resource.Config{RecordsPerSecond: 5000})
//	if err := rc.AcquireRecords(ctx, len(batch)); err != nil {
//	    return err
//	}
//
// All methods are safe for concurrent use and are no-ops on a nil Controller.
package resource
