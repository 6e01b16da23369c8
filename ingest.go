package neardup

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"iter"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/neardup/internal/resource"
	"github.com/hupe1980/neardup/minhash"
)

// DefaultBatchSize is the number of records signed together during ingest.
const DefaultBatchSize = 256

// Record is one text to deduplicate.
type Record struct {
	ID   uint64 `json:"id"`
	Text string `json:"text"`
}

// Order selects when records are queried relative to their insertion.
type Order int

const (
	// OrderFullPass inserts every record first, then queries each record
	// against the complete index, excluding itself.
	OrderFullPass Order = iota

	// OrderStreaming queries each record before inserting it, so it only
	// sees records ingested earlier.
	OrderStreaming
)

func (o Order) String() string {
	switch o {
	case OrderFullPass:
		return "full"
	case OrderStreaming:
		return "streaming"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ParseOrder parses an order name as produced by Order.String.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "full", "fullpass", "full-pass":
		return OrderFullPass, nil
	case "streaming", "stream":
		return OrderStreaming, nil
	default:
		return 0, newConfigError("order", s, nil)
	}
}

// IngestOption configures a single Ingest run.
type IngestOption func(*ingestOptions)

type ingestOptions struct {
	order     Order
	workers   int
	batchSize int
	rate      float64
}

// WithOrder selects the query order (default OrderFullPass).
func WithOrder(order Order) IngestOption {
	return func(o *ingestOptions) {
		o.order = order
	}
}

// WithWorkers sets the number of signing goroutines (default GOMAXPROCS).
func WithWorkers(n int) IngestOption {
	return func(o *ingestOptions) {
		o.workers = n
	}
}

// WithBatchSize sets how many records are signed together (default 256).
func WithBatchSize(n int) IngestOption {
	return func(o *ingestOptions) {
		o.batchSize = n
	}
}

// WithRateLimit caps ingestion at recordsPerSecond. Zero means unlimited.
func WithRateLimit(recordsPerSecond float64) IngestOption {
	return func(o *ingestOptions) {
		o.rate = recordsPerSecond
	}
}

// Report is the outcome of an ingest run.
type Report struct {
	Order Order `json:"order"`

	// IDs lists the accepted records in ingest order.
	IDs []uint64 `json:"ids"`

	// Candidates maps every accepted record to its candidate ids, ascending.
	// Records without candidates map to an empty slice.
	Candidates map[uint64][]uint64 `json:"candidates"`

	Records        int           `json:"records"`
	WithCandidates int           `json:"with_candidates"`
	Skipped        int           `json:"skipped"`
	Duration       time.Duration `json:"duration"`
}

func newReport(order Order) *Report {
	return &Report{
		Order:      order,
		Candidates: make(map[uint64][]uint64),
	}
}

func (r *Report) add(id uint64, candidates []uint64) {
	r.IDs = append(r.IDs, id)
	r.Candidates[id] = candidates
	r.Records++
	if len(candidates) > 0 {
		r.WithCandidates++
	}
}

// Groups returns the connected components of the candidate graph with at
// least two members. Ids within a group are ascending; groups are ordered by
// their smallest id.
func (r *Report) Groups() [][]uint64 {
	parent := make(map[uint64]uint64)

	var find func(uint64) uint64
	find = func(x uint64) uint64 {
		p, ok := parent[x]
		if !ok || p == x {
			return x
		}
		root := find(p)
		parent[x] = root
		return root
	}
	union := func(a, b uint64) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		// Smallest id becomes the root.
		if ra < rb {
			parent[rb] = ra
		} else {
			parent[ra] = rb
		}
	}

	for id, cands := range r.Candidates {
		for _, c := range cands {
			union(id, c)
		}
	}

	members := make(map[uint64][]uint64)
	for id := range parent {
		root := find(id)
		members[root] = append(members[root], id)
	}

	groups := make([][]uint64, 0, len(members))
	for root, ids := range members {
		if !slices.Contains(ids, root) {
			ids = append(ids, root)
		}
		if len(ids) < 2 {
			continue
		}
		slices.Sort(ids)
		groups = append(groups, ids)
	}
	slices.SortFunc(groups, func(a, b []uint64) int {
		return cmp.Compare(a[0], b[0])
	})

	return groups
}

type signedRecord struct {
	id  uint64
	sig minhash.Signature
}

// Ingest reads records, indexes them and reports the candidates of each.
//
// Signatures are computed in parallel per batch; inserts are applied in
// record order. Records whose id was already ingested are counted in
// Report.Skipped. On error, including ctx cancellation, the partial report
// is returned with the error and the index keeps everything inserted so far.
func (ix *Index) Ingest(ctx context.Context, records iter.Seq2[Record, error], optFns ...IngestOption) (*Report, error) {
	o := ingestOptions{
		order:     OrderFullPass,
		workers:   runtime.GOMAXPROCS(0),
		batchSize: DefaultBatchSize,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if o.batchSize <= 0 {
		o.batchSize = DefaultBatchSize
	}
	if o.order != OrderFullPass && o.order != OrderStreaming {
		return nil, newConfigError("order", o.order, nil)
	}
	if o.rate < 0 {
		return nil, newConfigError("rate_limit", o.rate, nil)
	}

	rc := resource.NewController(resource.Config{
		MaxWorkers:       int64(o.workers),
		RecordsPerSecond: o.rate,
	})

	report := newReport(o.order)
	start := time.Now()

	err := ix.ingest(ctx, rc, records, o, report)

	report.Duration = time.Since(start)
	ix.metrics.RecordIngest(report.Records, report.Skipped, report.Duration, err)
	ix.logger.LogIngest(ctx, report, err)

	return report, err
}

func (ix *Index) ingest(ctx context.Context, rc *resource.Controller, records iter.Seq2[Record, error], o ingestOptions, report *Report) error {
	var pending []signedRecord

	batch := make([]Record, 0, o.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		sigs, err := ix.signRecords(ctx, rc, batch)
		if err != nil {
			return err
		}
		for i, rec := range batch {
			if o.order == OrderStreaming {
				err = ix.streamRecord(ctx, rec.ID, sigs[i], report)
			} else {
				pending, err = ix.insertRecord(rec.ID, sigs[i], report, pending)
			}
			if err != nil {
				return err
			}
		}
		batch = batch[:0]
		return nil
	}

	for rec, err := range records {
		if err != nil {
			return fmt.Errorf("read record: %w", err)
		}
		if err := rc.AcquireRecords(ctx, 1); err != nil {
			return err
		}
		batch = append(batch, rec)
		if len(batch) == o.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		cands, err := ix.query(p.sig, &p.id)
		if err != nil {
			return err
		}
		report.add(p.id, cands)
	}

	return nil
}

// streamRecord queries sig against the records ingested so far, then inserts it.
func (ix *Index) streamRecord(ctx context.Context, id uint64, sig minhash.Signature, report *Report) error {
	if ix.Contains(id) {
		report.Skipped++
		ix.logger.LogDuplicate(ctx, id)
		return nil
	}

	cands, err := ix.query(sig, &id)
	if err != nil {
		return err
	}

	if err := ix.InsertSignature(id, sig); err != nil {
		if errors.Is(err, ErrDuplicateID) {
			report.Skipped++
			return nil
		}
		return err
	}

	report.add(id, cands)
	return nil
}

// insertRecord inserts sig and defers its query to the end of the run.
func (ix *Index) insertRecord(id uint64, sig minhash.Signature, report *Report, pending []signedRecord) ([]signedRecord, error) {
	if err := ix.InsertSignature(id, sig); err != nil {
		if errors.Is(err, ErrDuplicateID) {
			report.Skipped++
			return pending, nil
		}
		return pending, err
	}
	return append(pending, signedRecord{id: id, sig: sig}), nil
}

// signRecords computes the signatures of a batch using the controller's
// worker slots.
func (ix *Index) signRecords(ctx context.Context, rc *resource.Controller, batch []Record) ([]minhash.Signature, error) {
	sigs := make([]minhash.Signature, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	for i, rec := range batch {
		if err := rc.AcquireWorker(gctx); err != nil {
			break
		}
		g.Go(func() error {
			defer rc.ReleaseWorker()
			if err := gctx.Err(); err != nil {
				return err
			}
			sigs[i] = ix.Signature(rec.Text)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sigs, nil
}
