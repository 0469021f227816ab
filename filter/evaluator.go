package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/listnode/marketing"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of chunks evaluated at once
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

// WithBatchSize sets the smallest chunk handed to a worker
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator evaluates a filter over large contact sets in chunks
type ConcurrentEvaluator struct {
	workers   int
	batchSize int
}

// NewConcurrentEvaluator creates an evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workers:   runtime.GOMAXPROCS(0),
		batchSize: 100,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Select returns the contacts filter matches, in input order
func (e *ConcurrentEvaluator) Select(ctx context.Context, filter CompiledFilter, contacts []marketing.Contact) ([]marketing.Contact, error) {
	if len(contacts) == 0 {
		return []marketing.Contact{}, nil
	}
	if len(contacts) < e.batchSize {
		return selectChunk(filter, contacts), nil
	}

	chunkSize := max(len(contacts)/e.workers, e.batchSize)
	chunks := make([][]marketing.Contact, (len(contacts)+chunkSize-1)/chunkSize)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range chunks {
		start := i * chunkSize
		end := min(start+chunkSize, len(contacts))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			chunks[i] = selectChunk(filter, contacts[start:end])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var matches []marketing.Contact
	for _, chunk := range chunks {
		matches = append(matches, chunk...)
	}
	if matches == nil {
		matches = []marketing.Contact{}
	}
	return matches, nil
}

func selectChunk(filter CompiledFilter, contacts []marketing.Contact) []marketing.Contact {
	matches := make([]marketing.Contact, 0, len(contacts)/4)
	for _, c := range contacts {
		if filter.Evaluate(c) {
			matches = append(matches, c)
		}
	}
	return matches
}
