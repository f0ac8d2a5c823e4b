package ingestion

import (
	"context"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/vitrine/fetch"
)

// fetchResult carries one source's batch or its fetch error.
type fetchResult struct {
	batch *fetch.Batch
	err   error
}

// prefetcher runs source fetches on a single-worker pool so the next
// source's I/O can overlap with processing of the current batch.
// One worker means at most one fetch is in flight, and results are consumed
// in submission order, so processing order never changes.
type prefetcher struct {
	pool *ants.Pool
}

func newPrefetcher() (*prefetcher, error) {
	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}
	return &prefetcher{pool: pool}, nil
}

// fetch schedules a source fetch and returns the channel its result will
// arrive on. A submission failure is delivered as a fetch result.
func (p *prefetcher) fetch(ctx context.Context, source fetch.Source) <-chan fetchResult {
	ch := make(chan fetchResult, 1)
	err := p.pool.Submit(func() {
		batch, err := source.Fetch(ctx)
		ch <- fetchResult{batch: batch, err: err}
	})
	if err != nil {
		ch <- fetchResult{err: err}
	}
	return ch
}

func (p *prefetcher) release() {
	p.pool.Release()
}
