package ingestion

import (
	"context"
	"log/slog"

	"github.com/poiesic/vitrine/core"
	"github.com/poiesic/vitrine/fetch"
	"github.com/poiesic/vitrine/normalize"
	"github.com/poiesic/vitrine/storage"
)

// Tally aggregates ingestion results across batches and sources.
type Tally struct {
	Succeeded int
	Failed    int
}

// Add folds another tally into this one.
func (t *Tally) Add(other Tally) {
	t.Succeeded += other.Succeeded
	t.Failed += other.Failed
}

// Pipeline orchestrates catalog ingestion runs.
// It owns the running tally; no other goroutine touches it.
type Pipeline struct {
	normalizer *normalize.Normalizer
	store      storage.ProductStore
	prefetch   *prefetcher
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithPrefetch controls whether the next source's fetch may overlap with
// processing of the current batch. Enabled by default; disabling it makes
// every fetch synchronous.
func WithPrefetch(enabled bool) Option {
	return func(p *Pipeline) error {
		if enabled && p.prefetch == nil {
			pf, err := newPrefetcher()
			if err != nil {
				return err
			}
			p.prefetch = pf
		}
		if !enabled && p.prefetch != nil {
			p.prefetch.release()
			p.prefetch = nil
		}
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(normalizer *normalize.Normalizer, store storage.ProductStore, opts ...Option) (*Pipeline, error) {
	if normalizer == nil {
		return nil, ErrNormalizerRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	prefetch, err := newPrefetcher()
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		normalizer: normalizer,
		store:      store,
		prefetch:   prefetch,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Run ingests all sources strictly in the order supplied and returns the
// aggregate tally. limit > 0 truncates each source's canonical list before
// it reaches the store; limit <= 0 means no truncation.
//
// A source that cannot be fetched counts as one failure and does not
// prevent the remaining sources from being processed.
func (p *Pipeline) Run(ctx context.Context, sources []fetch.Source, limit int) Tally {
	var tally Tally
	if len(sources) == 0 {
		return tally
	}

	pending := p.startFetch(ctx, sources[0])
	for i, source := range sources {
		result := <-pending
		// Kick off the next fetch before processing so its I/O overlaps
		// with normalization and embedding of the current batch.
		if i+1 < len(sources) {
			pending = p.startFetch(ctx, sources[i+1])
		}

		if result.err != nil {
			p.logger.Error("source fetch failed", "source", source.Name(), "err", result.err)
			tally.Add(Tally{Failed: 1})
			continue
		}

		tally.Add(p.processBatch(ctx, result.batch, limit))
	}

	return tally
}

// startFetch schedules a fetch through the prefetcher, or runs it inline
// when prefetching is disabled.
func (p *Pipeline) startFetch(ctx context.Context, source fetch.Source) <-chan fetchResult {
	if p.prefetch != nil {
		return p.prefetch.fetch(ctx, source)
	}
	ch := make(chan fetchResult, 1)
	batch, err := source.Fetch(ctx)
	ch <- fetchResult{batch: batch, err: err}
	return ch
}

// processBatch normalizes one source's listings sequentially, truncates the
// canonical list to limit, and hands the batch to the store.
func (p *Pipeline) processBatch(ctx context.Context, batch *fetch.Batch, limit int) Tally {
	var (
		products []*core.Product
		skipped  int
		invalid  int
	)

	for _, raw := range batch.Items {
		if limit > 0 && len(products) >= limit {
			break
		}

		result := p.normalizer.Normalize(ctx, raw)
		switch result.Outcome {
		case normalize.OutcomeNormalized:
			products = append(products, result.Product)
		case normalize.OutcomeSkipped:
			skipped++
		case normalize.OutcomeInvalid:
			invalid++
		}
	}

	var tally Tally
	if len(products) > 0 {
		results, err := p.store.Upsert(ctx, products...)
		if err != nil {
			// Batch-level failure: every product in the batch failed.
			p.logger.Error("batch upsert failed", "source", batch.Source, "err", err)
			tally.Failed += len(products) - len(results)
		}
		for _, res := range results {
			if res.Err != nil {
				p.logger.Error("product upsert failed",
					"source", batch.Source, "key", res.Product.Key.Tuple(), "err", res.Err)
				tally.Failed++
			} else {
				tally.Succeeded++
			}
		}
	}

	p.logger.Info("batch processed",
		"source", batch.Source,
		"listings", len(batch.Items),
		"succeeded", tally.Succeeded,
		"failed", tally.Failed,
		"skipped", skipped,
		"invalid", invalid)

	return tally
}

// Release frees the prefetch pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.prefetch != nil {
		p.prefetch.release()
		p.prefetch = nil
	}
}
