package reembed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/vitrine/core"
	"github.com/poiesic/vitrine/storage"
	"github.com/poiesic/vitrine/vision"
)

// BatchStats reports the outcome of one processed batch.
type BatchStats struct {
	Updated int
	Failed  int
}

// Add folds another batch's stats into this one.
func (s *BatchStats) Add(other BatchStats) {
	s.Updated += other.Updated
	s.Failed += other.Failed
}

// BatchProcessor regenerates embeddings for batches of products.
type BatchProcessor struct {
	store          storage.ProductStore
	embedder       vision.ImageEmbedder
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(store storage.ProductStore, embedder vision.ImageEmbedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		store:          store,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
		logger:         slog.Default(),
	}
}

// Process regenerates embeddings for a batch of products and writes the
// updated records back to the store. Vectors are normalized after embedding
// to ensure compatibility with cosine similarity. A product whose image
// cannot be embedded after all retries is counted as failed and left
// untouched in the store; it never aborts the batch.
func (bp *BatchProcessor) Process(ctx context.Context, products []*core.Product) (BatchStats, error) {
	var stats BatchStats
	if len(products) == 0 {
		return stats, nil
	}

	updated := make([]*core.Product, 0, len(products))
	for _, product := range products {
		var vector []float32
		err := RetryWithBackoff(ctx, func() error {
			var embedErr error
			vector, embedErr = bp.embedder.EmbedImage(ctx, product.ImageURL)
			return embedErr
		}, bp.maxRetries, bp.retryBaseDelay)

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return stats, ctxErr
			}
			bp.logger.Warn("skipping product, embedding failed after retries",
				"key", product.Key.Tuple(), "attempts", bp.maxRetries, "err", err)
			stats.Failed++
			continue
		}

		product.Embedding = vision.NormalizeVector(vector)
		updated = append(updated, product)
	}

	if len(updated) == 0 {
		return stats, nil
	}

	results, err := bp.store.Upsert(ctx, updated...)
	if err != nil {
		return stats, fmt.Errorf("failed to update products: %w", err)
	}
	for _, res := range results {
		if res.Err != nil {
			bp.logger.Warn("product update failed", "key", res.Product.Key.Tuple(), "err", res.Err)
			stats.Failed++
		} else {
			stats.Updated++
		}
	}

	return stats, nil
}
