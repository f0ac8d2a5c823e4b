// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/vitrine/core"
	"github.com/poiesic/vitrine/storage"
	"github.com/poiesic/vitrine/vision"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of products to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of products)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder orchestrates the reembedding of all products in a catalog.
type Reembedder struct {
	store     storage.ProductStore
	embedder  vision.ImageEmbedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *ProductIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(store storage.ProductStore, embedder vision.ImageEmbedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	processor := NewBatchProcessor(store, embedder, config.MaxRetries, config.RetryDelay)
	iterator := NewProductIterator(store, config.BatchSize)

	return &Reembedder{
		store:     store,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: processor,
		iterator:  iterator,
	}
}

// Run executes the reembedding operation.
// All products in the store are reembedded with the configured embedder.
// Progress is reported to the configured writer. Products whose images can
// no longer be embedded are counted and skipped.
func (r *Reembedder) Run(ctx context.Context) (BatchStats, error) {
	var total BatchStats

	totalProducts, err := r.store.CountProducts(ctx)
	if err != nil {
		return total, fmt.Errorf("failed to count products: %w", err)
	}
	if totalProducts == 0 {
		fmt.Fprintf(r.progress, "No products found in catalog (0 products)\n")
		return total, nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d products (batch size: %d)\n",
		totalProducts, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, totalProducts, r.config.ReportInterval)
	tracker.Start()

	err = r.iterator.ForEach(ctx, func(products []*core.Product) error {
		stats, err := r.processor.Process(ctx, products)
		if err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		total.Add(stats)
		tracker.Increment(len(products))
		return nil
	})
	if err != nil {
		return total, err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Updated %d products, %d failed, in %v (%.1f products/sec)\n",
		total.Updated, total.Failed, elapsed.Round(time.Second), float64(totalProducts)/elapsed.Seconds())

	return total, nil
}
