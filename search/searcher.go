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


package search

import (
	"context"
	"log/slog"

	"github.com/poiesic/vitrine/core"
	"github.com/poiesic/vitrine/storage"
	"github.com/poiesic/vitrine/vision"
)

// minSimilarity is the similarity floor for visual matches.
const minSimilarity = 0.60

// Searcher provides visual similarity search over catalog products.
type Searcher struct {
	store    storage.ProductStore
	embedder vision.ImageEmbedder
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(store storage.ProductStore, embedder vision.ImageEmbedder, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		store:    store,
		embedder: embedder,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// FindSimilarToImage embeds the image at the given URL and returns up to
// maxHits visually similar products, ranked by similarity score.
func (s *Searcher) FindSimilarToImage(ctx context.Context, imageURL string, maxHits int, filters ...Filter) ([]*core.SearchResult, error) {
	vector, err := s.embedder.EmbedImage(ctx, imageURL)
	if err != nil {
		s.logger.Error("error embedding query image", "imageURL", imageURL, "err", err)
		return nil, err
	}
	return s.findSimilar(ctx, vector, maxHits, filters)
}

// FindSimilarToProduct returns up to maxHits products visually similar to a
// product already in the catalog, reusing its stored vector. The reference
// product itself is excluded from the results.
func (s *Searcher) FindSimilarToProduct(ctx context.Context, key core.Key, maxHits int, filters ...Filter) ([]*core.SearchResult, error) {
	product, err := s.store.GetProduct(ctx, key)
	if err != nil {
		return nil, err
	}
	if !product.HasEmbedding() {
		return nil, ErrNoEmbedding
	}

	// Fetch one extra hit so dropping the reference still fills maxHits.
	results, err := s.findSimilar(ctx, product.Embedding, maxHits+1, filters)
	if err != nil {
		return nil, err
	}

	trimmed := make([]*core.SearchResult, 0, len(results))
	for _, result := range results {
		if result.Product.Key == key {
			continue
		}
		trimmed = append(trimmed, result)
	}
	if len(trimmed) > maxHits {
		trimmed = trimmed[:maxHits]
	}
	return trimmed, nil
}

func (s *Searcher) findSimilar(ctx context.Context, vector []float32, maxHits int, filters []Filter) ([]*core.SearchResult, error) {
	// Stored vectors are unit length; the query must match their scale for
	// the similarity floor to mean cosine similarity.
	results, err := s.store.FindSimilar(ctx, vision.NormalizeVector(vector), minSimilarity, maxHits)
	if err != nil {
		s.logger.Error("error querying for similar products", "err", err)
		return nil, err
	}

	results = applyFilters(results, filters)
	s.logger.Debug("similarity search complete", "hits", len(results))
	return results, nil
}
