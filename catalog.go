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


package vitrine

import (
	"context"
	"log/slog"

	"github.com/poiesic/vitrine/fetch"
	"github.com/poiesic/vitrine/ingestion"
	"github.com/poiesic/vitrine/normalize"
	"github.com/poiesic/vitrine/search"
	"github.com/poiesic/vitrine/storage"
	"github.com/poiesic/vitrine/storage/badger"
	"github.com/poiesic/vitrine/vision"
	"github.com/poiesic/vitrine/vision/siglip"
)

// Catalog bundles the product store, the vision embedder, and the
// components built on them. It is the package-level entry point for
// embedding vitrine into another program.
type Catalog struct {
	store          storage.ProductStore
	embedder       vision.ImageEmbedder
	normalizerOpts []normalize.Option
	logger         *slog.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*catalogOptions)

type catalogOptions struct {
	visionConfig   *vision.Config
	store          storage.ProductStore
	embedder       vision.ImageEmbedder
	normalizerOpts []normalize.Option
}

// WithVisionConfig sets the embedding provider configuration.
// Default is vision.DefaultConfig().
func WithVisionConfig(config *vision.Config) CatalogOption {
	return func(o *catalogOptions) {
		if config != nil {
			o.visionConfig = config
		}
	}
}

// WithStore substitutes a pre-built product store (e.g. a PostgreSQL
// store) for the default BadgerDB store at the open path.
func WithStore(store storage.ProductStore) CatalogOption {
	return func(o *catalogOptions) {
		o.store = store
	}
}

// WithEmbedder substitutes a pre-built image embedder for the default
// SigLIP HTTP client.
func WithEmbedder(embedder vision.ImageEmbedder) CatalogOption {
	return func(o *catalogOptions) {
		o.embedder = embedder
	}
}

// WithNormalizerOptions forwards options to the normalizer built by
// NewIngestionPipeline.
func WithNormalizerOptions(opts ...normalize.Option) CatalogOption {
	return func(o *catalogOptions) {
		o.normalizerOpts = append(o.normalizerOpts, opts...)
	}
}

// Open opens a catalog backed by a BadgerDB store at filePath, unless
// WithStore provides a different backend.
func Open(filePath string, opts ...CatalogOption) (*Catalog, error) {
	options := &catalogOptions{
		visionConfig: vision.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	store := options.store
	if store == nil {
		var err error
		store, err = badger.NewStore(filePath)
		if err != nil {
			return nil, err
		}
	}

	embedder := options.embedder
	if embedder == nil {
		var err error
		embedder, err = siglip.NewEmbedder(options.visionConfig)
		if err != nil {
			if options.store == nil {
				store.Close()
			}
			return nil, err
		}
	}

	return &Catalog{
		store:          store,
		embedder:       embedder,
		normalizerOpts: options.normalizerOpts,
		logger:         slog.Default(),
	}, nil
}

// Close closes the product store.
func (c *Catalog) Close() error {
	if err := c.store.Close(); err != nil {
		c.logger.Error("error closing product store", "err", err)
		return err
	}
	return nil
}

// Store exposes the product store.
func (c *Catalog) Store() storage.ProductStore {
	return c.store
}

// Embedder exposes the vision embedder.
func (c *Catalog) Embedder() vision.ImageEmbedder {
	return c.embedder
}

// NewIngestionPipeline builds an ingestion pipeline over this catalog.
// The normalizer is constructed with the catalog's embedder plus the
// options supplied at Open.
func (c *Catalog) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	normalizer := normalize.NewNormalizer(c.embedder, c.normalizerOpts...)
	return ingestion.NewPipeline(normalizer, c.store, opts...)
}

// Ingest runs the full ingestion flow for the given sources and returns
// the aggregate tally.
func (c *Catalog) Ingest(ctx context.Context, sources []fetch.Source, limit int) (ingestion.Tally, error) {
	pipeline, err := c.NewIngestionPipeline()
	if err != nil {
		return ingestion.Tally{}, err
	}
	defer pipeline.Release()

	return pipeline.Run(ctx, sources, limit), nil
}

// NewSearcher builds a similarity searcher over this catalog.
func (c *Catalog) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(c.store, c.embedder, opts...)
}
