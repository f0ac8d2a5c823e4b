package storage

import (
	"context"

	"github.com/poiesic/vitrine/core"
)

// UpsertResult reports the outcome of one product within an Upsert batch.
// Err is nil when the product committed; otherwise it explains why that
// single product was rejected.
type UpsertResult struct {
	Product *core.Product
	Err     error
}

// ProductStore provides operations for managing catalog products.
// Implementations must be thread-safe and support concurrent access.
type ProductStore interface {
	// Upsert writes one or more products keyed by their (source, product URL)
	// pair. A key seen for the first time inserts; a repeated key overwrites
	// the stored record. CreatedAt is preserved from the first write and
	// UpdatedAt refreshes on every write.
	//
	// Each product commits independently: a result is returned per input in
	// order, and a failed product never prevents its neighbors from
	// committing. The error return covers batch-level failures only (closed
	// store, cancelled context).
	Upsert(ctx context.Context, products ...*core.Product) ([]UpsertResult, error)

	// GetProduct retrieves a single product by its natural key.
	// Returns ErrNotFound if no product with the key exists.
	GetProduct(ctx context.Context, key core.Key) (*core.Product, error)

	// CountProducts returns the number of stored products.
	CountProducts(ctx context.Context) (int, error)

	// ScanProducts retrieves up to limit products with internal IDs greater
	// than afterID, ordered by ID. Pass afterID=0 to start from the
	// beginning. Used for batched iteration over the whole catalog.
	ScanProducts(ctx context.Context, afterID core.ID, limit int) ([]*core.Product, error)

	// FindSimilar finds products whose embedding is similar to the given
	// vector. Returns products with similarity >= minSimilarity, up to limit
	// results, ordered by similarity score (highest first). Products without
	// an embedding are never returned.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
