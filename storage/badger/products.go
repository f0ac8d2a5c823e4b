package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vitrine/core"
	"github.com/poiesic/vitrine/storage"
)

// ProductRepository implements storage.ProductStore for BadgerDB.
type ProductRepository struct {
	backend *Backend
}

var _ storage.ProductStore = (*ProductRepository)(nil)

// NewStore opens a BadgerDB-backed product store at the given path.
func NewStore(path string) (storage.ProductStore, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return &ProductRepository{backend: backend}, nil
}

// newProductRepository wraps an existing backend.
func newProductRepository(backend *Backend) *ProductRepository {
	return &ProductRepository{backend: backend}
}

// Close closes the underlying database.
func (r *ProductRepository) Close() error {
	return r.backend.Close()
}

// Upsert writes products keyed by their (source, product URL) pair.
// Every product commits in its own transaction, so a rejected record never
// rolls back its neighbors. CreatedAt is carried over from an existing
// record; UpdatedAt is refreshed on every write.
func (r *ProductRepository) Upsert(ctx context.Context, products ...*core.Product) ([]storage.UpsertResult, error) {
	results := make([]storage.UpsertResult, 0, len(products))

	for _, product := range products {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		err := r.backend.WithTx(func(tx *badger.Txn) error {
			key := makeProductKey(product.Key.ID())

			existing, err := readProduct(tx, key)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			if existing != nil {
				product.CreatedAt = existing.CreatedAt
			} else {
				product.CreatedAt = now
			}
			product.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalProduct(product)); err != nil {
				return err
			}
			return tx.Commit()
		}, true)

		results = append(results, storage.UpsertResult{Product: product, Err: err})
	}

	return results, nil
}

// GetProduct retrieves a single product by its natural key.
func (r *ProductRepository) GetProduct(ctx context.Context, key core.Key) (*core.Product, error) {
	var result *core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readProduct(tx, makeProductKey(key.ID()))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// CountProducts returns the number of stored products.
func (r *ProductRepository) CountProducts(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(productRecordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// ScanProducts retrieves up to limit products with IDs greater than afterID,
// ordered by ID ascending.
func (r *ProductRepository) ScanProducts(ctx context.Context, afterID core.ID, limit int) ([]*core.Product, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(productRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(makeProductKey(afterID)); iter.Valid() && len(results) < limit; iter.Next() {
			item := iter.Item()
			if productIDFromKey(item.Key()) <= afterID {
				continue
			}

			var product *core.Product
			if err := item.Value(func(val []byte) error {
				var err error
				product, err = storage.UnmarshalProduct(val)
				return err
			}); err != nil {
				return err
			}
			if product != nil {
				results = append(results, product)
			}
		}
		return nil
	}, false)

	return results, err
}

// FindSimilar delegates to the backend.
func (r *ProductRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// readProduct reads a product from the transaction.
// Returns nil, nil when the key does not exist.
func readProduct(tx *badger.Txn, key []byte) (*core.Product, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var product *core.Product
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		product, unmarshalErr = storage.UnmarshalProduct(val)
		return unmarshalErr
	})
	return product, err
}
