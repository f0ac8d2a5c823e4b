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

	"github.com/poiesic/vitrine/core"
	"github.com/poiesic/vitrine/storage"
)

const (
	// DefaultBatchSize is the default number of products to fetch in each batch
	DefaultBatchSize = 100
)

// ProductIterator iterates over all products in the store in batches,
// paging on the content-derived record ID.
type ProductIterator struct {
	store     storage.ProductStore
	batchSize int
}

// NewProductIterator creates a new product iterator.
// batchSize: number of products to fetch in each batch (must be > 0)
func NewProductIterator(store storage.ProductStore, batchSize int) *ProductIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ProductIterator{
		store:     store,
		batchSize: batchSize,
	}
}

// ForEach iterates over all products, calling fn for each batch.
// Iteration stops on first error from fn or when all products are processed.
// Context cancellation is checked between batches.
func (it *ProductIterator) ForEach(ctx context.Context, fn func([]*core.Product) error) error {
	var afterID core.ID

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch, err := it.store.ScanProducts(ctx, afterID, it.batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		if err := fn(batch); err != nil {
			return err
		}

		afterID = batch[len(batch)-1].Key.ID()
	}
}
