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


// Package storage provides the storage abstraction layer for vitrine.
//
// This package defines the ProductStore interface that decouples storage
// implementation from the ingestion and search logic. It allows different
// storage backends (BadgerDB, PostgreSQL, in-memory) to be used
// interchangeably.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable multiple storage backend
// implementations:
//
//	store, err := badger.NewStore(path)  // returns storage.ProductStore interface
//
// Internal package constructors (newProductRepository, newBackend, etc.) may
// return concrete types since they're only used within the implementation
// package.
//
// # Upsert Semantics
//
// A product's identity is its natural key: the (source, product URL) pair.
// Upsert inserts a product the first time its key is seen and overwrites the
// stored record on every later write with the same key. Each product in a
// batch commits independently; one failed record never aborts its neighbors.
//
// # Thread Safety
//
// All store implementations must be thread-safe and support concurrent
// access from multiple goroutines.
//
// # Context Support
//
// All store methods accept context.Context for cancellation and timeout
// support. Pass context.Background() for operations without specific timeout
// requirements.
package storage
