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


// Package vision provides abstractions for the visual embedding service
// used in Vitrine.
//
// This package defines the interface for turning a product image into a
// fixed-dimension embedding vector. The normalizer and the search layer
// depend on this abstraction rather than on a concrete model binding, so
// the provider can be substituted with a stub in tests.
//
// # Implementation Packages
//
//   - vision/siglip: Production implementation speaking to a SigLIP-style
//     inference server over HTTP
//   - vision/mock: Test doubles for unit testing without a model
//
// # Failure Semantics
//
// Embedding generation either returns a vector of exactly Dim() elements or
// an error — never a partial vector. Callers are expected to treat an error
// and "vector absent" identically: a product without an embedding is still
// a valid product.
package vision
