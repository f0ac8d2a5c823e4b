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


// Package search provides visual similarity search over the catalog.
//
// The Searcher type answers "find products that look like this" queries:
// either from an arbitrary image URL, embedded on the fly, or from a product
// already in the catalog, reusing its stored vector. Results can be narrowed
// with attribute filters (gender, tag, price ceiling, source) applied after
// similarity scoring.
package search
