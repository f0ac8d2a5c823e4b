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


package core

import "fmt"

// ValidateProduct validates a Product according to domain rules.
//
// Validation rules:
//   - Key must have a source
//   - Title must not be empty
//   - ImageURL must not be empty
//   - Gender must be a valid enum value
//   - Price must not be negative
//
// NOT validated (populated later or legitimately absent):
//   - Embedding (absent when generation failed; dimension is enforced at
//     the provider boundary)
//   - Category, Tags, Metadata (optional by contract)
//   - Key.ProductURL (empty when the listing carried no URI; the empty
//     string still participates in the natural key)
//   - CreatedAt / UpdatedAt (set by the sink)
func ValidateProduct(product *Product) error {
	if product == nil {
		return fmt.Errorf("%w: product is nil", ErrInvalidProduct)
	}

	if product.Key.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptySource)
	}

	if product.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptyTitle)
	}

	if product.ImageURL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptyImageURL)
	}

	if err := ValidateGender(product.Gender); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, err)
	}

	if product.Price < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrNegativePrice)
	}

	return nil
}

// ValidateGender validates that a Gender has a valid value.
func ValidateGender(gender Gender) error {
	if gender != GenderWoman && gender != GenderMan {
		return fmt.Errorf("%w: value %d", ErrInvalidGender, gender)
	}
	return nil
}
