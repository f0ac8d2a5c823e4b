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

import "errors"

// Domain validation errors
var (
	// ErrInvalidProduct indicates a Product failed validation.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyImageURL indicates the ImageURL field is empty.
	ErrEmptyImageURL = errors.New("image URL cannot be empty")

	// ErrEmptySource indicates the natural key has no source.
	ErrEmptySource = errors.New("source cannot be empty")

	// ErrNegativePrice indicates a negative price value.
	ErrNegativePrice = errors.New("price cannot be negative")

	// ErrInvalidGender indicates an invalid Gender value.
	ErrInvalidGender = errors.New("invalid gender")
)
