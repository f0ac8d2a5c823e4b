package ingestion

import "errors"

var (
	// ErrNormalizerRequired is returned when a normalizer is not provided.
	ErrNormalizerRequired = errors.New("normalizer required")

	// ErrStoreRequired is returned when a product store is not provided.
	ErrStoreRequired = errors.New("product store required")
)
