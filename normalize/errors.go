package normalize

import "errors"

var (
	// ErrMissingExternalID indicates a listing with no usable identifier.
	ErrMissingExternalID = errors.New("missing external id")

	// ErrMissingImage indicates a listing with neither a primary image nor
	// an images list entry.
	ErrMissingImage = errors.New("missing image")

	// ErrMissingTitle indicates a listing whose name is empty after trimming.
	ErrMissingTitle = errors.New("missing title")
)
