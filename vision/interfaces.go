package vision

import "context"

// ImageEmbedder generates vector embeddings from product images for visual
// similarity search. Implementations must be thread-safe for concurrent use
// and must be cheap to invoke after construction: any expensive model or
// connection state is built once and reused for all calls.
type ImageEmbedder interface {
	// EmbedImage generates a vector embedding for the image at the given URL.
	// The returned vector summarizes the visual content of the image and has
	// exactly Dim() elements.
	// Returns an error if download, decoding, or inference fails; the error
	// is never accompanied by a partial vector.
	EmbedImage(ctx context.Context, imageURL string) ([]float32, error)

	// Dim returns the fixed dimension of vectors produced by this embedder.
	Dim() int
}
