// Package mock provides test double implementations of the vision service
// interfaces.
//
// The mock embedder allows tests (and offline pipeline runs) to operate
// without a model server. Defaults are deterministic: the same image URL
// always produces the same vector.
//
//	// Basic usage with default behavior
//	embedder := mock.NewMockEmbedder(768)
//	vector, err := embedder.EmbedImage(ctx, "https://cdn.example/img.jpg")
//
//	// Failure injection
//	embedder.EmbedImageFunc = func(ctx context.Context, url string) ([]float32, error) {
//	    return nil, errors.New("inference down")
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
package mock
