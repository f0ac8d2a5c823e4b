package mock

import (
	"context"
	"hash/fnv"

	"github.com/poiesic/vitrine/vision"
)

// MockEmbedder is a test double for vision.ImageEmbedder.
// It allows custom behavior injection via function fields.
type MockEmbedder struct {
	// EmbedImageFunc is called by EmbedImage if set.
	// If nil, uses default deterministic behavior.
	EmbedImageFunc func(ctx context.Context, imageURL string) ([]float32, error)

	dim       int
	callCount int
}

var _ vision.ImageEmbedder = (*MockEmbedder)(nil)

// NewMockEmbedder creates a mock embedder producing vectors of the given
// dimension with default deterministic behavior.
// Note: Returns concrete type to allow test assertions and behavior injection.
func NewMockEmbedder(dim int) *MockEmbedder {
	if dim <= 0 {
		dim = 768
	}
	return &MockEmbedder{dim: dim}
}

// Dim returns the configured embedding dimension.
func (m *MockEmbedder) Dim() int {
	return m.dim
}

// EmbedImage generates a deterministic embedding based on the URL hash.
func (m *MockEmbedder) EmbedImage(ctx context.Context, imageURL string) ([]float32, error) {
	m.callCount++

	if m.EmbedImageFunc != nil {
		return m.EmbedImageFunc(ctx, imageURL)
	}

	return generateDeterministicVector(imageURL, m.dim), nil
}

// CallCount returns the number of times EmbedImage was called.
func (m *MockEmbedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockEmbedder) Reset() {
	m.callCount = 0
	m.EmbedImageFunc = nil
}

// generateDeterministicVector creates a deterministic embedding vector from
// an image URL. It uses FNV hash so the same URL always produces the same
// vector.
func generateDeterministicVector(imageURL string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(imageURL))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		// Simple pseudo-random generation based on seed and index
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000) / 1000.0
	}

	// Normalize to unit length so cosine similarity behaves in tests
	var sumSquares float32
	for _, v := range vector {
		sumSquares += v * v
	}
	if sumSquares > 0 {
		norm := float32(1.0) / float32(sumSquares)
		for i := range vector {
			vector[i] *= norm
		}
	}

	return vector
}
