package vision

import "math"

// NormalizeVector scales v to unit length and returns the result as a new
// slice; v is never mutated. Every vector that enters a product store must
// pass through here first, so that dot-product scoring is cosine similarity
// and scores from different ingestion runs stay comparable. Zero vectors
// cannot be scaled and come back as zeros.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var sumSquares float64
	for _, component := range v {
		sumSquares += float64(component) * float64(component)
	}
	magnitude := math.Sqrt(sumSquares)

	scaled := make([]float32, len(v))
	if magnitude == 0 {
		return scaled
	}
	for i, component := range v {
		scaled[i] = float32(float64(component) / magnitude)
	}
	return scaled
}
