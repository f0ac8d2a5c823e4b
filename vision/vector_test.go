package vision

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func vectorLength(v []float32) float64 {
	var sumSquares float64
	for _, component := range v {
		sumSquares += float64(component) * float64(component)
	}
	return math.Sqrt(sumSquares)
}

func TestNormalizeVector(t *testing.T) {
	tests := []struct {
		name  string
		input []float32
	}{
		{"already unit length", []float32{1, 0, 0}},
		{"needs scaling", []float32{3, 4}},
		{"negative components", []float32{-1, 2, -3}},
		{"tiny components", []float32{1e-4, 2e-4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeVector(tt.input)
			assert.InDelta(t, 1.0, vectorLength(result), 0.0001)
		})
	}
}

func TestNormalizeVector_ZeroVector(t *testing.T) {
	result := NormalizeVector([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, result)
}

func TestNormalizeVector_Empty(t *testing.T) {
	assert.Empty(t, NormalizeVector(nil))
}

func TestNormalizeVector_DoesNotMutateInput(t *testing.T) {
	input := []float32{3, 4}
	NormalizeVector(input)
	assert.Equal(t, []float32{3, 4}, input)
}
