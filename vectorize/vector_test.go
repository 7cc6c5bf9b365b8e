package vectorize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVector(t *testing.T) {
	tests := []struct {
		name     string
		input    []float32
		expected []float32
	}{
		{
			name:     "simple vector",
			input:    []float32{3.0, 4.0},
			expected: []float32{0.6, 0.8},
		},
		{
			name:     "already normalized",
			input:    []float32{1.0, 0.0, 0.0},
			expected: []float32{1.0, 0.0, 0.0},
		},
		{
			name:     "negative values",
			input:    []float32{-3.0, 4.0},
			expected: []float32{-0.6, 0.8},
		},
		{
			name:     "zero vector",
			input:    []float32{0.0, 0.0, 0.0},
			expected: []float32{0.0, 0.0, 0.0},
		},
		{
			name:     "empty vector",
			input:    []float32{},
			expected: []float32{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeVector(tt.input)
			assert.Len(t, result, len(tt.expected))
			for i := range tt.expected {
				assert.InDelta(t, tt.expected[i], result[i], 1e-6)
			}
		})
	}
}

func TestNormalizeVector_DoesNotModifyInput(t *testing.T) {
	input := []float32{3.0, 4.0}
	_ = NormalizeVector(input)
	assert.Equal(t, []float32{3.0, 4.0}, input)
}

func TestNormalizeVector_Idempotent(t *testing.T) {
	inputs := [][]float32{
		{1, 2, 3, 4, 5},
		{0.001, 0.002},
		{-7, 0, 7, 1e3},
	}
	for _, in := range inputs {
		once := NormalizeVector(in)
		twice := NormalizeVector(once)
		assert.InDelta(t, 1.0, Magnitude(once), 1e-6)
		for i := range once {
			assert.InDelta(t, once[i], twice[i], 1e-6)
		}
	}
}

func TestNormalizeVector_ZeroNeverNaN(t *testing.T) {
	for _, x := range NormalizeVector(make([]float32, 128)) {
		assert.False(t, math.IsNaN(float64(x)) || math.IsInf(float64(x), 0))
		assert.Equal(t, float32(0), x)
	}
}

func TestDot(t *testing.T) {
	assert.InDelta(t, 11.0, Dot([]float32{1, 2}, []float32{3, 4}), 1e-6)
	assert.InDelta(t, 1.0, Dot([]float32{1, 2, 3}, []float32{1}), 1e-6, "extra components are ignored")
	assert.Equal(t, float32(0), Dot(nil, []float32{1}))
}

func TestIsZero(t *testing.T) {
	assert.True(t, IsZero(nil))
	assert.True(t, IsZero([]float32{0, 0}))
	assert.False(t, IsZero([]float32{0, 1e-9}))
}
