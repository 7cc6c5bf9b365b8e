package vectorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorize_KnownBins(t *testing.T) {
	// 'a'=97, 'b'=98
	// a at 0: (97*31+0)%256 = 191, bigram (97*98+0)%256 = 34
	// b at 1: (98*31+7)%256 = 229
	v := Vectorize("ab", 256)
	require.Len(t, v, 256)

	assert.Equal(t, float32(1), v[191])
	assert.Equal(t, float32(0.5), v[34])
	assert.Equal(t, float32(1), v[229])

	var total float32
	for _, x := range v {
		total += x
	}
	assert.Equal(t, float32(2.5), total)
}

func TestVectorize_PositionRestartsPerWord(t *testing.T) {
	assert.Equal(t, Vectorize("ab ab", 256), scale(Vectorize("ab", 256), 2))
}

func TestVectorize_Deterministic(t *testing.T) {
	text := NormalizeText("Sci-Fi Thriller South Korea")
	assert.Equal(t, Vectorize(text, 256), Vectorize(text, 256))
}

func TestVectorize_EmptyIsZero(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		v := Vectorize(text, 256)
		assert.True(t, IsZero(v), "expected zero vector for %q", text)
	}
}

func TestVectorize_NonPositiveWidth(t *testing.T) {
	assert.Empty(t, Vectorize("abc", 0))
}

func TestScaleToMax(t *testing.T) {
	assert.Equal(t, []float32{1, 0.5, 0}, ScaleToMax([]float32{4, 2, 0}))
	assert.Equal(t, []float32{0.5, 0}, ScaleToMax([]float32{0.5, 0}), "max below 1 divides by 1")
	assert.Equal(t, []float32{0, 0}, ScaleToMax([]float32{0, 0}))
}

func scale(v []float32, k float32) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x * k
	}
	return out
}
