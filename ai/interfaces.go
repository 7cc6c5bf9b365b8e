package ai

import "context"

// Embedder generates vector embeddings from text for similarity ranking.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector is unit-norm, or all zeros when the text carries no features.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension is the length of every returned vector.
	Dimension() int

	// Fingerprint identifies the embedding configuration. Vectors from
	// embedders with different fingerprints must never be compared.
	Fingerprint() string
}
