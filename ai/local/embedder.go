// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package local

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/cinevec/ai"
	"github.com/poiesic/cinevec/vectorize"
	"github.com/tmc/langchaingo/embeddings"
)

// Embedder implements ai.Embedder with the deterministic local encoder.
type Embedder struct {
	encoder  *vectorize.Encoder
	embedder embeddings.Embedder
	pool     *ants.Pool
	logger   *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	encoder, err := config.NewEncoder()
	if err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(config.PoolSize)
	if err != nil {
		return nil, err
	}

	e := &Embedder{
		encoder: encoder,
		pool:    pool,
		logger:  slog.Default().With("component", "local-embedder"),
	}

	embedder, err := embeddings.NewEmbedder(
		embeddings.EmbedderClientFunc(e.createEmbedding),
		embeddings.WithStripNewLines(true),
		embeddings.WithBatchSize(config.BatchSize),
	)
	if err != nil {
		pool.Release()
		return nil, err
	}
	e.embedder = embedder

	return e, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction. Callers that need to
// release the worker pool type-assert to io.Closer.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// Close releases the worker pool.
func (e *Embedder) Close() error {
	e.pool.Release()
	return nil
}

// Encoder returns the immutable encoder behind this embedder.
func (e *Embedder) Encoder() *vectorize.Encoder {
	return e.encoder
}

// Dimension is the embedding width.
func (e *Embedder) Dimension() int {
	return e.encoder.Dimension()
}

// Fingerprint identifies the encoder configuration.
func (e *Embedder) Fingerprint() string {
	return e.encoder.Fingerprint()
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, err
	}

	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result")
		return make([]float32, e.Dimension()), nil
	}

	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	// EmbedDocuments rewrites its argument in place when stripping newlines
	input := make([]string, len(texts))
	copy(input, texts)

	vectors, err := e.embedder.EmbedDocuments(ctx, input)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}

	return vectors, nil
}

// createEmbedding is the langchaingo client: it encodes one batch on the pool.
func (e *Embedder) createEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([][]float32, len(texts))
	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()
			out[i] = e.encoder.Encode(text)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
