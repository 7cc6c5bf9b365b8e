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


package importer

import (
	"context"
	"fmt"

	"github.com/poiesic/cinevec/ai"
	"github.com/poiesic/cinevec/core"
	"github.com/poiesic/cinevec/storage"
	"github.com/poiesic/cinevec/vectorize"
)

// BatchProcessor commits one batch with a single upsert and reports rows affected.
type BatchProcessor[T any] interface {
	Process(ctx context.Context, batch []T) (int, error)
}

// SourceBatchProcessor upserts catalog records.
type SourceBatchProcessor struct {
	repo storage.SourceRepository
}

// NewSourceBatchProcessor creates a processor writing to repo.
func NewSourceBatchProcessor(repo storage.SourceRepository) *SourceBatchProcessor {
	return &SourceBatchProcessor{repo: repo}
}

// Process upserts the batch.
func (bp *SourceBatchProcessor) Process(ctx context.Context, records []*core.SourceRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	n, err := bp.repo.UpsertSources(ctx, records...)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert source records: %w", err)
	}
	return n, nil
}

// EmbeddingBatchProcessor embeds catalog records and upserts the vectors.
type EmbeddingBatchProcessor struct {
	repo     storage.EmbeddingRepository
	embedder ai.Embedder
}

// NewEmbeddingBatchProcessor creates a processor embedding with embedder and writing to repo.
func NewEmbeddingBatchProcessor(repo storage.EmbeddingRepository, embedder ai.Embedder) *EmbeddingBatchProcessor {
	return &EmbeddingBatchProcessor{
		repo:     repo,
		embedder: embedder,
	}
}

// Process generates embeddings for a batch of records and upserts them.
// Vectors are normalized after embedding so similarity is a plain dot product.
func (bp *EmbeddingBatchProcessor) Process(ctx context.Context, records []*core.SourceRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = vectorize.RecordText(record)
	}

	embeddings, err := bp.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to generate embeddings: %w", err)
	}

	if len(embeddings) != len(records) {
		return 0, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(records), len(embeddings))
	}

	out := make([]*core.EmbeddingRecord, len(records))
	for i, record := range records {
		out[i] = core.NewEmbeddingRecord(record, vectorize.NormalizeVector(embeddings[i]))
	}

	n, err := bp.repo.UpsertEmbeddings(ctx, out...)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert embeddings: %w", err)
	}
	return n, nil
}

// StoreBatchProcessor upserts precomputed embeddings after normalizing them.
type StoreBatchProcessor struct {
	repo storage.EmbeddingRepository
}

// NewStoreBatchProcessor creates a processor writing to repo.
func NewStoreBatchProcessor(repo storage.EmbeddingRepository) *StoreBatchProcessor {
	return &StoreBatchProcessor{repo: repo}
}

// Process normalizes and upserts the batch.
func (bp *StoreBatchProcessor) Process(ctx context.Context, records []*core.EmbeddingRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	out := make([]*core.EmbeddingRecord, len(records))
	for i, record := range records {
		normalized := *record
		normalized.Embedding = vectorize.NormalizeVector(record.Embedding)
		out[i] = &normalized
	}
	n, err := bp.repo.UpsertEmbeddings(ctx, out...)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert embeddings: %w", err)
	}
	return n, nil
}
