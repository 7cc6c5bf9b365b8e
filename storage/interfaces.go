package storage

import (
	"context"

	"github.com/poiesic/cinevec/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close releases resources held by the repository. The shared backend
	// is closed by its owner, not by the repository.
	Close() error
}

// SourceRepository provides operations on the catalog (source record) table.
type SourceRepository interface {
	Repository

	// EnsureSourceSchema creates the source table if needed. Idempotent.
	EnsureSourceSchema(ctx context.Context) error

	// CountSources returns the total number of source records.
	CountSources(ctx context.Context) (int, error)

	// FetchSources returns up to limit records starting at offset, ordered by
	// show_id. Consecutive offsets over a static table have no gaps or overlaps.
	FetchSources(ctx context.Context, limit, offset int) ([]*core.SourceRecord, error)

	// UpsertSources inserts or fully replaces records sharing a show_id.
	// Duplicate keys within one call collapse to the last occurrence.
	// Returns the number of rows affected.
	UpsertSources(ctx context.Context, records ...*core.SourceRecord) (int, error)

	// ClearSources deletes every source record. Idempotent.
	ClearSources(ctx context.Context) error
}

// EmbeddingRepository provides operations on the embeddings table.
type EmbeddingRepository interface {
	Repository

	// EnsureEmbeddingSchema creates the embeddings table if needed. Idempotent.
	EnsureEmbeddingSchema(ctx context.Context) error

	// CountEmbeddings returns the total number of stored embeddings.
	CountEmbeddings(ctx context.Context) (int, error)

	// FetchEmbeddings returns up to limit embeddings starting at offset, ordered by show_id.
	FetchEmbeddings(ctx context.Context, limit, offset int) ([]*core.EmbeddingRecord, error)

	// UpsertEmbeddings inserts or fully replaces embeddings sharing a show_id.
	// CreatedAt is set to the current time on every write.
	// Returns the number of rows affected.
	UpsertEmbeddings(ctx context.Context, records ...*core.EmbeddingRecord) (int, error)

	// ClearEmbeddings deletes every stored embedding. Idempotent.
	ClearEmbeddings(ctx context.Context) error

	// ScanEmbeddings calls fn for every stored embedding in show_id order.
	// Scanning stops at the first error returned by fn or by ctx.
	ScanEmbeddings(ctx context.Context, fn func(*core.EmbeddingRecord) error) error
}

// CheckpointRepository persists batch-run checkpoints.
type CheckpointRepository interface {
	// SaveCheckpoint persists a checkpoint, stamping UpdatedAt.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint with the given name.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, name string) (*core.Checkpoint, error)

	// DeleteCheckpoint removes the named checkpoint. Missing checkpoints are not an error.
	DeleteCheckpoint(ctx context.Context, name string) error
}
