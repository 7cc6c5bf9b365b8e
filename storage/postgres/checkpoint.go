package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/poiesic/cinevec/core"
	"github.com/poiesic/cinevec/storage"
)

type checkpointRow struct {
	Name        string    `db:"name"`
	NextOffset  int       `db:"next_offset"`
	Processed   int       `db:"processed"`
	Total       int       `db:"total"`
	Fingerprint string    `db:"fingerprint"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// CheckpointRepository implements storage.CheckpointRepository on import_checkpoints.
type CheckpointRepository struct {
	backend *Backend
}

var _ storage.CheckpointRepository = (*CheckpointRepository)(nil)

// SaveCheckpoint upserts the checkpoint row.
func (r *CheckpointRepository) SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error {
	checkpoint.UpdatedAt = time.Now().UTC()
	_, err := r.backend.db.ExecContext(ctx,
		`INSERT INTO import_checkpoints (name, next_offset, processed, total, fingerprint, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE SET next_offset = EXCLUDED.next_offset, processed = EXCLUDED.processed,
		total = EXCLUDED.total, fingerprint = EXCLUDED.fingerprint, updated_at = EXCLUDED.updated_at`,
		checkpoint.Name, checkpoint.NextOffset, checkpoint.Processed, checkpoint.Total,
		checkpoint.Fingerprint, checkpoint.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint %s: %w", checkpoint.Name, err)
	}
	return nil
}

// LoadCheckpoint returns the named checkpoint, or nil, nil if absent.
func (r *CheckpointRepository) LoadCheckpoint(ctx context.Context, name string) (*core.Checkpoint, error) {
	var row checkpointRow
	err := r.backend.db.GetContext(ctx, &row,
		`SELECT name, next_offset, processed, total, fingerprint, updated_at FROM import_checkpoints WHERE name = $1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load checkpoint %s: %w", name, err)
	}
	return &core.Checkpoint{
		Name:        row.Name,
		NextOffset:  row.NextOffset,
		Processed:   row.Processed,
		Total:       row.Total,
		Fingerprint: row.Fingerprint,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

// DeleteCheckpoint removes the named checkpoint.
func (r *CheckpointRepository) DeleteCheckpoint(ctx context.Context, name string) error {
	if _, err := r.backend.db.ExecContext(ctx, `DELETE FROM import_checkpoints WHERE name = $1`, name); err != nil {
		return fmt.Errorf("failed to delete checkpoint %s: %w", name, err)
	}
	return nil
}
