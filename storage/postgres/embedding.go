package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/poiesic/cinevec/core"
	"github.com/poiesic/cinevec/storage"
)

const embeddingColumnCount = 7

const selectEmbeddingsBase = `SELECT show_id, COALESCE(title, '') AS title, COALESCE(type, '') AS type,
	COALESCE(listed_in, '') AS listed_in, COALESCE(description, '') AS description,
	embedding, COALESCE(created_at, NOW()) AS created_at
	FROM netflix_embeddings ORDER BY show_id`

type embeddingRow struct {
	ShowID      string          `db:"show_id"`
	Title       string          `db:"title"`
	Type        string          `db:"type"`
	ListedIn    string          `db:"listed_in"`
	Description string          `db:"description"`
	Embedding   pq.Float64Array `db:"embedding"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (r *embeddingRow) record() *core.EmbeddingRecord {
	vector := make([]float32, len(r.Embedding))
	for i, x := range r.Embedding {
		vector[i] = float32(x)
	}
	return &core.EmbeddingRecord{
		ShowID:      r.ShowID,
		Title:       r.Title,
		Type:        r.Type,
		ListedIn:    r.ListedIn,
		Description: r.Description,
		Embedding:   vector,
		CreatedAt:   r.CreatedAt,
	}
}

func toFloat64Array(v []float32) pq.Float64Array {
	out := make(pq.Float64Array, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

// EmbeddingRepository implements storage.EmbeddingRepository on netflix_embeddings.
type EmbeddingRepository struct {
	backend *Backend
}

var _ storage.EmbeddingRepository = (*EmbeddingRepository)(nil)

// NewEmbeddingRepository creates an embedding repository on backend.
func NewEmbeddingRepository(backend *Backend) storage.EmbeddingRepository {
	return &EmbeddingRepository{backend: backend}
}

// Close is a no-op; the backend is closed by its owner.
func (r *EmbeddingRepository) Close() error {
	return nil
}

// EnsureEmbeddingSchema creates netflix_embeddings if it does not exist.
func (r *EmbeddingRepository) EnsureEmbeddingSchema(ctx context.Context) error {
	if _, err := r.backend.db.ExecContext(ctx, createEmbeddingTable); err != nil {
		return fmt.Errorf("failed to create %s: %w", embeddingTable, err)
	}
	return nil
}

// CountEmbeddings returns the number of stored embeddings.
func (r *EmbeddingRepository) CountEmbeddings(ctx context.Context) (int, error) {
	var total int
	if err := r.backend.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM netflix_embeddings"); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", embeddingTable, err)
	}
	return total, nil
}

// FetchEmbeddings returns a page of embeddings ordered by show_id.
func (r *EmbeddingRepository) FetchEmbeddings(ctx context.Context, limit, offset int) ([]*core.EmbeddingRecord, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", core.ErrInvalidQuery)
	}
	var rows []embeddingRow
	if err := r.backend.db.SelectContext(ctx, &rows, selectEmbeddingsBase+" LIMIT $1 OFFSET $2", limit, offset); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", embeddingTable, err)
	}
	records := make([]*core.EmbeddingRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].record()
	}
	return records, nil
}

// UpsertEmbeddings writes a batch with one INSERT ... ON CONFLICT statement.
func (r *EmbeddingRepository) UpsertEmbeddings(ctx context.Context, records ...*core.EmbeddingRecord) (int, error) {
	for _, record := range records {
		if err := core.ValidateEmbeddingRecord(record, 0); err != nil {
			return 0, err
		}
	}
	records = storage.DedupeEmbeddings(records)
	if len(records) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	args := make([]any, 0, len(records)*embeddingColumnCount)
	values := make([]string, len(records))
	for i, rec := range records {
		rec.CreatedAt = now
		values[i] = placeholders(i*embeddingColumnCount, embeddingColumnCount)
		args = append(args, rec.ShowID, rec.Title, rec.Type, rec.ListedIn, rec.Description,
			toFloat64Array(rec.Embedding), rec.CreatedAt)
	}

	query := `INSERT INTO netflix_embeddings (show_id, title, type, listed_in, description, embedding, created_at) VALUES ` +
		strings.Join(values, ", ") +
		` ON CONFLICT (show_id) DO UPDATE SET title = EXCLUDED.title, type = EXCLUDED.type,` +
		` listed_in = EXCLUDED.listed_in, description = EXCLUDED.description,` +
		` embedding = EXCLUDED.embedding, created_at = EXCLUDED.created_at`

	result, err := r.backend.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert %s: %w", embeddingTable, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// ClearEmbeddings deletes every stored embedding.
func (r *EmbeddingRepository) ClearEmbeddings(ctx context.Context) error {
	if _, err := r.backend.db.ExecContext(ctx, "DELETE FROM netflix_embeddings"); err != nil {
		return fmt.Errorf("failed to clear %s: %w", embeddingTable, err)
	}
	return nil
}

// ScanEmbeddings streams every embedding ordered by show_id.
func (r *EmbeddingRepository) ScanEmbeddings(ctx context.Context, fn func(*core.EmbeddingRecord) error) error {
	rows, err := r.backend.db.QueryxContext(ctx, selectEmbeddingsBase)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", embeddingTable, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var row embeddingRow
		if err := rows.StructScan(&row); err != nil {
			return fmt.Errorf("failed to scan %s: %w", embeddingTable, err)
		}
		if err := fn(row.record()); err != nil {
			return err
		}
	}
	return rows.Err()
}
