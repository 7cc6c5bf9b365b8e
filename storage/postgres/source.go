package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/poiesic/cinevec/core"
	"github.com/poiesic/cinevec/storage"
)

var sourceColumns = []string{
	"show_id", "type", "title", "director", `"cast"`, "country",
	"date_added", "release_year", "rating", "duration", "listed_in", "description",
}

const selectSources = `SELECT show_id, COALESCE(type, '') AS type, COALESCE(title, '') AS title,
	COALESCE(director, '') AS director, COALESCE("cast", '') AS "cast", COALESCE(country, '') AS country,
	COALESCE(date_added, '') AS date_added, release_year, COALESCE(rating, '') AS rating,
	COALESCE(duration, '') AS duration, COALESCE(listed_in, '') AS listed_in,
	COALESCE(description, '') AS description
	FROM netflix_titles ORDER BY show_id LIMIT $1 OFFSET $2`

type sourceRow struct {
	ShowID      string        `db:"show_id"`
	Type        string        `db:"type"`
	Title       string        `db:"title"`
	Director    string        `db:"director"`
	Cast        string        `db:"cast"`
	Country     string        `db:"country"`
	DateAdded   string        `db:"date_added"`
	ReleaseYear sql.NullInt64 `db:"release_year"`
	Rating      string        `db:"rating"`
	Duration    string        `db:"duration"`
	ListedIn    string        `db:"listed_in"`
	Description string        `db:"description"`
}

func (r *sourceRow) record() *core.SourceRecord {
	record := &core.SourceRecord{
		ShowID:      r.ShowID,
		Type:        r.Type,
		Title:       r.Title,
		Director:    r.Director,
		Cast:        r.Cast,
		Country:     r.Country,
		DateAdded:   r.DateAdded,
		Rating:      r.Rating,
		Duration:    r.Duration,
		ListedIn:    r.ListedIn,
		Description: r.Description,
	}
	if r.ReleaseYear.Valid {
		year := int(r.ReleaseYear.Int64)
		record.ReleaseYear = &year
	}
	return record
}

// SourceRepository implements storage.SourceRepository on netflix_titles.
type SourceRepository struct {
	backend *Backend
}

var _ storage.SourceRepository = (*SourceRepository)(nil)

// NewSourceRepository creates a source repository on backend.
func NewSourceRepository(backend *Backend) storage.SourceRepository {
	return &SourceRepository{backend: backend}
}

// Close is a no-op; the backend is closed by its owner.
func (r *SourceRepository) Close() error {
	return nil
}

// EnsureSourceSchema creates netflix_titles if it does not exist.
func (r *SourceRepository) EnsureSourceSchema(ctx context.Context) error {
	if _, err := r.backend.db.ExecContext(ctx, createSourceTable); err != nil {
		return fmt.Errorf("failed to create %s: %w", sourceTable, err)
	}
	return nil
}

// CountSources returns the number of catalog rows.
func (r *SourceRepository) CountSources(ctx context.Context) (int, error) {
	var total int
	if err := r.backend.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM netflix_titles"); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", sourceTable, err)
	}
	return total, nil
}

// FetchSources returns a page of catalog rows ordered by show_id.
func (r *SourceRepository) FetchSources(ctx context.Context, limit, offset int) ([]*core.SourceRecord, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", core.ErrInvalidQuery)
	}
	var rows []sourceRow
	if err := r.backend.db.SelectContext(ctx, &rows, selectSources, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", sourceTable, err)
	}
	records := make([]*core.SourceRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].record()
	}
	return records, nil
}

// UpsertSources writes a batch with one INSERT ... ON CONFLICT statement.
// On a column type or length error the drift-prone columns are widened and
// the statement is retried once.
func (r *SourceRepository) UpsertSources(ctx context.Context, records ...*core.SourceRecord) (int, error) {
	for _, record := range records {
		if err := core.ValidateSourceRecord(record); err != nil {
			return 0, err
		}
	}
	records = storage.DedupeSources(records)
	if len(records) == 0 {
		return 0, nil
	}

	query, args := buildSourceUpsert(records)
	n, err := r.exec(ctx, query, args)
	if err == nil {
		return n, nil
	}
	if !isSchemaDrift(err) {
		return 0, fmt.Errorf("failed to upsert %s: %w", sourceTable, err)
	}

	r.backend.logger.Warn("source upsert hit schema drift, repairing", "err", err)
	if repairErr := r.backend.repairSourceSchema(ctx); repairErr != nil {
		return 0, repairErr
	}
	n, err = r.exec(ctx, query, args)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert %s after schema repair: %w", sourceTable, err)
	}
	return n, nil
}

func (r *SourceRepository) exec(ctx context.Context, query string, args []any) (int, error) {
	result, err := r.backend.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// ClearSources deletes every catalog row.
func (r *SourceRepository) ClearSources(ctx context.Context) error {
	if _, err := r.backend.db.ExecContext(ctx, "DELETE FROM netflix_titles"); err != nil {
		return fmt.Errorf("failed to clear %s: %w", sourceTable, err)
	}
	return nil
}

func buildSourceUpsert(records []*core.SourceRecord) (string, []any) {
	args := make([]any, 0, len(records)*len(sourceColumns))
	values := make([]string, len(records))
	for i, r := range records {
		values[i] = placeholders(i*len(sourceColumns), len(sourceColumns))
		args = append(args,
			r.ShowID, r.Type, r.Title, r.Director, r.Cast, r.Country,
			r.DateAdded, r.ReleaseYear, r.Rating, r.Duration, r.ListedIn, r.Description,
		)
	}

	updates := make([]string, 0, len(sourceColumns)-1)
	for _, column := range sourceColumns[1:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", column, column))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s ON CONFLICT (show_id) DO UPDATE SET %s",
		sourceTable,
		strings.Join(sourceColumns, ", "),
		strings.Join(values, ", "),
		strings.Join(updates, ", "),
	)
	return query, args
}

// placeholders renders ($start+1, ..., $start+n).
func placeholders(start, n int) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i := 1; i <= n; i++ {
		if i > 1 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "$%d", start+i)
	}
	sb.WriteByte(')')
	return sb.String()
}
