package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/poiesic/cinevec/storage"
)

const (
	sourceTable     = "netflix_titles"
	embeddingTable  = "netflix_embeddings"
	checkpointTable = "import_checkpoints"
)

const createSourceTable = `CREATE TABLE IF NOT EXISTS netflix_titles (
	show_id TEXT PRIMARY KEY,
	type TEXT,
	title TEXT,
	director TEXT,
	"cast" TEXT,
	country TEXT,
	date_added TEXT,
	release_year INTEGER,
	rating TEXT,
	duration TEXT,
	listed_in TEXT,
	description TEXT
)`

const createEmbeddingTable = `CREATE TABLE IF NOT EXISTS netflix_embeddings (
	id SERIAL PRIMARY KEY,
	show_id TEXT NOT NULL UNIQUE,
	title TEXT,
	type TEXT,
	listed_in TEXT,
	description TEXT,
	embedding DOUBLE PRECISION[] NOT NULL,
	created_at TIMESTAMP DEFAULT NOW()
)`

const createCheckpointTable = `CREATE TABLE IF NOT EXISTS import_checkpoints (
	name TEXT PRIMARY KEY,
	next_offset INTEGER NOT NULL,
	processed INTEGER NOT NULL,
	total INTEGER NOT NULL,
	fingerprint TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// Columns that older deployments created with bounded types.
var driftColumns = []string{"show_id", "type", "rating", "duration"}

// SQLSTATE codes that indicate a column narrower than the incoming data.
const (
	codeStringDataRightTruncation = "22001"
	codeDatatypeMismatch          = "42804"
)

// isSchemaDrift reports whether err is a column type or length mismatch.
func isSchemaDrift(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == codeStringDataRightTruncation || pqErr.Code == codeDatatypeMismatch
}

// repairSourceSchema widens the drift-prone columns of netflix_titles to TEXT.
// Altering a column that is already TEXT is a no-op.
func (b *Backend) repairSourceSchema(ctx context.Context) error {
	for _, column := range driftColumns {
		stmt := fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE TEXT", sourceTable, column)
		if _, err := b.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: %s: %w", storage.ErrSchemaRepairFailed, column, err)
		}
	}
	b.logger.Warn("widened source columns to TEXT", "table", sourceTable, "columns", driftColumns)
	return nil
}
