// Package postgres implements the storage repositories on PostgreSQL.
//
// Catalog rows live in netflix_titles and embeddings in netflix_embeddings,
// with the vector stored as DOUBLE PRECISION[]. Batches are written with a
// single multi-row INSERT ... ON CONFLICT (show_id) DO UPDATE statement.
//
// When a catalog upsert fails because a column was created with a narrower
// type (VARCHAR(n) and friends), the repository widens the affected columns
// to TEXT once and retries the batch once.
package postgres
