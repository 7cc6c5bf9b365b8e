// Package importer runs batched imports into the storage repositories.
//
// Three runs share one batch loop: importing catalog records, storing
// precomputed embeddings, and training (embedding every catalog record
// through the configured encoder). Batches are fetched by offset, processed,
// and committed strictly in order with one upsert per batch, so progress is
// monotonic and a failed run can be resumed from the offset carried by its
// BatchError. Upserts are idempotent per key; re-running a batch is safe.
//
// Training persists a checkpoint after every committed batch. A checkpoint
// records the encoder fingerprint, and a run whose encoder differs is refused
// unless the embeddings are cleared first.
package importer
