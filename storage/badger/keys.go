package badger

// Key prefixes for different data types. Keys are prefix + show_id, so a
// prefix scan yields rows in show_id byte order.
const (
	sourceRecordPrefix    = "src:"
	embeddingRecordPrefix = "emb:"
	checkpointPrefix      = "chkpt:"
)

// maxPageCapacity caps the capacity preallocated for a fetched page.
const maxPageCapacity = 1024

// makeSourceKey generates a key for a source record.
func makeSourceKey(showID string) []byte {
	return []byte(sourceRecordPrefix + showID)
}

// makeEmbeddingKey generates a key for an embedding record.
func makeEmbeddingKey(showID string) []byte {
	return []byte(embeddingRecordPrefix + showID)
}

// makeCheckpointKey generates a key for batch-run checkpoints.
func makeCheckpointKey(name string) []byte {
	return []byte(checkpointPrefix + name)
}
