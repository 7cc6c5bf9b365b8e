package storage

import "github.com/poiesic/cinevec/core"

// DedupeSources collapses records sharing a show_id to the last occurrence,
// keeping the surviving records in their original relative order.
func DedupeSources(records []*core.SourceRecord) []*core.SourceRecord {
	return dedupe(records, func(r *core.SourceRecord) string { return r.ShowID })
}

// DedupeEmbeddings collapses embeddings sharing a show_id to the last occurrence.
func DedupeEmbeddings(records []*core.EmbeddingRecord) []*core.EmbeddingRecord {
	return dedupe(records, func(r *core.EmbeddingRecord) string { return r.ShowID })
}

func dedupe[T any](records []T, key func(T) string) []T {
	last := make(map[string]int, len(records))
	for i, r := range records {
		last[key(r)] = i
	}
	if len(last) == len(records) {
		return records
	}
	out := make([]T, 0, len(last))
	for i, r := range records {
		if last[key(r)] == i {
			out = append(out, r)
		}
	}
	return out
}
