package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/cinevec/core"
	"github.com/poiesic/cinevec/storage"
)

// EmbeddingRepository implements storage.EmbeddingRepository for BadgerDB.
type EmbeddingRepository struct {
	backend *Backend
}

var _ storage.EmbeddingRepository = (*EmbeddingRepository)(nil)

// newEmbeddingRepository is an internal constructor that returns the concrete type.
func newEmbeddingRepository(backend *Backend) *EmbeddingRepository {
	return &EmbeddingRepository{backend: backend}
}

// NewEmbeddingRepository creates a new embedding repository on backend.
func NewEmbeddingRepository(backend *Backend) storage.EmbeddingRepository {
	return newEmbeddingRepository(backend)
}

// Close is a no-op; the backend is closed by its owner.
func (r *EmbeddingRepository) Close() error {
	return nil
}

// EnsureEmbeddingSchema is a no-op: key prefixes need no setup.
func (r *EmbeddingRepository) EnsureEmbeddingSchema(ctx context.Context) error {
	return nil
}

// CountEmbeddings returns the number of stored embeddings.
func (r *EmbeddingRepository) CountEmbeddings(ctx context.Context) (int, error) {
	return r.backend.CountPrefix(ctx, embeddingRecordPrefix)
}

// FetchEmbeddings returns a page of embeddings in show_id order.
func (r *EmbeddingRepository) FetchEmbeddings(ctx context.Context, limit, offset int) ([]*core.EmbeddingRecord, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", core.ErrInvalidQuery)
	}
	records := make([]*core.EmbeddingRecord, 0, min(limit, maxPageCapacity))
	err := r.backend.ScanPrefix(ctx, embeddingRecordPrefix, limit, offset, func(val []byte) error {
		record, err := storage.UnmarshalEmbeddingRecord(val)
		if err != nil {
			return err
		}
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// UpsertEmbeddings writes embeddings in one transaction, replacing whole rows.
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
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			record.CreatedAt = now
			value, err := storage.MarshalEmbeddingRecord(record)
			if err != nil {
				return err
			}
			if err := tx.Set(makeEmbeddingKey(record.ShowID), value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// ClearEmbeddings deletes every stored embedding.
func (r *EmbeddingRepository) ClearEmbeddings(ctx context.Context) error {
	return r.backend.DropPrefix(embeddingRecordPrefix)
}

// ScanEmbeddings streams every embedding in show_id order.
func (r *EmbeddingRepository) ScanEmbeddings(ctx context.Context, fn func(*core.EmbeddingRecord) error) error {
	return r.backend.ScanPrefix(ctx, embeddingRecordPrefix, -1, 0, func(val []byte) error {
		record, err := storage.UnmarshalEmbeddingRecord(val)
		if err != nil {
			return err
		}
		return fn(record)
	})
}
