package badger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/cinevec/core"
	"github.com/poiesic/cinevec/storage"
)

// SourceRepository implements storage.SourceRepository for BadgerDB.
type SourceRepository struct {
	backend *Backend
}

var _ storage.SourceRepository = (*SourceRepository)(nil)

// newSourceRepository is an internal constructor that returns the concrete type.
func newSourceRepository(backend *Backend) *SourceRepository {
	return &SourceRepository{backend: backend}
}

// NewSourceRepository creates a new source repository on backend.
func NewSourceRepository(backend *Backend) storage.SourceRepository {
	return newSourceRepository(backend)
}

// Close is a no-op; the backend is closed by its owner.
func (r *SourceRepository) Close() error {
	return nil
}

// EnsureSourceSchema is a no-op: key prefixes need no setup.
func (r *SourceRepository) EnsureSourceSchema(ctx context.Context) error {
	return nil
}

// CountSources returns the number of stored source records.
func (r *SourceRepository) CountSources(ctx context.Context) (int, error) {
	return r.backend.CountPrefix(ctx, sourceRecordPrefix)
}

// FetchSources returns a page of source records in show_id order.
func (r *SourceRepository) FetchSources(ctx context.Context, limit, offset int) ([]*core.SourceRecord, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", core.ErrInvalidQuery)
	}
	records := make([]*core.SourceRecord, 0, min(limit, maxPageCapacity))
	err := r.backend.ScanPrefix(ctx, sourceRecordPrefix, limit, offset, func(val []byte) error {
		record, err := storage.UnmarshalSourceRecord(val)
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

// UpsertSources writes records in one transaction, replacing existing rows.
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

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			value, err := storage.MarshalSourceRecord(record)
			if err != nil {
				return err
			}
			if err := tx.Set(makeSourceKey(record.ShowID), value); err != nil {
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

// ClearSources deletes every source record.
func (r *SourceRepository) ClearSources(ctx context.Context) error {
	return r.backend.DropPrefix(sourceRecordPrefix)
}
