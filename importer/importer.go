// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/cinevec/ai"
	"github.com/poiesic/cinevec/core"
	"github.com/poiesic/cinevec/storage"
)

// Table names used in progress, errors and metrics.
const (
	SourceTable    = "netflix_titles"
	EmbeddingTable = "netflix_embeddings"
)

// Recorder observes committed and failed batches.
type Recorder interface {
	BatchCommitted(table string, records int)
	BatchFailed(table string)
	Progress(table string, ratio float64)
}

type nopRecorder struct{}

func (nopRecorder) BatchCommitted(string, int) {}
func (nopRecorder) BatchFailed(string)         {}
func (nopRecorder) Progress(string, float64)   {}

// Result summarizes a run.
type Result struct {
	Processed  int `json:"processed"`
	Affected   int `json:"affected"`
	Batches    int `json:"batches"`
	NextOffset int `json:"next_offset"`
	Total      int `json:"total"`
}

// TrainOptions controls a training run.
type TrainOptions struct {
	// Offset is the first catalog row to embed. Ignored when Resume is set.
	Offset int

	// BatchSize overrides the configured batch size when positive.
	BatchSize int

	// Clear removes every stored embedding and the checkpoint before starting.
	Clear bool

	// Resume continues from the stored checkpoint.
	Resume bool

	// OnProgress receives a snapshot after every committed batch.
	OnProgress ProgressFunc
}

// Importer orchestrates batched imports.
type Importer struct {
	sources     storage.SourceRepository
	embeddings  storage.EmbeddingRepository
	checkpoints storage.CheckpointRepository
	embedder    ai.Embedder
	config      *Config
	progress    io.Writer
	recorder    Recorder
	logger      *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithProgressWriter sets where the progress line is written (typically os.Stderr).
func WithProgressWriter(w io.Writer) Option {
	return func(im *Importer) {
		im.progress = w
	}
}

// WithRecorder sets a batch observer.
func WithRecorder(r Recorder) Option {
	return func(im *Importer) {
		if r != nil {
			im.recorder = r
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(im *Importer) {
		if logger != nil {
			im.logger = logger
		}
	}
}

// NewImporter creates a new importer.
func NewImporter(
	sources storage.SourceRepository,
	embeddings storage.EmbeddingRepository,
	checkpoints storage.CheckpointRepository,
	embedder ai.Embedder,
	config *Config,
	opts ...Option,
) *Importer {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	cfg.normalize()

	im := &Importer{
		sources:     sources,
		embeddings:  embeddings,
		checkpoints: checkpoints,
		embedder:    embedder,
		config:      &cfg,
		recorder:    nopRecorder{},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportSources upserts catalog records in batches.
// Every record is validated before the first storage call.
func (im *Importer) ImportSources(ctx context.Context, records []*core.SourceRecord, onProgress ProgressFunc) (*Result, error) {
	for i, record := range records {
		if err := core.ValidateSourceRecord(record); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return run(ctx, im, runSpec[*core.SourceRecord]{
		table:      SourceTable,
		fetch:      SliceFetcher(records),
		total:      len(records),
		batchSize:  im.config.BatchSize,
		processor:  NewSourceBatchProcessor(im.sources),
		onProgress: onProgress,
	})
}

// StoreEmbeddings upserts precomputed embeddings in batches.
// Every vector must have the encoder's dimension and is L2-normalized before storage.
func (im *Importer) StoreEmbeddings(ctx context.Context, records []*core.EmbeddingRecord, onProgress ProgressFunc) (*Result, error) {
	for i, record := range records {
		if err := core.ValidateEmbeddingRecord(record, im.embedder.Dimension()); err != nil {
			return nil, fmt.Errorf("embedding %d: %w", i, err)
		}
	}
	return run(ctx, im, runSpec[*core.EmbeddingRecord]{
		table:      EmbeddingTable,
		fetch:      SliceFetcher(records),
		total:      len(records),
		batchSize:  im.config.BatchSize,
		processor:  NewStoreBatchProcessor(im.embeddings),
		onProgress: onProgress,
	})
}

// Train embeds every catalog record from the start offset and upserts the vectors.
func (im *Importer) Train(ctx context.Context, opts TrainOptions) (*Result, error) {
	if opts.Resume && opts.Clear {
		return nil, ErrResumeWithClear
	}
	if opts.Offset < 0 {
		return nil, ErrInvalidOffset
	}
	if opts.BatchSize > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}
	batchSize := im.config.BatchSize
	if opts.BatchSize > 0 {
		batchSize = opts.BatchSize
	}

	if opts.Clear {
		im.clear(ctx)
	}

	fingerprint := im.embedder.Fingerprint()
	checkpoint, err := im.checkpoints.LoadCheckpoint(ctx, TrainCheckpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if checkpoint != nil && checkpoint.Fingerprint != fingerprint {
		return nil, fmt.Errorf("%w: stored %s, current %s", ErrEncoderMismatch, checkpoint.Fingerprint, fingerprint)
	}

	offset := opts.Offset
	if opts.Resume && checkpoint != nil {
		offset = checkpoint.NextOffset
		im.logger.Info("resuming training", "offset", offset, "processed", checkpoint.Processed)
	}

	total, err := im.sources.CountSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count source records: %w", err)
	}

	return run(ctx, im, runSpec[*core.SourceRecord]{
		table:      EmbeddingTable,
		fetch:      im.sources.FetchSources,
		offset:     offset,
		total:      total,
		batchSize:  batchSize,
		processor:  NewEmbeddingBatchProcessor(im.embeddings, im.embedder),
		onProgress: opts.OnProgress,
		checkpoint: func(ctx context.Context, p Progress, next int) error {
			return im.checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{
				Name:        TrainCheckpoint,
				NextOffset:  next,
				Processed:   p.Processed,
				Total:       p.Total,
				Fingerprint: fingerprint,
			})
		},
	})
}

// clear removes stored embeddings and the training checkpoint.
// Failures are logged and never block the import pass that follows.
func (im *Importer) clear(ctx context.Context) {
	if err := im.embeddings.ClearEmbeddings(ctx); err != nil {
		im.logger.Warn("failed to clear embeddings, continuing", "err", err)
	}
	if err := im.checkpoints.DeleteCheckpoint(ctx, TrainCheckpoint); err != nil {
		im.logger.Warn("failed to delete checkpoint, continuing", "err", err)
	}
}

type runSpec[T any] struct {
	table      string
	fetch      FetchFunc[T]
	offset     int
	total      int
	batchSize  int
	processor  BatchProcessor[T]
	onProgress ProgressFunc
	checkpoint func(ctx context.Context, p Progress, next int) error
}

// run is the shared batch loop. Batches are fetched, processed and committed
// one at a time; the first failure stops the run with a *BatchError.
func run[T any](ctx context.Context, im *Importer, spec runSpec[T]) (*Result, error) {
	result := &Result{NextOffset: spec.offset, Total: spec.total}
	if spec.total == 0 || spec.offset >= spec.total {
		im.logger.Info("nothing to import", "table", spec.table, "total", spec.total, "offset", spec.offset)
		return result, nil
	}

	im.logger.Info("starting import", "table", spec.table, "total", spec.total,
		"offset", spec.offset, "batchSize", spec.batchSize)

	tracker := NewProgressTracker(im.progress, spec.total, im.config.ReportInterval)
	tracker.Start(spec.offset)
	iter := NewPageIterator(spec.fetch, spec.batchSize, spec.offset, spec.total)

	for {
		offset := iter.Offset()
		batch, affected, err := runBatch(ctx, im.config.BatchTimeout, iter, spec.processor)
		if err != nil {
			im.recorder.BatchFailed(spec.table)
			im.logger.Error("batch failed", "table", spec.table, "offset", offset, "err", err)
			return result, &BatchError{
				Table:     spec.table,
				Offset:    offset,
				Size:      len(batch),
				Processed: result.Processed,
				Err:       err,
			}
		}
		if len(batch) == 0 {
			break
		}

		result.Processed += len(batch)
		result.Affected += affected
		result.Batches++
		result.NextOffset = iter.Offset()

		p := Progress{
			Table:     spec.table,
			Processed: result.NextOffset,
			Total:     spec.total,
			Batches:   result.Batches,
		}
		im.recorder.BatchCommitted(spec.table, len(batch))
		im.recorder.Progress(spec.table, p.Ratio())
		tracker.Update(p.Processed)
		if spec.onProgress != nil {
			spec.onProgress(p)
		}
		im.logger.Debug("batch committed", "table", spec.table, "offset", offset,
			"size", len(batch), "percent", p.Percent())

		if spec.checkpoint != nil {
			if err := spec.checkpoint(ctx, p, result.NextOffset); err != nil {
				im.logger.Warn("failed to save checkpoint", "table", spec.table, "err", err)
			}
		}
	}

	tracker.Finish()
	elapsed := tracker.Elapsed()
	im.logger.Info("import complete", "table", spec.table, "processed", result.Processed,
		"batches", result.Batches, "elapsed", elapsed.Round(time.Millisecond))

	return result, nil
}

// runBatch fetches and processes one batch under the batch timeout.
func runBatch[T any](ctx context.Context, timeout time.Duration, iter *PageIterator[T], processor BatchProcessor[T]) ([]T, int, error) {
	batchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	batch, err := iter.Next(batchCtx)
	if err != nil || len(batch) == 0 {
		return batch, 0, err
	}

	affected, err := processor.Process(batchCtx, batch)
	if err != nil {
		return batch, 0, err
	}
	return batch, affected, nil
}
