package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/poiesic/cinevec/ai/mock"
	"github.com/poiesic/cinevec/core"
	"github.com/poiesic/cinevec/storage"
	"github.com/poiesic/cinevec/storage/badger"
	"github.com/poiesic/cinevec/vectorize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbeddings records the size of every upsert call.
type countingEmbeddings struct {
	storage.EmbeddingRepository
	sizes    []int
	clearErr error
}

func (c *countingEmbeddings) UpsertEmbeddings(ctx context.Context, records ...*core.EmbeddingRecord) (int, error) {
	c.sizes = append(c.sizes, len(records))
	return c.EmbeddingRepository.UpsertEmbeddings(ctx, records...)
}

func (c *countingEmbeddings) ClearEmbeddings(ctx context.Context) error {
	if c.clearErr != nil {
		return c.clearErr
	}
	return c.EmbeddingRepository.ClearEmbeddings(ctx)
}

type fixture struct {
	repos      *badger.Repositories
	embeddings *countingEmbeddings
	embedder   *mock.MockEmbedder
	importer   *Importer
}

func setup(t *testing.T, batchSize int) *fixture {
	t.Helper()
	repos, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	f := &fixture{
		repos:      repos,
		embeddings: &countingEmbeddings{EmbeddingRepository: repos.Embeddings},
		embedder:   mock.NewMockEmbedder(),
	}
	cfg := DefaultConfig()
	cfg.BatchSize = batchSize
	f.importer = NewImporter(repos.Sources, f.embeddings, repos.Checkpoints, f.embedder, cfg)
	return f
}

func makeSources(n int) []*core.SourceRecord {
	records := make([]*core.SourceRecord, n)
	for i := range records {
		records[i] = &core.SourceRecord{
			ShowID:   fmt.Sprintf("s%04d", i),
			Type:     "Movie",
			Title:    fmt.Sprintf("Title %d", i),
			ListedIn: "Dramas",
		}
	}
	return records
}

func seed(t *testing.T, f *fixture, n int) {
	t.Helper()
	_, err := f.importer.ImportSources(context.Background(), makeSources(n), nil)
	require.NoError(t, err)
}

func TestTrain_BatchesAndProgress(t *testing.T) {
	f := setup(t, 100)
	seed(t, f, 250)

	var percents []int
	result, err := f.importer.Train(context.Background(), TrainOptions{
		OnProgress: func(p Progress) { percents = append(percents, p.Percent()) },
	})
	require.NoError(t, err)

	assert.Equal(t, []int{100, 100, 50}, f.embeddings.sizes)
	assert.Equal(t, []int{40, 80, 100}, percents)
	assert.Equal(t, 250, result.Processed)
	assert.Equal(t, 3, result.Batches)
	assert.Equal(t, 250, result.NextOffset)

	count, err := f.repos.Embeddings.CountEmbeddings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 250, count)
}

func TestTrain_StoresNormalizedDisplayFields(t *testing.T) {
	f := setup(t, 10)
	seed(t, f, 3)

	_, err := f.importer.Train(context.Background(), TrainOptions{})
	require.NoError(t, err)

	page, err := f.repos.Embeddings.FetchEmbeddings(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "Title 0", page[0].Title)
	assert.Equal(t, "Dramas", page[0].ListedIn)
	assert.InDelta(t, 1.0, vectorize.Magnitude(page[0].Embedding), 1e-6)
}

func TestImportSources_IdempotentUpsert(t *testing.T) {
	f := setup(t, 100)
	ctx := context.Background()

	_, err := f.importer.ImportSources(ctx, makeSources(3), nil)
	require.NoError(t, err)

	second := makeSources(3)
	for _, r := range second {
		r.Title += " (updated)"
	}
	_, err = f.importer.ImportSources(ctx, second, nil)
	require.NoError(t, err)

	records, err := f.repos.Sources.FetchSources(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.Contains(t, r.Title, "(updated)")
	}
}

func TestImportSources_ValidatesBeforeStorage(t *testing.T) {
	f := setup(t, 2)
	records := makeSources(3)
	records[2].ShowID = ""

	_, err := f.importer.ImportSources(context.Background(), records, nil)
	assert.ErrorIs(t, err, core.ErrValidation)

	count, err := f.repos.Sources.CountSources(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTrain_FailureAbortsAndResumes(t *testing.T) {
	f := setup(t, 100)
	seed(t, f, 250)
	ctx := context.Background()

	base := mock.NewMockEmbedder()
	boom := errors.New("embedding service down")
	calls := 0
	f.embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls == 2 {
			return nil, boom
		}
		return base.EmbedTexts(ctx, texts)
	}

	result, err := f.importer.Train(ctx, TrainOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 100, batchErr.Offset)
	assert.Equal(t, 100, result.Processed)
	assert.Equal(t, 2, calls, "failed batch must not be retried")

	checkpoint, err := f.repos.Checkpoints.LoadCheckpoint(ctx, TrainCheckpoint)
	require.NoError(t, err)
	require.NotNil(t, checkpoint)
	assert.Equal(t, 100, checkpoint.NextOffset)

	result, err = f.importer.Train(ctx, TrainOptions{Resume: true})
	require.NoError(t, err)
	assert.Equal(t, 150, result.Processed)
	assert.Equal(t, []int{100, 100, 50}, f.embeddings.sizes)

	count, err := f.repos.Embeddings.CountEmbeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 250, count)
}

func TestTrain_EncoderMismatch(t *testing.T) {
	f := setup(t, 100)
	seed(t, f, 5)
	ctx := context.Background()

	require.NoError(t, f.repos.Checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{
		Name: TrainCheckpoint, NextOffset: 5, Processed: 5, Total: 5, Fingerprint: "other-encoder",
	}))

	_, err := f.importer.Train(ctx, TrainOptions{Resume: true})
	assert.ErrorIs(t, err, ErrEncoderMismatch)

	_, err = f.importer.Train(ctx, TrainOptions{})
	assert.ErrorIs(t, err, ErrEncoderMismatch)

	result, err := f.importer.Train(ctx, TrainOptions{Clear: true})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Processed)
}

func TestTrain_ClearFailureDoesNotBlock(t *testing.T) {
	f := setup(t, 100)
	seed(t, f, 4)
	f.embeddings.clearErr = errors.New("permission denied")

	result, err := f.importer.Train(context.Background(), TrainOptions{Clear: true})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Processed)
}

func TestTrain_ResumeWithClear(t *testing.T) {
	f := setup(t, 100)
	_, err := f.importer.Train(context.Background(), TrainOptions{Resume: true, Clear: true})
	assert.ErrorIs(t, err, ErrResumeWithClear)
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestTrain_BatchSizeBounded(t *testing.T) {
	f := setup(t, 100)
	_, err := f.importer.Train(context.Background(), TrainOptions{BatchSize: MaxBatchSize + 1})
	assert.ErrorIs(t, err, ErrBatchTooLarge)
	assert.ErrorIs(t, err, core.ErrValidation)

	cfg := &Config{BatchSize: 50000}
	cfg.normalize()
	assert.Equal(t, MaxBatchSize, cfg.BatchSize)
}

func TestTrain_EmptyCatalog(t *testing.T) {
	f := setup(t, 100)
	result, err := f.importer.Train(context.Background(), TrainOptions{})
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
	assert.Empty(t, f.embeddings.sizes)
}

func TestTrain_FromOffset(t *testing.T) {
	f := setup(t, 10)
	seed(t, f, 25)

	result, err := f.importer.Train(context.Background(), TrainOptions{Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Processed)
	assert.Equal(t, []int{5}, f.embeddings.sizes)
}

func TestStoreEmbeddings_DimensionChecked(t *testing.T) {
	f := setup(t, 100)

	_, err := f.importer.StoreEmbeddings(context.Background(), []*core.EmbeddingRecord{
		{ShowID: "s1", Embedding: []float32{1, 2, 3}},
	}, nil)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Empty(t, f.embeddings.sizes)
}

func TestStoreEmbeddings_Normalizes(t *testing.T) {
	f := setup(t, 100)
	ctx := context.Background()

	vector := make([]float32, mock.DefaultDimension)
	vector[0], vector[1] = 3, 4

	result, err := f.importer.StoreEmbeddings(ctx, []*core.EmbeddingRecord{
		{ShowID: "s1", Title: "Inception", Embedding: vector},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, float32(3), vector[0], "input must not be modified")

	page, err := f.repos.Embeddings.FetchEmbeddings(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.InDelta(t, 0.6, page[0].Embedding[0], 1e-6)
	assert.InDelta(t, 0.8, page[0].Embedding[1], 1e-6)
}
