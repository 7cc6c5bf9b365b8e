package search

import (
	"context"
	"math"
	"testing"

	"github.com/poiesic/cinevec/core"
	"github.com/poiesic/cinevec/storage"
	"github.com/poiesic/cinevec/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEmbeddings(t *testing.T, records ...*core.EmbeddingRecord) storage.EmbeddingRepository {
	t.Helper()
	repos, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	if len(records) > 0 {
		_, err = repos.Embeddings.UpsertEmbeddings(context.Background(), records...)
		require.NoError(t, err)
	}
	return repos.Embeddings
}

func newRanker(t *testing.T, repo storage.EmbeddingRepository) *Ranker {
	t.Helper()
	r, err := NewRanker(repo, nil)
	require.NoError(t, err)
	return r
}

// unit returns a unit vector whose dot product with (1, 0) is cos.
func unit(cos float32) []float32 {
	return []float32{cos, float32(math.Sqrt(float64(1 - cos*cos)))}
}

func ids(results []*core.RankedResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ShowID
	}
	return out
}

func TestRank_TopK(t *testing.T) {
	repo := setupEmbeddings(t,
		&core.EmbeddingRecord{ShowID: "A", Title: "Arrival", Embedding: unit(0.9)},
		&core.EmbeddingRecord{ShowID: "B", Title: "Bird Box", Embedding: unit(0.5)},
		&core.EmbeddingRecord{ShowID: "C", Title: "Cargo", Embedding: unit(0.8)},
	)

	results, err := newRanker(t, repo).Rank(context.Background(), []float32{1, 0}, Filter{}, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, ids(results))
	assert.Equal(t, 0.9, results[0].Similarity)
	assert.Equal(t, 0.8, results[1].Similarity)
	assert.Equal(t, "Arrival", results[0].Title)
}

func TestRank_TiesKeepKeyOrder(t *testing.T) {
	repo := setupEmbeddings(t,
		&core.EmbeddingRecord{ShowID: "s3", Embedding: []float32{1, 0}},
		&core.EmbeddingRecord{ShowID: "s1", Embedding: []float32{1, 0}},
		&core.EmbeddingRecord{ShowID: "s2", Embedding: []float32{1, 0}},
	)

	results, err := newRanker(t, repo).Rank(context.Background(), []float32{1, 0}, Filter{}, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "s3"}, ids(results))
}

func TestRank_ScoresClampedAndRounded(t *testing.T) {
	repo := setupEmbeddings(t,
		&core.EmbeddingRecord{ShowID: "neg", Embedding: []float32{-1, 0}},
		&core.EmbeddingRecord{ShowID: "pos", Embedding: []float32{0.876, 0.48226}},
	)

	results, err := newRanker(t, repo).Rank(context.Background(), []float32{1, 0}, Filter{}, 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0.88, results[0].Similarity)
	assert.Equal(t, 0.0, results[1].Similarity)
}

func TestRank_EmptyTable(t *testing.T) {
	results, err := newRanker(t, setupEmbeddings(t)).Rank(context.Background(), []float32{1, 0}, Filter{}, 5, nil)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRank_ZeroQuery(t *testing.T) {
	repo := setupEmbeddings(t, &core.EmbeddingRecord{ShowID: "s1", Embedding: []float32{1, 0}})

	results, err := newRanker(t, repo).Rank(context.Background(), []float32{0, 0}, Filter{}, 5, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRank_SkipsDimensionMismatch(t *testing.T) {
	repo := setupEmbeddings(t,
		&core.EmbeddingRecord{ShowID: "old", Embedding: []float32{1, 0, 0}},
		&core.EmbeddingRecord{ShowID: "new", Embedding: []float32{1, 0}},
	)

	results, err := newRanker(t, repo).Rank(context.Background(), []float32{1, 0}, Filter{}, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, ids(results))
}

func TestRank_Filters(t *testing.T) {
	repo := setupEmbeddings(t,
		&core.EmbeddingRecord{ShowID: "s1", Type: "Movie", ListedIn: "Sci-Fi & Fantasy", Embedding: []float32{1, 0}},
		&core.EmbeddingRecord{ShowID: "s2", Type: "TV Show", ListedIn: "TV Sci-Fi & Fantasy", Embedding: []float32{1, 0}},
		&core.EmbeddingRecord{ShowID: "s3", Type: "Movie", ListedIn: "Dramas", Embedding: []float32{1, 0}},
		&core.EmbeddingRecord{ShowID: "s4", Type: "movie", ListedIn: "Comedies", Embedding: []float32{1, 0}},
	)
	ranker := newRanker(t, repo)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"type exact", Filter{Type: "Movie"}, []string{"s1", "s3"}},
		{"genre substring case-insensitive", Filter{Genre: "sci"}, []string{"s1", "s2"}},
		{"both", Filter{Type: "Movie", Genre: "SCI-FI"}, []string{"s1"}},
		{"no match", Filter{Genre: "horror"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := ranker.Rank(ctx, []float32{1, 0}, tt.filter, 10, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(results))
		})
	}
}

func TestRank_InvalidLimit(t *testing.T) {
	_, err := newRanker(t, setupEmbeddings(t)).Rank(context.Background(), []float32{1}, Filter{}, 0, nil)
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestNewRanker_NilRepository(t *testing.T) {
	_, err := NewRanker(nil, nil)
	assert.Equal(t, ErrRepositoryRequired, err)
}
