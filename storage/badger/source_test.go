package badger

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/poiesic/cinevec/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepos(t *testing.T) *Repositories {
	t.Helper()
	repos, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return repos
}

func TestUpsertSources_Idempotent(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	first := []*core.SourceRecord{
		{ShowID: "s1", Title: "Dick Johnson Is Dead", Type: "Movie"},
		{ShowID: "s2", Title: "Blood & Water", Type: "TV Show"},
		{ShowID: "s3", Title: "Ganglands", Type: "TV Show"},
	}
	n, err := repos.Sources.UpsertSources(ctx, first...)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	second := []*core.SourceRecord{
		{ShowID: "s1", Title: "Dick Johnson Is Dead (2020)", Type: "Movie"},
		{ShowID: "s2", Title: "Blood & Water S1", Type: "TV Show"},
		{ShowID: "s3", Title: "Ganglands S1", Type: "TV Show"},
	}
	_, err = repos.Sources.UpsertSources(ctx, second...)
	require.NoError(t, err)

	count, err := repos.Sources.CountSources(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	page, err := repos.Sources.FetchSources(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, page, 3)
	for i, r := range page {
		assert.Equal(t, second[i].Title, r.Title)
	}
}

func TestUpsertSources_DuplicateKeysInBatch(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	n, err := repos.Sources.UpsertSources(ctx,
		&core.SourceRecord{ShowID: "s1", Title: "old"},
		&core.SourceRecord{ShowID: "s1", Title: "new"},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	page, err := repos.Sources.FetchSources(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "new", page[0].Title)
}

func TestUpsertSources_RejectsEmptyKey(t *testing.T) {
	repos := setupRepos(t)

	_, err := repos.Sources.UpsertSources(context.Background(), &core.SourceRecord{Title: "no key"})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestFetchSources_Pagination(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	var records []*core.SourceRecord
	for i := 0; i < 25; i++ {
		records = append(records, &core.SourceRecord{ShowID: fmt.Sprintf("s%03d", i)})
	}
	_, err := repos.Sources.UpsertSources(ctx, records...)
	require.NoError(t, err)

	var seen []string
	for offset := 0; ; offset += 10 {
		page, err := repos.Sources.FetchSources(ctx, 10, offset)
		require.NoError(t, err)
		for _, r := range page {
			seen = append(seen, r.ShowID)
		}
		if len(page) < 10 {
			break
		}
	}

	require.Len(t, seen, 25)
	for i, id := range seen {
		assert.Equal(t, fmt.Sprintf("s%03d", i), id)
	}
}

func TestFetchSources_LargeLimit(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	_, err := repos.Sources.UpsertSources(ctx, &core.SourceRecord{ShowID: "s1"}, &core.SourceRecord{ShowID: "s2"})
	require.NoError(t, err)

	page, err := repos.Sources.FetchSources(ctx, math.MaxInt, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)
}

func TestFetchSources_NegativeOffset(t *testing.T) {
	repos := setupRepos(t)
	_, err := repos.Sources.FetchSources(context.Background(), 10, -1)
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestClearSources(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	_, err := repos.Sources.UpsertSources(ctx, &core.SourceRecord{ShowID: "s1"})
	require.NoError(t, err)

	require.NoError(t, repos.Sources.ClearSources(ctx))
	require.NoError(t, repos.Sources.ClearSources(ctx))

	count, err := repos.Sources.CountSources(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
