package storage

import (
	"testing"

	"github.com/poiesic/cinevec/core"
	"github.com/stretchr/testify/assert"
)

func TestDedupeSources_LastWins(t *testing.T) {
	records := []*core.SourceRecord{
		{ShowID: "s1", Title: "first"},
		{ShowID: "s2", Title: "only"},
		{ShowID: "s1", Title: "second"},
	}

	got := DedupeSources(records)
	assert.Len(t, got, 2)
	assert.Equal(t, "s2", got[0].ShowID)
	assert.Equal(t, "s1", got[1].ShowID)
	assert.Equal(t, "second", got[1].Title)
}

func TestDedupeEmbeddings_NoDuplicates(t *testing.T) {
	records := []*core.EmbeddingRecord{{ShowID: "a"}, {ShowID: "b"}}
	assert.Equal(t, records, DedupeEmbeddings(records))
}
