package storage

import (
	"testing"
	"time"

	"github.com/poiesic/cinevec/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceRecordCodec_NullableYear(t *testing.T) {
	year := 2021
	tests := []struct {
		name   string
		record *core.SourceRecord
	}{
		{"with year", &core.SourceRecord{ShowID: "s1", Title: "Dick Johnson Is Dead", ReleaseYear: &year}},
		{"without year", &core.SourceRecord{ShowID: "s2", Title: "Blood & Water"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalSourceRecord(tt.record)
			require.NoError(t, err)

			decoded, err := UnmarshalSourceRecord(data)
			require.NoError(t, err)
			assert.Equal(t, tt.record, decoded)
		})
	}
}

func TestEmbeddingRecordCodec_PreservesVector(t *testing.T) {
	record := &core.EmbeddingRecord{
		ShowID:    "s1",
		Title:     "Inception",
		Type:      "Movie",
		ListedIn:  "Sci-Fi",
		Embedding: []float32{0.6, 0.8, 0, 1e-7},
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := MarshalEmbeddingRecord(record)
	require.NoError(t, err)

	decoded, err := UnmarshalEmbeddingRecord(data)
	require.NoError(t, err)
	assert.Equal(t, record.Embedding, decoded.Embedding)
	assert.True(t, record.CreatedAt.Equal(decoded.CreatedAt))
}

func TestUnmarshal_Invalid(t *testing.T) {
	data := []byte("{not json")

	_, err := UnmarshalSourceRecord(data)
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalEmbeddingRecord(data)
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalCheckpoint(data)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
