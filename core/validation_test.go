package core

import (
	"errors"
	"math"
	"testing"
)

func TestValidateSourceRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *SourceRecord
		wantErr error
	}{
		{
			name:    "valid record",
			record:  &SourceRecord{ShowID: "s1", Title: "Dick Johnson Is Dead"},
			wantErr: nil,
		},
		{
			name:    "only key is required",
			record:  &SourceRecord{ShowID: "s2"},
			wantErr: nil,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidSourceRecord,
		},
		{
			name:    "empty key",
			record:  &SourceRecord{Title: "No key"},
			wantErr: ErrEmptyKey,
		},
		{
			name:    "blank key",
			record:  &SourceRecord{ShowID: "  "},
			wantErr: ErrEmptyKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSourceRecord(tt.record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSourceRecord() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSourceRecord() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("ValidateSourceRecord() error should wrap ErrValidation")
			}
		})
	}
}

func TestValidateEmbeddingRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *EmbeddingRecord
		dim     int
		wantErr error
	}{
		{
			name:   "valid record",
			record: &EmbeddingRecord{ShowID: "s1", Embedding: []float32{0.6, 0.8}},
			dim:    2,
		},
		{
			name:   "dimension check disabled",
			record: &EmbeddingRecord{ShowID: "s1", Embedding: []float32{1, 0, 0}},
			dim:    0,
		},
		{
			name:    "nil record",
			dim:     2,
			wantErr: ErrInvalidEmbeddingRecord,
		},
		{
			name:    "missing key",
			record:  &EmbeddingRecord{Embedding: []float32{1, 0}},
			dim:     2,
			wantErr: ErrEmptyKey,
		},
		{
			name:    "empty vector",
			record:  &EmbeddingRecord{ShowID: "s1"},
			dim:     2,
			wantErr: ErrEmptyEmbedding,
		},
		{
			name:    "wrong dimension",
			record:  &EmbeddingRecord{ShowID: "s1", Embedding: []float32{1, 0, 0}},
			dim:     2,
			wantErr: ErrDimensionMismatch,
		},
		{
			name:    "NaN component",
			record:  &EmbeddingRecord{ShowID: "s1", Embedding: []float32{float32(math.NaN()), 0}},
			dim:     2,
			wantErr: ErrNonFiniteValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmbeddingRecord(tt.record, tt.dim)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateEmbeddingRecord() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateEmbeddingRecord() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("ValidateEmbeddingRecord() error should wrap ErrValidation")
			}
		})
	}
}

func TestValidateCriteria(t *testing.T) {
	if err := ValidateCriteria(Criteria{Genre: "Drama"}); err != nil {
		t.Errorf("ValidateCriteria() unexpected error = %v", err)
	}

	err := ValidateCriteria(Criteria{})
	if !errors.Is(err, ErrEmptyCriteria) || !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("ValidateCriteria() error = %v, want ErrEmptyCriteria", err)
	}
}

func TestValidateLimit(t *testing.T) {
	if err := ValidateLimit(5); err != nil {
		t.Errorf("ValidateLimit(5) unexpected error = %v", err)
	}
	for _, limit := range []int{0, -3} {
		if err := ValidateLimit(limit); !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("ValidateLimit(%d) error = %v, want ErrInvalidLimit", limit, err)
		}
	}
}
