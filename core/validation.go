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


package core

import (
	"fmt"
	"math"
	"strings"
)

// ValidateSourceRecord validates a SourceRecord according to domain rules.
//
// Validation rules:
//   - ShowID must not be blank
//
// Every other field is optional and treated as an empty string when missing.
func ValidateSourceRecord(record *SourceRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidSourceRecord)
	}

	if strings.TrimSpace(record.ShowID) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSourceRecord, ErrEmptyKey)
	}

	return nil
}

// ValidateEmbeddingRecord validates an EmbeddingRecord against the pipeline dimension.
//
// Validation rules:
//   - ShowID must not be blank
//   - Embedding must not be empty and must have exactly dim components (dim <= 0 skips the check)
//   - Every component must be finite
func ValidateEmbeddingRecord(record *EmbeddingRecord, dim int) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidEmbeddingRecord)
	}

	if strings.TrimSpace(record.ShowID) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEmbeddingRecord, ErrEmptyKey)
	}

	if err := ValidateVector(record.Embedding, dim); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidEmbeddingRecord, record.ShowID, err)
	}

	return nil
}

// ValidateVector checks a query or stored vector.
func ValidateVector(v []float32, dim int) error {
	if len(v) == 0 {
		return ErrEmptyEmbedding
	}
	if dim > 0 && len(v) != dim {
		return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, dim, len(v))
	}
	for _, x := range v {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return ErrNonFiniteValue
		}
	}
	return nil
}

// ValidateCriteria rejects a criteria set with no values.
func ValidateCriteria(c Criteria) error {
	if c.IsEmpty() {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrEmptyCriteria)
	}
	return nil
}

// ValidateLimit rejects limits below 1.
func ValidateLimit(limit int) error {
	if limit < 1 {
		return fmt.Errorf("%w: %w: %d", ErrInvalidQuery, ErrInvalidLimit, limit)
	}
	return nil
}
