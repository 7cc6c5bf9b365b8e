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
	"errors"
	"fmt"
)

// ErrValidation is the root of every input validation error.
// Callers use errors.Is(err, ErrValidation) to tell bad input from I/O failures.
var ErrValidation = errors.New("validation failed")

// Domain validation errors
var (
	// ErrInvalidSourceRecord indicates a SourceRecord failed validation.
	ErrInvalidSourceRecord = fmt.Errorf("%w: invalid source record", ErrValidation)

	// ErrInvalidEmbeddingRecord indicates an EmbeddingRecord failed validation.
	ErrInvalidEmbeddingRecord = fmt.Errorf("%w: invalid embedding record", ErrValidation)

	// ErrInvalidQuery indicates a recommendation request failed validation.
	ErrInvalidQuery = fmt.Errorf("%w: invalid query", ErrValidation)

	// ErrEmptyKey indicates the ShowID field is empty.
	ErrEmptyKey = errors.New("show_id cannot be empty")

	// ErrEmptyEmbedding indicates an embedding vector has no components.
	ErrEmptyEmbedding = errors.New("embedding cannot be empty")

	// ErrDimensionMismatch indicates a vector does not have the pipeline dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNonFiniteValue indicates a vector contains NaN or Inf.
	ErrNonFiniteValue = errors.New("embedding contains non-finite values")

	// ErrEmptyCriteria indicates no filter and no query text were supplied.
	ErrEmptyCriteria = errors.New("at least one criterion is required")

	// ErrInvalidLimit indicates a result limit below 1.
	ErrInvalidLimit = errors.New("limit must be greater than 0")
)
