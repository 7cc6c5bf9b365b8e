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


package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/cinevec/core"
)

// ErrInvalidRow indicates a CSV row that cannot become a SourceRecord.
var ErrInvalidRow = fmt.Errorf("%w: invalid catalog row", core.ErrValidation)

// ErrMissingKeyColumn indicates a header without a show_id column.
var ErrMissingKeyColumn = fmt.Errorf("%w: header has no show_id column", core.ErrValidation)

// Reader decodes SourceRecords from CSV.
type Reader struct {
	csv     *csv.Reader
	columns map[string]int
	width   int
}

// NewReader reads the header row from r and returns a Reader for the rows that follow.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrInvalidRow)
		}
		return nil, fmt.Errorf("%w: header: %w", ErrInvalidRow, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		columns[name] = i
	}
	if _, ok := columns["show_id"]; !ok {
		return nil, ErrMissingKeyColumn
	}

	return &Reader{csv: cr, columns: columns, width: len(header)}, nil
}

// Read returns the next record, or io.EOF when the input is exhausted.
// Malformed rows yield an error wrapping ErrInvalidRow that names the line.
func (r *Reader) Read() (*core.SourceRecord, error) {
	row, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidRow, err)
	}

	line, _ := r.csv.FieldPos(0)
	if len(row) != r.width {
		return nil, fmt.Errorf("%w: line %d: expected %d fields, got %d", ErrInvalidRow, line, r.width, len(row))
	}

	record := &core.SourceRecord{
		ShowID:      r.field(row, "show_id"),
		Type:        r.field(row, "type"),
		Title:       r.field(row, "title"),
		Director:    r.field(row, "director"),
		Cast:        r.field(row, "cast"),
		Country:     r.field(row, "country"),
		DateAdded:   r.field(row, "date_added"),
		ReleaseYear: core.ParseReleaseYear(r.field(row, "release_year")),
		Rating:      r.field(row, "rating"),
		Duration:    r.field(row, "duration"),
		ListedIn:    r.field(row, "listed_in"),
		Description: r.field(row, "description"),
	}
	if err := core.ValidateSourceRecord(record); err != nil {
		return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidRow, line, err)
	}
	return record, nil
}

func (r *Reader) field(row []string, name string) string {
	i, ok := r.columns[name]
	if !ok {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ReadAll decodes every record from r. It stops at the first malformed row.
func ReadAll(r io.Reader) ([]*core.SourceRecord, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}

	var records []*core.SourceRecord
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}
