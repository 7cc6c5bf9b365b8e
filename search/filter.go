package search

import (
	"strings"

	"github.com/poiesic/cinevec/core"
)

// Filter narrows the candidates considered by the ranker.
// Empty fields do not filter.
type Filter struct {
	// Type must equal the record's category exactly.
	Type string `json:"type_filter,omitempty"`

	// Genre must appear in the record's listed_in field, case-insensitively.
	Genre string `json:"genre_filter,omitempty"`
}

// IsEmpty reports whether the filter accepts every record.
func (f Filter) IsEmpty() bool {
	return f.Type == "" && f.Genre == ""
}

// Matches reports whether record passes the filter.
func (f Filter) Matches(record *core.EmbeddingRecord) bool {
	if f.Type != "" && record.Type != f.Type {
		return false
	}
	if f.Genre != "" && !strings.Contains(strings.ToLower(record.ListedIn), strings.ToLower(f.Genre)) {
		return false
	}
	return true
}
