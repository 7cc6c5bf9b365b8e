package core

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a compact content-derived identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SourceRecord is one catalog item as imported from a catalog export.
// ShowID is the unique key; every other string field may be empty.
type SourceRecord struct {
	ShowID      string `json:"show_id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Director    string `json:"director"`
	Cast        string `json:"cast"`
	Country     string `json:"country"`
	DateAdded   string `json:"date_added"`
	ReleaseYear *int   `json:"release_year"`
	Rating      string `json:"rating"`
	Duration    string `json:"duration"`
	ListedIn    string `json:"listed_in"`
	Description string `json:"description"`
}

// Year returns the release year as text, or "" when unknown.
func (r *SourceRecord) Year() string {
	if r.ReleaseYear == nil {
		return ""
	}
	return strconv.Itoa(*r.ReleaseYear)
}

// EmbeddingRecord is the derived vector for one SourceRecord, with the display
// fields needed to render a recommendation without reading the source table.
type EmbeddingRecord struct {
	ShowID      string    `json:"show_id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	ListedIn    string    `json:"listed_in"`
	Description string    `json:"description"`
	Embedding   []float32 `json:"embedding"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEmbeddingRecord copies the display fields of source into a record carrying vector.
func NewEmbeddingRecord(source *SourceRecord, vector []float32) *EmbeddingRecord {
	return &EmbeddingRecord{
		ShowID:      source.ShowID,
		Title:       source.Title,
		Type:        source.Type,
		ListedIn:    source.ListedIn,
		Description: source.Description,
		Embedding:   vector,
	}
}

// RankedResult is one recommendation produced for a query. It is never persisted.
type RankedResult struct {
	ShowID      string  `json:"show_id"`
	Title       string  `json:"title"`
	Type        string  `json:"type"`
	ListedIn    string  `json:"listed_in"`
	Description string  `json:"description"`
	Similarity  float64 `json:"similarity"`
}

// Criteria are the user-facing preference fields a query text is built from.
type Criteria struct {
	Type     string `json:"type"`
	Genre    string `json:"genre"`
	Tone     string `json:"tone"`
	Duration string `json:"duration"`
	Country  string `json:"country"`
}

// Fields returns the criteria in query order.
func (c Criteria) Fields() []string {
	return []string{c.Type, c.Genre, c.Tone, c.Duration, c.Country}
}

// IsEmpty reports whether no criterion carries a value.
func (c Criteria) IsEmpty() bool {
	for _, f := range c.Fields() {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Checkpoint records how far a batch run has progressed so it can be resumed.
type Checkpoint struct {
	Name        string    `json:"name"`
	NextOffset  int       `json:"next_offset"`
	Processed   int       `json:"processed"`
	Total       int       `json:"total"`
	Fingerprint string    `json:"fingerprint"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ParseReleaseYear parses a year leniently. Blank or malformed input yields nil.
func ParseReleaseYear(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		year := int(f)
		return &year
	}
	return nil
}
