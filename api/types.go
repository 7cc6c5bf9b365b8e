package api

import (
	"fmt"
	"strconv"

	"github.com/poiesic/cinevec/core"
)

// actionEnvelope reads the action discriminator from a JSON body.
type actionEnvelope struct {
	Action string `json:"action"`
}

// sourceRecordWire accepts release_year as a number, a numeric string or null.
type sourceRecordWire struct {
	ShowID      string `json:"show_id" validate:"required"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Director    string `json:"director"`
	Cast        string `json:"cast"`
	Country     string `json:"country"`
	DateAdded   string `json:"date_added"`
	ReleaseYear any    `json:"release_year"`
	Rating      string `json:"rating"`
	Duration    string `json:"duration"`
	ListedIn    string `json:"listed_in"`
	Description string `json:"description"`
}

func (w *sourceRecordWire) record() *core.SourceRecord {
	return &core.SourceRecord{
		ShowID:      w.ShowID,
		Type:        w.Type,
		Title:       w.Title,
		Director:    w.Director,
		Cast:        w.Cast,
		Country:     w.Country,
		DateAdded:   w.DateAdded,
		ReleaseYear: releaseYear(w.ReleaseYear),
		Rating:      w.Rating,
		Duration:    w.Duration,
		ListedIn:    w.ListedIn,
		Description: w.Description,
	}
}

func releaseYear(v any) *int {
	switch y := v.(type) {
	case float64:
		year := int(y)
		return &year
	case int64:
		year := int(y)
		return &year
	case string:
		return core.ParseReleaseYear(y)
	default:
		return nil
	}
}

type importRequest struct {
	Records []*sourceRecordWire `json:"records" validate:"dive,required"`
}

type importResponse struct {
	Success  bool `json:"success"`
	Imported int  `json:"imported"`
}

type storeEmbeddingsRequest struct {
	Embeddings []*core.EmbeddingRecord `json:"embeddings"`
}

type storeEmbeddingsResponse struct {
	Success bool `json:"success"`
	Stored  int  `json:"stored"`
}

type trainRequest struct {
	Offset    int  `json:"offset" validate:"min=0"`
	BatchSize int  `json:"batch_size" validate:"min=0,max=1000"`
	Clear     bool `json:"clear"`
	Resume    bool `json:"resume"`
}

type trainResponse struct {
	Success    bool `json:"success"`
	Processed  int  `json:"processed"`
	Batches    int  `json:"batches"`
	NextOffset int  `json:"next_offset"`
}

type recommendRequest struct {
	Embedding   []float32 `json:"embedding" validate:"required"`
	Limit       int       `json:"limit" validate:"min=0"`
	TypeFilter  string    `json:"type_filter"`
	GenreFilter string    `json:"genre_filter"`
}

type recommendTextRequest struct {
	core.Criteria
	Limit int `json:"limit" validate:"min=0"`
}

type recommendResponse struct {
	Query           string               `json:"query,omitempty"`
	Recommendations []*core.RankedResult `json:"recommendations"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type countResponse struct {
	Success bool `json:"success"`
	Total   int  `json:"total"`
}

type embeddingCountResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

type previewResponse struct {
	Success bool                 `json:"success"`
	Data    []*core.SourceRecord `json:"data"`
}

type statsResponse struct {
	Success  bool `json:"success"`
	Total    int  `json:"total"`
	Embedded int  `json:"embedded"`
	Pending  int  `json:"pending"`
}

type optionsResponse struct {
	Success bool `json:"success"`
	core.FilterOptions
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status      string `json:"status"`
	Fingerprint string `json:"fingerprint"`
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q is not a non-negative integer", core.ErrValidation, raw)
	}
	return n, nil
}
