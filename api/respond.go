package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"github.com/go-playground/validator/v10"
	"github.com/poiesic/cinevec/core"
)

// maxBodyBytes bounds request bodies. Bulk imports are the largest payloads.
const maxBodyBytes = 64 << 20

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// readBody reads at most maxBodyBytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read request body: %w", core.ErrValidation, err)
	}
	return body, nil
}

// decode unmarshals body into v and validates it. An empty body leaves v
// at its zero value before validation.
func decode(body []byte, v any) error {
	if len(body) > 0 {
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("%w: malformed JSON: %w", core.ErrValidation, err)
		}
	}
	if err := getValidator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", core.ErrValidation, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to marshal JSON response", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		slog.Debug("failed to write JSON response", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}
