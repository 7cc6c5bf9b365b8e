package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/poiesic/cinevec/core"
	"github.com/poiesic/cinevec/importer"
)

var (
	// ErrInvalidAction is returned for a missing or unknown action.
	ErrInvalidAction = errors.New("invalid action")

	// ErrTrainingInProgress is returned when a train action overlaps another.
	ErrTrainingInProgress = errors.New("training already in progress")

	// ErrDatabaseRequired is returned by NewServer without a database.
	ErrDatabaseRequired = errors.New("database is required")
)

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAction), errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrTrainingInProgress), errors.Is(err, importer.ErrEncoderMismatch):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
