package importer

import (
	"errors"
	"fmt"

	"github.com/poiesic/cinevec/core"
)

var (
	// ErrEncoderMismatch is returned when stored progress was produced by a different encoder.
	ErrEncoderMismatch = errors.New("checkpoint was written by a different encoder")

	// ErrResumeWithClear is returned when a run asks to both resume and clear.
	ErrResumeWithClear = fmt.Errorf("%w: resume and clear are mutually exclusive", core.ErrValidation)

	// ErrInvalidOffset is returned for a negative start offset.
	ErrInvalidOffset = fmt.Errorf("%w: offset must not be negative", core.ErrValidation)

	// ErrBatchTooLarge is returned for a batch size above MaxBatchSize.
	ErrBatchTooLarge = fmt.Errorf("%w: batch size must not exceed %d", core.ErrValidation, MaxBatchSize)
)

// BatchError reports the batch at which a run stopped. Batches before
// Offset were committed; the run can be resumed at Offset.
type BatchError struct {
	Table     string
	Offset    int
	Size      int
	Processed int
	Err       error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch at offset %d of %s failed after %d records: %v", e.Offset, e.Table, e.Processed, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
