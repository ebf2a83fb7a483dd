package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Validation errors, rejected before any I/O
	ErrEmptyQuestion      = errors.New("question is empty")
	ErrEmptyQuery         = errors.New("query is empty")
	ErrEmptyText          = errors.New("text is empty")
	ErrInvalidChunkParams = errors.New("chunk overlap must be smaller than chunk size")
	ErrInvalidParameter   = errors.New("invalid parameter")

	// Not-found errors
	ErrDocumentNotFound     = errors.New("document not found")
	ErrConversationNotFound = errors.New("conversation not found")

	// File errors
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidExtension = errors.New("invalid file extension")

	// Capability errors
	ErrUnsupportedFormat     = errors.New("unsupported file format")
	ErrExtractionFailed      = errors.New("text extraction failed")
	ErrCapabilityUnavailable = errors.New("capability backend unavailable")
	ErrGenerationTimeout     = errors.New("generation timed out")

	// Index corruption, detected at add-time
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// StageError tags a query pipeline failure with the stage it originated from,
// so callers can tell a retrieval failure from a generation failure.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with the originating stage name.
func NewStageError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}
