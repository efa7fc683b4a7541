package services

import (
	"errors"
	"fmt"
)

// Batch-level validation failures. They reject the whole request.
var (
	ErrEmptyBatch      = errors.New("empty batch")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Per-file failures. They become a FileError and never abort the batch.
var (
	ErrUnsupportedDirectProcessing = errors.New("unsupported for direct processing")
	ErrExtractionFailed            = errors.New("extraction failed")
	ErrMalformedExtractionResponse = errors.New("malformed extraction response")
)

// ValidationError rejects a batch before any file is processed.
// Detail is the client-facing message.
type ValidationError struct {
	Detail string
	Err    error
}

func (e *ValidationError) Error() string {
	return e.Detail
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ProcessingError is a per-file failure whose message is reported verbatim.
type ProcessingError struct {
	Kind    error
	Message string
	Cause   error
}

func newProcessingError(kind, cause error, format string, args ...any) *ProcessingError {
	return &ProcessingError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

func (e *ProcessingError) Error() string {
	return e.Message
}

func (e *ProcessingError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}
