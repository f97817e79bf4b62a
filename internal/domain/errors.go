package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate record.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation signals an invalid record, patch or bulk request.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidQuery signals a malformed list query (page, sort, term, range).
	ErrInvalidQuery = errors.New("invalid query")

	// ErrUploadNotFound signals a missing upload task.
	ErrUploadNotFound = errors.New("upload not found")
	// ErrUnsupportedFormat signals a file extension outside the supported set.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrFileTooLarge signals a file above the upload size limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrUploadState signals an operation not allowed in the task's current status.
	ErrUploadState = errors.New("invalid upload state")
	// ErrIncompleteUpload signals a content stream shorter or longer than the declared size.
	ErrIncompleteUpload = errors.New("incomplete upload")
	// ErrUploadCanceled signals a task canceled while it was running.
	ErrUploadCanceled = errors.New("upload canceled")

	// ErrCategorizerProviderError signals an auto-categorize provider failure.
	ErrCategorizerProviderError = errors.New("categorizer provider error")
)

// UploadStateError wraps ErrUploadState with the status the task was in.
type UploadStateError struct {
	Status string
	Op     string
}

func (e *UploadStateError) Error() string {
	return fmt.Sprintf("%s: cannot %s a task in status %q", ErrUploadState.Error(), e.Op, e.Status)
}

func (e *UploadStateError) Unwrap() error { return ErrUploadState }

// NewUploadStateError creates an upload state error.
func NewUploadStateError(op, status string) error {
	return &UploadStateError{Op: op, Status: status}
}
