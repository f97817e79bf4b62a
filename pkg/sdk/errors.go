package archivist

import "github.com/kailas-cloud/archivist/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound      = domain.ErrNotFound
	ErrAlreadyExists = domain.ErrAlreadyExists
	ErrValidation    = domain.ErrValidation
	ErrInvalidQuery  = domain.ErrInvalidQuery
)
