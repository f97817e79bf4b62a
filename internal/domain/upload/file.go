package upload

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/archivist/internal/domain"
)

// MaxNameLength is the maximum file name length.
const MaxNameLength = 255

// File describes a file offered for upload.
type File struct {
	Name string
	Size int64
	MIME string
}

// Validate checks the name, extension and size against maxSize bytes.
func (f File) Validate(maxSize int64) (Group, error) {
	if strings.TrimSpace(f.Name) == "" {
		return "", fmt.Errorf("%w: file name is required", domain.ErrValidation)
	}
	if len(f.Name) > MaxNameLength {
		return "", fmt.Errorf("%w: file name too long (max %d)", domain.ErrValidation, MaxNameLength)
	}
	if strings.ContainsAny(f.Name, `/\`) {
		return "", fmt.Errorf("%w: file name must not contain path separators", domain.ErrValidation)
	}
	g, ok := GroupOf(f.Name)
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, Extension(f.Name))
	}
	if f.Size < 0 {
		return "", fmt.Errorf("%w: negative file size", domain.ErrValidation)
	}
	if maxSize > 0 && f.Size > maxSize {
		return "", fmt.Errorf("%w: %d bytes exceeds limit of %d", domain.ErrFileTooLarge, f.Size, maxSize)
	}
	return g, nil
}

// BaseTitle returns the file name up to its first dot.
func BaseTitle(name string) string {
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}
