package upload

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/archivist/internal/domain"
)

// Metadata limits.
const (
	MaxTitleLength       = 500
	MaxDescriptionLength = 10000
	MaxTags              = 50
)

// Metadata is the descriptive information edited for an uploaded file.
type Metadata struct {
	Title           string
	Description     string
	Category        string
	Tags            []string
	Collection      string
	RightsInfo      string
	PublicationDate time.Time
	Custom          map[string]string
	IsPublic        bool
	EnableComments  bool
	Featured        bool
}

// DefaultMetadata returns the metadata a new upload starts with.
func DefaultMetadata(fileName string, now time.Time) Metadata {
	y, m, d := now.UTC().Date()
	return Metadata{
		Title:           BaseTitle(fileName),
		PublicationDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		IsPublic:        true,
	}
}

// Validate checks field limits. Tags are trimmed and de-duplicated in place.
func (m *Metadata) Validate() error {
	m.Title = strings.TrimSpace(m.Title)
	if m.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if len(m.Title) > MaxTitleLength {
		return fmt.Errorf("%w: title too long (max %d)", domain.ErrValidation, MaxTitleLength)
	}
	if len(m.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description too long (max %d)", domain.ErrValidation, MaxDescriptionLength)
	}
	if m.Category != "" && !Group(m.Category).IsValid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrValidation, m.Category)
	}
	tags := make([]string, 0, len(m.Tags))
	seen := make(map[string]bool, len(m.Tags))
	for _, t := range m.Tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	if len(tags) > MaxTags {
		return fmt.Errorf("%w: too many tags (max %d)", domain.ErrValidation, MaxTags)
	}
	m.Tags = tags
	return nil
}
