// Package category describes auto-categorize requests and answers.
package category

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Source names the categorizer that produced a suggestion.
type Source string

// Suggestion sources.
const (
	SourceRules Source = "rules"
	SourceModel Source = "model"
	SourceCache Source = "cache"
)

// Hint is what the categorizer knows about a file.
type Hint struct {
	Title       string
	Description string
	FileName    string
}

// IsEmpty reports whether the hint carries no information.
func (h Hint) IsEmpty() bool {
	return strings.TrimSpace(h.Title) == "" &&
		strings.TrimSpace(h.Description) == "" &&
		strings.TrimSpace(h.FileName) == ""
}

// Key returns a stable cache key for the hint.
func (h Hint) Key() string {
	sum := sha256.Sum256([]byte(h.Title + "\x00" + h.Description + "\x00" + h.FileName))
	return hex.EncodeToString(sum[:])
}

// Suggestion is a proposed category id and tag list.
type Suggestion struct {
	Category string
	Tags     []string
	Source   Source
}

// Categorizer proposes a category and tags for a file.
type Categorizer interface {
	Categorize(ctx context.Context, hint Hint) (Suggestion, error)
}
