// Package categorize suggests a category and tags for uploaded files.
package categorize

import (
	"context"
	"slices"
	"strings"
	"unicode"

	"github.com/kailas-cloud/archivist/internal/domain/category"
	"github.com/kailas-cloud/archivist/internal/domain/upload"
)

// MaxTags caps the number of suggested tags.
const MaxTags = 5

// keywords maps words found in titles and descriptions to a group,
// used when the file name carries no known extension.
var keywords = map[string]upload.Group{
	"photo": upload.Images, "photograph": upload.Images, "photographs": upload.Images,
	"photography": upload.Images, "image": upload.Images, "images": upload.Images,
	"map": upload.Images, "maps": upload.Images, "scan": upload.Images,
	"film": upload.Videos, "video": upload.Videos, "documentary": upload.Videos, "footage": upload.Videos,
	"audio": upload.Audio, "interview": upload.Audio, "interviews": upload.Audio,
	"podcast": upload.Audio, "recording": upload.Audio, "oral": upload.Audio,
	"archive": upload.Archives, "backup": upload.Archives, "bundle": upload.Archives,
	"slides": upload.Presentations, "presentation": upload.Presentations, "deck": upload.Presentations,
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "into": {}, "that": {}, "this": {},
	"are": {}, "was": {}, "were": {}, "its": {}, "our": {}, "your": {}, "all": {}, "new": {},
	"final": {}, "copy": {}, "draft": {}, "version": {}, "file": {}, "scan": {},
}

// Rules is a deterministic categorizer: the group comes from the file
// extension, or from title keywords, defaulting to documents.
type Rules struct{}

// NewRules creates a rule-based categorizer.
func NewRules() *Rules { return &Rules{} }

// Categorize implements category.Categorizer. It never fails.
func (Rules) Categorize(_ context.Context, hint category.Hint) (category.Suggestion, error) {
	return category.Suggestion{
		Category: string(groupFor(hint)),
		Tags:     tagsFor(hint),
		Source:   category.SourceRules,
	}, nil
}

func groupFor(hint category.Hint) upload.Group {
	if g, ok := upload.GroupOf(hint.FileName); ok {
		return g
	}
	for _, w := range words(hint.Title + " " + hint.Description) {
		if g, ok := keywords[w]; ok {
			return g
		}
	}
	return upload.Documents
}

// tagsFor picks significant title words, falling back to the file's base name.
func tagsFor(hint category.Hint) []string {
	source := hint.Title
	if strings.TrimSpace(source) == "" {
		source = upload.BaseTitle(hint.FileName)
	}
	tags := make([]string, 0, MaxTags)
	for _, w := range words(source) {
		if len(tags) == MaxTags {
			break
		}
		if len([]rune(w)) < 3 || isNumber(w) {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if slices.Contains(tags, w) {
			continue
		}
		tags = append(tags, w)
	}
	return tags
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isNumber(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }) < 0
}
