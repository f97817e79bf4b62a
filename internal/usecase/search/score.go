package search

import (
	"strings"

	"github.com/kailas-cloud/archivist/internal/domain/record"
)

// SearchableFields are the fields the search view matches the term against.
var SearchableFields = []string{record.FieldTitle, record.FieldAuthor, record.FieldTags, record.FieldDescription}

// weights is the relevance contribution of a term hit per field.
var weights = []struct {
	field  string
	weight float64
}{
	{record.FieldTitle, 3},
	{record.FieldTags, 2},
	{record.FieldAuthor, 1},
	{record.FieldDescription, 1},
}

// Score returns the weighted relevance of a record for a term. Empty terms score 0.
func Score(r record.Record, term string) float64 {
	lower := strings.ToLower(term)
	if lower == "" {
		return 0
	}
	var score float64
	for _, w := range weights {
		if r.Get(w.field).ContainsFold(lower) {
			score += w.weight
		}
	}
	return score
}

// withScores returns copies of the records carrying the derived score field.
func withScores(records []record.Record, term string) []record.Record {
	out := make([]record.Record, len(records))
	for i, r := range records {
		out[i] = r.With(record.FieldScore, record.Number(Score(r, term)))
	}
	return out
}
