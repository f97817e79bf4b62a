// Package preset holds the named sort orders and filter buckets offered by the search view.
package preset

import (
	"github.com/kailas-cloud/archivist/internal/domain/query"
	"github.com/kailas-cloud/archivist/internal/domain/record"
)

// Sort is a named search sort order.
type Sort string

// Sort presets.
const (
	Relevance Sort = "relevance"
	DateDesc  Sort = "date-desc"
	DateAsc   Sort = "date-asc"
	TitleAsc  Sort = "title-asc"
	TitleDesc Sort = "title-desc"
	// Popularity orders by download count, most downloaded first.
	Popularity Sort = "popularity"
	SizeDesc   Sort = "size-desc"
	SizeAsc    Sort = "size-asc"
)

// IsValid checks if the preset is one of the supported values.
func (s Sort) IsValid() bool {
	_, ok := sortKeys[s]
	return ok
}

var sortKeys = map[Sort]query.Sort{
	Relevance:  query.By(record.FieldScore, query.Desc),
	DateDesc:   query.By(record.FieldUploadDate, query.Desc),
	DateAsc:    query.By(record.FieldUploadDate, query.Asc),
	TitleAsc:   query.By(record.FieldTitle, query.Asc),
	TitleDesc:  query.By(record.FieldTitle, query.Desc),
	Popularity: query.By(record.FieldDownloads, query.Desc),
	SizeDesc:   query.By(record.FieldSize, query.Desc),
	SizeAsc:    query.By(record.FieldSize, query.Asc),
}

// Query returns the field sort the preset stands for.
func (s Sort) Query() query.Sort { return sortKeys[s] }
