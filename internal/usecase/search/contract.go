package search

import (
	"context"

	"github.com/kailas-cloud/archivist/internal/domain/query"
	"github.com/kailas-cloud/archivist/internal/domain/query/page"
	"github.com/kailas-cloud/archivist/internal/domain/record"
)

// Repository loads the catalog.
type Repository interface {
	All(ctx context.Context) ([]record.Record, error)
}

// Querier runs the list query pipeline. It must search title, author, tags and description.
type Querier interface {
	Run(records []record.Record, d query.Descriptor) page.Page[record.Record]
	FilterTerm(records []record.Record, term string) []record.Record
}
