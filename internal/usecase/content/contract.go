package content

import (
	"context"

	"github.com/kailas-cloud/archivist/internal/domain/query"
	"github.com/kailas-cloud/archivist/internal/domain/query/page"
	"github.com/kailas-cloud/archivist/internal/domain/record"
)

// Repository defines the storage contract for content records.
type Repository interface {
	All(ctx context.Context) ([]record.Record, error)
	Get(ctx context.Context, id string) (record.Record, error)
	Create(ctx context.Context, rec record.Record) error
	Put(ctx context.Context, rec record.Record) error
	Delete(ctx context.Context, id string) error
}

// Querier runs the list query pipeline over loaded records.
type Querier interface {
	Run(records []record.Record, d query.Descriptor) page.Page[record.Record]
}
