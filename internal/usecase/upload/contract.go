package upload

import (
	"context"

	"github.com/kailas-cloud/archivist/internal/domain/query"
	"github.com/kailas-cloud/archivist/internal/domain/query/page"
	"github.com/kailas-cloud/archivist/internal/domain/record"
)

// RecordStore persists the content records created by processed uploads.
type RecordStore interface {
	Get(ctx context.Context, id string) (record.Record, error)
	Create(ctx context.Context, rec record.Record) error
	Put(ctx context.Context, rec record.Record) error
	Delete(ctx context.Context, id string) error
}

// Querier runs the list query pipeline over the queue projection.
type Querier interface {
	Run(records []record.Record, d query.Descriptor) page.Page[record.Record]
}
