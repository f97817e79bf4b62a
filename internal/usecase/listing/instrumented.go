package listing

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/archivist/internal/domain/query"
	"github.com/kailas-cloud/archivist/internal/domain/query/page"
	"github.com/kailas-cloud/archivist/internal/domain/record"
	"github.com/kailas-cloud/archivist/internal/metrics"
)

// Querier runs the list query pipeline.
type Querier interface {
	Run(records []record.Record, d query.Descriptor) page.Page[record.Record]
	Filter(records []record.Record, d query.Descriptor) []record.Record
	FilterTerm(records []record.Record, term string) []record.Record
}

// Instrumented wraps a Querier with run duration and match count metrics.
// Results are passed through unchanged.
type Instrumented struct {
	inner  Querier
	view   string
	logger *zap.Logger
}

// NewInstrumented wraps a querier for one list view (content, search, uploads).
func NewInstrumented(inner Querier, view string, logger *zap.Logger) *Instrumented {
	return &Instrumented{inner: inner, view: view, logger: logger}
}

// Run delegates to the inner querier and records metrics.
func (q *Instrumented) Run(records []record.Record, d query.Descriptor) page.Page[record.Record] {
	start := time.Now()
	res := q.inner.Run(records, d)
	duration := time.Since(start)

	metrics.ListingRunDuration.WithLabelValues(q.view).Observe(duration.Seconds())
	metrics.ListingMatchedRecords.WithLabelValues(q.view).Observe(float64(res.TotalMatched()))

	q.logger.Debug("List query completed",
		zap.String("view", q.view),
		zap.Int("records", len(records)),
		zap.Int("matched", res.TotalMatched()),
		zap.Int("page", res.Index()),
		zap.String("sort_key", d.Sort().Key),
		zap.Duration("duration", duration),
	)
	return res
}

// Filter delegates to the inner querier.
func (q *Instrumented) Filter(records []record.Record, d query.Descriptor) []record.Record {
	return q.inner.Filter(records, d)
}

// FilterTerm delegates to the inner querier.
func (q *Instrumented) FilterTerm(records []record.Record, term string) []record.Record {
	return q.inner.FilterTerm(records, term)
}
