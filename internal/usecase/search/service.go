package search

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/archivist/internal/domain/query/page"
	"github.com/kailas-cloud/archivist/internal/domain/record"
	"github.com/kailas-cloud/archivist/internal/domain/search/request"
	"github.com/kailas-cloud/archivist/internal/usecase/listing"
)

// Result is one search view response.
type Result struct {
	Page page.Page[record.Record]
	// Facets counts type, category and format over the term-matched set,
	// before facet, date and size filters.
	Facets  map[string][]listing.Bucket
	Elapsed time.Duration
}

// Service runs search view queries over published records.
type Service struct {
	repo  Repository
	query Querier
	now   func() time.Time
}

// New creates a search service.
func New(repo Repository, q Querier) *Service {
	return &Service{repo: repo, query: q, now: time.Now}
}

// WithClock replaces the time source that anchors relative date presets.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Search scores published records by relevance and runs the request through the pipeline.
func (s *Service) Search(ctx context.Context, req *request.Request) (Result, error) {
	start := time.Now()

	d, err := req.Descriptor(s.now())
	if err != nil {
		return Result{}, fmt.Errorf("search request: %w", err)
	}

	all, err := s.repo.All(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load records: %w", err)
	}

	scored := withScores(published(all), req.Term())
	res := s.query.Run(scored, d)
	facets := listing.Facets(s.query.FilterTerm(scored, req.Term()), request.FacetFields...)

	return Result{Page: res, Facets: facets, Elapsed: time.Since(start)}, nil
}

func published(records []record.Record) []record.Record {
	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if record.StatusOf(r) == record.StatusPublished {
			out = append(out, r)
		}
	}
	return out
}
