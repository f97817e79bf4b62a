package archivist

import (
	"context"
	"time"
)

// SearchService runs search view queries over published records.
type SearchService struct {
	svc searchUseCase
	obs *observer
}

// Query scores, filters and paginates published records.
func (s *SearchService) Query(ctx context.Context, q SearchQuery) (_ SearchResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search", start, err) }()

	req, err := q.request()
	if err != nil {
		return SearchResult{}, err
	}
	res, err := s.svc.Search(ctx, &req)
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{
		Page:    fromDomainPage(res.Page),
		Facets:  fromDomainFacets(res.Facets),
		Elapsed: res.Elapsed,
	}, nil
}
