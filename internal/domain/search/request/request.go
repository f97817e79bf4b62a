package request

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/kailas-cloud/archivist/internal/domain"
	"github.com/kailas-cloud/archivist/internal/domain/query"
	"github.com/kailas-cloud/archivist/internal/domain/record"
	"github.com/kailas-cloud/archivist/internal/domain/search/preset"
)

// FacetFields are the multi-select facets of the search view.
var FacetFields = []string{record.FieldType, record.FieldCategory, record.FieldFormat}

// MaxFacetValues is the maximum number of selected values per facet.
const MaxFacetValues = 32

// Request is a validated search view query.
type Request struct {
	term      string
	sort      preset.Sort
	facets    map[string][]string
	dateRange preset.DateRange
	size      preset.SizeBucket
	page      query.Page
}

// New validates and normalizes search parameters.
// Defaults: sort=relevance, no facets, any date, any size.
func New(
	term string,
	sort preset.Sort,
	facets map[string][]string,
	dateRange preset.DateRange,
	size preset.SizeBucket,
	page query.Page,
) (Request, error) {
	if len(term) > query.MaxTermLength {
		return Request{}, fmt.Errorf("%w: term too long (max %d bytes)", domain.ErrInvalidQuery, query.MaxTermLength)
	}
	if sort == "" {
		sort = preset.Relevance
	}
	if !sort.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid sort %q", domain.ErrInvalidQuery, sort)
	}
	if dateRange != "" && !dateRange.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid date range %q", domain.ErrInvalidQuery, dateRange)
	}
	if size != "" && !size.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid size %q", domain.ErrInvalidQuery, size)
	}
	for field, values := range facets {
		if !slices.Contains(FacetFields, field) {
			return Request{}, fmt.Errorf("%w: unknown facet %q", domain.ErrInvalidQuery, field)
		}
		if len(values) > MaxFacetValues {
			return Request{}, fmt.Errorf("%w: too many values for facet %q (max %d)", domain.ErrInvalidQuery, field, MaxFacetValues)
		}
	}

	return Request{
		term:      term,
		sort:      sort,
		facets:    maps.Clone(facets),
		dateRange: dateRange,
		size:      size,
		page:      page,
	}, nil
}

// Term returns the search term.
func (r *Request) Term() string { return r.term }

// Sort returns the sort preset.
func (r *Request) Sort() preset.Sort { return r.sort }

// Facets returns the selected facet values.
func (r *Request) Facets() map[string][]string { return maps.Clone(r.facets) }

// DateRange returns the date preset ("" = any).
func (r *Request) DateRange() preset.DateRange { return r.dateRange }

// Size returns the size bucket ("" = any).
func (r *Request) Size() preset.SizeBucket { return r.size }

// Page returns the requested page.
func (r *Request) Page() query.Page { return r.page }

// Descriptor translates the request into a list query evaluated at now.
func (r *Request) Descriptor(now time.Time) (query.Descriptor, error) {
	var opts []query.Option
	for _, field := range FacetFields {
		if values := r.facets[field]; len(values) > 0 {
			opts = append(opts, query.WithAnyOf(field, values...))
		}
	}
	if r.dateRange != "" {
		rg, err := r.dateRange.Range(now)
		if err != nil {
			return query.Descriptor{}, fmt.Errorf("date range: %w", err)
		}
		opts = append(opts, query.WithRange(record.FieldUploadDate, rg))
	}
	if r.size != "" {
		rg, err := r.size.Range()
		if err != nil {
			return query.Descriptor{}, fmt.Errorf("size bucket: %w", err)
		}
		opts = append(opts, query.WithRange(record.FieldSize, rg))
	}
	d, err := query.New(r.term, nil, r.sort.Query(), r.page, opts...)
	if err != nil {
		return query.Descriptor{}, fmt.Errorf("build descriptor: %w", err)
	}
	return d, nil
}
