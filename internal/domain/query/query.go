package query

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/kailas-cloud/archivist/internal/domain"
)

// Descriptor limits.
const (
	// MaxTermLength is the maximum search term length in bytes.
	MaxTermLength   = 512
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SentinelAll is the filter value meaning "no constraint" (matched case-insensitively).
const SentinelAll = "all"

// IsSentinel reports whether a filter value disables its filter: "" or "all".
func IsSentinel(v string) bool {
	return v == "" || strings.EqualFold(v, SentinelAll)
}

// Page is the requested page: 1-based index and positive size.
type Page struct {
	Index int
	Size  int
}

// Offset returns the index of the first item of the page.
func (p Page) Offset() int { return (p.Index - 1) * p.Size }

// Descriptor is a validated list query: search term, filters, sort and page.
type Descriptor struct {
	term     string
	equality map[string]string
	anyOf    map[string][]string
	ranges   map[string]Range
	sort     Sort
	page     Page
}

// Option configures optional Descriptor filters.
type Option func(*Descriptor)

// WithAnyOf accepts a record when the field equals any of values.
// Sentinel values are dropped; an empty set adds no constraint.
func WithAnyOf(field string, values ...string) Option {
	return func(d *Descriptor) {
		kept := make([]string, 0, len(values))
		for _, v := range values {
			if !IsSentinel(v) && !slices.Contains(kept, v) {
				kept = append(kept, v)
			}
		}
		if field == "" || len(kept) == 0 {
			return
		}
		if d.anyOf == nil {
			d.anyOf = make(map[string][]string)
		}
		d.anyOf[field] = kept
	}
}

// WithRange accepts a record when the field lies within r.
func WithRange(field string, r Range) Option {
	return func(d *Descriptor) {
		if field == "" || r.IsZero() {
			return
		}
		if d.ranges == nil {
			d.ranges = make(map[string]Range)
		}
		d.ranges[field] = r
	}
}

// New validates and normalizes query parameters.
// Defaults: page index 1, page size 20, direction asc. Page size is clamped to 100.
func New(term string, equality map[string]string, s Sort, p Page, opts ...Option) (Descriptor, error) {
	if len(term) > MaxTermLength {
		return Descriptor{}, fmt.Errorf("%w: term too long (max %d bytes)", domain.ErrInvalidQuery, MaxTermLength)
	}
	if p.Index < 0 {
		return Descriptor{}, fmt.Errorf("%w: page index must be positive", domain.ErrInvalidQuery)
	}
	if p.Size < 0 {
		return Descriptor{}, fmt.Errorf("%w: page size must be positive", domain.ErrInvalidQuery)
	}
	if p.Index == 0 {
		p.Index = 1
	}
	if p.Size == 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	if s.Direction == "" {
		s.Direction = Asc
	}
	if !s.Direction.IsValid() {
		return Descriptor{}, fmt.Errorf("%w: invalid sort direction %q", domain.ErrInvalidQuery, s.Direction)
	}

	d := Descriptor{
		term:     term,
		equality: maps.Clone(equality),
		sort:     s,
		page:     p,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d, nil
}

// MustNew is New for statically known parameters. It panics on error.
func MustNew(term string, equality map[string]string, s Sort, p Page, opts ...Option) Descriptor {
	d, err := New(term, equality, s, p, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Term returns the free-text search term.
func (d Descriptor) Term() string { return d.term }

// Equality returns a copy of the equality filters, sentinels included.
func (d Descriptor) Equality() map[string]string { return maps.Clone(d.equality) }

// ActiveEquality returns the equality filters that constrain the result.
func (d Descriptor) ActiveEquality() map[string]string {
	out := make(map[string]string, len(d.equality))
	for k, v := range d.equality {
		if !IsSentinel(v) {
			out[k] = v
		}
	}
	return out
}

// AnyOf returns a copy of the multi-value filters.
func (d Descriptor) AnyOf() map[string][]string {
	out := make(map[string][]string, len(d.anyOf))
	for k, v := range d.anyOf {
		out[k] = slices.Clone(v)
	}
	return out
}

// Ranges returns a copy of the range filters.
func (d Descriptor) Ranges() map[string]Range { return maps.Clone(d.ranges) }

// Sort returns the requested ordering.
func (d Descriptor) Sort() Sort { return d.sort }

// Page returns the requested page.
func (d Descriptor) Page() Page { return d.page }

// WithPageIndex returns a copy requesting another page.
// Non-positive indexes are normalized to 1.
func (d Descriptor) WithPageIndex(index int) Descriptor {
	if index < 1 {
		index = 1
	}
	d.page.Index = index
	return d
}

// WithSort returns a copy with another sort. An empty direction means asc.
func (d Descriptor) WithSort(s Sort) Descriptor {
	if s.Direction == "" {
		s.Direction = Asc
	}
	d.sort = s
	return d
}

// WithoutFilters returns a copy keeping only the term, sort and page.
func (d Descriptor) WithoutFilters() Descriptor {
	d.equality = nil
	d.anyOf = nil
	d.ranges = nil
	return d
}
