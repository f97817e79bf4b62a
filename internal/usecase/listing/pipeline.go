// Package listing implements the list query pipeline shared by the content,
// search and upload views: term filter, equality filters, stable sort, paginate.
package listing

import (
	"slices"
	"strings"

	"github.com/kailas-cloud/archivist/internal/domain/query"
	"github.com/kailas-cloud/archivist/internal/domain/query/page"
	"github.com/kailas-cloud/archivist/internal/domain/record"
)

// DefaultSearchableFields are matched by the free-text term when none are configured.
var DefaultSearchableFields = []string{record.FieldTitle, record.FieldAuthor, record.FieldTags}

// Pipeline is a pure transform from (records, descriptor) to a result page.
// It holds no state besides its configuration and is safe for concurrent use.
type Pipeline struct {
	searchable []string
}

// New creates a pipeline matching the term against the given fields.
func New(searchable ...string) *Pipeline {
	if len(searchable) == 0 {
		searchable = DefaultSearchableFields
	}
	return &Pipeline{searchable: slices.Clone(searchable)}
}

// SearchableFields returns the fields matched by the free-text term.
func (p *Pipeline) SearchableFields() []string { return slices.Clone(p.searchable) }

// Run filters, sorts and paginates records. The input slice is never modified.
func (p *Pipeline) Run(records []record.Record, d query.Descriptor) page.Page[record.Record] {
	matched := p.Filter(records, d)
	SortStable(matched, d.Sort())
	pg := d.Page()
	return page.Slice(matched, pg.Index, pg.Size)
}

// Filter returns the records passing both the term and the filters, in input order.
func (p *Pipeline) Filter(records []record.Record, d query.Descriptor) []record.Record {
	term := strings.ToLower(d.Term())
	eq := d.ActiveEquality()
	anyOf := d.AnyOf()
	ranges := d.Ranges()

	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if !p.matchesTerm(r, term) {
			continue
		}
		if !matchesEquality(r, eq) || !matchesAnyOf(r, anyOf) || !matchesRanges(r, ranges) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterTerm returns the records matching only the free-text term, in input order.
func (p *Pipeline) FilterTerm(records []record.Record, term string) []record.Record {
	lower := strings.ToLower(term)
	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if p.matchesTerm(r, lower) {
			out = append(out, r)
		}
	}
	return out
}

func (p *Pipeline) matchesTerm(r record.Record, lowerTerm string) bool {
	if lowerTerm == "" {
		return true
	}
	for _, f := range p.searchable {
		if r.Get(f).ContainsFold(lowerTerm) {
			return true
		}
	}
	return false
}

func matchesEquality(r record.Record, eq map[string]string) bool {
	for field, want := range eq {
		if !r.Get(field).Equals(want) {
			return false
		}
	}
	return true
}

func matchesAnyOf(r record.Record, anyOf map[string][]string) bool {
	for field, accepted := range anyOf {
		v := r.Get(field)
		if !slices.ContainsFunc(accepted, v.Equals) {
			return false
		}
	}
	return true
}

func matchesRanges(r record.Record, ranges map[string]query.Range) bool {
	for field, rg := range ranges {
		if !rg.Contains(r.Get(field)) {
			return false
		}
	}
	return true
}

// SortStable orders records in place by s. Ties keep their relative order in
// both directions. An empty key leaves the order unchanged.
func SortStable(records []record.Record, s query.Sort) {
	if s.Key == "" {
		return
	}
	key := s.Key
	if s.Direction == query.Desc {
		slices.SortStableFunc(records, func(a, b record.Record) int {
			return record.Compare(b.Get(key), a.Get(key))
		})
		return
	}
	slices.SortStableFunc(records, func(a, b record.Record) int {
		return record.Compare(a.Get(key), b.Get(key))
	})
}
