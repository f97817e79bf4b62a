package archivist

import (
	"fmt"

	"github.com/kailas-cloud/archivist/internal/domain"
	"github.com/kailas-cloud/archivist/internal/domain/query"
	"github.com/kailas-cloud/archivist/internal/domain/query/page"
	"github.com/kailas-cloud/archivist/internal/domain/record"
	"github.com/kailas-cloud/archivist/internal/domain/search/preset"
	"github.com/kailas-cloud/archivist/internal/domain/search/request"
	"github.com/kailas-cloud/archivist/internal/usecase/listing"
)

func toDomainRecord(r Record) (record.Record, error) {
	fields := make(map[string]record.Value, len(r.Fields))
	for name, raw := range r.Fields {
		if name == record.FieldID {
			continue
		}
		v, err := record.FromAny(raw)
		if err != nil {
			return record.Record{}, fmt.Errorf("%w: field %q: %w", domain.ErrValidation, name, err)
		}
		fields[name] = v
	}
	rec, err := record.New(r.ID, fields)
	if err != nil {
		return record.Record{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return rec, nil
}

func fromDomainRecord(r record.Record) Record {
	fields := make(map[string]any, r.Len())
	for name, v := range r.Fields() {
		fields[name] = plain(v)
	}
	return Record{ID: r.ID(), Fields: fields}
}

// plain keeps dates as time.Time, unlike record.ToAny which renders them for JSON.
func plain(v record.Value) any {
	if t, ok := v.Time(); ok {
		return t
	}
	if tags, ok := v.TagList(); ok {
		return tags
	}
	return record.ToAny(v)
}

func fromDomainPage(pg page.Page[record.Record]) Page {
	items := make([]Record, len(pg.Items()))
	for i, r := range pg.Items() {
		items[i] = fromDomainRecord(r)
	}
	return Page{
		Items:        items,
		TotalMatched: pg.TotalMatched(),
		TotalPages:   pg.TotalPages(),
		Page:         pg.Index(),
		PageSize:     pg.Size(),
	}
}

func (q ListQuery) descriptor() (query.Descriptor, error) {
	dir, ok := query.ParseDirection(q.Order)
	if !ok {
		return query.Descriptor{}, fmt.Errorf("%w: invalid order %q", domain.ErrInvalidQuery, q.Order)
	}
	return query.New(q.Term, q.Filters, query.By(q.SortKey, dir), query.Page{Index: q.Page, Size: q.PageSize})
}

func (q SearchQuery) request() (request.Request, error) {
	facets := make(map[string][]string)
	for field, values := range map[string][]string{
		record.FieldType:     q.Types,
		record.FieldCategory: q.Categories,
		record.FieldFormat:   q.Formats,
	} {
		if len(values) > 0 {
			facets[field] = values
		}
	}
	return request.New(
		q.Term,
		preset.Sort(q.Sort),
		facets,
		preset.DateRange(q.Date),
		preset.SizeBucket(q.Size),
		query.Page{Index: q.Page, Size: q.PageSize},
	)
}

func fromDomainFacets(f map[string][]listing.Bucket) map[string][]FacetBucket {
	out := make(map[string][]FacetBucket, len(f))
	for field, buckets := range f {
		bs := make([]FacetBucket, len(buckets))
		for i, b := range buckets {
			bs[i] = FacetBucket{Value: b.Value, Count: b.Count}
		}
		out[field] = bs
	}
	return out
}
