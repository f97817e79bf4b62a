package chi

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/archivist/internal/domain"
	"github.com/kailas-cloud/archivist/internal/domain/bulk"
	"github.com/kailas-cloud/archivist/internal/domain/category"
	"github.com/kailas-cloud/archivist/internal/domain/query"
	"github.com/kailas-cloud/archivist/internal/domain/query/page"
	"github.com/kailas-cloud/archivist/internal/domain/record"
	"github.com/kailas-cloud/archivist/internal/domain/search/preset"
	"github.com/kailas-cloud/archivist/internal/domain/search/request"
	domupload "github.com/kailas-cloud/archivist/internal/domain/upload"
	"github.com/kailas-cloud/archivist/internal/usecase/listing"
)

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func pageOf(index, size *int) query.Page {
	return query.Page{Index: deref(index), Size: deref(size)}
}

func sortOf(key, order *string) (query.Sort, error) {
	dir, ok := query.ParseDirection(deref(order))
	if !ok {
		return query.Sort{}, fmt.Errorf("%w: invalid order %q", domain.ErrInvalidQuery, deref(order))
	}
	return query.By(deref(key), dir), nil
}

func contentDescriptor(p ListContentParams) (query.Descriptor, error) {
	s, err := sortOf(p.Sort, p.Order)
	if err != nil {
		return query.Descriptor{}, err
	}
	eq := map[string]string{
		record.FieldType:     deref(p.Type),
		record.FieldCategory: deref(p.Category),
		record.FieldStatus:   deref(p.Status),
	}
	d, err := query.New(deref(p.Q), eq, s, pageOf(p.Page, p.PageSize))
	if err != nil {
		return query.Descriptor{}, fmt.Errorf("content query: %w", err)
	}
	return d, nil
}

func uploadsDescriptor(p ListUploadsParams) (query.Descriptor, error) {
	s, err := sortOf(p.Sort, p.Order)
	if err != nil {
		return query.Descriptor{}, err
	}
	eq := map[string]string{
		record.FieldStatus: deref(p.Status),
		record.FieldType:   deref(p.Type),
	}
	d, err := query.New(deref(p.Q), eq, s, pageOf(p.Page, p.PageSize))
	if err != nil {
		return query.Descriptor{}, fmt.Errorf("uploads query: %w", err)
	}
	return d, nil
}

func searchRequest(p SearchParams) (request.Request, error) {
	facets := make(map[string][]string)
	for field, values := range map[string]*[]string{
		record.FieldType:     p.Type,
		record.FieldCategory: p.Category,
		record.FieldFormat:   p.Format,
	} {
		if values != nil && len(*values) > 0 {
			facets[field] = *values
		}
	}
	r, err := request.New(
		deref(p.Q),
		preset.Sort(deref(p.Sort)),
		facets,
		preset.DateRange(deref(p.Date)),
		preset.SizeBucket(deref(p.Size)),
		pageOf(p.Page, p.PageSize),
	)
	if err != nil {
		return request.Request{}, fmt.Errorf("search query: %w", err)
	}
	return r, nil
}

func pageToAPI(pg page.Page[record.Record]) PageResponse {
	items := make([]Item, len(pg.Items()))
	for i, r := range pg.Items() {
		items[i] = record.ToMap(r)
	}
	return PageResponse{
		Items:        items,
		TotalMatched: pg.TotalMatched(),
		TotalPages:   pg.TotalPages(),
		Page:         pg.Index(),
		PageSize:     pg.Size(),
	}
}

func facetsToAPI(facets map[string][]listing.Bucket) map[string][]FacetBucket {
	out := make(map[string][]FacetBucket, len(facets))
	for field, buckets := range facets {
		bb := make([]FacetBucket, len(buckets))
		for i, b := range buckets {
			bb[i] = FacetBucket{Value: b.Value, Count: b.Count}
		}
		out[field] = bb
	}
	return out
}

func bulkResultToAPI(r bulk.Result) BulkResultItem {
	item := BulkResultItem{ID: r.ID(), Status: string(r.Status())}
	if rec, ok := r.Record(); ok {
		item.Record = record.ToMap(rec)
	}
	if r.Err() != nil {
		item.Error = &ErrorResponse{Code: errorCode(r.Err()), Message: safeDomainMessage(r.Err())}
	}
	return item
}

func fileToAPI(f domupload.File) UploadFile {
	return UploadFile{Name: f.Name, Size: f.Size, MimeType: f.MIME}
}

func metadataToAPI(m domupload.Metadata) UploadMetadata {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return UploadMetadata{
		Title:           m.Title,
		Description:     m.Description,
		Category:        m.Category,
		Tags:            tags,
		Collection:      m.Collection,
		RightsInfo:      m.RightsInfo,
		PublicationDate: m.PublicationDate.Format(record.DateLayout),
		Custom:          m.Custom,
		IsPublic:        m.IsPublic,
		EnableComments:  m.EnableComments,
		Featured:        m.Featured,
	}
}

// applyMetadataPatch overlays the set fields of p on m.
func applyMetadataPatch(m domupload.Metadata, p UploadMetadataPatch) (domupload.Metadata, error) {
	if p.PublicationDate != nil {
		t, err := time.Parse(record.DateLayout, *p.PublicationDate)
		if err != nil {
			return m, fmt.Errorf("%w: publication_date must be YYYY-MM-DD", domain.ErrValidation)
		}
		m.PublicationDate = t
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&m.Title, p.Title)
	set(&m.Description, p.Description)
	set(&m.Category, p.Category)
	set(&m.Collection, p.Collection)
	set(&m.RightsInfo, p.RightsInfo)
	if p.Tags != nil {
		m.Tags = *p.Tags
	}
	if p.Custom != nil {
		m.Custom = *p.Custom
	}
	if p.IsPublic != nil {
		m.IsPublic = *p.IsPublic
	}
	if p.EnableComments != nil {
		m.EnableComments = *p.EnableComments
	}
	if p.Featured != nil {
		m.Featured = *p.Featured
	}
	return m, nil
}

func taskToAPI(t domupload.Task) UploadTask {
	return UploadTask{
		ID:            t.ID,
		File:          fileToAPI(t.File),
		Group:         string(t.Group),
		Status:        string(t.Status),
		Progress:      t.Progress,
		BytesReceived: t.BytesReceived,
		Checksum:      t.Checksum,
		Metadata:      metadataToAPI(t.Metadata),
		RecordID:      t.RecordID,
		Error:         t.Err,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func tasksToAPI(tasks []domupload.Task) []UploadTask {
	out := make([]UploadTask, len(tasks))
	for i, t := range tasks {
		out[i] = taskToAPI(t)
	}
	return out
}

func eventToAPI(ev domupload.Event) UploadEvent {
	return UploadEvent{
		TaskID:   ev.TaskID,
		Status:   string(ev.Status),
		Progress: ev.Progress,
		Bytes:    ev.Bytes,
		Error:    ev.Err,
		At:       ev.At,
	}
}

func suggestionToAPI(s category.Suggestion) Suggestion {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return Suggestion{Category: s.Category, Tags: tags, Source: string(s.Source)}
}
