package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/archivist/internal/domain"
	"github.com/kailas-cloud/archivist/internal/domain/query"
	"github.com/kailas-cloud/archivist/internal/domain/query/page"
	"github.com/kailas-cloud/archivist/internal/domain/record"
	"github.com/kailas-cloud/archivist/internal/domain/record/patch"
	"github.com/kailas-cloud/archivist/internal/usecase/listing"
)

// FacetFields are the fields offered as filter dropdowns on the content screen.
var FacetFields = []string{record.FieldType, record.FieldCategory, record.FieldStatus}

// Service handles content record CRUD, bulk actions and the content listing.
type Service struct {
	repo    Repository
	query   Querier
	now     func() time.Time
	newID   func() string
	maxBulk int
}

// New creates a content service.
func New(repo Repository, q Querier) *Service {
	return &Service{
		repo:    repo,
		query:   q,
		now:     time.Now,
		newID:   uuid.NewString,
		maxBulk: 100,
	}
}

// WithClock replaces the time source used for uploadDate and lastModified.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// WithMaxBulkItems configures the bulk request limit.
func (s *Service) WithMaxBulkItems(n int) *Service {
	if n > 0 {
		s.maxBulk = n
	}
	return s
}

// List loads all records and runs the list pipeline.
func (s *Service) List(ctx context.Context, d query.Descriptor) (page.Page[record.Record], error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return page.Page[record.Record]{}, fmt.Errorf("load records: %w", err)
	}
	return s.query.Run(all, d), nil
}

// Get returns a record by id.
func (s *Service) Get(ctx context.Context, id string) (record.Record, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return record.Record{}, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// Create stores a new record. Status defaults to Draft; uploadDate defaults
// to today and lastModified is always today.
func (s *Service) Create(ctx context.Context, rec record.Record) (record.Record, error) {
	if err := record.ValidateID(rec.ID()); err != nil {
		return record.Record{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	rec, err := s.prepare(rec)
	if err != nil {
		return record.Record{}, err
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return record.Record{}, fmt.Errorf("create record: %w", err)
	}
	return rec, nil
}

// Update replaces an existing record. A missing uploadDate keeps the stored one.
func (s *Service) Update(ctx context.Context, rec record.Record) (record.Record, error) {
	existing, err := s.repo.Get(ctx, rec.ID())
	if err != nil {
		return record.Record{}, fmt.Errorf("get record: %w", err)
	}
	if _, ok := rec.Field(record.FieldUploadDate); !ok {
		rec = rec.With(record.FieldUploadDate, existing.Get(record.FieldUploadDate))
	}
	rec, err = s.prepare(rec)
	if err != nil {
		return record.Record{}, err
	}
	if err := s.repo.Put(ctx, rec); err != nil {
		return record.Record{}, fmt.Errorf("put record: %w", err)
	}
	return rec, nil
}

// Upsert creates the record or replaces it when the id exists.
// Returns true if the record was created.
func (s *Service) Upsert(ctx context.Context, rec record.Record) (bool, record.Record, error) {
	created, err := s.Create(ctx, rec)
	if err == nil {
		return true, created, nil
	}
	if !errors.Is(err, domain.ErrAlreadyExists) {
		return false, record.Record{}, err
	}
	updated, err := s.Update(ctx, rec)
	if err != nil {
		return false, record.Record{}, err
	}
	return false, updated, nil
}

// Patch applies a partial update. lastModified is refreshed unless the patch sets it.
func (s *Service) Patch(ctx context.Context, id string, p patch.Patch) (record.Record, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return record.Record{}, fmt.Errorf("get record: %w", err)
	}
	rec := p.Apply(existing)
	if p.Touches(record.FieldStatus) {
		if err := validateStatus(rec); err != nil {
			return record.Record{}, err
		}
	}
	if !p.Touches(record.FieldLastModified) {
		rec = rec.With(record.FieldLastModified, record.Date(s.today()))
	}
	if err := s.repo.Put(ctx, rec); err != nil {
		return record.Record{}, fmt.Errorf("put record: %w", err)
	}
	return rec, nil
}

// Delete removes a record.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// Facets counts distinct type, category and status values over all records.
func (s *Service) Facets(ctx context.Context) (map[string][]listing.Bucket, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return listing.Facets(all, FacetFields...), nil
}

func (s *Service) prepare(rec record.Record) (record.Record, error) {
	if _, ok := rec.Field(record.FieldStatus); !ok {
		rec = rec.With(record.FieldStatus, record.String(string(record.StatusDraft)))
	}
	if err := validateStatus(rec); err != nil {
		return record.Record{}, err
	}
	today := record.Date(s.today())
	if _, ok := rec.Field(record.FieldUploadDate); !ok {
		rec = rec.With(record.FieldUploadDate, today)
	}
	return rec.With(record.FieldLastModified, today), nil
}

func (s *Service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateStatus(rec record.Record) error {
	v := rec.Get(record.FieldStatus)
	st, ok := v.Str()
	if !ok || !record.Status(st).IsValid() {
		return fmt.Errorf("status must be one of Draft, Published, Archived, got %q: %w", v.Text(), domain.ErrValidation)
	}
	return nil
}
