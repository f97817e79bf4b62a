package archivist

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/archivist/internal/domain/bulk"
)

// ContentService manages catalog records.
type ContentService struct {
	svc contentUseCase
	obs *observer
}

// List filters, sorts and paginates the catalog.
func (s *ContentService) List(ctx context.Context, q ListQuery) (_ Page, err error) {
	start := time.Now()
	defer func() { s.obs.observe("content.list", start, err) }()

	d, err := q.descriptor()
	if err != nil {
		return Page{}, err
	}
	pg, err := s.svc.List(ctx, d)
	if err != nil {
		return Page{}, err
	}
	return fromDomainPage(pg), nil
}

// Get returns a record by id.
func (s *ContentService) Get(ctx context.Context, id string) (_ Record, err error) {
	start := time.Now()
	defer func() { s.obs.observe("content.get", start, err) }()

	rec, err := s.svc.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	return fromDomainRecord(rec), nil
}

// Upsert creates or replaces a record. Returns true if the record was created.
func (s *ContentService) Upsert(ctx context.Context, r Record) (created bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("content.upsert", start, err) }()

	rec, err := toDomainRecord(r)
	if err != nil {
		return false, err
	}
	created, _, err = s.svc.Upsert(ctx, rec)
	return created, err
}

// Delete removes a record.
func (s *ContentService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("content.delete", start, err) }()

	return s.svc.Delete(ctx, id)
}

// Bulk applies a bulk action (publish, draft, archive, delete, duplicate, export)
// to up to 100 ids. Per-id failures are reported in the results.
func (s *ContentService) Bulk(ctx context.Context, action string, ids []string) (_ []BulkResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("content.bulk", start, err) }()

	results, err := s.svc.Bulk(ctx, bulk.Action(action), ids)
	if err != nil {
		return nil, fmt.Errorf("bulk %s: %w", action, err)
	}
	out := make([]BulkResult, len(results))
	for i, r := range results {
		out[i] = BulkResult{ID: r.ID(), OK: r.Status() == bulk.StatusOK, Err: r.Err()}
		if rec, ok := r.Record(); ok {
			pub := fromDomainRecord(rec)
			out[i].Record = &pub
		}
	}
	return out, nil
}
