package content

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/archivist/internal/domain"
	"github.com/kailas-cloud/archivist/internal/domain/bulk"
	"github.com/kailas-cloud/archivist/internal/domain/record"
)

// copySuffix marks the title of a duplicated record.
const copySuffix = " (Copy)"

// Bulk applies an action to each id and reports per-item results in request order.
// A malformed request (unknown action, no ids, too many ids) fails as a whole.
func (s *Service) Bulk(ctx context.Context, action bulk.Action, ids []string) ([]bulk.Result, error) {
	if !action.IsValid() {
		return nil, fmt.Errorf("unknown bulk action %q: %w", action, domain.ErrValidation)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one id is required: %w", domain.ErrValidation)
	}
	if len(ids) > s.maxBulk {
		return nil, fmt.Errorf("bulk size %d exceeds %d: %w", len(ids), s.maxBulk, domain.ErrValidation)
	}

	results := make([]bulk.Result, len(ids))
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			results[i] = bulk.NewError(id, err)
			continue
		}
		results[i] = s.applyOne(ctx, action, id)
	}
	return results, nil
}

func (s *Service) applyOne(ctx context.Context, action bulk.Action, id string) bulk.Result {
	if action == bulk.Delete {
		if err := s.Delete(ctx, id); err != nil {
			return bulk.NewError(id, err)
		}
		return bulk.NewOK(id)
	}

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return bulk.NewError(id, fmt.Errorf("get record: %w", err))
	}

	switch action {
	case bulk.Export:
		return bulk.NewOKWithRecord(id, rec)
	case bulk.Duplicate:
		dup, err := s.duplicate(ctx, rec)
		if err != nil {
			return bulk.NewError(id, err)
		}
		return bulk.NewOKWithRecord(id, dup)
	}

	status, _ := action.TargetStatus()
	rec = rec.
		With(record.FieldStatus, record.String(string(status))).
		With(record.FieldLastModified, record.Date(s.today()))
	if err := s.repo.Put(ctx, rec); err != nil {
		return bulk.NewError(id, fmt.Errorf("put record: %w", err))
	}
	return bulk.NewOKWithRecord(id, rec)
}

// duplicate stores a Draft copy under a fresh id with zeroed counters.
func (s *Service) duplicate(ctx context.Context, src record.Record) (record.Record, error) {
	today := record.Date(s.today())
	dup := src.WithID(s.newID()).
		With(record.FieldTitle, record.String(src.Get(record.FieldTitle).Text()+copySuffix)).
		With(record.FieldStatus, record.String(string(record.StatusDraft))).
		With(record.FieldUploadDate, today).
		With(record.FieldLastModified, today)
	if _, ok := src.Field(record.FieldDownloads); ok {
		dup = dup.With(record.FieldDownloads, record.Number(0))
	}
	if _, ok := src.Field(record.FieldViews); ok {
		dup = dup.With(record.FieldViews, record.Number(0))
	}
	if err := s.repo.Create(ctx, dup); err != nil {
		return record.Record{}, fmt.Errorf("create copy: %w", err)
	}
	return dup, nil
}
