package content

import (
	"context"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/kailas-cloud/archivist/internal/domain"
	"github.com/kailas-cloud/archivist/internal/domain/record"
	"github.com/kailas-cloud/archivist/internal/usecase/listing"
)

// memRepo keeps records in insertion order.
type memRepo struct {
	recs   []record.Record
	allErr error
	putErr error
}

func (m *memRepo) All(context.Context) ([]record.Record, error) {
	if m.allErr != nil {
		return nil, m.allErr
	}
	return slices.Clone(m.recs), nil
}

func (m *memRepo) index(id string) int {
	return slices.IndexFunc(m.recs, func(r record.Record) bool { return r.ID() == id })
}

func (m *memRepo) Get(_ context.Context, id string) (record.Record, error) {
	if i := m.index(id); i >= 0 {
		return m.recs[i], nil
	}
	return record.Record{}, fmt.Errorf("record %q: %w", id, domain.ErrNotFound)
}

func (m *memRepo) Create(_ context.Context, rec record.Record) error {
	if m.index(rec.ID()) >= 0 {
		return fmt.Errorf("record %q: %w", rec.ID(), domain.ErrAlreadyExists)
	}
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memRepo) Put(_ context.Context, rec record.Record) error {
	if m.putErr != nil {
		return m.putErr
	}
	if i := m.index(rec.ID()); i >= 0 {
		m.recs[i] = rec
		return nil
	}
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	i := m.index(id)
	if i < 0 {
		return fmt.Errorf("record %q: %w", id, domain.ErrNotFound)
	}
	m.recs = slices.Delete(m.recs, i, i+1)
	return nil
}

var fixedNow = time.Date(2024, 2, 1, 15, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, recs ...record.Record) (*Service, *memRepo) {
	t.Helper()
	repo := &memRepo{recs: recs}
	svc := New(repo, listing.New()).WithClock(func() time.Time { return fixedNow })
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("copy-%d", n)
	}
	return svc, repo
}

func mustRecord(t *testing.T, m map[string]any) record.Record {
	t.Helper()
	r, err := record.FromMap(m)
	if err != nil {
		t.Fatalf("record.FromMap(%v): %v", m, err)
	}
	return r
}

func contentFixture(t *testing.T) []record.Record {
	t.Helper()
	raw := []map[string]any{
		{"id": 1, "title": "Historical Documents Collection 2023", "type": "Document", "category": "Historical Archives",
			"uploadDate": "2024-01-15", "status": "Published", "author": "Dr. Sarah Johnson",
			"tags": []any{"history", "documents"}, "downloads": 156, "views": 1240},
		{"id": 2, "title": "Medieval Manuscript Digitization Project", "type": "Image", "category": "Manuscripts",
			"uploadDate": "2024-01-12", "status": "Draft", "author": "Prof. Michael Chen",
			"tags": []any{"medieval", "manuscripts"}, "downloads": 89, "views": 567},
		{"id": 3, "title": "Oral History Interview Series", "type": "Audio", "category": "Oral Histories",
			"uploadDate": "2024-01-10", "status": "Published", "author": "Lisa Rodriguez",
			"tags": []any{"oral history"}, "downloads": 234, "views": 890},
		{"id": 4, "title": "Documentary Film Archive", "type": "Video", "category": "Films",
			"uploadDate": "2024-01-08", "status": "Archived", "author": "James Wilson",
			"tags": []any{"documentary"}, "downloads": 45, "views": 234},
	}
	out := make([]record.Record, len(raw))
	for i, m := range raw {
		out[i] = mustRecord(t, m)
	}
	return out
}

func ids(recs []record.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID()
	}
	return out
}
