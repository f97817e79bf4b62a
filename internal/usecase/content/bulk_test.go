package content

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/archivist/internal/domain"
	"github.com/kailas-cloud/archivist/internal/domain/bulk"
	"github.com/kailas-cloud/archivist/internal/domain/record"
)

func TestBulk_StatusActions(t *testing.T) {
	tests := []struct {
		action bulk.Action
		want   record.Status
	}{
		{bulk.Publish, record.StatusPublished},
		{bulk.Draft, record.StatusDraft},
		{bulk.Archive, record.StatusArchived},
	}
	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			svc, repo := newTestService(t, contentFixture(t)...)
			results, err := svc.Bulk(context.Background(), tt.action, []string{"1", "2", "missing"})
			if err != nil {
				t.Fatalf("Bulk: %v", err)
			}
			if len(results) != 3 {
				t.Fatalf("len = %d", len(results))
			}
			for _, r := range results[:2] {
				if r.Status() != bulk.StatusOK {
					t.Errorf("%s: status = %s err = %v", r.ID(), r.Status(), r.Err())
				}
			}
			if results[2].Status() != bulk.StatusError || !errors.Is(results[2].Err(), domain.ErrNotFound) {
				t.Errorf("missing: status = %s err = %v", results[2].Status(), results[2].Err())
			}
			for _, id := range []string{"1", "2"} {
				rec, _ := repo.Get(context.Background(), id)
				if record.StatusOf(rec) != tt.want {
					t.Errorf("%s status = %q, want %q", id, record.StatusOf(rec), tt.want)
				}
			}
		})
	}
}

func TestBulk_Delete(t *testing.T) {
	svc, repo := newTestService(t, contentFixture(t)...)
	results, err := svc.Bulk(context.Background(), bulk.Delete, []string{"3", "4"})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.Status() != bulk.StatusOK {
			t.Errorf("%s: %v", r.ID(), r.Err())
		}
	}
	if got := ids(repo.recs); len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Errorf("remaining = %v", got)
	}
}

func TestBulk_Duplicate(t *testing.T) {
	svc, repo := newTestService(t, contentFixture(t)...)
	results, err := svc.Bulk(context.Background(), bulk.Duplicate, []string{"1"})
	if err != nil {
		t.Fatal(err)
	}
	dup, ok := results[0].Record()
	if !ok {
		t.Fatalf("no record in result: %v", results[0].Err())
	}
	if dup.ID() != "copy-1" {
		t.Errorf("id = %q", dup.ID())
	}
	if dup.Get(record.FieldTitle).Text() != "Historical Documents Collection 2023 (Copy)" {
		t.Errorf("title = %q", dup.Get(record.FieldTitle).Text())
	}
	if record.StatusOf(dup) != record.StatusDraft {
		t.Errorf("status = %q", record.StatusOf(dup))
	}
	if n, _ := dup.Get(record.FieldDownloads).Num(); n != 0 {
		t.Errorf("downloads = %v", n)
	}
	if dup.Get(record.FieldAuthor).Text() != "Dr. Sarah Johnson" {
		t.Error("other fields should be copied")
	}
	if len(repo.recs) != 5 {
		t.Errorf("len = %d, want 5", len(repo.recs))
	}
}

func TestBulk_Export(t *testing.T) {
	svc, repo := newTestService(t, contentFixture(t)...)
	before := len(repo.recs)
	results, err := svc.Bulk(context.Background(), bulk.Export, []string{"2", "4"})
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []string{"2", "4"} {
		rec, ok := results[i].Record()
		if !ok || rec.ID() != want {
			t.Errorf("results[%d] = %v, %v", i, rec.ID(), ok)
		}
	}
	if len(repo.recs) != before {
		t.Error("export must not write")
	}
}

func TestBulk_InvalidRequest(t *testing.T) {
	svc, _ := newTestService(t, contentFixture(t)...)
	svc.WithMaxBulkItems(2)
	ctx := context.Background()

	if _, err := svc.Bulk(ctx, "rename", []string{"1"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown action err = %v", err)
	}
	if _, err := svc.Bulk(ctx, bulk.Publish, nil); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("no ids err = %v", err)
	}
	if _, err := svc.Bulk(ctx, bulk.Publish, []string{"1", "2", "3"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("too many err = %v", err)
	}
}

func TestBulk_PutError(t *testing.T) {
	svc, repo := newTestService(t, contentFixture(t)...)
	repo.putErr = errors.New("disk full")
	results, err := svc.Bulk(context.Background(), bulk.Publish, []string{"2"})
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Status() != bulk.StatusError {
		t.Errorf("status = %s", results[0].Status())
	}
}
