package content

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/archivist/internal/domain"
	"github.com/kailas-cloud/archivist/internal/domain/query"
	"github.com/kailas-cloud/archivist/internal/domain/record"
	"github.com/kailas-cloud/archivist/internal/domain/record/patch"
	"github.com/kailas-cloud/archivist/internal/usecase/listing"
)

func TestList_RunsPipeline(t *testing.T) {
	svc, _ := newTestService(t, contentFixture(t)...)
	d := query.MustNew("", map[string]string{"status": "Published"},
		query.By(record.FieldUploadDate, query.Asc), query.Page{Index: 1, Size: 10})

	res, err := svc.List(context.Background(), d)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff([]string{"3", "1"}, ids(res.Items())); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if res.TotalMatched() != 2 || res.TotalPages() != 1 {
		t.Errorf("matched=%d pages=%d", res.TotalMatched(), res.TotalPages())
	}
}

func TestList_RepoError(t *testing.T) {
	svc, repo := newTestService(t)
	repo.allErr = errors.New("down")
	if _, err := svc.List(context.Background(), query.MustNew("", nil, query.Sort{}, query.Page{})); err == nil {
		t.Fatal("expected error")
	}
}

func TestCreate_Defaults(t *testing.T) {
	svc, repo := newTestService(t)
	rec := mustRecord(t, map[string]any{"id": "new-1", "title": "Harbor Maps"})

	got, err := svc.Create(context.Background(), rec)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if record.StatusOf(got) != record.StatusDraft {
		t.Errorf("status = %q, want Draft", record.StatusOf(got))
	}
	if got.Get(record.FieldUploadDate).Text() != "2024-02-01" {
		t.Errorf("uploadDate = %q", got.Get(record.FieldUploadDate).Text())
	}
	if got.Get(record.FieldLastModified).Text() != "2024-02-01" {
		t.Errorf("lastModified = %q", got.Get(record.FieldLastModified).Text())
	}
	if len(repo.recs) != 1 {
		t.Errorf("stored %d records", len(repo.recs))
	}
}

func TestCreate_KeepsUploadDate(t *testing.T) {
	svc, _ := newTestService(t)
	rec := mustRecord(t, map[string]any{"id": "a", "uploadDate": "2020-05-05", "status": "Published"})
	got, err := svc.Create(context.Background(), rec)
	if err != nil {
		t.Fatal(err)
	}
	if got.Get(record.FieldUploadDate).Text() != "2020-05-05" {
		t.Errorf("uploadDate = %q", got.Get(record.FieldUploadDate).Text())
	}
}

func TestCreate_Errors(t *testing.T) {
	svc, _ := newTestService(t, contentFixture(t)...)
	ctx := context.Background()

	_, err := svc.Create(ctx, mustRecord(t, map[string]any{"id": "x", "status": "Deleted"}))
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad status err = %v, want ErrValidation", err)
	}
	_, err = svc.Create(ctx, mustRecord(t, map[string]any{"id": "x", "status": 3}))
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("numeric status err = %v, want ErrValidation", err)
	}
	_, err = svc.Create(ctx, mustRecord(t, map[string]any{"id": 1}))
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("duplicate err = %v, want ErrAlreadyExists", err)
	}
	_, err = svc.Create(ctx, record.Reconstruct("bad id", nil))
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad id err = %v, want ErrValidation", err)
	}
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService(t, contentFixture(t)...)
	ctx := context.Background()

	got, err := svc.Update(ctx, mustRecord(t, map[string]any{"id": 2, "title": "Renamed", "status": "Published"}))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Get(record.FieldUploadDate).Text() != "2024-01-12" {
		t.Errorf("uploadDate not preserved: %q", got.Get(record.FieldUploadDate).Text())
	}
	if _, ok := got.Field(record.FieldAuthor); ok {
		t.Error("full replace should drop fields missing from the input")
	}

	_, err = svc.Update(ctx, mustRecord(t, map[string]any{"id": "missing"}))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpsert(t *testing.T) {
	svc, _ := newTestService(t, contentFixture(t)...)
	ctx := context.Background()

	created, _, err := svc.Upsert(ctx, mustRecord(t, map[string]any{"id": "n1", "title": "New"}))
	if err != nil || !created {
		t.Fatalf("first upsert created=%v err=%v", created, err)
	}
	created, rec, err := svc.Upsert(ctx, mustRecord(t, map[string]any{"id": "n1", "title": "Newer"}))
	if err != nil || created {
		t.Fatalf("second upsert created=%v err=%v", created, err)
	}
	if rec.Get(record.FieldTitle).Text() != "Newer" {
		t.Errorf("title = %q", rec.Get(record.FieldTitle).Text())
	}
}

func TestPatch(t *testing.T) {
	svc, _ := newTestService(t, contentFixture(t)...)
	ctx := context.Background()

	p, err := patch.FromAny(map[string]any{"title": "Patched", "author": nil})
	if err != nil {
		t.Fatal(err)
	}
	got, err := svc.Patch(ctx, "1", p)
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if got.Get(record.FieldTitle).Text() != "Patched" {
		t.Errorf("title = %q", got.Get(record.FieldTitle).Text())
	}
	if _, ok := got.Field(record.FieldAuthor); ok {
		t.Error("author should be removed")
	}
	if got.Get(record.FieldCategory).Text() != "Historical Archives" {
		t.Error("untouched fields must survive")
	}
	if got.Get(record.FieldLastModified).Text() != "2024-02-01" {
		t.Errorf("lastModified = %q", got.Get(record.FieldLastModified).Text())
	}
}

func TestPatch_InvalidStatus(t *testing.T) {
	svc, _ := newTestService(t, contentFixture(t)...)
	p, _ := patch.FromAny(map[string]any{"status": "Gone"})
	if _, err := svc.Patch(context.Background(), "1", p); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestPatch_ExplicitLastModified(t *testing.T) {
	svc, _ := newTestService(t, contentFixture(t)...)
	p, _ := patch.FromAny(map[string]any{"lastModified": "2023-03-03"})
	got, err := svc.Patch(context.Background(), "1", p)
	if err != nil {
		t.Fatal(err)
	}
	if got.Get(record.FieldLastModified).Text() != "2023-03-03" {
		t.Errorf("lastModified = %q", got.Get(record.FieldLastModified).Text())
	}
}

func TestDelete(t *testing.T) {
	svc, repo := newTestService(t, contentFixture(t)...)
	ctx := context.Background()
	if err := svc.Delete(ctx, "2"); err != nil {
		t.Fatal(err)
	}
	if len(repo.recs) != 3 {
		t.Errorf("len = %d", len(repo.recs))
	}
	if err := svc.Delete(ctx, "2"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFacets(t *testing.T) {
	svc, _ := newTestService(t, contentFixture(t)...)
	got, err := svc.Facets(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []listing.Bucket{{Value: "Published", Count: 2}, {Value: "Archived", Count: 1}, {Value: "Draft", Count: 1}}
	if diff := cmp.Diff(want, got[record.FieldStatus]); diff != "" {
		t.Errorf("status facets mismatch (-want +got):\n%s", diff)
	}
	if len(got[record.FieldType]) != 4 {
		t.Errorf("type facets = %v", got[record.FieldType])
	}
}
