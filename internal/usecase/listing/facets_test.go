package listing

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/archivist/internal/domain/record"
)

func TestFacets(t *testing.T) {
	got := Facets(contentFixture(t), "type", "status", "missing")

	want := map[string][]Bucket{
		"type": {
			{Value: "Image", Count: 3},
			{Value: "Document", Count: 2},
			{Value: "Audio", Count: 1},
			{Value: "Database", Count: 1},
			{Value: "Video", Count: 1},
		},
		"status": {
			{Value: "Published", Count: 5},
			{Value: "Draft", Count: 2},
			{Value: "Archived", Count: 1},
		},
		"missing": {},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Facets() mismatch (-want +got):\n%s", diff)
	}
}

func TestFacets_TagsCountedOncePerRecord(t *testing.T) {
	records := []record.Record{
		record.Reconstruct("1", map[string]record.Value{"tags": record.Tags("a", "b", "a")}),
		record.Reconstruct("2", map[string]record.Value{"tags": record.Tags("b")}),
	}
	got := Facets(records, "tags")["tags"]
	want := []Bucket{{Value: "b", Count: 2}, {Value: "a", Count: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
