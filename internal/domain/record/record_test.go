package record

import (
	"slices"
	"strings"
	"testing"
	"time"
)

func TestNew_Valid(t *testing.T) {
	r, err := New("doc-1", map[string]Value{"title": String("T"), "thumbnail": {}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID() != "doc-1" {
		t.Errorf("ID() = %q", r.ID())
	}
	if _, ok := r.Field("thumbnail"); ok {
		t.Error("absent values should be dropped")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestNew_InvalidID(t *testing.T) {
	for _, id := range []string{"", "has space", "a/b", strings.Repeat("x", MaxIDLength+1)} {
		if _, err := New(id, nil); err == nil {
			t.Errorf("New(%q) expected error", id)
		}
	}
}

func TestNew_ReservedField(t *testing.T) {
	if _, err := New("1", map[string]Value{"id": String("2")}); err == nil {
		t.Error("expected error for reserved id field")
	}
}

func TestRecord_FieldID(t *testing.T) {
	r := Reconstruct("42", nil)
	v, ok := r.Field(FieldID)
	if !ok || v.Text() != "42" {
		t.Errorf("Field(id) = %q, %v", v.Text(), ok)
	}
}

func TestRecord_FieldIDKinds(t *testing.T) {
	tests := []struct {
		id   string
		kind Kind
	}{
		{"42", KindNumber},
		{"0", KindNumber},
		{"007", KindString},
		{"a-1", KindString},
		{"1234567890123456", KindString},
	}
	for _, tt := range tests {
		v := Reconstruct(tt.id, nil).Get(FieldID)
		if v.Kind() != tt.kind {
			t.Errorf("id %q kind = %v, want %v", tt.id, v.Kind(), tt.kind)
		}
		if v.Text() != tt.id {
			t.Errorf("id %q text = %q", tt.id, v.Text())
		}
	}

	ids := []string{"b", "10", "2", "a"}
	slices.SortFunc(ids, func(a, b string) int {
		return Compare(Reconstruct(a, nil).Get(FieldID), Reconstruct(b, nil).Get(FieldID))
	})
	if want := []string{"2", "10", "a", "b"}; !slices.Equal(ids, want) {
		t.Errorf("sorted ids = %v, want %v", ids, want)
	}
}

func TestRecord_WithDoesNotMutate(t *testing.T) {
	r := Reconstruct("1", map[string]Value{"status": String("Draft")})
	r2 := r.With("status", String("Published"))
	if s, _ := r.Get("status").Str(); s != "Draft" {
		t.Errorf("original status = %q, want Draft", s)
	}
	if s, _ := r2.Get("status").Str(); s != "Published" {
		t.Errorf("copy status = %q, want Published", s)
	}
	r3 := r2.With("status", Value{})
	if _, ok := r3.Field("status"); ok {
		t.Error("absent value should remove the field")
	}
}

func TestFromMap_Inference(t *testing.T) {
	r, err := FromMap(map[string]any{
		"id":         1,
		"title":      "Annual Report 2023",
		"uploadDate": "2024-01-15",
		"size":       2516582,
		"tags":       []any{"finance", "annual"},
		"modified":   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		"note":       nil,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID() != "1" {
		t.Errorf("ID() = %q", r.ID())
	}
	kinds := map[string]Kind{
		"title":      KindString,
		"uploadDate": KindDate,
		"size":       KindNumber,
		"tags":       KindTags,
		"modified":   KindDate,
	}
	for name, want := range kinds {
		if got := r.Get(name).Kind(); got != want {
			t.Errorf("%s kind = %s, want %s", name, got, want)
		}
	}
	if _, ok := r.Field("note"); ok {
		t.Error("nil should be absent")
	}
}

func TestFromMap_Errors(t *testing.T) {
	if _, err := FromMap(map[string]any{"title": "x"}); err == nil {
		t.Error("expected error for missing id")
	}
	if _, err := FromMap(map[string]any{"id": "1", "bad": map[string]any{}}); err == nil {
		t.Error("expected error for nested object")
	}
}

func TestToMap(t *testing.T) {
	r := Reconstruct("7", map[string]Value{
		"size":       Number(10),
		"uploadDate": Date(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
		"tags":       Tags("a"),
	})
	m := ToMap(r)
	if m["id"] != "7" || m["size"] != 10.0 || m["uploadDate"] != "2024-01-02" {
		t.Errorf("ToMap() = %v", m)
	}
}
