package upload

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/archivist/internal/domain"
	"github.com/kailas-cloud/archivist/internal/domain/record"
)

func TestFile_Validate(t *testing.T) {
	const limit = 100 * 1024 * 1024
	tests := []struct {
		name    string
		file    File
		group   Group
		wantErr error
	}{
		{"pdf", File{Name: "report.PDF", Size: 1024}, Documents, nil},
		{"image at limit", File{Name: "scan.jpeg", Size: limit}, Images, nil},
		{"pptx", File{Name: "deck.pptx", Size: 1}, Presentations, nil},
		{"too large", File{Name: "film.mp4", Size: limit + 1}, "", domain.ErrFileTooLarge},
		{"unsupported", File{Name: "tool.exe", Size: 1}, "", domain.ErrUnsupportedFormat},
		{"no extension", File{Name: "README", Size: 1}, "", domain.ErrUnsupportedFormat},
		{"empty name", File{Name: " ", Size: 1}, "", domain.ErrValidation},
		{"path", File{Name: "../etc/a.txt", Size: 1}, "", domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := tt.file.Validate(limit)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if g != tt.group {
				t.Errorf("group = %q, want %q", g, tt.group)
			}
		})
	}
}

func TestBaseTitle(t *testing.T) {
	for in, want := range map[string]string{
		"annual-report.pdf": "annual-report",
		"archive.tar.gz":    "archive",
		".hidden":           ".hidden",
		"plain":             "plain",
	} {
		if got := BaseTitle(in); got != want {
			t.Errorf("BaseTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDefaultMetadata(t *testing.T) {
	now := time.Date(2024, 5, 6, 17, 30, 0, 0, time.UTC)
	m := DefaultMetadata("map.tiff.png", now)
	if m.Title != "map" {
		t.Errorf("Title = %q", m.Title)
	}
	if !m.IsPublic {
		t.Error("IsPublic should default to true")
	}
	if record.Date(m.PublicationDate).Text() != "2024-05-06" {
		t.Errorf("PublicationDate = %v", m.PublicationDate)
	}
}

func TestMetadata_Validate(t *testing.T) {
	m := Metadata{Title: "  T  ", Category: "images", Tags: []string{" a", "a", "", "b"}}
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Title != "T" || len(m.Tags) != 2 {
		t.Errorf("normalized = %q %v", m.Title, m.Tags)
	}
	bad := Metadata{Title: "x", Category: "spreadsheets"}
	if err := bad.Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
	empty := Metadata{}
	if err := empty.Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestStatus_Transitions(t *testing.T) {
	allowed := [][2]Status{
		{StatusPending, StatusUploading},
		{StatusUploading, StatusProcessing},
		{StatusProcessing, StatusCompleted},
		{StatusCompleted, StatusPublished},
		{StatusUploading, StatusCanceled},
		{StatusProcessing, StatusError},
	}
	for _, p := range allowed {
		if !p[0].CanTransition(p[1]) {
			t.Errorf("%s -> %s should be allowed", p[0], p[1])
		}
	}
	denied := [][2]Status{
		{StatusPending, StatusCompleted},
		{StatusCompleted, StatusUploading},
		{StatusCanceled, StatusUploading},
		{StatusPublished, StatusCompleted},
		{StatusError, StatusProcessing},
	}
	for _, p := range denied {
		if p[0].CanTransition(p[1]) {
			t.Errorf("%s -> %s should be denied", p[0], p[1])
		}
	}
}

func TestTask_ToRecord(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	task := Task{
		ID:        "t1",
		File:      File{Name: "scan.png", Size: 2048},
		Group:     Images,
		Status:    StatusUploading,
		Progress:  40,
		Metadata:  Metadata{Title: "scan", Tags: []string{"maps"}},
		CreatedAt: created,
	}
	r := task.ToRecord()
	if r.ID() != "t1" {
		t.Errorf("ID() = %q", r.ID())
	}
	checks := map[string]string{
		"title":    "scan",
		"type":     "Image",
		"format":   "PNG",
		"size":     "2048",
		"status":   "uploading",
		"progress": "40",
	}
	for field, want := range checks {
		if got := r.Get(field).Text(); got != want {
			t.Errorf("%s = %q, want %q", field, got, want)
		}
	}
	if !r.Get("tags").Equals("maps") {
		t.Error("tags not projected")
	}
}

func TestTask_ContentRecord(t *testing.T) {
	task := Task{
		File:          File{Name: "letters.pdf", Size: 10},
		Group:         Documents,
		BytesReceived: 10,
		Checksum:      "abc",
		Metadata: Metadata{
			Title:           "Letters",
			Category:        "documents",
			PublicationDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			Custom:          map[string]string{"language": "en", "title": "ignored"},
		},
	}
	r, err := task.ContentRecord("rec-1", time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checks := map[string]string{
		"title":        "Letters",
		"status":       "Draft",
		"category":     "Documents",
		"type":         "Document",
		"uploadDate":   "2024-02-01",
		"lastModified": "2024-02-02",
		"checksum":     "abc",
		"language":     "en",
	}
	for field, want := range checks {
		if got := r.Get(field).Text(); got != want {
			t.Errorf("%s = %q, want %q", field, got, want)
		}
	}
}
