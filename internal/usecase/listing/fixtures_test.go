package listing

import (
	"testing"

	"github.com/kailas-cloud/archivist/internal/domain/record"
)

// contentFixture returns the 8-record content-management set.
func contentFixture(t *testing.T) []record.Record {
	t.Helper()
	raw := []map[string]any{
		{"id": 1, "title": "Historical Documents Collection 2023", "type": "Document", "category": "Historical Archives",
			"uploadDate": "2024-01-15", "status": "Published", "size": 2516582, "author": "Dr. Sarah Johnson",
			"tags": []any{"history", "documents", "2023"}, "downloads": 156, "views": 1240, "lastModified": "2024-01-20"},
		{"id": 2, "title": "Medieval Manuscript Digitization Project", "type": "Image", "category": "Manuscripts",
			"uploadDate": "2024-01-12", "status": "Draft", "size": 16462643, "author": "Prof. Michael Chen",
			"tags": []any{"medieval", "manuscripts", "digitization"}, "downloads": 89, "views": 567, "lastModified": "2024-01-18"},
		{"id": 3, "title": "Oral History Interview Series", "type": "Audio", "category": "Oral Histories",
			"uploadDate": "2024-01-10", "status": "Published", "size": 47395635, "author": "Lisa Rodriguez",
			"tags": []any{"oral history", "interviews", "community"}, "downloads": 234, "views": 890, "lastModified": "2024-01-16"},
		{"id": 4, "title": "Documentary Film Archive", "type": "Video", "category": "Films",
			"uploadDate": "2024-01-08", "status": "Archived", "size": 1288490189, "author": "James Wilson",
			"tags": []any{"documentary", "film", "archive"}, "downloads": 45, "views": 234, "lastModified": "2024-01-14"},
		{"id": 5, "title": "Scientific Research Papers Collection", "type": "Document", "category": "Research",
			"uploadDate": "2024-01-05", "status": "Published", "size": 9332326, "author": "Dr. Emily Davis",
			"tags": []any{"research", "science", "papers"}, "downloads": 312, "views": 1567, "lastModified": "2024-01-19"},
		{"id": 6, "title": "Historical Maps Collection", "type": "Image", "category": "Maps",
			"uploadDate": "2024-01-03", "status": "Published", "size": 12897485, "author": "Robert Thompson",
			"tags": []any{"maps", "historical", "geography"}, "downloads": 178, "views": 923, "lastModified": "2024-01-17"},
		{"id": 7, "title": "Library Catalog Database", "type": "Database", "category": "Catalogs",
			"uploadDate": "2024-01-01", "status": "Draft", "size": 164311859, "author": "Maria Garcia",
			"tags": []any{"library", "catalog", "database"}, "downloads": 67, "views": 345, "lastModified": "2024-01-15"},
		{"id": 8, "title": "Photographic Archive 1950-1980", "type": "Image", "category": "Photography",
			"uploadDate": "2023-12-28", "status": "Published", "size": 245891072, "author": "David Lee",
			"tags": []any{"photography", "vintage", "archive"}, "downloads": 445, "views": 2134, "lastModified": "2024-01-12"},
	}
	out := make([]record.Record, 0, len(raw))
	for _, m := range raw {
		r, err := record.FromMap(m)
		if err != nil {
			t.Fatalf("fixture %v: %v", m["id"], err)
		}
		out = append(out, r)
	}
	return out
}

func ids(records []record.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID()
	}
	return out
}
