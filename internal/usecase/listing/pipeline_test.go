package listing

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/kailas-cloud/archivist/internal/domain/query"
	"github.com/kailas-cloud/archivist/internal/domain/record"
)

func desc(t *testing.T, term string, eq map[string]string, s query.Sort, p query.Page, opts ...query.Option) query.Descriptor {
	t.Helper()
	d, err := query.New(term, eq, s, p, opts...)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return d
}

func TestRun_ManuscriptDraftScenario(t *testing.T) {
	records := contentFixture(t)
	d := desc(t, "manuscript", map[string]string{"status": "Draft"},
		query.By("uploadDate", query.Desc), query.Page{Index: 1, Size: 20})

	got := New().Run(records, d)

	if diff := cmp.Diff([]string{"2"}, ids(got.Items())); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if got.TotalMatched() != 1 || got.TotalPages() != 1 || got.Index() != 1 {
		t.Errorf("total=%d pages=%d index=%d, want 1/1/1", got.TotalMatched(), got.TotalPages(), got.Index())
	}
	title, _ := got.Items()[0].Get("title").Str()
	if title != "Medieval Manuscript Digitization Project" {
		t.Errorf("title = %q", title)
	}
}

func TestRun_SecondPageByDateDesc(t *testing.T) {
	records := contentFixture(t)
	d := desc(t, "", nil, query.By("uploadDate", query.Desc), query.Page{Index: 2, Size: 3})

	got := New().Run(records, d)

	if diff := cmp.Diff([]string{"4", "5", "6"}, ids(got.Items())); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if got.TotalMatched() != 8 || got.TotalPages() != 3 {
		t.Errorf("total=%d pages=%d, want 8/3", got.TotalMatched(), got.TotalPages())
	}
}

func TestRun_HugePageIndexIsEmpty(t *testing.T) {
	records := contentFixture(t)
	for _, index := range []int{math.MaxInt, 1<<62 + 1, 1<<61 + 1} {
		got := New().Run(records, desc(t, "", nil, query.Sort{}, query.Page{Index: index, Size: 4}))
		if len(got.Items()) != 0 {
			t.Errorf("index %d: items = %v, want none", index, ids(got.Items()))
		}
		if got.TotalMatched() != len(records) || got.TotalPages() != 2 || got.Index() != index {
			t.Errorf("index %d: matched=%d pages=%d index=%d", index, got.TotalMatched(), got.TotalPages(), got.Index())
		}
	}
}

func TestRun_EmptyTermMatchesAll(t *testing.T) {
	records := contentFixture(t)
	for _, eq := range []map[string]string{nil, {}, {"status": "all", "type": ""}} {
		got := New().Run(records, desc(t, "", eq, query.Sort{}, query.Page{}))
		if got.TotalMatched() != len(records) {
			t.Errorf("eq=%v: TotalMatched() = %d, want %d", eq, got.TotalMatched(), len(records))
		}
	}
}

func TestRun_PagesCoverMatchedSet(t *testing.T) {
	records := contentFixture(t)
	p := New()
	for size := 1; size <= 9; size++ {
		for _, term := range []string{"", "collection", "archive", "zzz"} {
			d := desc(t, term, nil, query.By("title", query.Asc), query.Page{Index: 1, Size: size})
			first := p.Run(records, d)

			var seen []string
			for i := 1; i <= first.TotalPages(); i++ {
				pg := p.Run(records, d.WithPageIndex(i))
				if len(pg.Items()) > size {
					t.Fatalf("page %d has %d items, size %d", i, len(pg.Items()), size)
				}
				seen = append(seen, ids(pg.Items())...)
			}
			if len(seen) != first.TotalMatched() {
				t.Errorf("size=%d term=%q: pages hold %d items, totalMatched=%d", size, term, len(seen), first.TotalMatched())
			}
			dup := make(map[string]bool)
			for _, id := range seen {
				if dup[id] {
					t.Errorf("size=%d term=%q: record %s duplicated", size, term, id)
				}
				dup[id] = true
			}

			past := p.Run(records, d.WithPageIndex(first.TotalPages()+1))
			if len(past.Items()) != 0 {
				t.Errorf("size=%d term=%q: page past the end has %d items", size, term, len(past.Items()))
			}
		}
	}
}

func TestRun_Idempotent(t *testing.T) {
	records := contentFixture(t)
	before := ids(records)
	d := desc(t, "historical", nil, query.By("views", query.Desc), query.Page{Index: 1, Size: 5})
	p := New()

	a := p.Run(records, d)
	b := p.Run(records, d)

	if diff := cmp.Diff(ids(a.Items()), ids(b.Items())); diff != "" {
		t.Errorf("second run differs:\n%s", diff)
	}
	if a.TotalMatched() != b.TotalMatched() || a.TotalPages() != b.TotalPages() {
		t.Error("second run totals differ")
	}
	if diff := cmp.Diff(before, ids(records)); diff != "" {
		t.Errorf("input order mutated:\n%s", diff)
	}
}

func TestRun_SortMonotonic(t *testing.T) {
	records := contentFixture(t)
	for _, key := range []string{"title", "uploadDate", "size", "downloads", "tags", "category", "missing"} {
		for _, dir := range []query.Direction{query.Asc, query.Desc} {
			t.Run(fmt.Sprintf("%s_%s", key, dir), func(t *testing.T) {
				got := New().Run(records, desc(t, "", nil, query.By(key, dir), query.Page{Size: 100})).Items()
				for i := 0; i+1 < len(got); i++ {
					c := record.Compare(got[i].Get(key), got[i+1].Get(key))
					if dir == query.Asc && c > 0 || dir == query.Desc && c < 0 {
						t.Errorf("items %s and %s out of order", got[i].ID(), got[i+1].ID())
					}
				}
			})
		}
	}
}

func TestRun_StableTies(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	records := make([]record.Record, 200)
	for i := range records {
		fields := map[string]record.Value{}
		if n := rng.IntN(5); n > 0 {
			fields["group"] = record.Number(float64(n))
		}
		records[i] = record.Reconstruct(fmt.Sprintf("r%03d", i), fields)
	}
	pos := make(map[string]int, len(records))
	for i, r := range records {
		pos[r.ID()] = i
	}

	for _, dir := range []query.Direction{query.Asc, query.Desc} {
		got := New().Run(records, desc(t, "", nil, query.By("group", dir), query.Page{Size: 100})).Items()
		got = append(got, New().Run(records, desc(t, "", nil, query.By("group", dir), query.Page{Index: 2, Size: 100})).Items()...)
		for i := 0; i+1 < len(got); i++ {
			if record.Compare(got[i].Get("group"), got[i+1].Get("group")) == 0 && pos[got[i].ID()] > pos[got[i+1].ID()] {
				t.Fatalf("%s: tie %s/%s lost input order", dir, got[i].ID(), got[i+1].ID())
			}
		}
	}
}

func TestRun_AbsentSortsFirst(t *testing.T) {
	records := []record.Record{
		record.Reconstruct("a", map[string]record.Value{"views": record.Number(5)}),
		record.Reconstruct("b", nil),
		record.Reconstruct("c", map[string]record.Value{"views": record.Number(1)}),
	}
	asc := New().Run(records, desc(t, "", nil, query.By("views", query.Asc), query.Page{}))
	if diff := cmp.Diff([]string{"b", "c", "a"}, ids(asc.Items())); diff != "" {
		t.Errorf("asc (-want +got):\n%s", diff)
	}
	dsc := New().Run(records, desc(t, "", nil, query.By("views", query.Desc), query.Page{}))
	if diff := cmp.Diff([]string{"a", "c", "b"}, ids(dsc.Items())); diff != "" {
		t.Errorf("desc (-want +got):\n%s", diff)
	}
}

func TestRun_UnknownSortKeyKeepsOrder(t *testing.T) {
	records := contentFixture(t)
	got := New().Run(records, desc(t, "", nil, query.By("nope", query.Desc), query.Page{}))
	if diff := cmp.Diff(ids(records), ids(got.Items())); diff != "" {
		t.Errorf("order changed (-want +got):\n%s", diff)
	}
}

func TestFilter_Term(t *testing.T) {
	records := contentFixture(t)
	tests := []struct {
		term string
		want []string
	}{
		{"HISTORICAL", []string{"1", "6"}},
		{"dr.", []string{"1", "5"}},     // author
		{"oral history", []string{"3"}}, // single tag with a space
		{"archive", []string{"4", "8"}}, // title and tag
		{"papers", []string{"5"}},
		{"Historical Archives", nil}, // category is not searchable
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := New().Filter(records, desc(t, tt.term, nil, query.Sort{}, query.Page{}))
			if diff := cmp.Diff(tt.want, ids(got), cmpEmpty); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilter_CustomSearchableFields(t *testing.T) {
	records := contentFixture(t)
	got := New("category").Filter(records, desc(t, "archives", nil, query.Sort{}, query.Page{}))
	if diff := cmp.Diff([]string{"1"}, ids(got)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFilter_EqualityAndExtensions(t *testing.T) {
	records := contentFixture(t)
	mb := func(n float64) record.Value { return record.Number(n * 1024 * 1024) }
	sizeRange, err := query.NewRange(mb(10), mb(100))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		eq   map[string]string
		opts []query.Option
		want []string
	}{
		{"status", map[string]string{"status": "Published"}, nil, []string{"1", "3", "5", "6", "8"}},
		{"type and status", map[string]string{"type": "Image", "status": "Published"}, nil, []string{"6", "8"}},
		{"number canonical", map[string]string{"downloads": "89"}, nil, []string{"2"}},
		{"date canonical", map[string]string{"uploadDate": "2024-01-05"}, nil, []string{"5"}},
		{"tag membership", map[string]string{"tags": "archive"}, nil, []string{"4", "8"}},
		{"case sensitive", map[string]string{"status": "draft"}, nil, nil},
		{"absent field", map[string]string{"rightsInfo": "CC"}, nil, nil},
		{"any of", nil, []query.Option{query.WithAnyOf("type", "Audio", "Video")}, []string{"3", "4"}},
		{"range", nil, []query.Option{query.WithRange("size", sizeRange)}, []string{"2", "3", "6"}},
		{"all combined", map[string]string{"status": "Published"},
			[]query.Option{query.WithAnyOf("type", "Image", "Audio"), query.WithRange("size", sizeRange)},
			[]string{"3", "6"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New().Filter(records, desc(t, "", tt.eq, query.Sort{}, query.Page{}, tt.opts...))
			if diff := cmp.Diff(tt.want, ids(got), cmpEmpty); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

var cmpEmpty = cmpopts.EquateEmpty()
