package listing

import (
	"cmp"
	"slices"

	"github.com/kailas-cloud/archivist/internal/domain/record"
)

// Bucket is one distinct field value and the number of records carrying it.
type Bucket struct {
	Value string
	Count int
}

// Facets counts distinct values per field. Each tag of a tag list counts
// separately; absent fields are skipped. Buckets are ordered by count
// descending, then value ascending.
func Facets(records []record.Record, fields ...string) map[string][]Bucket {
	out := make(map[string][]Bucket, len(fields))
	for _, field := range fields {
		counts := make(map[string]int)
		for _, r := range records {
			v := r.Get(field)
			if tags, ok := v.TagList(); ok {
				for _, t := range uniq(tags) {
					counts[t]++
				}
				continue
			}
			if !v.IsAbsent() {
				counts[v.Text()]++
			}
		}
		buckets := make([]Bucket, 0, len(counts))
		for value, n := range counts {
			buckets = append(buckets, Bucket{Value: value, Count: n})
		}
		slices.SortFunc(buckets, func(a, b Bucket) int {
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
			return cmp.Compare(a.Value, b.Value)
		})
		out[field] = buckets
	}
	return out
}

func uniq(tags []string) []string {
	slices.Sort(tags)
	return slices.Compact(tags)
}
