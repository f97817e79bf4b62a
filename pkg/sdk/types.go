package archivist

import "time"

// Record is an untyped catalog record. Field values are string, float64,
// time.Time (dates) or []string (tags); anything else is rejected on write.
type Record struct {
	ID     string
	Fields map[string]any
}

// ListQuery is a content list query.
// Filter values "" and "all" disable the filter. Zero page and page size
// select the first page of the default size.
type ListQuery struct {
	Term     string
	Filters  map[string]string
	SortKey  string
	Order    string // "asc" (default) or "desc"
	Page     int
	PageSize int
}

// Page is one page of a filtered and sorted result set.
type Page struct {
	Items        []Record
	TotalMatched int
	TotalPages   int
	Page         int
	PageSize     int
}

// SearchQuery is a search view query over published records.
type SearchQuery struct {
	Term       string
	Sort       string // relevance (default), date-desc, date-asc, title-asc, title-desc, popularity, size-desc, size-asc
	Types      []string
	Categories []string
	Formats    []string
	Date       string // 30d, 6m, 1y, 2020-2024, 2010-2019, 2000-2009, before-2000
	Size       string // small, medium, large, xlarge
	Page       int
	PageSize   int
}

// FacetBucket is one distinct facet value with its record count.
type FacetBucket struct {
	Value string
	Count int
}

// SearchResult is a page of scored records plus facet counts over the term-matched set.
type SearchResult struct {
	Page
	Facets  map[string][]FacetBucket
	Elapsed time.Duration
}

// BulkResult is the outcome of one id in a bulk action.
type BulkResult struct {
	ID     string
	OK     bool
	Err    error
	Record *Record // set for export and duplicate
}
