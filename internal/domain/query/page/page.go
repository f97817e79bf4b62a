package page

// Page is one window of an ordered result set.
// TotalPages is ceil(TotalMatched / Size).
type Page[T any] struct {
	items        []T
	totalMatched int
	index        int
	size         int
}

// Slice cuts page index (1-based) of the given size out of all.
// A page past the end has no items but keeps the totals. all is not retained.
func Slice[T any](all []T, index, size int) Page[T] {
	if size < 1 {
		size = 1
	}
	if index < 1 {
		index = 1
	}
	items := []T{}
	// Compare in page units so huge indexes cannot overflow the offset.
	if index-1 < pageCount(len(all), size) {
		start := (index - 1) * size
		end := min(start+size, len(all))
		items = append(make([]T, 0, end-start), all[start:end]...)
	}
	return Page[T]{items: items, totalMatched: len(all), index: index, size: size}
}

// Reconstruct creates a page from already-sliced items (e.g. decoded from the wire).
func Reconstruct[T any](items []T, totalMatched, index, size int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{items: items, totalMatched: totalMatched, index: index, size: size}
}

// Map converts page items, keeping the paging metadata.
func Map[T, U any](p Page[T], f func(T) U) Page[U] {
	out := make([]U, len(p.items))
	for i, it := range p.items {
		out[i] = f(it)
	}
	return Page[U]{items: out, totalMatched: p.totalMatched, index: p.index, size: p.size}
}

// Items returns the page items. Never nil.
func (p Page[T]) Items() []T { return p.items }

// TotalMatched returns the number of items in the whole filtered set.
func (p Page[T]) TotalMatched() int { return p.totalMatched }

// TotalPages returns ceil(TotalMatched / Size).
func (p Page[T]) TotalPages() int {
	if p.size < 1 {
		return 0
	}
	return pageCount(p.totalMatched, p.size)
}

// pageCount is ceil(n / size) without the n+size-1 overflow.
func pageCount(n, size int) int {
	pages := n / size
	if n%size != 0 {
		pages++
	}
	return pages
}

// Index returns the 1-based page index.
func (p Page[T]) Index() int { return p.index }

// Size returns the page size.
func (p Page[T]) Size() int { return p.size }

// HasNext reports whether a later page has items.
func (p Page[T]) HasNext() bool { return p.index < p.TotalPages() }

// HasPrev reports whether an earlier page exists.
func (p Page[T]) HasPrev() bool { return p.index > 1 }
