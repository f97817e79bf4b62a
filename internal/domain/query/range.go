package query

import (
	"fmt"

	"github.com/kailas-cloud/archivist/internal/domain"
	"github.com/kailas-cloud/archivist/internal/domain/record"
)

// Range is an inclusive interval over number or date values.
// Either bound may be open (absent).
type Range struct {
	from record.Value
	to   record.Value
}

// NewRange validates and creates a Range.
// At least one bound is required; bounds are numbers or dates of the same kind.
func NewRange(from, to record.Value) (Range, error) {
	if from.IsAbsent() && to.IsAbsent() {
		return Range{}, fmt.Errorf("%w: at least one range bound is required", domain.ErrInvalidQuery)
	}
	for _, b := range []record.Value{from, to} {
		if k := b.Kind(); !b.IsAbsent() && k != record.KindNumber && k != record.KindDate {
			return Range{}, fmt.Errorf("%w: range bound must be a number or date, got %s", domain.ErrInvalidQuery, k)
		}
	}
	if !from.IsAbsent() && !to.IsAbsent() {
		if from.Kind() != to.Kind() {
			return Range{}, fmt.Errorf("%w: range bounds must have the same kind", domain.ErrInvalidQuery)
		}
		if record.Compare(from, to) > 0 {
			return Range{}, fmt.Errorf("%w: range lower bound exceeds upper bound", domain.ErrInvalidQuery)
		}
	}
	return Range{from: from, to: to}, nil
}

// From returns the lower bound (absent when open).
func (r Range) From() record.Value { return r.from }

// To returns the upper bound (absent when open).
func (r Range) To() record.Value { return r.to }

// IsZero reports whether both bounds are open.
func (r Range) IsZero() bool { return r.from.IsAbsent() && r.to.IsAbsent() }

// Kind returns the kind of the bounds.
func (r Range) Kind() record.Kind {
	if !r.from.IsAbsent() {
		return r.from.Kind()
	}
	return r.to.Kind()
}

// Contains reports whether v lies within the range.
// Absent values and values of another kind are outside.
func (r Range) Contains(v record.Value) bool {
	if v.IsAbsent() || v.Kind() != r.Kind() {
		return false
	}
	if !r.from.IsAbsent() && record.Compare(v, r.from) < 0 {
		return false
	}
	if !r.to.IsAbsent() && record.Compare(v, r.to) > 0 {
		return false
	}
	return true
}
