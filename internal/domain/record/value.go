package record

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Kind is the type of a field value. The numeric order is the cross-kind sort rank.
type Kind uint8

// Value kinds. The zero Kind marks an absent value.
const (
	KindNumber Kind = iota + 1
	KindDate
	KindString
	KindTags
)

// DateLayout is the canonical form of a date without a time component.
const DateLayout = "2006-01-02"

var dateOnlyRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindString:
		return "string"
	case KindTags:
		return "tags"
	default:
		return "absent"
	}
}

// Value is an immutable field value: string, number, date or an ordered tag list.
// The zero Value is absent.
type Value struct {
	kind Kind
	str  string
	num  float64
	date time.Time
	tags []string
}

// String creates a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number creates a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Date creates a date value (normalized to UTC).
func Date(t time.Time) Value { return Value{kind: KindDate, date: t.UTC()} }

// Tags creates a tag list value. The slice is copied.
func Tags(tags ...string) Value { return Value{kind: KindTags, tags: slices.Clone(tags)} }

// ParseDate parses YYYY-MM-DD or RFC 3339 into a date value.
func ParseDate(s string) (Value, error) {
	if dateOnlyRegex.MatchString(s) {
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return Value{}, fmt.Errorf("parse date %q: %w", s, err)
		}
		return Date(t), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Value{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date(t), nil
}

// Kind returns the value kind.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the value is the zero (absent) value.
func (v Value) IsAbsent() bool { return v.kind == 0 }

// Str returns the string payload.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Num returns the numeric payload.
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

// Time returns the date payload.
func (v Value) Time() (time.Time, bool) { return v.date, v.kind == KindDate }

// TagList returns a copy of the tag payload.
func (v Value) TagList() ([]string, bool) { return slices.Clone(v.tags), v.kind == KindTags }

// Text returns the canonical string form used for equality filters and facets.
// Tags are joined with ", ".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindDate:
		if isDateOnly(v.date) {
			return v.date.Format(DateLayout)
		}
		return v.date.Format(time.RFC3339Nano)
	case KindTags:
		return strings.Join(v.tags, ", ")
	default:
		return ""
	}
}

// Equals reports whether the value matches an expected filter value exactly.
// A tag list matches when it contains the expected tag.
func (v Value) Equals(expected string) bool {
	switch v.kind {
	case KindTags:
		return slices.Contains(v.tags, expected)
	case 0:
		return false
	default:
		return v.Text() == expected
	}
}

// ContainsFold reports whether lowerTerm is a substring of the value's text,
// ignoring case. lowerTerm must already be lower-cased.
// A tag list matches when any single tag contains the term.
func (v Value) ContainsFold(lowerTerm string) bool {
	switch v.kind {
	case KindTags:
		for _, t := range v.tags {
			if strings.Contains(strings.ToLower(t), lowerTerm) {
				return true
			}
		}
		return false
	case KindString:
		return strings.Contains(strings.ToLower(v.str), lowerTerm)
	case 0:
		return false
	default:
		return strings.Contains(strings.ToLower(v.Text()), lowerTerm)
	}
}

// Compare orders two values: absent < number < date < string < tags across kinds.
// Strings compare case-insensitively first, then byte-wise.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindNumber:
		return compareFloat(a.num, b.num)
	case KindDate:
		return a.date.Compare(b.date)
	case KindString:
		return compareStrings(a.str, b.str)
	case KindTags:
		return slices.CompareFunc(a.tags, b.tags, compareStrings)
	default:
		return 0
	}
}

func compareStrings(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// compareFloat sorts NaN before every other number so the order stays total.
func compareFloat(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func isDateOnly(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
