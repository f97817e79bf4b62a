package record

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
)

var (
	idRegex        = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	numericIDRegex = regexp.MustCompile(`^(0|[1-9][0-9]{0,14})$`)
)

// MaxIDLength is the maximum record identifier length.
const MaxIDLength = 256

// Record is one archive content item (immutable value object).
type Record struct {
	id     string
	fields map[string]Value
}

// New validates and creates a Record. Absent values are dropped.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. The "id" field name is reserved.
func New(id string, fields map[string]Value) (Record, error) {
	if err := ValidateID(id); err != nil {
		return Record{}, err
	}
	if _, ok := fields[FieldID]; ok {
		return Record{}, fmt.Errorf("field %q is reserved", FieldID)
	}
	return Record{id: id, fields: compact(fields)}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(id string, fields map[string]Value) Record {
	return Record{id: id, fields: compact(fields)}
}

// ValidateID checks the identifier format.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("record ID is required")
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("record ID too long (max %d)", MaxIDLength)
	}
	if !idRegex.MatchString(id) {
		return fmt.Errorf("record ID must be alphanumeric with underscores and hyphens")
	}
	return nil
}

// ID returns the record identifier.
func (r Record) ID() string { return r.id }

// Field returns a field value. "id" resolves to the identifier: a number when
// it is a canonical integer, so ids 2 and 10 sort numerically, else a string.
func (r Record) Field(name string) (Value, bool) {
	if name == FieldID {
		return idValue(r.id), r.id != ""
	}
	v, ok := r.fields[name]
	return v, ok
}

// Get returns a field value, or the absent value.
func (r Record) Get(name string) Value {
	v, _ := r.Field(name)
	return v
}

// Fields returns a copy of the field map (without "id").
func (r Record) Fields() map[string]Value { return maps.Clone(r.fields) }

// Names returns the sorted field names (without "id").
func (r Record) Names() []string {
	return slices.Sorted(maps.Keys(r.fields))
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.fields) }

// With returns a copy with the field set. An absent value removes the field.
func (r Record) With(name string, v Value) Record {
	fields := maps.Clone(r.fields)
	if fields == nil {
		fields = make(map[string]Value, 1)
	}
	if v.IsAbsent() {
		delete(fields, name)
	} else {
		fields[name] = v
	}
	return Record{id: r.id, fields: fields}
}

// WithID returns a copy carrying a different identifier.
func (r Record) WithID(id string) Record {
	return Record{id: id, fields: maps.Clone(r.fields)}
}

func compact(fields map[string]Value) map[string]Value {
	out := make(map[string]Value, len(fields))
	for k, v := range fields {
		if k == FieldID || v.IsAbsent() {
			continue
		}
		out[k] = v
	}
	return out
}

func idValue(id string) Value {
	if numericIDRegex.MatchString(id) {
		if n, err := strconv.ParseFloat(id, 64); err == nil {
			return Number(n)
		}
	}
	return String(id)
}
