package patch

import (
	"fmt"
	"maps"

	"github.com/kailas-cloud/archivist/internal/domain/record"
)

// Patch is a partial record update.
// Fields in set are replaced; fields in unset are removed.
type Patch struct {
	set   map[string]record.Value
	unset []string
}

// New validates and creates a Patch. At least one field must be provided
// and "id" cannot be touched. An absent value in set means unset.
func New(set map[string]record.Value, unset []string) (Patch, error) {
	p := Patch{set: make(map[string]record.Value, len(set))}
	for name, v := range set {
		if name == record.FieldID {
			return Patch{}, fmt.Errorf("field %q is immutable", record.FieldID)
		}
		if name == "" {
			return Patch{}, fmt.Errorf("field name is required")
		}
		if v.IsAbsent() {
			p.unset = append(p.unset, name)
			continue
		}
		p.set[name] = v
	}
	for _, name := range unset {
		if name == record.FieldID {
			return Patch{}, fmt.Errorf("field %q is immutable", record.FieldID)
		}
		p.unset = append(p.unset, name)
	}
	if len(p.set) == 0 && len(p.unset) == 0 {
		return Patch{}, fmt.Errorf("at least one field must be provided")
	}
	return p, nil
}

// FromAny builds a Patch from a decoded JSON object. A null value removes the field.
func FromAny(m map[string]any) (Patch, error) {
	set := make(map[string]record.Value, len(m))
	for name, raw := range m {
		v, err := record.FromAny(raw)
		if err != nil {
			return Patch{}, fmt.Errorf("field %q: %w", name, err)
		}
		set[name] = v
	}
	return New(set, nil)
}

// Set returns a copy of the field replacements.
func (p Patch) Set() map[string]record.Value { return maps.Clone(p.set) }

// Unset returns the removed field names.
func (p Patch) Unset() []string { return p.unset }

// Touches reports whether the patch changes the named field.
func (p Patch) Touches(name string) bool {
	if _, ok := p.set[name]; ok {
		return true
	}
	for _, n := range p.unset {
		if n == name {
			return true
		}
	}
	return false
}

// Apply returns a copy of r with the patch applied.
func (p Patch) Apply(r record.Record) record.Record {
	for _, name := range p.unset {
		r = r.With(name, record.Value{})
	}
	for name, v := range p.set {
		r = r.With(name, v)
	}
	return r
}
