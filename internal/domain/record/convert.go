package record

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// FromAny infers a Value from a decoded JSON/YAML scalar or list.
// YYYY-MM-DD and RFC 3339 strings become dates, numbers become numbers,
// lists of scalars become tags. nil yields the absent value.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return x, nil
	case string:
		if dateOnlyRegex.MatchString(x) {
			if d, err := ParseDate(x); err == nil {
				return d, nil
			}
		}
		if t, err := time.Parse(time.RFC3339, x); err == nil {
			return Date(t), nil
		}
		return String(x), nil
	case time.Time:
		return Date(x), nil
	case bool:
		return String(strconv.FormatBool(x)), nil
	case int:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case float32:
		return Number(float64(x)), nil
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return Value{}, fmt.Errorf("number must be finite")
		}
		return Number(x), nil
	case []string:
		return Tags(x...), nil
	case []any:
		tags := make([]string, 0, len(x))
		for i, item := range x {
			switch t := item.(type) {
			case string:
				tags = append(tags, t)
			case int, int64, float64, bool:
				tags = append(tags, fmt.Sprint(t))
			default:
				return Value{}, fmt.Errorf("tag [%d] must be a scalar, got %T", i, item)
			}
		}
		return Tags(tags...), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}

// ToAny renders a Value as a plain JSON-friendly value.
func ToAny(v Value) any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindDate:
		return v.Text()
	case KindTags:
		if v.tags == nil {
			return []string{}
		}
		return v.tags
	default:
		return nil
	}
}

// FromMap builds and validates a Record from a plain map carrying an "id" key.
func FromMap(m map[string]any) (Record, error) {
	id, err := idFromAny(m[FieldID])
	if err != nil {
		return Record{}, err
	}
	fields := make(map[string]Value, len(m))
	for k, raw := range m {
		if k == FieldID {
			continue
		}
		v, err := FromAny(raw)
		if err != nil {
			return Record{}, fmt.Errorf("field %q: %w", k, err)
		}
		fields[k] = v
	}
	return New(id, fields)
}

// ToMap renders a Record as a plain map including "id".
func ToMap(r Record) map[string]any {
	out := make(map[string]any, len(r.fields)+1)
	out[FieldID] = r.id
	for k, v := range r.fields {
		out[k] = ToAny(v)
	}
	return out
}

func idFromAny(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		if x != math.Trunc(x) {
			return "", fmt.Errorf("record ID must be an integer or string")
		}
		return strconv.FormatInt(int64(x), 10), nil
	case nil:
		return "", fmt.Errorf("record ID is required")
	default:
		return "", fmt.Errorf("record ID must be an integer or string, got %T", v)
	}
}
