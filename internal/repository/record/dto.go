package record

import (
	"encoding/json"
	"fmt"
	"time"

	domrec "github.com/kailas-cloud/archivist/internal/domain/record"
)

// recordDTO is the stored JSON form of a record.
type recordDTO struct {
	ID     string              `json:"id"`
	Fields map[string]valueDTO `json:"fields"`
}

// valueDTO keeps the value kind explicit so dates and numeric strings survive a round trip.
type valueDTO struct {
	Kind string   `json:"k"`
	Str  string   `json:"s,omitempty"`
	Num  *float64 `json:"n,omitempty"`
	Tags []string `json:"t,omitempty"`
}

func encode(r domrec.Record) ([]byte, error) {
	dto := recordDTO{ID: r.ID(), Fields: make(map[string]valueDTO, r.Len())}
	for name, v := range r.Fields() {
		dto.Fields[name] = toValueDTO(v)
	}
	data, err := json.Marshal(dto)
	if err != nil {
		return nil, fmt.Errorf("marshal record %s: %w", r.ID(), err)
	}
	return data, nil
}

func decode(data []byte) (domrec.Record, error) {
	var dto recordDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domrec.Record{}, fmt.Errorf("unmarshal record: %w", err)
	}
	fields := make(map[string]domrec.Value, len(dto.Fields))
	for name, v := range dto.Fields {
		val, err := fromValueDTO(v)
		if err != nil {
			return domrec.Record{}, fmt.Errorf("record %s field %q: %w", dto.ID, name, err)
		}
		fields[name] = val
	}
	return domrec.Reconstruct(dto.ID, fields), nil
}

func toValueDTO(v domrec.Value) valueDTO {
	switch v.Kind() {
	case domrec.KindNumber:
		n, _ := v.Num()
		return valueDTO{Kind: "number", Num: &n}
	case domrec.KindDate:
		t, _ := v.Time()
		return valueDTO{Kind: "date", Str: t.Format(time.RFC3339Nano)}
	case domrec.KindTags:
		tags, _ := v.TagList()
		if tags == nil {
			tags = []string{}
		}
		return valueDTO{Kind: "tags", Tags: tags}
	default:
		s, _ := v.Str()
		return valueDTO{Kind: "string", Str: s}
	}
}

func fromValueDTO(v valueDTO) (domrec.Value, error) {
	switch v.Kind {
	case "string":
		return domrec.String(v.Str), nil
	case "number":
		if v.Num == nil {
			return domrec.Number(0), nil
		}
		return domrec.Number(*v.Num), nil
	case "date":
		t, err := time.Parse(time.RFC3339Nano, v.Str)
		if err != nil {
			return domrec.Value{}, fmt.Errorf("parse date: %w", err)
		}
		return domrec.Date(t), nil
	case "tags":
		return domrec.Tags(v.Tags...), nil
	default:
		return domrec.Value{}, fmt.Errorf("unknown value kind %q", v.Kind)
	}
}
