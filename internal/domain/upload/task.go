package upload

import (
	"maps"
	"slices"
	"time"

	"github.com/kailas-cloud/archivist/internal/domain/record"
)

// Task is a point-in-time snapshot of an upload.
type Task struct {
	ID            string
	File          File
	Group         Group
	Status        Status
	Progress      int // percent, 0-100
	BytesReceived int64
	Checksum      string // hex sha256 of the received bytes
	Metadata      Metadata
	RecordID      string
	Err           string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Clone returns a deep copy of the snapshot.
func (t Task) Clone() Task {
	t.Metadata.Tags = slices.Clone(t.Metadata.Tags)
	t.Metadata.Custom = maps.Clone(t.Metadata.Custom)
	return t
}

// Queue record fields that only exist on upload projections.
const (
	FieldProgress = "progress"
	FieldFileName = "fileName"
)

// ToRecord projects the task into the queue view so it can be listed
// through the shared pipeline. The status field holds the task status.
func (t Task) ToRecord() record.Record {
	fields := map[string]record.Value{
		record.FieldTitle:      record.String(t.Metadata.Title),
		record.FieldType:       record.String(t.Group.ContentType()),
		record.FieldFormat:     record.String(Format(t.File.Name)),
		record.FieldSize:       record.Number(float64(t.File.Size)),
		record.FieldStatus:     record.String(string(t.Status)),
		record.FieldUploadDate: record.Date(t.CreatedAt),
		FieldProgress:          record.Number(float64(t.Progress)),
		FieldFileName:          record.String(t.File.Name),
	}
	if t.Metadata.Category != "" {
		fields[record.FieldCategory] = record.String(t.Metadata.Category)
	}
	if len(t.Metadata.Tags) > 0 {
		fields[record.FieldTags] = record.Tags(t.Metadata.Tags...)
	}
	if t.Checksum != "" {
		fields[record.FieldChecksum] = record.String(t.Checksum)
	}
	return record.Reconstruct(t.ID, fields)
}

// ContentRecord builds the Draft content record created when processing completes.
func (t Task) ContentRecord(id string, now time.Time) (record.Record, error) {
	m := t.Metadata
	fields := map[string]record.Value{
		record.FieldTitle:        record.String(m.Title),
		record.FieldType:         record.String(t.Group.ContentType()),
		record.FieldFormat:       record.String(Format(t.File.Name)),
		record.FieldSize:         record.Number(float64(t.BytesReceived)),
		record.FieldStatus:       record.String(string(record.StatusDraft)),
		record.FieldUploadDate:   record.Date(m.PublicationDate),
		record.FieldLastModified: record.Date(now),
		record.FieldDownloads:    record.Number(0),
		record.FieldViews:        record.Number(0),
		record.FieldChecksum:     record.String(t.Checksum),
		FieldFileName:            record.String(t.File.Name),
	}
	if m.Description != "" {
		fields[record.FieldDescription] = record.String(m.Description)
	}
	if m.Category != "" {
		fields[record.FieldCategory] = record.String(Group(m.Category).Label())
	}
	if len(m.Tags) > 0 {
		fields[record.FieldTags] = record.Tags(m.Tags...)
	}
	if m.Collection != "" {
		fields[record.FieldCollection] = record.String(m.Collection)
	}
	if m.RightsInfo != "" {
		fields[record.FieldRights] = record.String(m.RightsInfo)
	}
	for k, v := range m.Custom {
		if _, taken := fields[k]; !taken && k != record.FieldID {
			fields[k] = record.String(v)
		}
	}
	return record.New(id, fields)
}

// Event is a progress notification for one task.
type Event struct {
	TaskID   string
	Status   Status
	Progress int
	Bytes    int64
	Err      string
	At       time.Time
}

// EventOf builds the event describing the snapshot's current state.
func EventOf(t Task) Event {
	return Event{
		TaskID:   t.ID,
		Status:   t.Status,
		Progress: t.Progress,
		Bytes:    t.BytesReceived,
		Err:      t.Err,
		At:       t.UpdatedAt,
	}
}
