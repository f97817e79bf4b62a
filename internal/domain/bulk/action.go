package bulk

import "github.com/kailas-cloud/archivist/internal/domain/record"

// MaxItems is the maximum number of ids per bulk request.
const MaxItems = 100

// Action is a bulk operation over selected content records.
type Action string

// Bulk actions.
const (
	Publish   Action = "publish"
	Draft     Action = "draft"
	Archive   Action = "archive"
	Delete    Action = "delete"
	Duplicate Action = "duplicate"
	Export    Action = "export"
)

// IsValid checks if the action is one of the supported values.
func (a Action) IsValid() bool {
	switch a {
	case Publish, Draft, Archive, Delete, Duplicate, Export:
		return true
	default:
		return false
	}
}

// TargetStatus returns the status a status-changing action sets.
func (a Action) TargetStatus() (record.Status, bool) {
	switch a {
	case Publish:
		return record.StatusPublished, true
	case Draft:
		return record.StatusDraft, true
	case Archive:
		return record.StatusArchived, true
	default:
		return "", false
	}
}
