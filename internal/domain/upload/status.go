package upload

// Status is the lifecycle state of an upload task.
type Status string

// Task states.
const (
	StatusPending    Status = "pending"
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
	StatusPublished  Status = "published"
	StatusCanceled   Status = "canceled"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusUploading, StatusCanceled, StatusError},
	StatusUploading:  {StatusProcessing, StatusCanceled, StatusError},
	StatusProcessing: {StatusCompleted, StatusCanceled, StatusError},
	StatusCompleted:  {StatusPublished},
}

// IsValid checks if the status is one of the supported values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusUploading, StatusProcessing, StatusCompleted,
		StatusError, StatusPublished, StatusCanceled:
		return true
	default:
		return false
	}
}

// IsActive reports whether the task is moving bytes or being processed.
func (s Status) IsActive() bool { return s == StatusUploading || s == StatusProcessing }

// IsSettled reports whether no further progress events follow.
// Completed tasks are settled although they can still be published.
func (s Status) IsSettled() bool {
	switch s {
	case StatusCompleted, StatusError, StatusPublished, StatusCanceled:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a task may move from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}
