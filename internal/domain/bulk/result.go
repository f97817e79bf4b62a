package bulk

import "github.com/kailas-cloud/archivist/internal/domain/record"

// ItemStatus is the processing outcome of a single bulk item.
type ItemStatus string

// Bulk item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of applying a bulk action to one record.
// Record is set for actions that produce one (duplicate, export).
type Result struct {
	id     string
	status ItemStatus
	err    error
	rec    *record.Record
}

// NewOK creates a successful result.
func NewOK(id string) Result { return Result{id: id, status: StatusOK} }

// NewOKWithRecord creates a successful result carrying the produced record.
func NewOKWithRecord(id string, r record.Record) Result {
	return Result{id: id, status: StatusOK, rec: &r}
}

// NewError creates a failed result.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the item identifier from the request.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Record returns the produced record, if any.
func (r Result) Record() (record.Record, bool) {
	if r.rec == nil {
		return record.Record{}, false
	}
	return *r.rec, true
}
