// Package upload runs the upload queue: validation, streaming ingest,
// background processing into Draft records, and publishing.
package upload

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/archivist/internal/domain"
	"github.com/kailas-cloud/archivist/internal/domain/category"
	"github.com/kailas-cloud/archivist/internal/domain/query"
	"github.com/kailas-cloud/archivist/internal/domain/query/page"
	"github.com/kailas-cloud/archivist/internal/domain/record"
	domupload "github.com/kailas-cloud/archivist/internal/domain/upload"
	"github.com/kailas-cloud/archivist/internal/logger"
	"github.com/kailas-cloud/archivist/internal/metrics"
)

// SubmitResult is the outcome of offering one file to the queue.
// Exactly one of Task (ID set) and Err is meaningful.
type SubmitResult struct {
	File domupload.File
	Task domupload.Task
	Err  error
}

// Service owns the upload task registry and its processing workers.
type Service struct {
	tasks       *xsync.MapOf[string, *entry]
	seq         atomic.Uint64
	jobs        chan string
	records     RecordStore
	categorizer category.Categorizer
	query       Querier
	cfg         domain.UploadConfig
	now         func() time.Time
	newID       func() string
	logger      *zap.Logger
}

// New creates an upload service. Call Run to start processing.
func New(
	records RecordStore,
	categorizer category.Categorizer,
	q Querier,
	cfg domain.UploadConfig,
	log *zap.Logger,
) *Service {
	def := domain.DefaultUploadConfig()
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = def.MaxFileSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		tasks:       xsync.NewMapOf[string, *entry](),
		jobs:        make(chan string, cfg.QueueSize),
		records:     records,
		categorizer: categorizer,
		query:       q,
		cfg:         cfg,
		now:         time.Now,
		newID:       uuid.NewString,
		logger:      log,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Run processes queued tasks with the configured number of workers.
// It blocks until ctx is canceled and returns nil on a clean shutdown.
func (s *Service) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for range s.cfg.Workers {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case id := <-s.jobs:
					s.process(ctx, id)
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("upload workers: %w", err)
	}
	return nil
}

// Submit validates files and registers a pending task for each valid one.
func (s *Service) Submit(files []domupload.File) []SubmitResult {
	now := s.now()
	out := make([]SubmitResult, len(files))
	for i, f := range files {
		g, err := f.Validate(s.cfg.MaxFileSize)
		if err != nil {
			out[i] = SubmitResult{File: f, Err: err}
			continue
		}
		t := domupload.Task{
			ID:        s.newID(),
			File:      f,
			Group:     g,
			Status:    domupload.StatusPending,
			Metadata:  domupload.DefaultMetadata(f.Name, now),
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.tasks.Store(t.ID, &entry{seq: s.seq.Add(1), task: t})
		out[i] = SubmitResult{File: f, Task: t.Clone()}
	}
	return out
}

// Get returns a task snapshot.
func (s *Service) Get(id string) (domupload.Task, error) {
	e, err := s.entry(id)
	if err != nil {
		return domupload.Task{}, err
	}
	return e.snapshot(), nil
}

// List projects the queue into records and runs the list pipeline over them
// in submission order.
func (s *Service) List(d query.Descriptor) page.Page[record.Record] {
	entries := s.entries()
	recs := make([]record.Record, len(entries))
	for i, e := range entries {
		recs[i] = e.snapshot().ToRecord()
	}
	return s.query.Run(recs, d)
}

// Cancel stops a pending, uploading or processing task.
func (s *Service) Cancel(id string) (domupload.Task, error) {
	e, err := s.entry(id)
	if err != nil {
		return domupload.Task{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := s.transition(e, domupload.StatusCanceled, "cancel"); err != nil {
		return domupload.Task{}, err
	}
	if e.cancel != nil {
		e.cancel()
	}
	return e.task.Clone(), nil
}

// Remove drops a task from the queue, canceling it first when it is still running.
// Records created by completed tasks are kept.
func (s *Service) Remove(id string) error {
	e, err := s.entry(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	if e.task.Status.CanTransition(domupload.StatusCanceled) {
		_ = s.transition(e, domupload.StatusCanceled, "remove")
	}
	if e.cancel != nil {
		e.cancel()
	}
	e.closeSubs()
	e.mu.Unlock()

	s.tasks.Delete(id)
	return nil
}

// Subscribe returns a channel of progress events for a task, starting with
// its current state. The channel is closed once the task settles; the
// returned func unsubscribes early.
func (s *Service) Subscribe(id string) (<-chan domupload.Event, func(), error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, nil, err
	}
	ch := make(chan domupload.Event, subscriberBuffer)

	e.mu.Lock()
	defer e.mu.Unlock()
	ch <- domupload.EventOf(e.task)
	if e.task.Status.IsSettled() {
		close(ch)
		return ch, func() {}, nil
	}
	e.subs = append(e.subs, ch)
	return ch, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.removeSub(ch)
	}, nil
}

// UpdateMetadata replaces the task's metadata. A completed task also has its
// record rewritten.
func (s *Service) UpdateMetadata(ctx context.Context, id string, m domupload.Metadata) (domupload.Task, error) {
	return s.UpdateMetadataFunc(ctx, id, func(domupload.Metadata) (domupload.Metadata, error) {
		return m, nil
	})
}

// UpdateMetadataFunc runs update on a copy of the current metadata under the
// task lock, so concurrent categorizing cannot be lost between read and write.
func (s *Service) UpdateMetadataFunc(
	ctx context.Context, id string, update func(domupload.Metadata) (domupload.Metadata, error),
) (domupload.Task, error) {
	e, err := s.entry(id)
	if err != nil {
		return domupload.Task{}, err
	}

	e.mu.Lock()
	switch e.task.Status {
	case domupload.StatusError, domupload.StatusCanceled, domupload.StatusPublished:
		st := e.task.Status
		e.mu.Unlock()
		return domupload.Task{}, domain.NewUploadStateError("update metadata of", string(st))
	}
	m, err := update(e.task.Clone().Metadata)
	if err == nil {
		err = m.Validate()
	}
	if err != nil {
		e.mu.Unlock()
		return domupload.Task{}, err
	}
	e.task.Metadata = m
	e.task.UpdatedAt = s.now()
	t := e.task.Clone()
	e.mu.Unlock()

	if t.Status == domupload.StatusCompleted && t.RecordID != "" {
		rec, err := t.ContentRecord(t.RecordID, s.now())
		if err != nil {
			return domupload.Task{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		if err := s.records.Put(ctx, rec); err != nil {
			return domupload.Task{}, fmt.Errorf("update record: %w", err)
		}
	}
	return t, nil
}

// Categorize asks the categorizer for a suggestion and applies it to the
// task's metadata, replacing the category and merging tags.
func (s *Service) Categorize(ctx context.Context, id string) (domupload.Task, category.Suggestion, error) {
	e, err := s.entry(id)
	if err != nil {
		return domupload.Task{}, category.Suggestion{}, err
	}
	sug, err := s.categorizer.Categorize(ctx, hintOf(e.snapshot()))
	if err != nil {
		return domupload.Task{}, category.Suggestion{}, fmt.Errorf("auto-categorize: %w", err)
	}

	e.mu.Lock()
	e.task.Metadata = applySuggestion(e.task.Metadata, sug, true)
	e.task.UpdatedAt = s.now()
	t := e.task.Clone()
	e.mu.Unlock()
	return t, sug, nil
}

// PublishAll publishes the records of every completed task.
// Tasks that fail are left completed; their errors are joined.
func (s *Service) PublishAll(ctx context.Context) ([]domupload.Task, error) {
	var (
		published []domupload.Task
		errs      []error
	)
	for _, e := range s.entries() {
		t := e.snapshot()
		if t.Status != domupload.StatusCompleted {
			continue
		}
		if err := s.publishRecord(ctx, t.RecordID); err != nil {
			errs = append(errs, fmt.Errorf("task %s: %w", t.ID, err))
			continue
		}
		e.mu.Lock()
		if err := s.transition(e, domupload.StatusPublished, "publish"); err == nil {
			published = append(published, e.task.Clone())
		}
		e.mu.Unlock()
	}
	if published == nil {
		published = []domupload.Task{}
	}
	return published, errors.Join(errs...)
}

func (s *Service) publishRecord(ctx context.Context, id string) error {
	rec, err := s.records.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get record: %w", err)
	}
	rec = rec.
		With(record.FieldStatus, record.String(string(record.StatusPublished))).
		With(record.FieldLastModified, record.Date(s.now()))
	if err := s.records.Put(ctx, rec); err != nil {
		return fmt.Errorf("put record: %w", err)
	}
	return nil
}

// process turns a processing task into a Draft record.
func (s *Service) process(ctx context.Context, id string) {
	e, err := s.entry(id)
	if err != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.mu.Lock()
	if e.task.Status != domupload.StatusProcessing {
		e.mu.Unlock()
		return
	}
	e.cancel = cancel
	t := e.task.Clone()
	e.mu.Unlock()

	ctx = logger.With(logger.ContextWithLogger(ctx, s.logger), zap.String("task_id", id))
	log := logger.FromContext(ctx)

	if t.Metadata.Category == "" && s.categorizer != nil {
		sug, err := s.categorizer.Categorize(ctx, hintOf(t))
		if err != nil {
			log.Warn("Auto-categorize failed, keeping metadata", zap.Error(err))
		} else {
			t.Metadata = applySuggestion(t.Metadata, sug, false)
		}
	}
	if err := ctx.Err(); err != nil {
		s.fail(e, err)
		return
	}

	rec, err := t.ContentRecord(t.ID, s.now())
	if err != nil {
		s.fail(e, fmt.Errorf("%w: %w", domain.ErrValidation, err))
		return
	}
	if err := s.records.Create(ctx, rec); err != nil {
		s.fail(e, fmt.Errorf("create record: %w", err))
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.task.Status != domupload.StatusProcessing {
		// canceled while the record was written
		if err := s.records.Delete(context.WithoutCancel(ctx), rec.ID()); err != nil {
			log.Warn("Failed to drop record of canceled upload", zap.Error(err))
		}
		return
	}
	e.task.Metadata = t.Metadata
	e.task.RecordID = rec.ID()
	_ = s.transition(e, domupload.StatusCompleted, "complete")
	log.Info("Upload processed", zap.String("record_id", rec.ID()), zap.String("category", t.Metadata.Category))
}

// fail moves a running task to error. A task canceled meanwhile stays canceled.
func (s *Service) fail(e *entry, cause error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.task.Status == domupload.StatusCanceled {
		return fmt.Errorf("%w: %w", domain.ErrUploadCanceled, cause)
	}
	e.task.Err = cause.Error()
	_ = s.transition(e, domupload.StatusError, "fail")
	s.logger.Warn("Upload failed", zap.String("task_id", e.task.ID), zap.Error(cause))
	return cause
}

// transition moves a locked entry to next, keeping metrics and subscribers in step.
func (s *Service) transition(e *entry, next domupload.Status, op string) error {
	prev := e.task.Status
	if !prev.CanTransition(next) {
		return domain.NewUploadStateError(op, string(prev))
	}
	e.task.Status = next
	e.task.UpdatedAt = s.now()

	switch {
	case !prev.IsActive() && next.IsActive():
		metrics.UploadTasksActive.Inc()
	case prev.IsActive() && !next.IsActive():
		metrics.UploadTasksActive.Dec()
	}
	if next.IsSettled() {
		metrics.UploadTasksTotal.WithLabelValues(string(next)).Inc()
	}

	e.emit(domupload.EventOf(e.task))
	if next.IsSettled() {
		e.closeSubs()
	}
	return nil
}

func (s *Service) entry(id string) (*entry, error) {
	e, ok := s.tasks.Load(id)
	if !ok {
		return nil, fmt.Errorf("upload %q: %w", id, domain.ErrUploadNotFound)
	}
	return e, nil
}

// entries returns the registry in submission order.
func (s *Service) entries() []*entry {
	out := make([]*entry, 0, s.tasks.Size())
	s.tasks.Range(func(_ string, e *entry) bool {
		out = append(out, e)
		return true
	})
	slices.SortFunc(out, func(a, b *entry) int { return cmp.Compare(a.seq, b.seq) })
	return out
}

func hintOf(t domupload.Task) category.Hint {
	return category.Hint{Title: t.Metadata.Title, Description: t.Metadata.Description, FileName: t.File.Name}
}

// applySuggestion sets the category (only when empty unless overwrite) and
// appends suggested tags that are not present yet.
func applySuggestion(m domupload.Metadata, sug category.Suggestion, overwrite bool) domupload.Metadata {
	if sug.Category != "" && (overwrite || m.Category == "") && domupload.Group(sug.Category).IsValid() {
		m.Category = sug.Category
	}
	tags := slices.Clone(m.Tags)
	for _, t := range sug.Tags {
		if len(tags) >= domupload.MaxTags {
			break
		}
		if !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	m.Tags = tags
	return m
}
