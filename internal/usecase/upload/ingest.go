package upload

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/kailas-cloud/archivist/internal/domain"
	domupload "github.com/kailas-cloud/archivist/internal/domain/upload"
	"github.com/kailas-cloud/archivist/internal/metrics"
)

const chunkSize = 32 * 1024

// Ingest streams a pending task's bytes from r. It emits a progress event at
// every 10% step, verifies the declared size, records the sha256 checksum and
// queues the task for processing. Cancel interrupts it between reads.
func (s *Service) Ingest(ctx context.Context, id string, r io.Reader) (domupload.Task, error) {
	e, err := s.entry(id)
	if err != nil {
		return domupload.Task{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.mu.Lock()
	if err := s.transition(e, domupload.StatusUploading, "ingest"); err != nil {
		e.mu.Unlock()
		return domupload.Task{}, err
	}
	e.cancel = cancel
	size := e.task.File.Size
	e.mu.Unlock()

	sum, n, err := s.stream(ctx, e, r, size)
	if err != nil {
		return domupload.Task{}, s.fail(e, err)
	}

	e.mu.Lock()
	e.task.BytesReceived = n
	e.task.Checksum = sum
	e.task.Progress = 100
	if err := s.transition(e, domupload.StatusProcessing, "process"); err != nil {
		e.mu.Unlock()
		return domupload.Task{}, fmt.Errorf("%w: %w", domain.ErrUploadCanceled, err)
	}
	t := e.task.Clone()
	e.mu.Unlock()

	select {
	case s.jobs <- id:
	case <-ctx.Done():
		return domupload.Task{}, s.fail(e, fmt.Errorf("queue for processing: %w", ctx.Err()))
	}
	return t, nil
}

// stream copies r into a sha256 hash, reporting progress on the entry.
func (s *Service) stream(ctx context.Context, e *entry, r io.Reader, size int64) (string, int64, error) {
	h := sha256.New()
	buf := make([]byte, chunkSize)
	var n int64
	step := 0
	for {
		if err := ctx.Err(); err != nil {
			return "", n, err
		}
		k, rerr := r.Read(buf)
		if k > 0 {
			n += int64(k)
			if n > size {
				return "", n, fmt.Errorf("%w: received more than the declared %d bytes", domain.ErrIncompleteUpload, size)
			}
			h.Write(buf[:k])
			metrics.UploadBytesTotal.Add(float64(k))
			// One read may cross several steps; each still gets its event.
			for p := percent(n, size); step < 9 && step < p/10; {
				step++
				s.progress(e, step*10, n)
			}
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return "", n, fmt.Errorf("read upload: %w", rerr)
		}
	}
	if n != size {
		return "", n, fmt.Errorf("%w: received %d of %d bytes", domain.ErrIncompleteUpload, n, size)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

func (s *Service) progress(e *entry, p int, n int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.task.Status != domupload.StatusUploading {
		return
	}
	e.task.Progress = p
	e.task.BytesReceived = n
	e.task.UpdatedAt = s.now()
	e.emit(domupload.EventOf(e.task))
}

func percent(n, size int64) int {
	if size <= 0 {
		return 100
	}
	return int(n * 100 / size)
}
