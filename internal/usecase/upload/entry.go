package upload

import (
	"context"
	"slices"
	"sync"

	domupload "github.com/kailas-cloud/archivist/internal/domain/upload"
)

// subscriberBuffer holds every event of one task lifecycle
// (ten progress steps plus status changes) without blocking the sender.
const subscriberBuffer = 32

// entry is the mutable registry slot of one task. mu guards every field but seq.
type entry struct {
	seq uint64

	mu     sync.Mutex
	task   domupload.Task
	cancel context.CancelFunc
	subs   []chan domupload.Event
}

func (e *entry) snapshot() domupload.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.task.Clone()
}

// emit delivers ev to every subscriber, dropping it for subscribers that fell behind.
func (e *entry) emit(ev domupload.Event) {
	for _, ch := range e.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (e *entry) closeSubs() {
	for _, ch := range e.subs {
		close(ch)
	}
	e.subs = nil
}

func (e *entry) removeSub(ch chan domupload.Event) {
	i := slices.Index(e.subs, ch)
	if i < 0 {
		return
	}
	e.subs = slices.Delete(e.subs, i, i+1)
	close(ch)
}
