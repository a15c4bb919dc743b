package gangsheet

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Runner tracks one cancellable context per in-flight gangsheet run so
// an administrative cancel or delete can signal the pipeline instead of
// letting it run to completion against a vanished record. Cancellation
// is cooperative: the pipeline checks between stages.
type Runner struct {
	mu      sync.Mutex
	cancels map[uuid.UUID]context.CancelFunc
}

func NewRunner() *Runner {
	return &Runner{cancels: make(map[uuid.UUID]context.CancelFunc)}
}

// Track registers a run and returns its context plus a done func the
// run must call when it finishes (any path).
func (r *Runner) Track(id uuid.UUID) (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.cancels[id] = cancel
	r.mu.Unlock()

	var once sync.Once
	done := func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.cancels, id)
			r.mu.Unlock()
			cancel()
		})
	}
	return ctx, done
}

// Cancel signals the run for the given gangsheet. Returns false when no
// run is in flight.
func (r *Runner) Cancel(id uuid.UUID) bool {
	r.mu.Lock()
	cancel, ok := r.cancels[id]
	r.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// Running reports whether a run is currently tracked.
func (r *Runner) Running(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.cancels[id]
	return ok
}
