package workers

import (
	"context"
	"sync"
)

// Workers runs a fixed set of workers and stops them once.
type Workers struct {
	mu      sync.Mutex
	workers []Worker
	stopped bool
}

// New groups workers in start order.
func New(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker in order. It is a no-op after Stop.
func (w *Workers) Run(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}

// Stop stops every worker in reverse start order. Only the first call does
// any work; it returns true if this call performed the shutdown.
func (w *Workers) Stop() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return false
	}
	w.stopped = true

	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
	return true
}
