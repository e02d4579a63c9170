// Package workers provides abstractions for managing background workers
// owned by a client instance.
// It defines the Worker interface and a Workers aggregate that starts and
// stops a set of workers as one unit.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Run starts the worker and returns immediately; the work itself happens on
// goroutines owned by the worker. Stop cancels that work and blocks until it
// has finished. Stop must be safe to call more than once.
//
// Example implementation:
//
//	type MyWorker struct{ cancel context.CancelFunc }
//
//	func (w *MyWorker) Run(ctx context.Context) {
//	    ctx, w.cancel = context.WithCancel(ctx)
//	    go loop(ctx)
//	}
//
//	func (w *MyWorker) Stop() { w.cancel() }
type Worker interface {
	Run(ctx context.Context)
	Stop()
}
