package core

import "context"

// Worker is the identity of one scheduling goroutine: its index and its
// local queue. Both are fixed when the scheduler is created.
type Worker struct {
	id        int
	queue     *LocalQueue
	scheduler *WorkStealingScheduler
}

// ID returns the worker's index in its scheduler.
func (w *Worker) ID() int {
	return w.id
}

// Queue returns the worker's local queue.
func (w *Worker) Queue() *LocalQueue {
	return w.queue
}

// =============================================================================
// Context Helper
// =============================================================================
type workerKeyType struct{}

var workerKey workerKeyType

// WithWorker returns a context that marks code running under it as executing
// on w. Tasks receive such a context when a worker runs them.
func WithWorker(ctx context.Context, w *Worker) context.Context {
	return context.WithValue(ctx, workerKey, w)
}

// WorkerFromContext returns the worker carried by ctx, or nil.
func WorkerFromContext(ctx context.Context) *Worker {
	if ctx == nil {
		return nil
	}
	if v := ctx.Value(workerKey); v != nil {
		return v.(*Worker)
	}
	return nil
}
