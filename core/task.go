package core

import (
	"context"
	"errors"
	"fmt"
)

// Task is the unit of work (Closure).
// Arguments are bound by the closure; ctx only carries the executing worker.
type Task func(ctx context.Context)

// TaskWithResult is a computation whose outcome is delivered through a Future.
type TaskWithResult[T any] func(ctx context.Context) (T, error)

// =============================================================================
// TaskSource: where a worker found the task it is running
// =============================================================================

type TaskSource int

const (
	// TaskSourceLocal: popped from the executing worker's own queue
	TaskSourceLocal TaskSource = iota

	// TaskSourceGlobal: popped from the shared overflow queue
	TaskSourceGlobal

	// TaskSourceStolen: taken from the steal end of another worker's queue
	TaskSourceStolen
)

func (s TaskSource) String() string {
	switch s {
	case TaskSourceLocal:
		return "local"
	case TaskSourceGlobal:
		return "global"
	case TaskSourceStolen:
		return "stolen"
	default:
		return "unknown"
	}
}

// =============================================================================
// Executor: task submission and cooperative draining
// =============================================================================

// Executor is implemented by anything that accepts tasks and lets callers
// help execute them. Both methods are non-blocking and safe from any goroutine.
type Executor interface {
	// Post enqueues task. If ctx carries a worker of this executor the task
	// goes to that worker's local queue, otherwise to the global queue.
	Post(ctx context.Context, task Task)

	// RunPendingTask executes at most one queued task on the calling
	// goroutine and reports whether it did.
	RunPendingTask(ctx context.Context) bool
}

// =============================================================================
// Task failure
// =============================================================================

// ErrTaskPanicked matches any *PanicError via errors.Is.
var ErrTaskPanicked = errors.New("task panicked")

// PanicError is stored in a Future when its computation panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

func (e *PanicError) Is(target error) bool {
	return target == ErrTaskPanicked
}
