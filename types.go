package workstealing

import (
	"context"

	"github.com/Swind/go-workstealing/core"
)

// Re-export commonly used types from core package for convenience.
// This allows users to import only the workstealing package for most use cases.

// Task is the unit of work (Closure)
type Task = core.Task

// TaskWithResult is a computation whose outcome is delivered through a Future
type TaskWithResult[T any] = core.TaskWithResult[T]

// Future is the single-resolution result cell returned by Submit
type Future[T any] = core.Future[T]

// Result is a resolved Future's value or error
type Result[T any] = core.Result[T]

// Executor is the interface for posting tasks and helping to run them
type Executor = core.Executor

// PanicError is the error a Future resolves to when its task panicked
type PanicError = core.PanicError

// SchedulerConfig configures handlers, metrics, logging and idle behavior
type SchedulerConfig = core.SchedulerConfig

// PoolStats is a snapshot of pool counters and queue depths
type PoolStats = core.PoolStats

// ErrTaskPanicked matches any PanicError via errors.Is
var ErrTaskPanicked = core.ErrTaskPanicked

// DefaultSchedulerConfig returns a config with default handlers
var DefaultSchedulerConfig = core.DefaultSchedulerConfig

// Submit posts fn to ex and returns its Future immediately.
func Submit[T any](ctx context.Context, ex Executor, fn TaskWithResult[T]) *Future[T] {
	return core.Submit(ctx, ex, fn)
}

// SubmitWith binds arg by value now and submits fn(arg).
func SubmitWith[A, T any](ctx context.Context, ex Executor, fn func(context.Context, A) (T, error), arg A) *Future[T] {
	return core.SubmitWith(ctx, ex, fn, arg)
}

// Await waits for f while helping ex run queued tasks. See core.Await.
func Await[T any](ctx context.Context, ex Executor, f *Future[T]) (T, error) {
	return core.Await(ctx, ex, f)
}
