package core

import (
	"context"
	"runtime"
	"runtime/debug"
)

// Submit wraps fn into a Task that resolves the returned Future, and posts it
// to ex. It never blocks and never fails; failures of fn (returned errors or
// panics) surface through the Future.
//
// Example:
//
//	f := core.Submit(ctx, pool, func(ctx context.Context) (int, error) {
//	    return fib(ctx, n-1)
//	})
//	v, err := core.Await(ctx, pool, f)
func Submit[T any](ctx context.Context, ex Executor, fn TaskWithResult[T]) *Future[T] {
	f := newFuture[T]()
	ex.Post(ctx, func(taskCtx context.Context) {
		var (
			value T
			err   error
		)
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.resolve(zero, &PanicError{Value: r, Stack: debug.Stack()})
				return
			}
			f.resolve(value, err)
		}()
		value, err = fn(taskCtx)
	})
	return f
}

// SubmitWith binds arg by value now and submits fn(arg).
func SubmitWith[A, T any](ctx context.Context, ex Executor, fn func(context.Context, A) (T, error), arg A) *Future[T] {
	return Submit(ctx, ex, func(taskCtx context.Context) (T, error) {
		return fn(taskCtx, arg)
	})
}

// Await waits for f cooperatively: while f is not ready the caller runs other
// queued tasks of ex, and yields when there are none. It never blocks on f,
// so a worker waiting on its own child keeps the pool moving even when every
// worker is waiting.
//
// After the pool has shut down, Await still drains queued tasks itself, so
// it returns as long as f's task is still queued somewhere in ex.
func Await[T any](ctx context.Context, ex Executor, f *Future[T]) (T, error) {
	for !f.Ready() {
		if !ex.RunPendingTask(ctx) {
			runtime.Gosched()
		}
	}
	return f.result.Value, f.result.Err
}
