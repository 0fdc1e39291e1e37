package core

import "sync"

// Result is the resolved outcome of a Future.
type Result[T any] struct {
	Value T
	Err   error
}

// Future is a single-resolution result cell owned by the submitter.
//
// The value becomes visible to any goroutine that observes Ready() == true:
// the write happens before the done channel is closed.
type Future[T any] struct {
	done   chan struct{}
	once   sync.Once
	result Result[T]
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// resolve publishes the outcome. Only the first call has any effect.
func (f *Future[T]) resolve(value T, err error) bool {
	resolved := false
	f.once.Do(func() {
		f.result = Result[T]{Value: value, Err: err}
		close(f.done)
		resolved = true
	})
	return resolved
}

// Ready polls the future with zero timeout.
func (f *Future[T]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed once the future resolves.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Poll returns the result and true if the future has resolved.
func (f *Future[T]) Poll() (Result[T], bool) {
	if !f.Ready() {
		return Result[T]{}, false
	}
	return f.result, true
}

// Get blocks until the future resolves.
//
// Calling Get from inside pool work can deadlock when the awaited task is
// queued behind the caller; use Await there instead. After the pool has shut
// down a queued task may never run and Get never returns.
func (f *Future[T]) Get() (T, error) {
	<-f.done
	return f.result.Value, f.result.Err
}
