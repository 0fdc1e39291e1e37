// Package workstealing provides a work-stealing goroutine pool with futures
// and cooperative waiting.
//
// Each worker owns a local double-ended queue. Tasks submitted from inside a
// task go to the submitting worker's queue; tasks submitted from anywhere else
// go to a shared FIFO. An idle worker looks at its own queue first, then the
// shared queue, then steals the oldest task of another worker.
//
// # Quick Start
//
//	pool := workstealing.NewThreadPool(4)
//	defer pool.Close()
//
//	f := workstealing.Submit(ctx, pool, func(ctx context.Context) (int, error) {
//		return 42, nil
//	})
//	v, err := workstealing.Await(ctx, pool, f)
//
// # Key Concepts
//
// Worker context: a running task receives a context carrying its worker.
// Pass that context to Submit, Post, RunPendingTask and Await so the pool
// knows the caller is one of its workers. A context without a worker marks
// an external caller.
//
// Future: resolves exactly once to a value or an error. A panic inside the
// computation resolves the future with a *PanicError.
//
// Cooperative waiting: Await never blocks on the future. While it is not
// ready the waiting goroutine runs other queued tasks, which is what keeps
// recursive fork/join code from deadlocking when every worker is waiting on
// a child. Future.Get is a true blocking wait and must not be used for that.
//
// # Shutdown
//
// Close sets the shutdown flag and joins the workers. Running tasks finish;
// queued tasks are abandoned and their futures never resolve unless some
// goroutine drains them with RunPendingTask or Await.
//
// # Example
//
//	func fib(ctx context.Context, pool *workstealing.ThreadPool, n int) (int, error) {
//		if n < 2 {
//			return n, nil
//		}
//		f := workstealing.SubmitWith(ctx, pool, func(ctx context.Context, n int) (int, error) {
//			return fib(ctx, pool, n)
//		}, n-1)
//		b, _ := fib(ctx, pool, n-2)
//		a, err := workstealing.Await(ctx, pool, f)
//		return a + b, err
//	}
package workstealing
