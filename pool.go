package workstealing

import (
	"context"
	"fmt"
	"sync"

	"github.com/Swind/go-workstealing/core"
)

// ThreadPool runs one worker goroutine per local queue of a
// core.WorkStealingScheduler. Workers start in the constructor and stop in
// Close.
type ThreadPool struct {
	id        string
	scheduler *core.WorkStealingScheduler
	logger    core.Logger
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	running   bool
	runningMu sync.RWMutex
	closeOnce sync.Once
}

var _ core.Executor = (*ThreadPool)(nil)

// NewThreadPool creates a pool with the given number of workers and starts
// them immediately. Zero workers is legal: nothing runs unless some goroutine
// calls RunPendingTask or Await.
func NewThreadPool(workers int) *ThreadPool {
	return NewThreadPoolWithConfig(fmt.Sprintf("pool-%d", workers), workers, core.DefaultSchedulerConfig())
}

// NewThreadPoolWithConfig creates and starts a pool with an explicit ID and
// scheduler configuration. cfg may be nil.
func NewThreadPoolWithConfig(id string, workers int, cfg *core.SchedulerConfig) *ThreadPool {
	var c core.SchedulerConfig
	if cfg != nil {
		c = *cfg
	}
	if c.Name == "" {
		c.Name = id
	}

	scheduler := core.NewWorkStealingSchedulerWithConfig(workers, &c)
	tp := &ThreadPool{
		id:        id,
		scheduler: scheduler,
		logger:    scheduler.Logger(),
	}
	tp.start()
	return tp
}

func (tp *ThreadPool) start() {
	tp.runningMu.Lock()
	defer tp.runningMu.Unlock()

	tp.ctx, tp.cancel = context.WithCancel(context.Background())
	tp.running = true

	n := tp.scheduler.WorkerCount()
	for i := 0; i < n; i++ {
		tp.wg.Add(1)
		go tp.workerLoop(tp.scheduler.Worker(i))
	}
	tp.logger.Info("thread pool started", core.F("pool", tp.id), core.F("workers", n))
}

// Close sets the shutdown flag and waits for every worker goroutine to exit.
// Tasks already running finish; queued tasks are abandoned and their futures
// stay unresolved unless a caller drains them with RunPendingTask.
func (tp *ThreadPool) Close() {
	tp.closeOnce.Do(func() {
		tp.scheduler.Shutdown()
		tp.Join()
		if tp.cancel != nil {
			tp.cancel()
		}

		tp.runningMu.Lock()
		tp.running = false
		tp.runningMu.Unlock()

		tp.logger.Info("thread pool closed",
			core.F("pool", tp.id),
			core.F("executed", tp.scheduler.ExecutedTaskCount()),
			core.F("abandoned", tp.scheduler.QueuedTaskCount()))
	})
}

// workerLoop is the main loop for each worker: RUNNING until the shutdown
// flag is observed, then STOPPED.
func (tp *ThreadPool) workerLoop(w *core.Worker) {
	defer tp.wg.Done()

	ctx := core.WithWorker(tp.ctx, w)
	idle := core.NewIdleStrategy(tp.scheduler.IdleConfig())
	tp.logger.Debug("worker started", core.F("pool", tp.id), core.F("worker", w.ID()))

	for !tp.scheduler.IsShuttingDown() {
		task, source, ok := tp.scheduler.FindWork(w)
		if !ok {
			idle.Idle()
			continue
		}
		idle.Reset()
		// Execute recovers panics, so a failing task never ends the loop
		tp.scheduler.Execute(ctx, w, task, source)
	}

	tp.logger.Debug("worker stopped", core.F("pool", tp.id), core.F("worker", w.ID()))
}

// Join waits for all worker goroutines to finish
func (tp *ThreadPool) Join() {
	tp.wg.Wait()
}

// Post enqueues a task without a result. See core.Executor.
func (tp *ThreadPool) Post(ctx context.Context, task core.Task) {
	tp.scheduler.Post(ctx, task)
}

// RunPendingTask runs at most one queued task on the calling goroutine.
func (tp *ThreadPool) RunPendingTask(ctx context.Context) bool {
	return tp.scheduler.RunPendingTask(ctx)
}

// ID returns the ID of the thread pool
func (tp *ThreadPool) ID() string {
	return tp.id
}

// IsRunning returns whether the thread pool is running
func (tp *ThreadPool) IsRunning() bool {
	tp.runningMu.RLock()
	defer tp.runningMu.RUnlock()
	return tp.running
}

// WorkerCount returns the number of workers
func (tp *ThreadPool) WorkerCount() int {
	return tp.scheduler.WorkerCount()
}

func (tp *ThreadPool) QueuedTaskCount() int {
	return tp.scheduler.QueuedTaskCount()
}

func (tp *ThreadPool) ActiveTaskCount() int {
	return tp.scheduler.ActiveTaskCount()
}

// GetScheduler exposes the underlying scheduler.
func (tp *ThreadPool) GetScheduler() *core.WorkStealingScheduler {
	return tp.scheduler
}

// Stats returns current observability data for this pool.
func (tp *ThreadPool) Stats() core.PoolStats {
	stats := tp.scheduler.Stats()
	stats.ID = tp.id
	stats.Running = tp.IsRunning()
	return stats
}

// RecentTasks returns completed task execution records in newest-first order.
func (tp *ThreadPool) RecentTasks(limit int) []core.TaskExecutionRecord {
	return tp.scheduler.RecentTasks(limit)
}

// =============================================================================
// Global Thread Pool Helper (Singleton)
// =============================================================================

var (
	globalThreadPool *ThreadPool
	globalMu         sync.Mutex
)

// InitGlobalThreadPool initializes the global thread pool with specified number of workers.
// It starts the pool immediately.
func InitGlobalThreadPool(workers int) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalThreadPool != nil {
		return // Already initialized
	}

	globalThreadPool = NewThreadPoolWithConfig("global-pool", workers, core.DefaultSchedulerConfig())
}

// GetGlobalThreadPool returns the global thread pool instance.
// It panics if InitGlobalThreadPool has not been called.
func GetGlobalThreadPool() *ThreadPool {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalThreadPool == nil {
		panic("GlobalThreadPool not initialized. Call InitGlobalThreadPool() first.")
	}
	return globalThreadPool
}

// ShutdownGlobalThreadPool stops the global thread pool.
func ShutdownGlobalThreadPool() {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalThreadPool != nil {
		globalThreadPool.Close()
		globalThreadPool = nil
	}
}
