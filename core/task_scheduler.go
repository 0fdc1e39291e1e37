package core

import (
	"context"
	"runtime/debug"
	"sync/atomic"
	"time"
)

// WorkStealingScheduler owns the queues of a work-stealing pool and the
// find-work order over them. It does not start goroutines itself; the
// thread pool runs one loop per Worker and calls FindWork/Execute.
type WorkStealingScheduler struct {
	name    string
	workers []*Worker
	global  *GlobalQueue

	metricExecuted atomic.Int64
	metricStolen   atomic.Int64
	metricHelped   atomic.Int64
	metricPanicked atomic.Int64
	metricActive   atomic.Int32
	lastTaskAt     atomic.Int64 // unix nanos
	seq            atomic.Uint64

	// Handlers and Metrics
	panicHandler PanicHandler
	metrics      Metrics
	logger       Logger
	idle         IdleConfig
	history      *executionHistory

	// Lifecycle
	shuttingDown atomic.Bool
}

func NewWorkStealingScheduler(workerCount int) *WorkStealingScheduler {
	return NewWorkStealingSchedulerWithConfig(workerCount, DefaultSchedulerConfig())
}

// NewWorkStealingSchedulerWithConfig creates the scheduler with one local
// queue per worker. A negative workerCount is treated as zero.
func NewWorkStealingSchedulerWithConfig(workerCount int, config *SchedulerConfig) *WorkStealingScheduler {
	cfg := config.normalized()
	workerCount = max(workerCount, 0)

	s := &WorkStealingScheduler{
		name:         cfg.Name,
		workers:      make([]*Worker, workerCount),
		global:       NewGlobalQueue(),
		panicHandler: cfg.PanicHandler,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
		idle:         cfg.Idle,
		history:      newExecutionHistory(cfg.HistoryCapacity),
	}
	for i := range s.workers {
		s.workers[i] = &Worker{id: i, queue: NewLocalQueue(), scheduler: s}
	}
	return s
}

var _ Executor = (*WorkStealingScheduler)(nil)

// Post enqueues task without a result channel. Panics inside it go to the
// PanicHandler.
func (s *WorkStealingScheduler) Post(ctx context.Context, task Task) {
	if s.shuttingDown.Load() {
		s.logger.Warn("task posted after shutdown, workers will not run it",
			F("pool", s.name))
	}

	if w := s.ownWorker(ctx); w != nil {
		w.queue.Push(task)
		return
	}
	s.global.Push(task)
}

// FindWork runs one search: w's own queue, then the global queue, then a
// steal from every other worker starting just past w and wrapping once.
// A nil w has no own queue and starts stealing at index 0.
func (s *WorkStealingScheduler) FindWork(w *Worker) (Task, TaskSource, bool) {
	if w != nil {
		if t, ok := w.queue.TryPop(); ok {
			return t, TaskSourceLocal, true
		}
	}

	if t, ok := s.global.TryPop(); ok {
		return t, TaskSourceGlobal, true
	}

	n := len(s.workers)
	start, self := 0, -1
	if w != nil {
		start, self = w.id+1, w.id
	}
	for i := 0; i < n; i++ {
		victim := (start + i) % n
		if victim == self {
			continue
		}
		if t, ok := s.workers[victim].queue.TrySteal(); ok {
			s.metricStolen.Add(1)
			s.metrics.RecordTaskStolen(s.name, victim)
			return t, TaskSourceStolen, true
		}
	}

	return nil, 0, false
}

// RunPendingTask executes at most one queued task on the calling goroutine.
// It never blocks, and may be called from inside a running task.
func (s *WorkStealingScheduler) RunPendingTask(ctx context.Context) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	w := s.ownWorker(ctx)

	task, source, ok := s.FindWork(w)
	if !ok {
		return false
	}

	s.metricHelped.Add(1)
	s.Execute(ctx, w, task, source)
	return true
}

// Execute runs task synchronously. A panic is recovered and reported, so
// the calling loop always survives.
func (s *WorkStealingScheduler) Execute(ctx context.Context, w *Worker, task Task, source TaskSource) {
	workerID := -1
	if w != nil {
		workerID = w.id
	}

	s.metricActive.Add(1)
	startedAt := time.Now()
	panicked := false

	defer func() {
		if r := recover(); r != nil {
			panicked = true
			s.metricPanicked.Add(1)
			s.metrics.RecordTaskPanic(s.name, r)
			s.panicHandler.HandlePanic(ctx, s.name, workerID, r, debug.Stack())
		}

		finishedAt := time.Now()
		duration := finishedAt.Sub(startedAt)
		s.metricActive.Add(-1)
		s.metricExecuted.Add(1)
		s.lastTaskAt.Store(finishedAt.UnixNano())
		s.metrics.RecordTaskDuration(s.name, source, duration)
		s.history.Add(TaskExecutionRecord{
			Seq:        s.seq.Add(1),
			PoolName:   s.name,
			WorkerID:   workerID,
			Source:     source,
			StartedAt:  startedAt,
			FinishedAt: finishedAt,
			Duration:   duration,
			Panicked:   panicked,
		})
	}()

	task(ctx)
}

// Shutdown sets the shutdown flag. Workers stop at their next iteration;
// tasks still queued stay queued and are never run by workers.
func (s *WorkStealingScheduler) Shutdown() {
	if s.shuttingDown.CompareAndSwap(false, true) {
		s.logger.Debug("scheduler shutting down",
			F("pool", s.name),
			F("abandoned", s.QueuedTaskCount()))
	}
}

func (s *WorkStealingScheduler) IsShuttingDown() bool {
	return s.shuttingDown.Load()
}

// ownWorker returns the worker carried by ctx if it belongs to s.
func (s *WorkStealingScheduler) ownWorker(ctx context.Context) *Worker {
	w := WorkerFromContext(ctx)
	if w == nil || w.scheduler != s {
		return nil
	}
	return w
}

// Worker returns worker i.
func (s *WorkStealingScheduler) Worker(i int) *Worker {
	return s.workers[i]
}

// GlobalQueue exposes the shared queue for inspection.
func (s *WorkStealingScheduler) GlobalQueue() *GlobalQueue {
	return s.global
}

func (s *WorkStealingScheduler) Name() string           { return s.name }
func (s *WorkStealingScheduler) Logger() Logger         { return s.logger }
func (s *WorkStealingScheduler) IdleConfig() IdleConfig { return s.idle }

// Metrics
func (s *WorkStealingScheduler) WorkerCount() int         { return len(s.workers) }
func (s *WorkStealingScheduler) ActiveTaskCount() int     { return int(s.metricActive.Load()) }
func (s *WorkStealingScheduler) ExecutedTaskCount() int64 { return s.metricExecuted.Load() }
func (s *WorkStealingScheduler) StolenTaskCount() int64   { return s.metricStolen.Load() }

func (s *WorkStealingScheduler) QueuedTaskCount() int {
	n := s.global.Len()
	for _, w := range s.workers {
		n += w.queue.Len()
	}
	return n
}

// Stats returns a snapshot of the scheduler counters. ID and Running are
// left for the owning pool to fill in.
func (s *WorkStealingScheduler) Stats() PoolStats {
	stats := PoolStats{
		ID:           s.name,
		Workers:      len(s.workers),
		GlobalQueued: s.global.Len(),
		LocalQueued:  make([]int, len(s.workers)),
		Active:       int(s.metricActive.Load()),
		Executed:     s.metricExecuted.Load(),
		Stolen:       s.metricStolen.Load(),
		Helped:       s.metricHelped.Load(),
		Panicked:     s.metricPanicked.Load(),
	}
	for i, w := range s.workers {
		stats.LocalQueued[i] = w.queue.Len()
	}
	if ns := s.lastTaskAt.Load(); ns != 0 {
		stats.LastTaskAt = time.Unix(0, ns)
	}
	return stats
}

// RecentTasks returns execution records newest first. Empty unless the
// scheduler was configured with HistoryCapacity > 0.
func (s *WorkStealingScheduler) RecentTasks(limit int) []TaskExecutionRecord {
	return s.history.Recent(limit)
}
