package core

import (
	"context"
	"fmt"
	"time"

	"github.com/creasty/defaults"
)

// =============================================================================
// PanicHandler: Interface for handling task panics
// =============================================================================

// PanicHandler is called when a posted task panics during execution.
// Tasks created by Submit never reach it: their panics are stored in the Future.
//
// Implementations should be thread-safe as they may be called concurrently.
type PanicHandler interface {
	// HandlePanic is called when a task panics.
	//
	// Parameters:
	// - ctx: The context the task ran with (carries the worker, if any)
	// - poolName: The name of the scheduler where the panic occurred
	// - workerID: The ID of the worker, -1 when a non-worker goroutine ran the task
	// - panicInfo: The panic value recovered from the task
	// - stackTrace: The stack trace at the time of panic
	HandlePanic(ctx context.Context, poolName string, workerID int, panicInfo any, stackTrace []byte)
}

// DefaultPanicHandler reports panics through Logger, or stdout if Logger is nil.
type DefaultPanicHandler struct {
	Logger Logger
}

// HandlePanic logs panic information.
func (h *DefaultPanicHandler) HandlePanic(ctx context.Context, poolName string, workerID int, panicInfo any, stackTrace []byte) {
	if h.Logger != nil {
		h.Logger.Error("task panicked",
			F("pool", poolName),
			F("worker", workerID),
			F("panic", panicInfo),
			F("stack", string(stackTrace)),
		)
		return
	}
	if workerID >= 0 {
		fmt.Printf("[Worker %d @ %s] Panic: %v\nStack trace:\n%s",
			workerID, poolName, panicInfo, stackTrace)
	} else {
		fmt.Printf("[Helper @ %s] Panic: %v\nStack trace:\n%s",
			poolName, panicInfo, stackTrace)
	}
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting task execution metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD, etc.).
//
// Methods run on the scheduling hot path and must be non-blocking and fast.
type Metrics interface {
	// RecordTaskDuration records how long a task took to execute and where
	// the executing goroutine found it.
	RecordTaskDuration(poolName string, source TaskSource, duration time.Duration)

	// RecordTaskPanic records that a posted task panicked during execution.
	RecordTaskPanic(poolName string, panicInfo any)

	// RecordTaskStolen records a successful steal from worker victim's queue.
	RecordTaskStolen(poolName string, victim int)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordTaskDuration is a no-op.
func (m *NilMetrics) RecordTaskDuration(poolName string, source TaskSource, duration time.Duration) {
}

// RecordTaskPanic is a no-op.
func (m *NilMetrics) RecordTaskPanic(poolName string, panicInfo any) {
}

// RecordTaskStolen is a no-op.
func (m *NilMetrics) RecordTaskStolen(poolName string, victim int) {
}

// =============================================================================
// SchedulerConfig: Configuration for WorkStealingScheduler
// =============================================================================

// SchedulerConfig holds configuration options for WorkStealingScheduler.
// All handlers are optional; if not provided, default implementations will be used.
type SchedulerConfig struct {
	// Name labels logs and metrics. Defaults to the pool ID, or "workstealing".
	Name string

	// PanicHandler is called when a posted task panics. Defaults to DefaultPanicHandler.
	PanicHandler PanicHandler

	// Metrics is called to record task execution metrics. Defaults to NilMetrics.
	Metrics Metrics

	// Logger receives lifecycle and diagnostic messages. Defaults to NoOpLogger.
	Logger Logger

	// Idle controls how a worker waits when it finds no work.
	Idle IdleConfig

	// HistoryCapacity enables RecentTasks when > 0.
	// Recording takes a lock per executed task, so it is off by default.
	HistoryCapacity int
}

// DefaultSchedulerConfig returns a config with default handlers.
func DefaultSchedulerConfig() *SchedulerConfig {
	cfg := &SchedulerConfig{
		PanicHandler: &DefaultPanicHandler{},
		Metrics:      &NilMetrics{},
		Logger:       NewNoOpLogger(),
	}
	defaults.MustSet(cfg)
	return cfg
}

// normalized returns a copy of cfg with every unset field defaulted.
func (c *SchedulerConfig) normalized() SchedulerConfig {
	var out SchedulerConfig
	if c != nil {
		out = *c
	}
	defaults.MustSet(&out)

	if out.Name == "" {
		out.Name = "workstealing"
	}
	if out.PanicHandler == nil {
		out.PanicHandler = &DefaultPanicHandler{Logger: out.Logger}
	}
	if out.Logger == nil {
		out.Logger = NewNoOpLogger()
	}
	if out.Metrics == nil {
		out.Metrics = &NilMetrics{}
	}
	return out
}
