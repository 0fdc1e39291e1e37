package core

import (
	"context"
	"sync"
	"testing"
	"time"
)

// =============================================================================
// Test PanicHandler
// =============================================================================

// TestPanicHandler is a mock panic handler for testing
type TestPanicHandler struct {
	mu    sync.Mutex
	calls []PanicCall
}

type PanicCall struct {
	PoolName  string
	WorkerID  int
	PanicInfo any
}

func NewTestPanicHandler() *TestPanicHandler {
	return &TestPanicHandler{}
}

func (h *TestPanicHandler) HandlePanic(ctx context.Context, poolName string, workerID int, panicInfo any, stackTrace []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls = append(h.calls, PanicCall{
		PoolName:  poolName,
		WorkerID:  workerID,
		PanicInfo: panicInfo,
	})
}

func (h *TestPanicHandler) GetCalls() []PanicCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]PanicCall(nil), h.calls...)
}

func (h *TestPanicHandler) CallCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.calls)
}

// recordingLogger keeps messages for assertions
type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func (l *recordingLogger) Debug(msg string, fields ...Field) { l.record(msg) }
func (l *recordingLogger) Info(msg string, fields ...Field)  { l.record(msg) }
func (l *recordingLogger) Warn(msg string, fields ...Field)  { l.record(msg) }
func (l *recordingLogger) Error(msg string, fields ...Field) { l.record(msg) }

func (l *recordingLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.msgs...)
}

func TestDefaultPanicHandler(t *testing.T) {
	// Given: A DefaultPanicHandler without a logger
	handler := &DefaultPanicHandler{}

	// When: HandlePanic is called for a worker and for a helper
	ctx := context.Background()
	handler.HandlePanic(ctx, "test-pool", 42, "test panic", []byte("stack trace"))
	handler.HandlePanic(ctx, "test-pool", -1, "test panic", []byte("stack trace"))

	// Then: No panic should occur (handler should not crash)
}

func TestDefaultPanicHandler_UsesLogger(t *testing.T) {
	logger := &recordingLogger{}
	handler := &DefaultPanicHandler{Logger: logger}

	handler.HandlePanic(context.Background(), "test-pool", 0, "boom", nil)

	msgs := logger.Messages()
	if len(msgs) != 1 || msgs[0] != "task panicked" {
		t.Errorf("logged %v, want [task panicked]", msgs)
	}
}

// =============================================================================
// Test Metrics
// =============================================================================

// TestMetrics is a mock metrics collector for testing
type TestMetrics struct {
	mu            sync.Mutex
	taskDurations []TaskDurationMetric
	taskPanics    []TaskPanicMetric
	steals        []int
}

type TaskDurationMetric struct {
	PoolName string
	Source   TaskSource
	Duration time.Duration
}

type TaskPanicMetric struct {
	PoolName  string
	PanicInfo any
}

func NewTestMetrics() *TestMetrics {
	return &TestMetrics{}
}

func (m *TestMetrics) RecordTaskDuration(poolName string, source TaskSource, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taskDurations = append(m.taskDurations, TaskDurationMetric{
		PoolName: poolName,
		Source:   source,
		Duration: duration,
	})
}

func (m *TestMetrics) RecordTaskPanic(poolName string, panicInfo any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taskPanics = append(m.taskPanics, TaskPanicMetric{
		PoolName:  poolName,
		PanicInfo: panicInfo,
	})
}

func (m *TestMetrics) RecordTaskStolen(poolName string, victim int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steals = append(m.steals, victim)
}

func (m *TestMetrics) GetTaskDurations() []TaskDurationMetric {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TaskDurationMetric(nil), m.taskDurations...)
}

func (m *TestMetrics) GetTaskPanics() []TaskPanicMetric {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TaskPanicMetric(nil), m.taskPanics...)
}

func (m *TestMetrics) GetSteals() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.steals...)
}

func TestNilMetrics(t *testing.T) {
	// Given: A NilMetrics
	metrics := &NilMetrics{}

	// When: All methods are called
	metrics.RecordTaskDuration("test-pool", TaskSourceLocal, time.Second)
	metrics.RecordTaskPanic("test-pool", "panic")
	metrics.RecordTaskStolen("test-pool", 1)

	// Then: No panic should occur (all methods are no-ops)
}

// =============================================================================
// SchedulerConfig
// =============================================================================

func TestDefaultSchedulerConfig(t *testing.T) {
	// Given: Default config
	config := DefaultSchedulerConfig()

	// Then: All handlers should be non-nil with default types
	if _, ok := config.PanicHandler.(*DefaultPanicHandler); !ok {
		t.Errorf("PanicHandler should be *DefaultPanicHandler, got %T", config.PanicHandler)
	}
	if _, ok := config.Metrics.(*NilMetrics); !ok {
		t.Errorf("Metrics should be *NilMetrics, got %T", config.Metrics)
	}
	if _, ok := config.Logger.(*NoOpLogger); !ok {
		t.Errorf("Logger should be *NoOpLogger, got %T", config.Logger)
	}

	// And: struct tag defaults are applied to the idle settings
	want := IdleConfig{SpinCount: 64, InitialSleep: 10 * time.Microsecond, MaxSleep: 500 * time.Microsecond}
	if config.Idle != want {
		t.Errorf("Idle = %+v, want %+v", config.Idle, want)
	}
	if config.Name != "" {
		t.Errorf("Name = %q, want empty so pools can fill in their ID", config.Name)
	}
}

func TestSchedulerConfig_PartialConfig(t *testing.T) {
	// Given: Partial config (only Metrics and SpinCount set)
	metrics := NewTestMetrics()
	config := &SchedulerConfig{
		Metrics: metrics,
		Idle:    IdleConfig{SpinCount: 3},
	}

	// When: A scheduler normalizes it
	s := NewWorkStealingSchedulerWithConfig(1, config)

	// Then: Explicit values survive and the rest is defaulted
	if s.metrics != metrics {
		t.Error("Metrics not kept")
	}
	if _, ok := s.panicHandler.(*DefaultPanicHandler); !ok {
		t.Errorf("PanicHandler should default to *DefaultPanicHandler, got %T", s.panicHandler)
	}
	if s.Logger() == nil {
		t.Error("Logger should be defaulted")
	}
	if s.Name() != "workstealing" {
		t.Errorf("Name = %q, want workstealing", s.Name())
	}
	if got := s.IdleConfig(); got.SpinCount != 3 || got.MaxSleep != 500*time.Microsecond {
		t.Errorf("Idle = %+v, want SpinCount 3 with default sleeps", got)
	}

	// And: the caller's config is not mutated
	if config.PanicHandler != nil || config.Logger != nil {
		t.Error("caller config was modified")
	}
}

func TestSchedulerConfig_NilConfig(t *testing.T) {
	s := NewWorkStealingSchedulerWithConfig(2, nil)
	if s.WorkerCount() != 2 {
		t.Errorf("WorkerCount = %d, want 2", s.WorkerCount())
	}
	if s.Name() != "workstealing" {
		t.Errorf("Name = %q, want workstealing", s.Name())
	}
}

func ExampleSchedulerConfig() {
	config := &SchedulerConfig{
		Name:            "sorter",
		PanicHandler:    &DefaultPanicHandler{},
		Metrics:         &NilMetrics{},
		Logger:          NewDefaultLogger(),
		Idle:            IdleConfig{SpinCount: 16, MaxSleep: -1},
		HistoryCapacity: 128,
	}

	_ = NewWorkStealingSchedulerWithConfig(4, config)
}
