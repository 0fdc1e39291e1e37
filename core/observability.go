package core

import "time"

// TaskExecutionRecord captures a completed task execution event.
type TaskExecutionRecord struct {
	Seq        uint64
	PoolName   string
	WorkerID   int // -1 for a helping non-worker goroutine
	Source     TaskSource
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Panicked   bool
}

// PoolStats represents runtime observability state for a work-stealing pool.
type PoolStats struct {
	ID           string
	Workers      int
	GlobalQueued int
	LocalQueued  []int // index-aligned with worker IDs
	Active       int
	Executed     int64
	Stolen       int64
	Helped       int64 // tasks run through RunPendingTask
	Panicked     int64
	Running      bool
	LastTaskAt   time.Time
}

// Queued returns the total number of tasks waiting in any queue.
func (s PoolStats) Queued() int {
	n := s.GlobalQueued
	for _, l := range s.LocalQueued {
		n += l
	}
	return n
}
