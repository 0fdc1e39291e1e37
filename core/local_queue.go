package core

import (
	"github.com/Swind/go-workstealing/internal/syncx"
)

const (
	defaultQueueCap     = 16
	compactMinCap       = 64 // Don't compact if capacity is less than this
	compactShrinkFactor = 4  // Trigger compaction when len < cap/4
)

// LocalQueue is the double-ended queue owned by one worker.
//
// The owner pushes and pops at the back, so it always runs the most recently
// pushed (usually smallest) task first. Thieves take from the front, where
// the oldest tasks are. A single mutex guards both ends; it is only ever held
// for one slice operation, never while a task runs.
type LocalQueue struct {
	mu    syncx.Mutex
	tasks []Task
}

func NewLocalQueue() *LocalQueue {
	return &LocalQueue{
		tasks: make([]Task, 0, defaultQueueCap),
	}
}

// Push adds a task at the owner end.
func (q *LocalQueue) Push(t Task) {
	if t == nil {
		panic("LocalQueue: tried to push nil task")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, t)
}

// TryPop removes the most recently pushed task. Owner only.
func (q *LocalQueue) TryPop() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.tasks)
	if n == 0 {
		return nil, false
	}

	t := q.tasks[n-1]
	q.tasks[n-1] = nil
	q.tasks = q.tasks[:n-1]
	q.maybeCompactLocked()

	return t, true
}

// TrySteal removes the oldest task. Safe from any goroutine.
func (q *LocalQueue) TrySteal() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return nil, false
	}

	t := q.tasks[0]
	// Zero out the element in the underlying array to prevent memory leak
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	q.maybeCompactLocked()

	return t, true
}

func (q *LocalQueue) maybeCompactLocked() {
	n := len(q.tasks)
	c := cap(q.tasks)

	if c < compactMinCap {
		return
	}
	if n == 0 {
		q.tasks = make([]Task, 0, defaultQueueCap)
		return
	}
	if n*compactShrinkFactor >= c {
		return
	}

	newCap := max(max(c/2, defaultQueueCap), n)

	newSlice := make([]Task, n, newCap)
	copy(newSlice, q.tasks)
	q.tasks = newSlice
}

func (q *LocalQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// IsEmpty is a racy snapshot, informational only.
func (q *LocalQueue) IsEmpty() bool {
	return q.Len() == 0
}
