package core

import (
	"sync/atomic"

	"github.com/Swind/go-workstealing/internal/syncx"
)

// noCopy may be embedded into structs which must not be copied after first use.
// go vet will warn on accidental copies (it looks for Lock methods).
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// node for the two-lock queue. The node at tail is always an empty sentinel.
type node struct {
	task Task
	next *node
}

// GlobalQueue is the FIFO for tasks submitted from outside the pool's workers.
//
// Head and tail have their own locks, so a Push and a TryPop never contend.
// The tail node carries no data: head == tail means the queue is empty.
type GlobalQueue struct {
	noCopy noCopy

	headMu syncx.Mutex
	head   *node

	tailMu syncx.Mutex
	tail   *node

	size atomic.Int64
}

func NewGlobalQueue() *GlobalQueue {
	s := &node{}
	return &GlobalQueue{head: s, tail: s}
}

// Push fills the current sentinel with t and links a fresh sentinel behind it.
func (q *GlobalQueue) Push(t Task) {
	if t == nil {
		panic("GlobalQueue: tried to push nil task")
	}
	sentinel := &node{}

	q.tailMu.Lock()
	q.tail.task = t
	q.tail.next = sentinel
	q.tail = sentinel
	q.size.Add(1)
	q.tailMu.Unlock()
}

func (q *GlobalQueue) getTail() *node {
	q.tailMu.Lock()
	defer q.tailMu.Unlock()
	return q.tail
}

// TryPop removes the oldest task, or reports false if the queue is empty.
func (q *GlobalQueue) TryPop() (Task, bool) {
	q.headMu.Lock()
	if q.head == q.getTail() {
		q.headMu.Unlock()
		return nil, false
	}
	old := q.head
	q.head = old.next
	q.size.Add(-1)
	q.headMu.Unlock()

	t := old.task
	old.task = nil
	old.next = nil
	return t, true
}

// IsEmpty is a snapshot; a concurrent Push may make it stale immediately.
func (q *GlobalQueue) IsEmpty() bool {
	q.headMu.Lock()
	defer q.headMu.Unlock()
	return q.head == q.getTail()
}

func (q *GlobalQueue) Len() int {
	return int(q.size.Load())
}
