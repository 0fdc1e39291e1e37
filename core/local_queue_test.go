package core

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"
)

// taggedTask returns a task that appends id to out when run.
func taggedTask(out *[]int, id int) Task {
	return func(ctx context.Context) {
		*out = append(*out, id)
	}
}

// TestLocalQueue_PopIsLIFO verifies the owner end
// Given: A local queue with tasks 1, 2, 3 pushed in order
// When: The owner pops until empty
// Then: Tasks come back as 3, 2, 1 and a final pop fails
func TestLocalQueue_PopIsLIFO(t *testing.T) {
	q := NewLocalQueue()
	var got []int
	for i := 1; i <= 3; i++ {
		q.Push(taggedTask(&got, i))
	}

	for {
		task, ok := q.TryPop()
		if !ok {
			break
		}
		task(context.Background())
	}

	want := []int{3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if !q.IsEmpty() {
		t.Error("queue should be empty")
	}
}

// TestLocalQueue_StealIsFIFO verifies the thief end
// Given: A local queue with tasks 1, 2, 3 pushed in order
// When: A thief steals twice and the owner pops once
// Then: Steals return 1 then 2, the pop returns 3
func TestLocalQueue_StealIsFIFO(t *testing.T) {
	q := NewLocalQueue()
	var got []int
	for i := 1; i <= 3; i++ {
		q.Push(taggedTask(&got, i))
	}

	for i := 0; i < 2; i++ {
		task, ok := q.TrySteal()
		if !ok {
			t.Fatalf("steal %d failed", i)
		}
		task(context.Background())
	}
	task, ok := q.TryPop()
	if !ok {
		t.Fatal("pop failed")
	}
	task(context.Background())

	if got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("got %v, want [1 2 3]", got)
	}
}

// TestLocalQueue_EmptyOperations verifies failure signaling on an empty queue
func TestLocalQueue_EmptyOperations(t *testing.T) {
	q := NewLocalQueue()

	if _, ok := q.TryPop(); ok {
		t.Error("TryPop on empty queue should fail")
	}
	if _, ok := q.TrySteal(); ok {
		t.Error("TrySteal on empty queue should fail")
	}
	if q.Len() != 0 {
		t.Errorf("Len = %d, want 0", q.Len())
	}
}

func TestLocalQueue_PushNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic when pushing nil task")
		}
	}()
	NewLocalQueue().Push(nil)
}

// TestLocalQueue_CompactionKeepsOrder verifies that shrinking the backing
// array never reorders or drops tasks
// Given: A queue grown well past the compaction threshold
// When: Most tasks are stolen, then the rest popped
// Then: Steals see ascending IDs, pops see descending IDs, nothing is lost
func TestLocalQueue_CompactionKeepsOrder(t *testing.T) {
	q := NewLocalQueue()
	const n = 1000
	var got []int
	for i := 0; i < n; i++ {
		q.Push(taggedTask(&got, i))
	}

	for i := 0; i < 900; i++ {
		task, ok := q.TrySteal()
		if !ok {
			t.Fatalf("steal %d failed", i)
		}
		task(context.Background())
	}
	if q.Len() != 100 {
		t.Fatalf("Len = %d, want 100", q.Len())
	}
	for {
		task, ok := q.TryPop()
		if !ok {
			break
		}
		task(context.Background())
	}

	if len(got) != n {
		t.Fatalf("ran %d tasks, want %d", len(got), n)
	}
	for i := 0; i < 900; i++ {
		if got[i] != i {
			t.Fatalf("steal order broken at %d: got %d", i, got[i])
		}
	}
	for i := 0; i < 100; i++ {
		if got[900+i] != n-1-i {
			t.Fatalf("pop order broken at %d: got %d", i, got[900+i])
		}
	}
}

// TestLocalQueue_ConcurrentOwnerAndThieves verifies conservation
// Given: One owner pushing and popping while several thieves steal
// When: All goroutines finish and the queue is drained
// Then: Every pushed task ran exactly once
func TestLocalQueue_ConcurrentOwnerAndThieves(t *testing.T) {
	q := NewLocalQueue()
	const total = 20000
	const thieves = 4

	seen := make([]atomic.Int32, total)
	var ran atomic.Int64
	makeTask := func(id int) Task {
		return func(ctx context.Context) {
			seen[id].Add(1)
			ran.Add(1)
		}
	}

	var stop atomic.Bool
	var g errgroup.Group

	g.Go(func() error {
		defer stop.Store(true)
		for i := 0; i < total; i++ {
			q.Push(makeTask(i))
			if i%3 == 0 {
				if task, ok := q.TryPop(); ok {
					task(context.Background())
				}
			}
		}
		return nil
	})

	for i := 0; i < thieves; i++ {
		g.Go(func() error {
			for !stop.Load() || !q.IsEmpty() {
				if task, ok := q.TrySteal(); ok {
					task(context.Background())
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	for {
		task, ok := q.TryPop()
		if !ok {
			break
		}
		task(context.Background())
	}

	if got := ran.Load(); got != total {
		t.Fatalf("ran %d tasks, want %d", got, total)
	}
	for i := range seen {
		if c := seen[i].Load(); c != 1 {
			t.Fatalf("task %d ran %d times", i, c)
		}
	}
}

// TestLocalQueue_LenUnderContention only checks Len stays within bounds
func TestLocalQueue_LenUnderContention(t *testing.T) {
	q := NewLocalQueue()
	noop := func(ctx context.Context) {}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			q.Push(noop)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if n := q.Len(); n < 0 || n > 1000 {
				t.Errorf("Len out of range: %d", n)
				return
			}
		}
	}()
	wg.Wait()

	if q.Len() != 1000 {
		t.Errorf("Len = %d, want 1000", q.Len())
	}
}
