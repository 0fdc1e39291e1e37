// Package parallelsort implements a fork/join quicksort on the work-stealing pool.
//
// Every partition step submits the lower half as a task and sorts the upper
// half on the current goroutine, then waits for the lower half with
// core.Await. Recursion routinely creates more outstanding futures than
// there are workers; the cooperative wait is what lets it finish anyway.
package parallelsort

import (
	"context"
	"runtime"

	"golang.org/x/exp/constraints"

	workstealing "github.com/Swind/go-workstealing"
	"github.com/Swind/go-workstealing/core"
)

// ParallelQuickSort sorts input in non-decreasing order on a pool of threads
// workers built for this call, and returns the sorted slice. The input's
// backing array is reused, so input must not be used afterwards. A negative
// threads means runtime.GOMAXPROCS(0); zero is legal and sorts entirely on
// the calling goroutine through cooperative waiting.
//
// The sort is not stable and always pivots on the first element, so already
// sorted input takes quadratic time and linear recursion depth.
func ParallelQuickSort[T constraints.Ordered](input []T, threads int) []T {
	if len(input) == 0 {
		return input
	}
	if threads < 0 {
		threads = runtime.GOMAXPROCS(0)
	}

	pool := workstealing.NewThreadPool(threads)
	defer pool.Close()

	out, err := NewSorter[T](pool).Sort(context.Background(), input)
	if err != nil {
		// Only reachable if a task panicked; surface it like a sequential sort would.
		panic(err)
	}
	return out
}

// Sorter sorts slices using an existing executor.
type Sorter[T constraints.Ordered] struct {
	ex core.Executor
}

func NewSorter[T constraints.Ordered](ex core.Executor) *Sorter[T] {
	return &Sorter[T]{ex: ex}
}

// Sort sorts data in place and returns it. ctx must be the context of the
// calling task when Sort runs inside the pool, so that sub-problems land in
// the caller's local queue.
func (s *Sorter[T]) Sort(ctx context.Context, data []T) ([]T, error) {
	if len(data) == 0 {
		return data, nil
	}

	pivot := data[0]
	rest := data[1:]
	k := partition(rest, pivot)
	lower, higher := rest[:k], rest[k:]

	lowerFuture := core.SubmitWith(ctx, s.ex, s.Sort, lower)

	if _, err := s.Sort(ctx, higher); err != nil {
		// lowerFuture is left to finish on its own; nobody reads it.
		return nil, err
	}

	if _, err := core.Await(ctx, s.ex, lowerFuture); err != nil {
		return nil, err
	}

	// data is [pivot | lower' | higher']; shift lower' left over the pivot slot.
	copy(data[:k], lower)
	data[k] = pivot
	return data, nil
}

// partition moves every element < pivot to the front of s in one unstable
// pass and returns how many there are.
func partition[T constraints.Ordered](s []T, pivot T) int {
	i := 0
	for j := range s {
		if s[j] < pivot {
			s[i], s[j] = s[j], s[i]
			i++
		}
	}
	return i
}
