//go:build !deadlock

// Package syncx selects the mutex implementation used by the scheduler queues.
// Build with -tags deadlock to get lock-order and timeout diagnostics.
package syncx

import "sync"

type Mutex = sync.Mutex
