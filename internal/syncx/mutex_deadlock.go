//go:build deadlock

package syncx

import (
	"time"

	"github.com/sasha-s/go-deadlock"
)

func init() {
	// No lock in this module is held while a task runs.
	deadlock.Opts.DeadlockTimeout = 10 * time.Second
}

type Mutex = deadlock.Mutex
