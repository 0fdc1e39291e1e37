package core

import (
	"runtime"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// IdleConfig controls what a worker does when its search finds nothing.
type IdleConfig struct {
	// SpinCount is how many consecutive empty searches only yield the processor.
	SpinCount int `default:"64"`

	// InitialSleep is the first back-off sleep after spinning.
	InitialSleep time.Duration `default:"10us"`

	// MaxSleep caps the back-off sleep. A negative value disables sleeping,
	// so idle workers only ever yield.
	MaxSleep time.Duration `default:"500us"`
}

// IdleStrategy is per-worker state; it is not safe for concurrent use.
type IdleStrategy struct {
	cfg    IdleConfig
	misses int
	bo     *backoff.ExponentialBackOff
}

func NewIdleStrategy(cfg IdleConfig) *IdleStrategy {
	s := &IdleStrategy{cfg: cfg}
	if cfg.MaxSleep > 0 {
		if cfg.InitialSleep <= 0 || cfg.InitialSleep > cfg.MaxSleep {
			cfg.InitialSleep = cfg.MaxSleep
		}
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = cfg.InitialSleep
		bo.MaxInterval = cfg.MaxSleep
		bo.Multiplier = 2
		bo.RandomizationFactor = 0.2
		s.bo = bo
	}
	return s
}

// Idle is called after a search found no task.
func (s *IdleStrategy) Idle() {
	s.misses++
	if s.bo == nil || s.misses <= s.cfg.SpinCount {
		runtime.Gosched()
		return
	}
	time.Sleep(s.bo.NextBackOff())
}

// Reset is called after a task was found.
func (s *IdleStrategy) Reset() {
	if s.misses == 0 {
		return
	}
	s.misses = 0
	if s.bo != nil {
		s.bo.Reset()
	}
}
