package prometheus

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/Swind/go-workstealing/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// PoolSnapshotProvider provides current pool stats snapshots.
type PoolSnapshotProvider interface {
	Stats() core.PoolStats
}

// SnapshotPoller periodically exports pool Stats() snapshots into Prometheus gauges.
type SnapshotPoller struct {
	interval time.Duration

	poolsMu sync.RWMutex
	pools   map[string]PoolSnapshotProvider

	poolGlobalQueued *prom.GaugeVec
	poolLocalQueued  *prom.GaugeVec
	poolActive       *prom.GaugeVec
	poolExecuted     *prom.GaugeVec
	poolStolen       *prom.GaugeVec
	poolHelped       *prom.GaugeVec
	poolWorkers      *prom.GaugeVec
	poolRunning      *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	gauge := func(name, help string, labels ...string) *prom.GaugeVec {
		return prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "workstealing",
			Name:      name,
			Help:      help,
		}, labels)
	}

	p := &SnapshotPoller{
		interval:         interval,
		pools:            make(map[string]PoolSnapshotProvider),
		poolGlobalQueued: gauge("pool_global_queued", "Tasks waiting in the global queue.", "pool"),
		poolLocalQueued:  gauge("pool_local_queued", "Tasks waiting in a worker's local queue.", "pool", "worker"),
		poolActive:       gauge("pool_active", "Tasks currently executing.", "pool"),
		poolExecuted:     gauge("pool_executed_total", "Executed task count snapshot.", "pool"),
		poolStolen:       gauge("pool_stolen_total", "Stolen task count snapshot.", "pool"),
		poolHelped:       gauge("pool_helped_total", "Tasks run by RunPendingTask callers, snapshot.", "pool"),
		poolWorkers:      gauge("pool_workers", "Worker count per pool.", "pool"),
		poolRunning:      gauge("pool_running", "Pool running state (1=running, 0=stopped).", "pool"),
	}

	for _, c := range []**prom.GaugeVec{
		&p.poolGlobalQueued,
		&p.poolLocalQueued,
		&p.poolActive,
		&p.poolExecuted,
		&p.poolStolen,
		&p.poolHelped,
		&p.poolWorkers,
		&p.poolRunning,
	} {
		registered, err := registerCollector(reg, *c)
		if err != nil {
			return nil, err
		}
		*c = registered
	}

	return p, nil
}

// AddPool adds or replaces a pool snapshot provider by name.
func (p *SnapshotPoller) AddPool(name string, provider PoolSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "pool")
	p.poolsMu.Lock()
	p.pools[name] = provider
	p.poolsMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			// One last sample so short-lived pools are not lost.
			p.collectOnce()
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.poolsMu.RLock()
	defer p.poolsMu.RUnlock()

	for name, provider := range p.pools {
		stats := provider.Stats()
		p.poolGlobalQueued.WithLabelValues(name).Set(float64(stats.GlobalQueued))
		for i, n := range stats.LocalQueued {
			p.poolLocalQueued.WithLabelValues(name, strconv.Itoa(i)).Set(float64(n))
		}
		p.poolActive.WithLabelValues(name).Set(float64(stats.Active))
		p.poolExecuted.WithLabelValues(name).Set(float64(stats.Executed))
		p.poolStolen.WithLabelValues(name).Set(float64(stats.Stolen))
		p.poolHelped.WithLabelValues(name).Set(float64(stats.Helped))
		p.poolWorkers.WithLabelValues(name).Set(float64(stats.Workers))
		if stats.Running {
			p.poolRunning.WithLabelValues(name).Set(1)
		} else {
			p.poolRunning.WithLabelValues(name).Set(0)
		}
	}
}
