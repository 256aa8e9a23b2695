// Package healthcheck probes the service's backing dependencies (database, redis) on
// an interval and on demand.
package healthcheck

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Probe returns nil when the dependency is reachable.
type Probe func(ctx context.Context) error

type Config struct {
	Interval    time.Duration // default 30s
	Timeout     time.Duration // per probe, default 2s
	MaxFailures int           // consecutive failures before unhealthy, default 1
}

type Checker struct {
	mu     sync.RWMutex
	names  []string
	probes map[string]Probe
	status map[string]*Status

	interval    time.Duration
	timeout     time.Duration
	maxFailures int
	logger      *zap.Logger
	now         func() time.Time

	lifecycle sync.Mutex
	stopChan  chan struct{}
	done      chan struct{}
	running   bool
}

func NewChecker(cfg Config, logger *zap.Logger) *Checker {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Checker{
		probes:      make(map[string]Probe),
		status:      make(map[string]*Status),
		interval:    cfg.Interval,
		timeout:     cfg.Timeout,
		maxFailures: cfg.MaxFailures,
		logger:      logger,
		now:         time.Now,
	}
}

// Register adds a named dependency. Dependencies start out healthy until probed.
func (c *Checker) Register(name string, probe Probe) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.probes[name]; !exists {
		c.names = append(c.names, name)
	}
	c.probes[name] = probe
	c.status[name] = &Status{Name: name, Healthy: true}
}

// Start runs an immediate check and then one every interval until Stop.
func (c *Checker) Start() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if c.running {
		return
	}
	c.running = true
	c.stopChan = make(chan struct{})
	c.done = make(chan struct{})

	c.CheckAll(context.Background())

	go func(stop <-chan struct{}, done chan<- struct{}) {
		defer close(done)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.CheckAll(context.Background())
			case <-stop:
				return
			}
		}
	}(c.stopChan, c.done)

	c.logger.Info("dependency health checks started", zap.Duration("interval", c.interval))
}

func (c *Checker) Stop() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if !c.running {
		return
	}
	close(c.stopChan)
	<-c.done
	c.running = false
}

// CheckAll probes every dependency concurrently and returns the aggregate.
func (c *Checker) CheckAll(ctx context.Context) HealthStatus {
	c.mu.RLock()
	probes := make(map[string]Probe, len(c.probes))
	for name, p := range c.probes {
		probes[name] = p
	}
	c.mu.RUnlock()

	var wg sync.WaitGroup
	for name, probe := range probes {
		wg.Add(1)
		go func(name string, probe Probe) {
			defer wg.Done()

			probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			c.record(name, probe(probeCtx))
		}(name, probe)
	}
	wg.Wait()

	return c.OverallHealth()
}

func (c *Checker) record(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	status, ok := c.status[name]
	if !ok {
		return
	}

	now := c.now()
	status.LastCheck = now

	if err == nil {
		status.LastSuccess = now
		status.FailureCount = 0
		status.LastError = ""
		if !status.Healthy {
			c.logger.Info("dependency recovered", zap.String("dependency", name))
			status.Healthy = true
		}
		return
	}

	status.LastFailure = now
	status.FailureCount++
	status.LastError = err.Error()
	if status.Healthy && status.FailureCount >= c.maxFailures {
		c.logger.Warn("dependency unhealthy",
			zap.String("dependency", name),
			zap.Int("failures", status.FailureCount),
			zap.Error(err),
		)
		status.Healthy = false
	}
}

// Statuses returns a copy of every dependency's state in registration order.
func (c *Checker) Statuses() []Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Status, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, *c.status[name])
	}
	return out
}

// OverallHealth is Healthy when every dependency is healthy, Unhealthy when none are
// and Degraded otherwise.
func (c *Checker) OverallHealth() HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	healthy := 0
	for _, s := range c.status {
		if s.Healthy {
			healthy++
		}
	}

	switch {
	case healthy == len(c.status):
		return Healthy
	case healthy == 0:
		return Unhealthy
	default:
		return Degraded
	}
}
