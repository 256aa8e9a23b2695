package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultSweepInterval = 5 * time.Minute

// MemoryStore keeps window counters in process memory. State is lost on restart and is
// not shared between instances.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record

	now      func() time.Time
	interval time.Duration
	logger   *zap.Logger
	metrics  *Metrics

	lifecycle sync.Mutex
	stopChan  chan struct{}
	done      chan struct{}
	running   bool
}

type MemoryOption func(*MemoryStore)

func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryStore) {
		m.now = now
	}
}

func WithSweepInterval(interval time.Duration) MemoryOption {
	return func(m *MemoryStore) {
		if interval > 0 {
			m.interval = interval
		}
	}
}

func WithLogger(logger *zap.Logger) MemoryOption {
	return func(m *MemoryStore) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithMetrics(metrics *Metrics) MemoryOption {
	return func(m *MemoryStore) {
		m.metrics = metrics
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		records:  make(map[string]*Record),
		now:      time.Now,
		interval: DefaultSweepInterval,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryStore) Take(_ context.Context, key string, policy Policy) (Decision, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[key]
	if !ok || rec.Expired(now) {
		rec = &Record{Count: 1, ResetAt: now.Add(policy.Window)}
		m.records[key] = rec
		return decide(true, rec.Count, rec.ResetAt, policy), nil
	}

	if rec.Count < policy.MaxRequests {
		rec.Count++
		return decide(true, rec.Count, rec.ResetAt, policy), nil
	}

	return decide(false, rec.Count, rec.ResetAt, policy), nil
}

// Get returns a copy of the record stored under key.
func (m *MemoryStore) Get(key string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[key]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Sweep deletes every expired record and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	now := m.now()

	m.mu.Lock()
	removed := 0
	for key, rec := range m.records {
		if rec.Expired(now) {
			delete(m.records, key)
			removed++
		}
	}
	remaining := len(m.records)
	m.mu.Unlock()

	m.metrics.setRecords(remaining)
	return removed
}

// Start launches the background sweeper. Calling Start on a running store is a no-op.
func (m *MemoryStore) Start() {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	if m.running {
		return
	}
	m.running = true
	m.stopChan = make(chan struct{})
	m.done = make(chan struct{})

	go m.sweepLoop(m.stopChan, m.done)

	m.logger.Info("rate limit sweeper started", zap.Duration("interval", m.interval))
}

// Stop halts the sweeper and waits for it to exit.
func (m *MemoryStore) Stop() {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	if !m.running {
		return
	}
	close(m.stopChan)
	<-m.done
	m.running = false

	m.logger.Info("rate limit sweeper stopped")
}

func (m *MemoryStore) sweepLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := m.Sweep(); removed > 0 {
				m.logger.Debug("swept expired rate limit records", zap.Int("removed", removed))
			}
		case <-stop:
			return
		}
	}
}
