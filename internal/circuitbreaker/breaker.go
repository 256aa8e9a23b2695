// Package circuitbreaker stops calling a failing dependency for a cool-down period so
// callers can degrade immediately instead of waiting on timeouts.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var ErrOpen = errors.New("circuit breaker is open")

type State int

const (
	// StateClosed lets calls through.
	StateClosed State = iota
	// StateOpen rejects calls until the cool-down elapses.
	StateOpen
	// StateHalfOpen lets trial calls through to probe recovery.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name so snapshots read well in health responses.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Config struct {
	Name            string
	MaxFailures     int           // consecutive failures before opening, default 5
	OpenTimeout     time.Duration // time spent open before a trial call, default 30s
	HalfOpenSuccess int           // trial successes needed to close, default 1
}

type CircuitBreaker struct {
	mu              sync.Mutex
	state           State
	failures        int
	successes       int
	openedAt        time.Time
	lastStateChange time.Time

	name            string
	maxFailures     int
	openTimeout     time.Duration
	halfOpenSuccess int

	now    func() time.Time
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *CircuitBreaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.HalfOpenSuccess <= 0 {
		cfg.HalfOpenSuccess = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CircuitBreaker{
		state:           StateClosed,
		name:            cfg.Name,
		maxFailures:     cfg.MaxFailures,
		openTimeout:     cfg.OpenTimeout,
		halfOpenSuccess: cfg.HalfOpenSuccess,
		lastStateChange: time.Now(),
		now:             time.Now,
		logger:          logger,
	}
}

// Call runs fn unless the breaker is open, in which case it returns ErrOpen without
// calling fn.
func (cb *CircuitBreaker) Call(fn func() error) error {
	if !cb.allow() {
		return ErrOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.onFailure()
		return err
	}
	cb.onSuccess()
	return nil
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateOpen {
		return true
	}
	if cb.now().Sub(cb.openedAt) < cb.openTimeout {
		return false
	}

	cb.setState(StateHalfOpen)
	cb.successes = 0
	return true
}

func (cb *CircuitBreaker) onFailure() {
	cb.failures++

	switch {
	case cb.state == StateHalfOpen:
		cb.open()
	case cb.state == StateClosed && cb.failures >= cb.maxFailures:
		cb.open()
	}
}

func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.halfOpenSuccess {
			cb.setState(StateClosed)
			cb.failures = 0
		}
	case StateClosed:
		cb.failures = 0
	}
}

func (cb *CircuitBreaker) open() {
	cb.openedAt = cb.now()
	cb.successes = 0
	cb.setState(StateOpen)
}

func (cb *CircuitBreaker) setState(state State) {
	if cb.state == state {
		return
	}

	cb.logger.Warn("circuit breaker state change",
		zap.String("breaker", cb.name),
		zap.Stringer("from", cb.state),
		zap.Stringer("to", state),
		zap.Int("failures", cb.failures),
	)
	cb.state = state
	cb.lastStateChange = cb.now()
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

type Snapshot struct {
	State           State     `json:"state"`
	Failures        int       `json:"failures"`
	LastStateChange time.Time `json:"lastStateChange"`
}

func (cb *CircuitBreaker) Snapshot() Snapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return Snapshot{
		State:           cb.state,
		Failures:        cb.failures,
		LastStateChange: cb.lastStateChange,
	}
}
