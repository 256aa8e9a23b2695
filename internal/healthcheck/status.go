package healthcheck

import "time"

// Status is the last known state of one dependency.
type Status struct {
	Name         string    `json:"name"`
	Healthy      bool      `json:"healthy"`
	LastCheck    time.Time `json:"lastCheck"`
	LastSuccess  time.Time `json:"lastSuccess,omitempty"`
	LastFailure  time.Time `json:"lastFailure,omitempty"`
	FailureCount int       `json:"failureCount"`
	LastError    string    `json:"lastError,omitempty"`
}

// HealthStatus is the aggregate over every registered dependency.
type HealthStatus int

const (
	Healthy HealthStatus = iota
	Degraded
	Unhealthy
)

func (h HealthStatus) String() string {
	switch h {
	case Healthy:
		return "healthy"
	case Degraded:
		return "degraded"
	case Unhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}
