package ratelimit

import (
	"fmt"
	"time"

	"github.com/aman-churiwal/property-marketplace/internal/circuitbreaker"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type StoreConfig struct {
	Backend       string
	SweepInterval time.Duration
	Breaker       circuitbreaker.Config
}

// NewStore builds the counter store for cfg.Backend. The redis client is only required
// for the redis backend, whose store is wrapped in a circuit breaker.
func NewStore(cfg StoreConfig, client redis.Scripter, metrics *Metrics, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryStore(
			WithSweepInterval(cfg.SweepInterval),
			WithMetrics(metrics),
			WithLogger(logger),
		), nil
	case BackendRedis:
		if client == nil {
			return nil, fmt.Errorf("rate limit backend %q requires a redis client", cfg.Backend)
		}
		breakerCfg := cfg.Breaker
		if breakerCfg.Name == "" {
			breakerCfg.Name = "ratelimit-redis"
		}
		return WithBreaker(NewRedisStore(client), circuitbreaker.New(breakerCfg, logger)), nil
	default:
		return nil, fmt.Errorf("unknown rate limit backend: %s", cfg.Backend)
	}
}
