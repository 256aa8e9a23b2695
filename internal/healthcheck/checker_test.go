package healthcheck

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error { return nil }
func down(context.Context) error { return errors.New("connection refused") }

func TestCheckAllAggregates(t *testing.T) {
	c := NewChecker(Config{}, nil)
	c.Register("database", ok)
	c.Register("redis", ok)
	assert.Equal(t, Healthy, c.CheckAll(context.Background()))

	c.Register("redis", down)
	assert.Equal(t, Degraded, c.CheckAll(context.Background()))

	c.Register("database", down)
	assert.Equal(t, Unhealthy, c.CheckAll(context.Background()))
}

func TestStatusesKeepRegistrationOrder(t *testing.T) {
	c := NewChecker(Config{}, nil)
	c.Register("database", ok)
	c.Register("redis", down)
	c.CheckAll(context.Background())

	statuses := c.Statuses()
	require.Len(t, statuses, 2)
	assert.Equal(t, "database", statuses[0].Name)
	assert.True(t, statuses[0].Healthy)
	assert.Equal(t, "redis", statuses[1].Name)
	assert.False(t, statuses[1].Healthy)
	assert.Equal(t, "connection refused", statuses[1].LastError)
}

func TestMaxFailuresThreshold(t *testing.T) {
	c := NewChecker(Config{MaxFailures: 3}, nil)
	c.Register("redis", down)

	assert.Equal(t, Healthy, c.CheckAll(context.Background()))
	assert.Equal(t, Healthy, c.CheckAll(context.Background()))
	assert.Equal(t, Unhealthy, c.CheckAll(context.Background()))

	c.Register("redis", ok)
	assert.Equal(t, Healthy, c.CheckAll(context.Background()))
}

func TestProbeTimeout(t *testing.T) {
	c := NewChecker(Config{Timeout: 10 * time.Millisecond}, nil)
	c.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	assert.Equal(t, Unhealthy, c.CheckAll(context.Background()))
}

func TestStartProbesImmediatelyAndStops(t *testing.T) {
	var calls atomic.Int32
	c := NewChecker(Config{Interval: time.Hour}, nil)
	c.Register("database", func(context.Context) error {
		calls.Add(1)
		return nil
	})

	c.Start()
	c.Start()
	assert.Equal(t, int32(1), calls.Load())

	c.Stop()
	c.Stop()
}
