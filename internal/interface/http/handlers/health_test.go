package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCompositeHealthChecker_AllHealthy(t *testing.T) {
	c := NewCompositeHealthChecker("1.0.0")
	c.AddCheck("postgres", NewPingCheck(pingerFunc(func(context.Context) error { return nil })))
	c.AddCheck("redis", func(context.Context) error { return nil })

	status := c.Check(context.Background())

	assert.True(t, status.Healthy)
	assert.Equal(t, "ok", status.Message)
	assert.Equal(t, "1.0.0", status.Version)
	assert.Len(t, status.Checks, 2)
	assert.Equal(t, "ok", status.Checks["postgres"].Message)
}

func TestCompositeHealthChecker_ReportsFailures(t *testing.T) {
	c := NewCompositeHealthChecker("1.0.0")
	c.AddCheck("redis", func(context.Context) error { return errors.New("dial tcp: refused") })
	c.AddCheck("postgres", func(context.Context) error { return errors.New("timeout") })
	c.AddCheck("engine", func(context.Context) error { return nil })

	status := c.Check(context.Background())

	assert.False(t, status.Healthy)
	assert.Equal(t, "degraded: postgres, redis", status.Message)
	require.Contains(t, status.Checks, "redis")
	assert.Equal(t, "dial tcp: refused", status.Checks["redis"].Message)
	assert.True(t, status.Checks["engine"].Healthy)
}

func TestCompositeHealthChecker_Timeout(t *testing.T) {
	c := NewCompositeHealthChecker("1.0.0", WithCheckTimeout(20*time.Millisecond))
	c.AddCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	status := c.Check(context.Background())

	assert.False(t, status.Healthy)
	assert.Contains(t, status.Checks["slow"].Message, "deadline")
}

func TestCompositeHealthChecker_MemoryOnly(t *testing.T) {
	type counts struct{ Films int }
	c := NewCompositeHealthChecker("1.0.0", WithCatalogStats(func() any { return counts{Films: 3} }))

	status := c.Check(context.Background())

	assert.True(t, status.Healthy)
	assert.Empty(t, status.Checks)
	assert.Equal(t, counts{Films: 3}, status.Catalog)
}
