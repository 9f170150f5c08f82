package handlers

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH
// ══════════════════════════════════════════════════════════════════════════════

// DefaultCheckTimeout bounds a single dependency check.
const DefaultCheckTimeout = 5 * time.Second

// HealthChecker reports the state of the service and its backing stores.
type HealthChecker interface {
	Check(ctx context.Context) HealthStatus
}

// CheckFunc probes one dependency. A non-nil error marks it down.
type CheckFunc func(ctx context.Context) error

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Healthy   bool                   `json:"healthy"`
	Message   string                 `json:"message"`
	Version   string                 `json:"version,omitempty"`
	Uptime    string                 `json:"uptime"`
	Timestamp time.Time              `json:"timestamp"`
	Catalog   any                    `json:"catalog,omitempty"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of one dependency check.
type CheckResult struct {
	Healthy  bool   `json:"healthy"`
	Message  string `json:"message"`
	Duration string `json:"duration"`
}

// ══════════════════════════════════════════════════════════════════════════════
// COMPOSITE HEALTH CHECKER
// ══════════════════════════════════════════════════════════════════════════════

// HealthOption configures a CompositeHealthChecker.
type HealthOption func(*CompositeHealthChecker)

// WithCheckTimeout overrides DefaultCheckTimeout.
func WithCheckTimeout(d time.Duration) HealthOption {
	return func(c *CompositeHealthChecker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCatalogStats adds the result of stats to every report.
func WithCatalogStats(stats func() any) HealthOption {
	return func(c *CompositeHealthChecker) { c.stats = stats }
}

// CompositeHealthChecker runs the registered dependency checks in parallel.
// The service is healthy when every check passes; with no checks registered
// (memory-only mode) it is always healthy.
type CompositeHealthChecker struct {
	mu      sync.RWMutex
	checks  map[string]CheckFunc
	started time.Time
	version string
	timeout time.Duration
	stats   func() any
}

// NewCompositeHealthChecker creates a checker reporting version.
func NewCompositeHealthChecker(version string, opts ...HealthOption) *CompositeHealthChecker {
	c := &CompositeHealthChecker{
		checks:  make(map[string]CheckFunc),
		started: time.Now(),
		version: version,
		timeout: DefaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddCheck registers check under name, replacing an earlier one.
func (c *CompositeHealthChecker) AddCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Check runs every check and aggregates the results.
func (c *CompositeHealthChecker) Check(ctx context.Context) HealthStatus {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	status := HealthStatus{
		Healthy:   true,
		Message:   "ok",
		Version:   c.version,
		Uptime:    time.Since(c.started).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
	}
	if c.stats != nil {
		status.Catalog = c.stats()
	}
	if len(checks) == 0 {
		return status
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	status.Checks = make(map[string]CheckResult, len(checks))
	for name, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := c.run(ctx, check)

			mu.Lock()
			status.Checks[name] = result
			mu.Unlock()
		}()
	}
	wg.Wait()

	var down []string
	for name, result := range status.Checks {
		if !result.Healthy {
			down = append(down, name)
		}
	}
	if len(down) > 0 {
		slices.Sort(down)
		status.Healthy = false
		status.Message = "degraded: " + strings.Join(down, ", ")
	}
	return status
}

func (c *CompositeHealthChecker) run(ctx context.Context, check CheckFunc) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := check(ctx)
	result := CheckResult{
		Healthy:  err == nil,
		Message:  "ok",
		Duration: time.Since(start).Round(time.Millisecond).String(),
	}
	if err != nil {
		result.Message = err.Error()
	}
	return result
}

// Pinger is a store that can verify its connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewPingCheck checks p with a ping.
func NewPingCheck(p Pinger) CheckFunc {
	return p.Ping
}
