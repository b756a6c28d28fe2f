// Package health reports liveness of the roster API and its backing
// services.
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger is anything that can confirm a dependency is reachable.
// pgxpool.Pool satisfies it directly.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a bare function to the Pinger interface.
type PingFunc func(ctx context.Context) error

// Ping calls f.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Checker aggregates named dependency checks behind one endpoint.
type Checker struct {
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.RWMutex
	checks map[string]Pinger
	order  []string
}

// New creates a Checker. timeout bounds each individual ping; zero
// means 5 seconds.
func New(timeout time.Duration, logger *zap.Logger) *Checker {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Checker{
		timeout: timeout,
		logger:  logger,
		checks:  make(map[string]Pinger),
	}
}

// Register adds a named dependency check. Registering the same name
// twice replaces the earlier pinger.
func (c *Checker) Register(name string, p Pinger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.checks[name]; !ok {
		c.order = append(c.order, name)
	}
	c.checks[name] = p
}

// Status is the result of one full pass over the registered checks.
type Status struct {
	Healthy bool              `json:"healthy"`
	Checks  map[string]string `json:"checks"`
}

// Check pings every registered dependency concurrently and reports the
// aggregate. Each ping is bounded by the configured timeout.
func (c *Checker) Check(ctx context.Context) Status {
	c.mu.RLock()
	names := make([]string, len(c.order))
	copy(names, c.order)
	pingers := make(map[string]Pinger, len(c.checks))
	for name, p := range c.checks {
		pingers[name] = p
	}
	c.mu.RUnlock()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		healthy = true
	)
	results := make(map[string]string, len(names))

	for _, name := range names {
		wg.Add(1)
		go func(name string, p Pinger) {
			defer wg.Done()

			pctx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			err := p.Ping(pctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				healthy = false
				results[name] = err.Error()
				return
			}
			results[name] = "ok"
		}(name, pingers[name])
	}
	wg.Wait()

	if !healthy {
		c.logger.Warn("health check failed", zap.Any("checks", results))
	}
	return Status{Healthy: healthy, Checks: results}
}

// Handler serves the aggregate health status: 200 when every check
// passes, 503 otherwise.
func (c *Checker) Handler() gin.HandlerFunc {
	return func(gc *gin.Context) {
		st := c.Check(gc.Request.Context())
		code := http.StatusOK
		if !st.Healthy {
			code = http.StatusServiceUnavailable
		}
		gc.JSON(code, st)
	}
}
