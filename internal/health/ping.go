package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const defaultCheckTimeout = 2 * time.Second

// HealthPinger is implemented by components that can answer a health
// check. HealthPing returns nil when the component is usable.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}

// PingChecker calls a HealthPinger on an interval and caches the answer.
type PingChecker struct {
	name    string
	target  HealthPinger
	timeout time.Duration
	log     zerolog.Logger
	ok      atomic.Bool
}

// NewPingChecker reports unhealthy until the first successful ping. A
// non-positive timeout uses two seconds.
func NewPingChecker(name string, target HealthPinger, log zerolog.Logger, timeout time.Duration) *PingChecker {
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	return &PingChecker{name: name, target: target, timeout: timeout, log: log}
}

func (c *PingChecker) Name() string    { return c.name }
func (c *PingChecker) IsHealthy() bool { return c.ok.Load() }

func (c *PingChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.ping(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.ping(ctx)
		}
	}
}

func (c *PingChecker) ping(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.target.HealthPing(pingCtx); err != nil {
		c.ok.Store(false)
		c.log.Error().Err(err).Str("component", c.name).Msg("health ping failed")
		return
	}
	if !c.ok.Swap(true) {
		c.log.Info().Str("component", c.name).Msg("health ping ok")
	}
}
