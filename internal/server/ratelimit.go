package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiters keeps a token bucket per client address. Buckets refill at
// the configured per-minute rate with a burst of the same size.
type clientLimiters struct {
	mu        sync.Mutex
	perMinute int
	limiters  map[string]*rate.Limiter
}

func newClientLimiters(perMinute int) *clientLimiters {
	if perMinute <= 0 {
		perMinute = 30
	}
	return &clientLimiters{
		perMinute: perMinute,
		limiters:  make(map[string]*rate.Limiter),
	}
}

func (c *clientLimiters) allow(client string) bool {
	c.mu.Lock()
	lim, ok := c.limiters[client]
	if !ok {
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(c.perMinute)), c.perMinute)
		c.limiters[client] = lim
	}
	c.mu.Unlock()
	return lim.Allow()
}
