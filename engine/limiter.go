package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostLimiter enforces a minimum gap between fetches to the same host.
type HostLimiter struct {
	mu       sync.Mutex
	every    time.Duration
	limiters map[string]*rate.Limiter
}

// NewHostLimiter allows one fetch per host every interval. A non-positive
// interval disables limiting.
func NewHostLimiter(every time.Duration) *HostLimiter {
	return &HostLimiter{
		every:    every,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a fetch to host is allowed or ctx is done.
func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	if h.every <= 0 {
		return nil
	}
	return h.get(strings.ToLower(host)).Wait(ctx)
}

func (h *HostLimiter) get(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Every(h.every), 1)
		h.limiters[host] = l
	}
	return l
}
