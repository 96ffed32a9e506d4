package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/carposter/config"
	"github.com/use-agent/carposter/models"
	"golang.org/x/time/rate"
)

const (
	visitorIdle = time.Hour
	sweepEvery  = 5 * time.Minute
)

type visitor struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// visitors holds one token bucket per caller.
type visitors struct {
	mu    sync.Mutex
	rps   rate.Limit
	burst int
	m     map[string]*visitor
}

func (v *visitors) allow(id string, now time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	vis, ok := v.m[id]
	if !ok {
		vis = &visitor{lim: rate.NewLimiter(v.rps, v.burst)}
		v.m[id] = vis
	}
	vis.lastSeen = now
	return vis.lim.AllowN(now, 1)
}

func (v *visitors) sweep(now time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for id, vis := range v.m {
		if now.Sub(vis.lastSeen) > visitorIdle {
			delete(v.m, id)
		}
	}
}

// RateLimit returns per-caller token-bucket middleware. Callers are
// identified by the key Auth stored, or by client IP without auth.
// Buckets idle for an hour are dropped.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	v := &visitors{
		rps:   rate.Limit(cfg.RequestsPerSecond),
		burst: max(cfg.Burst, 1),
		m:     make(map[string]*visitor),
	}

	go func() {
		ticker := time.NewTicker(sweepEvery)
		defer ticker.Stop()
		for now := range ticker.C {
			v.sweep(now)
		}
	}()

	return func(c *gin.Context) {
		id := c.GetString(ContextKey)
		if id == "" {
			id = c.ClientIP()
		}
		if !v.allow(id, time.Now()) {
			reject(c, http.StatusTooManyRequests, models.ErrCodeRateLimited,
				"rate limit exceeded, please slow down")
			return
		}
		c.Next()
	}
}
