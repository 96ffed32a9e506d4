package engine

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/use-agent/carposter/cache"
	"github.com/use-agent/carposter/fallback"
)

// Dispatcher fetches a page by trying its engines strictly in order. The
// first engine to return non-empty HTML wins; engines are never raced.
type Dispatcher struct {
	engines []Engine
	timeout time.Duration
	limiter *HostLimiter
	robots  *RobotsGate
	cache   *cache.Cache
}

// DispatcherOption customises a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithHostLimiter spaces out fetches to the same host.
func WithHostLimiter(l *HostLimiter) DispatcherOption {
	return func(d *Dispatcher) { d.limiter = l }
}

// WithRobots skips URLs disallowed by the host's robots.txt.
func WithRobots(r *RobotsGate) DispatcherOption {
	return func(d *Dispatcher) { d.robots = r }
}

// WithCache serves repeat fetches of a URL from c.
func WithCache(c *cache.Cache) DispatcherOption {
	return func(d *Dispatcher) { d.cache = c }
}

// WithTimeout sets the per-engine request timeout.
func WithTimeout(t time.Duration) DispatcherOption {
	return func(d *Dispatcher) { d.timeout = t }
}

// NewDispatcher creates a Dispatcher over engines, tried in the given order.
func NewDispatcher(engines []Engine, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{engines: engines}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FetchHTML returns the page markup, or false when no engine produced any.
// Failures never escape as errors; they are logged and become absence.
func (d *Dispatcher) FetchHTML(ctx context.Context, rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() {
		slog.Warn("dispatcher: invalid url", "url", rawURL)
		return "", false
	}

	if d.robots != nil && !d.robots.Allowed(ctx, u) {
		slog.Info("dispatcher: disallowed by robots.txt", "url", rawURL)
		return "", false
	}
	if d.cache != nil {
		if html, ok := d.cache.Get(rawURL); ok {
			slog.Debug("dispatcher: cache hit", "url", rawURL)
			return html, true
		}
	}
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx, u.Host); err != nil {
			return "", false
		}
	}

	req := &FetchRequest{URL: rawURL, Timeout: d.timeout}
	steps := make([]fallback.Step[*FetchRequest, *FetchResult], 0, len(d.engines))
	for _, eng := range d.engines {
		steps = append(steps, d.step(eng))
	}

	out := fallback.First(ctx, req, steps...)
	if !out.OK {
		slog.Warn("dispatcher: all engines failed", "url", rawURL)
		return "", false
	}

	slog.Info("dispatcher: fetched", "url", rawURL, "engine", out.Step, "bytes", len(out.Value.HTML))
	if d.cache != nil {
		d.cache.Set(rawURL, out.Value.HTML)
	}
	return out.Value.HTML, true
}

func (d *Dispatcher) step(eng Engine) fallback.Step[*FetchRequest, *FetchResult] {
	return fallback.Step[*FetchRequest, *FetchResult]{
		Name: eng.Name(),
		Try: func(ctx context.Context, req *FetchRequest) (*FetchResult, bool) {
			result, err := eng.Fetch(ctx, req)
			if err != nil {
				slog.Warn("engine failed, trying next", "engine", eng.Name(), "url", req.URL, "error", err)
				return nil, false
			}
			if result == nil || strings.TrimSpace(result.HTML) == "" {
				slog.Warn("engine returned empty page", "engine", eng.Name(), "url", req.URL)
				return nil, false
			}
			return result, true
		},
	}
}
