package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsGate evaluates robots.txt rules, caching them per host. Errors while
// fetching or parsing the file allow the fetch.
type RobotsGate struct {
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	rules map[string]*robotstxt.RobotsData
}

// NewRobotsGate creates a gate that identifies itself as userAgent.
func NewRobotsGate(client *http.Client, userAgent string) *RobotsGate {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RobotsGate{
		client:    client,
		userAgent: userAgent,
		rules:     make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether target may be fetched.
func (g *RobotsGate) Allowed(ctx context.Context, target *url.URL) bool {
	rules, err := g.load(ctx, target)
	if err != nil {
		return true
	}
	return rules.TestAgent(target.EscapedPath(), g.userAgent)
}

func (g *RobotsGate) load(ctx context.Context, target *url.URL) (*robotstxt.RobotsData, error) {
	host := strings.ToLower(target.Host)

	g.mu.Lock()
	rules, ok := g.rules[host]
	g.mu.Unlock()
	if ok {
		return rules, nil
	}

	robotsURL := target.Scheme + "://" + target.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build robots request: %w", err)
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	rules, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	g.mu.Lock()
	g.rules[host] = rules
	g.mu.Unlock()
	return rules, nil
}
