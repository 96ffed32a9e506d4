package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/use-agent/carposter/cache"
)

type fakeEngine struct {
	name  string
	html  string
	err   error
	calls int
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Fetch(_ context.Context, req *FetchRequest) (*FetchResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &FetchResult{HTML: f.html, FinalURL: req.URL, EngineName: f.name}, nil
}

func TestDispatcherFallsThroughInOrder(t *testing.T) {
	httpEng := &fakeEngine{name: "http", err: ErrAccessDenied}
	browser := &fakeEngine{name: "browser", html: "<html>rendered</html>"}
	spare := &fakeEngine{name: "spare", html: "<html>spare</html>"}

	d := NewDispatcher([]Engine{httpEng, browser, spare})
	html, ok := d.FetchHTML(context.Background(), "https://example.com/car/1.html")

	if !ok || html != "<html>rendered</html>" {
		t.Fatalf("FetchHTML = %q, %v", html, ok)
	}
	if httpEng.calls != 1 || browser.calls != 1 || spare.calls != 0 {
		t.Errorf("calls http=%d browser=%d spare=%d", httpEng.calls, browser.calls, spare.calls)
	}
}

func TestDispatcherStopsAtFirstSuccess(t *testing.T) {
	first := &fakeEngine{name: "http", html: "<html>fast</html>"}
	second := &fakeEngine{name: "browser", html: "<html>slow</html>"}

	html, ok := NewDispatcher([]Engine{first, second}).FetchHTML(context.Background(), "https://example.com/")
	if !ok || html != "<html>fast</html>" {
		t.Fatalf("FetchHTML = %q, %v", html, ok)
	}
	if second.calls != 0 {
		t.Errorf("second engine called %d times", second.calls)
	}
}

func TestDispatcherAbsence(t *testing.T) {
	tests := []struct {
		name    string
		engines []Engine
		url     string
	}{
		{"all fail", []Engine{&fakeEngine{name: "a", err: errors.New("boom")}, &fakeEngine{name: "b", err: errors.New("boom")}}, "https://example.com/"},
		{"empty html", []Engine{&fakeEngine{name: "a", html: "   "}}, "https://example.com/"},
		{"no engines", nil, "https://example.com/"},
		{"relative url", []Engine{&fakeEngine{name: "a", html: "<html/>"}}, "/car/1.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if html, ok := NewDispatcher(tt.engines).FetchHTML(context.Background(), tt.url); ok || html != "" {
				t.Errorf("FetchHTML = %q, %v; want absence", html, ok)
			}
		})
	}
}

func TestDispatcherCache(t *testing.T) {
	c := cache.New(10, time.Minute)
	defer c.Close()
	eng := &fakeEngine{name: "http", html: "<html>cached</html>"}
	d := NewDispatcher([]Engine{eng}, WithCache(c))

	for i := 0; i < 3; i++ {
		if _, ok := d.FetchHTML(context.Background(), "https://example.com/a"); !ok {
			t.Fatal("fetch failed")
		}
	}
	if eng.calls != 1 {
		t.Errorf("engine calls = %d, want 1", eng.calls)
	}
}

func TestDispatcherRobots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	eng := &fakeEngine{name: "http", html: "<html>ok</html>"}
	d := NewDispatcher([]Engine{eng}, WithRobots(NewRobotsGate(srv.Client(), "carposter")))

	if _, ok := d.FetchHTML(context.Background(), srv.URL+"/private/page.html"); ok {
		t.Error("disallowed path was fetched")
	}
	if _, ok := d.FetchHTML(context.Background(), srv.URL+"/car/1.html"); !ok {
		t.Error("allowed path was not fetched")
	}
	if eng.calls != 1 {
		t.Errorf("engine calls = %d, want 1", eng.calls)
	}
}

func TestRobotsGateFailsOpen(t *testing.T) {
	g := NewRobotsGate(&http.Client{Timeout: 100 * time.Millisecond}, "carposter")
	u, _ := url.Parse("http://127.0.0.1:1/anything")
	if !g.Allowed(context.Background(), u) {
		t.Error("unreachable robots.txt should allow")
	}
}

func TestHostLimiterSpacesFetches(t *testing.T) {
	l := NewHostLimiter(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx, "example.com"); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("three fetches took %v, want at least ~100ms", elapsed)
	}

	start = time.Now()
	if err := l.Wait(ctx, "other.example.com"); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 40*time.Millisecond {
		t.Errorf("first fetch to a new host waited %v", elapsed)
	}
}

func TestHostLimiterDisabled(t *testing.T) {
	l := NewHostLimiter(0)
	start := time.Now()
	for i := 0; i < 5; i++ {
		l.Wait(context.Background(), "example.com")
	}
	if time.Since(start) > 20*time.Millisecond {
		t.Error("disabled limiter should not wait")
	}
}
