package engine

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
)

func testEngine(srv *httptest.Server, retries int) *HTTPEngine {
	return newHTTPEngine(srv.Client(), HTTPOptions{
		Timeout:   2 * time.Second,
		Retries:   retries,
		Delay:     time.Millisecond,
		UserAgent: "test-agent",
	})
}

func TestHTTPEngineSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><head><title> Audi TT RS </title></head><body>ok</body></html>"))
	}))
	defer srv.Close()

	res, err := testEngine(srv, 3).Fetch(context.Background(), &FetchRequest{URL: srv.URL})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Title != "Audi TT RS" {
		t.Errorf("Title = %q", res.Title)
	}
	if res.EngineName != "http" || res.StatusCode != 200 {
		t.Errorf("result = %+v", res)
	}
}

func TestHTTPEngineRetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>third time</html>"))
	}))
	defer srv.Close()

	res, err := testEngine(srv, 3).Fetch(context.Background(), &FetchRequest{URL: srv.URL})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.HTML != "<html>third time</html>" {
		t.Errorf("HTML = %q", res.HTML)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestHTTPEngineExhaustsRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testEngine(srv, 3).Fetch(context.Background(), &FetchRequest{URL: srv.URL})
	if err == nil {
		t.Fatal("expected error after retries")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestHTTPEngineAccessDeniedStopsImmediately(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testEngine(srv, 5).Fetch(context.Background(), &FetchRequest{URL: srv.URL})
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("err = %v, want ErrAccessDenied", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestHTTPEngineRejectsNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	if _, err := testEngine(srv, 1).Fetch(context.Background(), &FetchRequest{URL: srv.URL}); err == nil {
		t.Error("expected error for JSON response")
	}
}

func TestHTTPEngineDecodesBrotli(t *testing.T) {
	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	bw.Write([]byte("<html><title>br</title></html>"))
	bw.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("Content-Encoding", "br")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	res, err := testEngine(srv, 1).Fetch(context.Background(), &FetchRequest{URL: srv.URL})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Title != "br" {
		t.Errorf("Title = %q, want br", res.Title)
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<html><head><title>Hello</title></head></html>", "Hello"},
		{"<html><head></head></html>", ""},
		{"<title></title>", ""},
	}
	for _, tt := range tests {
		if got := extractTitle(tt.in); got != tt.want {
			t.Errorf("extractTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
