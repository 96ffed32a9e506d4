// Package webhook notifies callers when an API poster job finishes.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/use-agent/carposter/telemetry"
)

// Event types.
const (
	PosterCompleted = "poster.completed"
	PosterFailed    = "poster.failed"
)

// SignatureHeader carries "sha256=<hex>" of the body when a secret is set.
const SignatureHeader = "X-Carposter-Signature"

// Event is the payload sent to webhook endpoints.
type Event struct {
	Type      string `json:"type"`
	Make      string `json:"make"`
	Model     string `json:"model,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data"`
}

// NewEvent stamps an event with the current time.
func NewEvent(typ, make, model string, data any) *Event {
	return &Event{Type: typ, Make: make, Model: model, Timestamp: time.Now().Unix(), Data: data}
}

// Notifier delivers events with retries.
type Notifier struct {
	http *resty.Client

	// Delays are waited before each attempt; the first is usually zero.
	Delays []time.Duration
}

// NewNotifier returns a Notifier with a 10s per-attempt timeout and retry
// delays of 0, 1s, 5s and 30s.
func NewNotifier() *Notifier {
	c := resty.New().
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "Carposter-Webhook/1.0")
	telemetry.InstrumentResty(c, "carposter/webhook")
	return &Notifier{
		http:   c,
		Delays: []time.Duration{0, time.Second, 5 * time.Second, 30 * time.Second},
	}
}

// Sign returns the signature header value for body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Deliver sends one event synchronously. Any status of 400 or above is an error.
func (n *Notifier) Deliver(ctx context.Context, url, secret string, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}

	req := n.http.R().SetContext(ctx).SetBody(body)
	if secret != "" {
		req.SetHeader(SignatureHeader, Sign(secret, body))
	}
	resp, err := req.Post(url)
	if err != nil {
		return fmt.Errorf("webhook: deliver: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("webhook: endpoint returned status %d", resp.StatusCode())
	}
	return nil
}

// DeliverAsync sends event in the background, retrying per Delays. The
// returned channel is closed once delivery succeeds or gives up.
func (n *Notifier) DeliverAsync(url, secret string, event *Event) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for attempt, delay := range n.Delays {
			if delay > 0 {
				time.Sleep(delay)
			}
			err := n.Deliver(context.Background(), url, secret, event)
			if err == nil {
				slog.Info("webhook delivered", "url", url, "event", event.Type, "attempt", attempt+1)
				return
			}
			slog.Warn("webhook delivery failed",
				"url", url,
				"event", event.Type,
				"attempt", attempt+1,
				"error", err,
			)
		}
		slog.Error("webhook delivery exhausted all retries", "url", url, "event", event.Type)
	}()
	return done
}
