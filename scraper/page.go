package scraper

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/carposter/engine"
	"github.com/use-agent/carposter/models"
	"github.com/ysmood/gson"
)

// Fetch renders req.URL in a fresh tab and returns the document markup.
//
// The catalog rejects sessions that land directly on a deep link, so the tab
// first loads the home page and waits HomeSettle. It then loads the target,
// waits for the DOM to settle (bounded by IdleTimeout; a timeout there is
// not an error) and waits RenderSettle for client-side rendering.
func (s *Scraper) Fetch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	browser, err := s.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewPosterError(models.ErrCodeBrowserCrash, "failed to open tab", err)
	}
	defer func() {
		if closeErr := page.Close(); closeErr != nil {
			slog.Debug("tab close failed", "error", closeErr)
		}
	}()

	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
	}
	if s.cfg.UserAgent != "" {
		_ = proto.NetworkSetUserAgentOverride{
			UserAgent:      s.cfg.UserAgent,
			AcceptLanguage: "en-US,en;q=0.9",
		}.Call(page)
	}

	headers := map[string]string{"Accept-Language": "en-US,en;q=0.9"}
	for k, v := range req.Headers {
		headers[k] = v
	}
	_ = proto.NetworkSetExtraHTTPHeaders{Headers: toHeadersMap(headers)}.Call(page)

	router := setupHijack(page, s.cfg.BlockedResourceTypes)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	if s.homeURL != "" && !sameURL(s.homeURL, req.URL) {
		if err := s.navigate(ctx, page, s.homeURL); err != nil {
			slog.Warn("home page warm-up failed, continuing to target", "url", s.homeURL, "error", err)
		} else if err := sleepCtx(ctx, s.cfg.HomeSettle); err != nil {
			return nil, categorizeError(err, "canceled during warm-up")
		}
	}

	if err := s.navigate(ctx, page, req.URL); err != nil {
		return nil, categorizeError(err, "navigation to target URL failed")
	}

	idleCtx, idleCancel := context.WithTimeout(ctx, s.cfg.IdleTimeout)
	if stableErr := page.Context(idleCtx).WaitDOMStable(500*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("page did not go quiet, proceeding with current DOM", "url", req.URL, "error", stableErr)
	}
	idleCancel()

	if err := sleepCtx(ctx, s.cfg.RenderSettle); err != nil {
		return nil, categorizeError(err, "canceled while rendering")
	}

	p := page.Context(ctx)
	rawHTML, htmlErr := p.HTML()
	if htmlErr != nil {
		return nil, categorizeError(htmlErr, "failed to extract page HTML")
	}

	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.URL
	}

	return &engine.FetchResult{
		HTML:     rawHTML,
		Title:    evalStringOrEmpty(p, `() => document.title`),
		FinalURL: finalURL,
	}, nil
}

// navigate loads u and waits for DOMContentLoaded within PageLoadTimeout.
func (s *Scraper) navigate(ctx context.Context, page *rod.Page, u string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.PageLoadTimeout)
	defer cancel()

	p := page.Context(navCtx)
	wait := p.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := p.Navigate(u); err != nil {
		return err
	}
	wait()
	return navCtx.Err()
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors.
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

func sameURL(a, b string) bool {
	return strings.TrimRight(a, "/") == strings.TrimRight(b, "/")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func categorizeError(err error, msg string) *models.PosterError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewPosterError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewPosterError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewPosterError(models.ErrCodeNavigation, msg, err)
	}
}
