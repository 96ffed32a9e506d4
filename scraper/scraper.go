package scraper

import (
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/use-agent/carposter/config"
	"github.com/use-agent/carposter/models"
)

// Scraper owns one browser process for the lifetime of a pipeline run. The
// browser is launched on first use, so runs that never reach the slow path
// never start Chrome. Fetches are serialised.
type Scraper struct {
	cfg     config.BrowserConfig
	homeURL string

	mu      sync.Mutex
	browser *rod.Browser
	closed  bool
}

// NewScraper creates a Scraper that warms up on homeURL before each target.
func NewScraper(cfg config.BrowserConfig, homeURL string) *Scraper {
	return &Scraper{cfg: cfg, homeURL: homeURL}
}

// ensureBrowser launches and connects the browser if needed. Callers hold s.mu.
func (s *Scraper) ensureBrowser() (*rod.Browser, error) {
	if s.closed {
		return nil, models.NewPosterError(models.ErrCodeBrowserCrash, "scraper is closed", nil)
	}
	if s.browser != nil {
		return s.browser, nil
	}

	l := launcher.New().
		Headless(s.cfg.Headless).
		NoSandbox(s.cfg.NoSandbox)

	if s.cfg.BrowserBin != "" {
		l = l.Bin(s.cfg.BrowserBin)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewPosterError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewPosterError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}
	s.browser = browser
	return browser, nil
}

// Close kills the browser process if one was started. Safe to call twice.
func (s *Scraper) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.browser == nil {
		return
	}
	if err := s.browser.Close(); err != nil {
		slog.Warn("browser close failed", "error", err)
	}
	s.browser = nil
	slog.Info("browser closed")
}
