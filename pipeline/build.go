package pipeline

import (
	"net/http"

	"github.com/use-agent/carposter/cache"
	"github.com/use-agent/carposter/catalog"
	"github.com/use-agent/carposter/cleaner"
	"github.com/use-agent/carposter/config"
	"github.com/use-agent/carposter/engine"
	"github.com/use-agent/carposter/imagefind"
	"github.com/use-agent/carposter/imagegen"
	"github.com/use-agent/carposter/kb"
	"github.com/use-agent/carposter/poster"
	"github.com/use-agent/carposter/scraper"
)

// pageCacheEntries bounds the per-pipeline page cache.
const pageCacheEntries = 256

// New builds a production pipeline from cfg. The browser is launched
// lazily on first use and shut down by Close.
func New(cfg *config.Config) (*Pipeline, error) {
	knowledge := kb.Default()
	if cfg.Catalog.KBFile != "" {
		extra, err := kb.LoadFile(cfg.Catalog.KBFile)
		if err != nil {
			return nil, err
		}
		knowledge = knowledge.WithEntries(extra)
	}

	renderer, err := poster.NewRenderer(cfg.Output.Dir)
	if err != nil {
		return nil, err
	}

	scr := scraper.NewScraper(cfg.Browser, cfg.Catalog.BaseURL+"/")
	closers := []func(){scr.Close}

	fast := engine.NewHTTPEngine(engine.HTTPOptions{
		Timeout:   cfg.Fetch.Timeout,
		Retries:   cfg.Fetch.Retries,
		Delay:     cfg.Fetch.Delay,
		UserAgent: cfg.Fetch.UserAgent,
	})
	slow := engine.NewRodEngine(scr.Fetch)

	dispatchOpts := []engine.DispatcherOption{
		engine.WithTimeout(cfg.Fetch.Timeout),
		engine.WithHostLimiter(engine.NewHostLimiter(cfg.Fetch.Delay)),
	}
	if cfg.Fetch.RespectRobots {
		robots := engine.NewRobotsGate(&http.Client{Timeout: cfg.Fetch.Timeout}, cfg.Fetch.UserAgent)
		dispatchOpts = append(dispatchOpts, engine.WithRobots(robots))
	}
	if cfg.Fetch.CacheTTL > 0 {
		pages := cache.New(pageCacheEntries, cfg.Fetch.CacheTTL)
		dispatchOpts = append(dispatchOpts, engine.WithCache(pages))
		closers = append(closers, pages.Close)
	}

	// Listing and search pages are plain HTML; vehicle pages often need
	// client-side rendering.
	listing := engine.NewDispatcher([]engine.Engine{fast, slow}, dispatchOpts...)
	detail := engine.NewDispatcher([]engine.Engine{slow, fast}, dispatchOpts...)

	noise := cleaner.NewNoiseFilter(cfg.Extract.NoiseMaxLen, cfg.Extract.NoisePatterns...)
	cat := catalog.New(cfg.Catalog.BaseURL, listing, detail, cleaner.NewSpecExtractor(noise))

	dl := imagefind.NewDownloader(cfg.Image.Timeout, cfg.Image.MinWidth, cfg.Image.MinHeight)
	gen := imagegen.NewClient(cfg.Image.OpenAIBaseURL, cfg.Image.OpenAIKey, 0)
	photos := imagefind.NewFinder(
		imagefind.NewCatalogSource(dl),
		imagefind.NewBingSource("", dl),
		imagefind.NewDuckDuckGoSource("", dl),
		imagefind.NewGeneratorSource(gen, dl),
	)

	return Assemble(Options{
		Catalog:        cat,
		Knowledge:      knowledge,
		Photos:         photos,
		Renderer:       renderer,
		DefaultModel:   cfg.Catalog.DefaultModel,
		ReferenceImage: cfg.Image.ReferenceImage,
		Closers:        closers,
	}), nil
}
