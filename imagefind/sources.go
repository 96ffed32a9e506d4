package imagefind

import (
	"context"
	"log/slog"

	"github.com/use-agent/carposter/imagegen"
)

// CatalogSource downloads the photo URL found on the catalog page.
type CatalogSource struct {
	dl *Downloader
}

func NewCatalogSource(dl *Downloader) *CatalogSource { return &CatalogSource{dl: dl} }

func (s *CatalogSource) Name() string { return "catalog" }

func (s *CatalogSource) Find(ctx context.Context, q Query) (*Photo, bool) {
	if q.CatalogURL == "" {
		return nil, false
	}
	return s.dl.firstDownload(ctx, s.Name(), []string{q.CatalogURL})
}

// Generator produces an image URL from a prompt.
type Generator interface {
	Enabled() bool
	Generate(ctx context.Context, prompt string, params imagegen.Params) (string, error)
}

// GeneratorSource asks an image generator for a studio shot and downloads
// the result. It is skipped when the generator has no credentials.
type GeneratorSource struct {
	gen Generator
	dl  *Downloader
}

func NewGeneratorSource(gen Generator, dl *Downloader) *GeneratorSource {
	return &GeneratorSource{gen: gen, dl: dl}
}

func (s *GeneratorSource) Name() string { return "generated" }

func (s *GeneratorSource) Find(ctx context.Context, q Query) (*Photo, bool) {
	if s.gen == nil || !s.gen.Enabled() {
		return nil, false
	}
	u, err := s.gen.Generate(ctx, imagegen.Prompt(q.Make, q.Model), imagegen.Params{})
	if err != nil {
		slog.Warn("imagefind: generation failed", "make", q.Make, "model", q.Model, "error", err)
		return nil, false
	}
	return s.dl.firstDownload(ctx, s.Name(), []string{u})
}
