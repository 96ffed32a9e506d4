// Package imagefind acquires a hero photo for a vehicle through an ordered
// waterfall of sources: the catalog photo, two image-search backends and,
// last, an image generator.
package imagefind

import (
	"context"
	"image"
	"log/slog"

	"github.com/use-agent/carposter/fallback"
)

// Query identifies the vehicle to find a photo for.
type Query struct {
	Make       string
	Model      string
	CatalogURL string
}

// Photo is a decoded image that passed size validation.
type Photo struct {
	Image  image.Image
	Source string
	URL    string
}

// Source is one step of the waterfall. Find returns false for "nothing
// usable here"; errors stay inside the source.
type Source interface {
	Name() string
	Find(ctx context.Context, q Query) (*Photo, bool)
}

// Finder drives its sources strictly in order and stops at the first photo.
type Finder struct {
	sources []Source
}

// NewFinder creates a Finder over sources in waterfall order.
func NewFinder(sources ...Source) *Finder {
	return &Finder{sources: sources}
}

// Find returns the first photo produced by any source, or false when all
// sources came up empty.
func (f *Finder) Find(ctx context.Context, q Query) (*Photo, bool) {
	steps := make([]fallback.Step[Query, *Photo], 0, len(f.sources))
	for _, src := range f.sources {
		steps = append(steps, fallback.Step[Query, *Photo]{
			Name: src.Name(),
			Try: func(ctx context.Context, q Query) (*Photo, bool) {
				p, ok := src.Find(ctx, q)
				return p, ok && p != nil && p.Image != nil
			},
		})
	}

	out := fallback.First(ctx, q, steps...)
	if !out.OK {
		slog.Info("imagefind: no photo found", "make", q.Make, "model", q.Model)
		return nil, false
	}
	slog.Info("imagefind: photo found", "source", out.Step, "url", out.Value.URL,
		"width", out.Value.Image.Bounds().Dx(), "height", out.Value.Image.Bounds().Dy())
	return out.Value, true
}

// searchQuery is the text sent to the image-search backends.
func searchQuery(q Query) string {
	return q.Make + " " + q.Model + " car photo HD"
}
