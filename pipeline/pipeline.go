// Package pipeline turns a make and optional model into a poster: resolve
// the specification, find a photo, pick a style and render.
package pipeline

import (
	"context"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/use-agent/carposter/imagefind"
	"github.com/use-agent/carposter/kb"
	"github.com/use-agent/carposter/models"
	"github.com/use-agent/carposter/report"
	"github.com/use-agent/carposter/style"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("carposter/pipeline")

// Where a specification came from.
const (
	SourceCatalog   = "catalog"
	SourceBackfill  = "catalog+kb"
	SourceKnowledge = "kb"
)

// Resolver is the catalog side of resolution.
type Resolver interface {
	Models(ctx context.Context, make string) []models.ModelCandidate
	FindModel(ctx context.Context, make, query string) (models.ModelCandidate, bool)
	FetchSpecs(ctx context.Context, make, model, pageURL string) (models.VehicleSpecification, bool)
}

// PhotoFinder runs the image waterfall.
type PhotoFinder interface {
	Find(ctx context.Context, q imagefind.Query) (*imagefind.Photo, bool)
}

// Renderer draws and saves a poster.
type Renderer interface {
	Render(spec models.VehicleSpecification, photo image.Image, profile *models.StyleProfile, outPath string) (string, error)
}

// Options wires a Pipeline. Catalog, Knowledge and Renderer are required;
// Photos may be nil to disable photo search.
type Options struct {
	Catalog   Resolver
	Knowledge *kb.KnowledgeBase
	Photos    PhotoFinder
	Renderer  Renderer

	// DefaultModel names the vehicle when none was requested and the
	// knowledge base has nothing for the make.
	DefaultModel string

	// ReferenceImage is the default style reference for Run.
	ReferenceImage string

	// Closers run on Close in order.
	Closers []func()
}

// Request is one poster job.
type Request struct {
	Make           string
	Model          string
	OutputPath     string
	ReferenceImage string
	SkipPhoto      bool
	WriteSheet     bool
}

// Result describes a finished job.
type Result struct {
	Specification models.VehicleSpecification
	Source        string
	OutputPath    string
	SheetPath     string
	PhotoSource   string
	Timing        models.TimingInfo
}

// Pipeline owns the collaborators of one invocation. It holds a browser
// session, so concurrent jobs should each use their own Pipeline.
type Pipeline struct {
	opts Options
}

// Assemble builds a Pipeline from explicit collaborators.
func Assemble(opts Options) *Pipeline {
	if opts.Knowledge == nil {
		opts.Knowledge = kb.Default()
	}
	if opts.DefaultModel == "" {
		opts.DefaultModel = "TT RS"
	}
	return &Pipeline{opts: opts}
}

// Close releases the browser and caches.
func (p *Pipeline) Close() {
	for _, c := range p.opts.Closers {
		c()
	}
	p.opts.Closers = nil
}

// Resolve returns the specification for make/model. Live catalog data is
// preferred; missing attributes are backfilled once from the knowledge
// base, and a total miss is answered from the knowledge base alone. Only
// an empty make is an error, reported before any I/O.
func (p *Pipeline) Resolve(ctx context.Context, make, model string) (*models.VehicleSpecification, error) {
	spec, _, err := p.resolve(ctx, make, model)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func (p *Pipeline) resolve(ctx context.Context, make, model string) (models.VehicleSpecification, string, error) {
	make, model = strings.TrimSpace(make), strings.TrimSpace(model)
	if make == "" {
		return models.VehicleSpecification{}, "", models.NewPosterError(models.ErrCodeInvalidInput, "make is required", nil)
	}

	ctx, span := tracer.Start(ctx, "pipeline.Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("make", make), attribute.String("model", model))

	spec, ok := p.live(ctx, make, model)
	source := SourceCatalog
	switch {
	case !ok:
		if model == "" {
			model = p.fallbackModel(make)
		}
		slog.Warn("catalog unavailable, using knowledge base", "make", make, "model", model)
		spec = models.NewVehicleSpecification(make, model)
		spec.Backfill(p.opts.Knowledge.Lookup(make, model))
		source = SourceKnowledge
	case !spec.HasAttributes():
		slog.Warn("no attributes extracted, backfilling", "make", spec.Make, "model", spec.Model)
		spec.Backfill(p.opts.Knowledge.Lookup(spec.Make, spec.Model))
		source = SourceBackfill
	}

	span.SetAttributes(attribute.String("source", source), attribute.Int("attributes", len(spec.Attributes)))
	slog.Info("resolved specification", "make", spec.Make, "model", spec.Model,
		"source", source, "attributes", len(spec.Attributes))
	return spec, source, nil
}

// live resolves through the catalog. With no model the make's first
// listed vehicle is used.
func (p *Pipeline) live(ctx context.Context, make, model string) (models.VehicleSpecification, bool) {
	if model != "" {
		cand, ok := p.opts.Catalog.FindModel(ctx, make, model)
		if !ok {
			return models.VehicleSpecification{}, false
		}
		return p.opts.Catalog.FetchSpecs(ctx, make, model, cand.URL)
	}

	cands := p.opts.Catalog.Models(ctx, make)
	if len(cands) == 0 {
		return models.VehicleSpecification{}, false
	}
	first := cands[0]
	return p.opts.Catalog.FetchSpecs(ctx, make, first.DisplayName, first.URL)
}

func (p *Pipeline) fallbackModel(make string) string {
	if m, ok := p.opts.Knowledge.FirstModel(make); ok {
		return m
	}
	return p.opts.DefaultModel
}

// Run resolves the vehicle, finds a photo, renders the poster and, when
// asked, writes the Markdown sheet next to it.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	ctx, span := tracer.Start(ctx, "pipeline.Run")
	defer span.End()

	start := time.Now()
	spec, source, err := p.resolve(ctx, req.Make, req.Model)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	resolved := time.Now()

	var photo image.Image
	res := &Result{Specification: spec, Source: source}
	if !req.SkipPhoto && p.opts.Photos != nil {
		q := imagefind.Query{Make: spec.Make, Model: spec.Model, CatalogURL: spec.PhotoURL}
		if found, ok := p.opts.Photos.Find(ctx, q); ok {
			photo = found.Image
			res.PhotoSource = found.Source
		}
	}
	imaged := time.Now()

	profile := p.profile(req.ReferenceImage)
	out, err := p.opts.Renderer.Render(spec, photo, profile, req.OutputPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	res.OutputPath = out

	if req.WriteSheet {
		sheet, err := report.WriteSheet(out, spec)
		if err != nil {
			slog.Warn("failed to write spec sheet", "poster", out, "error", err)
		} else {
			res.SheetPath = sheet
		}
	}

	done := time.Now()
	res.Timing = models.TimingInfo{
		TotalMs:   done.Sub(start).Milliseconds(),
		ResolveMs: resolved.Sub(start).Milliseconds(),
		ImageMs:   imaged.Sub(resolved).Milliseconds(),
		RenderMs:  done.Sub(imaged).Milliseconds(),
	}
	span.SetAttributes(attribute.String("output", out), attribute.String("photo_source", res.PhotoSource))
	return res, nil
}

// profile loads the style reference, falling back to the default theme.
func (p *Pipeline) profile(reference string) *models.StyleProfile {
	if reference == "" {
		reference = p.opts.ReferenceImage
	}
	if reference == "" {
		return nil
	}
	prof, err := style.FromReference(reference)
	if err != nil {
		slog.Warn("cannot load style reference, using default", "path", reference, "error", err)
		return nil
	}
	slog.Info("style from reference", "path", reference, "width", prof.Width, "height", prof.Height)
	return &prof
}
