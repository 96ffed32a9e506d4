// Package catalog resolves a make and model query to a vehicle page on the
// catalog site and extracts its specification.
package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/use-agent/carposter/cleaner"
	"github.com/use-agent/carposter/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("carposter/catalog")

// minSimilarity is the Jaro-Winkler score a candidate needs to be preferred
// over the first listed candidate.
const minSimilarity = 0.88

// Fetcher returns page HTML, or false when the page could not be obtained.
type Fetcher interface {
	FetchHTML(ctx context.Context, rawURL string) (string, bool)
}

// Client talks to the catalog. Listing and search pages go through pages;
// vehicle detail pages go through details, which is expected to try the
// browser first.
type Client struct {
	base      string
	pages     Fetcher
	details   Fetcher
	extractor *cleaner.SpecExtractor
}

// New creates a Client for the catalog rooted at base.
func New(base string, pages, details Fetcher, extractor *cleaner.SpecExtractor) *Client {
	if extractor == nil {
		extractor = cleaner.NewSpecExtractor(nil)
	}
	return &Client{
		base:      strings.TrimRight(base, "/"),
		pages:     pages,
		details:   details,
		extractor: extractor,
	}
}

// BaseURL is the catalog root.
func (c *Client) BaseURL() string { return c.base }

// Models returns the candidates listed on the make's page.
func (c *Client) Models(ctx context.Context, make string) []models.ModelCandidate {
	pageURL := MakeURL(c.base, make)
	html, ok := c.pages.FetchHTML(ctx, pageURL)
	if !ok {
		return nil
	}
	cands := cleaner.ExtractModelLinks(html, pageURL, make)
	slog.Info("catalog: make listing", "make", make, "candidates", len(cands))
	return cands
}

// Search returns detail-page candidates for a free-text query.
func (c *Client) Search(ctx context.Context, query string) []models.ModelCandidate {
	pageURL := SearchURL(c.base, query)
	html, ok := c.pages.FetchHTML(ctx, pageURL)
	if !ok {
		return nil
	}
	cands := cleaner.ExtractSearchResults(html, pageURL)
	slog.Info("catalog: search", "query", query, "candidates", len(cands))
	return cands
}

// FindModel resolves query to a candidate page. It reads the make listing,
// falls back to search when the listing is empty, then to the known-URL
// table. Absence means nothing could be resolved.
func (c *Client) FindModel(ctx context.Context, make, query string) (models.ModelCandidate, bool) {
	ctx, span := tracer.Start(ctx, "catalog.FindModel")
	defer span.End()
	span.SetAttributes(attribute.String("make", make), attribute.String("query", query))

	make, query = strings.TrimSpace(make), strings.TrimSpace(query)

	cands := c.Models(ctx, make)
	if len(cands) == 0 && query != "" {
		cands = c.Search(ctx, strings.TrimSpace(make+" "+query))
	}

	if len(cands) > 0 {
		best := pickCandidate(cands, query)
		span.SetAttributes(attribute.String("resolved", best.URL), attribute.String("via", "listing"))
		return best, true
	}

	if cand, ok := c.known(make, query); ok {
		slog.Info("catalog: using known URL", "make", make, "model", query, "url", cand.URL)
		span.SetAttributes(attribute.String("resolved", cand.URL), attribute.String("via", "known"))
		return cand, true
	}

	span.SetStatus(codes.Error, "model not resolved")
	return models.ModelCandidate{}, false
}

// FetchSpecs fetches the detail page and extracts its specification.
// Absence means no HTML could be obtained; an extraction miss returns a
// specification with empty attributes.
func (c *Client) FetchSpecs(ctx context.Context, make, model, pageURL string) (models.VehicleSpecification, bool) {
	ctx, span := tracer.Start(ctx, "catalog.FetchSpecs")
	defer span.End()
	span.SetAttributes(attribute.String("make", make), attribute.String("model", model), attribute.String("url", pageURL))

	html, ok := c.details.FetchHTML(ctx, pageURL)
	if !ok {
		span.SetStatus(codes.Error, "page unavailable")
		return models.VehicleSpecification{}, false
	}

	spec := c.extractor.Extract(html, pageURL, make, model)
	span.SetAttributes(attribute.Int("attributes", len(spec.Attributes)))
	slog.Info("catalog: extracted specs", "url", pageURL, "attributes", len(spec.Attributes), "photo", spec.PhotoURL != "")
	return spec, true
}

// pickCandidate prefers a substring match on the display name, then the
// closest Jaro-Winkler match above minSimilarity, then the first candidate.
func pickCandidate(cands []models.ModelCandidate, query string) models.ModelCandidate {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return cands[0]
	}
	qCompact := strings.ReplaceAll(q, " ", "")

	for _, c := range cands {
		name := strings.ToLower(c.DisplayName)
		nameCompact := strings.ReplaceAll(name, " ", "")
		if nameCompact == "" {
			continue
		}
		if strings.Contains(name, q) || strings.Contains(nameCompact, qCompact) || strings.Contains(qCompact, nameCompact) {
			return c
		}
	}

	best, bestScore := cands[0], 0.0
	for _, c := range cands {
		score := matchr.JaroWinkler(strings.ToLower(c.DisplayName), q, false)
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore >= minSimilarity {
		return best
	}
	return cands[0]
}

// known returns a synthetic candidate from the known-URL table: an exact
// key first, then a same-make entry whose model overlaps the query.
func (c *Client) known(make, model string) (models.ModelCandidate, bool) {
	mk := strings.ToLower(strings.TrimSpace(make))
	md := strings.ToLower(strings.TrimSpace(model))

	for _, k := range knownURLs {
		if k.make == mk && k.model == md {
			return models.ModelCandidate{URL: c.base + k.path, DisplayName: displayFor(model, k.model)}, true
		}
	}
	for _, k := range knownURLs {
		if k.make != mk {
			continue
		}
		if md == "" || strings.Contains(k.model, md) || strings.Contains(md, k.model) {
			return models.ModelCandidate{URL: c.base + k.path, DisplayName: displayFor(model, k.model)}, true
		}
	}
	return models.ModelCandidate{}, false
}

func displayFor(query, stored string) string {
	if q := strings.TrimSpace(query); q != "" {
		return q
	}
	return strings.ToUpper(stored)
}
