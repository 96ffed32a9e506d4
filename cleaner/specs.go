package cleaner

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/carposter/models"
)

const (
	// maxLabelLen applies to label-like containers, whose text is noisier.
	maxLabelLen = 100

	// maxTitleLen is the longest page title trusted as a display name.
	maxTitleLen = 200
)

// SpecExtractor pulls label/value pairs and a photo from a vehicle page.
type SpecExtractor struct {
	noise *NoiseFilter
}

// NewSpecExtractor returns an extractor using the given noise filter, or the
// default filter when nil.
func NewSpecExtractor(noise *NoiseFilter) *SpecExtractor {
	if noise == nil {
		noise = DefaultNoiseFilter()
	}
	return &SpecExtractor{noise: noise}
}

// ExtractSpecs runs the default extractor.
func ExtractSpecs(rawHTML, pageURL, make, model string) models.VehicleSpecification {
	return NewSpecExtractor(nil).Extract(rawHTML, pageURL, make, model)
}

// Extract builds a specification from one vehicle page. Tables are read
// first, then definition lists, then label-like containers; a later label
// overwrites an earlier one. The photo is chosen before noise nodes are
// stripped. When the structured walk finds nothing, readable prose is
// scanned for "Label: value" lines with known labels.
func (e *SpecExtractor) Extract(rawHTML, pageURL, make, model string) models.VehicleSpecification {
	spec := models.NewVehicleSpecification(make, model)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return spec
	}

	spec.PhotoURL = SelectPhoto(doc, pageURL, spec.Make, spec.Model)
	stripNoiseNodes(doc)

	e.walkTables(doc, spec.Attributes)
	e.walkDefinitionLists(doc, spec.Attributes)
	e.walkLabelContainers(doc, spec.Attributes)

	if len(spec.Attributes) == 0 {
		for label, value := range e.ExtractProse(rawHTML, pageURL) {
			spec.Attributes[label] = value
		}
	}

	if name := refineDisplayName(doc, spec.Make); name != "" {
		spec.DisplayName = name
	}
	return spec
}

func (e *SpecExtractor) walkTables(doc *goquery.Document, attrs map[string]string) {
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		switch {
		case cells.Length() >= 2:
			e.add(attrs, cells.Eq(0).Text(), cells.Eq(1).Text())
		case cells.Length() == 1:
			if label, value, ok := strings.Cut(cells.Text(), ":"); ok {
				e.add(attrs, label, value)
			}
		}
	})
}

func (e *SpecExtractor) walkDefinitionLists(doc *goquery.Document, attrs map[string]string) {
	doc.Find("dl").Each(func(_ int, dl *goquery.Selection) {
		terms, descs := dl.Find("dt"), dl.Find("dd")
		n := min(terms.Length(), descs.Length())
		for i := 0; i < n; i++ {
			e.add(attrs, terms.Eq(i).Text(), descs.Eq(i).Text())
		}
	})
}

func (e *SpecExtractor) walkLabelContainers(doc *goquery.Document, attrs map[string]string) {
	labelLike(doc).Each(func(_ int, s *goquery.Selection) {
		label := collapseSpace(s.Text())
		if label == "" || utf8.RuneCountInString(label) >= maxLabelLen {
			return
		}
		next := s.Next()
		if next.Length() == 0 {
			return
		}
		e.add(attrs, label, next.Text())
	})
}

// add normalizes a pair and keeps it only when neither side is noise.
func (e *SpecExtractor) add(attrs map[string]string, label, value string) {
	label = strings.TrimSuffix(collapseSpace(label), ":")
	label = strings.TrimSpace(label)
	value = collapseSpace(value)
	if e.noise.IsNoise(label) || e.noise.IsNoise(value) {
		return
	}
	attrs[label] = value
}

// refineDisplayName returns the page title cut at the first "|" or "-" when
// it mentions the make and is short, or "".
func refineDisplayName(doc *goquery.Document, make string) string {
	title := collapseSpace(doc.Find("title").First().Text())
	if title == "" || utf8.RuneCountInString(title) >= maxTitleLen {
		return ""
	}
	if !strings.Contains(strings.ToLower(title), strings.ToLower(make)) {
		return ""
	}
	title, _, _ = strings.Cut(title, "|")
	title, _, _ = strings.Cut(title, "-")
	return strings.TrimSpace(title)
}
