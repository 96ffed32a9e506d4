package cleaner

import (
	"log/slog"
	nurl "net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/use-agent/carposter/models"
)

// maxProseLabel bounds the label half of a "Label: value" prose line.
const maxProseLabel = 40

// ExtractProse runs Readability on pages that carry their data in running
// text and returns "Label: value" lines whose label is a known spec label.
// Labels come back in canonical form. Failures yield an empty map.
func (e *SpecExtractor) ExtractProse(rawHTML, pageURL string) map[string]string {
	attrs := map[string]string{}

	parsedURL, err := nurl.Parse(pageURL)
	if err != nil {
		return attrs
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Debug("readability: extraction failed", "url", pageURL, "error", err)
		return attrs
	}

	for _, line := range proseLines(article.Content) {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		label, value = collapseSpace(label), collapseSpace(value)
		if utf8.RuneCountInString(label) > maxProseLabel {
			continue
		}
		canon, known := models.CanonicalLabel(label)
		if !known || e.noise.IsNoise(value) {
			continue
		}
		attrs[canon] = value
	}
	return attrs
}

// proseLines returns the text of each block element in the article body,
// split on embedded newlines.
func proseLines(articleHTML string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(articleHTML))
	if err != nil {
		return nil
	}
	var lines []string
	doc.Find("p, li, dd, td, h3, h4").Each(func(_ int, s *goquery.Selection) {
		for _, line := range strings.Split(s.Text(), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
	})
	return lines
}
