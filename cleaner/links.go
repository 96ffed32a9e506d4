package cleaner

import (
	"net/url"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/carposter/models"
)

const (
	// maxLinkText rejects anchors whose text is a paragraph, not a name.
	maxLinkText = 150

	// MaxCandidates caps the candidates returned from one page.
	MaxCandidates = 100

	// detailSegment marks a vehicle detail page path.
	detailSegment = "/car/"

	// minMakeDepth is the path depth under /make/{make}/ that points at a model.
	minMakeDepth = 3

	// minNameLen drops single-character link texts such as series digits.
	minNameLen = 2
)

// ExtractModelLinks returns candidate model links from a make listing page.
// A link qualifies when it points at a vehicle detail page or sits deep
// enough under the make's own listing path. Results are de-duplicated by URL
// and then by display name, keeping the first occurrence. Names shorter than
// two characters are dropped.
func ExtractModelLinks(rawHTML, pageURL, make string) []models.ModelCandidate {
	makePath := "/make/" + NormalizeMakeSlug(make) + "/"
	return extractCandidates(rawHTML, pageURL, func(u *url.URL, text string) (string, bool) {
		if text == "" || utf8.RuneCountInString(text) > maxLinkText {
			return "", false
		}
		p := strings.ToLower(u.Path)
		if isDetailPath(p) {
			return text, true
		}
		if strings.Contains(p, makePath) && len(pathSegments(p)) >= minMakeDepth {
			return text, true
		}
		return "", false
	})
}

// ExtractSearchResults returns detail-page links from a search results page.
// Anchors without text get a name built from the last path segment.
func ExtractSearchResults(rawHTML, pageURL string) []models.ModelCandidate {
	return extractCandidates(rawHTML, pageURL, func(u *url.URL, text string) (string, bool) {
		if !isDetailPath(strings.ToLower(u.Path)) {
			return "", false
		}
		if utf8.RuneCountInString(text) > maxLinkText {
			text = ""
		}
		if text == "" {
			text = nameFromPath(u.Path)
		}
		return text, text != ""
	})
}

// NormalizeMakeSlug lowercases a make and joins its words with underscores,
// the form the catalog uses in listing paths.
func NormalizeMakeSlug(make string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(make)), " ", "_")
}

type acceptFunc func(u *url.URL, text string) (name string, ok bool)

func extractCandidates(rawHTML, pageURL string, accept acceptFunc) []models.ModelCandidate {
	result := []models.ModelCandidate{}

	base, err := url.Parse(pageURL)
	if err != nil {
		return result
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return result
	}
	stripNoiseNodes(doc)

	seenURL := make(map[string]struct{})
	seenName := make(map[string]struct{})
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return true
		}

		resolved, err := base.Parse(href)
		if err != nil || (resolved.Scheme != "http" && resolved.Scheme != "https") {
			return true
		}
		resolved.Fragment = ""
		absURL := resolved.String()
		if _, ok := seenURL[absURL]; ok {
			return true
		}

		name, ok := accept(resolved, collapseSpace(s.Text()))
		if !ok || utf8.RuneCountInString(name) < minNameLen {
			return true
		}
		seenURL[absURL] = struct{}{}

		key := strings.ToLower(name)
		if _, dup := seenName[key]; dup {
			return true
		}
		seenName[key] = struct{}{}

		result = append(result, models.ModelCandidate{URL: absURL, DisplayName: name})
		return len(result) < MaxCandidates
	})

	return result
}

func isDetailPath(p string) bool {
	return strings.Contains(p, detailSegment) && strings.Contains(p, ".html")
}

func pathSegments(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// nameFromPath turns ".../audi_tt_rs_coupe.html" into "audi tt rs coupe".
func nameFromPath(p string) string {
	name := strings.TrimSuffix(path.Base(p), ".html")
	name = strings.ReplaceAll(name, "_", " ")
	if name == "." || name == "/" {
		return ""
	}
	return collapseSpace(name)
}
