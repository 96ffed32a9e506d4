package cleaner

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Compiled once; goquery accepts cascadia selectors as matchers.
var (
	strippedNodes = cascadia.MustCompile("style, script, noscript, meta, link")
	labelCarriers = cascadia.MustCompile("div[class], span[class], p[class]")
)

// labelClassPattern matches class names of containers that hold a spec label.
var labelClassPattern = regexp.MustCompile(`(?i)spec|param|label|data|value`)

// stripNoiseNodes removes style, script, noscript, meta and link elements.
func stripNoiseNodes(doc *goquery.Document) {
	doc.FindMatcher(strippedNodes).Remove()
}

// labelLike returns containers whose class suggests a specification label.
func labelLike(doc *goquery.Document) *goquery.Selection {
	return doc.FindMatcher(labelCarriers).FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		return labelClassPattern.MatchString(class)
	})
}
