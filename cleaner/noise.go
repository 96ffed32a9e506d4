package cleaner

import (
	"strings"
	"unicode/utf8"
)

// DefaultNoiseMaxLen is the extraction length ceiling. Real labels and values
// are short; anything longer is almost always a stylesheet or script dump.
const DefaultNoiseMaxLen = 150

// noisePatterns are substrings that only appear in CSS, script, tracking or
// legal boilerplate. A real spec containing one is dropped too; that is an
// accepted false negative.
var noisePatterns = []string{
	// CSS properties
	"margin", "padding", "display", "font-", "color:", "border", "position",
	"background", "text-align", "overflow", "line-height", "z-index",
	"opacity", "visibility", "cursor", "transform", "transition", "animation",
	"flex", "grid", "outline", "list-style", "vertical-align", "white-space",
	"word-", "letter-spacing", "text-decoration", "text-transform", "box-",
	"float", "clear", "appearance",

	// selector, at-rule and unit syntax
	"{", "}", ";", "!important", "::", "@media", "@font", "url(",
	".h1", ".h2", ".h3", ".h4", "rem;", "rem}", "em;", "px;", "px}",
	"rgba", "rgb(", "hsl", "var(--",

	// script, stylesheet, tracking and consent markers
	"cloudflare", "javascript", "stylesheet", "recaptcha", "http://",
	"https://", ".css", ".js", ".php", "cookie", "captcha", "noscript",
	"doctype",
}

// NoiseFilter classifies text fragments as markup debris or content.
type NoiseFilter struct {
	// MaxLen is the rune ceiling above which text is always noise.
	MaxLen   int
	Patterns []string
}

// DefaultNoiseFilter returns the filter used for extraction.
func DefaultNoiseFilter() *NoiseFilter {
	return NewNoiseFilter(DefaultNoiseMaxLen)
}

// NewNoiseFilter builds a filter with the built-in denylist plus extra
// lowercase substrings.
func NewNoiseFilter(maxLen int, extra ...string) *NoiseFilter {
	if maxLen <= 0 {
		maxLen = DefaultNoiseMaxLen
	}
	patterns := make([]string, 0, len(noisePatterns)+len(extra))
	patterns = append(patterns, noisePatterns...)
	for _, p := range extra {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			patterns = append(patterns, p)
		}
	}
	return &NoiseFilter{MaxLen: maxLen, Patterns: patterns}
}

// IsNoise reports whether text is empty, too long, or contains a denylisted
// substring. It is pure and deterministic.
func (f *NoiseFilter) IsNoise(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return true
	}
	if utf8.RuneCountInString(t) > f.MaxLen {
		return true
	}
	for _, p := range f.Patterns {
		if strings.Contains(t, p) {
			return true
		}
	}
	return false
}

var defaultFilter = DefaultNoiseFilter()

// IsNoise classifies text with the default extraction filter.
func IsNoise(text string) bool {
	return defaultFilter.IsNoise(text)
}

// collapseSpace trims text and folds every whitespace run into one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
