package poster

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/use-agent/carposter/cleaner"
	"github.com/use-agent/carposter/models"
)

const (
	MaxRowsWithPhoto = 5
	MaxRowsTextOnly  = 7

	// noiseMaxLen is stricter than extraction since rows must fit one line.
	noiseMaxLen = 120

	minLabelLen = 2
	maxLabelLen = 50
	maxValueLen = 100

	// truncateAt is the value length kept before "..." is appended.
	truncateAt = 42
)

// Row is one label/value line on the poster.
type Row struct {
	Label string
	Value string
}

var rowNoise = cleaner.NewNoiseFilter(noiseMaxLen, "content:")

// SelectSpecs picks up to limit rows from attrs. Canonical labels come first
// in display order; the remaining labels follow alphabetically. When several
// labels share a canonical label, one spelled exactly as the canonical label
// wins, otherwise the alphabetically first.
func SelectSpecs(attrs map[string]string, limit int) []Row {
	labels := make([]string, 0, len(attrs))
	for k := range attrs {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	clean := make(map[string]string, len(attrs))
	exact := make(map[string]bool, len(attrs))
	for _, k := range labels {
		v := attrs[k]
		if rowNoise.IsNoise(k) || rowNoise.IsNoise(v) {
			continue
		}
		key := strings.TrimSpace(k)
		isExact := true
		if canon, ok := models.CanonicalLabel(key); ok {
			isExact = canon == key
			key = canon
		}
		val := strings.TrimSpace(v)
		if n := utf8.RuneCountInString(key); n < minLabelLen || n > maxLabelLen {
			continue
		}
		if n := utf8.RuneCountInString(val); n < 1 || n > maxValueLen {
			continue
		}
		if _, taken := clean[key]; taken && (exact[key] || !isExact) {
			continue
		}
		clean[key] = val
		exact[key] = isExact
	}

	keys := make([]string, 0, len(clean))
	for k := range clean {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]Row, 0, limit)
	used := make(map[string]bool, len(keys))
	for _, target := range models.DisplayOrder {
		if len(rows) >= limit {
			return rows
		}
		tl := strings.ToLower(target)
		for _, k := range keys {
			kl := strings.ToLower(k)
			if !used[k] && (strings.Contains(kl, tl) || strings.Contains(tl, kl)) {
				rows = append(rows, Row{Label: target, Value: clean[k]})
				used[k] = true
				break
			}
		}
	}
	for _, k := range keys {
		if len(rows) >= limit {
			break
		}
		if !used[k] {
			rows = append(rows, Row{Label: k, Value: clean[k]})
			used[k] = true
		}
	}
	return rows
}

// truncate shortens s to truncateAt runes plus "...".
func truncate(s string) string {
	if utf8.RuneCountInString(s) <= truncateAt {
		return s
	}
	r := []rune(s)
	return string(r[:truncateAt]) + "..."
}
