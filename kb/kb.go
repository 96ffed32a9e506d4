// Package kb holds the built-in make/model specification table used when
// live catalog data is missing or incomplete.
package kb

import (
	"fmt"
	"os"
	"strings"

	"github.com/titanous/json5"
)

// Entry is one curated vehicle.
type Entry struct {
	Make       string            `json:"make"`
	Model      string            `json:"model"`
	Attributes map[string]string `json:"attributes"`
}

// KnowledgeBase is read-only after construction and safe for concurrent use.
type KnowledgeBase struct {
	entries []Entry
	generic map[string]string
}

// New builds a knowledge base over entries in priority order.
func New(entries []Entry, generic map[string]string) *KnowledgeBase {
	kb := &KnowledgeBase{generic: generic}
	for _, e := range entries {
		if normalize(e.Make) == "" || len(e.Attributes) == 0 {
			continue
		}
		kb.entries = append(kb.entries, e)
	}
	return kb
}

// Default returns the built-in table.
func Default() *KnowledgeBase {
	return New(builtin, genericSpecs)
}

// Lookup returns a copy of the best attributes for make/model. It never
// returns an empty map: the generic placeholders are the last resort.
func (kb *KnowledgeBase) Lookup(make, model string) map[string]string {
	if e, ok := kb.Match(make, model); ok {
		return clone(e.Attributes)
	}
	return clone(kb.generic)
}

// Match finds an entry by, in order: exact normalized key; same make with
// the model contained in either direction; make contained in either
// direction. Earlier entries win ties.
func (kb *KnowledgeBase) Match(make, model string) (Entry, bool) {
	mk, md := normalize(make), normalize(model)
	if mk == "" {
		return Entry{}, false
	}

	for _, e := range kb.entries {
		if normalize(e.Make) == mk && normalize(e.Model) == md {
			return e, true
		}
	}
	for _, e := range kb.entries {
		em := normalize(e.Model)
		if normalize(e.Make) == mk && (strings.Contains(em, md) || strings.Contains(md, em)) {
			return e, true
		}
	}
	for _, e := range kb.entries {
		ek := normalize(e.Make)
		if strings.Contains(ek, mk) || strings.Contains(mk, ek) {
			return e, true
		}
	}
	return Entry{}, false
}

// FirstModel returns the display model of the first entry for make.
func (kb *KnowledgeBase) FirstModel(make string) (string, bool) {
	mk := normalize(make)
	for _, e := range kb.entries {
		if normalize(e.Make) == mk {
			return e.Model, true
		}
	}
	return "", false
}

// Len reports the number of entries.
func (kb *KnowledgeBase) Len() int { return len(kb.entries) }

// WithEntries returns a new knowledge base with extra ahead of the
// existing entries.
func (kb *KnowledgeBase) WithEntries(extra []Entry) *KnowledgeBase {
	merged := make([]Entry, 0, len(extra)+len(kb.entries))
	merged = append(merged, extra...)
	merged = append(merged, kb.entries...)
	return New(merged, kb.generic)
}

// LoadFile reads entries from a JSON5 file: an array of
// {make, model, attributes} objects.
func LoadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("kb: read %s: %w", path, err)
	}
	var entries []Entry
	if err := json5.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("kb: parse %s: %w", path, err)
	}
	return entries, nil
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func clone(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
