// Package report renders a vehicle specification as a Markdown sheet or a
// terminal table.
package report

import (
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/use-agent/carposter/cleaner"
	"github.com/use-agent/carposter/models"
)

var mdConverter = cleaner.NewMarkdownConverter()

// Line is one label/value pair in report order.
type Line struct {
	Label string
	Value string
}

// Lines returns the attributes with canonical labels in display order
// first, then everything else alphabetically.
func Lines(spec models.VehicleSpecification) []Line {
	rank := make(map[string]int, len(models.DisplayOrder))
	for i, l := range models.DisplayOrder {
		rank[l] = i
	}

	lines := make([]Line, 0, len(spec.Attributes))
	for k, v := range spec.Attributes {
		label := k
		if canon, ok := models.CanonicalLabel(k); ok {
			label = canon
		}
		lines = append(lines, Line{Label: label, Value: v})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		ri, iok := rank[lines[i].Label]
		rj, jok := rank[lines[j].Label]
		switch {
		case iok && jok:
			if ri != rj {
				return ri < rj
			}
			return lines[i].Value < lines[j].Value
		case iok != jok:
			return iok
		}
		if lines[i].Label != lines[j].Label {
			return lines[i].Label < lines[j].Label
		}
		return lines[i].Value < lines[j].Value
	})
	return lines
}

// Markdown renders spec as a Markdown document with a spec table.
func Markdown(spec models.VehicleSpecification) (string, error) {
	var b strings.Builder
	title := spec.DisplayName
	if title == "" {
		title = models.DefaultDisplayName(spec.Make, spec.Model)
	}
	fmt.Fprintf(&b, "<h1>%s</h1>", html.EscapeString(title))
	if spec.PhotoURL != "" {
		fmt.Fprintf(&b, `<p><a href="%s">Photo</a></p>`, html.EscapeString(spec.PhotoURL))
	}

	b.WriteString("<table><thead><tr><th>Specification</th><th>Value</th></tr></thead><tbody>")
	for _, l := range Lines(spec) {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td></tr>", html.EscapeString(l.Label), html.EscapeString(l.Value))
	}
	b.WriteString("</tbody></table>")

	md, err := cleaner.ToMarkdown(mdConverter, b.String(), "")
	if err != nil {
		return "", fmt.Errorf("convert sheet: %w", err)
	}
	return strings.TrimSpace(md) + "\n", nil
}

// SheetPath returns the Markdown path that accompanies a poster.
func SheetPath(posterPath string) string {
	return strings.TrimSuffix(posterPath, filepath.Ext(posterPath)) + ".md"
}

// WriteSheet writes the Markdown sheet next to posterPath and returns its path.
func WriteSheet(posterPath string, spec models.VehicleSpecification) (string, error) {
	md, err := Markdown(spec)
	if err != nil {
		return "", err
	}
	path := SheetPath(posterPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// WriteTable prints spec as a table.
func WriteTable(w io.Writer, spec models.VehicleSpecification) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(spec.DisplayName)
	t.AppendHeader(table.Row{"Specification", "Value"})
	for _, l := range Lines(spec) {
		t.AppendRow(table.Row{l.Label, l.Value})
	}
	if spec.PhotoURL != "" {
		t.AppendFooter(table.Row{"Photo", spec.PhotoURL})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
