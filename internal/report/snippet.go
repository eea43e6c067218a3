package report

import (
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// DefaultFormat is the snippet preset used when none is configured.
const DefaultFormat = "rust"

var presets = map[string]string{
	"rust":   `map.insert("{{.Letter}}".to_string(), {{.Percent}});`,
	"go":     `m["{{.Letter}}"] = {{.Percent}}`,
	"python": `freq["{{.Letter}}"] = {{.Percent}}`,
	"csv":    `{{.Letter}},{{.Count}},{{.Percent}}`,
}

// Formats lists the snippet preset names.
func Formats() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SnippetData is passed to a snippet template once per letter.
type SnippetData struct {
	Letter  string
	Count   int
	Percent string
	Value   float64
}

// Snippet renders one generated source line per letter.
type Snippet struct {
	name string
	tmpl *template.Template
}

// NewSnippet builds a snippet from a custom template, or from the named preset
// when text is empty.
func NewSnippet(format, text string) (*Snippet, error) {
	name := strings.ToLower(strings.TrimSpace(format))
	if text == "" {
		if name == "" {
			name = DefaultFormat
		}
		preset, ok := presets[name]
		if !ok {
			return nil, fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(Formats(), ", "))
		}
		text = preset
	} else {
		name = "custom"
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snippet template: %w", err)
	}
	return &Snippet{name: name, tmpl: tmpl}, nil
}

// Name returns the preset name, or "custom".
func (s *Snippet) Name() string {
	return s.name
}

// Line renders the snippet for a single letter.
func (s *Snippet) Line(letter rune, count int, pct float64) (string, error) {
	var b strings.Builder
	data := SnippetData{
		Letter:  string(letter),
		Count:   count,
		Percent: FormatPercent(pct),
		Value:   pct,
	}
	if err := s.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render snippet for %q: %w", letter, err)
	}
	return b.String(), nil
}

// FormatPercent renders pct with exactly two digits after the decimal point.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.2f", pct)
}
