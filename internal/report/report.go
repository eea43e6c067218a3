// Package report renders tally results as text and generated source lines.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/letterfreq/internal/tally"
)

// RenderCounts prints the raw counts mapping in alphabet order.
func RenderCounts(w io.Writer, counts tally.Counts) error {
	parts := make([]string, 0, tally.LetterCount)
	for i, letter := range tally.Letters() {
		parts = append(parts, fmt.Sprintf("'%c': %d", letter, counts.Letters[i]))
	}
	_, err := fmt.Fprintf(w, "{%s}\n", strings.Join(parts, ", "))
	return err
}

// RenderSnippets prints one generated line per letter in alphabet order.
// Nothing is written when the tally is empty.
func RenderSnippets(w io.Writer, counts tally.Counts, snippet *Snippet) error {
	lines, err := SnippetLines(counts, snippet)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// SnippetLines renders the generated lines without writing them.
func SnippetLines(counts tally.Counts, snippet *Snippet) ([]string, error) {
	pcts, err := counts.Percentages()
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, tally.LetterCount)
	for i, letter := range tally.Letters() {
		line, err := snippet.Line(letter, counts.Letters[i], pcts[i])
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// RenderSummary prints totals for a tally.
func RenderSummary(w io.Writer, counts tally.Counts) error {
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Characters: %d\n", counts.Total); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Letters: %d\n", counts.Sum()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Skipped: %d\n", counts.Skipped); err != nil {
		return err
	}
	if top := TopLetters(counts, 5); len(top) > 0 {
		if _, err := fmt.Fprintf(w, "Most frequent: %s\n", string(top)); err != nil {
			return err
		}
	}
	return nil
}
