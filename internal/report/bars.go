package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/letterfreq/internal/tally"
)

const (
	barChar             = "█"
	minBarWidth         = 10
	maxBarWidth         = 50
	terminalWidthBackup = 80
	colorReset          = "\x1b[0m"
	barColor            = "\x1b[36m"
)

// RenderTable prints letters with count, percentage and a bar scaled to the
// most frequent letter. byFrequency orders rows by descending count. The bar
// fills what totalWidth leaves after the other columns; totalWidth <= 0 uses
// the width of the terminal on stdout.
func RenderTable(w io.Writer, counts tally.Counts, byFrequency, forceColor bool, totalWidth int) error {
	pcts, err := counts.Percentages()
	if err != nil {
		return err
	}
	items := ByFrequency(counts)
	if !byFrequency {
		items = make([]LetterStat, 0, tally.LetterCount)
		for i, letter := range tally.Letters() {
			items = append(items, LetterStat{Letter: letter, Count: counts.Letters[i]})
		}
	}
	maxPct := 0.0
	for _, pct := range pcts {
		maxPct = math.Max(maxPct, pct)
	}

	headers := []string{"Letter", "Count", "Percent", ""}
	// Width left for the bar after the fixed columns.
	fixed := displayWidth(headers[0]) + max(displayWidth(headers[1]), digits(counts.Total)) +
		max(displayWidth(headers[2]), displayWidth("100.00%")) + 3
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}
	width := BarWidthFor(totalWidth - fixed)
	useColor := shouldUseColor(w, forceColor)

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		pct := pcts[item.Letter-'a']
		bar := Bar(pct, maxPct, width)
		if useColor && bar != "" {
			bar = barColor + bar + colorReset
		}
		rows = append(rows, []string{
			string(item.Letter),
			fmt.Sprintf("%d", item.Count),
			FormatPercent(pct) + "%",
			bar,
		})
	}
	rightAlign := map[int]bool{1: true, 2: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Bar renders a horizontal bar for value relative to maxValue.
func Bar(value, maxValue float64, width int) string {
	if width <= 0 || maxValue <= 0 || value <= 0 {
		return ""
	}
	n := int(math.Round(value / maxValue * float64(width)))
	if n < 1 {
		n = 1
	}
	if n > width {
		n = width
	}
	return strings.Repeat(barChar, n)
}

// BarWidthFor clamps the width available for bars.
func BarWidthFor(available int) int {
	if available < minBarWidth {
		return minBarWidth
	}
	if available > maxBarWidth {
		return maxBarWidth
	}
	return available
}

func digits(n int) int {
	return len(fmt.Sprintf("%d", n))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
