package freqview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/letterfreq/internal/report"
	"github.com/verte-zerg/letterfreq/internal/tally"
)

func newTestModel(t *testing.T, corpus ...string) *Model {
	t.Helper()
	counts, err := tally.Tally(corpus, tally.PolicyStrict)
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	snippet, err := report.NewSnippet("", "")
	if err != nil {
		t.Fatalf("snippet: %v", err)
	}
	return NewModel("words.csv", counts, snippet)
}

func TestBuildLetterTableDataOrder(t *testing.T) {
	counts, err := tally.Tally([]string{"zzy"}, tally.PolicyStrict)
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	_, rows := buildLetterTableData(counts, true)
	if len(rows) != tally.LetterCount {
		t.Fatalf("expected %d rows, got %d", tally.LetterCount, len(rows))
	}
	if rows[0][0] != "z" || rows[0][1] != "2" || rows[0][2] != "66.67%" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
	if rows[1][0] != "y" {
		t.Fatalf("unexpected second row: %v", rows[1])
	}

	_, rows = buildLetterTableData(counts, false)
	if rows[0][0] != "a" || rows[25][0] != "z" {
		t.Fatalf("expected alphabetical rows, got %v ... %v", rows[0], rows[25])
	}
}

func TestBuildLetterTableDataEmpty(t *testing.T) {
	_, rows := buildLetterTableData(tally.Counts{}, true)
	if rows[0][2] != "-" {
		t.Fatalf("expected placeholder percent, got %q", rows[0][2])
	}
}

func TestModelTabsAndSort(t *testing.T) {
	m := newTestModel(t, "hello")
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	if m.activeTab != tabOverview {
		t.Fatalf("expected overview tab")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabLetters {
		t.Fatalf("expected letters tab, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabSnippets {
		t.Fatalf("expected wrap to snippets tab, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if m.byFrequency {
		t.Fatalf("expected alphabetical order after toggle")
	}
	view := m.View()
	if !strings.Contains(view, `map.insert("e".to_string(), 20.00);`) {
		t.Fatalf("expected snippet lines in view:\n%s", view)
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, "abc")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
}

func TestModelEmptyTally(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if m.errMsg == "" {
		t.Fatalf("expected error message for empty tally")
	}
	if !strings.Contains(m.View(), "empty input") {
		t.Fatalf("expected empty input notice in view")
	}
}

func overviewBar(t *testing.T, overview string) int {
	t.Helper()
	lines := strings.Split(overview, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "Letter ") && i+1 < len(lines) {
			return strings.Count(lines[i+1], "█")
		}
	}
	t.Fatalf("no table in overview:\n%s", overview)
	return 0
}

func TestOverviewFollowsWindowWidth(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	counts, err := tally.Tally([]string{"abb"}, tally.PolicyStrict)
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if got := overviewBar(t, renderOverview(counts, 40)); got != 19 {
		t.Fatalf("expected bar of 19 at width 40, got %d", got)
	}
	if got := overviewBar(t, renderOverview(counts, 200)); got != 50 {
		t.Fatalf("expected bar of 50 at width 200, got %d", got)
	}

	m := newTestModel(t, "abb")
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 40})
	if got := overviewBar(t, m.viewports[tabOverview].View()); got != 19 {
		t.Fatalf("expected viewer bar of 19, got %d", got)
	}
}
