// Package freqview provides the Bubble Tea letter-frequency viewer.
package freqview

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/letterfreq/internal/report"
	"github.com/verte-zerg/letterfreq/internal/tally"
)

const (
	tabOverview = iota
	tabLetters
	tabSnippets
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea viewer for a single tally.
type Model struct {
	label   string
	counts  tally.Counts
	snippet *report.Snippet
	errMsg  string

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	letterTable table.Model
	byFrequency bool

	width  int
	height int
}

// NewModel constructs a viewer for counts. label names the corpus in the header.
func NewModel(label string, counts tally.Counts, snippet *report.Snippet) *Model {
	m := &Model{
		label:       label,
		counts:      counts,
		snippet:     snippet,
		tabs:        []string{"Overview", "Letters", "Snippets"},
		byFrequency: true,
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.letterTable = table.New(table.WithStyles(letterTableStyles()))
	m.refreshTable()
	m.renderTabContents()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "s":
			m.byFrequency = !m.byFrequency
			m.refreshTable()
			return m, nil
		case "g", "home":
			if m.activeTab == tabLetters {
				m.letterTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabLetters {
				m.letterTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabLetters {
				var cmd tea.Cmd
				m.letterTable, cmd = m.letterTable.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.letterTable.SetWidth(m.width)
	m.letterTable.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	if m.activeTab == tabLetters {
		m.letterTable.Focus()
	} else {
		m.letterTable.Blur()
	}
}

func (m *Model) refreshTable() {
	cols, rows := buildLetterTableData(m.counts, m.byFrequency)
	m.letterTable.SetColumns(cols)
	m.letterTable.SetRows(rows)
}

func (m *Model) renderTabContents() {
	m.viewports[tabOverview].SetContent(renderOverview(m.counts, m.width))
	lines, err := report.SnippetLines(m.counts, m.snippet)
	if err != nil {
		m.errMsg = err.Error()
		m.viewports[tabSnippets].SetContent("No snippets for an empty tally.")
		return
	}
	m.errMsg = ""
	m.viewports[tabSnippets].SetContent(strings.Join(lines, "\n"))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	order := "a-z"
	if m.byFrequency {
		order = "frequency"
	}
	summary := fmt.Sprintf("Corpus: %s  characters=%d  order=%s  format=%s", m.label, m.counts.Total, order, m.snippet.Name())
	return m.renderTabs() + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Sort: s  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.activeTab == tabLetters {
		return tableMutedStyle.Render(m.letterTable.View())
	}
	return m.viewports[m.activeTab].View()
}

func renderOverview(counts tally.Counts, width int) string {
	var buf bytes.Buffer
	if err := report.RenderSummary(&buf, counts); err != nil {
		return fmt.Sprintf("Failed to render summary: %v", err)
	}
	if counts.Total == 0 {
		return strings.TrimRight(buf.String(), "\n")
	}
	buf.WriteString("\n")
	if err := report.RenderTable(&buf, counts, true, false, width); err != nil {
		return fmt.Sprintf("Failed to render table: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func buildLetterTableData(counts tally.Counts, byFrequency bool) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Letter", Width: 6},
		{Title: "Count", Width: 10},
		{Title: "Percent", Width: 8},
	}
	items := report.ByFrequency(counts)
	if !byFrequency {
		items = make([]report.LetterStat, 0, tally.LetterCount)
		for i, letter := range tally.Letters() {
			items = append(items, report.LetterStat{Letter: letter, Count: counts.Letters[i]})
		}
	}
	rows := make([]table.Row, 0, len(items))
	for _, item := range items {
		pct := "-"
		if p, err := counts.Percent(item.Letter); err == nil {
			pct = report.FormatPercent(p) + "%"
		}
		rows = append(rows, table.Row{
			string(item.Letter),
			fmt.Sprintf("%d", item.Count),
			pct,
		})
	}
	return columns, rows
}

func letterTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
