package controller

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mouse-blink/goistanbul/internal/coverage"
)

const (
	pctWidth = 8
	// Width taken by the percentage columns in front of the path.
	pctColumnsWidth = 4*(pctWidth+1) + 1

	lowWatermark  = 50.0
	highWatermark = 80.0
)

type tickMsg time.Time

// summaryDelegate renders one file per line: four percentages then the path.
type summaryDelegate struct {
	offset int
}

func (d summaryDelegate) Height() int  { return 1 }
func (d summaryDelegate) Spacing() int { return 0 }
func (d summaryDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d summaryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	file, ok := item.(fileItem)
	if !ok {
		return
	}

	isSelected := index == m.Index()
	width := m.Width() - pctColumnsWidth

	pathStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	displayPath := truncateToWidth(file.path, width)

	if isSelected {
		pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
		displayPath = animateScroll(file.path, width, d.offset)
	}

	s := file.summary
	line := fmt.Sprintf("%s %s %s %s  %s",
		pctCell(s.Statements.Pct),
		pctCell(s.Branches.Pct),
		pctCell(s.Functions.Pct),
		pctCell(s.Lines.Pct),
		pathStyle.Render(displayPath),
	)
	_, _ = fmt.Fprint(w, line)
}

// pctCell colors a percentage the way istanbul's watermarks do.
func pctCell(p coverage.Percentage) string {
	return pctStyle(p).Width(pctWidth).Align(lipgloss.Right).Render(p.String())
}

func pctStyle(p coverage.Percentage) lipgloss.Style {
	v, known := p.Value()

	switch {
	case !known:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	case v >= highWatermark:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	case v >= lowWatermark:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	}
}

func animateScroll(text string, width int, offset int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	// Ticks to wait before scrolling.
	const pause = 5

	if offset < pause {
		return truncateToWidth(text, width)
	}

	runes := []rune(text + "   ")
	n := len(runes)
	start := (offset - pause) % n

	res := make([]rune, 0, width)
	for i := 0; i < width; i++ {
		res = append(res, runes[(start+i)%n])
	}

	return string(res)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	maxWidth := width - lipgloss.Width(ellipsis)
	if maxWidth <= 0 {
		return ellipsis
	}

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// summaryModel browses the per-file coverage of a report.
type summaryModel struct {
	width        int
	height       int
	fileList     list.Model
	delegate     summaryDelegate
	total        coverage.CoverageSummary
	totalFiles   int
	rendered     bool
	animOffset   int
	lastSelected int
}

func newSummaryModel() summaryModel {
	delegate := summaryDelegate{}
	fileList := list.New([]list.Item{}, delegate, 80, 20)
	fileList.SetShowPagination(false)
	fileList.SetShowFilter(true)
	fileList.SetShowHelp(false)
	fileList.SetShowTitle(false)
	fileList.SetShowStatusBar(false)
	fileList.FilterInput.Placeholder = "Filter by path…"

	return summaryModel{
		fileList:     fileList,
		delegate:     delegate,
		lastSelected: -1,
	}
}

func (m summaryModel) Init() tea.Cmd {
	return tea.Tick(time.Second/2, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m summaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.fileList.SetWidth(m.width)

	case tickMsg:
		if m.fileList.FilterState() != list.Filtering && m.rendered {
			m.animOffset++
			m.delegate.offset = m.animOffset
			m.fileList.SetDelegate(m.delegate)

			return m, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
				return tickMsg(t)
			})
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		default:
			m.fileList, cmd = m.fileList.Update(msg)

			// A new selection restarts its scroll.
			if m.fileList.Index() != m.lastSelected {
				m.lastSelected = m.fileList.Index()
				m.animOffset = 0
				m.delegate.offset = 0
				m.fileList.SetDelegate(m.delegate)
			}

			return m, cmd
		}

	case summaryMsg:
		m = m.handleSummaryMsg(msg)
	}

	return m, cmd
}

func (m summaryModel) handleSummaryMsg(msg summaryMsg) summaryModel {
	m.total = msg.total
	m.totalFiles = len(msg.files)

	items := make([]list.Item, 0, len(msg.files))
	for _, file := range msg.files {
		items = append(items, file)
	}

	m.fileList.SetItems(items)
	m.rendered = true

	if len(items) > 0 && m.lastSelected == -1 {
		m.lastSelected = 0
	}

	return m
}

func (m summaryModel) View() string {
	if !m.rendered {
		return "Loading coverage summary…\n"
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	title := titleStyle.Render("📊 goistanbul coverage")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Statements: %s   Branches: %s   Functions: %s   Lines: %s   Files: %d",
		totalsCell(m.total.Statements),
		totalsCell(m.total.Branches),
		totalsCell(m.total.Functions),
		totalsCell(m.total.Lines),
		m.totalFiles,
	))

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(m.width)

	footer := footerStyle.Render("↑/k up • ↓/j down • g/G top/bottom • / filter • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		m.renderTable(),
		footer,
	)
}

func totalsCell(t coverage.Totals) string {
	return pctStyle(t.Pct).Render(fmt.Sprintf("%s%% (%d/%d)", t.Pct, t.Covered, t.Total))
}

func (m summaryModel) renderTable() string {
	// Title, summary, footer, border and header take nine lines.
	listHeight := max(m.height-9, 5)

	// Margin, border and padding take six columns.
	listWidth := m.width - 6

	m.fileList.SetHeight(listHeight)
	m.fileList.SetWidth(listWidth)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%*s %*s %*s %*s  %s",
		pctWidth, "% Stmts", pctWidth, "% Branch", pctWidth, "% Funcs", pctWidth, "% Lines", "File"))

	tableContainer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return tableContainer.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headers,
			m.fileList.View(),
		),
	)
}
