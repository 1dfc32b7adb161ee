package tui

import (
	"fmt"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/colonyops/ixv/internal/core/inspector"
	"github.com/colonyops/ixv/internal/core/search"
	"github.com/colonyops/ixv/internal/core/styles"
)

func (m Model) renderHeader(width int) string {
	left := styles.CommandHeaderStyle.Render(styles.IconFact + " " + m.opts.Title)

	var right []string
	if m.ins.SelectionMode() {
		right = append(right, styles.ResultCheckedStyle.Render(
			fmt.Sprintf("%s SELECT %d staged", styles.IconCheck, len(m.ins.SigningIDs()))))
	}
	right = append(right, styles.HelpStyle.Render(m.filterSummary()))

	r := strings.Join(right, "  ")
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(r), 1)
	return left + strings.Repeat(" ", gap) + r
}

// filterSummary describes the filters that differ from the defaults.
func (m Model) filterSummary() string {
	f := m.ins.Filters()
	var parts []string

	if f.Period != search.AllPeriods {
		label := f.Period
		for _, p := range m.ins.Periods() {
			if p.Key == f.Period {
				label = p.Label
				break
			}
		}
		parts = append(parts, "period: "+label)
	}
	if f.ConceptType != search.AllTypes {
		parts = append(parts, "type: "+f.ConceptType)
	}
	switch {
	case !f.ShowVisible && !f.ShowHidden:
		parts = append(parts, "no facts shown")
	case !f.ShowHidden:
		parts = append(parts, "visible only")
	case !f.ShowVisible:
		parts = append(parts, "hidden only")
	}

	if len(parts) == 0 {
		return "all facts"
	}
	return strings.Join(parts, " · ")
}

func (m Model) renderBody() string {
	l := computeLayout(m.width, m.height)

	doc := m.renderPane(paneDocument, "Document", m.doc.Render(l.leftInner), l.leftInner, l.docRows)
	results := m.renderPane(paneResults, m.resultsTitle(), m.renderResults(l), l.leftInner, l.resultRows+1)
	details := m.renderPane(paneDetails, m.detailsTitle(), m.details.View(), l.rightInner, l.detailRows)

	left := lipgloss.JoinVertical(lipgloss.Left, doc, results)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, details)
}

// renderPane frames content of the given inner size with a title line.
func (m Model) renderPane(p pane, title, content string, width, rows int) string {
	style := styles.PaneStyle
	if m.focus == p && !m.searching {
		style = styles.PaneFocusedStyle
	}

	inner := lipgloss.NewStyle().Width(width).Height(rows).MaxHeight(rows).Render(content)
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, styles.PaneTitleStyle.Render(title), inner))
}

func (m Model) resultsTitle() string {
	title := styles.IconSearch + " Search"
	if page := m.ins.Page(); m.ins.IndexReady() && !page.Empty() {
		title += fmt.Sprintf(" (%s)", humanize.Comma(int64(page.Len())))
	}
	return title
}

func (m Model) detailsTitle() string {
	p := m.ins.Panels()
	switch p.Mode {
	case inspector.ModeFact:
		title := "Fact"
		if n := len(p.Summary); n > 1 {
			title += fmt.Sprintf(" (%d at this location)", n)
		}
		return title
	case inspector.ModeFootnote:
		return "Footnote"
	default:
		return "Inspector"
	}
}

func (m Model) renderResults(l layoutDims) string {
	lines := []string{m.input.View()}

	if !m.ins.IndexReady() {
		lines = append(lines, m.spinner.View()+" Building search index…")
		return strings.Join(lines, "\n")
	}

	if empty, ok := m.ins.EmptyState(); ok {
		lines = append(lines,
			styles.CardTitleStyle.Render(empty.Title),
			styles.EmptyStateStyle.Render(empty.Text))
		return strings.Join(lines, "\n")
	}

	rows := m.ins.Rows()
	page := m.ins.Page()
	visible := l.resultRows
	if page.HasMore() {
		visible--
	}
	visible = max(visible, 1)

	start := max(m.resultCursor-visible+1, 0)
	end := min(start+visible, len(rows))
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(rows[i], i == m.resultCursor, l.leftInner))
	}

	if page.HasMore() {
		lines = append(lines, styles.HelpStyle.Render(fmt.Sprintf("m: show more (%s of %s)",
			humanize.Comma(int64(len(rows))), humanize.Comma(int64(page.Len())))))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(row inspector.ResultRow, cursor bool, width int) string {
	prefix := "  "
	if cursor && m.focus == paneResults {
		prefix = styles.SearchPromptStyle.Render("› ")
	}
	if m.ins.SelectionMode() {
		box := styles.IconUnchecked
		if row.Checked {
			box = styles.ResultCheckedStyle.Render(styles.IconCheck)
		}
		prefix += box + " "
	}

	text := row.Title + "  " + row.Period
	if len(row.Dimensions) > 0 {
		text += "  " + strings.Join(row.Dimensions, ", ")
	}
	if row.Hidden {
		text = styles.IconHidden + " " + text
	}
	text = ansi.Truncate(text, max(width-lipgloss.Width(prefix), 1), "…")

	style := styles.ResultStyle
	switch {
	case row.Selected:
		style = styles.ResultSelectedStyle
	case row.Linked:
		style = styles.TagLinkedStyle
	case row.Checked:
		style = styles.ResultCheckedStyle
	}
	return prefix + style.Render(text)
}

func (m Model) renderStatus(width int) string {
	var hints []string
	switch {
	case m.searching:
		hints = []string{"enter: results", "esc: done"}
	case m.ins.SelectionMode():
		hints = []string{"space: stage", "d: send", "x: discard", "s: leave selection"}
	default:
		hints = []string{"/: search", "tab: pane", "enter: select", "s: select facts", "?: help", "q: quit"}
	}
	return styles.StatusBarStyle.Width(width).Render(strings.Join(hints, "  "))
}
