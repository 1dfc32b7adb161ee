// Package tui implements the interactive fact inspector.
package tui

import (
	"context"
	"fmt"
	"slices"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/ixv/internal/core/inspector"
	"github.com/colonyops/ixv/internal/core/logging"
	"github.com/colonyops/ixv/internal/core/search"
	"github.com/colonyops/ixv/internal/core/styles"
	"github.com/colonyops/ixv/internal/tui/components"
)

type pane int

const (
	paneDocument pane = iota
	paneResults
	paneDetails
)

// Options configure the inspector TUI.
type Options struct {
	// Title is shown in the header, usually the report file name.
	Title string
	// Markdown renders footnotes with glamour.
	Markdown bool
	// BuildIndex builds the search index. It runs in the background once the
	// program starts; search is unavailable until it returns.
	BuildIndex func(context.Context) error
	// Inbox delivers raw host messages. nil disables inbound messages.
	Inbox <-chan []byte
}

type (
	indexReadyMsg struct{ err error }
	hostMsg       struct{ raw []byte }
	hostClosedMsg struct{}
)

// Model is the Bubble Tea model of the inspector.
type Model struct {
	ins  *inspector.Inspector
	doc  *DocView
	opts Options
	keys keyMap
	log  zerolog.Logger

	input     textinput.Model
	searching bool
	details   viewport.Model
	spinner   spinner.Model
	toasts    *ToastController
	help      *components.HelpDialog
	showHelp  bool
	confirm   *components.ConfirmModal

	focus        pane
	resultCursor int
	links        []detailLink
	linkCursor   int
	fullValue    bool
	lastSelected string

	width    int
	height   int
	quitting bool
}

// New creates the model. doc must be the viewer ins was built with.
func New(ins *inspector.Inspector, doc *DocView, opts Options) Model {
	input := textinput.New()
	input.Placeholder = "search facts"
	input.Prompt = styles.IconSearch + " "
	inputStyles := textinput.DefaultStyles(true)
	inputStyles.Focused.Prompt = styles.SearchPromptStyle
	input.SetStyles(inputStyles)
	input.SetValue(ins.Filters().Text)

	s := spinner.New()
	s.Spinner = spinner.Dot

	keys := defaultKeyMap()
	m := Model{
		ins:        ins,
		doc:        doc,
		opts:       opts,
		keys:       keys,
		log:        logging.Component("tui"),
		input:      input,
		details:    viewport.New(viewport.WithWidth(40), viewport.WithHeight(10)),
		spinner:    s,
		toasts:     &ToastController{},
		help:       components.NewHelpDialog("Keys", helpSections(keys)),
		linkCursor: -1,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.buildIndex(), listenHost(m.opts.Inbox))
}

func (m Model) buildIndex() tea.Cmd {
	build := m.opts.BuildIndex
	if build == nil {
		return func() tea.Msg { return indexReadyMsg{} }
	}
	return func() tea.Msg {
		return indexReadyMsg{err: build(context.Background())}
	}
}

// listenHost waits for the next inbound host message.
func listenHost(ch <-chan []byte) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		raw, ok := <-ch
		if !ok {
			return hostClosedMsg{}
		}
		return hostMsg{raw: raw}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
	case spinner.TickMsg:
		if m.ins.IndexReady() {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case indexReadyMsg:
		if msg.err != nil {
			cmd = m.notify(ToastError, "Search unavailable: "+msg.err.Error())
			break
		}
		if err := m.ins.OnIndexReady(); err != nil {
			cmd = m.notify(ToastError, err.Error())
		}
	case hostMsg:
		if err := m.ins.HandleHostMessage(msg.raw); err != nil {
			m.log.Warn().Err(err).Msg("ignored host message")
		}
		cmd = listenHost(m.opts.Inbox)
	case hostClosedMsg:
		m.log.Debug().Msg("host inbox closed")
	case toastTickMsg:
		m.toasts.Tick(toastTickInterval)
		if m.toasts.HasToasts() {
			return m, scheduleToastTick()
		}
		m.toasts.Stop()
		return m, nil
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	default:
		return m, nil
	}

	m.refresh()
	return m, cmd
}

// notify pushes a toast and starts the tick loop if needed.
func (m *Model) notify(level ToastLevel, message string) tea.Cmd {
	m.toasts.Push(level, message)
	if m.toasts.Start() {
		return scheduleToastTick()
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case m.confirm != nil:
		confirm, _ := m.confirm.Update(msg)
		if confirm.Confirmed() {
			m.ins.CancelSelection()
		}
		m.confirm = &confirm
		if confirm.Done() {
			m.confirm = nil
		}
		return nil
	case m.showHelp:
		switch msg.String() {
		case "esc", "?", "q":
			m.showHelp = false
		}
		return nil
	case m.searching:
		return m.handleSearchKey(msg)
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, k.Help):
		m.showHelp = true
	case key.Matches(msg, k.Search):
		m.searching = true
		return m.input.Focus()
	case key.Matches(msg, k.Focus):
		m.setFocus((m.focus + 1) % 3)
	case key.Matches(msg, k.Up):
		m.moveCursor(-1)
	case key.Matches(msg, k.Down):
		m.moveCursor(1)
	case key.Matches(msg, k.Select):
		m.activate()
	case key.Matches(msg, k.SelectAll):
		m.selectWithAllResults()
	case key.Matches(msg, k.NextTag):
		m.stepTag(1)
	case key.Matches(msg, k.PrevTag):
		m.stepTag(-1)
	case key.Matches(msg, k.NextDuplicate):
		m.ins.NextDuplicate()
	case key.Matches(msg, k.PrevDuplicate):
		m.ins.PrevDuplicate()
	case key.Matches(msg, k.NextAlternate):
		m.ins.CycleAlternate(1)
	case key.Matches(msg, k.PrevAlternate):
		m.ins.CycleAlternate(-1)
	case key.Matches(msg, k.CycleRole):
		m.ins.CycleCalculationELR()
	case key.Matches(msg, k.FullValue):
		m.fullValue = !m.fullValue
	case key.Matches(msg, k.ShowMore):
		m.ins.ShowMore()
	case key.Matches(msg, k.ResetFilters):
		if err := m.ins.ResetFilters(); err != nil {
			return m.notify(ToastError, err.Error())
		}
		m.resultCursor = 0
	case key.Matches(msg, k.CyclePeriod):
		return m.updateFilters(func(f *inspector.Filters) { f.Period = m.nextPeriod(f.Period) })
	case key.Matches(msg, k.CycleType):
		return m.updateFilters(func(f *inspector.Filters) { f.ConceptType = nextType(f.ConceptType) })
	case key.Matches(msg, k.ToggleHidden):
		return m.updateFilters(func(f *inspector.Filters) { f.ShowHidden = !f.ShowHidden })
	case key.Matches(msg, k.ToggleShown):
		return m.updateFilters(func(f *inspector.Filters) { f.ShowVisible = !f.ShowVisible })
	case key.Matches(msg, k.SelectionMode):
		if m.ins.SelectionMode() {
			m.ins.ExitSelectionMode()
		} else {
			m.ins.EnterSelectionMode()
		}
	case key.Matches(msg, k.ToggleSigning):
		return m.toggleSigning()
	case key.Matches(msg, k.Done):
		return m.done()
	case key.Matches(msg, k.Cancel):
		if n := len(m.ins.SigningIDs()); n > 0 {
			confirm := components.NewConfirmModal("Discard selection", fmt.Sprintf("Discard %d staged facts?", n))
			m.confirm = &confirm
		} else {
			m.ins.CancelSelection()
		}
	case key.Matches(msg, k.ShowSigned):
		if m.doc.ToggleSigned() {
			return m.notify(ToastInfo, fmt.Sprintf("Highlighting %d signed facts", m.doc.SignedCount()))
		}
	}
	return nil
}

// handleSearchKey edits the search text. Every change runs the query.
func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.input.Blur()
		return nil
	case "enter":
		m.searching = false
		m.input.Blur()
		m.setFocus(paneResults)
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if text := m.input.Value(); text != m.ins.Filters().Text {
		return tea.Batch(cmd, m.updateFilters(func(f *inspector.Filters) { f.Text = text }))
	}
	return cmd
}

func (m *Model) updateFilters(edit func(*inspector.Filters)) tea.Cmd {
	f := m.ins.Filters()
	edit(&f)
	m.resultCursor = 0
	if err := m.ins.SetFilters(f); err != nil {
		return m.notify(ToastError, err.Error())
	}
	return nil
}

func (m *Model) nextPeriod(current string) string {
	keys := []string{search.AllPeriods}
	for _, p := range m.ins.Periods() {
		keys = append(keys, p.Key)
	}
	i := slices.Index(keys, current)
	return keys[(i+1)%len(keys)]
}

func nextType(current string) string {
	types := []string{search.AllTypes, search.TypeNumeric, search.TypeText}
	i := slices.Index(types, current)
	return types[(i+1)%len(types)]
}

func (m *Model) setFocus(p pane) {
	if m.focus == paneDetails && p != paneDetails {
		m.hoverLink(-1)
	}
	m.focus = p
}

func (m *Model) moveCursor(delta int) {
	switch m.focus {
	case paneDocument:
		m.doc.MoveCursor(delta)
		m.ins.HoverTag(m.doc.CursorID())
	case paneResults:
		rows := m.ins.Rows()
		m.resultCursor = min(max(m.resultCursor+delta, 0), max(len(rows)-1, 0))
	case paneDetails:
		if len(m.links) == 0 {
			if delta < 0 {
				m.details.ScrollUp(1)
			} else {
				m.details.ScrollDown(1)
			}
			return
		}
		m.hoverLink(min(max(m.linkCursor+delta, 0), len(m.links)-1))
	}
}

// hoverLink moves the link cursor, swapping the linked highlight in the
// document. -1 clears it.
func (m *Model) hoverLink(i int) {
	if m.linkCursor >= 0 && m.linkCursor < len(m.links) {
		m.ins.HoverLink(m.links[m.linkCursor].ids, false)
	}
	m.linkCursor = i
	if i >= 0 && i < len(m.links) {
		m.ins.HoverLink(m.links[i].ids, true)
	}
}

func (m *Model) activate() {
	switch m.focus {
	case paneDocument:
		m.ins.SelectItem(m.doc.CursorID(), nil, false)
	case paneResults:
		if row, ok := m.currentRow(); ok {
			m.ins.SelectItem(row.ID, nil, false)
		}
	case paneDetails:
		if m.linkCursor < 0 || m.linkCursor >= len(m.links) {
			return
		}
		link := m.links[m.linkCursor]
		m.hoverLink(-1)
		switch link.kind {
		case linkSwitch:
			m.ins.SwitchItem(link.ids[0], false)
		default:
			m.ins.ActivateLink(link.ids)
		}
	}
}

func (m *Model) selectWithAllResults() {
	row, ok := m.currentRow()
	if !ok {
		return
	}
	rows := m.ins.Rows()
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	m.ins.SelectItem(row.ID, ids, false)
}

func (m *Model) stepTag(delta int) {
	from := m.ins.Selection().CurrentID()
	if from == "" {
		from = m.doc.CursorID()
	}
	if id := m.doc.NextTag(from, delta); id != "" {
		m.ins.SelectItem(id, nil, false)
	}
}

func (m *Model) currentRow() (inspector.ResultRow, bool) {
	rows := m.ins.Rows()
	if m.resultCursor >= len(rows) {
		return inspector.ResultRow{}, false
	}
	return rows[m.resultCursor], true
}

// signingTarget is the fact under the result cursor. Facts are staged only
// from the result list.
func (m *Model) signingTarget() string {
	if m.focus != paneResults {
		return ""
	}
	if row, ok := m.currentRow(); ok {
		return row.ID
	}
	return ""
}

func (m *Model) toggleSigning() tea.Cmd {
	if !m.ins.SelectionMode() {
		return m.notify(ToastInfo, "Press s to start selecting facts")
	}
	if m.focus != paneResults {
		return m.notify(ToastInfo, "Stage facts from the search results")
	}
	m.ins.ToggleSigning(m.signingTarget())
	return nil
}

func (m *Model) done() tea.Cmd {
	n := len(m.ins.SigningIDs())
	sent, err := m.ins.Done()
	switch {
	case err != nil:
		m.log.Error().Err(err).Int("facts", n).Msg("export failed")
		return m.notify(ToastError, "Export failed: "+err.Error())
	case sent:
		return m.notify(ToastInfo, fmt.Sprintf("Sent %d facts", n))
	default:
		return m.notify(ToastWarning, "No facts staged")
	}
}

// layout sizes the panes from the window dimensions.
func (m *Model) layout() {
	l := computeLayout(m.width, m.height)
	m.doc.SetHeight(l.docRows)
	m.input.SetWidth(max(l.leftInner-4, 4))
	m.details = viewport.New(
		viewport.WithWidth(l.rightInner),
		viewport.WithHeight(l.detailRows),
	)
}

// refresh rebuilds the details pane from the inspector state.
func (m *Model) refresh() {
	if id := m.ins.Selection().CurrentID(); id != m.lastSelected {
		m.lastSelected = id
		m.linkCursor = -1
		m.fullValue = false
		m.details.GotoTop()
	}

	rows := m.ins.Rows()
	m.resultCursor = min(m.resultCursor, max(len(rows)-1, 0))

	l := computeLayout(m.width, m.height)
	content, links := renderDetails(m.ins, detailsOptions{
		width:     l.rightInner,
		cursor:    m.linkCursor,
		fullValue: m.fullValue,
		markdown:  m.opts.Markdown,
	})
	m.links = links
	if m.linkCursor >= len(links) {
		m.linkCursor = -1
	}
	m.details.SetContent(content)

	if m.linkCursor >= 0 {
		line := links[m.linkCursor].line
		offset := m.details.YOffset()
		switch {
		case line < offset:
			m.details.SetYOffset(line)
		case line >= offset+l.detailRows:
			m.details.SetYOffset(line - l.detailRows + 1)
		}
	}
}

type layoutDims struct {
	leftInner  int
	rightInner int
	docRows    int
	resultRows int
	detailRows int
	docHeight  int
	resHeight  int
	bodyHeight int
}

// computeLayout splits the window into a left column (document over search
// results) and the details pane on the right. Panes carry a border, one
// column of padding per side and a title line.
func computeLayout(width, height int) layoutDims {
	if width == 0 {
		width = 100
	}
	if height == 0 {
		height = 30
	}

	const chromeW, chromeH = 4, 3

	body := max(height-2, 8)
	leftW := width / 2
	docH := body * 3 / 5

	return layoutDims{
		leftInner:  max(leftW-chromeW, 10),
		rightInner: max(width-leftW-chromeW, 10),
		docRows:    max(docH-chromeH, 1),
		resultRows: max(body-docH-chromeH-1, 1),
		detailRows: max(body-chromeH, 1),
		docHeight:  docH,
		resHeight:  body - docH,
		bodyHeight: body,
	}
}

// View renders the TUI.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render composes the screen with any overlay on top.
func (m Model) render() string {
	w, h := m.width, m.height
	if w == 0 {
		w = 100
	}
	if h == 0 {
		h = 30
	}

	content := lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(w), m.renderBody(), m.renderStatus(w))
	switch {
	case m.confirm != nil:
		content = m.confirm.Overlay(content, w, h)
	case m.showHelp:
		content = m.help.Overlay(content, w, h)
	}
	return m.toasts.Overlay(content, w, h)
}
