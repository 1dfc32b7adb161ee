// Package inspector holds the selection and cross-reference state machine of
// the fact inspector: the current selection and its alternates, the signing
// set staged for export, the search controller and the panels derived from
// the selection.
//
// An Inspector is not safe for concurrent use. Every method runs to
// completion on the caller's goroutine and leaves the state consistent, so
// calls may be nested (a selection made while handling another).
package inspector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/colonyops/ixv/internal/core/host"
	"github.com/colonyops/ixv/internal/core/logging"
	"github.com/colonyops/ixv/internal/core/report"
	"github.com/colonyops/ixv/internal/core/search"
)

const fragmentPrefix = "#f-"

// Deps are the collaborators of an Inspector. Notifier, Exporter and
// Location are optional.
type Deps struct {
	Index    report.Index
	Search   Searcher
	Calc     Calculator
	Viewer   Viewer
	Notifier host.Notifier
	Exporter host.Exporter
	Location Location
	// HighlightResults enables related highlighting of free-text matches.
	HighlightResults bool
}

type Inspector struct {
	idx      report.Index
	viewer   Viewer
	notifier host.Notifier
	exporter host.Exporter
	location Location
	log      zerolog.Logger

	resolver *Resolver
	search   *SearchController

	sel        Selection
	signing    SigningSet
	panels     Panels
	elr        string
	hovered    string
	indexReady bool
}

func New(d Deps) *Inspector {
	in := &Inspector{
		idx:      d.Index,
		viewer:   d.Viewer,
		notifier: d.Notifier,
		exporter: d.Exporter,
		location: d.Location,
		log:      logging.Component("inspector"),
		resolver: NewResolver(d.Index, d.Calc),
		search:   NewSearchController(d.Search, d.Viewer, d.HighlightResults),
		panels:   Panels{Mode: ModeEmpty},
	}
	if in.notifier == nil {
		in.notifier = host.Nop{}
	}
	if in.exporter == nil {
		in.exporter = host.Nop{}
	}
	if in.location == nil {
		in.location = &MemoryLocation{}
	}
	return in
}

func (in *Inspector) Selection() Selection { return in.sel }

func (in *Inspector) Panels() Panels { return in.panels }

// CalculationELR returns the role chosen for the calculation panel, or "".
func (in *Inspector) CalculationELR() string { return in.elr }

// SelectItem selects id and presents it with alternates. A nil alternates
// list presents id on its own. Unknown alternates are dropped; an unknown
// id clears the selection.
func (in *Inspector) SelectItem(id string, alternates []string, force bool) {
	item := in.lookup(id)
	if item == nil {
		in.sel.setAlternates(nil)
		in.switchTo(nil, force)
		return
	}

	if alternates == nil {
		in.sel.setAlternates([]report.Item{item})
	} else {
		items := make([]report.Item, 0, len(alternates)+1)
		found := false
		for _, alt := range alternates {
			it := in.lookup(alt)
			if it == nil {
				continue
			}
			if alt == id {
				found = true
			}
			items = append(items, it)
		}
		if !found {
			items = append([]report.Item{item}, items...)
		}
		in.sel.setAlternates(items)
	}

	in.switchTo(item, force)
}

// SwitchItem makes id current without changing the alternates when it is
// one of them. "" clears the selection.
func (in *Inspector) SwitchItem(id string, force bool) {
	in.switchTo(in.lookup(id), force)
}

// lookup resolves id, logging unknown ids. "" resolves to nil silently.
func (in *Inspector) lookup(id string) report.Item {
	if id == "" {
		return nil
	}
	item, err := in.idx.ItemByID(id)
	if err != nil {
		in.log.Warn().Err(err).Str("id", id).Msg("dropping unknown item")
		return nil
	}
	return item
}

func (in *Inspector) switchTo(item report.Item, force bool) {
	prev := in.sel.CurrentID()
	in.sel.switchTo(item)

	id := in.sel.CurrentID()
	if id != prev {
		in.elr = ""
	}

	if item == nil {
		in.viewer.ClearAllHighlighting()
	} else {
		in.viewer.Reveal(id, force)
		in.viewer.HighlightPrimary(id)
	}

	in.refresh()

	if id == "" {
		in.location.SetFragment("")
	} else {
		in.location.SetFragment(fragmentPrefix + id)
	}

	if err := in.notifier.SelectionChanged(id); err != nil {
		in.log.Warn().Err(err).Str("id", id).Msg("notify host")
	}
}

func (in *Inspector) refresh() {
	in.panels = buildPanels(in.idx, in.resolver, in.sel, in.elr)
}

// RestoreFromFragment selects the item named by a "#f-<id>" fragment. It
// reports whether the fragment named an item.
func (in *Inspector) RestoreFromFragment(fragment string) bool {
	id, ok := strings.CutPrefix("#"+strings.TrimPrefix(fragment, "#"), fragmentPrefix)
	if !ok || id == "" {
		return false
	}
	in.SelectItem(id, nil, false)
	return in.sel.CurrentID() == id
}

// Restore selects the item persisted in the location, if any.
func (in *Inspector) Restore() bool {
	return in.RestoreFromFragment(in.location.Fragment())
}

// HandleHostMessage applies an inbound host message. Malformed messages and
// unknown tasks are logged and dropped; the error is returned for callers
// that want to report it.
func (in *Inspector) HandleHostMessage(raw []byte) error {
	msg, err := host.ParseMessage(raw)
	switch {
	case errors.Is(err, host.ErrUnknownTask):
		in.log.Info().Str("task", msg.Task).Msg("not handling unsupported task message")
		return err
	case err != nil:
		in.log.Warn().Err(err).Msg("discarding host message")
		return err
	}

	in.SelectItem(msg.FactID, nil, true)
	return nil
}

// NextDuplicate selects the next fact of the current fact's duplicate group.
func (in *Inspector) NextDuplicate() bool {
	return in.stepDuplicate(func(n DuplicateNav) *report.Fact { return n.Next })
}

// PrevDuplicate selects the previous fact of the current fact's duplicate group.
func (in *Inspector) PrevDuplicate() bool {
	return in.stepDuplicate(func(n DuplicateNav) *report.Fact { return n.Prev })
}

func (in *Inspector) stepDuplicate(pick func(DuplicateNav) *report.Fact) bool {
	if in.panels.Mode != ModeFact {
		return false
	}
	in.SelectItem(pick(in.panels.Duplicates).ID, nil, false)
	return true
}

// CycleAlternate switches to the alternate delta steps from the current one.
func (in *Inspector) CycleAlternate(delta int) bool {
	item, ok := in.sel.alternate(delta)
	if !ok {
		return false
	}
	in.switchTo(item, false)
	return true
}

// SetCalculationELR shows the calculation of the current fact in elr. ""
// restores automatic resolution.
func (in *Inspector) SetCalculationELR(elr string) {
	in.elr = elr
	in.refresh()
}

// CycleCalculationELR steps through the roles the current fact is a total in.
func (in *Inspector) CycleCalculationELR() bool {
	f, ok := in.sel.CurrentFact()
	if !ok {
		return false
	}
	elrs := in.resolver.calc.ELRs(f)
	if len(elrs) < 2 {
		return false
	}

	current := in.elr
	if current == "" {
		for _, card := range in.panels.Calculations {
			if card.Open {
				current = card.ELR
			}
		}
	}

	next := elrs[0]
	for i, e := range elrs {
		if e == current {
			next = elrs[(i+1)%len(elrs)]
			break
		}
	}
	in.SetCalculationELR(next)
	return true
}

// ActivateLink selects the first fact of a link such as a calculation line.
func (in *Inspector) ActivateLink(ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	in.SelectItem(ids[0], nil, false)
	return true
}

// HoverLink applies or clears the linked highlight on every id of a link.
func (in *Inspector) HoverLink(ids []string, on bool) {
	if len(ids) == 0 {
		return
	}
	in.viewer.HighlightLinked(ids, on)
}

// HoverTag records the document tag under the pointer so that calculation
// lines and result rows backed by it are shown as linked. "" clears it.
func (in *Inspector) HoverTag(id string) { in.hovered = id }

func (in *Inspector) Hovered() string { return in.hovered }

// OnIndexReady marks search as available and runs the initial query.
func (in *Inspector) OnIndexReady() error {
	in.indexReady = true
	return in.Search()
}

func (in *Inspector) IndexReady() bool { return in.indexReady }

// Search runs the query for the current filters. Before the index is ready
// it does nothing; OnIndexReady runs the query once it is.
func (in *Inspector) Search() error {
	if !in.indexReady {
		return nil
	}
	if err := in.search.Search(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return nil
}

// SetFilters replaces the search controls and runs the query.
func (in *Inspector) SetFilters(f Filters) error {
	in.search.SetFilters(f)
	return in.Search()
}

func (in *Inspector) Filters() Filters { return in.search.Filters() }

// ResetFilters restores the default filters and runs the query.
func (in *Inspector) ResetFilters() error {
	if !in.indexReady {
		text := in.search.Filters().Text
		f := DefaultFilters()
		f.Text = text
		in.search.SetFilters(f)
		return nil
	}
	if err := in.search.ResetFilters(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return nil
}

// ShowMore reveals the next page of results.
func (in *Inspector) ShowMore() bool { return in.search.ShowMore() }

func (in *Inspector) Page() ResultPage { return in.search.Page() }

func (in *Inspector) EmptyState() (EmptyState, bool) { return in.search.EmptyState() }

// Periods lists the period filter options.
func (in *Inspector) Periods() []search.PeriodOption {
	if !in.indexReady {
		return nil
	}
	return in.search.engine.Periods()
}

// Rows returns the revealed search results as rows.
func (in *Inspector) Rows() []ResultRow {
	revealed := in.search.Page().Revealed()
	rows := make([]ResultRow, 0, len(revealed))
	for _, r := range revealed {
		rows = append(rows, in.Row(r.Fact))
	}
	return rows
}

// Row builds the row of a fact from the current state.
func (in *Inspector) Row(f *report.Fact) ResultRow {
	var dims []string
	for _, d := range dimensions(in.idx, f) {
		dims = append(dims, d.Member)
	}
	return ResultRow{
		ID:         f.ID,
		Title:      in.idx.Concept(f.Concept).Label("std"),
		Period:     f.PeriodString(),
		Dimensions: dims,
		Hidden:     f.Hidden,
		Selected:   in.sel.CurrentID() == f.ID,
		Checked:    in.signing.Contains(f.ID),
		Linked:     in.hovered != "" && in.hovered == f.ID,
	}
}

// SelectionMode reports whether rows show signing checkboxes.
func (in *Inspector) SelectionMode() bool { return in.signing.Active() }

// SigningIDs returns the staged fact ids in insertion order.
func (in *Inspector) SigningIDs() []string { return in.signing.IDs() }

func (in *Inspector) EnterSelectionMode() { in.signing.Enter() }

func (in *Inspector) ExitSelectionMode() { in.signing.Exit() }

// CancelSelection clears the signing set and leaves selection mode.
func (in *Inspector) CancelSelection() {
	in.signing.Clear()
	in.signing.Exit()
}

// ToggleSigning adds or removes a fact from the signing set. It does nothing
// outside selection mode or for ids that are not facts.
func (in *Inspector) ToggleSigning(id string) bool {
	if !in.signing.Active() {
		return false
	}
	item := in.lookup(id)
	if item == nil {
		return false
	}
	return in.signing.Toggle(item)
}

// Done exports the signing set to the host, then clears it and leaves
// selection mode. An empty set is a no-op. It reports whether a message
// was sent; on error the set is kept.
func (in *Inspector) Done() (bool, error) {
	if in.signing.Len() == 0 {
		return false, nil
	}

	payload, err := host.EncodeExport(in.signing.Facts())
	if err != nil {
		return false, fmt.Errorf("encode export: %w", err)
	}
	if err := in.exporter.Export(payload); err != nil {
		return false, fmt.Errorf("export: %w", err)
	}

	in.log.Info().Int("facts", in.signing.Len()).Msg("exported signing set")
	in.signing.Clear()
	in.signing.Exit()
	return true, nil
}
