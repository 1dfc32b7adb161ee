package inspector

import (
	"github.com/colonyops/ixv/internal/core/calc"
	"github.com/colonyops/ixv/internal/core/report"
	"github.com/colonyops/ixv/internal/core/search"
)

// Viewer is the document view the inspector drives. Highlights come in three
// classes: a single primary item, linked items (hover over a calculation line,
// footnote or fact link) and related items (search matches).
type Viewer interface {
	// Reveal scrolls id into view. force reveals it even if it is already
	// close enough to the visible area.
	Reveal(id string, force bool)
	// HighlightPrimary marks id as the selected item, replacing the previous
	// primary highlight.
	HighlightPrimary(id string)
	HighlightLinked(ids []string, on bool)
	// HighlightRelated adds ids to the related set.
	HighlightRelated(ids []string)
	ClearRelatedHighlighting()
	ClearAllHighlighting()
}

// Location persists a fragment style reference to the current selection.
type Location interface {
	Fragment() string
	SetFragment(fragment string)
}

// Searcher runs queries against the fact index.
type Searcher interface {
	Search(spec search.Spec) ([]search.Result, error)
	Ready() <-chan struct{}
	Periods() []search.PeriodOption
}

// Calculator resolves the calculations a fact is the total of.
type Calculator interface {
	ELRs(f *report.Fact) []string
	Resolve(f *report.Fact, elr string) []calc.Line
	BestELR(f *report.Fact, facts []*report.Fact) string
}

// MemoryLocation is a Location that only lives as long as the process.
type MemoryLocation struct {
	fragment string
}

func (l *MemoryLocation) Fragment() string { return l.fragment }

func (l *MemoryLocation) SetFragment(fragment string) { l.fragment = fragment }

// NopViewer ignores every call. Commands that run the inspector without a
// document view use it.
type NopViewer struct{}

func (NopViewer) Reveal(string, bool)            {}
func (NopViewer) HighlightPrimary(string)        {}
func (NopViewer) HighlightLinked([]string, bool) {}
func (NopViewer) HighlightRelated([]string)      {}
func (NopViewer) ClearRelatedHighlighting()      {}
func (NopViewer) ClearAllHighlighting()          {}
