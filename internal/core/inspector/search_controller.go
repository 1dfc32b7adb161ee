package inspector

import (
	"github.com/colonyops/ixv/internal/core/search"
)

// SearchPageSize is the number of result rows revealed per page.
const SearchPageSize = 100

// Filters is the state of the search controls.
type Filters struct {
	Text           string
	ShowVisible    bool
	ShowHidden     bool
	Period         string
	ConceptType    string
	ConceptPattern string
}

// DefaultFilters matches every fact.
func DefaultFilters() Filters {
	return Filters{
		ShowVisible: true,
		ShowHidden:  true,
		Period:      search.AllPeriods,
		ConceptType: search.AllTypes,
	}
}

// Spec builds a query from the control values alone.
func (f Filters) Spec() search.Spec {
	return search.Spec{
		Text:           f.Text,
		ShowVisible:    f.ShowVisible,
		ShowHidden:     f.ShowHidden,
		Period:         f.Period,
		ConceptType:    f.ConceptType,
		ConceptPattern: f.ConceptPattern,
	}
}

// ResultPage is the full match list of a query and how much of it is
// revealed.
type ResultPage struct {
	results  []search.Result
	revealed int
}

func newResultPage(results []search.Result) ResultPage {
	return ResultPage{results: results, revealed: min(len(results), SearchPageSize)}
}

func (p ResultPage) Len() int { return len(p.results) }

func (p ResultPage) Empty() bool { return len(p.results) == 0 }

// Results returns every match.
func (p ResultPage) Results() []search.Result { return p.results }

// Revealed returns the matches currently shown.
func (p ResultPage) Revealed() []search.Result { return p.results[:p.revealed] }

// HasMore reports whether a "show more" control is needed.
func (p ResultPage) HasMore() bool { return p.revealed < len(p.results) }

func (p *ResultPage) showMore() bool {
	if !p.HasMore() {
		return false
	}
	p.revealed = min(len(p.results), p.revealed+SearchPageSize)
	return true
}

// EmptyState is the message shown for a query without matches.
type EmptyState struct {
	Title string
	Text  string
}

var noMatch = EmptyState{Title: "No Match Found", Text: "Try again with different keywords"}

// SearchController runs queries from the current filters and keeps the
// result page and related highlighting in sync with them.
type SearchController struct {
	engine    Searcher
	viewer    Viewer
	highlight bool

	filters  Filters
	page     ResultPage
	searched bool
}

// NewSearchController creates a controller. highlight enables related
// highlighting of free-text matches.
func NewSearchController(engine Searcher, viewer Viewer, highlight bool) *SearchController {
	return &SearchController{
		engine:    engine,
		viewer:    viewer,
		highlight: highlight,
		filters:   DefaultFilters(),
	}
}

func (c *SearchController) Filters() Filters { return c.filters }

// SetFilters replaces the control values without running a query.
func (c *SearchController) SetFilters(f Filters) { c.filters = f }

func (c *SearchController) Page() ResultPage { return c.page }

// EmptyState returns the message to show when the last query matched
// nothing.
func (c *SearchController) EmptyState() (EmptyState, bool) {
	if !c.searched || !c.page.Empty() {
		return EmptyState{}, false
	}
	return noMatch, true
}

// Search runs a query built from the current filters. On error the previous
// page is kept.
func (c *SearchController) Search() error {
	spec := c.filters.Spec()

	results, err := c.engine.Search(spec)
	if err != nil {
		return err
	}

	c.viewer.ClearRelatedHighlighting()
	c.page = newResultPage(results)
	c.searched = true

	if c.highlight && spec.Text != "" && len(results) > 0 {
		ids := make([]string, 0, len(results))
		for _, r := range results {
			ids = append(ids, r.Fact.ID)
		}
		c.viewer.HighlightRelated(ids)
	}
	return nil
}

// ShowMore reveals the next page without querying again.
func (c *SearchController) ShowMore() bool {
	return c.page.showMore()
}

// ResetFilters restores the default filters, keeping the search text, and
// runs the query again.
func (c *SearchController) ResetFilters() error {
	text := c.filters.Text
	c.filters = DefaultFilters()
	c.filters.Text = text
	return c.Search()
}
