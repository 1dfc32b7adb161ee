package inspector

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/ixv/internal/core/report"
	"github.com/colonyops/ixv/internal/core/report/reporttest"
	"github.com/colonyops/ixv/internal/core/search"
)

func manyDoc(visible, hidden int) report.Document {
	facts := reporttest.Many(visible + hidden)
	for _, f := range facts[visible:] {
		f.Hidden = true
	}
	return report.Document{Facts: facts}
}

func TestSearch_EmptyTextVisibleOnly(t *testing.T) {
	fx := newFixture(t, manyDoc(150, 7))

	err := fx.in.SetFilters(Filters{ShowVisible: true, ShowHidden: false, Period: search.AllPeriods, ConceptType: search.AllTypes})
	require.NoError(t, err)

	page := fx.in.Page()
	assert.Equal(t, 150, page.Len())
	assert.Len(t, fx.in.Rows(), 100)
	assert.True(t, page.HasMore())
	assert.Empty(t, fx.viewer.related, "no related highlighting without search text")
	assert.NotContains(t, fx.viewer.calls, "related")

	_, empty := fx.in.EmptyState()
	assert.False(t, empty)
}

func TestSearch_Paging(t *testing.T) {
	for _, total := range []int{0, 1, 99, 100, 101, 150, 200, 250, 301} {
		t.Run(fmt.Sprint(total), func(t *testing.T) {
			fx := newFixture(t, manyDoc(total, 0))

			for p := 0; p <= 4; p++ {
				if p > 0 {
					fx.in.ShowMore()
				}
				assert.Len(t, fx.in.Rows(), min(total, SearchPageSize+SearchPageSize*p), "after %d show more", p)
			}
			assert.False(t, fx.in.Page().HasMore())
			assert.False(t, fx.in.ShowMore())
		})
	}
}

func TestSearch_ShowMoreDoesNotQuery(t *testing.T) {
	fx := newFixture(t, manyDoc(250, 0))
	calls := len(fx.viewer.calls)

	require.True(t, fx.in.ShowMore())
	assert.Len(t, fx.viewer.calls, calls, "paging does not re-run the query")
}

func TestSearch_TextHighlightsRelated(t *testing.T) {
	fx := newFixture(t, sampleDoc())

	require.NoError(t, fx.in.SetFilters(Filters{Text: "revenue", ShowVisible: true, ShowHidden: true}))
	assert.Equal(t, []string{"rev21", "rev22", "rev23", "rev23dup"}, fx.viewer.relatedIDs())

	// a filter-only query clears the previous query's highlighting
	require.NoError(t, fx.in.SetFilters(Filters{ShowVisible: true, ShowHidden: true}))
	assert.Empty(t, fx.viewer.relatedIDs())
	assert.Equal(t, 8, fx.in.Page().Len())
}

func TestSearch_WhitespaceTextHighlights(t *testing.T) {
	fx := newFixture(t, sampleDoc())

	// any typed text counts, even if it holds no search terms
	require.NoError(t, fx.in.SetFilters(Filters{Text: "  ", ShowVisible: true, ShowHidden: true}))
	assert.Equal(t, 8, fx.in.Page().Len())
	assert.Len(t, fx.viewer.relatedIDs(), 8)
}

func TestSearch_HighlightDisabled(t *testing.T) {
	fx := newFixture(t, sampleDoc(), withoutHighlight())

	require.NoError(t, fx.in.SetFilters(Filters{Text: "revenue", ShowVisible: true, ShowHidden: true}))
	assert.Equal(t, 4, fx.in.Page().Len())
	assert.Empty(t, fx.viewer.relatedIDs())
}

func TestSearch_ClearBeforeHighlight(t *testing.T) {
	fx := newFixture(t, sampleDoc())
	fx.viewer.calls = nil

	require.NoError(t, fx.in.SetFilters(Filters{Text: "cost", ShowVisible: true, ShowHidden: true}))
	assert.Equal(t, []string{"clear-related", "related"}, fx.viewer.calls)
}

func TestSearch_NoMatch(t *testing.T) {
	fx := newFixture(t, sampleDoc())

	require.NoError(t, fx.in.SetFilters(Filters{Text: "zzzz", ShowVisible: true, ShowHidden: true}))

	state, empty := fx.in.EmptyState()
	require.True(t, empty)
	assert.Equal(t, EmptyState{Title: "No Match Found", Text: "Try again with different keywords"}, state)
	assert.Empty(t, fx.in.Rows())
	assert.Empty(t, fx.viewer.relatedIDs())
}

func TestSearch_NeitherVisibility(t *testing.T) {
	fx := newFixture(t, sampleDoc())

	require.NoError(t, fx.in.SetFilters(Filters{Text: "revenue", Period: search.AllPeriods, ConceptType: search.AllTypes}))
	assert.True(t, fx.in.Page().Empty())
}

func TestSearch_SpecIsRebuiltEachTime(t *testing.T) {
	fx := newFixture(t, sampleDoc())

	require.NoError(t, fx.in.SetFilters(Filters{ShowHidden: true, Period: search.AllPeriods, ConceptType: search.AllTypes}))
	assert.Equal(t, 1, fx.in.Page().Len())

	// nothing from the previous query leaks into the next one
	require.NoError(t, fx.in.SetFilters(Filters{ShowVisible: true, ConceptType: search.TypeText}))
	assert.Equal(t, []string{"name"}, rowIDs(fx.in.Rows()))
}

func TestSearch_ResetFilters(t *testing.T) {
	fx := newFixture(t, sampleDoc())
	require.NoError(t, fx.in.SetFilters(Filters{
		Text:        "revenue",
		ShowVisible: false,
		ShowHidden:  true,
		Period:      reporttest.Year(2022).Key(),
		ConceptType: search.TypeText,
	}))
	assert.True(t, fx.in.Page().Empty())

	require.NoError(t, fx.in.ResetFilters())

	want := DefaultFilters()
	want.Text = "revenue"
	assert.Equal(t, want, fx.in.Filters())
	assert.Equal(t, 4, fx.in.Page().Len())
}

func TestSearch_WaitsForIndex(t *testing.T) {
	fx := newFixture(t, sampleDoc(), withIndexNotReady())

	// the engine would fail with ErrIndexNotReady if it were queried
	require.NoError(t, fx.in.Search())
	require.NoError(t, fx.in.SetFilters(Filters{Text: "revenue", ShowVisible: true}))
	require.NoError(t, fx.in.ResetFilters())
	assert.False(t, fx.in.IndexReady())
	assert.True(t, fx.in.Page().Empty())
	assert.Nil(t, fx.in.Periods())
	_, empty := fx.in.EmptyState()
	assert.False(t, empty, "no empty state before the first query")

	require.NoError(t, fx.engine.BuildIndex(t.Context()))
	require.NoError(t, fx.in.OnIndexReady())
	assert.Equal(t, 4, fx.in.Page().Len())
	assert.NotEmpty(t, fx.in.Periods())
}

func TestRows(t *testing.T) {
	fx := newFixture(t, sampleDoc())
	fx.in.SelectItem("rev22", nil, false)
	fx.in.EnterSelectionMode()
	fx.in.ToggleSigning("rev23")
	fx.in.HoverTag("cost23")

	rows := fx.in.Rows()
	require.Len(t, rows, 8)

	byID := map[string]ResultRow{}
	for _, r := range rows {
		byID[r.ID] = r
	}
	assert.Equal(t, "Revenue", byID["rev23"].Title)
	assert.Equal(t, "1 Jan 2023 to 31 Dec 2023", byID["rev23"].Period)
	assert.True(t, byID["rev23"].Checked)
	assert.True(t, byID["rev23dup"].Hidden)
	assert.True(t, byID["rev22"].Selected)
	assert.True(t, byID["cost23"].Linked)
	assert.False(t, byID["rev23"].Selected)
}

func rowIDs(rows []ResultRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}
