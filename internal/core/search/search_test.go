package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/ixv/internal/core/report"
	"github.com/colonyops/ixv/internal/core/report/reporttest"
)

func allSpec(text string) Spec {
	return Spec{Text: text, ShowVisible: true, ShowHidden: true, Period: AllPeriods, ConceptType: AllTypes}
}

func ids(results []Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Fact.ID)
	}
	return out
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	revenue := reporttest.Numeric("rev", "us-gaap:Revenue", reporttest.Year(2023), "100")
	oldRevenue := reporttest.Numeric("rev22", "us-gaap:Revenue", reporttest.Year(2022), "90")
	hidden := reporttest.Numeric("hid", "us-gaap:Headcount", reporttest.Year(2023), "12")
	hidden.Hidden = true
	name := reporttest.Text("name", "dei:EntityName", reporttest.Instant("2023-12-31"), "Quokka Holdings")

	r := reporttest.Build(t, report.Document{
		Concepts: map[string]report.Concept{
			"us-gaap:Revenue": {Labels: map[string]string{"std": "Revenue"}},
		},
		Facts: []*report.Fact{revenue, oldRevenue, hidden, name},
	})

	e := New(r)
	require.NoError(t, e.BuildIndex(context.Background()))
	return e
}

func TestEngine_NotReady(t *testing.T) {
	e := New(reporttest.Facts(t, reporttest.Many(2)...))

	_, err := e.Search(allSpec(""))
	require.ErrorIs(t, err, ErrIndexNotReady)
	assert.Nil(t, e.Periods())

	select {
	case <-e.Ready():
		t.Fatal("ready closed before BuildIndex")
	default:
	}

	require.NoError(t, e.BuildIndex(context.Background()))
	<-e.Ready()
	require.NoError(t, e.BuildIndex(context.Background()), "second build is a no-op")
}

func TestEngine_BuildIndexCancelled(t *testing.T) {
	e := New(reporttest.Facts(t, reporttest.Many(3)...))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, e.BuildIndex(ctx), context.Canceled)
	_, err := e.Search(allSpec(""))
	assert.ErrorIs(t, err, ErrIndexNotReady)
}

func TestEngine_Filters(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		name string
		spec Spec
		want []string
	}{
		{name: "everything in document order", spec: allSpec(""), want: []string{"rev", "rev22", "hid", "name"}},
		{name: "visible only", spec: Spec{ShowVisible: true, Period: AllPeriods, ConceptType: AllTypes}, want: []string{"rev", "rev22", "name"}},
		{name: "hidden only", spec: Spec{ShowHidden: true, Period: AllPeriods, ConceptType: AllTypes}, want: []string{"hid"}},
		{name: "neither visibility", spec: Spec{Period: AllPeriods, ConceptType: AllTypes}, want: []string{}},
		{name: "period", spec: Spec{ShowVisible: true, ShowHidden: true, Period: reporttest.Year(2022).Key(), ConceptType: AllTypes}, want: []string{"rev22"}},
		{name: "numeric", spec: Spec{ShowVisible: true, ShowHidden: true, Period: AllPeriods, ConceptType: TypeNumeric}, want: []string{"rev", "rev22", "hid"}},
		{name: "text", spec: Spec{ShowVisible: true, ShowHidden: true, Period: AllPeriods, ConceptType: TypeText}, want: []string{"name"}},
		{name: "concept glob", spec: Spec{ShowVisible: true, ShowHidden: true, ConceptPattern: "us-gaap:*"}, want: []string{"rev", "rev22", "hid"}},
		{name: "empty filters mean all", spec: Spec{ShowVisible: true, ShowHidden: true}, want: []string{"rev", "rev22", "hid", "name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := e.Search(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(results))
		})
	}
}

func TestEngine_BadPattern(t *testing.T) {
	e := newEngine(t)

	spec := allSpec("")
	spec.ConceptPattern = "us-gaap:[Rev"
	_, err := e.Search(spec)
	assert.Error(t, err)
}

func TestEngine_Text(t *testing.T) {
	e := newEngine(t)

	results, err := e.Search(allSpec("quokka"))
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, ids(results))

	results, err = e.Search(allSpec("REVENUE"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"rev", "rev22"}, ids(results))

	// every term must match
	results, err = e.Search(allSpec("revenue quokka"))
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = e.Search(allSpec("zzzz"))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngine_Periods(t *testing.T) {
	e := newEngine(t)

	periods := e.Periods()
	require.Len(t, periods, 3)
	// same closing date: ordered by key
	assert.Equal(t, reporttest.Year(2023).Key(), periods[0].Key)
	assert.Equal(t, "31 Dec 2023", periods[1].Label)
	assert.Equal(t, "1 Jan 2022 to 31 Dec 2022", periods[2].Label)
}
