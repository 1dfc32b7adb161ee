package inspector

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colonyops/ixv/internal/core/calc"
	"github.com/colonyops/ixv/internal/core/report"
	"github.com/colonyops/ixv/internal/core/report/reporttest"
	"github.com/colonyops/ixv/internal/core/search"
)

type reveal struct {
	id    string
	force bool
}

// fakeViewer keeps the highlight state it was told to apply.
type fakeViewer struct {
	primary    string
	linked     map[string]bool
	related    map[string]bool
	lastReveal reveal
	calls      []string
}

func newFakeViewer() *fakeViewer {
	return &fakeViewer{linked: map[string]bool{}, related: map[string]bool{}}
}

func (v *fakeViewer) Reveal(id string, force bool) {
	v.lastReveal = reveal{id: id, force: force}
	v.calls = append(v.calls, "reveal")
}

func (v *fakeViewer) HighlightPrimary(id string) {
	v.primary = id
	v.calls = append(v.calls, "primary")
}

func (v *fakeViewer) HighlightLinked(ids []string, on bool) {
	for _, id := range ids {
		if on {
			v.linked[id] = true
		} else {
			delete(v.linked, id)
		}
	}
	v.calls = append(v.calls, "linked")
}

func (v *fakeViewer) HighlightRelated(ids []string) {
	for _, id := range ids {
		v.related[id] = true
	}
	v.calls = append(v.calls, "related")
}

func (v *fakeViewer) ClearRelatedHighlighting() {
	clear(v.related)
	v.calls = append(v.calls, "clear-related")
}

func (v *fakeViewer) ClearAllHighlighting() {
	v.primary = ""
	clear(v.linked)
	clear(v.related)
	v.calls = append(v.calls, "clear-all")
}

func (v *fakeViewer) relatedIDs() []string {
	return slices.Sorted(maps.Keys(v.related))
}

type fakeNotifier struct {
	ids []string
}

func (n *fakeNotifier) SelectionChanged(id string) error {
	n.ids = append(n.ids, id)
	return nil
}

type fakeExporter struct {
	payloads []string
	err      error
}

func (e *fakeExporter) Export(payload []byte) error {
	if e.err != nil {
		return e.err
	}
	e.payloads = append(e.payloads, string(payload))
	return nil
}

var errExport = errors.New("host went away")

type fixture struct {
	report   *report.Report
	engine   *search.Engine
	viewer   *fakeViewer
	notifier *fakeNotifier
	exporter *fakeExporter
	location *MemoryLocation
	in       *Inspector
}

type fixtureOpt func(*fixtureConfig)

type fixtureConfig struct {
	notReady  bool
	highlight bool
}

func withIndexNotReady() fixtureOpt { return func(c *fixtureConfig) { c.notReady = true } }

func withoutHighlight() fixtureOpt { return func(c *fixtureConfig) { c.highlight = false } }

func newFixture(t *testing.T, doc report.Document, opts ...fixtureOpt) *fixture {
	t.Helper()
	cfg := fixtureConfig{highlight: true}
	for _, o := range opts {
		o(&cfg)
	}

	r := reporttest.Build(t, doc)
	fx := &fixture{
		report:   r,
		engine:   search.New(r),
		viewer:   newFakeViewer(),
		notifier: &fakeNotifier{},
		exporter: &fakeExporter{},
		location: &MemoryLocation{},
	}
	fx.in = New(Deps{
		Index:            r,
		Search:           fx.engine,
		Calc:             calc.New(r),
		Viewer:           fx.viewer,
		Notifier:         fx.notifier,
		Exporter:         fx.exporter,
		Location:         fx.location,
		HighlightResults: cfg.highlight,
	})

	if !cfg.notReady {
		require.NoError(t, fx.engine.BuildIndex(context.Background()))
		require.NoError(t, fx.in.OnIndexReady())
	}
	return fx
}

// sampleDoc is a small income statement:
//
//	rev23 (table t1), rev23dup (hidden duplicate), rev22, rev21
//	cost23 (table t1), profit23 (table t1), profit22
//	name (text), fn1 on rev23 and cost23
func sampleDoc() report.Document {
	y23, y22, y21 := reporttest.Year(2023), reporttest.Year(2022), reporttest.Year(2021)

	rev23 := reporttest.Numeric("rev23", "us-gaap:Revenue", y23, "150")
	rev23.Table = "t1"
	rev23.Validation = []report.ValidationResult{{Severity: report.SeverityWarn, Message: "rounding"}}
	rev23.Signatures = []report.Signature{{
		Type:       report.RoleEngagementContext,
		Attributes: map[string]string{"personLegalName": "Ada Auditor", "engagementContextRole": "Auditor", "LEI": "LEI-ECR"},
	}}
	rev23dup := reporttest.Numeric("rev23dup", "us-gaap:Revenue", y23, "150")
	rev23dup.Hidden = true

	cost23 := reporttest.Numeric("cost23", "us-gaap:Cost", y23, "50")
	cost23.Table = "t1"
	profit23 := reporttest.Numeric("profit23", "us-gaap:Profit", y23, "100")
	profit23.Table = "t1"

	name := reporttest.Text("name", "dei:EntityName", reporttest.Instant("2023-12-31"), strings.Repeat("Quokka ", 30))

	return report.Document{
		Concepts: map[string]report.Concept{
			"us-gaap:Revenue": {Labels: map[string]string{"std": "Revenue", "doc": "Income from sales"}},
			"us-gaap:Cost":    {Labels: map[string]string{"std": "Cost"}},
			"us-gaap:Profit":  {Labels: map[string]string{"std": "Profit"}},
		},
		Roles: map[string]string{"ns1": "Income statement", "ns2": "Revenue only"},
		Calculations: map[string]map[string][]report.Contribution{
			"ns1": {"us-gaap:Profit": {{Concept: "us-gaap:Revenue", Weight: 1}, {Concept: "us-gaap:Cost", Weight: -1}}},
			"ns2": {"us-gaap:Profit": {{Concept: "us-gaap:Revenue", Weight: 1}}},
		},
		Credentials: []report.Credential{
			{ID: "cred1", OOR: map[string]string{"personLegalName": "Olive Officer", "officialRole": "CFO", "LEI": "LEI-OOR"}},
			{ID: "cred2", OOR: map[string]string{"personLegalName": "Nora Name", "officialRole": "CEO", "LEI": "LEI-NAME"}, Facts: []string{"name"}},
		},
		Facts: []*report.Fact{
			rev23, rev23dup,
			reporttest.Numeric("rev22", "us-gaap:Revenue", y22, "100"),
			reporttest.Numeric("rev21", "us-gaap:Revenue", y21, "80"),
			cost23, profit23,
			reporttest.Numeric("profit22", "us-gaap:Profit", y22, "70"),
			name,
		},
		Footnotes: []*report.Footnote{{ID: "fn1", Text: "Restated", Facts: []string{"rev23", "cost23"}}},
	}
}

func ids(facts []*report.Fact) []string {
	out := make([]string, 0, len(facts))
	for _, f := range facts {
		out = append(out, f.ID)
	}
	return out
}
