package report_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/ixv/internal/core/report"
	"github.com/colonyops/ixv/internal/core/report/reporttest"
)

const sampleReport = `{
  "concepts": {
    "us-gaap:Revenue": {"labels": {"std": "Revenue", "doc": "Income from sales"}, "type": "monetary"},
    "us-gaap:Segment": {"labels": {"std": "Segment"}}
  },
  "roles": {"ns0": "Income statement"},
  "calculations": {"ns0": {"us-gaap:Profit": [{"concept": "us-gaap:Revenue", "weight": 1}]}},
  "facts": [
    {"id": "f1", "concept": "us-gaap:Revenue", "period": {"start": "2023-01-01", "end": "2023-12-31"},
     "value": "1500", "unit": "iso4217:USD", "decimals": -3, "table": "t1",
     "context": {"id": "c1", "entity": "e1", "period": "p1"},
     "validation": [{"severity": 1, "message": "check"}, {"severity": "error", "message": "bad"}]},
    {"id": "f2", "concept": "us-gaap:Revenue", "period": {"start": "2023-01-01", "end": "2023-12-31"},
     "value": "1500", "unit": "iso4217:USD", "hidden": true,
     "context": {"id": "c1", "entity": "e1", "period": "p1"}},
    {"id": "f3", "concept": "us-gaap:Revenue", "period": {"start": "2022-01-01", "end": "2022-12-31"},
     "value": "1000", "unit": "iso4217:USD",
     "context": {"id": "c2", "entity": "e1", "period": "p2"}},
    {"id": "f4", "concept": "us-gaap:Name", "period": {"instant": "2023-12-31"}, "value": "  ACME   Corp ",
     "context": {"id": "c3", "entity": "e1", "period": "p3"}}
  ],
  "footnotes": [{"id": "fn1", "text": "A note", "facts": ["f1", "f3"]}]
}`

func parseSample(t *testing.T) *report.Report {
	t.Helper()
	r, err := report.Parse(strings.NewReader(sampleReport))
	require.NoError(t, err)
	return r
}

func TestParse(t *testing.T) {
	r := parseSample(t)

	assert.Len(t, r.Facts(), 4)
	assert.Len(t, r.Footnotes(), 1)
	assert.Len(t, r.Items(), 5)

	f1, ok := r.Fact("f1")
	require.True(t, ok)
	assert.Equal(t, []string{"fn1"}, f1.Footnotes)
	assert.Equal(t, report.SeverityWarn, f1.Validation[0].Severity)
	assert.Equal(t, report.SeverityError, f1.Validation[1].Severity)
	assert.Equal(t, "c1", f1.Context.ContextID)

	assert.Equal(t, "Revenue", r.Label("us-gaap:Revenue", "std"))
	assert.Equal(t, "us-gaap:Name", r.Label("us-gaap:Name", "std"))
	assert.Equal(t, "", r.Label("us-gaap:Name", "doc"))
	assert.Equal(t, "Income statement", r.RoleLabel("ns0"))
	assert.Equal(t, "ns1", r.RoleLabel("ns1"))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "malformed", input: `{`, wantErr: "decode"},
		{name: "missing id", input: `{"facts": [{"concept": "a", "period": {"instant": "2023-01-01"}}]}`, wantErr: "id is required"},
		{name: "duplicate id", input: `{"facts": [
			{"id": "a", "concept": "a", "period": {"instant": "2023-01-01"}},
			{"id": "a", "concept": "b", "period": {"instant": "2023-01-01"}}]}`, wantErr: "duplicate item id"},
		{name: "unknown footnote fact", input: `{"footnotes": [{"id": "fn", "facts": ["nope"]}]}`, wantErr: "item not found"},
		{name: "bad period", input: `{"facts": [{"id": "a", "concept": "a", "period": {}}]}`, wantErr: "instant or start"},
		{name: "bad severity", input: `{"facts": [{"id": "a", "concept": "a", "period": {"instant": "2023-01-01"},
			"validation": [{"severity": 7}]}]}`, wantErr: "invalid severity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := report.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestItemByID(t *testing.T) {
	r := parseSample(t)

	item, err := r.ItemByID("fn1")
	require.NoError(t, err)
	assert.Equal(t, report.KindFootnote, item.Kind())

	_, err = r.ItemByID("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, report.ErrNotFound))
}

func TestDuplicatesAndAlignment(t *testing.T) {
	r := parseSample(t)
	f1, _ := r.Fact("f1")
	f3, _ := r.Fact("f3")

	dups := r.DuplicatesOf(f1)
	require.Len(t, dups, 2)
	assert.Equal(t, "f1", dups[0].ID)
	assert.Equal(t, "f2", dups[1].ID)

	assert.Equal(t, []*report.Fact{f3}, r.DuplicatesOf(f3))

	aligned := r.AlignedFacts(f1, true)
	assert.Len(t, aligned, 3)

	assert.Len(t, r.FactsInSameTable(f1), 1)
	assert.Nil(t, r.FactsInSameTable(f3))
}

func TestFactsWithConcept(t *testing.T) {
	rev := reporttest.Numeric("rev", "Revenue", reporttest.Year(2023), "10")
	cost := reporttest.Numeric("cost", "Cost", reporttest.Year(2023), "4")
	oldCost := reporttest.Numeric("old", "Cost", reporttest.Year(2022), "3")
	r := reporttest.Facts(t, rev, cost, oldCost)

	assert.Equal(t, []*report.Fact{cost}, r.FactsWithConcept(rev, "Cost"))
	assert.Empty(t, r.FactsWithConcept(rev, "Other"))
}

func TestReadableValue(t *testing.T) {
	two := 2
	neg := -3
	zero := 0

	tests := []struct {
		name string
		fact *report.Fact
		want string
	}{
		{name: "integer with unit", fact: &report.Fact{Value: "1234567", Unit: "iso4217:USD", Decimals: &neg}, want: "USD 1,234,567"},
		{name: "decimals", fact: &report.Fact{Value: "1234.5", Unit: "xbrli:pure", Decimals: &two}, want: "pure 1,234.50"},
		{name: "exact fraction", fact: &report.Fact{Value: "0.75", Unit: "iso4217:USD"}, want: "USD 0.75"},
		{name: "exact negative fraction", fact: &report.Fact{Value: "-0.5", Unit: "iso4217:USD"}, want: "USD -0.5"},
		{name: "exact large", fact: &report.Fact{Value: "1234567.25", Unit: "iso4217:USD"}, want: "USD 1,234,567.25"},
		{name: "zero decimals rounds", fact: &report.Fact{Value: "2.7", Unit: "iso4217:USD", Decimals: &zero}, want: "USD 3"},
		{name: "zero decimals rounds negative", fact: &report.Fact{Value: "-2.5", Unit: "iso4217:USD", Decimals: &zero}, want: "USD -3"},
		{name: "text collapses whitespace", fact: &report.Fact{Value: "  ACME \n Corp "}, want: "ACME Corp"},
		{name: "empty text", fact: &report.Fact{}, want: "nil"},
		{name: "unparsable number", fact: &report.Fact{Value: "abc", Unit: "u"}, want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fact.ReadableValue())
		})
	}
}

func TestReadableAccuracy(t *testing.T) {
	neg := -6
	odd := 5

	assert.Equal(t, "n/a", (&report.Fact{}).ReadableAccuracy())
	assert.Equal(t, "Infinite precision", (&report.Fact{Unit: "u"}).ReadableAccuracy())
	assert.Equal(t, "millions", (&report.Fact{Unit: "u", Decimals: &neg}).ReadableAccuracy())
	assert.Equal(t, "5", (&report.Fact{Unit: "u", Decimals: &odd}).ReadableAccuracy())
}

func TestSignature(t *testing.T) {
	s := report.Signature{Type: report.RoleOfficial, Attributes: map[string]string{
		"personLegalName": "Jane Doe",
		"officialRole":    "CFO",
		"LEI":             "5493001KJTIIGC8Y1R12",
	}}
	assert.True(t, s.Official())
	assert.Equal(t, "CFO", s.Role())
	assert.Equal(t, "Jane Doe", s.LegalName())

	c := report.Credential{ECR: map[string]string{"engagementContextRole": "Auditor"}}
	sig, ok := c.Signature()
	require.True(t, ok)
	assert.Equal(t, "Auditor", sig.Role())

	_, ok = report.Credential{}.Signature()
	assert.False(t, ok)
}
