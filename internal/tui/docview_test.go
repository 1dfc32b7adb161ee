package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/ixv/internal/core/report"
	"github.com/colonyops/ixv/internal/core/report/reporttest"
	"github.com/colonyops/ixv/pkg/tuitest"
)

func manyView(t *testing.T, n int) *DocView {
	t.Helper()
	return NewDocView(reporttest.Facts(t, reporttest.Many(n)...))
}

func TestDocView_HighlightPrecedence(t *testing.T) {
	d := NewDocView(reporttest.Build(t, testDoc()))

	d.HighlightPrimary("rev23")
	d.HighlightLinked([]string{"rev23", "cost23"}, true)
	d.HighlightRelated([]string{"cost23", "rev22"})

	assert.Equal(t, tagPrimary, d.state("rev23"))
	assert.Equal(t, tagLinked, d.state("cost23"))
	assert.Equal(t, tagRelated, d.state("rev22"))
	assert.Equal(t, tagPlain, d.state("profit23"))

	d.HighlightLinked([]string{"cost23"}, false)
	assert.Equal(t, tagRelated, d.state("cost23"))

	d.ClearRelatedHighlighting()
	assert.Equal(t, tagPlain, d.state("rev22"))
	assert.Equal(t, tagPrimary, d.state("rev23"))

	d.ClearAllHighlighting()
	assert.Equal(t, tagPlain, d.state("rev23"))
}

func TestDocView_Signed(t *testing.T) {
	d := NewDocView(reporttest.Build(t, testDoc()))

	assert.Equal(t, 2, d.SignedCount(), "signature on rev22, credential on cost23")
	assert.Equal(t, tagPlain, d.state("cost23"), "signed highlight starts off")

	assert.True(t, d.ToggleSigned())
	assert.Equal(t, tagSigned, d.state("cost23"))
	assert.Equal(t, tagSigned, d.state("rev22"))
	assert.Equal(t, tagPlain, d.state("profit23"))

	assert.False(t, d.ToggleSigned())
	assert.Equal(t, tagPlain, d.state("cost23"))
}

func TestDocView_SignedReportWide(t *testing.T) {
	doc := report.Document{
		Facts: reporttest.Many(3),
		Credentials: []report.Credential{
			{ID: "unsigned"},
			{ID: "all", OOR: map[string]string{"LEI": "X"}},
		},
	}
	d := NewDocView(reporttest.Build(t, doc))
	assert.Equal(t, 3, d.SignedCount())
}

func TestDocView_Reveal(t *testing.T) {
	d := manyView(t, 10)
	d.SetHeight(3)

	d.Reveal("f8", false)
	assert.Equal(t, "f8", d.CursorID())
	assert.Equal(t, 6, d.offset)

	d.Reveal("f7", false)
	assert.Equal(t, 6, d.offset, "already visible")

	d.Reveal("f7", true)
	assert.Equal(t, 5, d.offset, "forced reveal repositions")

	d.Reveal("f1", false)
	assert.Equal(t, 0, d.offset)

	d.Reveal("missing", true)
	assert.Equal(t, "f1", d.CursorID())
}

func TestDocView_MoveCursor(t *testing.T) {
	d := manyView(t, 5)
	d.SetHeight(2)

	d.MoveCursor(-1)
	assert.Equal(t, "f1", d.CursorID())

	d.MoveCursor(3)
	assert.Equal(t, "f4", d.CursorID())
	assert.Equal(t, 2, d.offset)

	d.MoveCursor(10)
	assert.Equal(t, "f5", d.CursorID())
	assert.Equal(t, 3, d.offset)
}

func TestDocView_SetHeightKeepsCursorVisible(t *testing.T) {
	d := manyView(t, 20)
	d.SetHeight(10)
	d.MoveCursor(9)
	assert.Equal(t, 0, d.offset)

	d.SetHeight(3)
	assert.True(t, d.visible(9))
	assert.Equal(t, 8, d.offset)
}

func TestDocView_NextTag(t *testing.T) {
	d := NewDocView(reporttest.Build(t, report.Document{
		Facts:     reporttest.Many(3),
		Footnotes: []*report.Footnote{{ID: "fn1", Text: "note", Facts: []string{"f1"}}},
	}))

	tests := []struct {
		from  string
		delta int
		want  string
	}{
		{from: "f1", delta: 1, want: "f2"},
		{from: "f3", delta: 1, want: "f1"},
		{from: "f1", delta: -1, want: "f3"},
		{from: "fn1", delta: 1, want: "f1"},
		{from: "fn1", delta: -1, want: "f3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, d.NextTag(tt.from, tt.delta), "%s %+d", tt.from, tt.delta)
	}

	d.MoveCursor(1)
	assert.Equal(t, "f3", d.NextTag("", 1), "unknown id starts from the cursor")
}

func TestDocView_Render(t *testing.T) {
	d := NewDocView(reporttest.Build(t, testDoc()))
	d.SetHeight(20)

	out := tuitest.StripANSI(d.Render(80))
	assert.Contains(t, out, "› ")
	assert.Contains(t, out, "Revenue")
	assert.Contains(t, out, "Restated figures")

	d.SetHeight(1)
	assert.Len(t, splitLines(d.Render(80)), 1)
}

func TestDocView_RenderEmpty(t *testing.T) {
	d := NewDocView(reporttest.Build(t, report.Document{}))
	assert.Equal(t, "", d.CursorID())
	assert.Equal(t, "", d.NextTag("", 1))
	assert.Contains(t, tuitest.StripANSI(d.Render(40)), "Empty report")
}
