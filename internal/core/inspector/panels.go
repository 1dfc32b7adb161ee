package inspector

import (
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/ixv/internal/core/report"
)

const (
	// maxValueWidth is the width at which values and footnotes are cut.
	maxValueWidth = 120

	gleifRecordURL = "https://search.gleif.org/#/record/"
)

type Mode int

const (
	ModeEmpty Mode = iota
	ModeFact
	ModeFootnote
)

func (m Mode) String() string {
	switch m {
	case ModeFact:
		return "fact"
	case ModeFootnote:
		return "footnote"
	default:
		return "empty"
	}
}

// Dimension is a dimension/member pair by label.
type Dimension struct {
	Dimension string
	Member    string
}

// SummaryCard summarizes one alternate of the selection.
type SummaryCard struct {
	ID      string
	Kind    report.Kind
	Title   string
	Current bool

	Label         string
	Documentation string
	Concept       string
	Extension     bool
	Period        string
	Entity        string
	Value         string
	FullValue     string
	Truncated     bool
	Accuracy      string
	Dimensions    []Dimension
	Hidden        bool
}

// SignatureCard is a vLEI signature on the selected fact or the report.
type SignatureCard struct {
	Title     string
	LegalName string
	Role      string
	LEI       string
	URL       string
}

// FootnoteLine is a footnote attached to the selected fact.
type FootnoteLine struct {
	ID   string
	Text string
}

// ResultRow is a fact row in the search results or a footnote's fact list.
type ResultRow struct {
	ID         string
	Title      string
	Period     string
	Dimensions []string
	Hidden     bool
	Selected   bool
	Checked    bool
	Linked     bool
}

// Panels are the views derived from the current selection.
type Panels struct {
	Mode    Mode
	Summary []SummaryCard
	Hidden  bool

	Calculations []CalcCard
	Signatures   []SignatureCard
	Footnotes    []FootnoteLine
	Validation   []report.ValidationResult
	Duplicates   DuplicateNav
	Change       Change

	FootnoteFacts []*report.Fact
}

// NoIssues reports whether the validation panel shows its empty state.
func (p Panels) NoIssues() bool { return len(p.Validation) == 0 }

// buildPanels derives every panel from the selection. It has no side effects.
func buildPanels(idx report.Index, res *Resolver, sel Selection, elr string) Panels {
	if sel.Current() == nil {
		return Panels{Mode: ModeEmpty}
	}

	p := Panels{Summary: summaryCards(idx, sel)}

	switch it := sel.Current().(type) {
	case *report.Fact:
		p.Mode = ModeFact
		p.Hidden = it.Hidden
		p.Calculations = res.Calculations(it, elr)
		p.Signatures = signatureCards(idx, it)
		p.Validation = it.Validation
		p.Duplicates = res.Duplicates(it)
		p.Change = res.PeriodChange(it)
		for _, fn := range res.Footnotes(it) {
			text, _ := truncate(fn.Text)
			p.Footnotes = append(p.Footnotes, FootnoteLine{ID: fn.ID, Text: text})
		}
	case *report.Footnote:
		p.Mode = ModeFootnote
		p.FootnoteFacts = res.FootnoteFacts(it)
	}
	return p
}

func truncate(s string) (string, bool) {
	if ansi.StringWidth(s) <= maxValueWidth {
		return s, false
	}
	return ansi.Truncate(s, maxValueWidth, "…"), true
}

func summaryCards(idx report.Index, sel Selection) []SummaryCard {
	items := sel.Alternates()
	titles := uniqueTitles(idx, items)

	cards := make([]SummaryCard, 0, len(items))
	for i, item := range items {
		card := SummaryCard{
			ID:      item.ItemID(),
			Kind:    item.Kind(),
			Title:   titles[i],
			Current: item.ItemID() == sel.CurrentID(),
		}

		switch it := item.(type) {
		case *report.Fact:
			concept := idx.Concept(it.Concept)
			card.Label = concept.Label("std")
			card.Documentation = concept.Label("doc")
			card.Concept = it.Concept
			card.Extension = concept.Extension
			card.Period = it.PeriodString()
			card.Entity = it.Context.EntityID
			card.FullValue = it.ReadableValue()
			card.Value, card.Truncated = truncate(card.FullValue)
			card.Accuracy = it.ReadableAccuracy()
			card.Dimensions = dimensions(idx, it)
			card.Hidden = it.Hidden
		case *report.Footnote:
			card.FullValue = it.Text
			card.Value, card.Truncated = truncate(it.Text)
		}
		cards = append(cards, card)
	}
	return cards
}

func dimensions(idx report.Index, f *report.Fact) []Dimension {
	keys := make([]string, 0, len(f.Dimensions))
	for d := range f.Dimensions {
		keys = append(keys, d)
	}
	sort.Strings(keys)

	out := make([]Dimension, 0, len(keys))
	for _, d := range keys {
		out = append(out, Dimension{
			Dimension: idx.Concept(d).Label("std"),
			Member:    idx.Concept(f.Dimensions[d]).Label("std"),
		})
	}
	return out
}

// uniqueTitles labels each item with the shortest title that tells it apart
// from the other items: the concept label, then the period, then the
// dimension members.
func uniqueTitles(idx report.Index, items []report.Item) []string {
	type parts struct {
		label, period, dims string
	}

	ps := make([]parts, len(items))
	for i, item := range items {
		switch it := item.(type) {
		case *report.Fact:
			var dims []string
			for _, d := range dimensions(idx, it) {
				dims = append(dims, d.Member)
			}
			ps[i] = parts{
				label:  idx.Concept(it.Concept).Label("std"),
				period: it.PeriodString(),
				dims:   joinNonEmpty(dims, ", "),
			}
		case *report.Footnote:
			ps[i] = parts{label: "Footnote", period: it.ID}
		}
	}

	count := func(key func(parts) string) map[string]int {
		m := make(map[string]int)
		for _, p := range ps {
			m[key(p)]++
		}
		return m
	}
	byLabel := count(func(p parts) string { return p.label })
	byPeriod := count(func(p parts) string { return p.label + "|" + p.period })

	titles := make([]string, len(items))
	for i, p := range ps {
		switch {
		case byLabel[p.label] == 1:
			titles[i] = p.label
		case byPeriod[p.label+"|"+p.period] == 1 || p.dims == "":
			titles[i] = p.label + " (" + p.period + ")"
		default:
			titles[i] = p.label + " (" + p.period + ", " + p.dims + ")"
		}
	}
	return titles
}

func joinNonEmpty(ss []string, sep string) string {
	return strings.Join(slices.DeleteFunc(ss, func(s string) bool { return s == "" }), sep)
}

func signatureCards(idx report.Index, f *report.Fact) []SignatureCard {
	var cards []SignatureCard
	for _, s := range f.Signatures {
		cards = append(cards, signatureCard(s))
	}

	for _, cred := range idx.Credentials() {
		if len(cred.Facts) > 0 && !slices.Contains(cred.Facts, f.ID) {
			continue
		}
		if s, ok := cred.Signature(); ok {
			cards = append(cards, signatureCard(s))
		}
	}
	return cards
}

func signatureCard(s report.Signature) SignatureCard {
	role := "Engagement Context"
	if s.Official() {
		role = "Official"
	}
	return SignatureCard{
		Title:     "Signature with vLEI " + role + " Role",
		LegalName: s.LegalName(),
		Role:      s.Role(),
		LEI:       s.LEI(),
		URL:       gleifRecordURL + s.LEI(),
	}
}
