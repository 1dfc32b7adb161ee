package inspector

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/colonyops/ixv/internal/core/report"
)

// Resolver relates a selected item to the rest of the report.
type Resolver struct {
	idx  report.Index
	calc Calculator
}

func NewResolver(idx report.Index, calc Calculator) *Resolver {
	return &Resolver{idx: idx, calc: calc}
}

// DuplicateNav is the position of a fact in its duplicate group and its
// wrapping neighbours.
type DuplicateNav struct {
	Position int
	Count    int
	Prev     *report.Fact
	Next     *report.Fact
}

// Duplicates locates f in its duplicate group. The group order is the
// index's; it is not re-sorted.
func (r *Resolver) Duplicates(f *report.Fact) DuplicateNav {
	group := r.idx.DuplicatesOf(f)
	n := len(group)
	if n == 0 {
		return DuplicateNav{Count: 1, Prev: f, Next: f}
	}

	k := 0
	for i, d := range group {
		if d.ID == f.ID {
			k = i
			break
		}
	}

	return DuplicateNav{
		Position: k,
		Count:    n,
		Prev:     group[(k-1+n)%n],
		Next:     group[(k+1)%n],
	}
}

type ChangeKind int

const (
	ChangeNotApplicable ChangeKind = iota
	ChangeNoPrior
	ChangePercent
	ChangeDescriptive
)

// Change describes a numeric fact against the most recent comparable fact
// for an earlier period.
type Change struct {
	Kind ChangeKind
	// Percent is set for ChangePercent.
	Percent float64
	// Text is the lead-in, e.g. "50.0% increase on " or "From USD 100 in ".
	Text        string
	Prior       *report.Fact
	PriorPeriod string
	// PriorFacts are every fact aligned with Prior, for the fact link.
	PriorFacts []*report.Fact
}

func (c Change) String() string {
	switch c.Kind {
	case ChangeNotApplicable:
		return "n/a"
	case ChangeNoPrior:
		return "No prior fact"
	default:
		return c.Text + c.PriorPeriod
	}
}

// PeriodChange compares f with the aligned fact whose closing date is the
// latest one strictly before f's and whose duration is equivalent. Facts
// sharing that date keep the first one in index order.
func (r *Resolver) PeriodChange(f *report.Fact) Change {
	if !f.IsNumeric() {
		return Change{Kind: ChangeNotApplicable}
	}

	closing, ok := f.Period.Closing()
	if !ok {
		return Change{Kind: ChangeNoPrior}
	}

	var prior *report.Fact
	var priorClosing time.Time
	for _, other := range r.idx.AlignedFacts(f, true) {
		oc, ok := other.Period.Closing()
		if !ok || !oc.Before(closing) || !f.Period.EquivalentDuration(other.Period) {
			continue
		}
		if prior != nil && !oc.After(priorClosing) {
			continue
		}
		prior, priorClosing = other, oc
	}

	if prior == nil {
		return Change{Kind: ChangeNoPrior}
	}

	text, pct, isPct := DescribeChange(prior, f)
	c := Change{
		Kind:        ChangeDescriptive,
		Text:        text,
		Prior:       prior,
		PriorPeriod: prior.PeriodString(),
		PriorFacts:  r.idx.AlignedFacts(prior, false),
	}
	if isPct {
		c.Kind = ChangePercent
		c.Percent = pct
	}
	return c
}

// DescribeChange words the change from prior to current. A percentage is
// only given when both values share a sign (zero matching either), they are
// not both zero and the prior value is non-zero. Otherwise the prior value
// is quoted instead.
func DescribeChange(prior, current *report.Fact) (string, float64, bool) {
	oldV, okOld := prior.Number()
	newV, okNew := current.Number()

	sameSign := oldV == 0 || newV == 0 || (oldV > 0) == (newV > 0)
	if okOld && okNew && sameSign && math.Abs(oldV)+math.Abs(newV) > 0 && oldV != 0 {
		pct := (newV - oldV) * 100 / oldV
		if pct >= 0 {
			return humanize.FormatFloat("#,###.#", pct) + "% increase on ", pct, true
		}
		return humanize.FormatFloat("#,###.#", -pct) + "% decrease on ", pct, true
	}
	return "From " + prior.ReadableValue() + " in ", 0, false
}

// CalcLine is one row of a calculation card.
type CalcLine struct {
	Sign    string
	Concept string
	Label   string
	// FactIDs back the line; empty for lines without facts and for the
	// total line.
	FactIDs []string
	Total   bool
}

// Linked reports whether the line can be activated and hovered.
func (l CalcLine) Linked() bool { return len(l.FactIDs) > 0 }

// Has reports whether id backs the line.
func (l CalcLine) Has(id string) bool {
	for _, fid := range l.FactIDs {
		if fid == id {
			return true
		}
	}
	return false
}

// CalcCard is the calculation of the selected fact in one extended link role.
type CalcCard struct {
	ELR   string
	Label string
	Lines []CalcLine
	// Open marks the card of the resolved role.
	Open bool
}

// Calculations builds the calculation cards of f. The role is elr when
// given, otherwise the best fit for f's table when f is in one; when no role
// resolves every role f is a total in is returned.
func (r *Resolver) Calculations(f *report.Fact, elr string) []CalcCard {
	elrs := r.calc.ELRs(f)
	if len(elrs) == 0 {
		return nil
	}

	if elr == "" && f.Table != "" {
		elr = r.calc.BestELR(f, r.idx.FactsInSameTable(f))
	}

	var cards []CalcCard
	for _, e := range elrs {
		if elr != "" && e != elr {
			continue
		}

		var lines []CalcLine
		for _, l := range r.calc.Resolve(f, e) {
			ids := make([]string, 0, len(l.Facts))
			for _, lf := range l.Facts {
				ids = append(ids, lf.ID)
			}
			lines = append(lines, CalcLine{
				Sign:    l.WeightSign(),
				Concept: l.Concept,
				Label:   r.idx.Concept(l.Concept).Label("std"),
				FactIDs: ids,
			})
		}
		lines = append(lines, CalcLine{
			Concept: f.Concept,
			Label:   r.idx.Concept(f.Concept).Label("std"),
			Total:   true,
		})

		cards = append(cards, CalcCard{
			ELR:   e,
			Label: r.idx.RoleLabel(e),
			Lines: lines,
			Open:  e == elr,
		})
	}
	return cards
}

// FootnoteFacts returns the facts a footnote annotates.
func (r *Resolver) FootnoteFacts(fn *report.Footnote) []*report.Fact {
	out := make([]*report.Fact, 0, len(fn.Facts))
	for _, id := range fn.Facts {
		if f, ok := r.item(id).(*report.Fact); ok {
			out = append(out, f)
		}
	}
	return out
}

// Footnotes returns the footnotes attached to f.
func (r *Resolver) Footnotes(f *report.Fact) []*report.Footnote {
	out := make([]*report.Footnote, 0, len(f.Footnotes))
	for _, id := range f.Footnotes {
		if fn, ok := r.item(id).(*report.Footnote); ok {
			out = append(out, fn)
		}
	}
	return out
}

func (r *Resolver) item(id string) report.Item {
	it, err := r.idx.ItemByID(id)
	if err != nil {
		return nil
	}
	return it
}
