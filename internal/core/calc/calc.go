// Package calc resolves the summation-item calculations a fact takes part
// in into concrete lines backed by facts from the same report.
package calc

import (
	"sort"

	"github.com/colonyops/ixv/internal/core/report"
)

// Source is the part of the report the resolver reads from.
type Source interface {
	CalculationsFor(concept string) map[string][]report.Contribution
	FactsWithConcept(f *report.Fact, concept string) []*report.Fact
}

// Line is a single contribution to a total. Facts is empty when the report
// holds no fact for the contributing concept in the total's context.
type Line struct {
	Concept string
	Weight  float64
	Facts   []*report.Fact
}

// WeightSign returns "+" or "-" for the contribution weight.
func (l Line) WeightSign() string {
	if l.Weight < 0 {
		return "-"
	}
	return "+"
}

// Resolver resolves calculations for facts of one report.
type Resolver struct {
	src Source
}

func New(src Source) *Resolver {
	return &Resolver{src: src}
}

// ELRs returns the extended link roles in which f is a total, sorted.
func (r *Resolver) ELRs(f *report.Fact) []string {
	calcs := r.src.CalculationsFor(f.Concept)
	elrs := make([]string, 0, len(calcs))
	for elr := range calcs {
		elrs = append(elrs, elr)
	}
	sort.Strings(elrs)
	return elrs
}

// Resolve returns the contribution lines of f's calculation in elr, in
// linkbase order. Unknown roles yield nil.
func (r *Resolver) Resolve(f *report.Fact, elr string) []Line {
	items := r.src.CalculationsFor(f.Concept)[elr]
	if len(items) == 0 {
		return nil
	}

	lines := make([]Line, 0, len(items))
	for _, c := range items {
		lines = append(lines, Line{
			Concept: c.Concept,
			Weight:  c.Weight,
			Facts:   r.src.FactsWithConcept(f, c.Concept),
		})
	}
	return lines
}

// BestELR picks the role whose calculation covers the most facts of the
// given set, counting the total and every contributing concept. Ties go to
// the first role in sorted order. It returns "" when f has no calculations.
func (r *Resolver) BestELR(f *report.Fact, facts []*report.Fact) string {
	calcs := r.src.CalculationsFor(f.Concept)

	best, bestScore := "", -1
	for _, elr := range r.ELRs(f) {
		concepts := map[string]bool{f.Concept: true}
		for _, c := range calcs[elr] {
			concepts[c.Concept] = true
		}

		score := 0
		for _, other := range facts {
			if concepts[other.Concept] {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = elr, score
		}
	}
	return best
}
