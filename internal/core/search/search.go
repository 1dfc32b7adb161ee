// Package search implements the fact search engine used by the inspector.
//
// The engine owns its index lifecycle: BuildIndex populates the per-fact
// search documents and closes the channel returned by Ready. Search must
// not be called before that, and returns ErrIndexNotReady if it is.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/sahilm/fuzzy"

	"github.com/colonyops/ixv/internal/core/logging"
	"github.com/colonyops/ixv/internal/core/report"
)

// ErrIndexNotReady is returned by Search when called before BuildIndex has
// completed.
var ErrIndexNotReady = errors.New("search index not ready")

const (
	AllPeriods = "*"
	AllTypes   = "*"

	TypeNumeric = "numeric"
	TypeText    = "text"
)

// Spec is a single search query. Every field is read fresh on each query.
type Spec struct {
	Text        string
	ShowVisible bool
	ShowHidden  bool
	// Period is a period key as returned by Periods, or AllPeriods.
	Period string
	// ConceptType is TypeNumeric, TypeText or AllTypes.
	ConceptType string
	// ConceptPattern optionally restricts concepts with a glob such as
	// "us-gaap:*Revenue*".
	ConceptPattern string
}

// Result is a single match.
type Result struct {
	Fact  *report.Fact
	Score int
}

// PeriodOption is an entry of the period filter.
type PeriodOption struct {
	Key   string
	Label string
}

// Source is the fact collection the engine indexes.
type Source interface {
	Facts() []*report.Fact
	Label(concept, role string) string
}

type Engine struct {
	src Source
	log zerolog.Logger

	docs    []string
	periods []PeriodOption

	once  sync.Once
	ready chan struct{}
}

func New(src Source) *Engine {
	return &Engine{
		src:   src,
		log:   logging.Component("search"),
		ready: make(chan struct{}),
	}
}

// Ready is closed once the index has been built.
func (e *Engine) Ready() <-chan struct{} {
	return e.ready
}

func (e *Engine) isReady() bool {
	select {
	case <-e.ready:
		return true
	default:
	}
	return false
}

// BuildIndex builds the search documents and period list. It is safe to
// call more than once; only the first successful call builds the index.
func (e *Engine) BuildIndex(ctx context.Context) error {
	if e.isReady() {
		return nil
	}

	facts := e.src.Facts()
	docs := make([]string, 0, len(facts))
	seen := make(map[string]bool)
	var periods []report.Period

	for i, f := range facts {
		if i%512 == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("build search index: %w", err)
			}
		}
		docs = append(docs, e.document(f))

		key := f.Period.Key()
		if !seen[key] {
			seen[key] = true
			periods = append(periods, f.Period)
		}
	}

	sort.SliceStable(periods, func(i, j int) bool {
		a, b := periods[i], periods[j]
		if !a.End.Equal(b.End) {
			return a.End.After(b.End)
		}
		return a.Key() < b.Key()
	})

	e.once.Do(func() {
		e.docs = docs
		e.periods = make([]PeriodOption, 0, len(periods))
		for _, p := range periods {
			e.periods = append(e.periods, PeriodOption{Key: p.Key(), Label: p.String()})
		}
		close(e.ready)
	})

	e.log.Debug().Int("facts", len(docs)).Int("periods", len(periods)).Msg("search index built")
	return nil
}

// document is the lowercased text a fact is matched against.
func (e *Engine) document(f *report.Fact) string {
	parts := []string{
		e.src.Label(f.Concept, "std"),
		f.Concept,
		f.ID,
		f.Period.String(),
	}
	if f.IsNumeric() {
		parts = append(parts, f.Value)
	} else {
		parts = append(parts, f.ReadableValue())
	}
	for dim, member := range f.Dimensions {
		parts = append(parts, e.src.Label(dim, "std"), e.src.Label(member, "std"))
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Periods returns the period filter options, latest first.
func (e *Engine) Periods() []PeriodOption {
	if !e.isReady() {
		return nil
	}
	return e.periods
}

// Search runs a query. Matches are ordered by score when the spec has free
// text, otherwise in document order. Both visibility flags off yields an
// empty result.
func (e *Engine) Search(spec Spec) ([]Result, error) {
	if !e.isReady() {
		return nil, ErrIndexNotReady
	}
	if !spec.ShowVisible && !spec.ShowHidden {
		return nil, nil
	}
	if spec.ConceptPattern != "" && !doublestar.ValidatePattern(spec.ConceptPattern) {
		return nil, fmt.Errorf("invalid concept pattern %q: %w", spec.ConceptPattern, doublestar.ErrBadPattern)
	}

	facts := e.src.Facts()
	candidates := make([]int, 0, len(facts))
	for i, f := range facts {
		if e.accept(f, spec) {
			candidates = append(candidates, i)
		}
	}

	terms := strings.Fields(strings.ToLower(spec.Text))
	if len(terms) == 0 {
		out := make([]Result, 0, len(candidates))
		for _, i := range candidates {
			out = append(out, Result{Fact: facts[i]})
		}
		return out, nil
	}

	scores := make(map[int]int, len(candidates))
	for _, i := range candidates {
		scores[i] = 0
	}
	for _, term := range terms {
		src := docSource{docs: e.docs, idx: candidates}
		matched := make(map[int]int)
		for _, m := range fuzzy.FindFrom(term, src) {
			matched[candidates[m.Index]] = m.Score
		}
		for i := range scores {
			s, ok := matched[i]
			if !ok {
				delete(scores, i)
				continue
			}
			scores[i] += s
		}
		candidates = keep(candidates, scores)
	}

	out := make([]Result, 0, len(candidates))
	for _, i := range candidates {
		out = append(out, Result{Fact: facts[i], Score: scores[i]})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score > out[b].Score
	})
	return out, nil
}

func (e *Engine) accept(f *report.Fact, spec Spec) bool {
	if f.Hidden && !spec.ShowHidden {
		return false
	}
	if !f.Hidden && !spec.ShowVisible {
		return false
	}
	if spec.Period != "" && spec.Period != AllPeriods && f.Period.Key() != spec.Period {
		return false
	}
	switch spec.ConceptType {
	case TypeNumeric:
		if !f.IsNumeric() {
			return false
		}
	case TypeText:
		if f.IsNumeric() {
			return false
		}
	}
	if spec.ConceptPattern != "" {
		ok, err := doublestar.Match(spec.ConceptPattern, f.Concept)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

func keep(idx []int, scores map[int]int) []int {
	out := idx[:0]
	for _, i := range idx {
		if _, ok := scores[i]; ok {
			out = append(out, i)
		}
	}
	return out
}

// docSource adapts a subset of the index documents to fuzzy.Source.
type docSource struct {
	docs []string
	idx  []int
}

func (s docSource) String(i int) string { return s.docs[s.idx[i]] }
func (s docSource) Len() int            { return len(s.idx) }
