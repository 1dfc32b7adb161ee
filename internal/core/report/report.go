// Package report holds the fact/footnote model of an inline-XBRL report and
// the index used to look items up and relate them to each other.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrNotFound is returned when an id is absent from the report.
var ErrNotFound = errors.New("item not found")

var _ Index = (*Report)(nil)

// Index is the lookup surface the inspector consumes.
type Index interface {
	// ItemByID returns the fact or footnote with the given id, or an error
	// wrapping ErrNotFound.
	ItemByID(id string) (Item, error)
	// DuplicatesOf returns the facts reporting the same value as f
	// (including f), in document order.
	DuplicatesOf(f *Fact) []*Fact
	// AlignedFacts returns facts sharing concept, unit and dimensions with f.
	// When ignorePeriod is false the period must match as well.
	AlignedFacts(f *Fact, ignorePeriod bool) []*Fact
	// FactsInSameTable returns the facts grouped in the same table as f.
	FactsInSameTable(f *Fact) []*Fact
	Concept(name string) Concept
	RoleLabel(elr string) string
	Credentials() []Credential
}

// Report is the loaded report. It is immutable after Parse returns.
type Report struct {
	concepts     map[string]Concept
	roles        map[string]string
	calculations map[string]map[string][]Contribution
	credentials  []Credential

	facts     []*Fact
	footnotes []*Footnote
	items     map[string]Item

	duplicates map[string][]*Fact
	aligned    map[string][]*Fact
	tables     map[string][]*Fact
}

// Document is the serialized form of a report.
type Document struct {
	Concepts     map[string]Concept                   `json:"concepts"`
	Roles        map[string]string                    `json:"roles"`
	Calculations map[string]map[string][]Contribution `json:"calculations"`
	Credentials  []Credential                         `json:"credentials"`
	Facts        []*Fact                              `json:"facts"`
	Footnotes    []*Footnote                          `json:"footnotes"`
}

// Load reads a report from a JSON file.
func Load(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer func() { _ = f.Close() }()

	r, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes a report and builds its lookup tables.
func Parse(rd io.Reader) (*Report, error) {
	var doc Document
	if err := json.NewDecoder(rd).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return Build(doc)
}

// Build validates a document and builds its lookup tables. Facts and
// footnotes are shared with the document, not copied.
func Build(doc Document) (*Report, error) {
	r := &Report{
		concepts:     make(map[string]Concept, len(doc.Concepts)),
		roles:        doc.Roles,
		calculations: doc.Calculations,
		credentials:  doc.Credentials,
		facts:        doc.Facts,
		footnotes:    doc.Footnotes,
		items:        make(map[string]Item, len(doc.Facts)+len(doc.Footnotes)),
		duplicates:   make(map[string][]*Fact),
		aligned:      make(map[string][]*Fact),
		tables:       make(map[string][]*Fact),
	}

	for name, c := range doc.Concepts {
		c.Name = name
		r.concepts[name] = c
	}

	for i, f := range r.facts {
		if f == nil || f.ID == "" {
			return nil, fmt.Errorf("facts[%d]: id is required", i)
		}
		if f.Concept == "" {
			return nil, fmt.Errorf("fact %q: concept is required", f.ID)
		}
		if _, dup := r.items[f.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %q", f.ID)
		}
		r.items[f.ID] = f

		r.duplicates[alignmentKey(f, false)] = append(r.duplicates[alignmentKey(f, false)], f)
		r.aligned[alignmentKey(f, true)] = append(r.aligned[alignmentKey(f, true)], f)
		if f.Table != "" {
			r.tables[f.Table] = append(r.tables[f.Table], f)
		}
	}

	for i, fn := range r.footnotes {
		if fn == nil || fn.ID == "" {
			return nil, fmt.Errorf("footnotes[%d]: id is required", i)
		}
		if _, dup := r.items[fn.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %q", fn.ID)
		}
		r.items[fn.ID] = fn

		for _, factID := range fn.Facts {
			f, ok := r.items[factID].(*Fact)
			if !ok {
				return nil, fmt.Errorf("footnote %q references fact %q: %w", fn.ID, factID, ErrNotFound)
			}
			f.Footnotes = append(f.Footnotes, fn.ID)
		}
	}

	return r, nil
}

// alignmentKey identifies facts with the same concept, unit, dimensions and
// (optionally) period.
func alignmentKey(f *Fact, ignorePeriod bool) string {
	var b strings.Builder
	b.WriteString(f.Concept)
	b.WriteByte('|')
	b.WriteString(f.Unit)
	b.WriteByte('|')
	if !ignorePeriod {
		b.WriteString(f.Period.Key())
	}

	dims := make([]string, 0, len(f.Dimensions))
	for d := range f.Dimensions {
		dims = append(dims, d)
	}
	sort.Strings(dims)
	for _, d := range dims {
		b.WriteByte('|')
		b.WriteString(d)
		b.WriteByte('=')
		b.WriteString(f.Dimensions[d])
	}
	return b.String()
}

// ItemByID implements Index.
func (r *Report) ItemByID(id string) (Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return item, nil
}

// Fact returns the fact with the given id.
func (r *Report) Fact(id string) (*Fact, bool) {
	f, ok := r.items[id].(*Fact)
	return f, ok
}

// Facts returns every fact in document order.
func (r *Report) Facts() []*Fact {
	return r.facts
}

// Footnotes returns every footnote in document order.
func (r *Report) Footnotes() []*Footnote {
	return r.footnotes
}

// Items returns every fact followed by every footnote.
func (r *Report) Items() []Item {
	out := make([]Item, 0, len(r.facts)+len(r.footnotes))
	for _, f := range r.facts {
		out = append(out, f)
	}
	for _, fn := range r.footnotes {
		out = append(out, fn)
	}
	return out
}

// DuplicatesOf implements Index.
func (r *Report) DuplicatesOf(f *Fact) []*Fact {
	group := r.duplicates[alignmentKey(f, false)]
	if len(group) == 0 {
		return []*Fact{f}
	}
	return group
}

// AlignedFacts implements Index.
func (r *Report) AlignedFacts(f *Fact, ignorePeriod bool) []*Fact {
	if ignorePeriod {
		return r.aligned[alignmentKey(f, true)]
	}
	return r.DuplicatesOf(f)
}

// FactsWithConcept returns facts aligned with f in every aspect but concept.
func (r *Report) FactsWithConcept(f *Fact, concept string) []*Fact {
	probe := *f
	probe.Concept = concept
	return r.duplicates[alignmentKey(&probe, false)]
}

// FactsInSameTable implements Index.
func (r *Report) FactsInSameTable(f *Fact) []*Fact {
	if f.Table == "" {
		return nil
	}
	return r.tables[f.Table]
}

// Concept implements Index. Unknown concepts get an empty label set.
func (r *Report) Concept(name string) Concept {
	if c, ok := r.concepts[name]; ok {
		return c
	}
	return Concept{Name: name}
}

// Label returns the label of a concept for the given role.
func (r *Report) Label(concept, role string) string {
	return r.Concept(concept).Label(role)
}

// RoleLabel implements Index.
func (r *Report) RoleLabel(elr string) string {
	if l, ok := r.roles[elr]; ok && l != "" {
		return l
	}
	return elr
}

// Credentials implements Index.
func (r *Report) Credentials() []Credential {
	return r.credentials
}

// CalculationsFor returns the calculation children of a summation concept,
// keyed by extended link role.
func (r *Report) CalculationsFor(concept string) map[string][]Contribution {
	out := make(map[string][]Contribution)
	for elr, totals := range r.calculations {
		if items, ok := totals[concept]; ok && len(items) > 0 {
			out[elr] = items
		}
	}
	return out
}
