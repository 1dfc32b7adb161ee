package tui

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/ixv/internal/core/inspector"
	"github.com/colonyops/ixv/internal/core/report"
	"github.com/colonyops/ixv/internal/core/styles"
)

var _ inspector.Viewer = (*DocView)(nil)

// tagState is the highlight a document tag is drawn with.
type tagState int

const (
	tagPlain tagState = iota
	tagSigned
	tagRelated
	tagLinked
	tagPrimary
)

// DocView renders the report as a scrollable list of tags in document
// order, facts first, then footnotes. It is the inspector's Viewer.
type DocView struct {
	items []report.Item
	index map[string]int
	// facts holds the positions of facts only, for tag navigation.
	facts []int
	label func(*report.Fact) string

	primary    string
	linked     map[string]bool
	related    map[string]bool
	signed     map[string]bool
	showSigned bool

	cursor int
	offset int
	height int
}

// NewDocView builds the document pane of r.
func NewDocView(r *report.Report) *DocView {
	d := &DocView{
		index:   make(map[string]int),
		linked:  make(map[string]bool),
		related: make(map[string]bool),
		signed:  signedFacts(r),
		label:   func(f *report.Fact) string { return r.Label(f.Concept, "std") },
		height:  1,
	}

	for _, item := range r.Items() {
		d.index[item.ItemID()] = len(d.items)
		if item.Kind() == report.KindFact {
			d.facts = append(d.facts, len(d.items))
		}
		d.items = append(d.items, item)
	}
	return d
}

// signedFacts returns the ids of facts carrying a signature or covered by
// a report credential.
func signedFacts(r *report.Report) map[string]bool {
	out := make(map[string]bool)
	all := false
	for _, c := range r.Credentials() {
		if _, ok := c.Signature(); !ok {
			continue
		}
		if len(c.Facts) == 0 {
			all = true
			break
		}
		for _, id := range c.Facts {
			out[id] = true
		}
	}

	for _, f := range r.Facts() {
		if all || len(f.Signatures) > 0 {
			out[f.ID] = true
		}
	}
	return out
}

// Reveal implements inspector.Viewer. The cursor moves to id; the view
// scrolls only when id is off screen unless force is set, in which case id
// is placed a third of the way down.
func (d *DocView) Reveal(id string, force bool) {
	pos, ok := d.index[id]
	if !ok {
		return
	}
	d.cursor = pos
	if force || !d.visible(pos) {
		d.offset = pos - d.height/3
	}
	d.clamp()
}

func (d *DocView) HighlightPrimary(id string) { d.primary = id }

func (d *DocView) HighlightLinked(ids []string, on bool) {
	for _, id := range ids {
		if on {
			d.linked[id] = true
		} else {
			delete(d.linked, id)
		}
	}
}

func (d *DocView) HighlightRelated(ids []string) {
	for _, id := range ids {
		d.related[id] = true
	}
}

func (d *DocView) ClearRelatedHighlighting() { clear(d.related) }

func (d *DocView) ClearAllHighlighting() {
	d.primary = ""
	clear(d.linked)
	clear(d.related)
}

// ToggleSigned switches the signed-tag highlight and reports the new state.
func (d *DocView) ToggleSigned() bool {
	d.showSigned = !d.showSigned
	return d.showSigned
}

// SignedCount is the number of signed facts.
func (d *DocView) SignedCount() int { return len(d.signed) }

func (d *DocView) state(id string) tagState {
	switch {
	case id == d.primary:
		return tagPrimary
	case d.linked[id]:
		return tagLinked
	case d.related[id]:
		return tagRelated
	case d.showSigned && d.signed[id]:
		return tagSigned
	default:
		return tagPlain
	}
}

// CursorID is the id of the tag under the cursor.
func (d *DocView) CursorID() string {
	if len(d.items) == 0 {
		return ""
	}
	return d.items[d.cursor].ItemID()
}

// MoveCursor moves the cursor by delta lines, scrolling to keep it visible.
func (d *DocView) MoveCursor(delta int) {
	if len(d.items) == 0 {
		return
	}
	d.cursor = min(max(d.cursor+delta, 0), len(d.items)-1)
	switch {
	case d.cursor < d.offset:
		d.offset = d.cursor
	case d.cursor >= d.offset+d.height:
		d.offset = d.cursor - d.height + 1
	}
	d.clamp()
}

// NextTag returns the fact delta tags away from id in document order,
// wrapping around. An id that is not a fact starts from the cursor.
func (d *DocView) NextTag(id string, delta int) string {
	n := len(d.facts)
	if n == 0 {
		return ""
	}

	from := -1
	pos, ok := d.index[id]
	if !ok {
		pos = d.cursor
	}
	for i, p := range d.facts {
		if p == pos {
			from = i
			break
		}
	}

	if from < 0 {
		// between facts: count those before pos
		ins := 0
		for _, p := range d.facts {
			if p < pos {
				ins++
			}
		}
		from = ins
		if delta > 0 {
			from--
		}
	}

	next := ((from+delta)%n + n) % n
	return d.items[d.facts[next]].ItemID()
}

// SetHeight sets the number of visible lines, keeping the cursor on screen.
func (d *DocView) SetHeight(h int) {
	d.height = max(h, 1)
	if !d.visible(d.cursor) {
		d.offset = d.cursor - d.height/3
	}
	d.clamp()
}

func (d *DocView) visible(pos int) bool {
	return pos >= d.offset && pos < d.offset+d.height
}

func (d *DocView) clamp() {
	d.offset = min(d.offset, len(d.items)-d.height)
	d.offset = max(d.offset, 0)
}

// Render draws the visible lines at the given width.
func (d *DocView) Render(width int) string {
	if len(d.items) == 0 {
		return styles.EmptyStateStyle.Render("Empty report")
	}

	end := min(d.offset+d.height, len(d.items))
	lines := make([]string, 0, end-d.offset)
	for pos := d.offset; pos < end; pos++ {
		lines = append(lines, d.renderLine(pos, width))
	}
	return strings.Join(lines, "\n")
}

func (d *DocView) renderLine(pos, width int) string {
	item := d.items[pos]

	prefix := "  "
	if pos == d.cursor {
		prefix = styles.SearchPromptStyle.Render("› ")
	}

	var text string
	switch it := item.(type) {
	case *report.Fact:
		icon := styles.IconFact
		if it.Hidden {
			icon = styles.IconHidden
		}
		text = icon + " " + d.label(it) + "  " + it.ReadableValue()
	case *report.Footnote:
		text = styles.IconFootnote + " " + strings.Join(strings.Fields(it.Text), " ")
	}

	text = ansi.Truncate(text, max(width-2, 1), "…")
	return prefix + tagStyle(d.state(item.ItemID())).Render(text)
}

func tagStyle(s tagState) lipgloss.Style {
	switch s {
	case tagPrimary:
		return styles.TagPrimaryStyle
	case tagLinked:
		return styles.TagLinkedStyle
	case tagRelated:
		return styles.TagRelatedStyle
	case tagSigned:
		return styles.TagSignedStyle
	default:
		return styles.TagStyle
	}
}
