package tui

import (
	"fmt"
	"slices"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/ixv/internal/core/inspector"
	"github.com/colonyops/ixv/internal/core/report"
	"github.com/colonyops/ixv/internal/core/styles"
)

type linkKind int

const (
	// linkSelect selects the first id as a new selection.
	linkSelect linkKind = iota
	// linkSwitch switches to an alternate of the current selection.
	linkSwitch
)

// detailLink is an actionable line of the details pane.
type detailLink struct {
	kind linkKind
	ids  []string
	line int
}

// detailsOptions control how the details pane is drawn.
type detailsOptions struct {
	width     int
	cursor    int
	fullValue bool
	markdown  bool
}

// detailsBuilder accumulates the lines of the details pane and the links
// found on them.
type detailsBuilder struct {
	opts  detailsOptions
	lines []string
	links []detailLink
}

func (b *detailsBuilder) line(s string) { b.lines = append(b.lines, s) }

func (b *detailsBuilder) blank() {
	if len(b.lines) > 0 && b.lines[len(b.lines)-1] != "" {
		b.line("")
	}
}

func (b *detailsBuilder) heading(s string) {
	b.blank()
	b.line(styles.CardTitleStyle.Render(s))
}

func (b *detailsBuilder) field(label, value string) {
	if value == "" {
		return
	}
	b.line(styles.CardLabelStyle.Render(label+": ") + styles.CardValueStyle.Render(value))
}

// wrapped adds text wrapped to the pane width.
func (b *detailsBuilder) wrapped(style lipgloss.Style, text string) {
	rendered := style.Width(max(b.opts.width, 10)).Render(text)
	b.lines = append(b.lines, strings.Split(rendered, "\n")...)
}

// link adds an actionable line. hovered draws it as linked even when the
// cursor is elsewhere.
func (b *detailsBuilder) link(kind linkKind, text string, ids []string, hovered bool) {
	style := styles.LinkStyle
	if len(b.links) == b.opts.cursor || hovered {
		style = styles.LinkHoverStyle
	}
	b.links = append(b.links, detailLink{kind: kind, ids: ids, line: len(b.lines)})
	b.line(style.Render(text))
}

// renderDetails draws the panels of the inspector's selection.
func renderDetails(in *inspector.Inspector, opts detailsOptions) (string, []detailLink) {
	b := &detailsBuilder{opts: opts}
	p := in.Panels()

	switch p.Mode {
	case inspector.ModeFact:
		b.summary(p, in.Selection().CurrentID())
		b.duplicates(p.Duplicates)
		b.change(p.Change)
		b.calculations(p.Calculations, in.Hovered())
		b.footnotes(p.Footnotes)
		b.signatures(p.Signatures)
		b.validation(p)
	case inspector.ModeFootnote:
		b.footnote(in)
	default:
		b.line(styles.EmptyStateStyle.Render("Select a fact or footnote to inspect it"))
	}

	return strings.Join(b.lines, "\n"), b.links
}

func (b *detailsBuilder) summary(p inspector.Panels, current string) {
	if len(p.Summary) > 1 {
		for _, card := range p.Summary {
			if card.Current {
				b.line(styles.CardCurrentStyle.Render(card.Title))
				continue
			}
			b.link(linkSwitch, "  "+card.Title, []string{card.ID}, false)
		}
		b.blank()
	}

	for _, card := range p.Summary {
		if card.ID != current {
			continue
		}

		title := card.Label
		if card.Hidden {
			title += " " + styles.HiddenMarkerStyle.Render(styles.IconHidden+" hidden")
		}
		b.line(styles.CardTitleStyle.Render(title))

		concept := card.Concept
		if card.Extension {
			concept += " (extension)"
		}
		b.field("Concept", concept)
		b.field("Period", card.Period)
		b.field("Entity", card.Entity)
		for _, d := range card.Dimensions {
			b.field(d.Dimension, d.Member)
		}

		value := card.Value
		if b.opts.fullValue {
			value = card.FullValue
		}
		b.wrapped(styles.CardValueStyle, styles.CardLabelStyle.Render("Value: ")+value)
		if card.Truncated && !b.opts.fullValue {
			b.line(styles.HelpStyle.Render("o: show full value"))
		}
		b.field("Accuracy", card.Accuracy)
		if card.Documentation != "" {
			b.blank()
			b.wrapped(styles.HelpStyle, card.Documentation)
		}
	}
}

func (b *detailsBuilder) duplicates(d inspector.DuplicateNav) {
	if d.Count <= 1 {
		return
	}
	b.blank()
	b.field("Duplicates", fmt.Sprintf("%d of %d  ([ / ])", d.Position+1, d.Count))
}

func (b *detailsBuilder) change(c inspector.Change) {
	if c.Kind == inspector.ChangeNotApplicable {
		return
	}

	b.heading("Change")
	switch {
	case c.Kind == inspector.ChangeNoPrior:
		b.line(styles.EmptyStateStyle.Render(c.String()))
	case c.Kind == inspector.ChangePercent && c.Percent < 0:
		b.line(styles.DecreaseStyle.Render(styles.IconDecrease + " " + c.Text))
	case c.Kind == inspector.ChangePercent:
		b.line(styles.IncreaseStyle.Render(styles.IconIncrease + " " + c.Text))
	default:
		b.line(styles.CardValueStyle.Render(c.Text))
	}

	if c.Prior != nil {
		ids := make([]string, 0, len(c.PriorFacts))
		for _, f := range c.PriorFacts {
			ids = append(ids, f.ID)
		}
		b.link(linkSelect, "  "+c.PriorPeriod, ids, false)
	}
}

// calculations draws the open card, or every card when no role resolved.
func (b *detailsBuilder) calculations(cards []inspector.CalcCard, hovered string) {
	anyOpen := slices.ContainsFunc(cards, func(c inspector.CalcCard) bool { return c.Open })

	for _, card := range cards {
		marker := ""
		if card.Open {
			marker = "› "
		}
		b.heading(styles.IconCalc + " Calculation " + marker + card.Label)
		if anyOpen && !card.Open {
			continue
		}

		for _, line := range card.Lines {
			text := fmt.Sprintf("  %s %s", line.Sign, line.Label)
			switch {
			case line.Total:
				b.line(styles.CardTitleStyle.Render(fmt.Sprintf("  = %s", line.Label)))
			case line.Linked():
				b.link(linkSelect, text, line.FactIDs, hovered != "" && line.Has(hovered))
			default:
				b.line(styles.HelpStyle.Render(text))
			}
		}
	}
	if len(cards) > 1 {
		b.line(styles.HelpStyle.Render("c: next calculation role"))
	}
}

func (b *detailsBuilder) footnotes(lines []inspector.FootnoteLine) {
	if len(lines) == 0 {
		return
	}
	b.heading(styles.IconFootnote + " Footnotes")
	for _, fn := range lines {
		b.link(linkSelect, "  "+strings.Join(strings.Fields(fn.Text), " "), []string{fn.ID}, false)
	}
}

func (b *detailsBuilder) signatures(cards []inspector.SignatureCard) {
	for _, s := range cards {
		b.heading(styles.IconSigned + " " + s.Title)
		b.field("Name", s.LegalName)
		b.field("Role", s.Role)
		b.field("LEI", s.LEI)
		b.field("Record", s.URL)
	}
}

func (b *detailsBuilder) validation(p inspector.Panels) {
	b.heading("Validation")
	if p.NoIssues() {
		b.line(styles.SeverityOKStyle.Render(styles.IconCheck + " No issues"))
		return
	}
	for _, v := range p.Validation {
		style := styles.SeverityOKStyle
		switch v.Severity {
		case report.SeverityWarn:
			style = styles.SeverityWarnStyle
		case report.SeverityError:
			style = styles.SeverityErrorStyle
		}
		b.wrapped(style, v.Severity.String()+": "+v.Message)
	}
}

func (b *detailsBuilder) footnote(in *inspector.Inspector) {
	fn, ok := in.Selection().Current().(*report.Footnote)
	if !ok {
		return
	}

	b.line(styles.CardTitleStyle.Render(styles.IconFootnote + " Footnote " + fn.ID))
	b.blank()
	if b.opts.markdown {
		b.lines = append(b.lines, strings.Split(renderMarkdown(fn.Text, b.opts.width), "\n")...)
	} else {
		b.wrapped(styles.CardValueStyle, fn.Text)
	}

	facts := in.Panels().FootnoteFacts
	b.heading(fmt.Sprintf("Facts (%d)", len(facts)))
	for _, f := range facts {
		row := in.Row(f)
		b.link(linkSelect, "  "+row.Title+"  "+row.Period, []string{f.ID}, row.Linked)
	}
}

// renderMarkdown renders footnote text with the theme's glamour style,
// falling back to the raw text.
func renderMarkdown(text string, width int) string {
	style := styles.GlamourStyle()
	noMargin := uint(0)
	style.Document.Margin = &noMargin

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(max(width, 10)),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw footnote")
		return text
	}

	out, err := renderer.Render(text)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render footnote markdown, showing raw footnote")
		return text
	}
	return strings.Trim(out, "\n")
}
