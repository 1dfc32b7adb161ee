package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ixv/internal/core/inspector"
	"github.com/colonyops/ixv/internal/core/logging"
	"github.com/colonyops/ixv/internal/core/report"
	"github.com/colonyops/ixv/pkg/iojson"
)

type ShowCmd struct {
	flags *Flags

	// flags
	alternates []string
	elr        string
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags) *ShowCmd {
	return &ShowCmd{flags: flags}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Print the inspector panels of a fact or footnote",
		UsageText: "ixv show [options] <report.json> <id>",
		Description: `Selects the item and prints every panel the inspector would show for it
as JSON: summary cards, duplicates, change on the prior period, calculations,
footnotes, signatures and validation results.

--alternate presents the selection with alternates, as a viewer does for
nested tags. --elr picks the calculation role instead of the best fit.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "alternate",
				Usage:       "alternate item id (repeatable)",
				Destination: &cmd.alternates,
			},
			&cli.StringFlag{
				Name:        "elr",
				Usage:       "calculation extended link role",
				Destination: &cmd.elr,
			},
		},
		Action: cmd.run,
	})

	return app
}

// panelsOutput is the JSON output format for ixv show.
type panelsOutput struct {
	ID            string              `json:"id"`
	Mode          string              `json:"mode"`
	Alternates    []string            `json:"alternates,omitempty"`
	Summary       []summaryOutput     `json:"summary,omitempty"`
	Duplicates    *duplicatesOutput   `json:"duplicates,omitempty"`
	Change        string              `json:"change,omitempty"`
	Calculations  []calculationOutput `json:"calculations,omitempty"`
	Footnotes     []footnoteOutput    `json:"footnotes,omitempty"`
	Signatures    []signatureOutput   `json:"signatures,omitempty"`
	Validation    []validationOutput  `json:"validation,omitempty"`
	FootnoteFacts []string            `json:"footnote_facts,omitempty"`
}

type summaryOutput struct {
	ID            string            `json:"id"`
	Kind          string            `json:"kind"`
	Title         string            `json:"title"`
	Current       bool              `json:"current,omitempty"`
	Label         string            `json:"label,omitempty"`
	Documentation string            `json:"documentation,omitempty"`
	Concept       string            `json:"concept,omitempty"`
	Extension     bool              `json:"extension,omitempty"`
	Period        string            `json:"period,omitempty"`
	Entity        string            `json:"entity,omitempty"`
	Value         string            `json:"value,omitempty"`
	Accuracy      string            `json:"accuracy,omitempty"`
	Dimensions    map[string]string `json:"dimensions,omitempty"`
	Hidden        bool              `json:"hidden,omitempty"`
}

type duplicatesOutput struct {
	Position int    `json:"position"`
	Count    int    `json:"count"`
	Prev     string `json:"prev"`
	Next     string `json:"next"`
}

type calculationOutput struct {
	ELR   string       `json:"elr"`
	Label string       `json:"label"`
	Open  bool         `json:"open,omitempty"`
	Lines []calcOutput `json:"lines"`
}

type calcOutput struct {
	Sign    string   `json:"sign,omitempty"`
	Concept string   `json:"concept"`
	Label   string   `json:"label"`
	Facts   []string `json:"facts,omitempty"`
	Total   bool     `json:"total,omitempty"`
}

type footnoteOutput struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type signatureOutput struct {
	Title     string `json:"title"`
	LegalName string `json:"legal_name,omitempty"`
	Role      string `json:"role,omitempty"`
	LEI       string `json:"lei,omitempty"`
	URL       string `json:"url,omitempty"`
}

type validationOutput struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("expected a report path and an id. Run 'ixv show --help' for usage")
	}

	s, err := cmd.flags.App.Open(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}

	id := c.Args().Get(1)
	ctx = logging.WithFactID(s.Context(ctx), id)
	if _, err := s.Report.ItemByID(id); err != nil {
		log.Debug().Ctx(ctx).Err(err).Msg("show unknown id")
		return err
	}

	ins := s.Headless(nil)
	ins.SelectItem(id, cmd.alternates, false)
	if cmd.elr != "" {
		ins.SetCalculationELR(cmd.elr)
	}

	return iojson.WriteWith(c.Root().Writer, os.Stderr, panelsJSON(ins))
}

func panelsJSON(ins *inspector.Inspector) panelsOutput {
	p := ins.Panels()
	out := panelsOutput{
		ID:         ins.Selection().CurrentID(),
		Mode:       p.Mode.String(),
		Alternates: ins.Selection().AlternateIDs(),
	}

	for _, card := range p.Summary {
		sum := summaryOutput{
			ID:            card.ID,
			Kind:          card.Kind.String(),
			Title:         card.Title,
			Current:       card.Current,
			Label:         card.Label,
			Documentation: card.Documentation,
			Concept:       card.Concept,
			Extension:     card.Extension,
			Period:        card.Period,
			Entity:        card.Entity,
			Value:         card.FullValue,
			Accuracy:      card.Accuracy,
			Hidden:        card.Hidden,
		}
		if len(card.Dimensions) > 0 {
			sum.Dimensions = make(map[string]string, len(card.Dimensions))
			for _, d := range card.Dimensions {
				sum.Dimensions[d.Dimension] = d.Member
			}
		}
		out.Summary = append(out.Summary, sum)
	}

	if p.Mode == inspector.ModeFact {
		d := p.Duplicates
		out.Duplicates = &duplicatesOutput{
			Position: d.Position,
			Count:    d.Count,
			Prev:     factID(d.Prev),
			Next:     factID(d.Next),
		}
		if p.Change.Kind != inspector.ChangeNotApplicable {
			out.Change = p.Change.String()
		}
	}

	for _, card := range p.Calculations {
		calc := calculationOutput{ELR: card.ELR, Label: card.Label, Open: card.Open}
		for _, l := range card.Lines {
			calc.Lines = append(calc.Lines, calcOutput{
				Sign:    l.Sign,
				Concept: l.Concept,
				Label:   l.Label,
				Facts:   l.FactIDs,
				Total:   l.Total,
			})
		}
		out.Calculations = append(out.Calculations, calc)
	}

	for _, fn := range p.Footnotes {
		out.Footnotes = append(out.Footnotes, footnoteOutput{ID: fn.ID, Text: fn.Text})
	}
	for _, sig := range p.Signatures {
		out.Signatures = append(out.Signatures, signatureOutput(sig))
	}
	for _, v := range p.Validation {
		out.Validation = append(out.Validation, validationOutput{Severity: v.Severity.String(), Message: v.Message})
	}
	for _, f := range p.FootnoteFacts {
		out.FootnoteFacts = append(out.FootnoteFacts, f.ID)
	}

	return out
}

func factID(f *report.Fact) string {
	if f == nil {
		return ""
	}
	return f.ID
}
