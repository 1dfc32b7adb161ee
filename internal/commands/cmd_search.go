package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ixv/internal/core/inspector"
	"github.com/colonyops/ixv/internal/core/search"
	"github.com/colonyops/ixv/pkg/iojson"
)

type SearchCmd struct {
	flags *Flags

	// flags
	hidden      bool
	visible     bool
	period      string
	conceptType string
	concept     string
	limit       int
	format      string
}

// NewSearchCmd creates a new search command
func NewSearchCmd(flags *Flags) *SearchCmd {
	return &SearchCmd{flags: flags}
}

// Register adds the search command to the application
func (cmd *SearchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "search",
		Usage:     "Search the facts of a report",
		UsageText: "ixv search [options] <report.json> [query...]",
		Description: `Runs a search against the report with the same ranking and filters as
the inspector's search pane.

Without a query every fact passing the filters is listed in document order.
--period accepts a period key or its label as shown by the inspector.
--concept restricts concepts with a glob such as 'us-gaap:*Revenue*'.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "hidden",
				Usage:       "only hidden facts",
				Destination: &cmd.hidden,
			},
			&cli.BoolFlag{
				Name:        "visible",
				Usage:       "only visible facts",
				Destination: &cmd.visible,
			},
			&cli.StringFlag{
				Name:        "period",
				Usage:       "period key or label",
				Destination: &cmd.period,
			},
			&cli.StringFlag{
				Name:        "type",
				Usage:       "concept type (numeric, text, all)",
				Value:       "all",
				Destination: &cmd.conceptType,
			},
			&cli.StringFlag{
				Name:        "concept",
				Usage:       "concept glob",
				Destination: &cmd.concept,
			},
			&cli.IntFlag{
				Name:        "limit",
				Usage:       "maximum number of results, 0 for all",
				Value:       inspector.SearchPageSize,
				Destination: &cmd.limit,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

// searchResult is the JSON output format for ixv search.
type searchResult struct {
	ID         string   `json:"id"`
	Concept    string   `json:"concept"`
	Label      string   `json:"label"`
	Period     string   `json:"period"`
	Value      string   `json:"value"`
	Dimensions []string `json:"dimensions,omitempty"`
	Hidden     bool     `json:"hidden,omitempty"`
	Score      int      `json:"score"`
}

func (cmd *SearchCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() < 1 {
		return fmt.Errorf("expected a report path. Run 'ixv search --help' for usage")
	}
	if cmd.format != "text" && cmd.format != "json" {
		return fmt.Errorf("unknown format %q (available: text, json)", cmd.format)
	}
	if cmd.concept != "" && !doublestar.ValidatePattern(cmd.concept) {
		return fmt.Errorf("invalid concept pattern %q", cmd.concept)
	}

	s, err := cmd.flags.App.Open(c.Args().First())
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	ctx = s.Context(ctx)

	if err := s.BuildIndex(ctx); err != nil {
		return err
	}

	ins := s.Headless(nil)
	if err := ins.OnIndexReady(); err != nil {
		return err
	}

	filters, err := cmd.filters(ins, strings.Join(c.Args().Tail(), " "))
	if err != nil {
		return err
	}
	if err := ins.SetFilters(filters); err != nil {
		return err
	}

	for cmd.limit <= 0 || len(ins.Page().Revealed()) < cmd.limit {
		if !ins.ShowMore() {
			break
		}
	}

	revealed := ins.Page().Revealed()
	if cmd.limit > 0 && len(revealed) > cmd.limit {
		revealed = revealed[:cmd.limit]
	}

	results := make([]searchResult, 0, len(revealed))
	for _, r := range revealed {
		row := ins.Row(r.Fact)
		results = append(results, searchResult{
			ID:         r.Fact.ID,
			Concept:    r.Fact.Concept,
			Label:      row.Title,
			Period:     row.Period,
			Value:      r.Fact.ReadableValue(),
			Dimensions: row.Dimensions,
			Hidden:     row.Hidden,
			Score:      r.Score,
		})
	}

	out := c.Root().Writer
	if cmd.format == "json" {
		return iojson.WriteWith(out, os.Stderr, results)
	}

	if state, empty := ins.EmptyState(); empty {
		fmt.Fprintf(os.Stderr, "%s. %s\n", state.Title, state.Text)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCONCEPT\tPERIOD\tVALUE")
	for _, r := range results {
		label := r.Label
		if len(r.Dimensions) > 0 {
			label += " [" + strings.Join(r.Dimensions, ", ") + "]"
		}
		if r.Hidden {
			label += " (hidden)"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, label, r.Period, r.Value)
	}
	_ = w.Flush()

	if total := ins.Page().Len(); total > len(results) {
		fmt.Fprintf(os.Stderr, "Showing %d of %d results, use --limit 0 for all\n", len(results), total)
	}
	return nil
}

// filters builds the search controls from the flags.
func (cmd *SearchCmd) filters(ins *inspector.Inspector, text string) (inspector.Filters, error) {
	f := inspector.DefaultFilters()
	f.Text = text
	f.ConceptPattern = cmd.concept

	if cmd.hidden != cmd.visible {
		f.ShowHidden = cmd.hidden
		f.ShowVisible = cmd.visible
	}

	switch cmd.conceptType {
	case "all", "":
		f.ConceptType = search.AllTypes
	case search.TypeNumeric, search.TypeText:
		f.ConceptType = cmd.conceptType
	default:
		return f, fmt.Errorf("unknown type %q (available: numeric, text, all)", cmd.conceptType)
	}

	if cmd.period == "" {
		return f, nil
	}

	periods := ins.Periods()
	labels := make([]string, 0, len(periods))
	for _, p := range periods {
		if p.Key == cmd.period || strings.EqualFold(p.Label, cmd.period) {
			f.Period = p.Key
			return f, nil
		}
		labels = append(labels, p.Label)
	}
	return f, fmt.Errorf("unknown period %q (available: %s)", cmd.period, strings.Join(labels, "; "))
}
