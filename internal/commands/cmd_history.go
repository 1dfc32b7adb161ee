package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ixv/internal/core/history"
	"github.com/colonyops/ixv/internal/printer"
	"github.com/colonyops/ixv/pkg/iojson"
)

type HistoryCmd struct {
	flags *Flags

	// flags
	report string
	json   bool
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "history",
		Usage: "Show and manage the export history",
		Description: `Every signing set sent to a host is recorded, newest first. The number of
entries kept is set by state.history_size.`,
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List exports",
				UsageText: "ixv history ls [--report <report.json>] [--json]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "report",
						Usage:       "only exports of this report",
						Destination: &cmd.report,
					},
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.json,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:      "show",
				Usage:     "Print one export",
				UsageText: "ixv history show <id>",
				Action:    cmd.runShow,
			},
			{
				Name:   "clear",
				Usage:  "Forget every export",
				Action: cmd.runClear,
			},
		},
	})

	return app
}

func (cmd *HistoryCmd) runList(ctx context.Context, c *cli.Command) error {
	entries, err := cmd.flags.App.History.List(ctx)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	if cmd.report != "" {
		abs, err := filepath.Abs(cmd.report)
		if err != nil {
			return fmt.Errorf("resolve report path: %w", err)
		}
		filtered := entries[:0]
		for _, e := range entries {
			if e.Report == abs {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	out := c.Root().Writer
	if cmd.json {
		return iojson.WriteLines(out, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "No exports recorded\n")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tWHEN\tREPORT\tFACTS")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.ID,
			humanize.Time(e.Timestamp),
			filepath.Base(e.Report),
			summarizeIDs(e.FactIDs, 3),
		)
	}
	return w.Flush()
}

func (cmd *HistoryCmd) runShow(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected an export id. Run 'ixv history ls' to list them")
	}

	entry, err := cmd.flags.App.History.Get(ctx, c.Args().First())
	if errors.Is(err, history.ErrNotFound) {
		return fmt.Errorf("no export with id %q", c.Args().First())
	}
	if err != nil {
		return err
	}
	return iojson.WriteWith(c.Root().Writer, os.Stderr, entry)
}

func (cmd *HistoryCmd) runClear(ctx context.Context, _ *cli.Command) error {
	if err := cmd.flags.App.History.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	printer.Ctx(ctx).Successf("Export history cleared")
	return nil
}

// summarizeIDs joins the first n ids and counts the rest.
func summarizeIDs(ids []string, n int) string {
	if len(ids) <= n {
		return strings.Join(ids, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(ids[:n], ", "), len(ids)-n)
}
