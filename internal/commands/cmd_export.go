package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ixv/internal/core/host"
	"github.com/colonyops/ixv/internal/printer"
	"github.com/colonyops/ixv/pkg/iojson"
)

type ExportCmd struct {
	flags *Flags

	// flags
	out    string
	idFile iojson.FileReader[[]string]
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Export facts for signing without the inspector",
		UsageText: "ixv export [options] <report.json> [id...]",
		Description: `Stages the given facts in a signing set and exports it, exactly as pressing
'd' in the inspector's selection mode does. The export message is written as
one JSON line and recorded in the export history.

Fact ids are taken from the arguments, or from a JSON array of ids read from
-f/--file or stdin when no ids are given:

  echo '["f-12", "f-40"]' | ixv export report.json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "append the export message to this file instead of stdout",
				Destination: &cmd.out,
			},
			cmd.idFile.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() < 1 {
		return fmt.Errorf("expected a report path. Run 'ixv export --help' for usage")
	}

	ids := c.Args().Tail()
	if len(ids) == 0 {
		var err error
		if ids, err = cmd.idFile.Read(); err != nil {
			return fmt.Errorf("read fact ids: %w", err)
		}
	}
	if len(ids) == 0 {
		return errors.New("no fact ids to export")
	}

	s, err := cmd.flags.App.Open(c.Args().First())
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	ctx = s.Context(ctx)

	seen := make(map[string]bool, len(ids))
	staged := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		if _, ok := s.Report.Fact(id); !ok {
			return fmt.Errorf("%q is not a fact of %s", id, filepath.Base(s.Path))
		}
		seen[id] = true
		staged = append(staged, id)
	}

	var w io.Writer = c.Root().Writer
	if cmd.out != "" {
		f, err := os.OpenFile(cmd.out, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open export file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	ins := s.Headless(host.NewStream(w))
	ins.EnterSelectionMode()
	for _, id := range staged {
		ins.ToggleSigning(id)
	}

	if _, err := ins.Done(); err != nil {
		return err
	}
	log.Info().Ctx(ctx).Strs("facts", staged).Msg("exported facts")

	if cmd.out != "" {
		printer.Ctx(ctx).Successf("Exported %d facts to %s", len(staged), cmd.out)
	}
	return nil
}
