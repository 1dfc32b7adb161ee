package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ixv/internal/app"
	"github.com/colonyops/ixv/internal/core/config"
	"github.com/colonyops/ixv/internal/tui"
)

type InspectCmd struct {
	flags *Flags

	// flags
	hostMode string
	hostOut  string
	hostIn   string
	fragment string
}

// NewInspectCmd creates a new inspect command
func NewInspectCmd(flags *Flags) *InspectCmd {
	return &InspectCmd{flags: flags}
}

// Flags returns the inspect flags for registration on the root command
func (cmd *InspectCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "host",
			Usage:       "host channel mode (none, file); overrides host.mode",
			Sources:     cli.EnvVars("IXV_HOST"),
			Destination: &cmd.hostMode,
		},
		&cli.StringFlag{
			Name:        "host-out",
			Usage:       "file outbound host messages are appended to; overrides host.out",
			Destination: &cmd.hostOut,
		},
		&cli.StringFlag{
			Name:        "host-in",
			Usage:       "file watched for inbound host messages; overrides host.in",
			Destination: &cmd.hostIn,
		},
		&cli.StringFlag{
			Name:        "fragment",
			Usage:       "select the item of a #f-<id> reference instead of the persisted selection",
			Destination: &cmd.fragment,
		},
	}
}

// Register adds the inspect command to the application
func (cmd *InspectCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "inspect",
		Usage:     "Inspect a report interactively",
		UsageText: "ixv inspect [options] <report.json>",
		Description: `Opens the report in the interactive inspector.

The search index is built in the background; the document and the details of
the persisted selection are available immediately.

With --host file, selection changes and exports are appended to --host-out as
JSON lines and SHOW_FACT requests appended to --host-in are applied live.
Without a host, exports are printed to stdout once the inspector exits.`,
		Flags:  cmd.Flags(),
		Action: cmd.run,
	})

	return app
}

// Run executes the inspector. Exported for use as default command.
func (cmd *InspectCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *InspectCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected a report path. Run 'ixv inspect --help' for usage")
	}

	hostCfg, err := cmd.hostConfig()
	if err != nil {
		return err
	}

	s, err := cmd.flags.App.Open(c.Args().First())
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	ctx = s.Context(ctx)

	ch, err := app.OpenHost(hostCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := ch.Close(); err != nil {
			log.Error().Ctx(ctx).Err(err).Msg("failed to close host channel")
		}
	}()

	doc := tui.NewDocView(s.Report)
	ins := s.Inspector(doc, ch.Notifier, ch.Exporter)

	var restored bool
	if cmd.fragment != "" {
		restored = ins.RestoreFromFragment(cmd.fragment)
	} else {
		restored = ins.Restore()
	}
	log.Debug().Ctx(ctx).
		Bool("restored", restored).
		Str("host", string(hostCfg.Mode)).
		Msg("starting inspector")

	m := tui.New(ins, doc, tui.Options{
		Title:      filepath.Base(s.Path),
		Markdown:   cmd.flags.Config.TUI.FootnoteMarkdown,
		BuildIndex: s.BuildIndex,
		Inbox:      ch.Messages(),
	})

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	if ch.Buffer != nil {
		out := c.Root().Writer
		for _, payload := range ch.Buffer.Drain() {
			if _, err := fmt.Fprintln(out, string(payload)); err != nil {
				return fmt.Errorf("print export: %w", err)
			}
		}
	}

	return nil
}

// hostConfig applies the command line overrides to the configured host
// channel.
func (cmd *InspectCmd) hostConfig() (config.HostConfig, error) {
	cfg := cmd.flags.Config.Host
	if cmd.hostMode != "" {
		cfg.Mode = config.HostMode(cmd.hostMode)
	}
	if cmd.hostOut != "" {
		cfg.Out = cmd.hostOut
	}
	if cmd.hostIn != "" {
		cfg.In = cmd.hostIn
	}

	switch {
	case !cfg.Mode.IsValid():
		return cfg, fmt.Errorf("unknown host mode %q (available: none, file)", cfg.Mode)
	case cfg.Mode == config.HostFile && cfg.Out == "":
		return cfg, errors.New("--host-out is required with --host file")
	}
	return cfg, nil
}
