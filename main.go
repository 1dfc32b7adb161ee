package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ixv/internal/app"
	"github.com/colonyops/ixv/internal/commands"
	"github.com/colonyops/ixv/internal/core/config"
	"github.com/colonyops/ixv/internal/core/logging"
	"github.com/colonyops/ixv/internal/core/styles"
	"github.com/colonyops/ixv/internal/printer"
	"github.com/colonyops/ixv/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var logCloser func()

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "ixv",
		Usage:     "Inspect the facts of an inline XBRL report",
		UsageText: "ixv [global options] [command [command options]] <report.json>",
		Description: `ixv is a terminal inspector for inline XBRL reports exported as JSON.

Select facts to see their concept, period, calculations, footnotes,
signatures and the change on the prior period; search the report; and stage
facts for signing by the host viewer.

Run 'ixv <report.json>' to open the inspector.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("IXV_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/ixv.log)",
				Sources:     cli.EnvVars("IXV_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("IXV_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("IXV_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogPath(), logging.ContextHook{})
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.Theme)
			styles.SetTheme(palette)

			flags.Config = cfg
			flags.App = app.New(cfg)

			ctx = printer.NewContext(ctx, printer.New(c.Root().Writer, os.Stderr))
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	inspectCmd := commands.NewInspectCmd(flags)

	root = inspectCmd.Register(root)
	root = commands.NewSearchCmd(flags).Register(root)
	root = commands.NewShowCmd(flags).Register(root)
	root = commands.NewExportCmd(flags).Register(root)
	root = commands.NewHistoryCmd(flags).Register(root)
	root = commands.NewConfigCmd(flags).Register(root)

	// Register inspect flags on root command
	root.Flags = append(root.Flags, inspectCmd.Flags()...)

	// Inspect is the default action when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() == 0 {
			return cli.ShowRootCommandHelp(c)
		}
		return inspectCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := root.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
