package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ixv/internal/core/config"
	"github.com/colonyops/ixv/internal/core/styles"
	"github.com/colonyops/ixv/internal/printer"
	"github.com/colonyops/ixv/pkg/iojson"
)

type ConfigCmd struct {
	flags *Flags

	// validate flags
	format string

	// init flags
	yes   bool
	force bool
}

// NewConfigCmd creates a new config command.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "ixv config validate [options]",
				Description: "Validates the configuration file, checking the theme, the host channel and file paths.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.runValidate,
			},
			{
				Name:      "init",
				Usage:     "Create a configuration file",
				UsageText: "ixv config init [--yes] [--force]",
				Description: `Asks for the theme, the host channel and what to persist between runs, then
writes the configuration file.`,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "yes",
						Aliases:     []string{"y"},
						Usage:       "skip prompts and write the defaults",
						Destination: &cmd.yes,
					},
					&cli.BoolFlag{
						Name:        "force",
						Usage:       "overwrite an existing config file",
						Destination: &cmd.force,
					},
				},
				Action: cmd.runInit,
			},
		},
	})

	return app
}

// validationIssue is a single finding of config validate.
type validationIssue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type validateOutput struct {
	Valid    bool                       `json:"valid"`
	Errors   []validationIssue          `json:"errors,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

func (cmd *ConfigCmd) runValidate(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	out := validateOutput{Warnings: cfg.Warnings()}

	if err := cfg.ValidateDeep(cmd.flags.ConfigPath); err != nil {
		out.Errors = validationIssues(err)
	}
	out.Valid = len(out.Errors) == 0

	if cmd.format == "json" {
		if err := iojson.WriteWith(c.Root().Writer, os.Stderr, out); err != nil {
			return err
		}
		if !out.Valid {
			return cli.Exit("", 1)
		}
		return nil
	}

	p := printer.Ctx(ctx)
	if len(out.Warnings) > 0 {
		p.Section("Warnings")
	}
	for _, w := range out.Warnings {
		p.Warnf("%s: %s %s", w.Category, w.Item, w.Message)
	}
	if len(out.Errors) > 0 {
		p.Section("Errors")
	}
	for _, e := range out.Errors {
		if e.Field != "" {
			p.Errorf("%s: %s", e.Field, e.Message)
		} else {
			p.Errorf("%s", e.Message)
		}
	}

	if out.Valid {
		p.Successf("Configuration is valid")
		return nil
	}

	p.Printf("")
	p.Errorf("%d error(s) found", len(out.Errors))
	return cli.Exit("", 1)
}

// validationIssues flattens criterio field errors.
func validationIssues(err error) []validationIssue {
	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []validationIssue{{Message: err.Error()}}
	}

	issues := make([]validationIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, validationIssue{Field: fe.Field, Message: fe.Err.Error()})
	}
	return issues
}

func (cmd *ConfigCmd) runInit(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)
	path := cmd.flags.ConfigPath

	if _, err := os.Stat(path); err == nil && !cmd.force {
		if cmd.yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", path)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(path + "\nOverwrite?").
			Value(&overwrite).
			Run()
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	cfg.DataDir = cmd.flags.DataDir

	if !cmd.yes {
		if err := runInitForm(&cfg); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	p.Successf("Created config: %s", path)
	for _, w := range cfg.Warnings() {
		p.Warnf("%s: %s %s", w.Category, w.Item, w.Message)
	}
	return nil
}

func runInitForm(cfg *config.Config) error {
	mode := string(cfg.Host.Mode)

	themes := make([]huh.Option[string], 0, len(styles.ThemeNames()))
	for _, name := range styles.ThemeNames() {
		themes = append(themes, huh.NewOption(name, name))
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(themes...).
				Value(&cfg.Theme),
			huh.NewSelect[string]().
				Title("Host channel").
				Description("How the inspector talks to the report viewer").
				Options(
					huh.NewOption("None, print exports on exit", string(config.HostNone)),
					huh.NewOption("Files, JSON lines in and out", string(config.HostFile)),
				).
				Value(&mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Outbound file").
				Description("Selection changes and exports are appended here").
				Validate(requirePath).
				Value(&cfg.Host.Out),
			huh.NewInput().
				Title("Inbound file").
				Description("Watched for SHOW_FACT requests, leave empty to disable").
				Value(&cfg.Host.In),
		).WithHideFunc(func() bool { return mode != string(config.HostFile) }),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Restore the last selection of each report?").
				Value(&cfg.State.RestoreSelection),
			huh.NewConfirm().
				Title("Highlight search matches in the document?").
				Value(&cfg.Search.HighlightResults),
			huh.NewConfirm().
				Title("Render footnotes as markdown?").
				Value(&cfg.TUI.FootnoteMarkdown),
		),
	).WithTheme(huh.ThemeCharm()).Run()
	if err != nil {
		return err
	}

	cfg.Host.Mode = config.HostMode(mode)
	if cfg.Host.Mode == config.HostNone {
		cfg.Host.Out, cfg.Host.In = "", ""
	}
	return nil
}

func requirePath(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a path is required")
	}
	return nil
}
