// Package config handles configuration loading and validation for ixv.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/ixv/internal/core/styles"
)

// HostMode selects how the inspector talks to the viewer host.
type HostMode string

// Supported host modes.
const (
	// HostNone keeps everything in-process. Exports are printed once the
	// inspector exits.
	HostNone HostMode = "none"
	// HostFile appends outbound messages to host.out and watches host.in
	// for inbound ones.
	HostFile HostMode = "file"
)

// IsValid reports whether m is a supported mode.
func (m HostMode) IsValid() bool {
	switch m {
	case HostNone, HostFile:
		return true
	default:
		return false
	}
}

// Config holds the application configuration.
type Config struct {
	Theme   string       `yaml:"theme"`
	Search  SearchConfig `yaml:"search"`
	Host    HostConfig   `yaml:"host"`
	State   StateConfig  `yaml:"state"`
	TUI     TUIConfig    `yaml:"tui"`
	DataDir string       `yaml:"-"` // set by caller, not from config file
}

// SearchConfig holds search behaviour.
type SearchConfig struct {
	// HighlightResults marks every result of a free-text search as related
	// in the document.
	HighlightResults bool `yaml:"highlight_results"`
}

// HostConfig configures the host message channel.
type HostConfig struct {
	Mode HostMode `yaml:"mode"`
	Out  string   `yaml:"out"` // outbound JSON lines
	In   string   `yaml:"in"`  // inbound JSON lines, watched for appends
}

// StateConfig controls what is persisted between runs.
type StateConfig struct {
	RestoreSelection bool `yaml:"restore_selection"`
	HistorySize      int  `yaml:"history_size"`
}

// TUIConfig holds terminal UI options.
type TUIConfig struct {
	FootnoteMarkdown bool `yaml:"footnote_markdown"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Theme:  styles.DefaultTheme,
		Search: SearchConfig{HighlightResults: true},
		Host:   HostConfig{Mode: HostNone},
		State: StateConfig{
			RestoreSelection: true,
			HistorySize:      50,
		},
		TUI: TUIConfig{FootnoteMarkdown: true},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Host.Mode == "" {
		c.Host.Mode = defaults.Host.Mode
	}
	if c.State.HistorySize == 0 {
		c.State.HistorySize = defaults.State.HistorySize
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if _, ok := styles.GetPalette(c.Theme); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", c.Theme, styles.ThemeNames())
	}

	if !c.Host.Mode.IsValid() {
		return fmt.Errorf("host.mode %q must be one of none, file", c.Host.Mode)
	}

	if c.Host.Mode == HostFile && c.Host.Out == "" {
		return fmt.Errorf("host.out is required when host.mode is file")
	}

	if c.State.HistorySize < 1 {
		return fmt.Errorf("state.history_size must be at least 1")
	}

	return nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// StateFile returns the path of the per-report selection state.
func (c *Config) StateFile() string {
	return filepath.Join(c.DataDir, "state.json")
}

// HistoryFile returns the path of the export history.
func (c *Config) HistoryFile() string {
	return filepath.Join(c.DataDir, "exports.json")
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "ixv.log")
}
