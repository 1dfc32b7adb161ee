package commands

import (
	"os"
	"path/filepath"

	"github.com/colonyops/ixv/internal/app"
	"github.com/colonyops/ixv/internal/core/config"
)

const appName = "ixv"

// Flags holds the global flags and what the root Before hook builds from
// them.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	Config *config.Config
	App    *app.App
}

// LogPath returns --log-file, or ixv.log in the data directory. The
// inspector owns the terminal so logs always go to a file.
func (f *Flags) LogPath() string {
	if f.LogFile != "" {
		return f.LogFile
	}
	return filepath.Join(f.DataDir, appName+".log")
}

// DefaultConfigPath is config.yaml under $XDG_CONFIG_HOME/ixv.
func DefaultConfigPath() string {
	return xdgPath("XDG_CONFIG_HOME", ".config", "config.yaml")
}

// DefaultDataDir is $XDG_DATA_HOME/ixv.
func DefaultDataDir() string {
	return xdgPath("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// xdgPath joins elem onto the ixv directory inside the base dir named by
// env, or inside fallback under the home directory when env is unset.
func xdgPath(env, fallback string, elem ...string) string {
	base := os.Getenv(env)
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(append([]string{base, appName}, elem...)...)
}
