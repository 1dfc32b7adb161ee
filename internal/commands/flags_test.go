package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPaths_XDG(t *testing.T) {
	cfgHome, dataHome := t.TempDir(), t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Setenv("XDG_DATA_HOME", dataHome)

	assert.Equal(t, filepath.Join(cfgHome, "ixv", "config.yaml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join(dataHome, "ixv"), DefaultDataDir())
}

func TestDefaultPaths_Home(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")

	assert.Equal(t, filepath.Join(home, ".config", "ixv", "config.yaml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join(home, ".local", "share", "ixv"), DefaultDataDir())
}

func TestFlags_LogPath(t *testing.T) {
	f := &Flags{DataDir: "/data/ixv"}
	assert.Equal(t, filepath.Join("/data/ixv", "ixv.log"), f.LogPath())

	f.LogFile = "/tmp/custom.log"
	assert.Equal(t, "/tmp/custom.log", f.LogPath())
}
