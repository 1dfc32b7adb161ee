package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	dir := t.TempDir()
	cfg.Host = HostConfig{
		Mode: HostFile,
		Out:  filepath.Join(dir, "out.jsonl"),
		In:   filepath.Join(dir, "in", "in.jsonl"),
	}

	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_RunsStructuralValidation(t *testing.T) {
	cfg := validConfig(t)
	cfg.Theme = "neon"

	err := cfg.ValidateDeep("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown theme")
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	cfg.DataDir = file

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "data_dir", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Err.Error(), "not a directory")
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	err := cfg.ValidateDeep(t.TempDir())

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "config_file", fieldErrs[0].Field)
}

func TestValidateDeep_HostFilesAreDirectories(t *testing.T) {
	cfg := validConfig(t)
	cfg.Host = HostConfig{Mode: HostFile, Out: t.TempDir(), In: t.TempDir()}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 2)
	assert.Equal(t, "host.out", fieldErrs[0].Field)
	assert.Equal(t, "host.in", fieldErrs[1].Field)
}

func TestValidateDeep_HostInIsOut(t *testing.T) {
	cfg := validConfig(t)
	path := filepath.Join(t.TempDir(), "host.jsonl")
	cfg.Host = HostConfig{Mode: HostFile, Out: path, In: path}

	err := cfg.ValidateDeep("")
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "host.in", fieldErrs[0].Field)
}

func TestWarnings(t *testing.T) {
	tests := []struct {
		name  string
		host  HostConfig
		items []string
	}{
		{name: "defaults", host: HostConfig{Mode: HostNone}},
		{name: "paths ignored", host: HostConfig{Mode: HostNone, Out: "a", In: "b"}, items: []string{"host.out", "host.in"}},
		{name: "no inbox", host: HostConfig{Mode: HostFile, Out: "a"}, items: []string{"host.in"}},
		{name: "complete file mode", host: HostConfig{Mode: HostFile, Out: "a", In: "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			cfg.Host = tt.host

			var items []string
			for _, w := range cfg.Warnings() {
				items = append(items, w.Item)
			}
			assert.Equal(t, tt.items, items)
		})
	}
}
