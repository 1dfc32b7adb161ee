package logutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "ixv.log")

	l, closer, err := New("warn", file)
	require.NoError(t, err)
	l.Info().Msg("dropped")
	l.Warn().Str("fact", "f1").Msg("kept")
	closer()

	// a second logger appends
	l, closer, err = New("info", file)
	require.NoError(t, err)
	l.Info().Msg("again")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"fact":"f1"`)
	assert.Contains(t, lines[0], `"message":"kept"`)
	assert.Contains(t, lines[1], `"message":"again"`)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, closer, err := New("loud", "")
	require.Error(t, err)
	assert.NotNil(t, closer)
}

type tagHook struct{}

func (tagHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str("tag", "x")
}

func TestNew_Hooks(t *testing.T) {
	file := filepath.Join(t.TempDir(), "ixv.log")

	l, closer, err := New("debug", file, tagHook{})
	require.NoError(t, err)
	l.Debug().Msg("hello")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tag":"x"`)
}
