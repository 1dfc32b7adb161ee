// Package logutils builds the process logger.
package logutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Stderr selects human readable output on stderr instead of a log file.
const Stderr = "-"

// New returns a logger for the given level and destination. A file path
// receives JSON lines and is appended to across runs, Stderr gets console
// output, and an empty file discards everything. The returned closer must be
// called once logging is done.
//
// The level parameter can be one of: debug, info, warn, error, fatal.
func New(level string, file string, hooks ...zerolog.Hook) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, err
	}

	var writer io.Writer
	switch file {
	case "":
		writer = io.Discard
	case Stderr:
		writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	default:
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("create logs dir: %w", err)
		}

		osFile, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("open log file: %w", err)
		}
		closer = func() { _ = osFile.Close() }
		writer = osFile
	}

	l := zerolog.New(writer).
		With().
		Timestamp().
		Logger().
		Level(lvl)

	for _, h := range hooks {
		l = l.Hook(h)
	}

	return l, closer, nil
}
