package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader decodes a T from the file named by its -f flag, or from stdin
// when the flag is unset and stdin is not a terminal.
type FileReader[T any] struct {
	fileFlagValue string
	stdin         *os.File
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to JSON file (reads from stdin if not provided)",
		Destination: &fr.fileFlagValue,
	}
}

// Provided reports whether input is available without blocking on a
// terminal.
func (fr *FileReader[T]) Provided() bool {
	return fr.fileFlagValue != "" || !term.IsTerminal(int(fr.in().Fd()))
}

func (fr *FileReader[T]) Read() (T, error) {
	var input T

	if !fr.Provided() {
		return input, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe JSON input")
	}

	var reader io.Reader = fr.in()
	if fr.fileFlagValue != "" {
		f, err := os.Open(fr.fileFlagValue)
		if err != nil {
			return input, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	}

	if err := json.NewDecoder(reader).Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}

	return input, nil
}

func (fr *FileReader[T]) in() *os.File {
	if fr.stdin != nil {
		return fr.stdin
	}
	return os.Stdin
}
