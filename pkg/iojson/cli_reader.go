package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader reads command input from the file named by its flag, or from
// stdin when the flag is unset.
type FileReader[T any] struct {
	fileFlagValue string
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to input file (reads from stdin if not provided or \"-\")",
		Destination: &fr.fileFlagValue,
	}
}

// SetPath overrides the flag value, e.g. from a positional argument.
func (fr *FileReader[T]) SetPath(path string) {
	fr.fileFlagValue = path
}

// Path returns the configured file path; empty means stdin.
func (fr *FileReader[T]) Path() string {
	if fr.fileFlagValue == "-" {
		return ""
	}
	return fr.fileFlagValue
}

// Open returns the input stream. Reading from an interactive terminal is
// refused so the command does not hang waiting for input.
func (fr *FileReader[T]) Open() (io.ReadCloser, error) {
	if path := fr.Path(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		return f, nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe input")
	}
	return io.NopCloser(os.Stdin), nil
}

// Read decodes the input as JSON into T.
func (fr *FileReader[T]) Read() (T, error) {
	var input T

	reader, err := fr.Open()
	if err != nil {
		return input, err
	}
	defer func() { _ = reader.Close() }()

	if err := json.NewDecoder(reader).Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}

	return input, nil
}
