// Package cli implements the prosetree command line tool.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/dshills/prosetree/internal/logging"
	"github.com/dshills/prosetree/internal/model"
)

// GlobalFlags are the flags shared by every command.
type GlobalFlags struct {
	SchemaPath string
	Verbose    bool
	LogFormat  string
	NoColor    bool
}

// GlobalState holds everything a command touches outside its arguments, so
// tests can run commands against in-memory files and buffers.
type GlobalState struct {
	Ctx context.Context

	FS     afero.Fs
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Args    []string
	Flags   GlobalFlags
	Version string

	Logger *logging.Logger

	schema *model.Schema
}

// NewGlobalState returns the state for a process run.
func NewGlobalState(ctx context.Context) *GlobalState {
	return &GlobalState{
		Ctx:    ctx,
		FS:     afero.NewOsFs(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Args:   os.Args,
		Logger: logging.New(logging.Config{Level: logging.LevelWarn, Output: os.Stderr}),
	}
}
