package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dshills/prosetree/internal/logging"
	"github.com/dshills/prosetree/internal/model"
	"github.com/dshills/prosetree/internal/schemadef"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitInvalid = 2
)

// errInvalid marks a command failure caused by invalid input documents
// rather than by the tool itself.
var errInvalid = errors.New("invalid document")

type rootCommand struct {
	gs  *GlobalState
	cmd *cobra.Command
}

func newRootCommand(gs *GlobalState) *rootCommand {
	c := &rootCommand{gs: gs}
	c.cmd = &cobra.Command{
		Use:               "prosetree",
		Short:             "inspect and edit schema-checked document trees",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
	}
	if gs.Version != "" {
		c.cmd.Version = gs.Version
	}
	c.cmd.SetIn(gs.Stdin)
	c.cmd.SetOut(gs.Stdout)
	c.cmd.SetErr(gs.Stderr)
	c.cmd.PersistentFlags().AddFlagSet(rootFlagSet(&gs.Flags))

	for _, sub := range []func(*GlobalState) *cobra.Command{
		getCmdCheck,
		getCmdCompile,
		getCmdDiff,
		getCmdFill,
		getCmdReplace,
		getCmdResolve,
		getCmdWrap,
	} {
		c.cmd.AddCommand(sub(gs))
	}
	return c
}

func rootFlagSet(flags *GlobalFlags) *pflag.FlagSet {
	fs := pflag.NewFlagSet("", pflag.ContinueOnError)
	fs.StringVarP(&flags.SchemaPath, "schema", "s", "", "schema definition file (TOML, YAML or JSON); the basic schema when empty")
	fs.BoolVarP(&flags.Verbose, "verbose", "v", false, "enable debug logging")
	fs.StringVar(&flags.LogFormat, "log-format", "text", "log format: text or json")
	fs.BoolVar(&flags.NoColor, "no-color", false, "disable colored output")
	return fs
}

func (c *rootCommand) persistentPreRunE(_ *cobra.Command, _ []string) error {
	gs := c.gs
	switch gs.Flags.LogFormat {
	case "text", "":
		gs.Logger.SetFormat(logging.FormatText)
	case "json":
		gs.Logger.SetFormat(logging.FormatJSON)
	default:
		return fmt.Errorf("unknown log format %q", gs.Flags.LogFormat)
	}
	if gs.Flags.Verbose {
		gs.Logger.SetLevel(logging.LevelDebug)
	}
	if gs.Flags.NoColor {
		color.NoColor = true
	}
	return nil
}

// loadSchema builds the schema named by --schema once per run.
func (gs *GlobalState) loadSchema() (*model.Schema, error) {
	if gs.schema != nil {
		return gs.schema, nil
	}
	opts := []model.SchemaOption{model.WithLogger(gs.Logger)}
	var (
		s   *model.Schema
		err error
	)
	if gs.Flags.SchemaPath == "" {
		s, err = schemadef.Basic(opts...)
	} else {
		loader := schemadef.NewLoader(gs.FS, schemadef.WithLogger(gs.Logger))
		s, err = loader.LoadSchema(gs.Flags.SchemaPath, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	gs.Logger.WithComponent("cli").WithField("schema", s.String()).Debug("schema ready")
	gs.schema = s
	return s, nil
}

// Execute runs the command line in gs and returns the process exit code.
func Execute(gs *GlobalState) int {
	root := newRootCommand(gs)
	if len(gs.Args) > 1 {
		root.cmd.SetArgs(gs.Args[1:])
	} else {
		root.cmd.SetArgs([]string{})
	}
	if err := root.cmd.ExecuteContext(gs.Ctx); err != nil {
		errColor := color.New(color.FgRed)
		errColor.Fprintf(gs.Stderr, "Error: %v\n", err)
		gs.Logger.WithComponent("cli").WithError(err).Debug("command failed")
		if errors.Is(err, errInvalid) {
			return ExitInvalid
		}
		return ExitFailure
	}
	return ExitOK
}
