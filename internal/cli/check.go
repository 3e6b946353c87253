package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func getCmdCheck(gs *GlobalState) *cobra.Command {
	return &cobra.Command{
		Use:   "check <doc.json>...",
		Short: "Check documents against the schema",
		Long: `Check documents against the schema.

Each document is decoded and its content, attributes and marks are checked
recursively. Use "-" to read a document from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := color.New(color.FgGreen)
			bad := color.New(color.FgRed)
			failed := 0
			for _, path := range args {
				doc, err := gs.readDoc(path)
				if err == nil {
					err = doc.Check()
				}
				if err != nil {
					failed++
					bad.Fprintf(gs.Stdout, "FAIL %s: %v\n", path, err)
					continue
				}
				ok.Fprintf(gs.Stdout, "ok   %s (%s, size %d)\n", path, doc.Type().Name, doc.Content().Size())
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d documents failed", errInvalid, failed, len(args))
			}
			return nil
		},
	}
}
