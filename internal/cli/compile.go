package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/prosetree/internal/model"
)

func getCmdCompile(gs *GlobalState) *cobra.Command {
	return &cobra.Command{
		Use:   "compile [type]...",
		Short: "Show the content automata of node types",
		Long: `Show the content automata of node types.

Each state is printed on its own line as its index, a "*" when it is a valid
end, and its transitions. Without arguments every node type with content
is shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := gs.loadSchema()
			if err != nil {
				return err
			}
			types := s.Nodes()
			if len(args) > 0 {
				types = types[:0:0]
				for _, name := range args {
					t, err := s.NodeType(name)
					if err != nil {
						return err
					}
					types = append(types, t)
				}
			}
			for _, t := range types {
				if t.IsLeaf() && len(args) == 0 {
					continue
				}
				printAutomaton(gs, t)
			}
			return nil
		},
	}
}

func printAutomaton(gs *GlobalState, t *model.NodeType) {
	fmt.Fprintf(gs.Stdout, "%s: %q\n", t.Name, t.Spec.Content)
	for _, line := range strings.Split(t.ContentMatch().String(), "\n") {
		fmt.Fprintf(gs.Stdout, "  %s\n", line)
	}
}
