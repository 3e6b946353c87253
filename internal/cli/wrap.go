package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func getCmdWrap(gs *GlobalState) *cobra.Command {
	return &cobra.Command{
		Use:   "wrap <parent> <target>",
		Short: "Find the wrappers needed to place a node type in a parent",
		Long: `Find the shortest chain of wrapper node types that lets a node of the
target type appear at the start of the parent type's content.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := gs.loadSchema()
			if err != nil {
				return err
			}
			parent, err := s.NodeType(args[0])
			if err != nil {
				return err
			}
			target, err := s.NodeType(args[1])
			if err != nil {
				return err
			}
			wrappers, ok := parent.ContentMatch().FindWrapping(target)
			switch {
			case !ok:
				color.New(color.FgRed).Fprintf(gs.Stdout, "no wrapping places %s in %s\n", target.Name, parent.Name)
			case len(wrappers) == 0:
				fmt.Fprintln(gs.Stdout, "(direct)")
			default:
				names := make([]string, len(wrappers))
				for i, w := range wrappers {
					names[i] = w.Name
				}
				fmt.Fprintln(gs.Stdout, strings.Join(names, " > "))
			}
			return nil
		},
	}
}
