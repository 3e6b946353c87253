package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func getCmdFill(gs *GlobalState) *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:   "fill [type]",
		Short: "Print the smallest valid node of a type",
		Long: `Print the smallest valid node of a type, with required content filled in.
Without a type the schema's top node type is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := gs.loadSchema()
			if err != nil {
				return err
			}
			t := s.TopNodeType()
			if len(args) == 1 {
				if t, err = s.NodeType(args[0]); err != nil {
					return err
				}
			}
			node, err := t.CreateAndFill(nil, nil, nil)
			if err != nil {
				return err
			}
			if node == nil {
				return fmt.Errorf("no valid content can be generated for %s", t.Name)
			}
			data, err := node.MarshalJSON()
			if err != nil {
				return err
			}
			return gs.writeJSON(data, compact)
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print compact JSON")
	return cmd
}
