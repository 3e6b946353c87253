package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/prosetree/internal/model"
)

func getCmdReplace(gs *GlobalState) *cobra.Command {
	var (
		from, to  int
		slicePath string
		text      string
		compact   bool
	)
	cmd := &cobra.Command{
		Use:   "replace <doc.json>",
		Short: "Replace a range of a document",
		Long: `Replace a range of a document with a slice and print the result.

The replacement is read from --slice as slice JSON, or given as plain text
with --text. Without either, the range is deleted. Ranges that cannot be
replaced without producing an invalid document are rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if slicePath != "" && text != "" {
				return fmt.Errorf("--slice and --text are mutually exclusive")
			}
			doc, err := gs.readDoc(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("to") {
				to = from
			}
			slice, err := gs.replacement(slicePath, text)
			if err != nil {
				return err
			}
			result, err := doc.Replace(from, to, slice)
			if err != nil {
				return fmt.Errorf("%w: %w", errInvalid, err)
			}
			gs.Logger.WithComponent("cli").WithFields(map[string]any{
				"from": from,
				"to":   to,
				"size": result.Content().Size(),
			}).Debug("replaced range")
			data, err := result.MarshalJSON()
			if err != nil {
				return err
			}
			return gs.writeJSON(data, compact)
		},
	}
	cmd.Flags().IntVar(&from, "from", 0, "start of the replaced range")
	cmd.Flags().IntVar(&to, "to", 0, "end of the replaced range; defaults to --from")
	cmd.Flags().StringVar(&slicePath, "slice", "", "file holding the replacement slice as JSON")
	cmd.Flags().StringVar(&text, "text", "", "plain text to insert")
	cmd.Flags().BoolVar(&compact, "compact", false, "print compact JSON")
	return cmd
}

func (gs *GlobalState) replacement(slicePath, text string) (*model.Slice, error) {
	s, err := gs.loadSchema()
	if err != nil {
		return nil, err
	}
	switch {
	case slicePath != "":
		data, err := gs.readInput(slicePath)
		if err != nil {
			return nil, err
		}
		slice, err := s.SliceFromJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", errInvalid, slicePath, err)
		}
		return slice, nil
	case text != "":
		node, err := s.Text(text, nil)
		if err != nil {
			return nil, err
		}
		return model.NewSlice(model.FragmentFrom(node), 0, 0), nil
	}
	return model.EmptySlice, nil
}
