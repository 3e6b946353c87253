package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/dshills/prosetree/internal/model"
)

// describePos reports a resolved position as JSON.
func describePos(r *model.ResolvedPos) ([]byte, error) {
	out := []byte(`{}`)
	var err error
	set := func(path string, value any) {
		if err == nil {
			out, err = sjson.SetBytes(out, path, value)
		}
	}
	set("pos", r.Pos)
	set("depth", r.Depth)
	set("parentOffset", r.ParentOffset)
	set("parent", r.Parent().Type().Name)
	for d := 0; d <= r.Depth; d++ {
		prefix := "path." + strconv.Itoa(d)
		set(prefix+".type", r.Node(d).Type().Name)
		set(prefix+".index", r.Index(d))
		set(prefix+".start", r.Start(d))
	}
	set("textOffset", r.TextOffset())
	if n := r.NodeBefore(); n != nil {
		set("nodeBefore", n.Type().Name)
	}
	if n := r.NodeAfter(); n != nil {
		set("nodeAfter", n.Type().Name)
	}
	marks := make([]string, 0, len(r.Marks()))
	for _, m := range r.Marks() {
		marks = append(marks, m.Type().Name)
	}
	set("marks", marks)
	return out, err
}

func getCmdResolve(gs *GlobalState) *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:   "resolve <doc.json> <pos>",
		Short: "Describe a position in a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[1])
			}
			doc, err := gs.readDoc(args[0])
			if err != nil {
				return err
			}
			r, err := doc.Resolve(pos)
			if err != nil {
				return err
			}
			data, err := describePos(r)
			if err != nil {
				return err
			}
			return gs.writeJSON(data, compact)
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print compact JSON")
	return cmd
}
