package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/dshills/prosetree/internal/model"
)

// docDiff is the changed range between two documents, in content
// positions of each.
type docDiff struct {
	Identical bool
	Start     int
	EndA      int
	EndB      int
	Deleted   string
	Inserted  string
}

func diffDocs(a, b *model.Node) docDiff {
	start, ok := a.Content().FindDiffStart(b.Content(), 0)
	if !ok {
		return docDiff{Identical: true}
	}
	endA, endB, _ := a.Content().FindDiffEnd(b.Content(), a.Content().Size(), b.Content().Size())
	// The scans can overlap when the shared prefix and suffix meet inside
	// repeated content.
	if endA < start {
		endB += start - endA
		endA = start
	}
	if endB < start {
		endA += start - endB
		endB = start
	}
	return docDiff{
		Start:    start,
		EndA:     endA,
		EndB:     endB,
		Deleted:  a.TextBetween(start, endA, "\n", nil),
		Inserted: b.TextBetween(start, endB, "\n", nil),
	}
}

func (d docDiff) report() ([]byte, error) {
	out := []byte(`{}`)
	var err error
	set := func(path string, value any) {
		if err == nil {
			out, err = sjson.SetBytes(out, path, value)
		}
	}
	set("identical", d.Identical)
	if !d.Identical {
		set("start", d.Start)
		set("a.end", d.EndA)
		set("a.text", d.Deleted)
		set("b.end", d.EndB)
		set("b.text", d.Inserted)
	}
	return out, err
}

func getCmdDiff(gs *GlobalState) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "diff <a.json> <b.json>",
		Short: "Find the changed range between two documents",
		Long: `Find the changed range between two documents.

The range starts at the first position where the documents differ and ends
at the last one, scanning backwards from the end of each document.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := gs.readDoc(args[0])
			if err != nil {
				return err
			}
			b, err := gs.readDoc(args[1])
			if err != nil {
				return err
			}
			d := diffDocs(a, b)
			if asJSON {
				data, err := d.report()
				if err != nil {
					return err
				}
				return gs.writeJSON(data, false)
			}
			if d.Identical {
				color.New(color.FgGreen).Fprintln(gs.Stdout, "documents are identical")
				return nil
			}
			fmt.Fprintf(gs.Stdout, "@@ a %d-%d b %d-%d @@\n", d.Start, d.EndA, d.Start, d.EndB)
			if d.Deleted != "" {
				color.New(color.FgRed).Fprintf(gs.Stdout, "- %q\n", d.Deleted)
			}
			if d.Inserted != "" {
				color.New(color.FgGreen).Fprintf(gs.Stdout, "+ %q\n", d.Inserted)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the diff as JSON")
	return cmd
}
