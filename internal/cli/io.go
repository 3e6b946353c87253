package cli

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/tidwall/pretty"

	"github.com/dshills/prosetree/internal/model"
)

// readInput reads a named file, or stdin for "-".
func (gs *GlobalState) readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(gs.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := afero.ReadFile(gs.FS, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// readDoc decodes a JSON document against the current schema.
func (gs *GlobalState) readDoc(path string) (*model.Node, error) {
	s, err := gs.loadSchema()
	if err != nil {
		return nil, err
	}
	data, err := gs.readInput(path)
	if err != nil {
		return nil, err
	}
	doc, err := s.NodeFromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errInvalid, path, err)
	}
	return doc, nil
}

// writeJSON prints data, indented unless compact is set.
func (gs *GlobalState) writeJSON(data []byte, compact bool) error {
	if compact {
		data = pretty.Ugly(data)
		data = append(data, '\n')
	} else {
		data = pretty.PrettyOptions(data, &pretty.Options{Width: 80, Indent: "  ", SortKeys: false})
	}
	_, err := gs.Stdout.Write(data)
	return err
}
