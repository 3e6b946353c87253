package schemadef

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a definition file format.
type Format string

// Supported formats. JSON is read with the YAML parser.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor returns the format implied by a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// parseRaw decodes data into a generic map.
func parseRaw(format Format, source string, data []byte) (map[string]any, error) {
	var raw map[string]any
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &raw)
	case FormatYAML, FormatJSON:
		err = yaml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// Parse decodes a single definition without processing includes.
func Parse(format Format, data []byte) (*Definition, error) {
	raw, err := parseRaw(format, "<input>", data)
	if err != nil {
		return nil, err
	}
	delete(raw, includeKey)
	return decode(raw)
}

// decode converts a merged raw map into a Definition. The map is
// re-encoded as YAML so that field names and types are checked in one
// place for every input format.
func decode(raw map[string]any) (*Definition, error) {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding definition: %w", err)
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, invalid("%v", err)
	}
	return &def, nil
}
