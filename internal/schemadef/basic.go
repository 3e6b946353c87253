package schemadef

import (
	_ "embed"

	"github.com/dshills/prosetree/internal/model"
)

//go:embed basic.toml
var basicTOML []byte

// BasicDefinition returns the definition of the built-in basic schema.
func BasicDefinition() (*Definition, error) {
	return Parse(FormatTOML, basicTOML)
}

// Basic builds the built-in basic schema.
func Basic(opts ...model.SchemaOption) (*model.Schema, error) {
	def, err := BasicDefinition()
	if err != nil {
		return nil, err
	}
	return Build(def, opts...)
}
