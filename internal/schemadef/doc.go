// Package schemadef loads schema definitions from TOML, YAML or JSON files
// and builds model schemas from them.
//
// A definition lists node and mark specs in order. Attributes use the
// same fields as model.AttributeSpec, plus validate_lua, a Lua snippet
// compiled with package script:
//
//	top_node = "doc"
//	"@include" = ["base.toml"]
//
//	[[nodes]]
//	name = "heading"
//	content = "inline*"
//	group = "block"
//	defining = true
//
//	[nodes.attrs.level]
//	default = 1
//	validate = "number"
//	validate_lua = "return value >= 1 and value <= 6, 'level out of range'"
//
// # Includes
//
// The "@include" key names files, relative to the including file, that are
// loaded first. The including file takes precedence: top-level keys are
// deep merged, and nodes and marks with the same name are merged entry by
// entry. New entries are appended in file order. Includes nest up to
// DefaultMaxIncludeDepth levels.
//
// # Attribute defaults
//
// An attribute without a default is required unless it is generated or
// declares required = false, in which case its default is null.
//
// Files are read through an afero.Fs, so tests and tools can load
// definitions from memory.
package schemadef
