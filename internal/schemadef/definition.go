package schemadef

import (
	"gopkg.in/yaml.v3"

	"github.com/dshills/prosetree/internal/model"
	"github.com/dshills/prosetree/internal/script"
)

// Definition is the decoded form of a schema definition file.
type Definition struct {
	TopNode string    `yaml:"top_node"`
	Nodes   []NodeDef `yaml:"nodes"`
	Marks   []MarkDef `yaml:"marks"`
}

// NodeDef describes a node type.
type NodeDef struct {
	Name               string             `yaml:"name"`
	Content            string             `yaml:"content"`
	Marks              *string            `yaml:"marks"`
	Group              string             `yaml:"group"`
	Inline             bool               `yaml:"inline"`
	Atom               bool               `yaml:"atom"`
	Attrs              map[string]AttrDef `yaml:"attrs"`
	Selectable         *bool              `yaml:"selectable"`
	Draggable          *bool              `yaml:"draggable"`
	Code               bool               `yaml:"code"`
	Whitespace         string             `yaml:"whitespace"`
	Defining           bool               `yaml:"defining"`
	DefiningAsContext  *bool              `yaml:"defining_as_context"`
	DefiningForContent *bool              `yaml:"defining_for_content"`
	Isolating          bool               `yaml:"isolating"`

	// LeafText is the text leaf nodes of this type contribute to text
	// content.
	LeafText string `yaml:"leaf_text"`

	// Extra collects fields the model does not interpret.
	Extra map[string]any `yaml:",inline"`
}

// MarkDef describes a mark type.
type MarkDef struct {
	Name      string             `yaml:"name"`
	Attrs     map[string]AttrDef `yaml:"attrs"`
	Inclusive *bool              `yaml:"inclusive"`
	Excludes  *string            `yaml:"excludes"`
	Group     string             `yaml:"group"`
	Spanning  *bool              `yaml:"spanning"`
	Extra     map[string]any     `yaml:",inline"`
}

// AttrDef describes an attribute.
type AttrDef struct {
	Default           any    `yaml:"default"`
	Required          *bool  `yaml:"required"`
	Validate          string `yaml:"validate"`
	ValidateLua       string `yaml:"validate_lua"`
	ExcludeFromMarkup bool   `yaml:"exclude_from_markup"`
	Generated         bool   `yaml:"generated"`

	// HasDefault is set when the definition contains a default key, even
	// one with a null value.
	HasDefault bool `yaml:"-"`
}

// UnmarshalYAML decodes the attribute and records whether a default was
// given.
func (a *AttrDef) UnmarshalYAML(value *yaml.Node) error {
	type plain AttrDef
	if err := value.Decode((*plain)(a)); err != nil {
		return err
	}
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			if value.Content[i].Value == "default" {
				a.HasDefault = true
			}
		}
	}
	return nil
}

// IsRequired reports whether the attribute must be supplied.
func (a AttrDef) IsRequired() bool {
	if a.Required != nil {
		return *a.Required
	}
	return !a.HasDefault && !a.Generated
}

// SchemaSpec converts the definition into a model spec. Lua validators are
// compiled here.
func (d *Definition) SchemaSpec() (model.SchemaSpec, error) {
	if len(d.Nodes) == 0 {
		return model.SchemaSpec{}, invalid("no node types defined")
	}
	spec := model.SchemaSpec{TopNode: d.TopNode}
	for i, n := range d.Nodes {
		if n.Name == "" {
			return model.SchemaSpec{}, invalid("node %d has no name", i)
		}
		attrs, err := attrSpecs(n.Name, n.Attrs)
		if err != nil {
			return model.SchemaSpec{}, err
		}
		ns := model.NodeSpec{
			Name:               n.Name,
			Content:            n.Content,
			Marks:              n.Marks,
			Group:              n.Group,
			Inline:             n.Inline,
			Atom:               n.Atom,
			Attrs:              attrs,
			Selectable:         n.Selectable,
			Draggable:          n.Draggable,
			Code:               n.Code,
			Whitespace:         n.Whitespace,
			Defining:           n.Defining,
			DefiningAsContext:  n.DefiningAsContext,
			DefiningForContent: n.DefiningForContent,
			Isolating:          n.Isolating,
			Extra:              n.Extra,
		}
		if n.LeafText != "" {
			text := n.LeafText
			ns.LeafText = func(*model.Node) string { return text }
		}
		spec.Nodes = append(spec.Nodes, ns)
	}
	for i, m := range d.Marks {
		if m.Name == "" {
			return model.SchemaSpec{}, invalid("mark %d has no name", i)
		}
		attrs, err := attrSpecs(m.Name, m.Attrs)
		if err != nil {
			return model.SchemaSpec{}, err
		}
		spec.Marks = append(spec.Marks, model.MarkSpec{
			Name:      m.Name,
			Attrs:     attrs,
			Inclusive: m.Inclusive,
			Excludes:  m.Excludes,
			Group:     m.Group,
			Spanning:  m.Spanning,
			Extra:     m.Extra,
		})
	}
	return spec, nil
}

func attrSpecs(owner string, defs map[string]AttrDef) (map[string]model.AttributeSpec, error) {
	if len(defs) == 0 {
		return nil, nil
	}
	specs := make(map[string]model.AttributeSpec, len(defs))
	for name, def := range defs {
		spec := model.AttributeSpec{
			Required:          def.IsRequired(),
			Validate:          def.Validate,
			ExcludeFromMarkup: def.ExcludeFromMarkup,
			Generated:         def.Generated,
		}
		if !spec.Required && !spec.Generated {
			spec.Default = def.Default
		}
		if def.ValidateLua != "" {
			v, err := script.Compile(owner+"."+name, def.ValidateLua)
			if err != nil {
				return nil, err
			}
			spec.ValidateFunc = v.Validate
		}
		specs[name] = spec
	}
	return specs, nil
}

// Build converts def and compiles it into a schema.
func Build(def *Definition, opts ...model.SchemaOption) (*model.Schema, error) {
	spec, err := def.SchemaSpec()
	if err != nil {
		return nil, err
	}
	return model.NewSchema(spec, opts...)
}
