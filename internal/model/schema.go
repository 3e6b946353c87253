package model

import (
	"fmt"
	"strings"

	"github.com/dshills/prosetree/internal/logging"
)

// SchemaSpec describes a schema. Node and mark order is significant: marks
// are ranked by their position, and node order decides which type is used
// when content has to be generated.
type SchemaSpec struct {
	Nodes []NodeSpec
	Marks []MarkSpec

	// TopNode names the type of document roots. Defaults to "doc".
	TopNode string
}

// NodeSpec describes a node type.
type NodeSpec struct {
	Name string

	// Content is the content expression for the type. Empty means the
	// type is a leaf.
	Content string

	// Marks lists the marks allowed inside the type, as space-separated
	// mark names or groups. "_" allows all marks, "" allows none. When nil,
	// types with inline content allow all marks and others allow none.
	Marks *string

	// Group is a space-separated list of groups the type belongs to.
	Group string

	Inline bool
	Atom   bool
	Attrs  map[string]AttributeSpec

	Selectable *bool
	Draggable  *bool
	Code       bool

	// Whitespace is "pre" or "normal". Defaults to "pre" for code types.
	Whitespace string

	Defining           bool
	DefiningAsContext  *bool
	DefiningForContent *bool
	Isolating          bool

	// LeafText renders leaf nodes of this type in TextContent and
	// TextBetween.
	LeafText func(*Node) string

	// Extra carries fields that are opaque to the model.
	Extra map[string]any
}

// MarkSpec describes a mark type.
type MarkSpec struct {
	Name  string
	Attrs map[string]AttributeSpec

	// Inclusive controls whether the mark extends to content inserted at
	// its end. Defaults to true.
	Inclusive *bool

	// Excludes lists the marks that cannot coexist with this one, as
	// space-separated names or groups. "_" excludes all marks, "" none.
	// When nil the mark excludes only itself.
	Excludes *string

	Group string

	// Spanning controls whether the mark may span multiple adjacent nodes.
	// Defaults to true.
	Spanning *bool

	// Extra carries fields that are opaque to the model.
	Extra map[string]any
}

// Schema is the set of node and mark types a document may use. A schema is
// immutable after construction and safe for concurrent use.
type Schema struct {
	Spec SchemaSpec

	nodes    map[string]*NodeType
	nodeList []*NodeType
	marks    map[string]*MarkType
	markList []*MarkType
	topNode  *NodeType

	idgen  IDGenerator
	logger *logging.Logger
}

// SchemaOption configures a Schema during creation.
type SchemaOption func(*Schema)

// WithIDGenerator sets the generator used for generated attributes.
func WithIDGenerator(g IDGenerator) SchemaOption {
	return func(s *Schema) {
		if g != nil {
			s.idgen = g
		}
	}
}

// WithLogger sets the logger used while compiling the schema.
func WithLogger(l *logging.Logger) SchemaOption {
	return func(s *Schema) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSchema compiles a schema spec. Construction happens in two passes:
// every type is created first, then content expressions, mark sets and
// exclusions are resolved against the complete set of types.
func NewSchema(spec SchemaSpec, opts ...SchemaOption) (*Schema, error) {
	s := &Schema{
		Spec:   spec,
		nodes:  make(map[string]*NodeType, len(spec.Nodes)),
		marks:  make(map[string]*MarkType, len(spec.Marks)),
		idgen:  UUIDGenerator{},
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	log := s.logger.WithComponent("schema")

	if err := s.compileNodeTypes(); err != nil {
		return nil, err
	}
	if err := s.compileMarkTypes(); err != nil {
		return nil, err
	}

	cache := make(map[string]*ContentMatch)
	for _, t := range s.nodeList {
		if _, ok := s.marks[t.Name]; ok {
			return nil, grammarError("%s can not be both a node and a mark", t.Name)
		}
		match, err := s.compileContent(t.Spec.Content, cache)
		if err != nil {
			return nil, err
		}
		t.contentMatch = match
		t.inlineContent = match.InlineContent()

		marks := t.Spec.Marks
		switch {
		case marks != nil && *marks == "_":
			t.allMarks = true
		case marks != nil && *marks != "":
			set, err := s.gatherMarks(strings.Fields(*marks))
			if err != nil {
				return nil, err
			}
			t.markSet = set
		case marks == nil && t.inlineContent:
			t.allMarks = true
		}
	}

	for _, m := range s.markList {
		excl := m.Spec.Excludes
		switch {
		case excl == nil:
			m.excluded = []*MarkType{m}
		case *excl == "":
			m.excluded = nil
		default:
			set, err := s.gatherMarks(strings.Fields(*excl))
			if err != nil {
				return nil, err
			}
			m.excluded = set
		}
	}

	log.WithFields(map[string]any{
		"nodes":       len(s.nodeList),
		"marks":       len(s.markList),
		"expressions": len(cache),
	}).Debug("schema compiled")
	return s, nil
}

func (s *Schema) compileNodeTypes() error {
	for i, spec := range s.Spec.Nodes {
		if spec.Name == "" {
			return grammarError("node spec %d has no name", i)
		}
		if _, dup := s.nodes[spec.Name]; dup {
			return grammarError("duplicate node type %s", spec.Name)
		}
		t, err := newNodeType(s, i, spec)
		if err != nil {
			return err
		}
		s.nodes[spec.Name] = t
		s.nodeList = append(s.nodeList, t)
	}

	top := s.Spec.TopNode
	if top == "" {
		top = "doc"
	}
	s.topNode = s.nodes[top]
	if s.topNode == nil {
		return grammarError("Schema is missing its top node type (%q)", top)
	}
	text := s.nodes["text"]
	if text == nil {
		return grammarError("Every schema needs a 'text' type")
	}
	if len(text.attrs.list) > 0 {
		return attributeError("The text node type should not have attributes")
	}
	return nil
}

func (s *Schema) compileMarkTypes() error {
	for i, spec := range s.Spec.Marks {
		if spec.Name == "" {
			return grammarError("mark spec %d has no name", i)
		}
		if _, dup := s.marks[spec.Name]; dup {
			return grammarError("duplicate mark type %s", spec.Name)
		}
		m, err := newMarkType(s, i, spec)
		if err != nil {
			return err
		}
		s.marks[spec.Name] = m
		s.markList = append(s.markList, m)
	}
	return nil
}

// gatherMarks resolves mark names and groups. "_" stands for every mark.
func (s *Schema) gatherMarks(names []string) ([]*MarkType, error) {
	var found []*MarkType
	for _, name := range names {
		if m, ok := s.marks[name]; ok {
			found = append(found, m)
			continue
		}
		ok := false
		for _, m := range s.markList {
			if name == "_" || m.IsInGroup(name) {
				found = append(found, m)
				ok = true
			}
		}
		if !ok {
			return nil, grammarError("Unknown mark type: %q", name)
		}
	}
	return found, nil
}

// Nodes returns the node types in declaration order.
func (s *Schema) Nodes() []*NodeType {
	return s.nodeList
}

// Marks returns the mark types in rank order.
func (s *Schema) Marks() []*MarkType {
	return s.markList
}

// TopNodeType returns the type of document roots.
func (s *Schema) TopNodeType() *NodeType {
	return s.topNode
}

// NodeType returns the node type with the given name.
func (s *Schema) NodeType(name string) (*NodeType, error) {
	t, ok := s.nodes[name]
	if !ok {
		return nil, structureError("Unknown node type: %s", name)
	}
	return t, nil
}

// MarkType returns the mark type with the given name.
func (s *Schema) MarkType(name string) (*MarkType, error) {
	m, ok := s.marks[name]
	if !ok {
		return nil, structureError("There is no mark type %s in this schema", name)
	}
	return m, nil
}

// Node creates a node of the named type, checking its content.
func (s *Schema) Node(name string, attrs Attrs, content *Fragment, marks []*Mark) (*Node, error) {
	t, err := s.NodeType(name)
	if err != nil {
		return nil, err
	}
	return t.CreateChecked(attrs, content, marks)
}

// Text creates a text node. Empty text nodes are not allowed.
func (s *Schema) Text(text string, marks []*Mark) (*Node, error) {
	if text == "" {
		return nil, structureError("Empty text nodes are not allowed")
	}
	t := s.nodes["text"]
	return newTextNode(t, t.defaultAttrs, text, MarkSetFrom(marks...)), nil
}

// Mark creates a mark of the named type.
func (s *Schema) Mark(name string, attrs Attrs) (*Mark, error) {
	m, err := s.MarkType(name)
	if err != nil {
		return nil, err
	}
	return m.Create(attrs)
}

// String lists the node and mark types.
func (s *Schema) String() string {
	names := make([]string, 0, len(s.nodeList))
	for _, t := range s.nodeList {
		names = append(names, t.Name)
	}
	marks := make([]string, 0, len(s.markList))
	for _, m := range s.markList {
		marks = append(marks, m.Name)
	}
	return fmt.Sprintf("Schema(nodes: %s; marks: %s)", strings.Join(names, " "), strings.Join(marks, " "))
}
