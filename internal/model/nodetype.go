package model

import (
	"strings"
)

// NodeType is a compiled node spec. Node types are created by NewSchema and
// are only valid in combination with their schema.
type NodeType struct {
	Name   string
	Schema *Schema
	Spec   NodeSpec
	Groups []string

	id            int
	attrs         *attrTable
	defaultAttrs  Attrs
	contentMatch  *ContentMatch
	inlineContent bool
	isBlock       bool
	isText        bool

	// markSet holds the allowed marks unless allMarks is set.
	markSet  []*MarkType
	allMarks bool
}

func newNodeType(s *Schema, id int, spec NodeSpec) (*NodeType, error) {
	attrs, err := initAttrs(spec.Name, spec.Attrs)
	if err != nil {
		return nil, err
	}
	t := &NodeType{
		Name:   spec.Name,
		Schema: s,
		Spec:   spec,
		Groups: strings.Fields(spec.Group),
		id:     id,
		attrs:  attrs,
	}
	t.defaultAttrs = defaultAttrs(attrs)
	t.isBlock = !(spec.Inline || spec.Name == "text")
	t.isText = spec.Name == "text"
	return t, nil
}

// ContentMatch returns the start state of the type's content automaton.
func (t *NodeType) ContentMatch() *ContentMatch { return t.contentMatch }

// InlineContent reports whether the type's content is inline.
func (t *NodeType) InlineContent() bool { return t.inlineContent }

// IsBlock reports whether this is a block type.
func (t *NodeType) IsBlock() bool { return t.isBlock }

// IsText reports whether this is the text type.
func (t *NodeType) IsText() bool { return t.isText }

// IsInline reports whether this is an inline type.
func (t *NodeType) IsInline() bool { return !t.isBlock }

// IsTextblock reports whether this is a block type with inline content.
func (t *NodeType) IsTextblock() bool { return t.isBlock && t.inlineContent }

// IsLeaf reports whether the type allows no content.
func (t *NodeType) IsLeaf() bool { return t.contentMatch == EmptyContentMatch }

// IsAtom reports whether the type is a leaf or declared atomic.
func (t *NodeType) IsAtom() bool { return t.IsLeaf() || t.Spec.Atom }

// IsInGroup reports whether the type belongs to the named group.
func (t *NodeType) IsInGroup(group string) bool {
	for _, g := range t.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// Whitespace returns the whitespace handling of the type, "pre" or "normal".
func (t *NodeType) Whitespace() string {
	if t.Spec.Whitespace != "" {
		return t.Spec.Whitespace
	}
	if t.Spec.Code {
		return "pre"
	}
	return "normal"
}

// Attrs returns the type's attribute declarations, ordered by name.
func (t *NodeType) Attrs() []*Attribute { return t.attrs.list }

// HasRequiredAttrs reports whether some attribute must always be given.
func (t *NodeType) HasRequiredAttrs() bool { return t.attrs.hasRequired() }

// MarkSet returns the marks allowed in this type's content. all is true when
// every mark is allowed.
func (t *NodeType) MarkSet() (marks []*MarkType, all bool) {
	return t.markSet, t.allMarks
}

// CompatibleContent reports whether content valid in t could also be valid
// in other.
func (t *NodeType) CompatibleContent(other *NodeType) bool {
	return t == other || t.contentMatch.Compatible(other.contentMatch)
}

// ComputeAttrs fills in defaults and generated values for the attributes
// not present in attrs.
func (t *NodeType) ComputeAttrs(attrs Attrs) (Attrs, error) {
	if attrs == nil && t.defaultAttrs != nil {
		return t.defaultAttrs, nil
	}
	return computeAttrs(t.attrs, attrs, t.Schema.idgen)
}

// Create builds a node of this type without checking its content. A nil
// content is empty.
func (t *NodeType) Create(attrs Attrs, content *Fragment, marks []*Mark) (*Node, error) {
	if t.isText {
		return nil, structureError("NodeType.Create can't construct text nodes")
	}
	computed, err := t.ComputeAttrs(attrs)
	if err != nil {
		return nil, err
	}
	if content == nil {
		content = EmptyFragment
	}
	return newNode(t, computed, content, MarkSetFrom(marks...)), nil
}

// CreateChecked is like Create but fails when content does not match the
// type's content expression or an attribute is unknown or invalid.
func (t *NodeType) CreateChecked(attrs Attrs, content *Fragment, marks []*Mark) (*Node, error) {
	if content == nil {
		content = EmptyFragment
	}
	if err := t.CheckContent(content); err != nil {
		return nil, err
	}
	if err := checkAttrNames(t.attrs, attrs, "node", t.Name); err != nil {
		return nil, err
	}
	n, err := t.Create(attrs, content, marks)
	if err != nil {
		return nil, err
	}
	if err := t.CheckAttrs(n.attrs); err != nil {
		return nil, err
	}
	return n, nil
}

// CreateAndFill is like Create but adds nodes to the start or end of content
// to make it valid. It returns a nil node and nil error when no valid fill
// exists.
func (t *NodeType) CreateAndFill(attrs Attrs, content *Fragment, marks []*Mark) (*Node, error) {
	computed, err := t.ComputeAttrs(attrs)
	if err != nil {
		return nil, err
	}
	if content == nil {
		content = EmptyFragment
	}
	if content.Size() > 0 {
		before, ok := t.contentMatch.FillBefore(content, false, 0)
		if !ok {
			return nil, nil
		}
		content = before.Append(content)
	}
	matched := t.contentMatch.MatchFragment(content)
	if matched == nil {
		return nil, nil
	}
	after, ok := matched.FillBefore(EmptyFragment, true, 0)
	if !ok {
		return nil, nil
	}
	return newNode(t, computed, content.Append(after), MarkSetFrom(marks...)), nil
}

// filler returns the node FillBefore inserts for t, or nil when t cannot be
// generated with valid attributes.
func (t *NodeType) filler() *Node {
	n, err := t.CreateAndFill(nil, nil, nil)
	if err != nil || n == nil {
		return nil
	}
	if t.CheckAttrs(n.attrs) != nil {
		return nil
	}
	return n
}

// ValidContent reports whether content is valid for this type.
func (t *NodeType) ValidContent(content *Fragment) bool {
	result := t.contentMatch.MatchFragment(content)
	if result == nil || !result.ValidEnd {
		return false
	}
	for _, child := range content.content {
		if !t.AllowsMarks(child.marks) {
			return false
		}
	}
	return true
}

// CheckContent returns an error when content is not valid for this type.
func (t *NodeType) CheckContent(content *Fragment) error {
	if !t.ValidContent(content) {
		return structureError("Invalid content for node %s: %s", t.Name, truncate(content.String(), 50))
	}
	return nil
}

// CheckAttrs validates attribute values against the type's declarations.
func (t *NodeType) CheckAttrs(attrs Attrs) error {
	return checkAttrs(t.attrs, attrs, "node", t.Name)
}

// AllowsMarkType reports whether marks of the given type may appear in this
// type's content.
func (t *NodeType) AllowsMarkType(m *MarkType) bool {
	if t.allMarks {
		return true
	}
	for _, allowed := range t.markSet {
		if allowed == m {
			return true
		}
	}
	return false
}

// AllowsMarks reports whether every mark in the set is allowed.
func (t *NodeType) AllowsMarks(marks []*Mark) bool {
	if t.allMarks {
		return true
	}
	for _, m := range marks {
		if !t.AllowsMarkType(m.typ) {
			return false
		}
	}
	return true
}

// AllowedMarks removes the marks not allowed in this type from the set.
func (t *NodeType) AllowedMarks(marks []*Mark) []*Mark {
	if t.allMarks {
		return marks
	}
	var copied []*Mark
	for i, m := range marks {
		if !t.AllowsMarkType(m.typ) {
			if copied == nil {
				copied = append([]*Mark{}, marks[:i]...)
			}
		} else if copied != nil {
			copied = append(copied, m)
		}
	}
	if copied == nil {
		return marks
	}
	if len(copied) == 0 {
		return NoMarks
	}
	return copied
}

// String returns the type name.
func (t *NodeType) String() string { return t.Name }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
