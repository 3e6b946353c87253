// Package testschema provides a small document schema and builder functions
// for tests. Text arguments may contain <name> markers, whose positions are
// recorded in the Tag map of the built node.
//
//	d := testschema.Doc(testschema.P("foo<a>bar"))
//	d.Tag["a"] // 4
package testschema

import (
	"regexp"
	"unicode/utf8"

	"github.com/dshills/prosetree/internal/model"
)

func ptr[T any](v T) *T { return &v }

// Spec is the schema spec behind Schema.
var Spec = model.SchemaSpec{
	Nodes: []model.NodeSpec{
		{Name: "doc", Content: "block+"},
		{Name: "paragraph", Content: "inline*", Group: "block"},
		{Name: "blockquote", Content: "block+", Group: "block", Defining: true},
		{Name: "horizontal_rule", Group: "block"},
		{
			Name:     "heading",
			Content:  "inline*",
			Group:    "block",
			Defining: true,
			Attrs:    map[string]model.AttributeSpec{"level": {Default: 1, Validate: "number"}},
		},
		{Name: "code_block", Content: "text*", Marks: ptr(""), Group: "block", Code: true, Defining: true},
		{Name: "text", Group: "inline"},
		{
			Name:      "image",
			Inline:    true,
			Group:     "inline",
			Draggable: ptr(true),
			Attrs: map[string]model.AttributeSpec{
				"src":   {Required: true, Validate: "string"},
				"alt":   {Validate: "string|null"},
				"title": {Validate: "string|null"},
			},
		},
		{
			Name:       "hard_break",
			Inline:     true,
			Group:      "inline",
			Selectable: ptr(false),
			LeafText:   func(*model.Node) string { return "\n" },
		},
		{
			Name:    "ordered_list",
			Content: "list_item+",
			Group:   "block",
			Attrs:   map[string]model.AttributeSpec{"order": {Default: 1, Validate: "number"}},
		},
		{Name: "bullet_list", Content: "list_item+", Group: "block"},
		{Name: "list_item", Content: "paragraph block*", Defining: true},
	},
	Marks: []model.MarkSpec{
		{
			Name:      "link",
			Inclusive: ptr(false),
			Attrs: map[string]model.AttributeSpec{
				"href":  {Required: true, Validate: "string"},
				"title": {Validate: "string|null"},
			},
		},
		{Name: "em"},
		{Name: "strong"},
		{Name: "code"},
	},
}

// Schema is the compiled test schema.
var Schema = mustSchema(Spec)

func mustSchema(spec model.SchemaSpec) *model.Schema {
	s, err := model.NewSchema(spec)
	if err != nil {
		panic(err)
	}
	return s
}

// Tagged is a built node together with the positions of its tags,
// relative to the start of its content.
type Tagged struct {
	*model.Node
	Tag map[string]int
}

// Flat is the result of a mark builder: a run of marked inline nodes.
type Flat struct {
	Nodes []*model.Node
	Tag   map[string]int
}

var tagRE = regexp.MustCompile(`<(\w+)>`)

func flatten(children []any, f func(*model.Node) *model.Node) ([]*model.Node, map[string]int) {
	var result []*model.Node
	tag := map[string]int{}
	pos := 0
	for _, child := range children {
		switch c := child.(type) {
		case string:
			out := ""
			at := 0
			for _, m := range tagRE.FindAllStringSubmatchIndex(c, -1) {
				out += c[at:m[0]]
				pos += utf8.RuneCountInString(c[at:m[0]])
				at = m[1]
				tag[c[m[2]:m[3]]] = pos
			}
			out += c[at:]
			pos += utf8.RuneCountInString(c[at:])
			if out != "" {
				result = append(result, f(must(Schema.Text(out, nil))))
			}
		case *Tagged:
			extra := 1
			if c.IsText() {
				extra = 0
			}
			for id, p := range c.Tag {
				tag[id] = p + extra + pos
			}
			node := f(c.Node)
			pos += node.NodeSize()
			result = append(result, node)
		case Flat:
			for id, p := range c.Tag {
				tag[id] = p + pos
			}
			for _, n := range c.Nodes {
				node := f(n)
				pos += node.NodeSize()
				result = append(result, node)
			}
		case *model.Node:
			node := f(c)
			pos += node.NodeSize()
			result = append(result, node)
		case model.Attrs:
		default:
			panic("testschema: unsupported builder argument")
		}
	}
	return result, tag
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func takeAttrs(defaults model.Attrs, args []any) model.Attrs {
	var given model.Attrs
	for _, a := range args {
		if attrs, ok := a.(model.Attrs); ok {
			given = attrs
			break
		}
	}
	if given == nil && defaults == nil {
		return nil
	}
	merged := model.Attrs{}
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range given {
		merged[k] = v
	}
	return merged
}

// Builder builds a node of a fixed type.
type Builder func(args ...any) *Tagged

// Block returns a builder for nodes of the named type. Content is not
// checked, so tests can build invalid documents.
func Block(name string, attrs model.Attrs) Builder {
	t := must(Schema.NodeType(name))
	return func(args ...any) *Tagged {
		nodes, tag := flatten(args, func(n *model.Node) *model.Node { return n })
		node := must(t.Create(takeAttrs(attrs, args), model.FragmentFromArray(nodes), nil))
		return &Tagged{Node: node, Tag: tag}
	}
}

// MarkBuilder applies a fixed mark to its content.
type MarkBuilder func(args ...any) Flat

// MarkOf returns a builder that applies the named mark.
func MarkOf(name string, attrs model.Attrs) MarkBuilder {
	t := must(Schema.MarkType(name))
	return func(args ...any) Flat {
		mark := must(t.Create(takeAttrs(attrs, args)))
		nodes, tag := flatten(args, func(n *model.Node) *model.Node {
			if t.IsInSet(n.Marks()) != nil {
				return n
			}
			return n.Mark(mark.AddToSet(n.Marks()))
		})
		return Flat{Nodes: nodes, Tag: tag}
	}
}

// Builders for the test schema.
var (
	Doc        = Block("doc", nil)
	P          = Block("paragraph", nil)
	Blockquote = Block("blockquote", nil)
	Pre        = Block("code_block", nil)
	H1         = Block("heading", model.Attrs{"level": 1})
	H2         = Block("heading", model.Attrs{"level": 2})
	Li         = Block("list_item", nil)
	Ul         = Block("bullet_list", nil)
	Ol         = Block("ordered_list", nil)
	Br         = Block("hard_break", nil)
	Img        = Block("image", model.Attrs{"src": "img.png"})
	HR         = Block("horizontal_rule", nil)

	Em     = MarkOf("em", nil)
	Strong = MarkOf("strong", nil)
	Code   = MarkOf("code", nil)
	A      = MarkOf("link", model.Attrs{"href": "foo"})
)

// Text returns a text node, wrapped for use as a builder argument.
func Text(s string) *Tagged {
	return &Tagged{Node: must(Schema.Text(s, nil)), Tag: map[string]int{}}
}
