package schemadef

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/prosetree/internal/model"
	"github.com/dshills/prosetree/internal/script"
)

const sampleTOML = `
top_node = "doc"

[[nodes]]
name = "doc"
content = "block+"

[[nodes]]
name = "paragraph"
content = "inline*"
group = "block"

[[nodes]]
name = "heading"
content = "inline*"
group = "block"
defining = true

[nodes.attrs.level]
default = 1
validate = "number"
validate_lua = "return value >= 1 and value <= 6, 'level out of range'"

[[nodes]]
name = "text"
group = "inline"

[[nodes]]
name = "hard_break"
inline = true
group = "inline"
leaf_text = "\n"
selectable = false

[[marks]]
name = "link"
inclusive = false

[marks.attrs.href]
validate = "string"

[marks.attrs.title]
required = false

[[marks]]
name = "em"
`

func memFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func TestLoadTOML(t *testing.T) {
	fs := memFS(t, map[string]string{"/schema.toml": sampleTOML})

	def, err := Load(fs, "/schema.toml")
	require.NoError(t, err)
	assert.Equal(t, "doc", def.TopNode)
	require.Len(t, def.Nodes, 5)
	assert.Equal(t, "heading", def.Nodes[2].Name)
	assert.True(t, def.Nodes[2].Defining)
	assert.True(t, def.Nodes[2].Attrs["level"].HasDefault)
	assert.EqualValues(t, 1, def.Nodes[2].Attrs["level"].Default)
	require.Len(t, def.Marks, 2)
	assert.False(t, *def.Marks[0].Inclusive)

	schema, err := Build(def)
	require.NoError(t, err)

	heading, err := schema.NodeType("heading")
	require.NoError(t, err)
	h, err := heading.Create(nil, nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, h.Attrs()["level"])
	assert.NoError(t, h.Check())

	link, err := schema.MarkType("link")
	require.NoError(t, err)
	assert.False(t, link.Inclusive())
	_, err = link.Create(nil)
	assert.ErrorIs(t, err, model.ErrAttribute, "href has no default and is required")
	m, err := link.Create(model.Attrs{"href": "x"})
	require.NoError(t, err)
	assert.Nil(t, m.Attrs()["title"])

	br, err := schema.NodeType("hard_break")
	require.NoError(t, err)
	n, err := br.Create(nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "\n", n.TextContent())
}

func TestLuaValidator(t *testing.T) {
	fs := memFS(t, map[string]string{"/schema.toml": sampleTOML})
	schema, err := NewLoader(fs).LoadSchema("/schema.toml")
	require.NoError(t, err)

	heading, err := schema.NodeType("heading")
	require.NoError(t, err)
	h, err := heading.Create(model.Attrs{"level": 9}, nil, nil)
	require.NoError(t, err)

	err = h.Check()
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrAttribute)
	assert.ErrorIs(t, err, script.ErrRejected)
	assert.Contains(t, err.Error(), "level out of range")
}

func TestLoadYAMLAndJSON(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/schema.yaml": `
nodes:
  - name: doc
    content: paragraph+
  - name: paragraph
    content: text*
    marks: ""
    docs: A plain paragraph.
  - name: text
marks:
  - name: strong
    excludes: ""
`,
		"/schema.json": `{
  "nodes": [
    {"name": "doc", "content": "text*"},
    {"name": "text"}
  ]
}`,
	})

	def, err := Load(fs, "/schema.yaml")
	require.NoError(t, err)
	require.Len(t, def.Nodes, 3)
	require.NotNil(t, def.Nodes[1].Marks)
	assert.Equal(t, "", *def.Nodes[1].Marks)
	assert.Equal(t, "A plain paragraph.", def.Nodes[1].Extra["docs"])

	schema, err := Build(def)
	require.NoError(t, err)
	p, err := schema.NodeType("paragraph")
	require.NoError(t, err)
	strong, err := schema.MarkType("strong")
	require.NoError(t, err)
	assert.False(t, p.AllowsMarkType(strong))
	assert.False(t, strong.Excludes(strong))

	def, err = Load(fs, "/schema.json")
	require.NoError(t, err)
	assert.Len(t, def.Nodes, 2)
}

func TestIncludes(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/defs/base.yaml": `
top_node: doc
nodes:
  - name: doc
    content: paragraph+
  - name: paragraph
    content: text*
  - name: text
marks:
  - name: em
`,
		"/defs/main.toml": `
"@include" = ["base.yaml"]

[[nodes]]
name = "doc"
content = "block+"

[[nodes]]
name = "paragraph"
group = "block"

[[nodes]]
name = "quote"
content = "paragraph+"
group = "block"

[[marks]]
name = "strong"
`,
	})

	def, err := Load(fs, "/defs/main.toml")
	require.NoError(t, err)
	assert.Equal(t, "doc", def.TopNode)

	names := make([]string, len(def.Nodes))
	for i, n := range def.Nodes {
		names[i] = n.Name
	}
	assert.Equal(t, []string{"doc", "paragraph", "text", "quote"}, names)
	assert.Equal(t, "block+", def.Nodes[0].Content)
	assert.Equal(t, "text*", def.Nodes[1].Content, "included fields survive the merge")
	assert.Equal(t, "block", def.Nodes[1].Group)
	require.Len(t, def.Marks, 2)
	assert.Equal(t, "em", def.Marks[0].Name)

	_, err = Build(def)
	assert.NoError(t, err)
}

func TestIncludeCycle(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/a.toml": `"@include" = "b.toml"`,
		"/b.toml": `"@include" = "a.toml"`,
	})
	_, err := NewLoader(fs, WithMaxIncludeDepth(4)).Load("/a.toml")
	require.ErrorIs(t, err, ErrIncludeCycle)
	assert.NotErrorIs(t, err, ErrIncludeDepthExceeded)
	assert.Contains(t, err.Error(), "/a.toml -> /b.toml -> /a.toml")

	fs = memFS(t, map[string]string{"/self.toml": `"@include" = "./self.toml"`})
	_, err = Load(fs, "/self.toml")
	assert.ErrorIs(t, err, ErrIncludeCycle)
}

func TestIncludeDepth(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/a.toml": `"@include" = "b.toml"`,
		"/b.toml": `"@include" = "c.toml"`,
		"/c.toml": `top_node = "doc"`,
	})
	_, err := NewLoader(fs, WithMaxIncludeDepth(2)).Load("/a.toml")
	assert.ErrorIs(t, err, ErrIncludeDepthExceeded)

	fs = memFS(t, map[string]string{
		"/main.toml":   `"@include" = ["left.toml", "right.toml"]`,
		"/left.toml":   `"@include" = "shared.toml"`,
		"/right.toml":  `"@include" = "shared.toml"`,
		"/shared.toml": `top_node = "doc"`,
	})
	raw, err := NewLoader(fs).loadRaw("/main.toml", DefaultMaxIncludeDepth, nil)
	require.NoError(t, err, "a file included twice without a cycle")
	assert.Equal(t, "doc", raw["top_node"])
}

func TestIncludeMissing(t *testing.T) {
	fs := memFS(t, map[string]string{"/a.toml": `"@include" = "missing.toml"`})
	_, err := Load(fs, "/a.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.toml")
}

func TestLoadErrors(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/schema.txt":  "nodes = []",
		"/broken.toml": "[[nodes]\nname = ",
		"/empty.toml":  "",
		"/lua.toml": `
[[nodes]]
name = "doc"
content = "text*"
[nodes.attrs.n]
default = 1
validate_lua = "return ("
[[nodes]]
name = "text"
`,
	})

	_, err := Load(fs, "/schema.txt")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(fs, "/broken.toml")
	var pe *ParseError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, "/broken.toml", pe.Path)

	_, err = Load(fs, "/nope.toml")
	assert.Error(t, err)

	def, err := Load(fs, "/empty.toml")
	require.NoError(t, err)
	_, err = Build(def)
	assert.ErrorIs(t, err, ErrInvalidDefinition)

	def, err = Load(fs, "/lua.toml")
	require.NoError(t, err)
	_, err = Build(def)
	var ce *script.CompileError
	assert.True(t, errors.As(err, &ce), "got %v", err)
}

func TestBuildSchemaError(t *testing.T) {
	def, err := Parse(FormatYAML, []byte(`
nodes:
  - name: doc
    content: "paragraph+"
  - name: text
`))
	require.NoError(t, err)
	_, err = Build(def)
	assert.ErrorIs(t, err, model.ErrGrammar)
}

func TestRequiredDefaults(t *testing.T) {
	def, err := Parse(FormatYAML, []byte(`
nodes:
  - name: doc
    content: "text*"
    attrs:
      id:
        generated: true
      lang:
        default: null
      kind: {}
  - name: text
`))
	require.NoError(t, err)
	attrs := def.Nodes[0].Attrs
	assert.False(t, attrs["id"].IsRequired())
	assert.False(t, attrs["lang"].IsRequired())
	assert.True(t, attrs["lang"].HasDefault)
	assert.True(t, attrs["kind"].IsRequired())

	schema, err := Build(def, model.WithIDGenerator(model.IDGeneratorFunc(func() string { return "fixed" })))
	require.NoError(t, err)
	doc := schema.TopNodeType()
	assert.True(t, doc.HasRequiredAttrs())
	n, err := doc.Create(model.Attrs{"kind": "x"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "fixed", n.Attrs()["id"])
	assert.Nil(t, n.Attrs()["lang"])
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{"a": 1, "m": map[string]any{"x": 1, "y": 2}}
	src := map[string]any{"b": 2, "m": map[string]any{"y": 3}}
	got := DeepMerge(dst, src)
	assert.Equal(t, map[string]any{"a": 1, "b": 2, "m": map[string]any{"x": 1, "y": 3}}, got)

	orig := map[string]any{"l": []any{map[string]any{"k": 1}}}
	c := Clone(orig)
	c["l"].([]any)[0].(map[string]any)["k"] = 2
	assert.Equal(t, 1, orig["l"].([]any)[0].(map[string]any)["k"])
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.toml", FormatTOML},
		{"a.yaml", FormatYAML},
		{"a.YML", FormatYAML},
		{"a.json", FormatJSON},
	}
	for _, tt := range tests {
		got, err := FormatFor(tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.path)
	}
	_, err := FormatFor("a.ini")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestBasic(t *testing.T) {
	schema, err := Basic()
	require.NoError(t, err)
	assert.Len(t, schema.Nodes(), 12)
	assert.Len(t, schema.Marks(), 4)

	doc, err := schema.TopNodeType().CreateAndFill(nil, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "paragraph", doc.FirstChild().Type().Name)

	image, err := schema.NodeType("image")
	require.NoError(t, err)
	assert.True(t, image.HasRequiredAttrs())

	code, err := schema.NodeType("code_block")
	require.NoError(t, err)
	assert.Equal(t, "pre", code.Whitespace())
}
