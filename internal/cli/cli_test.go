package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/prosetree/internal/logging"
)

const (
	docABC = `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"abc"}]}]}`
	docAXC = `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"axc"}]}]}`
)

type testRun struct {
	fs     afero.Fs
	stdin  *bytes.Buffer
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestRun(t *testing.T, files map[string]string) *testRun {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, data := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(data), 0o644))
	}
	return &testRun{
		fs:     fs,
		stdin:  &bytes.Buffer{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
}

func (r *testRun) exec(args ...string) int {
	gs := &GlobalState{
		Ctx:    context.Background(),
		FS:     r.fs,
		Stdin:  r.stdin,
		Stdout: r.stdout,
		Stderr: r.stderr,
		Args:   append([]string{"prosetree", "--no-color"}, args...),
		Logger: logging.New(logging.Config{Level: logging.LevelWarn, Output: r.stderr}),
	}
	return Execute(gs)
}

func TestCheck(t *testing.T) {
	r := newTestRun(t, map[string]string{
		"good.json": docABC,
		"bad.json":  `{"type":"doc","content":[{"type":"text","text":"loose"}]}`,
		"level.json": `{"type":"doc","content":[{"type":"heading","attrs":{"level":9},` +
			`"content":[{"type":"text","text":"x"}]}]}`,
	})

	code := r.exec("check", "good.json")
	assert.Equal(t, ExitOK, code, r.stderr.String())
	assert.Equal(t, "ok   good.json (doc, size 5)\n", r.stdout.String())

	r.stdout.Reset()
	code = r.exec("check", "good.json", "bad.json", "level.json")
	assert.Equal(t, ExitInvalid, code)
	out := r.stdout.String()
	assert.Contains(t, out, "ok   good.json")
	assert.Contains(t, out, "FAIL bad.json: Invalid content for node doc")
	assert.Contains(t, out, "FAIL level.json:")
	assert.Contains(t, out, "heading level must be between 1 and 6")
	assert.Contains(t, r.stderr.String(), "2 of 3 documents failed")
}

func TestCheckStdin(t *testing.T) {
	r := newTestRun(t, nil)
	r.stdin.WriteString(docABC)
	assert.Equal(t, ExitOK, r.exec("check", "-"))
	assert.Contains(t, r.stdout.String(), "ok   -")
}

func TestCheckMissingFile(t *testing.T) {
	r := newTestRun(t, nil)
	assert.Equal(t, ExitInvalid, r.exec("check", "nope.json"))
	assert.Contains(t, r.stdout.String(), "FAIL nope.json: reading nope.json")
}

func TestCheckMalformedJSON(t *testing.T) {
	r := newTestRun(t, map[string]string{"broken.json": `{"type":`})
	assert.Equal(t, ExitInvalid, r.exec("check", "broken.json"))
	assert.Contains(t, r.stdout.String(), "FAIL broken.json")
}

func TestFill(t *testing.T) {
	r := newTestRun(t, nil)
	require.Equal(t, ExitOK, r.exec("fill", "--compact"), r.stderr.String())
	assert.Equal(t, `{"type":"doc","content":[{"type":"paragraph"}]}`+"\n", r.stdout.String())

	r.stdout.Reset()
	require.Equal(t, ExitOK, r.exec("fill", "heading"))
	assert.JSONEq(t, `{"type":"heading","attrs":{"level":1}}`, r.stdout.String())

	r.stdout.Reset()
	require.Equal(t, ExitOK, r.exec("fill", "bullet_list", "--compact"))
	assert.JSONEq(t, `{"type":"bullet_list","content":[{"type":"list_item","content":[{"type":"paragraph"}]}]}`,
		r.stdout.String())

	assert.Equal(t, ExitFailure, r.exec("fill", "table"))
	assert.Contains(t, r.stderr.String(), "Unknown node type: table")
}

func TestFillRequiredAttrs(t *testing.T) {
	r := newTestRun(t, nil)
	assert.Equal(t, ExitFailure, r.exec("fill", "image"))
	assert.Contains(t, r.stderr.String(), "src")
}

func TestWrap(t *testing.T) {
	tests := []struct {
		parent, target string
		want           string
	}{
		{"doc", "paragraph", "(direct)\n"},
		{"doc", "text", "paragraph\n"},
		{"doc", "list_item", "ordered_list\n"},
		{"bullet_list", "paragraph", "list_item\n"},
		{"paragraph", "doc", "no wrapping places doc in paragraph\n"},
	}
	for _, tt := range tests {
		t.Run(tt.parent+"/"+tt.target, func(t *testing.T) {
			r := newTestRun(t, nil)
			require.Equal(t, ExitOK, r.exec("wrap", tt.parent, tt.target), r.stderr.String())
			assert.Equal(t, tt.want, r.stdout.String())
		})
	}
}

func TestResolve(t *testing.T) {
	r := newTestRun(t, map[string]string{"doc.json": docABC})
	require.Equal(t, ExitOK, r.exec("resolve", "doc.json", "2"), r.stderr.String())

	out := r.stdout.String()
	assert.Equal(t, int64(2), gjson.Get(out, "pos").Int())
	assert.Equal(t, int64(1), gjson.Get(out, "depth").Int())
	assert.Equal(t, int64(1), gjson.Get(out, "parentOffset").Int())
	assert.Equal(t, "paragraph", gjson.Get(out, "parent").String())
	assert.Equal(t, "doc", gjson.Get(out, "path.0.type").String())
	assert.Equal(t, int64(0), gjson.Get(out, "path.0.start").Int())
	assert.Equal(t, "paragraph", gjson.Get(out, "path.1.type").String())
	assert.Equal(t, int64(1), gjson.Get(out, "path.1.start").Int())
	assert.Equal(t, int64(1), gjson.Get(out, "textOffset").Int())
	assert.Equal(t, "text", gjson.Get(out, "nodeBefore").String())
	assert.Equal(t, "text", gjson.Get(out, "nodeAfter").String())
	assert.True(t, gjson.Get(out, "marks").IsArray())

	assert.Equal(t, ExitFailure, r.exec("resolve", "doc.json", "99"))
	assert.Contains(t, r.stderr.String(), "Position 99 out of range")
	assert.Equal(t, ExitFailure, r.exec("resolve", "doc.json", "x"))
	assert.Contains(t, r.stderr.String(), `invalid position "x"`)
}

func TestReplace(t *testing.T) {
	r := newTestRun(t, map[string]string{
		"doc.json":   docABC,
		"slice.json": `{"content":[{"type":"paragraph","content":[{"type":"text","text":"X"}]},{"type":"paragraph","content":[{"type":"text","text":"Y"}]}],"openStart":1,"openEnd":1}`,
		"block.json": `{"content":[{"type":"paragraph"}]}`,
	})

	require.Equal(t, ExitOK, r.exec("replace", "doc.json", "--from", "2", "--to", "3", "--text", "xy", "--compact"),
		r.stderr.String())
	assert.JSONEq(t, `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"axyc"}]}]}`,
		r.stdout.String())

	r.stdout.Reset()
	require.Equal(t, ExitOK, r.exec("replace", "doc.json", "--from", "2", "--slice", "slice.json"), r.stderr.String())
	assert.JSONEq(t, `{"type":"doc","content":[`+
		`{"type":"paragraph","content":[{"type":"text","text":"aX"}]},`+
		`{"type":"paragraph","content":[{"type":"text","text":"Ybc"}]}]}`, r.stdout.String())

	r.stdout.Reset()
	require.Equal(t, ExitOK, r.exec("replace", "doc.json", "--from", "1", "--to", "4", "--compact"))
	assert.JSONEq(t, `{"type":"doc","content":[{"type":"paragraph"}]}`, r.stdout.String())

	assert.Equal(t, ExitInvalid, r.exec("replace", "doc.json", "--from", "2", "--slice", "block.json"))
	assert.Contains(t, r.stderr.String(), "Invalid content for node paragraph")

	assert.Equal(t, ExitFailure, r.exec("replace", "doc.json", "--text", "a", "--slice", "block.json"))
	assert.Contains(t, r.stderr.String(), "mutually exclusive")
}

func TestReplaceBadOpenDepths(t *testing.T) {
	r := newTestRun(t, map[string]string{
		"doc.json":      docABC,
		"negative.json": `{"content":[{"type":"paragraph","content":[{"type":"text","text":"x"}]}],"openStart":-1,"openEnd":-1}`,
		"deep.json":     `{"content":[{"type":"paragraph","content":[{"type":"text","text":"x"}]}],"openStart":1,"openEnd":1}`,
		"leaf.json":     `{"content":[{"type":"horizontal_rule"}],"openStart":1,"openEnd":1}`,
	})

	assert.Equal(t, ExitInvalid, r.exec("replace", "doc.json", "--from", "2", "--slice", "negative.json"))
	assert.Contains(t, r.stderr.String(), "Negative openStart")

	r.stderr.Reset()
	assert.Equal(t, ExitInvalid, r.exec("replace", "doc.json", "--from", "2", "--slice", "leaf.json"))
	assert.Contains(t, r.stderr.String(), "exceeds its content")

	r.stderr.Reset()
	assert.Equal(t, ExitInvalid, r.exec("replace", "doc.json", "--from", "0", "--slice", "deep.json"))
	assert.Contains(t, r.stderr.String(), "deeper than insertion position")
}

func TestDiff(t *testing.T) {
	r := newTestRun(t, map[string]string{"a.json": docABC, "b.json": docAXC})

	require.Equal(t, ExitOK, r.exec("diff", "a.json", "b.json"), r.stderr.String())
	assert.Equal(t, "@@ a 2-3 b 2-3 @@\n- \"b\"\n+ \"x\"\n", r.stdout.String())

	r.stdout.Reset()
	require.Equal(t, ExitOK, r.exec("diff", "a.json", "b.json", "--json"))
	out := r.stdout.String()
	assert.False(t, gjson.Get(out, "identical").Bool())
	assert.Equal(t, int64(2), gjson.Get(out, "start").Int())
	assert.Equal(t, int64(3), gjson.Get(out, "a.end").Int())
	assert.Equal(t, "b", gjson.Get(out, "a.text").String())
	assert.Equal(t, "x", gjson.Get(out, "b.text").String())

	r.stdout.Reset()
	require.Equal(t, ExitOK, r.exec("diff", "a.json", "a.json"))
	assert.Equal(t, "documents are identical\n", r.stdout.String())
}

func TestDiffRepeatedContent(t *testing.T) {
	a := `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"aa"}]}]}`
	b := `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"aaa"}]}]}`
	r := newTestRun(t, map[string]string{"a.json": a, "b.json": b})

	require.Equal(t, ExitOK, r.exec("diff", "a.json", "b.json", "--json"), r.stderr.String())
	out := r.stdout.String()
	start := gjson.Get(out, "start").Int()
	endA := gjson.Get(out, "a.end").Int()
	endB := gjson.Get(out, "b.end").Int()
	assert.Equal(t, int64(3), start)
	assert.Equal(t, start, endA)
	assert.Equal(t, int64(4), endB)
	assert.Equal(t, "a", gjson.Get(out, "b.text").String())
}

func TestCompile(t *testing.T) {
	r := newTestRun(t, nil)
	require.Equal(t, ExitOK, r.exec("compile", "paragraph"), r.stderr.String())
	out := r.stdout.String()
	assert.Contains(t, out, `paragraph: "inline*"`)
	assert.Contains(t, out, "  0* text->")

	r.stdout.Reset()
	require.Equal(t, ExitOK, r.exec("compile"))
	out = r.stdout.String()
	assert.Contains(t, out, `doc: "block+"`)
	assert.NotContains(t, out, "horizontal_rule:")
}

const customSchema = `
top_node = "page"

[[nodes]]
name = "page"
content = "line+"

[[nodes]]
name = "line"
content = "text*"

[nodes.attrs.indent]
default = 0

[[nodes]]
name = "text"
`

func TestSchemaFlag(t *testing.T) {
	r := newTestRun(t, map[string]string{"schema.toml": customSchema})
	require.Equal(t, ExitOK, r.exec("--schema", "schema.toml", "fill", "--compact"), r.stderr.String())
	assert.JSONEq(t, `{"type":"page","content":[{"type":"line","attrs":{"indent":0}}]}`, r.stdout.String())

	assert.Equal(t, ExitFailure, r.exec("-s", "missing.toml", "fill"))
	assert.Contains(t, r.stderr.String(), "loading schema")
}

func TestRootErrors(t *testing.T) {
	r := newTestRun(t, nil)
	assert.Equal(t, ExitFailure, r.exec("bogus"))
	assert.Contains(t, r.stderr.String(), "unknown command")

	r.stderr.Reset()
	assert.Equal(t, ExitFailure, r.exec("--log-format", "xml", "fill"))
	assert.Contains(t, r.stderr.String(), `unknown log format "xml"`)
}
