package model

import (
	"bytes"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ToJSON returns the JSON representation of the node as plain values.
func (n *Node) ToJSON() map[string]any {
	obj := map[string]any{"type": n.typ.Name}
	if len(n.attrs) > 0 {
		obj["attrs"] = map[string]any(n.attrs)
	}
	if n.content.size > 0 {
		obj["content"] = n.content.ToJSON()
	}
	if len(n.marks) > 0 {
		marks := make([]any, len(n.marks))
		for i, m := range n.marks {
			marks[i] = m.ToJSON()
		}
		obj["marks"] = marks
	}
	if n.typ.isText {
		obj["text"] = n.text
	}
	return obj
}

// MarshalJSON encodes the node with its fields in wire order.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := []byte(`{}`)
	var err error
	if out, err = sjson.SetBytes(out, "type", n.typ.Name); err != nil {
		return nil, err
	}
	if len(n.attrs) > 0 {
		if out, err = sjson.SetBytes(out, "attrs", map[string]any(n.attrs)); err != nil {
			return nil, err
		}
	}
	if n.content.size > 0 {
		content, err := n.content.MarshalJSON()
		if err != nil {
			return nil, err
		}
		if out, err = sjson.SetRawBytes(out, "content", content); err != nil {
			return nil, err
		}
	}
	if len(n.marks) > 0 {
		raw := make([][]byte, len(n.marks))
		for i, m := range n.marks {
			if raw[i], err = m.MarshalJSON(); err != nil {
				return nil, err
			}
		}
		if out, err = sjson.SetRawBytes(out, "marks", joinArray(raw)); err != nil {
			return nil, err
		}
	}
	if n.typ.isText {
		if out, err = sjson.SetBytes(out, "text", n.text); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ToJSON returns the JSON representation of the fragment, or nil when it
// is empty.
func (f *Fragment) ToJSON() []any {
	if len(f.content) == 0 {
		return nil
	}
	out := make([]any, len(f.content))
	for i, n := range f.content {
		out[i] = n.ToJSON()
	}
	return out
}

// MarshalJSON encodes the fragment as an array of nodes, or null when it is
// empty.
func (f *Fragment) MarshalJSON() ([]byte, error) {
	if len(f.content) == 0 {
		return []byte("null"), nil
	}
	raw := make([][]byte, len(f.content))
	for i, n := range f.content {
		var err error
		if raw[i], err = n.MarshalJSON(); err != nil {
			return nil, err
		}
	}
	return joinArray(raw), nil
}

// ToJSON returns the JSON representation of the mark. Null attributes are
// left out when the attribute defaults to null.
func (m *Mark) ToJSON() map[string]any {
	obj := map[string]any{"type": m.typ.Name}
	if attrs := m.jsonAttrs(); len(attrs) > 0 {
		obj["attrs"] = attrs
	}
	return obj
}

func (m *Mark) jsonAttrs() map[string]any {
	attrs := make(map[string]any, len(m.attrs))
	for k, v := range m.attrs {
		if v == nil {
			if a := m.typ.attrs.get(k); a == nil || (a.hasDefault && a.Default == nil) {
				continue
			}
		}
		attrs[k] = v
	}
	return attrs
}

// MarshalJSON encodes the mark.
func (m *Mark) MarshalJSON() ([]byte, error) {
	out, err := sjson.SetBytes([]byte(`{}`), "type", m.typ.Name)
	if err != nil {
		return nil, err
	}
	if attrs := m.jsonAttrs(); len(attrs) > 0 {
		if out, err = sjson.SetBytes(out, "attrs", attrs); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ToJSON returns the JSON representation of the slice, or nil for a slice
// without content.
func (s *Slice) ToJSON() map[string]any {
	if s.Content.Size() == 0 {
		return nil
	}
	obj := map[string]any{"content": s.Content.ToJSON()}
	if s.OpenStart > 0 {
		obj["openStart"] = s.OpenStart
	}
	if s.OpenEnd > 0 {
		obj["openEnd"] = s.OpenEnd
	}
	return obj
}

// MarshalJSON encodes the slice. A slice without content encodes as null.
func (s *Slice) MarshalJSON() ([]byte, error) {
	if s.Content.Size() == 0 {
		return []byte("null"), nil
	}
	content, err := s.Content.MarshalJSON()
	if err != nil {
		return nil, err
	}
	out, err := sjson.SetRawBytes([]byte(`{}`), "content", content)
	if err != nil {
		return nil, err
	}
	if s.OpenStart > 0 {
		if out, err = sjson.SetBytes(out, "openStart", s.OpenStart); err != nil {
			return nil, err
		}
	}
	if s.OpenEnd > 0 {
		if out, err = sjson.SetBytes(out, "openEnd", s.OpenEnd); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func joinArray(items [][]byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	buf.Write(bytes.Join(items, []byte(",")))
	buf.WriteByte(']')
	return buf.Bytes()
}

func parseJSON(data []byte, what string) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, structureError("Invalid JSON for %s", what)
	}
	return gjson.ParseBytes(data), nil
}

// NodeFromJSON decodes a node.
func (s *Schema) NodeFromJSON(data []byte) (*Node, error) {
	r, err := parseJSON(data, "Node.fromJSON")
	if err != nil {
		return nil, err
	}
	return s.nodeFromResult(r)
}

// MarkFromJSON decodes a mark.
func (s *Schema) MarkFromJSON(data []byte) (*Mark, error) {
	r, err := parseJSON(data, "Mark.fromJSON")
	if err != nil {
		return nil, err
	}
	return s.markFromResult(r)
}

// FragmentFromJSON decodes a fragment. null decodes to the empty fragment.
func (s *Schema) FragmentFromJSON(data []byte) (*Fragment, error) {
	r, err := parseJSON(data, "Fragment.fromJSON")
	if err != nil {
		return nil, err
	}
	return s.fragmentFromResult(r)
}

// SliceFromJSON decodes a slice. null decodes to the empty slice.
func (s *Schema) SliceFromJSON(data []byte) (*Slice, error) {
	r, err := parseJSON(data, "Slice.fromJSON")
	if err != nil {
		return nil, err
	}
	if !r.Exists() || r.Type == gjson.Null {
		return EmptySlice, nil
	}
	if !r.IsObject() {
		return nil, structureError("Invalid input for Slice.fromJSON")
	}
	openStart, err := intField(r, "openStart")
	if err != nil {
		return nil, err
	}
	openEnd, err := intField(r, "openEnd")
	if err != nil {
		return nil, err
	}
	content, err := s.fragmentFromResult(r.Get("content"))
	if err != nil {
		return nil, err
	}
	return NewSlice(content, openStart, openEnd), nil
}

func intField(r gjson.Result, name string) (int, error) {
	v := r.Get(name)
	if !v.Exists() || v.Type == gjson.Null {
		return 0, nil
	}
	if v.Type != gjson.Number {
		return 0, structureError("Invalid input for Slice.fromJSON")
	}
	if v.Int() < 0 {
		return 0, structureError("Negative %s for Slice.fromJSON", name)
	}
	return int(v.Int()), nil
}

func (s *Schema) fragmentFromResult(r gjson.Result) (*Fragment, error) {
	if !r.Exists() || r.Type == gjson.Null {
		return EmptyFragment, nil
	}
	if !r.IsArray() {
		return nil, structureError("Invalid input for Fragment.fromJSON")
	}
	var nodes []*Node
	var err error
	r.ForEach(func(_, value gjson.Result) bool {
		var n *Node
		if n, err = s.nodeFromResult(value); err != nil {
			return false
		}
		nodes = append(nodes, n)
		return true
	})
	if err != nil {
		return nil, err
	}
	return FragmentFromArray(nodes), nil
}

func (s *Schema) nodeFromResult(r gjson.Result) (*Node, error) {
	if !r.IsObject() {
		return nil, structureError("Invalid input for Node.fromJSON")
	}
	var marks []*Mark
	if mr := r.Get("marks"); mr.Exists() && mr.Type != gjson.Null {
		if !mr.IsArray() {
			return nil, structureError("Invalid mark data for Node.fromJSON")
		}
		var err error
		mr.ForEach(func(_, value gjson.Result) bool {
			var m *Mark
			if m, err = s.markFromResult(value); err != nil {
				return false
			}
			marks = append(marks, m)
			return true
		})
		if err != nil {
			return nil, err
		}
	}

	typeName := r.Get("type")
	if typeName.Type != gjson.String {
		return nil, structureError("Invalid node type in JSON")
	}
	if typeName.Str == "text" {
		text := r.Get("text")
		if text.Type != gjson.String {
			return nil, structureError("Invalid text node in JSON")
		}
		return s.Text(text.Str, marks)
	}

	content, err := s.fragmentFromResult(r.Get("content"))
	if err != nil {
		return nil, err
	}
	t, err := s.NodeType(typeName.Str)
	if err != nil {
		return nil, err
	}
	attrs, err := attrsFromResult(r.Get("attrs"))
	if err != nil {
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

func (s *Schema) markFromResult(r gjson.Result) (*Mark, error) {
	if !r.IsObject() {
		return nil, structureError("Invalid input for Mark.fromJSON")
	}
	name := r.Get("type")
	if name.Type != gjson.String {
		return nil, structureError("Invalid mark type in JSON")
	}
	t, err := s.MarkType(name.Str)
	if err != nil {
		return nil, err
	}
	attrs, err := attrsFromResult(r.Get("attrs"))
	if err != nil {
		return nil, err
	}
	m, err := t.Create(attrs)
	if err != nil {
		return nil, err
	}
	if err := t.CheckAttrs(m.attrs); err != nil {
		return nil, err
	}
	return m, nil
}

func attrsFromResult(r gjson.Result) (Attrs, error) {
	if !r.Exists() || r.Type == gjson.Null {
		return nil, nil
	}
	if !r.IsObject() {
		return nil, structureError("Invalid attrs in JSON")
	}
	values, _ := r.Value().(map[string]any)
	return Attrs(values), nil
}
