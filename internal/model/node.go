package model

import (
	"strconv"
	"sync"
	"unicode/utf8"
)

// Node is a node in a document tree. Nodes are immutable and may be shared
// between trees. A node is either an element with a content fragment or a
// text node carrying a string.
type Node struct {
	typ     *NodeType
	attrs   Attrs
	content *Fragment
	marks   []*Mark

	// text and runes are only set for text nodes.
	text  string
	runes int

	cacheOnce sync.Once
	cache     *resolveCache
}

// ChildInfo describes a child found by ChildAfter or ChildBefore.
type ChildInfo struct {
	Node   *Node
	Index  int
	Offset int
}

func newNode(t *NodeType, attrs Attrs, content *Fragment, marks []*Mark) *Node {
	if content == nil {
		content = EmptyFragment
	}
	if marks == nil {
		marks = NoMarks
	}
	return &Node{typ: t, attrs: attrs, content: content, marks: marks}
}

func newTextNode(t *NodeType, attrs Attrs, text string, marks []*Mark) *Node {
	if marks == nil {
		marks = NoMarks
	}
	return &Node{
		typ:     t,
		attrs:   attrs,
		content: EmptyFragment,
		marks:   marks,
		text:    text,
		runes:   utf8.RuneCountInString(text),
	}
}

// Type returns the node's type.
func (n *Node) Type() *NodeType { return n.typ }

// Attrs returns the node's attributes. The map must not be modified.
func (n *Node) Attrs() Attrs { return n.attrs }

// Content returns the node's children.
func (n *Node) Content() *Fragment { return n.content }

// Marks returns the marks applied to the node, ordered by rank.
func (n *Node) Marks() []*Mark { return n.marks }

// Text returns the text of a text node, or "" for other nodes.
func (n *Node) Text() string { return n.text }

// NodeSize returns the size of the node in the position scheme. Text nodes
// count one per rune, other leaves one, and element nodes two plus the size
// of their content.
func (n *Node) NodeSize() int {
	switch {
	case n.typ.isText:
		return n.runes
	case n.IsLeaf():
		return 1
	}
	return 2 + n.content.size
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return n.content.ChildCount() }

// Child returns the child at index. It panics when index is out of range.
func (n *Node) Child(index int) *Node { return n.content.Child(index) }

// MaybeChild returns the child at index, or nil.
func (n *Node) MaybeChild(index int) *Node { return n.content.MaybeChild(index) }

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node { return n.content.FirstChild() }

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node { return n.content.LastChild() }

// ForEach calls fn for every child with its offset and index.
func (n *Node) ForEach(fn func(node *Node, offset, index int)) { n.content.ForEach(fn) }

// NodesBetween calls fn for every descendant that overlaps [from, to),
// relative to the start of the node's content.
func (n *Node) NodesBetween(from, to int, fn func(node *Node, pos int, parent *Node, index int) bool) {
	n.content.NodesBetween(from, to, fn, 0, n)
}

// Descendants calls fn for every descendant.
func (n *Node) Descendants(fn func(node *Node, pos int, parent *Node, index int) bool) {
	n.NodesBetween(0, n.content.size, fn)
}

// TextContent concatenates all the text in the node.
func (n *Node) TextContent() string {
	if n.typ.isText {
		return n.text
	}
	if n.IsLeaf() && n.typ.Spec.LeafText != nil {
		return n.typ.Spec.LeafText(n)
	}
	return n.TextBetween(0, n.content.size, "", nil)
}

// TextBetween returns the text between two content positions.
func (n *Node) TextBetween(from, to int, blockSeparator string, leafText func(*Node) string) string {
	if n.typ.isText {
		r := []rune(n.text)
		return string(r[max(0, from):min(len(r), to)])
	}
	return n.content.TextBetween(from, to, blockSeparator, leafText)
}

// Eq reports whether two nodes are structurally equal.
func (n *Node) Eq(other *Node) bool {
	if n == other {
		return true
	}
	if n.typ.isText {
		return n.SameMarkup(other) && n.text == other.text
	}
	return n.SameMarkup(other) && n.content.Eq(other.content)
}

// SameMarkup reports whether two nodes have the same type, attributes and
// marks.
func (n *Node) SameMarkup(other *Node) bool {
	return n.HasMarkup(other.typ, other.attrs, other.marks)
}

// HasMarkup reports whether the node has the given type, attributes and
// marks. Nil attrs stand for the type's defaults and nil marks for none.
func (n *Node) HasMarkup(t *NodeType, attrs Attrs, marks []*Mark) bool {
	if n.typ != t {
		return false
	}
	if attrs == nil {
		attrs = t.defaultAttrs
	}
	if marks == nil {
		marks = NoMarks
	}
	return attrsEqual(t.attrs, n.attrs, attrs) && SameMarkSet(n.marks, marks)
}

// Copy returns a node with the same markup and the given content.
func (n *Node) Copy(content *Fragment) *Node {
	if content == n.content {
		return n
	}
	return newNode(n.typ, n.attrs, content, n.marks)
}

// Mark returns a copy of the node with the given marks.
func (n *Node) Mark(marks []*Mark) *Node {
	if sameSlice(marks, n.marks) {
		return n
	}
	if n.typ.isText {
		return newTextNode(n.typ, n.attrs, n.text, marks)
	}
	return newNode(n.typ, n.attrs, n.content, marks)
}

func sameSlice(a, b []*Mark) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}

// WithText returns a text node with the same markup and different text.
func (n *Node) WithText(text string) *Node {
	if text == n.text {
		return n
	}
	return newTextNode(n.typ, n.attrs, text, n.marks)
}

func (n *Node) cutText(from, to int) *Node {
	if from == 0 && to == n.runes {
		return n
	}
	r := []rune(n.text)
	return n.WithText(string(r[from:to]))
}

// Cut returns a copy of the node holding only the content between the given
// positions. For text nodes the positions are rune offsets into the text.
func (n *Node) Cut(from, to int) *Node {
	if n.typ.isText {
		return n.cutText(from, to)
	}
	if from == 0 && to == n.content.size {
		return n
	}
	return n.Copy(n.content.Cut(from, to))
}

// Slice returns the content between from and to as a slice. With
// includeParents set the slice is opened up to the root.
func (n *Node) Slice(from, to int, includeParents bool) (*Slice, error) {
	if from == to {
		return EmptySlice, nil
	}
	rFrom, err := n.Resolve(from)
	if err != nil {
		return nil, err
	}
	rTo, err := n.Resolve(to)
	if err != nil {
		return nil, err
	}
	depth := 0
	if !includeParents {
		depth = rFrom.SharedDepth(to)
	}
	start, node := rFrom.Start(depth), rFrom.Node(depth)
	content := node.content.Cut(rFrom.Pos-start, rTo.Pos-start)
	return NewSlice(content, rFrom.Depth-depth, rTo.Depth-depth), nil
}

// Replace replaces the content between from and to with slice. The slice
// must fit the positions, or an ErrSplice error is returned.
func (n *Node) Replace(from, to int, slice *Slice) (*Node, error) {
	rFrom, err := n.Resolve(from)
	if err != nil {
		return nil, err
	}
	rTo, err := n.Resolve(to)
	if err != nil {
		return nil, err
	}
	return replace(rFrom, rTo, slice)
}

// NodeAt returns the node starting directly after pos, or nil.
func (n *Node) NodeAt(pos int) *Node {
	node := n
	for {
		index, offset, err := node.content.FindIndex(pos)
		if err != nil {
			return nil
		}
		node = node.MaybeChild(index)
		if node == nil {
			return nil
		}
		if offset == pos || node.IsText() {
			return node
		}
		pos -= offset + 1
	}
}

// ChildAfter returns the direct child after the content position pos.
// Node is nil when there is no such child.
func (n *Node) ChildAfter(pos int) ChildInfo {
	index, offset, err := n.content.FindIndex(pos)
	if err != nil {
		return ChildInfo{}
	}
	return ChildInfo{Node: n.content.MaybeChild(index), Index: index, Offset: offset}
}

// ChildBefore returns the direct child before the content position pos.
// Node is nil when there is no such child.
func (n *Node) ChildBefore(pos int) ChildInfo {
	if pos == 0 {
		return ChildInfo{}
	}
	index, offset, err := n.content.FindIndex(pos)
	if err != nil {
		return ChildInfo{}
	}
	if offset < pos {
		return ChildInfo{Node: n.content.Child(index), Index: index, Offset: offset}
	}
	node := n.content.Child(index - 1)
	return ChildInfo{Node: node, Index: index - 1, Offset: offset - node.NodeSize()}
}

// Resolve resolves pos in the document rooted at this node. Results are
// cached per root.
func (n *Node) Resolve(pos int) (*ResolvedPos, error) {
	return resolveCached(n, pos)
}

// ResolveNoCache resolves pos without consulting the cache.
func (n *Node) ResolveNoCache(pos int) (*ResolvedPos, error) {
	return resolvePos(n, pos)
}

// RangeHasMark reports whether a mark of the given type occurs in
// [from, to).
func (n *Node) RangeHasMark(from, to int, t *MarkType) bool {
	found := false
	if to > from {
		n.NodesBetween(from, to, func(node *Node, _ int, _ *Node, _ int) bool {
			if t.IsInSet(node.marks) != nil {
				found = true
			}
			return !found
		})
	}
	return found
}

// IsBlock reports whether this is a block node.
func (n *Node) IsBlock() bool { return n.typ.isBlock }

// IsTextblock reports whether this is a block node with inline content.
func (n *Node) IsTextblock() bool { return n.typ.IsTextblock() }

// InlineContent reports whether the node's content is inline.
func (n *Node) InlineContent() bool { return n.typ.inlineContent }

// IsInline reports whether this is an inline node.
func (n *Node) IsInline() bool { return n.typ.IsInline() }

// IsText reports whether this is a text node.
func (n *Node) IsText() bool { return n.typ.isText }

// IsLeaf reports whether the node's type allows no content.
func (n *Node) IsLeaf() bool { return n.typ.IsLeaf() }

// IsAtom reports whether the node is a leaf or declared atomic.
func (n *Node) IsAtom() bool { return n.typ.IsAtom() }

// ContentMatchAt returns the content match state after the first index
// children.
func (n *Node) ContentMatchAt(index int) (*ContentMatch, error) {
	match := n.typ.contentMatch.MatchFragmentRange(n.content, 0, index)
	if match == nil {
		return nil, structureError("Called ContentMatchAt on a node with invalid content")
	}
	return match, nil
}

// CanReplace reports whether replacing the children in [from, to) with the
// children of replacement in [start, end) gives valid content.
func (n *Node) CanReplace(from, to int, replacement *Fragment, start, end int) bool {
	if replacement == nil {
		replacement = EmptyFragment
	}
	at, err := n.ContentMatchAt(from)
	if err != nil {
		return false
	}
	one := at.MatchFragmentRange(replacement, start, end)
	var two *ContentMatch
	if one != nil {
		two = one.MatchFragmentFrom(n.content, to)
	}
	if two == nil || !two.ValidEnd {
		return false
	}
	for i := start; i < end; i++ {
		if !n.typ.AllowsMarks(replacement.Child(i).marks) {
			return false
		}
	}
	return true
}

// CanReplaceWith reports whether the children in [from, to) can be replaced
// by a single node of type t with the given marks.
func (n *Node) CanReplaceWith(from, to int, t *NodeType, marks []*Mark) bool {
	if marks != nil && !n.typ.AllowsMarks(marks) {
		return false
	}
	at, err := n.ContentMatchAt(from)
	if err != nil {
		return false
	}
	start := at.MatchType(t)
	if start == nil {
		return false
	}
	end := start.MatchFragmentFrom(n.content, to)
	return end != nil && end.ValidEnd
}

// CanAppend reports whether the content of other may be appended to this
// node's content.
func (n *Node) CanAppend(other *Node) bool {
	if other.content.size > 0 {
		return n.CanReplace(n.ChildCount(), n.ChildCount(), other.content, 0, other.ChildCount())
	}
	return n.typ.CompatibleContent(other.typ)
}

// Check verifies that the node and its descendants conform to the schema.
func (n *Node) Check() error {
	if err := n.typ.CheckContent(n.content); err != nil {
		return err
	}
	if err := n.typ.CheckAttrs(n.attrs); err != nil {
		return err
	}
	set := NoMarks
	for _, m := range n.marks {
		if err := m.typ.CheckAttrs(m.attrs); err != nil {
			return err
		}
		set = m.AddToSet(set)
	}
	if !SameMarkSet(set, n.marks) {
		return structureError("Invalid collection of marks for node %s: %s", n.typ.Name, markNames(n.marks))
	}
	for _, child := range n.content.content {
		if err := child.Check(); err != nil {
			return err
		}
	}
	return nil
}

// String renders the node for debugging.
func (n *Node) String() string {
	if n.typ.isText {
		return wrapMarks(n.marks, strconv.Quote(n.text))
	}
	name := n.typ.Name
	if n.content.size > 0 {
		name += "(" + n.content.stringInner() + ")"
	}
	return wrapMarks(n.marks, name)
}

func wrapMarks(marks []*Mark, s string) string {
	for i := len(marks) - 1; i >= 0; i-- {
		s = marks[i].typ.Name + "(" + s + ")"
	}
	return s
}
