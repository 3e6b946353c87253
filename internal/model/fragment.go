package model

import (
	"strings"
)

// Fragment is an immutable sequence of nodes, used for the children of a
// node. Adjacent text nodes with the same marks are always joined.
type Fragment struct {
	content []*Node
	size    int
}

// EmptyFragment is a fragment without nodes.
var EmptyFragment = &Fragment{}

func newFragment(content []*Node, size int) *Fragment {
	return &Fragment{content: content, size: size}
}

func fragmentOf(content []*Node) *Fragment {
	size := 0
	for _, n := range content {
		size += n.NodeSize()
	}
	return newFragment(content, size)
}

// FragmentFrom creates a fragment from the given nodes, joining adjacent
// text nodes with the same marks.
func FragmentFrom(nodes ...*Node) *Fragment {
	switch len(nodes) {
	case 0:
		return EmptyFragment
	case 1:
		return newFragment([]*Node{nodes[0]}, nodes[0].NodeSize())
	}
	return FragmentFromArray(nodes)
}

// FragmentFromArray builds a fragment from a slice of nodes, joining
// adjacent text nodes with the same marks. The slice is not retained.
func FragmentFromArray(nodes []*Node) *Fragment {
	if len(nodes) == 0 {
		return EmptyFragment
	}
	joined := make([]*Node, 0, len(nodes))
	size := 0
	for i, node := range nodes {
		size += node.NodeSize()
		if i > 0 && node.IsText() && nodes[i-1].SameMarkup(node) {
			last := joined[len(joined)-1]
			joined[len(joined)-1] = last.WithText(last.text + node.text)
			continue
		}
		joined = append(joined, node)
	}
	return newFragment(joined, size)
}

// Size returns the total size of the fragment's nodes.
func (f *Fragment) Size() int { return f.size }

// ChildCount returns the number of nodes in the fragment.
func (f *Fragment) ChildCount() int { return len(f.content) }

// Child returns the node at index. It panics when index is out of range.
func (f *Fragment) Child(index int) *Node {
	if index < 0 || index >= len(f.content) {
		panic(structureError("Index %d out of range for %s", index, f))
	}
	return f.content[index]
}

// MaybeChild returns the node at index, or nil.
func (f *Fragment) MaybeChild(index int) *Node {
	if index < 0 || index >= len(f.content) {
		return nil
	}
	return f.content[index]
}

// FirstChild returns the first node, or nil.
func (f *Fragment) FirstChild() *Node { return f.MaybeChild(0) }

// LastChild returns the last node, or nil.
func (f *Fragment) LastChild() *Node { return f.MaybeChild(len(f.content) - 1) }

// Nodes returns a copy of the fragment's nodes.
func (f *Fragment) Nodes() []*Node {
	return append([]*Node(nil), f.content...)
}

// ForEach calls fn for every child with its offset and index.
func (f *Fragment) ForEach(fn func(node *Node, offset, index int)) {
	pos := 0
	for i, child := range f.content {
		fn(child, pos, i)
		pos += child.NodeSize()
	}
}

// NodesBetween calls fn for every node that overlaps [from, to), descending
// into a node's children unless fn returns false. nodeStart is added to
// the positions passed to fn.
func (f *Fragment) NodesBetween(from, to int, fn func(node *Node, pos int, parent *Node, index int) bool, nodeStart int, parent *Node) {
	pos := 0
	for i := 0; pos < to && i < len(f.content); i++ {
		child := f.content[i]
		end := pos + child.NodeSize()
		if end > from && fn(child, nodeStart+pos, parent, i) && child.content.size > 0 {
			start := pos + 1
			child.content.NodesBetween(max(0, from-start), min(child.content.size, to-start), fn, nodeStart+start, child)
		}
		pos = end
	}
}

// Descendants calls fn for every descendant node.
func (f *Fragment) Descendants(fn func(node *Node, pos int, parent *Node, index int) bool) {
	f.NodesBetween(0, f.size, fn, 0, nil)
}

// TextBetween returns the text in [from, to). blockSeparator is inserted
// between textblocks and leaf blocks. leafText renders leaf nodes; when nil,
// the node spec's LeafText is used.
func (f *Fragment) TextBetween(from, to int, blockSeparator string, leafText func(*Node) string) string {
	var sb strings.Builder
	first := true
	f.NodesBetween(from, to, func(node *Node, pos int, _ *Node, _ int) bool {
		var nodeText string
		switch {
		case node.IsText():
			r := []rune(node.text)
			nodeText = string(r[max(from, pos)-pos : min(len(r), to-pos)])
		case !node.IsLeaf():
		case leafText != nil:
			nodeText = leafText(node)
		case node.typ.Spec.LeafText != nil:
			nodeText = node.typ.Spec.LeafText(node)
		}
		if ((node.IsBlock() && node.IsLeaf() && nodeText != "") || node.IsTextblock()) && blockSeparator != "" {
			if first {
				first = false
			} else {
				sb.WriteString(blockSeparator)
			}
		}
		sb.WriteString(nodeText)
		return true
	}, 0, nil)
	return sb.String()
}

// Append returns the concatenation of f and other, joining the boundary
// text nodes when they have the same marks.
func (f *Fragment) Append(other *Fragment) *Fragment {
	if other.size == 0 {
		return f
	}
	if f.size == 0 {
		return other
	}
	last, first := f.LastChild(), other.FirstChild()
	content := make([]*Node, len(f.content), len(f.content)+len(other.content))
	copy(content, f.content)
	i := 0
	if last.IsText() && last.SameMarkup(first) {
		content[len(content)-1] = last.WithText(last.text + first.text)
		i = 1
	}
	content = append(content, other.content[i:]...)
	return newFragment(content, f.size+other.size)
}

// Cut returns the part of the fragment between from and to.
func (f *Fragment) Cut(from, to int) *Fragment {
	if from == 0 && to == f.size {
		return f
	}
	var result []*Node
	size := 0
	if to > from {
		pos := 0
		for i := 0; pos < to && i < len(f.content); i++ {
			child := f.content[i]
			end := pos + child.NodeSize()
			if end > from {
				if pos < from || end > to {
					if child.IsText() {
						child = child.cutText(max(0, from-pos), min(child.runes, to-pos))
					} else {
						child = child.Cut(max(0, from-pos-1), min(child.content.size, to-pos-1))
					}
				}
				result = append(result, child)
				size += child.NodeSize()
			}
			pos = end
		}
	}
	return newFragment(result, size)
}

// CutFrom returns the part of the fragment from pos to the end.
func (f *Fragment) CutFrom(from int) *Fragment {
	return f.Cut(from, f.size)
}

// CutByIndex returns the children in [from, to).
func (f *Fragment) CutByIndex(from, to int) *Fragment {
	if from == to {
		return EmptyFragment
	}
	if from == 0 && to == len(f.content) {
		return f
	}
	return fragmentOf(append([]*Node(nil), f.content[from:to]...))
}

// ReplaceChild returns a fragment with the child at index replaced by node.
func (f *Fragment) ReplaceChild(index int, node *Node) *Fragment {
	current := f.Child(index)
	if current == node {
		return f
	}
	content := append([]*Node(nil), f.content...)
	content[index] = node
	return newFragment(content, f.size+node.NodeSize()-current.NodeSize())
}

// AddToStart returns a fragment with node prepended.
func (f *Fragment) AddToStart(node *Node) *Fragment {
	content := make([]*Node, 0, len(f.content)+1)
	content = append(content, node)
	content = append(content, f.content...)
	return newFragment(content, f.size+node.NodeSize())
}

// AddToEnd returns a fragment with node appended.
func (f *Fragment) AddToEnd(node *Node) *Fragment {
	content := make([]*Node, 0, len(f.content)+1)
	content = append(content, f.content...)
	content = append(content, node)
	return newFragment(content, f.size+node.NodeSize())
}

// Eq reports whether two fragments contain equal nodes.
func (f *Fragment) Eq(other *Fragment) bool {
	if len(f.content) != len(other.content) {
		return false
	}
	for i, n := range f.content {
		if !n.Eq(other.content[i]) {
			return false
		}
	}
	return true
}

// FindIndex returns the index of the child containing pos and that child's
// offset. A position on a child boundary returns the child after it.
func (f *Fragment) FindIndex(pos int) (index, offset int, err error) {
	if pos == 0 {
		return 0, 0, nil
	}
	if pos == f.size {
		return len(f.content), pos, nil
	}
	if pos > f.size || pos < 0 {
		return 0, 0, structureError("Position %d outside of fragment (%s)", pos, f)
	}
	cur := 0
	for i, child := range f.content {
		end := cur + child.NodeSize()
		if end >= pos {
			if end == pos {
				return i + 1, end, nil
			}
			return i, cur, nil
		}
		cur = end
	}
	return len(f.content), f.size, nil
}

// FindDiffStart returns the first position at which f and other differ, or
// false when they are the same.
func (f *Fragment) FindDiffStart(other *Fragment, pos int) (int, bool) {
	return findDiffStart(f, other, pos)
}

// FindDiffEnd searches backwards from the ends of both fragments and
// returns the end positions of the differing range in f and in other.
func (f *Fragment) FindDiffEnd(other *Fragment, pos, otherPos int) (a, b int, ok bool) {
	return findDiffEnd(f, other, pos, otherPos)
}

// String renders the fragment for debugging.
func (f *Fragment) String() string {
	return "<" + f.stringInner() + ">"
}

func (f *Fragment) stringInner() string {
	parts := make([]string, len(f.content))
	for i, n := range f.content {
		parts[i] = n.String()
	}
	return strings.Join(parts, ", ")
}
