package model

import (
	"strconv"
	"strings"
)

// ResolvedPos is a position in a document together with the path of
// ancestor nodes leading to it. Depth arguments of its methods may be
// negative, in which case they count back from Depth.
type ResolvedPos struct {
	// Pos is the resolved position.
	Pos int

	// Depth is the number of levels the parent node is from the root. A
	// position directly in the root has depth 0.
	Depth int

	// ParentOffset is the offset of the position into its parent node.
	ParentOffset int

	path []pathEntry
}

type pathEntry struct {
	node  *Node
	index int
	// offset is the absolute position of the child at index.
	offset int
}

func resolvePos(doc *Node, pos int) (*ResolvedPos, error) {
	if pos < 0 || pos > doc.content.size {
		return nil, structureError("Position %d out of range", pos)
	}
	var path []pathEntry
	start, parentOffset := 0, pos
	for node := doc; ; {
		index, offset, err := node.content.FindIndex(parentOffset)
		if err != nil {
			return nil, err
		}
		rem := parentOffset - offset
		path = append(path, pathEntry{node: node, index: index, offset: start + offset})
		if rem == 0 {
			break
		}
		node = node.Child(index)
		if node.IsText() {
			break
		}
		parentOffset = rem - 1
		start += offset + 1
	}
	return &ResolvedPos{Pos: pos, Depth: len(path) - 1, ParentOffset: parentOffset, path: path}, nil
}

func (r *ResolvedPos) resolveDepth(depth int) int {
	if depth < 0 {
		return r.Depth + depth
	}
	return depth
}

// Parent returns the node directly containing the position.
func (r *ResolvedPos) Parent() *Node { return r.Node(r.Depth) }

// Doc returns the root node.
func (r *ResolvedPos) Doc() *Node { return r.Node(0) }

// Node returns the ancestor node at the given depth.
func (r *ResolvedPos) Node(depth int) *Node { return r.path[r.resolveDepth(depth)].node }

// Index returns the index into the ancestor at the given depth.
func (r *ResolvedPos) Index(depth int) int { return r.path[r.resolveDepth(depth)].index }

// IndexAfter returns the index pointing after this position in the
// ancestor at the given depth.
func (r *ResolvedPos) IndexAfter(depth int) int {
	depth = r.resolveDepth(depth)
	if depth == r.Depth && r.TextOffset() == 0 {
		return r.Index(depth)
	}
	return r.Index(depth) + 1
}

// Start returns the absolute position at which the content of the ancestor
// at the given depth starts.
func (r *ResolvedPos) Start(depth int) int {
	depth = r.resolveDepth(depth)
	if depth == 0 {
		return 0
	}
	return r.path[depth-1].offset + 1
}

// End returns the absolute position at which the content of the ancestor at
// the given depth ends.
func (r *ResolvedPos) End(depth int) int {
	depth = r.resolveDepth(depth)
	return r.Start(depth) + r.Node(depth).content.size
}

// Before returns the absolute position before the ancestor at the given
// depth, or the position itself for Depth+1. It panics for depth 0.
func (r *ResolvedPos) Before(depth int) int {
	depth = r.resolveDepth(depth)
	if depth == 0 {
		panic(structureError("There is no position before the top-level node"))
	}
	if depth == r.Depth+1 {
		return r.Pos
	}
	return r.path[depth-1].offset
}

// After returns the absolute position after the ancestor at the given
// depth, or the position itself for Depth+1. It panics for depth 0.
func (r *ResolvedPos) After(depth int) int {
	depth = r.resolveDepth(depth)
	if depth == 0 {
		panic(structureError("There is no position after the top-level node"))
	}
	if depth == r.Depth+1 {
		return r.Pos
	}
	return r.path[depth-1].offset + r.path[depth].node.NodeSize()
}

// TextOffset returns the offset into the text node the position points
// into, or 0 when it is between nodes.
func (r *ResolvedPos) TextOffset() int {
	return r.Pos - r.path[len(r.path)-1].offset
}

// NodeAfter returns the node directly after the position, or nil. A text
// node the position points into is cut.
func (r *ResolvedPos) NodeAfter() *Node {
	parent, index := r.Parent(), r.Index(r.Depth)
	if index == parent.ChildCount() {
		return nil
	}
	child := parent.Child(index)
	if off := r.TextOffset(); off > 0 {
		return child.Cut(off, child.runes)
	}
	return child
}

// NodeBefore returns the node directly before the position, or nil. A text
// node the position points into is cut.
func (r *ResolvedPos) NodeBefore() *Node {
	index := r.Index(r.Depth)
	if off := r.TextOffset(); off > 0 {
		return r.Parent().Child(index).Cut(0, off)
	}
	if index == 0 {
		return nil
	}
	return r.Parent().Child(index - 1)
}

// PosAtIndex returns the position of the child at index in the ancestor at
// the given depth.
func (r *ResolvedPos) PosAtIndex(index, depth int) int {
	depth = r.resolveDepth(depth)
	node := r.path[depth].node
	pos := 0
	if depth > 0 {
		pos = r.path[depth-1].offset + 1
	}
	for i := 0; i < index; i++ {
		pos += node.Child(i).NodeSize()
	}
	return pos
}

// Marks returns the marks at the position. Marks of the node before the
// position are used, except non-inclusive marks that the node after it
// lacks. At the start of a parent the node after is used instead.
func (r *ResolvedPos) Marks() []*Mark {
	parent, index := r.Parent(), r.Index(r.Depth)
	if parent.content.size == 0 {
		return NoMarks
	}
	if r.TextOffset() > 0 {
		return parent.Child(index).marks
	}
	main, other := parent.MaybeChild(index-1), parent.MaybeChild(index)
	if main == nil {
		main, other = other, main
	}
	return dropNonInclusive(main.marks, other)
}

// MarksAcross returns the marks that should be kept when deleting the range
// from this position to end, or nil when no inline node follows.
func (r *ResolvedPos) MarksAcross(end *ResolvedPos) []*Mark {
	after := r.Parent().MaybeChild(r.Index(r.Depth))
	if after == nil || !after.IsInline() {
		return nil
	}
	next := end.Parent().MaybeChild(end.Index(end.Depth))
	return dropNonInclusive(after.marks, next)
}

func dropNonInclusive(marks []*Mark, other *Node) []*Mark {
	for i := 0; i < len(marks); i++ {
		m := marks[i]
		if !m.typ.Inclusive() && (other == nil || !m.IsInSet(other.marks)) {
			marks = m.RemoveFromSet(marks)
			i--
		}
	}
	return marks
}

// SharedDepth returns the depth up to which this position and pos share
// the same parent nodes.
func (r *ResolvedPos) SharedDepth(pos int) int {
	for depth := r.Depth; depth > 0; depth-- {
		if r.Start(depth) <= pos && r.End(depth) >= pos {
			return depth
		}
	}
	return 0
}

// BlockRange returns a range of block content around this position and
// other, or nil. When pred is given the parent node must satisfy it. A nil
// other stands for the position itself.
func (r *ResolvedPos) BlockRange(other *ResolvedPos, pred func(*Node) bool) *NodeRange {
	if other == nil {
		other = r
	}
	if other.Pos < r.Pos {
		return other.BlockRange(r, pred)
	}
	d := r.Depth
	if r.Parent().InlineContent() || r.Pos == other.Pos {
		d--
	}
	for ; d >= 0; d-- {
		if other.Pos <= r.End(d) && (pred == nil || pred(r.Node(d))) {
			return &NodeRange{From: r, To: other, Depth: d}
		}
	}
	return nil
}

// SameParent reports whether both positions have the same parent node.
func (r *ResolvedPos) SameParent(other *ResolvedPos) bool {
	return r.Pos-r.ParentOffset == other.Pos-other.ParentOffset
}

// Max returns the greater of the two positions.
func (r *ResolvedPos) Max(other *ResolvedPos) *ResolvedPos {
	if other.Pos > r.Pos {
		return other
	}
	return r
}

// Min returns the smaller of the two positions.
func (r *ResolvedPos) Min(other *ResolvedPos) *ResolvedPos {
	if other.Pos < r.Pos {
		return other
	}
	return r
}

// String renders the path as "type_index/..." followed by the parent
// offset.
func (r *ResolvedPos) String() string {
	var sb strings.Builder
	for i := 1; i <= r.Depth; i++ {
		if sb.Len() > 0 {
			sb.WriteByte('/')
		}
		sb.WriteString(r.Node(i).typ.Name)
		sb.WriteByte('_')
		sb.WriteString(strconv.Itoa(r.Index(i - 1)))
	}
	return sb.String() + ":" + strconv.Itoa(r.ParentOffset)
}

// NodeRange is a flat range of content within a single parent.
type NodeRange struct {
	From  *ResolvedPos
	To    *ResolvedPos
	Depth int
}

// Start returns the position at the start of the range.
func (nr *NodeRange) Start() int { return nr.From.Before(nr.Depth + 1) }

// End returns the position at the end of the range.
func (nr *NodeRange) End() int { return nr.To.After(nr.Depth + 1) }

// Parent returns the node the range points into.
func (nr *NodeRange) Parent() *Node { return nr.From.Node(nr.Depth) }

// StartIndex returns the index of the first child in the range.
func (nr *NodeRange) StartIndex() int { return nr.From.Index(nr.Depth) }

// EndIndex returns the index after the last child in the range.
func (nr *NodeRange) EndIndex() int { return nr.To.IndexAfter(nr.Depth) }
