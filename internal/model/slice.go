package model

import "strconv"

// Slice is a piece of a document, used for copying and replacing content.
// OpenStart and OpenEnd give the depths at which the start and end of the
// fragment are cut through, which exempts those nodes from content checks
// until the slice is placed.
type Slice struct {
	Content   *Fragment
	OpenStart int
	OpenEnd   int
}

// EmptySlice is the slice without content.
var EmptySlice = &Slice{Content: EmptyFragment}

// NewSlice creates a slice. A nil content is empty.
func NewSlice(content *Fragment, openStart, openEnd int) *Slice {
	if content == nil {
		content = EmptyFragment
	}
	return &Slice{Content: content, OpenStart: openStart, OpenEnd: openEnd}
}

// MaxOpen creates a slice that is open as deep as the fragment allows. With
// openIsolating unset, isolating nodes are not opened.
func MaxOpen(fragment *Fragment, openIsolating bool) *Slice {
	openStart, openEnd := 0, 0
	for n := fragment.FirstChild(); n != nil && !n.IsLeaf() && (openIsolating || !n.typ.Spec.Isolating); n = n.FirstChild() {
		openStart++
	}
	for n := fragment.LastChild(); n != nil && !n.IsLeaf() && (openIsolating || !n.typ.Spec.Isolating); n = n.LastChild() {
		openEnd++
	}
	return NewSlice(fragment, openStart, openEnd)
}

// checkOpenDepths fails when an open depth is negative or deeper than the
// chain of non-leaf first or last descendants of the content.
func (s *Slice) checkOpenDepths() error {
	if s.OpenStart < 0 || s.OpenEnd < 0 {
		return spliceError("Slice has a negative open depth (%d, %d)", s.OpenStart, s.OpenEnd)
	}
	if s.OpenStart > openableDepth(s.Content, (*Fragment).FirstChild) ||
		s.OpenEnd > openableDepth(s.Content, (*Fragment).LastChild) {
		return spliceError("Slice open depth (%d, %d) exceeds its content", s.OpenStart, s.OpenEnd)
	}
	return nil
}

func openableDepth(f *Fragment, edge func(*Fragment) *Node) int {
	depth := 0
	for n := edge(f); n != nil && !n.IsLeaf(); n = edge(n.content) {
		depth++
	}
	return depth
}

// Size returns the size the slice takes up when inserted.
func (s *Slice) Size() int {
	return s.Content.Size() - s.OpenStart - s.OpenEnd
}

// InsertAt inserts fragment at pos within the slice. It fails when pos is
// out of range or the fragment is not valid content at pos.
func (s *Slice) InsertAt(pos int, fragment *Fragment) (*Slice, error) {
	content, err := insertInto(s.Content, pos+s.OpenStart, fragment, nil)
	if err != nil {
		return nil, err
	}
	return NewSlice(content, s.OpenStart, s.OpenEnd), nil
}

// RemoveBetween removes the content between from and to. The range must be
// flat, covering whole nodes or text within a single parent.
func (s *Slice) RemoveBetween(from, to int) (*Slice, error) {
	content, err := removeRange(s.Content, from+s.OpenStart, to+s.OpenStart)
	if err != nil {
		return nil, err
	}
	return NewSlice(content, s.OpenStart, s.OpenEnd), nil
}

// Eq reports whether two slices are equal.
func (s *Slice) Eq(other *Slice) bool {
	return s.Content.Eq(other.Content) && s.OpenStart == other.OpenStart && s.OpenEnd == other.OpenEnd
}

// String renders the slice for debugging.
func (s *Slice) String() string {
	return s.Content.String() + "(" + strconv.Itoa(s.OpenStart) + "," + strconv.Itoa(s.OpenEnd) + ")"
}

func removeRange(content *Fragment, from, to int) (*Fragment, error) {
	index, offset, err := content.FindIndex(from)
	if err != nil {
		return nil, err
	}
	child := content.MaybeChild(index)
	indexTo, offsetTo, err := content.FindIndex(to)
	if err != nil {
		return nil, err
	}
	if offset == from || child.IsText() {
		if offsetTo != to && !content.Child(indexTo).IsText() {
			return nil, spliceError("Removing non-flat range")
		}
		return content.Cut(0, from).Append(content.CutFrom(to)), nil
	}
	if index != indexTo {
		return nil, spliceError("Removing non-flat range")
	}
	inner, err := removeRange(child.content, from-offset-1, to-offset-1)
	if err != nil {
		return nil, err
	}
	return content.ReplaceChild(index, child.Copy(inner)), nil
}

func insertInto(content *Fragment, dist int, insert *Fragment, parent *Node) (*Fragment, error) {
	index, offset, err := content.FindIndex(dist)
	if err != nil {
		return nil, err
	}
	child := content.MaybeChild(index)
	if offset == dist || child.IsText() {
		if parent != nil && !parent.CanReplace(index, index, insert, 0, insert.ChildCount()) {
			return nil, spliceError("Inserted content is not valid in %s", parent.typ.Name)
		}
		return content.Cut(0, dist).Append(insert).Append(content.CutFrom(dist)), nil
	}
	inner, err := insertInto(child.content, dist-offset-1, insert, child)
	if err != nil {
		return nil, err
	}
	return content.ReplaceChild(index, child.Copy(inner)), nil
}
