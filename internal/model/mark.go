package model

import (
	"sort"
	"strings"
)

// Mark is a piece of information attached to inline content, such as
// emphasis or a link. Marks are immutable.
type Mark struct {
	typ   *MarkType
	attrs Attrs
}

// NoMarks is the empty mark set.
var NoMarks = []*Mark{}

// Type returns the mark's type.
func (m *Mark) Type() *MarkType { return m.typ }

// Attrs returns the mark's attributes. The map must not be modified.
func (m *Mark) Attrs() Attrs { return m.attrs }

// AddToSet returns a set that contains this mark. Marks excluded by it are
// removed, and the set is returned unchanged when it already contains the
// mark or contains a mark that excludes it.
func (m *Mark) AddToSet(set []*Mark) []*Mark {
	var copied []*Mark
	placed := false
	for i, other := range set {
		if m.Eq(other) {
			return set
		}
		switch {
		case m.typ.Excludes(other.typ):
			if copied == nil {
				copied = append([]*Mark{}, set[:i]...)
			}
		case other.typ.Excludes(m.typ):
			return set
		default:
			if !placed && other.typ.Rank > m.typ.Rank {
				if copied == nil {
					copied = append([]*Mark{}, set[:i]...)
				}
				copied = append(copied, m)
				placed = true
			}
			if copied != nil {
				copied = append(copied, other)
			}
		}
	}
	if copied == nil {
		copied = append([]*Mark{}, set...)
	}
	if !placed {
		copied = append(copied, m)
	}
	return copied
}

// RemoveFromSet returns set without this mark.
func (m *Mark) RemoveFromSet(set []*Mark) []*Mark {
	for i, other := range set {
		if m.Eq(other) {
			out := make([]*Mark, 0, len(set)-1)
			out = append(out, set[:i]...)
			return append(out, set[i+1:]...)
		}
	}
	return set
}

// IsInSet reports whether the mark is in set.
func (m *Mark) IsInSet(set []*Mark) bool {
	for _, other := range set {
		if m.Eq(other) {
			return true
		}
	}
	return false
}

// Eq reports whether two marks have the same type and attributes.
func (m *Mark) Eq(other *Mark) bool {
	return m == other || (m.typ == other.typ && attrsEqual(m.typ.attrs, m.attrs, other.attrs))
}

// String renders the mark as its type name.
func (m *Mark) String() string { return m.typ.Name }

// SameMarkSet reports whether two mark sets are equal.
func SameMarkSet(a, b []*Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Eq(b[i]) {
			return false
		}
	}
	return true
}

// MarkSetFrom builds a sorted mark set from the given marks.
func MarkSetFrom(marks ...*Mark) []*Mark {
	if len(marks) == 0 {
		return NoMarks
	}
	if len(marks) == 1 {
		return []*Mark{marks[0]}
	}
	out := append([]*Mark{}, marks...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].typ.Rank < out[j].typ.Rank })
	return out
}

func markNames(marks []*Mark) string {
	names := make([]string, len(marks))
	for i, m := range marks {
		names[i] = m.String()
	}
	return strings.Join(names, ",")
}
