package model

import "strings"

// MarkType is a compiled mark spec.
type MarkType struct {
	Name   string
	Rank   int
	Schema *Schema
	Spec   MarkSpec
	Groups []string

	attrs    *attrTable
	excluded []*MarkType
	instance *Mark
}

func newMarkType(s *Schema, rank int, spec MarkSpec) (*MarkType, error) {
	attrs, err := initAttrs(spec.Name, spec.Attrs)
	if err != nil {
		return nil, err
	}
	m := &MarkType{
		Name:   spec.Name,
		Rank:   rank,
		Schema: s,
		Spec:   spec,
		Groups: strings.Fields(spec.Group),
		attrs:  attrs,
	}
	if defaults := defaultAttrs(attrs); defaults != nil {
		m.instance = &Mark{typ: m, attrs: defaults}
	}
	return m, nil
}

// Create returns a mark of this type. Marks without attributes share a
// single instance.
func (m *MarkType) Create(attrs Attrs) (*Mark, error) {
	if attrs == nil && m.instance != nil {
		return m.instance, nil
	}
	computed, err := computeAttrs(m.attrs, attrs, m.Schema.idgen)
	if err != nil {
		return nil, err
	}
	return &Mark{typ: m, attrs: computed}, nil
}

// Attrs returns the type's attribute declarations, ordered by name.
func (m *MarkType) Attrs() []*Attribute { return m.attrs.list }

// RemoveFromSet returns set without marks of this type.
func (m *MarkType) RemoveFromSet(set []*Mark) []*Mark {
	for i, mark := range set {
		if mark.typ == m {
			out := make([]*Mark, 0, len(set)-1)
			out = append(out, set[:i]...)
			for _, rest := range set[i+1:] {
				if rest.typ != m {
					out = append(out, rest)
				}
			}
			return out
		}
	}
	return set
}

// IsInSet returns the mark of this type in set, or nil.
func (m *MarkType) IsInSet(set []*Mark) *Mark {
	for _, mark := range set {
		if mark.typ == m {
			return mark
		}
	}
	return nil
}

// Excludes reports whether this mark type excludes other.
func (m *MarkType) Excludes(other *MarkType) bool {
	for _, e := range m.excluded {
		if e == other {
			return true
		}
	}
	return false
}

// CheckAttrs validates attribute values against the type's declarations.
func (m *MarkType) CheckAttrs(attrs Attrs) error {
	return checkAttrs(m.attrs, attrs, "mark", m.Name)
}

// Inclusive reports whether the mark extends over content inserted at its
// end.
func (m *MarkType) Inclusive() bool {
	return m.Spec.Inclusive == nil || *m.Spec.Inclusive
}

// Spanning reports whether the mark may span multiple nodes.
func (m *MarkType) Spanning() bool {
	return m.Spec.Spanning == nil || *m.Spec.Spanning
}

// IsInGroup reports whether the type belongs to the named group.
func (m *MarkType) IsInGroup(group string) bool {
	for _, g := range m.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// String returns the type name.
func (m *MarkType) String() string { return m.Name }
