package model

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Attrs holds the attribute values of a node or mark. Attrs belonging to a
// node must not be modified.
type Attrs map[string]any

// AttributeSpec declares an attribute of a node or mark type.
type AttributeSpec struct {
	// Default is the value used when none is given. Ignored when Required
	// or Generated is set.
	Default any

	// Required marks an attribute without a default. A node type with a
	// required attribute can never be created automatically.
	Required bool

	// Validate is a "|"-separated list of accepted value types: string,
	// number, boolean, null, object, array.
	Validate string

	// ValidateFunc is called with the attribute value when a node or mark
	// is checked. It runs after the Validate type check.
	ValidateFunc func(value any) error

	// ExcludeFromMarkup leaves the attribute out of markup comparisons, so
	// nodes and marks that differ only in this attribute count as the same.
	ExcludeFromMarkup bool

	// Generated fills the attribute from the schema's IDGenerator when no
	// value is given.
	Generated bool
}

// Attribute is a compiled attribute declaration.
type Attribute struct {
	Name    string
	Default any

	hasDefault bool
	generated  bool
	excluded   bool
	validate   []func(any) error
}

// HasDefault reports whether the attribute has a static default value.
func (a *Attribute) HasDefault() bool { return a.hasDefault }

// IsRequired reports whether a value must always be supplied.
func (a *Attribute) IsRequired() bool { return !a.hasDefault && !a.generated }

// IsGenerated reports whether missing values come from the IDGenerator.
func (a *Attribute) IsGenerated() bool { return a.generated }

// ExcludeFromMarkup reports whether markup comparisons ignore the attribute.
func (a *Attribute) ExcludeFromMarkup() bool { return a.excluded }

// attrTable is the attribute set of a type, ordered by name.
type attrTable struct {
	list   []*Attribute
	byName map[string]*Attribute
}

func (t *attrTable) get(name string) *Attribute {
	if t == nil || t.byName == nil {
		return nil
	}
	return t.byName[name]
}

func (t *attrTable) hasRequired() bool {
	for _, a := range t.list {
		if a.IsRequired() {
			return true
		}
	}
	return false
}

func (t *attrTable) hasExcluded() bool {
	for _, a := range t.list {
		if a.excluded {
			return true
		}
	}
	return false
}

// typeNames accepted by AttributeSpec.Validate.
var validTypeNames = map[string]bool{
	"string":  true,
	"number":  true,
	"boolean": true,
	"null":    true,
	"object":  true,
	"array":   true,
}

func initAttrs(typeName string, specs map[string]AttributeSpec) (*attrTable, error) {
	t := &attrTable{byName: make(map[string]*Attribute, len(specs))}
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := specs[name]
		a := &Attribute{
			Name:       name,
			hasDefault: !spec.Required && !spec.Generated,
			generated:  spec.Generated,
			excluded:   spec.ExcludeFromMarkup,
		}
		if a.hasDefault {
			a.Default = spec.Default
		}
		if spec.Validate != "" {
			types := strings.Split(spec.Validate, "|")
			for _, tn := range types {
				if !validTypeNames[tn] {
					return nil, attributeError("unknown type %q in validator of attribute %s on type %s", tn, name, typeName)
				}
			}
			a.validate = append(a.validate, validateType(typeName, name, types))
		}
		if spec.ValidateFunc != nil {
			a.validate = append(a.validate, spec.ValidateFunc)
		}
		t.list = append(t.list, a)
		t.byName[name] = a
	}
	return t, nil
}

// defaultAttrs returns the attribute values used when none are given, or nil
// when some attribute has no static default.
func defaultAttrs(t *attrTable) Attrs {
	defaults := make(Attrs, len(t.list))
	for _, a := range t.list {
		if !a.hasDefault {
			return nil
		}
		defaults[a.Name] = a.Default
	}
	return defaults
}

func computeAttrs(t *attrTable, value Attrs, gen IDGenerator) (Attrs, error) {
	built := make(Attrs, len(t.list))
	for _, a := range t.list {
		given, ok := value[a.Name]
		if !ok {
			switch {
			case a.hasDefault:
				given = a.Default
			case a.generated && gen != nil:
				given = gen.NewID()
			default:
				return nil, attributeError("No value supplied for attribute %s", a.Name)
			}
		}
		built[a.Name] = given
	}
	return built, nil
}

func checkAttrNames(t *attrTable, values Attrs, kind, typeName string) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if t.get(name) == nil {
			return attributeError("Unsupported attribute %s for %s of type %s", name, kind, typeName)
		}
	}
	return nil
}

func checkAttrs(t *attrTable, values Attrs, kind, typeName string) error {
	if err := checkAttrNames(t, values, kind, typeName); err != nil {
		return err
	}
	for _, a := range t.list {
		for _, validate := range a.validate {
			if err := validate(values[a.Name]); err != nil {
				return &Error{Kind: ErrAttribute, Msg: fmt.Sprintf("Invalid value for attribute %s on %s of type %s", a.Name, kind, typeName), Err: err}
			}
		}
	}
	return nil
}

func validateType(typeName, attrName string, types []string) func(any) error {
	return func(value any) error {
		name := valueTypeName(value)
		for _, t := range types {
			if t == name || (t == "object" && name == "array") {
				return nil
			}
		}
		return fmt.Errorf("expected value of type %s for attribute %s on type %s, got %s",
			strings.Join(types, ","), attrName, typeName, name)
	}
}

func valueTypeName(value any) string {
	if value == nil {
		return "null"
	}
	if _, ok := toFloat(value); ok {
		return "number"
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// compareDeep reports whether two attribute values are structurally equal.
// Numbers compare by value regardless of their Go type, so values survive a
// JSON round trip.
func compareDeep(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Slice, reflect.Array:
		if vb.Kind() != reflect.Slice && vb.Kind() != reflect.Array {
			return false
		}
		if va.Len() != vb.Len() {
			return false
		}
		for i := 0; i < va.Len(); i++ {
			if !compareDeep(va.Index(i).Interface(), vb.Index(i).Interface()) {
				return false
			}
		}
		return true
	case reflect.Map:
		if vb.Kind() != reflect.Map || va.Len() != vb.Len() || va.Type().Key() != vb.Type().Key() {
			return false
		}
		iter := va.MapRange()
		for iter.Next() {
			other := vb.MapIndex(iter.Key())
			if !other.IsValid() || !compareDeep(iter.Value().Interface(), other.Interface()) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// attrsEqual compares two attribute sets, skipping attributes that t
// excludes from markup comparison.
func attrsEqual(t *attrTable, a, b Attrs) bool {
	if t == nil || !t.hasExcluded() {
		if len(a) != len(b) {
			return false
		}
		for k, va := range a {
			vb, ok := b[k]
			if !ok || !compareDeep(va, vb) {
				return false
			}
		}
		return true
	}
	for k, va := range a {
		if attr := t.get(k); attr != nil && attr.excluded {
			continue
		}
		vb, ok := b[k]
		if !ok || !compareDeep(va, vb) {
			return false
		}
	}
	for k := range b {
		if attr := t.get(k); attr != nil && attr.excluded {
			continue
		}
		if _, ok := a[k]; !ok {
			return false
		}
	}
	return true
}
