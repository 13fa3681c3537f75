package schema

import "strings"

// Kind is the simplified declared type of a model field. The control builder
// infers a base control type from it before tags refine the result.
type Kind string

const (
	KindString   Kind = "string"
	KindInteger  Kind = "integer"
	KindNumber   Kind = "number"
	KindBoolean  Kind = "boolean"
	KindTemporal Kind = "temporal"
	KindEnum     Kind = "enum"
	KindSlice    Kind = "slice"
	KindStruct   Kind = "struct"
	KindOther    Kind = "other"
)

// Numeric reports whether the kind holds integer or floating point values.
func (k Kind) Numeric() bool {
	return k == KindInteger || k == KindNumber
}

// Model is the introspected field schema of a model type. Fields are kept in
// the order captured when the schema was defined (struct declaration order or
// the explicit order of an OpenAPI document) so generation is deterministic.
type Model struct {
	// Name is the short type name, e.g. "UserCreate".
	Name string
	// Namespace prefixes every message key derived from this model.
	Namespace string
	// QualifiedName is "<Namespace>.<Name>" unless set explicitly.
	QualifiedName string
	Fields        []Field
	Groups        []Group
	Endpoints     []Endpoint
}

// Qualified returns the qualified name, deriving it from namespace and name
// when it was not set.
func (m *Model) Qualified() string {
	if m == nil {
		return ""
	}
	if m.QualifiedName != "" {
		return m.QualifiedName
	}
	if m.Namespace == "" {
		return m.Name
	}
	return m.Namespace + "." + m.Name
}

// Field returns the field with the supplied name.
func (m *Model) Field(name string) (Field, bool) {
	if m == nil {
		return Field{}, false
	}
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Field describes a single model field.
type Field struct {
	Name string
	Kind Kind
	Tags []Tag
}

// Has reports whether the field carries a tag of the given kind.
func (f Field) Has(kind TagKind) bool {
	for _, tag := range f.Tags {
		if tag != nil && tag.Kind() == kind {
			return true
		}
	}
	return false
}

// Group is a class-level named property group.
type Group struct {
	Name       string
	Properties []string
}

// Endpoint is a class-level named remote list-of-values source.
type Endpoint struct {
	Key string
	URL string
}

// Property is a free-form rendering hint attached to a field.
type Property struct {
	Name  string
	Value any
}

// Param is a default query parameter sent by lookup controls.
type Param struct {
	Name  string
	Value string
}

// ParseParams splits "name:value" pairs. Entries without a separator are kept
// with an empty value.
func ParseParams(raw []string) []Param {
	if len(raw) == 0 {
		return nil
	}
	params := make([]Param, 0, len(raw))
	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, value, _ := strings.Cut(entry, ":")
		params = append(params, Param{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)})
	}
	return params
}
