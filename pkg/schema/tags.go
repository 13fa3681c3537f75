package schema

// TagKind enumerates the field-level metadata tags understood by the engine.
// New tag kinds are added as new variants; handlers for existing kinds are not
// affected.
type TagKind string

const (
	TagTypeOverride TagKind = "type"
	TagProperties   TagKind = "properties"
	TagChildren     TagKind = "children"
	TagEnumOptions  TagKind = "options"
	TagRequired     TagKind = "required"
	TagNotEmpty     TagKind = "notempty"
	TagNotBlank     TagKind = "notblank"
	TagEmail        TagKind = "email"
	TagMin          TagKind = "min"
	TagMax          TagKind = "max"
	TagSize         TagKind = "size"
	TagPattern      TagKind = "pattern"
	TagAutocomplete TagKind = "autocomplete"
	TagSearch       TagKind = "search"
	TagCreateOnly   TagKind = "createonly"
)

// Tag is a declarative marker attached to a field. Each kind carries its own
// payload type.
type Tag interface {
	Kind() TagKind
}

// TypeOverride replaces the inferred control type.
type TypeOverride struct {
	Type string
}

// Properties injects free-form rendering hints.
type Properties struct {
	Items []Property
}

// Children expands a field into a repeatable list of nested controls.
type Children struct {
	Model     *Model
	TitleKeys []string
}

// Enum is a finite set of constants rendered as options.
type Enum struct {
	QualifiedName string
	Constants     []string
}

// EnumOptions turns a field into a select over the enum constants.
type EnumOptions struct {
	Enum Enum
}

type (
	Required   struct{}
	NotEmpty   struct{}
	NotBlank   struct{}
	Email      struct{}
	CreateOnly struct{}
)

// Min is an inclusive lower numeric bound.
type Min struct {
	Value int64
}

// Max is an inclusive upper numeric bound.
type Max struct {
	Value int64
}

// Size bounds the length of a value. Zero means "not declared".
type Size struct {
	Min int
	Max int
}

// Pattern constrains a value to a regular expression.
type Pattern struct {
	Regexp string
}

// Autocomplete wires a remote lookup with an optional filter form.
type Autocomplete struct {
	Endpoint     string
	DisplayField string
	Params       []Param
	Filter       *Model
}

// Search wires a table-backed lookup: Form drives the filter controls and View
// the result columns.
type Search struct {
	Endpoint string
	Form     *Model
	View     *Model
}

func (TypeOverride) Kind() TagKind { return TagTypeOverride }
func (Properties) Kind() TagKind   { return TagProperties }
func (Children) Kind() TagKind     { return TagChildren }
func (EnumOptions) Kind() TagKind  { return TagEnumOptions }
func (Required) Kind() TagKind     { return TagRequired }
func (NotEmpty) Kind() TagKind     { return TagNotEmpty }
func (NotBlank) Kind() TagKind     { return TagNotBlank }
func (Email) Kind() TagKind        { return TagEmail }
func (Min) Kind() TagKind          { return TagMin }
func (Max) Kind() TagKind          { return TagMax }
func (Size) Kind() TagKind         { return TagSize }
func (Pattern) Kind() TagKind      { return TagPattern }
func (Autocomplete) Kind() TagKind { return TagAutocomplete }
func (Search) Kind() TagKind       { return TagSearch }
func (CreateOnly) Kind() TagKind   { return TagCreateOnly }
