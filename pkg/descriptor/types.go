package descriptor

// ControlType is the closed vocabulary of control kinds understood by client
// renderers. Type overrides may still introduce other values.
type ControlType = string

const (
	ControlCheckbox        ControlType = "checkbox"
	ControlDatepicker      ControlType = "datepicker"
	ControlInput           ControlType = "input"
	ControlSelect          ControlType = "select"
	ControlSlider          ControlType = "slider"
	ControlTextarea        ControlType = "textarea"
	ControlArrayOfControls ControlType = "arrayOfControls"
	ControlSearch          ControlType = "search"
	ControlAutocomplete    ControlType = "autocomplete"
)

// ValidationKind is the fixed vocabulary of validation rules.
type ValidationKind = string

const (
	ValidationRequired  ValidationKind = "required"
	ValidationMinLength ValidationKind = "minlength"
	ValidationMaxLength ValidationKind = "maxlength"
	ValidationMin       ValidationKind = "min"
	ValidationMax       ValidationKind = "max"
	ValidationPattern   ValidationKind = "pattern"
	ValidationEmail     ValidationKind = "email"
)

// ActionSelect is the only action offered by search result tables.
const ActionSelect = "select"

// FormDescriptor is the root of the generated tree. It is built once per
// generation call and owned by the caller afterwards.
type FormDescriptor struct {
	Title          string                  `json:"title,omitempty"`
	Controls       []FormControlDescriptor `json:"controls"`
	Groups         []FormGroupDescriptor   `json:"groups,omitempty"`
	Endpoints      []EndpointDescriptor    `json:"lovs,omitempty"`
	Endpoint       string                  `json:"endpoint"`
	Method         string                  `json:"method"`
	Multipart      bool                    `json:"multipart"`
	SuccessURL     string                  `json:"successUrl,omitempty"`
	SubmitLabel    string                  `json:"submitLabel,omitempty"`
	CancelLabel    string                  `json:"cancelLabel,omitempty"`
	SuccessMessage string                  `json:"successMessage,omitempty"`
	UpdateTable    bool                    `json:"updateTable"`
}

// ControlNames returns the names of the top-level controls in order.
func (f *FormDescriptor) ControlNames() []string {
	if f == nil {
		return nil
	}
	names := make([]string, 0, len(f.Controls))
	for _, control := range f.Controls {
		names = append(names, control.Name)
	}
	return names
}

// Control returns the top-level control with the supplied name.
func (f *FormDescriptor) Control(name string) (*FormControlDescriptor, bool) {
	if f == nil {
		return nil, false
	}
	for i := range f.Controls {
		if f.Controls[i].Name == name {
			return &f.Controls[i], true
		}
	}
	return nil, false
}

// FormControlDescriptor describes one editable control.
type FormControlDescriptor struct {
	Name        string                  `json:"controlName"`
	Label       string                  `json:"controlLabel,omitempty"`
	Hint        string                  `json:"controlHint,omitempty"`
	Type        ControlType             `json:"controlType"`
	Value       *Value                  `json:"controlValue,omitempty"`
	Properties  []PropertyDescriptor    `json:"controlProperties"`
	Validations []ValidationDescriptor  `json:"controlValidations,omitempty"`
	Options     []NameValuePair         `json:"controlOptions,omitempty"`
	Children    []FormControlDescriptor `json:"controlChildren,omitempty"`
	KeysAsTitle []string                `json:"controlKeysAsTitle,omitempty"`
	Search      *SearchDescriptor       `json:"controlSearch,omitempty"`
}

// AddProperty appends a rendering hint.
func (c *FormControlDescriptor) AddProperty(name string, value any) {
	c.Properties = append(c.Properties, PropertyDescriptor{Name: name, Value: value})
}

// Property returns the first property with the supplied name.
func (c *FormControlDescriptor) Property(name string) (any, bool) {
	for _, prop := range c.Properties {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return nil, false
}

// SetValue marks the control as populated with v. A nil v is an explicit null.
func (c *FormControlDescriptor) SetValue(v any) {
	c.Value = &Value{Data: v}
}

// HasValue reports whether a value was produced for the control.
func (c *FormControlDescriptor) HasValue() bool {
	return c.Value != nil
}

// ValidationKinds lists the rule kinds in order.
func (c *FormControlDescriptor) ValidationKinds() []string {
	kinds := make([]string, 0, len(c.Validations))
	for _, v := range c.Validations {
		kinds = append(kinds, v.Name)
	}
	return kinds
}

// PropertyDescriptor is a name/value rendering hint.
type PropertyDescriptor struct {
	Name  string `json:"propertyName"`
	Value any    `json:"propertyValue"`
}

// ValidationDescriptor describes a rule the client should enforce.
type ValidationDescriptor struct {
	Name    ValidationKind `json:"validationName"`
	Value   any            `json:"validationValue,omitempty"`
	Message string         `json:"validationMessage,omitempty"`
}

// FormGroupDescriptor references controls by name.
type FormGroupDescriptor struct {
	Name string   `json:"name"`
	IDs  []string `json:"ids"`
}

// EndpointDescriptor is a named remote list-of-values source.
type EndpointDescriptor struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// NameValuePair is an option key with its localized label.
type NameValuePair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SearchDescriptor drives autocomplete and table-backed lookups.
type SearchDescriptor struct {
	Endpoint      string                  `json:"endpoint,omitempty"`
	DisplayKey    string                  `json:"displayKey,omitempty"`
	DefaultParams []NameValuePair         `json:"defaultParams,omitempty"`
	Filters       []FormControlDescriptor `json:"filters,omitempty"`
	Title         string                  `json:"title,omitempty"`
	Paginated     *bool                   `json:"paginated,omitempty"`
	LoadOnInit    *bool                   `json:"loadOnInit,omitempty"`
	Columns       []ColumnDescriptor      `json:"columns,omitempty"`
	Endpoints     []EndpointDescriptor    `json:"lovs,omitempty"`
}

// ColumnDescriptor is a result-table column.
type ColumnDescriptor struct {
	ID      string             `json:"id"`
	Label   string             `json:"label,omitempty"`
	Actions []ActionDescriptor `json:"actions,omitempty"`
}

// ActionDescriptor is a row action offered by a result column.
type ActionDescriptor struct {
	Label  string `json:"label,omitempty"`
	Action string `json:"action"`
}
