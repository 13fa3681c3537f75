package introspect

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-formdescriptor/pkg/schema"
)

var timeType = reflect.TypeOf(time.Time{})

// GroupsProvider declares the class-level property groups of a model.
type GroupsProvider interface {
	FormGroups() []schema.Group
}

// EndpointsProvider declares the class-level list-of-values endpoints of a
// model.
type EndpointsProvider interface {
	FormEndpoints() []schema.Endpoint
}

// NamespaceProvider overrides the message-key namespace of a model or enum
// type. The default is the Go package name.
type NamespaceProvider interface {
	FormNamespace() string
}

// Enumerator lists the constants of an enum-like type, in display order.
type Enumerator interface {
	FormOptions() []string
}

// Option customises an Introspector.
type Option func(*Introspector)

// WithRegistry sets the registry used to resolve models referenced by name in
// search and autocomplete tags.
func WithRegistry(r *Registry) Option {
	return func(i *Introspector) {
		if r != nil {
			i.registry = r
		}
	}
}

// Introspector turns Go struct types into schema models. Models are cached per
// type; self-referencing types resolve to the same *schema.Model, so the model
// graph may contain cycles and consumers must guard their recursion.
//
// An Introspector is safe for concurrent use.
type Introspector struct {
	mu       sync.Mutex
	registry *Registry
	cache    map[reflect.Type]*schema.Model
}

// New constructs an Introspector.
func New(opts ...Option) *Introspector {
	i := &Introspector{
		registry: NewRegistry(),
		cache:    make(map[reflect.Type]*schema.Model),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(i)
	}
	return i
}

var defaultIntrospector = New()

// Default returns the package-level introspector used by ModelOf and Of.
func Default() *Introspector {
	return defaultIntrospector
}

// ModelOf introspects v (a struct value, pointer or reflect.Type) with the
// default introspector.
func ModelOf(v any) (*schema.Model, error) {
	return defaultIntrospector.ModelOf(v)
}

// Of introspects T with the default introspector.
func Of[T any]() (*schema.Model, error) {
	return defaultIntrospector.ModelOf(reflect.TypeOf((*T)(nil)).Elem())
}

// MustModelOf panics when v cannot be introspected.
func MustModelOf(v any) *schema.Model {
	model, err := ModelOf(v)
	if err != nil {
		panic(err)
	}
	return model
}

// Registry returns the registry backing named model references.
func (i *Introspector) Registry() *Registry {
	return i.registry
}

// ModelOf introspects v (a struct value, pointer or reflect.Type).
func (i *Introspector) ModelOf(v any) (*schema.Model, error) {
	t, err := structType(v)
	if err != nil {
		return nil, err
	}
	i.mu.Lock()
	defer i.mu.Unlock()

	s := &session{owner: i}
	model, err := s.model(t)
	if err != nil {
		for _, created := range s.created {
			delete(i.cache, created)
		}
		return nil, err
	}
	return model, nil
}

// Model introspects the type registered under name. It makes the
// introspector a schema.ModelSource.
func (i *Introspector) Model(name string) (*schema.Model, error) {
	t, ok := i.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("introspect: %w %q", schema.ErrUnknownModel, name)
	}
	return i.ModelOf(t)
}

// Names lists the registered model names.
func (i *Introspector) Names() []string {
	return i.registry.Names()
}

// session tracks the models created by one ModelOf call so a failure does not
// leave half-built entries in the cache.
type session struct {
	owner   *Introspector
	created []reflect.Type
}

func (s *session) model(t reflect.Type) (*schema.Model, error) {
	if cached, ok := s.owner.cache[t]; ok {
		return cached, nil
	}

	model := &schema.Model{
		Name:      t.Name(),
		Namespace: namespaceOf(t),
	}
	s.owner.cache[t] = model
	s.created = append(s.created, t)

	seen := make(map[string]struct{})
	fields, err := s.fields(t, model, seen, map[reflect.Type]bool{t: true})
	if err != nil {
		return nil, fmt.Errorf("introspect: %s: %w", t, err)
	}
	model.Fields = fields

	if provider, ok := implementer[GroupsProvider](t); ok {
		model.Groups = append([]schema.Group(nil), provider.FormGroups()...)
	}
	if provider, ok := implementer[EndpointsProvider](t); ok {
		model.Endpoints = append([]schema.Endpoint(nil), provider.FormEndpoints()...)
	}
	return model, nil
}

// fields flattens t into owner's field list. path holds the structs being
// flattened so that a type embedding itself is rejected instead of recursing.
func (s *session) fields(t reflect.Type, owner *schema.Model, seen map[string]struct{}, path map[reflect.Type]bool) ([]schema.Field, error) {
	var fields []schema.Field
	for idx := 0; idx < t.NumField(); idx++ {
		sf := t.Field(idx)
		if embedded, ok := flattenable(sf); ok {
			if path[embedded] {
				return nil, fmt.Errorf("embedded field %s: %s embeds itself", sf.Name, embedded)
			}
			path[embedded] = true
			nested, err := s.fields(embedded, owner, seen, path)
			delete(path, embedded)
			if err != nil {
				return nil, err
			}
			fields = append(fields, nested...)
			continue
		}

		name, skip := FieldName(sf)
		if skip {
			continue
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate field name %q", name)
		}
		seen[name] = struct{}{}

		tags, err := s.tags(sf, owner, name)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", sf.Name, err)
		}
		fields = append(fields, schema.Field{
			Name: name,
			Kind: KindOf(sf.Type),
			Tags: tags,
		})
	}
	return fields, nil
}

func (s *session) tags(sf reflect.StructField, owner *schema.Model, name string) ([]schema.Tag, error) {
	var (
		tags          []schema.Tag
		propertiesIdx = -1
		childrenIdx   = -1
		titleKeys     []string
	)

	for _, item := range parseFormTag(sf.Tag.Get(tagForm)) {
		switch item.key {
		case itemRequired:
			tags = append(tags, schema.Required{})
		case itemNotEmpty:
			tags = append(tags, schema.NotEmpty{})
		case itemNotBlank:
			tags = append(tags, schema.NotBlank{})
		case itemEmail:
			tags = append(tags, schema.Email{})
		case itemCreateOnly:
			tags = append(tags, schema.CreateOnly{})
		case itemMin:
			value, err := parseBound(item)
			if err != nil {
				return nil, err
			}
			tags = append(tags, schema.Min{Value: value})
		case itemMax:
			value, err := parseBound(item)
			if err != nil {
				return nil, err
			}
			tags = append(tags, schema.Max{Value: value})
		case itemSize:
			minValue, maxValue, err := parseSize(item)
			if err != nil {
				return nil, err
			}
			tags = append(tags, schema.Size{Min: minValue, Max: maxValue})
		case itemType:
			if item.value == "" {
				return nil, fmt.Errorf("type requires a value")
			}
			tags = append(tags, schema.TypeOverride{Type: item.value})
		case itemProp:
			propName, propValue, _ := strings.Cut(item.value, ":")
			prop := schema.Property{Name: strings.TrimSpace(propName), Value: strings.TrimSpace(propValue)}
			if prop.Name == "" {
				return nil, fmt.Errorf("prop requires name:value")
			}
			if propertiesIdx < 0 {
				propertiesIdx = len(tags)
				tags = append(tags, schema.Properties{})
			}
			props := tags[propertiesIdx].(schema.Properties)
			props.Items = append(props.Items, prop)
			tags[propertiesIdx] = props
		case itemOptions:
			enum, err := enumOf(sf.Type, item, owner, name)
			if err != nil {
				return nil, err
			}
			tags = append(tags, schema.EnumOptions{Enum: enum})
		case itemChildren:
			elem := elementStruct(sf.Type)
			if elem == nil {
				return nil, fmt.Errorf("children requires a struct or slice of structs, got %s", sf.Type)
			}
			nested, err := s.model(elem)
			if err != nil {
				return nil, err
			}
			childrenIdx = len(tags)
			tags = append(tags, schema.Children{Model: nested})
		case itemTitleKeys:
			titleKeys = splitList(item.value)
		}
	}
	if childrenIdx >= 0 && len(titleKeys) > 0 {
		children := tags[childrenIdx].(schema.Children)
		children.TitleKeys = titleKeys
		tags[childrenIdx] = children
	}

	if pattern := sf.Tag.Get(tagPattern); pattern != "" {
		tags = append(tags, schema.Pattern{Regexp: pattern})
	}

	if raw, ok := sf.Tag.Lookup(tagAutocomplete); ok {
		tag, err := s.autocomplete(raw)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	if raw, ok := sf.Tag.Lookup(tagSearch); ok {
		tag, err := s.search(raw)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

func (s *session) autocomplete(raw string) (schema.Autocomplete, error) {
	attrs := parseAttributes(raw)
	tag := schema.Autocomplete{
		Endpoint:     attrs["endpoint"],
		DisplayField: attrs["display"],
		Params:       schema.ParseParams(splitList(attrs["params"])),
	}
	if tag.Endpoint == "" {
		return schema.Autocomplete{}, fmt.Errorf("autocomplete requires an endpoint")
	}
	if filter := attrs["filter"]; filter != "" {
		model, err := s.named(filter)
		if err != nil {
			return schema.Autocomplete{}, err
		}
		tag.Filter = model
	}
	return tag, nil
}

func (s *session) search(raw string) (schema.Search, error) {
	attrs := parseAttributes(raw)
	tag := schema.Search{Endpoint: attrs["endpoint"]}
	if tag.Endpoint == "" {
		return schema.Search{}, fmt.Errorf("search requires an endpoint")
	}
	if attrs["view"] == "" {
		return schema.Search{}, fmt.Errorf("search requires a view model")
	}
	view, err := s.named(attrs["view"])
	if err != nil {
		return schema.Search{}, err
	}
	tag.View = view
	if formName := attrs["form"]; formName != "" {
		form, err := s.named(formName)
		if err != nil {
			return schema.Search{}, err
		}
		tag.Form = form
	}
	return tag, nil
}

func (s *session) named(name string) (*schema.Model, error) {
	t, ok := s.owner.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("model %q is not registered", name)
	}
	return s.model(t)
}

// KindOf maps a Go type onto the schema kind vocabulary.
func KindOf(t reflect.Type) schema.Kind {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return schema.KindTemporal
	}
	if _, ok := implementer[Enumerator](t); ok {
		return schema.KindEnum
	}
	switch t.Kind() {
	case reflect.Bool:
		return schema.KindBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return schema.KindInteger
	case reflect.Float32, reflect.Float64:
		return schema.KindNumber
	case reflect.String:
		return schema.KindString
	case reflect.Slice, reflect.Array:
		return schema.KindSlice
	case reflect.Struct:
		return schema.KindStruct
	default:
		return schema.KindOther
	}
}

func enumOf(t reflect.Type, item tagItem, owner *schema.Model, field string) (schema.Enum, error) {
	if inline := splitList(item.value); len(inline) > 0 {
		return schema.Enum{
			QualifiedName: owner.Qualified() + "." + field,
			Constants:     inline,
		}, nil
	}
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}
	enumerator, ok := implementer[Enumerator](t)
	if !ok {
		return schema.Enum{}, fmt.Errorf("options requires a type implementing FormOptions or an inline list, got %s", t)
	}
	return schema.Enum{
		QualifiedName: qualifiedName(t),
		Constants:     append([]string(nil), enumerator.FormOptions()...),
	}, nil
}

func elementStruct(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

// flattenable reports whether sf is an anonymous struct that should be
// inlined, returning the struct type.
func flattenable(sf reflect.StructField) (reflect.Type, bool) {
	if !sf.Anonymous {
		return nil, false
	}
	if jsonTag := sf.Tag.Get("json"); jsonTag != "" {
		if name, _, _ := strings.Cut(jsonTag, ","); name != "" {
			return nil, false
		}
	}
	t := sf.Type
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t == timeType {
		return nil, false
	}
	return t, true
}

func namespaceOf(t reflect.Type) string {
	if provider, ok := implementer[NamespaceProvider](t); ok {
		if ns := strings.TrimSpace(provider.FormNamespace()); ns != "" {
			return ns
		}
	}
	if t.Name() == "" {
		return ""
	}
	pkg, _, found := strings.Cut(t.String(), ".")
	if !found {
		return ""
	}
	return pkg
}

func qualifiedName(t reflect.Type) string {
	ns := namespaceOf(t)
	if ns == "" {
		return t.Name()
	}
	return ns + "." + t.Name()
}

// implementer checks both value and pointer receivers of t for I.
func implementer[I any](t reflect.Type) (I, bool) {
	var zero I
	if t == nil {
		return zero, false
	}
	if v, ok := reflect.Zero(t).Interface().(I); ok {
		return v, true
	}
	if v, ok := reflect.New(t).Interface().(I); ok {
		return v, true
	}
	return zero, false
}
