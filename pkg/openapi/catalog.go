package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formdescriptor/pkg/schema"
)

const componentPrefix = "#/components/schemas/"

var (
	// ErrNoModels reports a document without component schemas.
	ErrNoModels = errors.New("openapi: document does not declare component schemas")
	// ErrUnknownModel reports a lookup for a component that does not exist.
	ErrUnknownModel = schema.ErrUnknownModel
)

// CatalogOption customises catalog construction.
type CatalogOption func(*catalogOptions)

type catalogOptions struct {
	namespace string
	validate  bool
}

// WithNamespace sets the namespace of components that do not declare one in
// their x-form extension.
func WithNamespace(namespace string) CatalogOption {
	return func(opts *catalogOptions) {
		opts.namespace = strings.TrimSpace(namespace)
	}
}

// WithValidation runs kin-openapi document validation before building models.
func WithValidation() CatalogOption {
	return func(opts *catalogOptions) {
		opts.validate = true
	}
}

// Catalog holds the models built from the component schemas of one document.
// It is immutable once constructed.
type Catalog struct {
	models map[string]*schema.Model
	names  []string
}

// Load fetches src with loader and builds its catalog.
func Load(ctx context.Context, loader *Loader, src Source, opts ...CatalogOption) (*Catalog, error) {
	if loader == nil {
		loader = NewLoader()
	}
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return NewCatalog(ctx, doc, opts...)
}

// NewCatalog parses doc with kin-openapi and converts every component schema
// into a schema.Model. Components may reference each other, including
// themselves, through $ref.
func NewCatalog(ctx context.Context, doc Document, opts ...CatalogOption) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := catalogOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load %s: %w", doc.Location(), err)
	}
	if cfg.validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate %s: %w", doc.Location(), err)
		}
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, ErrNoModels
	}

	b := &builder{
		namespace: cfg.namespace,
		schemas:   spec.Components.Schemas,
		models:    make(map[string]*schema.Model, len(spec.Components.Schemas)),
	}
	for name := range b.schemas {
		b.names = append(b.names, name)
	}
	sort.Strings(b.names)

	for _, name := range b.names {
		if err := b.declare(name); err != nil {
			return nil, err
		}
	}
	for _, name := range b.names {
		if err := b.populate(name); err != nil {
			return nil, fmt.Errorf("openapi: component %q: %w", name, err)
		}
	}

	return &Catalog{models: b.models, names: b.names}, nil
}

// Model returns the model built from the named component.
func (c *Catalog) Model(name string) (*schema.Model, error) {
	if c != nil {
		if model, ok := c.models[name]; ok {
			return model, nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownModel, name)
}

// Names lists component names alphabetically.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.names...)
}

type builder struct {
	namespace string
	schemas   openapi3.Schemas
	models    map[string]*schema.Model
	names     []string
}

// declare registers an empty model per component so references resolve
// before fields are populated.
func (b *builder) declare(name string) error {
	ref := b.schemas[name]
	if ref == nil || ref.Value == nil {
		return fmt.Errorf("openapi: component %q has no schema", name)
	}
	ext := modelExtension{}
	if _, err := decodeExtension(ref.Value.Extensions, &ext); err != nil {
		return fmt.Errorf("openapi: component %q: %w", name, err)
	}
	namespace := strings.TrimSpace(ext.Namespace)
	if namespace == "" {
		namespace = b.namespace
	}
	b.models[name] = &schema.Model{Name: name, Namespace: namespace}
	return nil
}

func (b *builder) populate(name string) error {
	src := b.schemas[name].Value
	model := b.models[name]

	ext := modelExtension{}
	if _, err := decodeExtension(src.Extensions, &ext); err != nil {
		return err
	}
	for _, group := range ext.Groups {
		model.Groups = append(model.Groups, schema.Group{
			Name:       group.Name,
			Properties: append([]string(nil), group.Properties...),
		})
	}
	for _, endpoint := range ext.Endpoints {
		model.Endpoints = append(model.Endpoints, schema.Endpoint{Key: endpoint.Key, URL: endpoint.URL})
	}

	required := make(map[string]struct{}, len(src.Required))
	for _, prop := range src.Required {
		required[prop] = struct{}{}
	}

	for _, prop := range propertyOrder(src.Properties, ext.Order) {
		field, err := b.field(model, prop, src.Properties[prop], required)
		if err != nil {
			return fmt.Errorf("property %q: %w", prop, err)
		}
		model.Fields = append(model.Fields, field)
	}
	return nil
}

// propertyOrder lists explicitly ordered properties first, then the rest
// alphabetically.
func propertyOrder(props openapi3.Schemas, explicit []string) []string {
	seen := make(map[string]struct{}, len(props))
	out := make([]string, 0, len(props))
	for _, name := range explicit {
		if _, ok := props[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	rest := make([]string, 0, len(props)-len(out))
	for name := range props {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func (b *builder) field(owner *schema.Model, name string, ref *openapi3.SchemaRef, required map[string]struct{}) (schema.Field, error) {
	field := schema.Field{Name: name, Kind: schema.KindOther}
	if ref == nil || ref.Value == nil {
		return field, nil
	}
	src := ref.Value
	field.Kind = kindOf(ref)

	ext := fieldExtension{}
	if _, err := decodeExtension(src.Extensions, &ext); err != nil {
		return schema.Field{}, err
	}

	if ext.Type != "" {
		field.Tags = append(field.Tags, schema.TypeOverride{Type: ext.Type})
	}
	if len(ext.Properties) > 0 {
		props := schema.Properties{}
		for _, prop := range ext.Properties {
			if prop.Name == "" {
				return schema.Field{}, errors.New("x-form property requires a name")
			}
			props.Items = append(props.Items, schema.Property{Name: prop.Name, Value: prop.Value})
		}
		field.Tags = append(field.Tags, props)
	}
	if ext.Children {
		nested, err := b.childModel(ref)
		if err != nil {
			return schema.Field{}, err
		}
		field.Tags = append(field.Tags, schema.Children{Model: nested, TitleKeys: append([]string(nil), ext.TitleKeys...)})
	}
	if len(src.Enum) > 0 {
		field.Tags = append(field.Tags, schema.EnumOptions{Enum: b.enum(owner, name, ref, ext.Enum)})
	}

	if _, ok := required[name]; ok {
		field.Tags = append(field.Tags, schema.Required{})
	}
	if ext.NotEmpty {
		field.Tags = append(field.Tags, schema.NotEmpty{})
	}
	if ext.NotBlank {
		field.Tags = append(field.Tags, schema.NotBlank{})
	}
	if src.Format == "email" {
		field.Tags = append(field.Tags, schema.Email{})
	}
	if src.Min != nil {
		field.Tags = append(field.Tags, schema.Min{Value: int64(*src.Min)})
	}
	if src.Max != nil {
		field.Tags = append(field.Tags, schema.Max{Value: int64(*src.Max)})
	}
	if src.MinLength > 0 || src.MaxLength != nil {
		size := schema.Size{Min: int(src.MinLength)}
		if src.MaxLength != nil {
			size.Max = int(*src.MaxLength)
		}
		field.Tags = append(field.Tags, size)
	}
	if src.Pattern != "" {
		field.Tags = append(field.Tags, schema.Pattern{Regexp: src.Pattern})
	}

	if ext.Autocomplete != nil {
		tag, err := b.autocomplete(*ext.Autocomplete)
		if err != nil {
			return schema.Field{}, err
		}
		field.Tags = append(field.Tags, tag)
	}
	if ext.Search != nil {
		tag, err := b.search(*ext.Search)
		if err != nil {
			return schema.Field{}, err
		}
		field.Tags = append(field.Tags, tag)
	}
	if ext.CreateOnly {
		field.Tags = append(field.Tags, schema.CreateOnly{})
	}
	return field, nil
}

func (b *builder) childModel(ref *openapi3.SchemaRef) (*schema.Model, error) {
	target := ref
	if schemaType(ref.Value.Type) == openapi3.TypeArray {
		target = ref.Value.Items
	}
	if target == nil {
		return nil, errors.New("children requires items")
	}
	name, ok := componentName(target.Ref)
	if !ok {
		return nil, errors.New("children must reference a component schema")
	}
	return b.lookup(name)
}

func (b *builder) enum(owner *schema.Model, field string, ref *openapi3.SchemaRef, override string) schema.Enum {
	enum := schema.Enum{Constants: make([]string, 0, len(ref.Value.Enum))}
	for _, value := range ref.Value.Enum {
		enum.Constants = append(enum.Constants, fmt.Sprint(value))
	}
	switch {
	case override != "":
		enum.QualifiedName = override
	default:
		if component, ok := componentName(ref.Ref); ok {
			enum.QualifiedName = b.qualified(component)
		} else {
			enum.QualifiedName = owner.Qualified() + "." + field
		}
	}
	return enum
}

func (b *builder) qualified(component string) string {
	if model, ok := b.models[component]; ok {
		return model.Qualified()
	}
	if b.namespace == "" {
		return component
	}
	return b.namespace + "." + component
}

func (b *builder) autocomplete(ext autocompleteExtension) (schema.Autocomplete, error) {
	if ext.Endpoint == "" {
		return schema.Autocomplete{}, errors.New("autocomplete requires an endpoint")
	}
	tag := schema.Autocomplete{
		Endpoint:     ext.Endpoint,
		DisplayField: ext.Display,
		Params:       schema.ParseParams(ext.Params),
	}
	if ext.Filter != "" {
		filter, err := b.lookup(ext.Filter)
		if err != nil {
			return schema.Autocomplete{}, err
		}
		tag.Filter = filter
	}
	return tag, nil
}

func (b *builder) search(ext searchExtension) (schema.Search, error) {
	if ext.Endpoint == "" {
		return schema.Search{}, errors.New("search requires an endpoint")
	}
	if ext.View == "" {
		return schema.Search{}, errors.New("search requires a view model")
	}
	view, err := b.lookup(ext.View)
	if err != nil {
		return schema.Search{}, err
	}
	tag := schema.Search{Endpoint: ext.Endpoint, View: view}
	if ext.Form != "" {
		form, err := b.lookup(ext.Form)
		if err != nil {
			return schema.Search{}, err
		}
		tag.Form = form
	}
	return tag, nil
}

func (b *builder) lookup(name string) (*schema.Model, error) {
	if model, ok := b.models[name]; ok {
		return model, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownModel, name)
}

func kindOf(ref *openapi3.SchemaRef) schema.Kind {
	src := ref.Value
	if len(src.Enum) > 0 {
		return schema.KindEnum
	}
	switch schemaType(src.Type) {
	case openapi3.TypeString:
		if src.Format == "date" || src.Format == "date-time" {
			return schema.KindTemporal
		}
		return schema.KindString
	case openapi3.TypeInteger:
		return schema.KindInteger
	case openapi3.TypeNumber:
		return schema.KindNumber
	case openapi3.TypeBoolean:
		return schema.KindBoolean
	case openapi3.TypeArray:
		return schema.KindSlice
	case openapi3.TypeObject:
		return schema.KindStruct
	}
	if _, ok := componentName(ref.Ref); ok {
		return schema.KindStruct
	}
	return schema.KindOther
}

func schemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, value := range types.Slice() {
		if value != openapi3.TypeNull {
			return value
		}
	}
	return ""
}

func componentName(ref string) (string, bool) {
	if !strings.HasPrefix(ref, componentPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(ref, componentPrefix)
	return name, name != ""
}
