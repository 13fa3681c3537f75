package formgen

import (
	"github.com/goliatone/go-formdescriptor/internal/dispatch"
	"github.com/goliatone/go-formdescriptor/pkg/descriptor"
	"github.com/goliatone/go-formdescriptor/pkg/schema"
)

const actionColumnID = "actionSearch"

func newControlDispatcher() *dispatch.Dispatcher[*controlContext] {
	d := dispatch.New[*controlContext]()

	dispatch.On(d, func(c *controlContext, tag schema.Properties) {
		for _, prop := range tag.Items {
			c.control.AddProperty(prop.Name, prop.Value)
		}
	})
	dispatch.On(d, func(c *controlContext, tag schema.TypeOverride) {
		c.control.Type = tag.Type
	})
	dispatch.On(d, onChildren)
	dispatch.On(d, onEnumOptions)

	dispatch.On(d, func(c *controlContext, _ schema.Required) { c.required() })
	dispatch.On(d, func(c *controlContext, _ schema.NotEmpty) { c.required() })
	dispatch.On(d, func(c *controlContext, _ schema.NotBlank) { c.required() })
	dispatch.On(d, func(c *controlContext, _ schema.Email) {
		c.validation(descriptor.ValidationEmail, true, false)
	})
	dispatch.On(d, func(c *controlContext, tag schema.Min) {
		c.validation(descriptor.ValidationMin, tag.Value, true)
	})
	dispatch.On(d, func(c *controlContext, tag schema.Max) {
		c.validation(descriptor.ValidationMax, tag.Value, true)
	})
	dispatch.On(d, func(c *controlContext, tag schema.Size) {
		if tag.Max > 0 {
			c.validation(descriptor.ValidationMaxLength, tag.Max, true)
		}
		if tag.Min > 0 {
			c.validation(descriptor.ValidationMinLength, tag.Min, true)
		}
	})
	dispatch.On(d, func(c *controlContext, tag schema.Pattern) {
		c.validation(descriptor.ValidationPattern, tag.Regexp, true)
	})

	dispatch.On(d, onAutocomplete)
	dispatch.On(d, onSearch)
	return d
}

// required appends a single required rule; required, notempty and notblank
// all collapse onto it.
func (c *controlContext) required() {
	for _, v := range c.control.Validations {
		if v.Name == descriptor.ValidationRequired {
			return
		}
	}
	c.validation(descriptor.ValidationRequired, true, false)
}

// validation appends a rule whose message key is <namespace>.<field>.<kind>.
// Constrained rules pass their value as the message parameter.
func (c *controlContext) validation(kind descriptor.ValidationKind, value any, parameterized bool) {
	var params []any
	if parameterized {
		params = []any{value}
	}
	c.control.Validations = append(c.control.Validations, descriptor.ValidationDescriptor{
		Name:    kind,
		Value:   value,
		Message: c.session.message(c.key(kind), params...),
	})
}

func onChildren(c *controlContext, tag schema.Children) {
	c.control.Type = descriptor.ControlArrayOfControls
	c.control.Children = c.session.nested(c.field, tag.Model)
	if len(tag.TitleKeys) > 0 {
		c.control.KeysAsTitle = append([]string(nil), tag.TitleKeys...)
	}
}

func onEnumOptions(c *controlContext, tag schema.EnumOptions) {
	c.control.Type = descriptor.ControlSelect
	options := make([]descriptor.NameValuePair, 0, len(tag.Enum.Constants))
	for _, constant := range tag.Enum.Constants {
		options = append(options, descriptor.NameValuePair{
			Key:   constant,
			Value: c.session.message(messageKey(tag.Enum.QualifiedName, constant)),
		})
	}
	c.control.Options = options
}

func onAutocomplete(c *controlContext, tag schema.Autocomplete) {
	c.control.Type = descriptor.ControlAutocomplete
	search := &descriptor.SearchDescriptor{
		Endpoint:   tag.Endpoint,
		DisplayKey: tag.DisplayField,
		Filters:    c.session.nested(c.field, tag.Filter),
	}
	for _, param := range tag.Params {
		search.DefaultParams = append(search.DefaultParams, descriptor.NameValuePair{Key: param.Name, Value: param.Value})
	}
	c.control.Search = search
}

func onSearch(c *controlContext, tag schema.Search) {
	c.control.Type = descriptor.ControlSearch
	paginated, loadOnInit := true, false
	search := &descriptor.SearchDescriptor{
		Endpoint:   tag.Endpoint,
		Paginated:  &paginated,
		LoadOnInit: &loadOnInit,
		Filters:    c.session.nested(c.field, tag.Form),
		Endpoints:  initEndpoints(tag.Form),
	}
	if tag.View != nil {
		search.Title = c.session.message(messageKey(tag.View.Namespace, "title"))
		for _, field := range tag.View.Fields {
			search.Columns = append(search.Columns, descriptor.ColumnDescriptor{
				ID:    field.Name,
				Label: c.session.message(messageKey(tag.View.Namespace, field.Name, "label")),
			})
		}
	}
	search.Columns = append(search.Columns, descriptor.ColumnDescriptor{
		ID:    actionColumnID,
		Label: c.session.message(keyActionsLabel),
		Actions: []descriptor.ActionDescriptor{{
			Label:  c.session.message(keySelectionLabel),
			Action: descriptor.ActionSelect,
		}},
	})
	c.control.Search = search
}
