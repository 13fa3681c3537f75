package formgen

import (
	"fmt"
	"time"

	"github.com/goliatone/go-formdescriptor/pkg/descriptor"
	"github.com/goliatone/go-formdescriptor/pkg/schema"
)

const propertyType = "type"

// controlContext is what tag handlers see while a control is being built.
type controlContext struct {
	session *session
	model   *schema.Model
	field   schema.Field
	control *descriptor.FormControlDescriptor
}

func (c *controlContext) key(parts ...string) string {
	return messageKey(append([]string{c.model.Namespace, c.field.Name}, parts...)...)
}

// controls builds one control per eligible field of model, in field order.
// Create-only fields are skipped when an instance is present.
func (s *session) controls(model *schema.Model, instance any) []descriptor.FormControlDescriptor {
	s.path = append(s.path, model)
	defer func() { s.path = s.path[:len(s.path)-1] }()

	controls := make([]descriptor.FormControlDescriptor, 0, len(model.Fields))
	for _, field := range model.Fields {
		if instance != nil && field.Has(schema.TagCreateOnly) {
			continue
		}
		control := s.control(model, field)
		if instance != nil {
			s.populate(&control, field, instance)
		}
		controls = append(controls, control)
	}
	return controls
}

func (s *session) control(model *schema.Model, field schema.Field) descriptor.FormControlDescriptor {
	control := descriptor.FormControlDescriptor{
		Name:       field.Name,
		Type:       descriptor.ControlInput,
		Properties: []descriptor.PropertyDescriptor{},
	}
	ctx := &controlContext{session: s, model: model, field: field, control: &control}
	control.Label = s.message(ctx.key("label"))
	control.Hint = s.message(ctx.key("hint"))

	if !field.Has(schema.TagTypeOverride) {
		switch {
		case field.Kind == schema.KindTemporal:
			control.Type = descriptor.ControlDatepicker
		case field.Kind.Numeric():
			control.AddProperty(propertyType, "number")
		case field.Kind == schema.KindBoolean:
			control.Type = descriptor.ControlCheckbox
		}
	}

	s.gen.controls.Dispatch(ctx, field.Tags)
	return control
}

// nested builds the controls of a referenced model without an instance. A
// model already on the expansion path, or a path at the depth limit, yields
// no controls.
func (s *session) nested(owner schema.Field, model *schema.Model) []descriptor.FormControlDescriptor {
	if model == nil {
		return nil
	}
	for _, expanding := range s.path {
		if expanding == model {
			s.logger.Warn().Str("field", owner.Name).Str("nested", model.Qualified()).Msg("cyclic model reference not expanded")
			return nil
		}
	}
	if len(s.path) >= s.gen.maxDepth {
		s.logger.Warn().Str("field", owner.Name).Int("max_depth", s.gen.maxDepth).Msg("nested model depth limit reached")
		return nil
	}
	return s.controls(model, nil)
}

// populate stores the instance value of field on control. Autocomplete
// controls receive a key/display pair instead of the raw value.
func (s *session) populate(control *descriptor.FormControlDescriptor, field schema.Field, instance any) {
	raw, ok := s.read(instance, field.Name)
	if !ok {
		return
	}
	for _, tag := range field.Tags {
		auto, isAuto := tag.(schema.Autocomplete)
		if !isAuto {
			continue
		}
		key := stringify(raw)
		pair := descriptor.NameValuePair{Key: key, Value: key}
		if auto.DisplayField != "" && !isNil(raw) {
			if display, err := s.gen.reader.ReadField(raw, auto.DisplayField); err == nil && !isNil(display) {
				pair.Value = stringify(display)
			}
		}
		control.SetValue(pair)
		return
	}
	control.SetValue(controlValue(raw))
}

func controlValue(raw any) any {
	if t, ok := raw.(time.Time); ok {
		return t.Format(time.RFC3339)
	}
	return raw
}

func stringify(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case time.Time:
		return typed.Format(time.RFC3339)
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(typed)
	}
}
