package formgen

import (
	"reflect"
	"strings"
	"time"

	"github.com/goliatone/go-formdescriptor/pkg/descriptor"
)

const propertyReadOnly = "readOnly"

// AuditFields lists the probed audit field names in probe order.
var AuditFields = []string{"createdDate", "createdBy", "modifiedDate", "modifiedBy"}

// audit appends a read-only control for every populated audit field of the
// instance and returns the audit keys in probe order. A model control with an
// audit name is replaced so control names stay unique.
func (s *session) audit(instance any, controls []descriptor.FormControlDescriptor) ([]descriptor.FormControlDescriptor, []string) {
	if instance == nil {
		return controls, nil
	}
	var keys []string
	for _, name := range AuditFields {
		raw, ok := s.read(instance, name)
		if !ok || isZero(raw) {
			continue
		}
		control := descriptor.FormControlDescriptor{
			Name:       name,
			Label:      s.message(messageKey(name, "label")),
			Type:       descriptor.ControlInput,
			Properties: []descriptor.PropertyDescriptor{},
		}
		control.AddProperty(propertyReadOnly, true)
		control.SetValue(s.auditValue(name, raw))

		controls = removeControl(controls, name)
		controls = append(controls, control)
		keys = append(keys, name)
	}
	return controls, keys
}

// auditValue formats audit dates with the configured layout. Dates decoded
// from JSON instances arrive as RFC 3339 strings.
func (s *session) auditValue(name string, raw any) any {
	switch v := raw.(type) {
	case time.Time:
		return v.Format(s.gen.dateLayout)
	case string:
		if !strings.HasSuffix(name, "Date") {
			return v
		}
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t.Format(s.gen.dateLayout)
		}
	}
	return raw
}

func removeControl(controls []descriptor.FormControlDescriptor, name string) []descriptor.FormControlDescriptor {
	for i := range controls {
		if controls[i].Name == name {
			return append(controls[:i], controls[i+1:]...)
		}
	}
	return controls
}

func isZero(v any) bool {
	if isNil(v) {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}
