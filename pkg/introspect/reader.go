package introspect

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formdescriptor/pkg/schema"
)

// Reader reads instance fields by control name. It accepts structs (and
// pointers to structs) as well as string-keyed maps.
type Reader struct {
	indexes sync.Map // reflect.Type -> map[string][]int
}

var defaultReader = &Reader{}

// ReadField reads name from instance using the package-level reader.
func ReadField(instance any, name string) (any, error) {
	return defaultReader.ReadField(instance, name)
}

// DefaultReader exposes the package-level reader as a schema.FieldReader.
func DefaultReader() schema.FieldReader {
	return defaultReader
}

// ReadField implements schema.FieldReader. Absence is reported through the
// schema sentinel errors; any other error means the instance shape is not
// supported.
func (r *Reader) ReadField(instance any, name string) (any, error) {
	if instance == nil {
		return nil, schema.ErrNilInstance
	}
	v := reflect.ValueOf(instance)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, schema.ErrNilInstance
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		return r.readStruct(v, name)
	case reflect.Map:
		return readMap(v, name)
	default:
		return nil, fmt.Errorf("introspect: cannot read field %q from %s", name, v.Type())
	}
}

func (r *Reader) readStruct(v reflect.Value, name string) (any, error) {
	index, ok := r.index(v.Type())[name]
	if !ok {
		index, ok = r.foldIndex(v.Type(), name)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q on %s", schema.ErrFieldNotFound, name, v.Type())
	}

	field, err := v.FieldByIndexErr(index)
	if err != nil {
		// nil embedded pointer on the path
		return nil, fmt.Errorf("%w: %q", schema.ErrNilValue, name)
	}
	return valueOf(field, name)
}

func readMap(v reflect.Value, name string) (any, error) {
	if v.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("introspect: cannot read field %q from %s", name, v.Type())
	}
	if v.IsNil() {
		return nil, schema.ErrNilInstance
	}
	entry := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
	if !entry.IsValid() {
		return nil, fmt.Errorf("%w: %q", schema.ErrFieldNotFound, name)
	}
	return valueOf(entry, name)
}

func valueOf(field reflect.Value, name string) (any, error) {
	switch field.Kind() {
	case reflect.Pointer, reflect.Interface:
		if field.IsNil() {
			return nil, fmt.Errorf("%w: %q", schema.ErrNilValue, name)
		}
		return valueOf(field.Elem(), name)
	case reflect.Map, reflect.Slice:
		if field.IsNil() {
			return nil, fmt.Errorf("%w: %q", schema.ErrNilValue, name)
		}
	case reflect.Invalid:
		return nil, fmt.Errorf("%w: %q", schema.ErrNilValue, name)
	}
	if !field.CanInterface() {
		return nil, fmt.Errorf("%w: %q is unexported", schema.ErrFieldNotFound, name)
	}
	return field.Interface(), nil
}

// index maps control names to struct field index paths, following the same
// naming and flattening rules as the introspector.
func (r *Reader) index(t reflect.Type) map[string][]int {
	if cached, ok := r.indexes.Load(t); ok {
		return cached.(map[string][]int)
	}
	out := make(map[string][]int)
	buildIndex(t, nil, out, map[reflect.Type]bool{t: true})
	actual, _ := r.indexes.LoadOrStore(t, out)
	return actual.(map[string][]int)
}

// buildIndex skips embedded structs already being indexed on the current
// path, so self-embedding types terminate.
func buildIndex(t reflect.Type, prefix []int, out map[string][]int, visiting map[reflect.Type]bool) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		path := append(append([]int(nil), prefix...), i)
		if embedded, ok := flattenable(sf); ok {
			if visiting[embedded] {
				continue
			}
			visiting[embedded] = true
			buildIndex(embedded, path, out, visiting)
			delete(visiting, embedded)
			continue
		}
		name, skip := FieldName(sf)
		if skip {
			continue
		}
		if _, exists := out[name]; !exists {
			out[name] = path
		}
	}
}

// foldIndex matches name case-insensitively. Candidates are tried in sorted
// order so names differing only in case always resolve to the same field.
func (r *Reader) foldIndex(t reflect.Type, name string) ([]int, bool) {
	index := r.index(t)
	keys := make([]string, 0, len(index))
	for key := range index {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if strings.EqualFold(key, name) {
			return index[key], true
		}
	}
	if sf, ok := t.FieldByNameFunc(func(candidate string) bool {
		return strings.EqualFold(candidate, name)
	}); ok && sf.IsExported() {
		return sf.Index, true
	}
	return nil, false
}
