package introspect

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Registry maps model names to Go types so struct tags can reference nested
// models by name (search forms, result views, autocomplete filters) and so
// entry points can resolve a model from a request path.
type Registry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]reflect.Type)}
}

// Register stores the type of v under name. v may be a value, a pointer or a
// reflect.Type. Duplicate names return an error.
func (r *Registry) Register(name string, v any) error {
	if r == nil {
		return fmt.Errorf("introspect: registry is nil")
	}
	t, err := structType(v)
	if err != nil {
		return err
	}
	key := strings.TrimSpace(name)
	if key == "" {
		key = t.Name()
	}
	if key == "" {
		return fmt.Errorf("introspect: model name is required for anonymous type %s", t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.types[key]; ok && existing != t {
		return fmt.Errorf("introspect: model %q already registered as %s", key, existing)
	}
	r.types[key] = t
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(name string, v any) {
	if err := r.Register(name, v); err != nil {
		panic(err)
	}
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (reflect.Type, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[strings.TrimSpace(name)]
	return t, ok
}

// Names lists registered model names alphabetically.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func structType(v any) (reflect.Type, error) {
	var t reflect.Type
	switch typed := v.(type) {
	case nil:
		return nil, fmt.Errorf("introspect: model type is required")
	case reflect.Type:
		t = typed
	default:
		t = reflect.TypeOf(v)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("introspect: model type must be a struct, got %s", t)
	}
	return t, nil
}
