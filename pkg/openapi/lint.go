package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Violation describes an x-form extension the catalog would ignore or reject.
type Violation struct {
	Location string
	Message  string
}

func (v Violation) String() string {
	return v.Location + " -> " + v.Message
}

var (
	modelKeys        = jsonKeys(modelExtension{})
	fieldKeys        = jsonKeys(fieldExtension{})
	autocompleteKeys = jsonKeys(autocompleteExtension{})
	searchKeys       = jsonKeys(searchExtension{})
)

// Lint checks the x-form extensions of every component schema and its
// properties. Violations are sorted by location.
func Lint(ctx context.Context, doc Document) ([]Violation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(doc.Raw()) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	spec, err := loader.LoadFromData(doc.Raw())
	if err != nil {
		return nil, fmt.Errorf("openapi: load %s: %w", doc.Location(), err)
	}
	if spec.Components == nil {
		return nil, nil
	}

	var result []Violation
	for name, ref := range spec.Components.Schemas {
		if ref == nil || ref.Value == nil {
			continue
		}
		base := []string{"components", "schemas", name}
		result = append(result, lintObject(base, ref.Value.Extensions, modelKeys, &modelExtension{})...)
		for prop, propRef := range ref.Value.Properties {
			if propRef == nil || propRef.Value == nil {
				continue
			}
			result = append(result, lintField(appendPath(base, "properties", prop), propRef.Value.Extensions)...)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Location == result[j].Location {
			return result[i].Message < result[j].Message
		}
		return result[i].Location < result[j].Location
	})
	return result, nil
}

func lintField(path []string, extensions map[string]any) []Violation {
	result := lintObject(path, extensions, fieldKeys, &fieldExtension{})
	nested, ok := extensionValue(extensions).(map[string]any)
	if !ok {
		return result
	}
	for _, sub := range []struct {
		key     string
		allowed map[string]struct{}
	}{
		{"autocomplete", autocompleteKeys},
		{"search", searchKeys},
	} {
		value, ok := nested[sub.key]
		if !ok || value == nil {
			continue
		}
		obj, ok := value.(map[string]any)
		if !ok {
			continue
		}
		result = append(result, unknownKeys(appendPath(path, extensionKey, sub.key), obj, sub.allowed)...)
	}
	return result
}

func lintObject(path []string, extensions map[string]any, allowed map[string]struct{}, target any) []Violation {
	value := extensionValue(extensions)
	if value == nil {
		return nil
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return []Violation{{
			Location: formatLocation(path),
			Message:  fmt.Sprintf("%s must be an object, found %T", extensionKey, value),
		}}
	}
	result := unknownKeys(appendPath(path, extensionKey), obj, allowed)
	if _, err := decodeExtension(extensions, target); err != nil {
		result = append(result, Violation{Location: formatLocation(path), Message: err.Error()})
	}
	return result
}

// extensionValue returns the x-form value, decoding raw JSON payloads.
func extensionValue(extensions map[string]any) any {
	value := extensions[extensionKey]
	var raw []byte
	switch typed := value.(type) {
	case json.RawMessage:
		raw = typed
	case []byte:
		raw = typed
	default:
		return value
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return value
	}
	return decoded
}

func unknownKeys(path []string, obj map[string]any, allowed map[string]struct{}) []Violation {
	var result []Violation
	for key := range obj {
		if _, ok := allowed[key]; ok {
			continue
		}
		result = append(result, Violation{
			Location: formatLocation(path),
			Message:  fmt.Sprintf("unsupported key %q (supported: %s)", key, strings.Join(sortedKeys(allowed), ", ")),
		})
	}
	return result
}

func jsonKeys(v any) map[string]struct{} {
	t := reflect.TypeOf(v)
	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			keys[name] = struct{}{}
		}
	}
	return keys
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func appendPath(path []string, segments ...string) []string {
	next := append([]string(nil), path...)
	return append(next, segments...)
}

func formatLocation(path []string) string {
	return strings.Join(path, " > ")
}
