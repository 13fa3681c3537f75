package openapi

import (
	"encoding/json"
	"fmt"
)

const extensionKey = "x-form"

// modelExtension is the x-form object of a component schema.
type modelExtension struct {
	Namespace string              `json:"namespace"`
	Order     []string            `json:"order"`
	Groups    []groupExtension    `json:"groups"`
	Endpoints []endpointExtension `json:"endpoints"`
}

type groupExtension struct {
	Name       string   `json:"name"`
	Properties []string `json:"properties"`
}

type endpointExtension struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// fieldExtension is the x-form object of a property schema.
type fieldExtension struct {
	Type         string                 `json:"type"`
	Properties   []propertyExtension    `json:"properties"`
	Children     bool                   `json:"children"`
	TitleKeys    []string               `json:"titleKeys"`
	Enum         string                 `json:"enum"`
	NotEmpty     bool                   `json:"notEmpty"`
	NotBlank     bool                   `json:"notBlank"`
	CreateOnly   bool                   `json:"createOnly"`
	Autocomplete *autocompleteExtension `json:"autocomplete"`
	Search       *searchExtension       `json:"search"`
}

type propertyExtension struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type autocompleteExtension struct {
	Endpoint string   `json:"endpoint"`
	Display  string   `json:"display"`
	Params   []string `json:"params"`
	Filter   string   `json:"filter"`
}

type searchExtension struct {
	Endpoint string `json:"endpoint"`
	Form     string `json:"form"`
	View     string `json:"view"`
}

// decodeExtension copies the x-form value into target. Extension payloads may
// arrive as decoded maps or raw JSON depending on how the document was read,
// so the value is normalised through JSON.
func decodeExtension(extensions map[string]any, target any) (bool, error) {
	value, ok := extensions[extensionKey]
	if !ok || value == nil {
		return false, nil
	}
	var raw []byte
	switch typed := value.(type) {
	case json.RawMessage:
		raw = typed
	case []byte:
		raw = typed
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return false, fmt.Errorf("encode %s: %w", extensionKey, err)
		}
		raw = encoded
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return false, fmt.Errorf("decode %s: %w", extensionKey, err)
	}
	return true, nil
}
