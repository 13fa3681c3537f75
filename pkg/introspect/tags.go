package introspect

import (
	"fmt"
	"strconv"
	"strings"
)

// Struct tag keys understood by the introspector.
const (
	tagForm         = "form"
	tagPattern      = "pattern"
	tagAutocomplete = "autocomplete"
	tagSearch       = "search"
)

// Items of the form tag.
const (
	itemRequired   = "required"
	itemNotEmpty   = "notempty"
	itemNotBlank   = "notblank"
	itemEmail      = "email"
	itemMin        = "min"
	itemMax        = "max"
	itemSize       = "size"
	itemType       = "type"
	itemProp       = "prop"
	itemOptions    = "options"
	itemChildren   = "children"
	itemTitleKeys  = "titlekeys"
	itemCreateOnly = "createonly"
)

type tagItem struct {
	key   string
	value string
	set   bool
}

// parseFormTag splits `form:"required,min=1,prop=type:password"` into ordered
// items. Values may not contain commas; regular expressions belong in the
// dedicated pattern tag.
func parseFormTag(raw string) []tagItem {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]tagItem, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, set := strings.Cut(part, "=")
		items = append(items, tagItem{
			key:   strings.ToLower(strings.TrimSpace(key)),
			value: strings.TrimSpace(value),
			set:   set,
		})
	}
	return items
}

// parseAttributes splits `endpoint=/users;display=name` into a map.
func parseAttributes(raw string) map[string]string {
	attrs := make(map[string]string)
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		attrs[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return attrs
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseBound(item tagItem) (int64, error) {
	if !item.set || item.value == "" {
		return 0, fmt.Errorf("%s requires a value", item.key)
	}
	value, err := strconv.ParseInt(item.value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", item.key, err)
	}
	return value, nil
}

// parseSize accepts "min:max" where either side may be empty.
func parseSize(item tagItem) (int, int, error) {
	if !item.set || item.value == "" {
		return 0, 0, fmt.Errorf("size requires a value")
	}
	rawMin, rawMax, found := strings.Cut(item.value, ":")
	if !found {
		return 0, 0, fmt.Errorf("size %q must be written as min:max", item.value)
	}
	parse := func(s string) (int, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("size: %w", err)
		}
		if n < 0 {
			return 0, fmt.Errorf("size bound %d is negative", n)
		}
		return n, nil
	}
	minValue, err := parse(rawMin)
	if err != nil {
		return 0, 0, err
	}
	maxValue, err := parse(rawMax)
	if err != nil {
		return 0, 0, err
	}
	return minValue, maxValue, nil
}
