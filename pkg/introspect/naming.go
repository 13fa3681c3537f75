package introspect

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FieldName derives the control name of a struct field: the JSON name when
// one is declared, otherwise the lower-camel form of the Go name. skip is
// true for unexported fields and fields tagged `form:"-"` or `json:"-"`.
func FieldName(sf reflect.StructField) (name string, skip bool) {
	if !sf.IsExported() {
		return "", true
	}
	if strings.TrimSpace(sf.Tag.Get(tagForm)) == "-" {
		return "", true
	}
	if jsonTag, ok := sf.Tag.Lookup("json"); ok {
		jsonName, _, _ := strings.Cut(jsonTag, ",")
		if jsonName == "-" {
			return "", true
		}
		if jsonName != "" {
			return jsonName, false
		}
	}
	return LowerCamel(sf.Name), false
}

// LowerCamel lowers the leading upper-case run of a Go identifier so
// "FullName" becomes "fullName", "ID" becomes "id" and "URLPath" becomes
// "urlPath".
func LowerCamel(name string) string {
	if name == "" {
		return ""
	}
	runes := []rune(name)
	upper := 0
	for upper < len(runes) && isUpper(runes[upper]) {
		upper++
	}
	switch {
	case upper == 0:
		return name
	case upper == len(runes):
		return strings.ToLower(name)
	case upper == 1:
		r, size := utf8.DecodeRuneInString(name)
		return string(unicode.ToLower(r)) + name[size:]
	default:
		// Keep the last capital of an acronym as the start of the next word.
		head := strings.ToLower(string(runes[:upper-1]))
		return head + string(runes[upper-1:])
	}
}

func isUpper(r rune) bool { return unicode.IsUpper(r) }
