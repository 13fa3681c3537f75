package testsupport

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/goliatone/go-formdescriptor/pkg/messages"
)

// Resolver is a deterministic messages.Resolver for tests. Known keys resolve
// through fmt.Sprintf with the supplied params; unknown keys report
// messages.ErrMissingMessage. Locales are ignored unless a key is registered
// for a specific one with "<locale>:<key>".
type Resolver struct {
	Messages map[string]string
}

// NewResolver builds a Resolver from key/message pairs.
func NewResolver(entries map[string]string) *Resolver {
	copied := make(map[string]string, len(entries))
	for key, msg := range entries {
		copied[key] = msg
	}
	return &Resolver{Messages: copied}
}

// Resolve implements messages.Resolver.
func (r *Resolver) Resolve(locale language.Tag, key string, params ...any) (string, error) {
	if r == nil {
		return "", messages.ErrMissingResolver
	}
	msg, ok := r.Messages[locale.String()+":"+key]
	if !ok {
		msg, ok = r.Messages[key]
	}
	if !ok {
		return "", fmt.Errorf("%w: %q", messages.ErrMissingMessage, key)
	}
	if len(params) > 0 && strings.Contains(msg, "%") {
		return fmt.Sprintf(msg, params...), nil
	}
	return msg, nil
}

// EchoResolver resolves every key to "[locale] key", appending params, so
// tests can assert which key and parameters the engine asked for.
var EchoResolver = messages.ResolverFunc(func(locale language.Tag, key string, params ...any) (string, error) {
	if len(params) == 0 {
		return fmt.Sprintf("[%s] %s", locale, key), nil
	}
	return fmt.Sprintf("[%s] %s %v", locale, key, params), nil
})
