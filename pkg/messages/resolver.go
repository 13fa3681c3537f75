package messages

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
)

var (
	// ErrMissingMessage is returned when no catalog entry exists for a key.
	ErrMissingMessage = errors.New("messages: missing message")
	// ErrMissingResolver is passed to MissingHandler when no resolver is set.
	ErrMissingResolver = errors.New("messages: resolver not configured")
)

// Resolver turns a message key into a localized string. Implementations must
// be safe for concurrent read-only use.
type Resolver interface {
	Resolve(locale language.Tag, key string, params ...any) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(locale language.Tag, key string, params ...any) (string, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(locale language.Tag, key string, params ...any) (string, error) {
	return f(locale, key, params...)
}

// MissingHandler decides the string used when a key cannot be resolved. err
// carries the resolver failure (ErrMissingMessage for a plain miss).
type MissingHandler func(locale language.Tag, key string, params []any, err error) string

// KeyFallback is the default MissingHandler: a miss resolves to the raw key so
// the client always receives a non-empty, traceable string.
func KeyFallback(_ language.Tag, key string, _ []any, _ error) string {
	return key
}

// Lookup resolves key and never fails: a nil resolver, a resolver error or an
// empty message are all routed through onMissing (KeyFallback when nil).
func Lookup(r Resolver, onMissing MissingHandler, locale language.Tag, key string, params ...any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if onMissing == nil {
		onMissing = KeyFallback
	}
	if r == nil {
		return onMissing(locale, key, params, ErrMissingResolver)
	}

	msg, err := r.Resolve(locale, key, params...)
	if err == nil && strings.TrimSpace(msg) != "" {
		return msg
	}
	if err == nil {
		err = ErrMissingMessage
	}
	return onMissing(locale, key, params, err)
}
