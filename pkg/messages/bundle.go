package messages

import (
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// BundleOption customises a Bundle.
type BundleOption func(*Bundle)

// WithPolicy replaces the markup policy applied to every catalog entry.
func WithPolicy(policy *bluemonday.Policy) BundleOption {
	return func(b *Bundle) {
		b.policy = policy
	}
}

// WithoutSanitizer keeps catalog entries verbatim.
func WithoutSanitizer() BundleOption {
	return func(b *Bundle) {
		b.policy = nil
	}
}

// Bundle is an in-memory, multi-locale message catalog. Lookups try the
// closest supported locale first and then the fallback locale. Parameterized
// messages use fmt-style verbs and are formatted with a locale-aware printer.
//
// A Bundle is safe for concurrent use.
type Bundle struct {
	mu       sync.RWMutex
	fallback language.Tag
	tags     []language.Tag
	matcher  language.Matcher
	entries  map[language.Tag]map[string]string
	catalog  *catalog.Builder
	policy   *bluemonday.Policy
}

var _ Resolver = (*Bundle)(nil)

// NewBundle constructs an empty bundle. fallback is consulted when a key is
// missing for the requested locale.
func NewBundle(fallback language.Tag, opts ...BundleOption) *Bundle {
	b := &Bundle{
		fallback: fallback,
		entries:  make(map[language.Tag]map[string]string),
		catalog:  catalog.NewBuilder(catalog.Fallback(fallback)),
		policy:   defaultPolicy(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(b)
	}
	b.matcher = language.NewMatcher([]language.Tag{fallback})
	return b
}

// Add registers messages for a locale, overriding existing keys.
func (b *Bundle) Add(locale language.Tag, entries map[string]string) error {
	if b == nil {
		return fmt.Errorf("messages: bundle is nil")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	target, ok := b.entries[locale]
	if !ok {
		target = make(map[string]string, len(entries))
		b.entries[locale] = target
		b.tags = append(b.tags, locale)
		b.rebuildMatcher()
	}
	for key, raw := range entries {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		msg := sanitize(b.policy, raw)
		if err := b.catalog.SetString(locale, key, msg); err != nil {
			return fmt.Errorf("messages: set %s/%s: %w", locale, key, err)
		}
		target[key] = msg
	}
	return nil
}

// Locales returns the registered locales in registration order.
func (b *Bundle) Locales() []language.Tag {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]language.Tag(nil), b.tags...)
}

// Fallback returns the fallback locale.
func (b *Bundle) Fallback() language.Tag {
	return b.fallback
}

// Resolve implements Resolver.
func (b *Bundle) Resolve(locale language.Tag, key string, params ...any) (string, error) {
	if b == nil {
		return "", ErrMissingResolver
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, tag := range b.candidates(locale) {
		msg, ok := b.entries[tag][key]
		if !ok {
			continue
		}
		if len(params) == 0 {
			return msg, nil
		}
		printer := message.NewPrinter(tag, message.Catalog(b.catalog))
		return printer.Sprintf(key, params...), nil
	}
	return "", fmt.Errorf("%w: %q (%s)", ErrMissingMessage, key, locale)
}

func (b *Bundle) candidates(locale language.Tag) []language.Tag {
	out := make([]language.Tag, 0, 3)
	if _, ok := b.entries[locale]; ok {
		out = append(out, locale)
	}
	if len(b.tags) > 0 {
		_, index, confidence := b.matcher.Match(locale)
		if confidence != language.No && index >= 0 && index < len(b.tags) {
			if matched := b.tags[index]; matched != locale {
				out = append(out, matched)
			}
		}
	}
	if b.fallback != locale {
		out = append(out, b.fallback)
	}
	return out
}

func (b *Bundle) rebuildMatcher() {
	b.matcher = language.NewMatcher(b.tags)
}
