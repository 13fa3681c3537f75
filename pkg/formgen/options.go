package formgen

import (
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/goliatone/go-formdescriptor/pkg/messages"
	"github.com/goliatone/go-formdescriptor/pkg/schema"
)

const (
	// DefaultMethod is used when a request does not name one.
	DefaultMethod = "POST"
	// DefaultMaxDepth bounds nested model expansion.
	DefaultMaxDepth = 8
	// DefaultDateLayout formats temporal audit values.
	DefaultDateLayout = "2006-01-02"
)

// DefaultLocale is used when a request does not carry a locale.
var DefaultLocale = language.English

// Option customises a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for degraded reads, missing messages and
// recursion cut-offs.
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithFieldReader replaces the reader used to pull values off instances.
func WithFieldReader(reader schema.FieldReader) Option {
	return func(g *Generator) {
		if reader != nil {
			g.reader = reader
		}
	}
}

// WithDefaultLocale overrides the locale used when a request omits one.
func WithDefaultLocale(locale language.Tag) Option {
	return func(g *Generator) {
		if locale != language.Und {
			g.locale = locale
		}
	}
}

// WithMaxDepth bounds nested expansion of children, autocomplete filters and
// search forms. Values below one are ignored.
func WithMaxDepth(depth int) Option {
	return func(g *Generator) {
		if depth > 0 {
			g.maxDepth = depth
		}
	}
}

// WithDateLayout sets the time layout used for temporal audit values.
func WithDateLayout(layout string) Option {
	return func(g *Generator) {
		if strings.TrimSpace(layout) != "" {
			g.dateLayout = layout
		}
	}
}

// WithMissingHandler replaces the raw-key fallback applied when a message
// cannot be resolved.
func WithMissingHandler(handler messages.MissingHandler) Option {
	return func(g *Generator) {
		if handler != nil {
			g.onMissing = handler
		}
	}
}
