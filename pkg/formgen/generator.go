package formgen

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/goliatone/go-formdescriptor/internal/dispatch"
	"github.com/goliatone/go-formdescriptor/pkg/descriptor"
	"github.com/goliatone/go-formdescriptor/pkg/introspect"
	"github.com/goliatone/go-formdescriptor/pkg/messages"
	"github.com/goliatone/go-formdescriptor/pkg/schema"
)

const (
	keySubmitLabel    = "submit.label"
	keyCancelLabel    = "cancel.label"
	keySuccessUpdate  = "success.update.message"
	keySuccessCreate  = "success.create.message"
	keyActionsLabel   = "actions.label"
	keySelectionLabel = "selection.label"
)

// Request describes one generation call.
type Request struct {
	// Model is the field schema driving generation.
	Model *schema.Model
	// Endpoint is the submit URL. Required.
	Endpoint string
	// Method defaults to POST and is upper-cased.
	Method string
	// Instance is the populated record for edit forms. Nil produces a create
	// form.
	Instance any
	// Locale defaults to the generator locale.
	Locale language.Tag
	// Title is resolved as a message key; unknown keys pass through.
	Title string
	// SuccessURL is where the client navigates after a successful submit.
	SuccessURL string
	// SuccessMessage overrides the create/update success message.
	SuccessMessage string
	// Multipart asks the client to submit multipart/form-data.
	Multipart bool
	// UpdateTable asks the client to refresh the originating table on
	// success.
	UpdateTable bool
}

// Generator builds form descriptors.
type Generator struct {
	resolver   messages.Resolver
	onMissing  messages.MissingHandler
	reader     schema.FieldReader
	logger     zerolog.Logger
	locale     language.Tag
	maxDepth   int
	dateLayout string
	controls   *dispatch.Dispatcher[*controlContext]
}

// New constructs a Generator resolving messages through resolver. A nil
// resolver is allowed: every message then falls back to its key.
func New(resolver messages.Resolver, opts ...Option) *Generator {
	g := &Generator{
		resolver:   resolver,
		onMissing:  messages.KeyFallback,
		reader:     introspect.DefaultReader(),
		logger:     zerolog.Nop(),
		locale:     DefaultLocale,
		maxDepth:   DefaultMaxDepth,
		dateLayout: DefaultDateLayout,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(g)
	}
	g.controls = newControlDispatcher()
	return g
}

// Generate builds the descriptor for req. It fails only on a nil or cancelled
// context, a missing model or an empty endpoint; message misses and unreadable
// instance fields degrade gracefully.
func (g *Generator) Generate(ctx context.Context, req Request) (*descriptor.FormDescriptor, error) {
	if ctx == nil {
		return nil, ErrContextRequired
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("formgen: generate: %w", err)
	}
	if req.Model == nil {
		return nil, ErrModelRequired
	}
	endpoint := strings.TrimSpace(req.Endpoint)
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}

	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = DefaultMethod
	}
	locale := req.Locale
	if locale == language.Und {
		locale = g.locale
	}
	instance := req.Instance
	if isNil(instance) {
		instance = nil
	}

	s := &session{
		gen:    g,
		locale: locale,
		logger: g.logger.With().Str("model", req.Model.Qualified()).Logger(),
	}

	form := &descriptor.FormDescriptor{
		Endpoint:    endpoint,
		Method:      method,
		Multipart:   req.Multipart,
		SuccessURL:  req.SuccessURL,
		UpdateTable: req.UpdateTable,
	}

	groups := initGroups(req.Model)
	form.Endpoints = initEndpoints(req.Model)
	controls := s.controls(req.Model, instance)
	controls, auditKeys := s.audit(instance, controls)
	form.Controls = controls
	form.Groups = mergeGroups(groups, controls, auditKeys)

	if title := strings.TrimSpace(req.Title); title != "" {
		form.Title = s.message(title)
	}
	form.SubmitLabel = s.message(keySubmitLabel)
	form.CancelLabel = s.message(keyCancelLabel)
	form.SuccessMessage = strings.TrimSpace(req.SuccessMessage)
	if form.SuccessMessage == "" {
		successKey := keySuccessCreate
		if instance != nil {
			successKey = keySuccessUpdate
		}
		form.SuccessMessage = s.message(messageKey(req.Model.Qualified(), successKey))
	}

	return form, nil
}

// session holds the call-local state of one Generate call.
type session struct {
	gen    *Generator
	locale language.Tag
	logger zerolog.Logger
	// path is the stack of models currently being expanded.
	path []*schema.Model
}

func (s *session) message(key string, params ...any) string {
	return messages.Lookup(s.gen.resolver, s.onMissing, s.locale, key, params...)
}

func (s *session) onMissing(locale language.Tag, key string, params []any, err error) string {
	s.logger.Debug().Err(err).Str("key", key).Str("locale", locale.String()).Msg("message not resolved")
	return s.gen.onMissing(locale, key, params, err)
}

// read returns the instance value of name. Expected absence is silent, any
// other failure is logged and also treated as absent.
func (s *session) read(instance any, name string) (any, bool) {
	if instance == nil {
		return nil, false
	}
	value, err := s.gen.reader.ReadField(instance, name)
	if err != nil {
		if !schema.IsAbsent(err) {
			s.logger.Warn().Err(err).Str("field", name).Msg("field read failed")
		}
		return nil, false
	}
	return value, true
}

// messageKey joins the non-empty parts of a message key with dots.
func messageKey(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, ".")
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
