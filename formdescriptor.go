// Package formdescriptor is the quick-start surface of the module: it wires a
// model source, a message resolver and the generator behind a few calls.
// The subpackages remain the full API.
package formdescriptor

import (
	"context"

	"github.com/goliatone/go-formdescriptor/pkg/descriptor"
	"github.com/goliatone/go-formdescriptor/pkg/formgen"
	"github.com/goliatone/go-formdescriptor/pkg/introspect"
	"github.com/goliatone/go-formdescriptor/pkg/messages"
	"github.com/goliatone/go-formdescriptor/pkg/openapi"
)

// Request aliases formgen.Request; Model may be left nil for the helpers
// below, which fill it in.
type Request = formgen.Request

// FormDescriptor aliases the generated output.
type FormDescriptor = descriptor.FormDescriptor

// NewGenerator exposes the generator constructor from the module root.
func NewGenerator(resolver messages.Resolver, options ...formgen.Option) *formgen.Generator {
	return formgen.New(resolver, options...)
}

// NewLoader constructs an OpenAPI document loader.
func NewLoader(options ...openapi.LoaderOption) *openapi.Loader {
	return openapi.NewLoader(options...)
}

// GenerateFor introspects T with the shared introspector and builds its
// descriptor. req.Instance, when set, should hold a T or *T.
func GenerateFor[T any](ctx context.Context, resolver messages.Resolver, req Request, options ...formgen.Option) (*FormDescriptor, error) {
	model, err := introspect.Of[T]()
	if err != nil {
		return nil, err
	}
	req.Model = model
	return formgen.New(resolver, options...).Generate(ctx, req)
}

// GenerateFromDocument builds the descriptor of the named component schema of
// a pre-loaded OpenAPI document.
func GenerateFromDocument(ctx context.Context, doc openapi.Document, model string, resolver messages.Resolver, req Request, options ...formgen.Option) (*FormDescriptor, error) {
	catalog, err := openapi.NewCatalog(ctx, doc)
	if err != nil {
		return nil, err
	}
	m, err := catalog.Model(model)
	if err != nil {
		return nil, err
	}
	req.Model = m
	return formgen.New(resolver, options...).Generate(ctx, req)
}
