package formgen

import "errors"

var (
	// ErrContextRequired reports a nil context.
	ErrContextRequired = errors.New("formgen: context is required")
	// ErrModelRequired reports a request without a model.
	ErrModelRequired = errors.New("formgen: model is required")
	// ErrEndpointRequired reports a request without a submit endpoint.
	ErrEndpointRequired = errors.New("formgen: endpoint is required")
)
