// Package openapi builds schema models from the component schemas of an
// OpenAPI 3 document. Standard keywords map onto field tags and the "x-form"
// extension carries the form-specific metadata (groups, endpoints, property
// order, children, lookups).
package openapi
