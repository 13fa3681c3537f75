// Package schema defines the model description the descriptor engine consumes:
// an ordered list of fields, each carrying typed metadata tags, plus the
// class-level groups and list-of-value endpoints. Models are produced by a
// model source such as pkg/introspect (Go structs) or pkg/openapi (OpenAPI
// component schemas) and never by the engine itself.
package schema
